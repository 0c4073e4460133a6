package schedule

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SLN-BookingService/internal/domain"
	"github.com/m04kA/SLN-BookingService/pkg/dbmetrics"
	"github.com/m04kA/SLN-BookingService/pkg/psqlbuilder"
)

var ruleColumns = []string{
	"id",
	"salon_id",
	"staff_id",
	"weekday",
	"open_time",
	"close_time",
	"is_day_off",
	"created_at",
	"updated_at",
}

// Repository репозиторий правил рабочих часов
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория расписаний
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetRuleForDay получает правило рабочих часов на день недели с учетом иерархии:
// 1. Если staffID задан - правило конкретного мастера
// 2. Если правила мастера нет (или staffID nil) - правило салона (staff_id IS NULL)
// Если правил нет вообще, возвращает ErrRuleNotFound - дефолтное окно
// применяет вызывающий слой
func (r *Repository) GetRuleForDay(ctx context.Context, salonID int64, staffID *int64, weekday time.Weekday) (*domain.WorkingHoursRule, error) {
	if staffID != nil {
		rule, err := r.getRule(ctx, salonID, staffID, weekday)
		if err == nil {
			return rule, nil
		}
		if !errors.Is(err, ErrRuleNotFound) {
			return nil, err
		}
		// Правила мастера нет - fallback на правило салона
	}

	return r.getRule(ctx, salonID, nil, weekday)
}

func (r *Repository) getRule(ctx context.Context, salonID int64, staffID *int64, weekday time.Weekday) (*domain.WorkingHoursRule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(ruleColumns...).
		From("working_hours_rules").
		Where(squirrel.Eq{"salon_id": salonID}).
		Where(squirrel.Eq{"weekday": int(weekday)})

	if staffID == nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"staff_id": nil})
	} else {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"staff_id": *staffID})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: getRule - build select query: %v", ErrBuildQuery, err)
	}

	rule, err := scanRule(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRuleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: getRule - scan rule: %v", ErrScanRow, err)
	}

	return rule, nil
}

// ListRules получает все правила субъекта (салона или конкретного мастера),
// отсортированные по дню недели
func (r *Repository) ListRules(ctx context.Context, salonID int64, staffID *int64) ([]*domain.WorkingHoursRule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(ruleColumns...).
		From("working_hours_rules").
		Where(squirrel.Eq{"salon_id": salonID}).
		OrderBy("weekday ASC")

	if staffID == nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"staff_id": nil})
	} else {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"staff_id": *staffID})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListRules - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListRules - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	rules := make([]*domain.WorkingHoursRule, 0)
	for rows.Next() {
		rule, err := scanRule(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListRules - scan row: %v", ErrScanRow, err)
		}
		rules = append(rules, rule)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListRules - rows error: %v", ErrScanRow, err)
	}

	return rules, nil
}

// ReplaceRules заменяет весь набор правил субъекта (салона или мастера)
// Вызывается внутри транзакции: удаление и вставка атомарны для читателей
func (r *Repository) ReplaceRules(ctx context.Context, salonID int64, staffID *int64, rules []*domain.WorkingHoursRule) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	deleteBuilder := psqlbuilder.Delete("working_hours_rules").
		Where(squirrel.Eq{"salon_id": salonID})

	if staffID == nil {
		deleteBuilder = deleteBuilder.Where(squirrel.Eq{"staff_id": nil})
	} else {
		deleteBuilder = deleteBuilder.Where(squirrel.Eq{"staff_id": *staffID})
	}

	query, args, err := deleteBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: ReplaceRules - build delete query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: ReplaceRules - execute delete: %v", ErrExecQuery, err)
	}

	if len(rules) == 0 {
		return nil
	}

	insertBuilder := psqlbuilder.Insert("working_hours_rules").
		Columns("salon_id", "staff_id", "weekday", "open_time", "close_time", "is_day_off")

	for _, rule := range rules {
		insertBuilder = insertBuilder.Values(
			salonID,
			staffID,
			int(rule.Weekday),
			rule.OpenTime,
			rule.CloseTime,
			rule.IsDayOff,
		)
	}

	query, args, err = insertBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: ReplaceRules - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: ReplaceRules - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}

// rowScanner общий интерфейс *sql.Row и *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRule(row rowScanner) (*domain.WorkingHoursRule, error) {
	var rule domain.WorkingHoursRule
	var staffID sql.NullInt64
	var weekday int
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&rule.ID,
		&rule.SalonID,
		&staffID,
		&weekday,
		&rule.OpenTime,
		&rule.CloseTime,
		&rule.IsDayOff,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if staffID.Valid {
		rule.StaffID = &staffID.Int64
	}
	rule.Weekday = time.Weekday(weekday)
	rule.CreatedAt = createdAt.Time
	rule.UpdatedAt = updatedAt.Time

	return &rule, nil
}
