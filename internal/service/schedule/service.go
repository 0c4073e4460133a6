package schedule

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SLN-BookingService/internal/domain"
	catalogClient "github.com/m04kA/SLN-BookingService/internal/integrations/catalogservice"
	"github.com/m04kA/SLN-BookingService/internal/service/schedule/models"
	"github.com/m04kA/SLN-BookingService/pkg/types"
)

// Service сервис для работы с расписаниями рабочих часов
type Service struct {
	scheduleRepo  ScheduleRepository
	catalogClient CatalogServiceClient
	txManager     TransactionManager
	logger        Logger
}

// NewService создает новый экземпляр сервиса расписаний
func NewService(
	scheduleRepo ScheduleRepository,
	catalogClient CatalogServiceClient,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		scheduleRepo:  scheduleRepo,
		catalogClient: catalogClient,
		txManager:     txManager,
		logger:        logger,
	}
}

// GetSchedule получает расписание салона или конкретного мастера
// Публичный метод - используется клиентами для просмотра рабочих часов
// Дни недели без правил работают по окну по умолчанию
func (s *Service) GetSchedule(ctx context.Context, req *models.GetScheduleRequest) (*models.ScheduleResponse, error) {
	s.logger.Info("GetSchedule: fetching schedule for salon=%d, staff=%v", req.SalonID, req.StaffID)

	// Проверяем существование салона
	if _, err := s.catalogClient.GetSalon(ctx, req.SalonID); err != nil {
		if errors.Is(err, catalogClient.ErrSalonNotFound) {
			s.logger.Warn("GetSchedule: salon id=%d not found", req.SalonID)
			return nil, ErrSalonNotFound
		}
		s.logger.Error("GetSchedule: failed to get salon id=%d: %v", req.SalonID, err)
		return nil, fmt.Errorf("%w: failed to get salon: %v", ErrInternal, err)
	}

	rules, err := s.scheduleRepo.ListRules(ctx, req.SalonID, req.StaffID)
	if err != nil {
		s.logger.Error("GetSchedule: repository error for salon=%d: %v", req.SalonID, err)
		return nil, fmt.Errorf("%w: GetSchedule - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetSchedule: successfully fetched %d rules for salon=%d", len(rules), req.SalonID)
	return models.FromDomainRules(req.SalonID, req.StaffID, rules), nil
}

// UpdateSchedule полностью заменяет расписание салона или мастера
// Доступно только менеджерам салона
// Замена выполняется в транзакции: читатели не видят промежуточного состояния
func (s *Service) UpdateSchedule(ctx context.Context, req *models.UpdateScheduleRequest) (*models.ScheduleResponse, error) {
	s.logger.Info("UpdateSchedule: updating schedule for salon=%d, staff=%v by user=%d",
		req.SalonID, req.StaffID, req.UserID)

	// 1. Валидируем входные данные
	if err := s.validateRules(req.Rules); err != nil {
		s.logger.Warn("UpdateSchedule: validation failed for salon=%d: %v", req.SalonID, err)
		return nil, err
	}

	// 2. Получаем салон для проверки прав доступа
	salon, err := s.catalogClient.GetSalon(ctx, req.SalonID)
	if err != nil {
		if errors.Is(err, catalogClient.ErrSalonNotFound) {
			s.logger.Warn("UpdateSchedule: salon id=%d not found", req.SalonID)
			return nil, ErrSalonNotFound
		}
		s.logger.Error("UpdateSchedule: failed to get salon id=%d: %v", req.SalonID, err)
		return nil, fmt.Errorf("%w: failed to get salon: %v", ErrInternal, err)
	}

	// 3. Проверяем права доступа (только менеджер салона)
	if !salon.IsManager(req.UserID) {
		s.logger.Warn("UpdateSchedule: user=%d is not a manager of salon=%d", req.UserID, req.SalonID)
		return nil, ErrAccessDenied
	}

	// 4. Если расписание мастера - проверяем, что мастер существует в салоне
	if req.StaffID != nil {
		if _, err := s.catalogClient.GetStaff(ctx, req.SalonID, *req.StaffID); err != nil {
			if errors.Is(err, catalogClient.ErrStaffNotFound) {
				s.logger.Warn("UpdateSchedule: staff id=%d not found in salon=%d", *req.StaffID, req.SalonID)
				return nil, ErrStaffNotFound
			}
			s.logger.Error("UpdateSchedule: failed to get staff id=%d: %v", *req.StaffID, err)
			return nil, fmt.Errorf("%w: failed to get staff: %v", ErrInternal, err)
		}
	}

	// 5. Конвертируем правила в domain модели
	domainRules := make([]*domain.WorkingHoursRule, len(req.Rules))
	for i, rule := range req.Rules {
		domainRules[i] = rule.ToDomainRule(req.SalonID, req.StaffID)
	}

	// 6. Заменяем набор правил атомарно
	err = s.txManager.Do(ctx, func(ctx context.Context) error {
		return s.scheduleRepo.ReplaceRules(ctx, req.SalonID, req.StaffID, domainRules)
	})
	if err != nil {
		s.logger.Error("UpdateSchedule: repository error for salon=%d: %v", req.SalonID, err)
		return nil, fmt.Errorf("%w: UpdateSchedule - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("UpdateSchedule: successfully replaced %d rules for salon=%d, staff=%v",
		len(domainRules), req.SalonID, req.StaffID)
	return models.FromDomainRules(req.SalonID, req.StaffID, domainRules), nil
}

// Вспомогательные методы

// validateRules валидирует набор правил рабочих часов
func (s *Service) validateRules(rules []*models.RuleItem) error {
	seen := make(map[int]bool, len(rules))

	for _, rule := range rules {
		if rule == nil {
			return fmt.Errorf("%w: rule must not be null", ErrInvalidInput)
		}

		// Проверяем день недели (0 = воскресенье ... 6 = суббота)
		if rule.Weekday < 0 || rule.Weekday > 6 {
			return fmt.Errorf("%w: weekday must be between 0 and 6", ErrInvalidInput)
		}

		// Не больше одного правила на день недели
		if seen[rule.Weekday] {
			return fmt.Errorf("%w: duplicate rule for weekday %d", ErrInvalidInput, rule.Weekday)
		}
		seen[rule.Weekday] = true

		// Для выходного дня окно не проверяем
		if rule.IsDayOff {
			continue
		}

		openTime := types.TimeString(rule.OpenTime)
		if err := openTime.Validate(); err != nil {
			return fmt.Errorf("%w: openTime must be in HH:MM format", ErrInvalidInput)
		}

		closeTime := types.TimeString(rule.CloseTime)
		if err := closeTime.Validate(); err != nil {
			return fmt.Errorf("%w: closeTime must be in HH:MM format", ErrInvalidInput)
		}

		// Окно должно быть непустым
		if !openTime.IsBefore(closeTime) {
			return fmt.Errorf("%w: openTime must be before closeTime", ErrInvalidInput)
		}
	}

	return nil
}
