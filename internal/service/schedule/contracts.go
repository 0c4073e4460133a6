package schedule

import (
	"context"

	"github.com/m04kA/SLN-BookingService/internal/domain"
	catalogClient "github.com/m04kA/SLN-BookingService/internal/integrations/catalogservice"
)

// ScheduleRepository интерфейс репозитория правил рабочих часов
type ScheduleRepository interface {
	ListRules(ctx context.Context, salonID int64, staffID *int64) ([]*domain.WorkingHoursRule, error)
	ReplaceRules(ctx context.Context, salonID int64, staffID *int64, rules []*domain.WorkingHoursRule) error
}

// CatalogServiceClient интерфейс клиента CatalogService
type CatalogServiceClient interface {
	GetSalon(ctx context.Context, salonID int64) (*catalogClient.Salon, error)
	GetStaff(ctx context.Context, salonID, staffID int64) (*catalogClient.Staff, error)
}

// TransactionManager интерфейс менеджера транзакций
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
