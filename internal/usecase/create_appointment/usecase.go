package create_appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SLN-BookingService/internal/domain"
	appointmentRepo "github.com/m04kA/SLN-BookingService/internal/infra/storage/appointment"
	scheduleRepo "github.com/m04kA/SLN-BookingService/internal/infra/storage/schedule"
	catalogClient "github.com/m04kA/SLN-BookingService/internal/integrations/catalogservice"
)

// UseCase use case для создания записи к мастеру
//
// Гарантию отсутствия двойных бронирований даёт exclusion constraint в БД:
// проверка пересечений внутри сериализуемой транзакции лишь сужает окно гонки
// и даёт ранний отказ, но корректность от неё не зависит
type UseCase struct {
	appointmentRepo AppointmentRepository
	scheduleRepo    ScheduleRepository
	catalogClient   CatalogServiceClient
	notifications   NotificationEnqueuer
	txManager       TransactionManager
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	scheduleRepo ScheduleRepository,
	catalogClient CatalogServiceClient,
	notifications NotificationEnqueuer,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		scheduleRepo:    scheduleRepo,
		catalogClient:   catalogClient,
		notifications:   notifications,
		txManager:       txManager,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute выполняет use case создания записи
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateAppointment: customer=%d, salon=%d, staff=%d, service=%d, date=%s, time=%s",
		req.CustomerID, req.SalonID, req.StaffID, req.ServiceID,
		req.Date.Format(domain.DateFormat), req.StartTime)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateAppointment: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Проверяем существование салона
	if _, err := uc.catalogClient.GetSalon(ctx, req.SalonID); err != nil {
		if errors.Is(err, catalogClient.ErrSalonNotFound) {
			uc.logger.Warn("CreateAppointment: salon id=%d not found", req.SalonID)
			return nil, ErrSalonNotFound
		}
		uc.logger.Error("CreateAppointment: failed to get salon id=%d: %v", req.SalonID, err)
		return nil, fmt.Errorf("%w: failed to get salon: %v", ErrInternal, err)
	}

	// 4. Получаем услугу и её длительность
	service, err := uc.catalogClient.GetService(ctx, req.SalonID, req.ServiceID)
	if err != nil {
		if errors.Is(err, catalogClient.ErrServiceNotFound) {
			uc.logger.Warn("CreateAppointment: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("CreateAppointment: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	if service.DurationMinutes <= 0 {
		uc.logger.Warn("CreateAppointment: service id=%d has invalid duration %d",
			req.ServiceID, service.DurationMinutes)
		return nil, ErrInvalidDuration
	}

	// 5. Проверяем мастера: существует, активен, выполняет услугу
	staff, err := uc.catalogClient.GetStaff(ctx, req.SalonID, req.StaffID)
	if err != nil {
		if errors.Is(err, catalogClient.ErrStaffNotFound) {
			uc.logger.Warn("CreateAppointment: staff id=%d not found in salon id=%d", req.StaffID, req.SalonID)
			return nil, ErrStaffNotFound
		}
		uc.logger.Error("CreateAppointment: failed to get staff id=%d: %v", req.StaffID, err)
		return nil, fmt.Errorf("%w: failed to get staff: %v", ErrInternal, err)
	}

	if !staff.IsActive || !service.IsPerformedBy(staff.ID) {
		uc.logger.Warn("CreateAppointment: staff id=%d is inactive or does not perform service id=%d",
			staff.ID, service.ID)
		return nil, ErrStaffNotAvailable
	}

	// 6. Отклоняем время в прошлом до обращения к БД
	if isStartInPast(req.Date, req.StartTime, now) {
		uc.logger.Warn("CreateAppointment: requested start %s %s is in the past",
			req.Date.Format(domain.DateFormat), req.StartTime)
		return nil, ErrPastTime
	}

	// Переменная для хранения результата
	var result *domain.Appointment

	// 7. Выполняем операции с БД в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 7.1. Рабочее окно мастера: правило мастера -> правило салона -> дефолт
		window, err := uc.resolveDayWindow(txCtx, req.SalonID, req.StaffID, req.Date)
		if err != nil {
			return err
		}

		if window.IsClosed {
			uc.logger.Warn("CreateAppointment: staff id=%d has a day off on %s",
				req.StaffID, req.Date.Format(domain.DateFormat))
			return ErrSalonClosed
		}

		fits, err := fitsWindow(req.StartTime, service.DurationMinutes, window)
		if err != nil {
			return fmt.Errorf("%w: failed to check working window: %v", ErrInvalidInput, err)
		}
		if !fits {
			uc.logger.Warn("CreateAppointment: slot %s (+%d min) is outside working hours %s-%s",
				req.StartTime, service.DurationMinutes, window.OpenTime, window.CloseTime)
			return ErrOutsideWorkingHours
		}

		// 7.2. Advisory проверка пересечений с блокировкой строк (FOR UPDATE)
		// Общий предикат domain.Overlaps - тот же, что при выдаче доступных слотов
		appointments, err := uc.appointmentRepo.ListActiveForDay(txCtx, req.StaffID, req.Date)
		if err != nil {
			uc.logger.Error("CreateAppointment: failed to get appointments: %v", err)
			return fmt.Errorf("%w: failed to get appointments: %v", ErrInternal, err)
		}

		conflicts, err := domain.OverlapsAnyActive(req.StartTime, service.DurationMinutes, appointments)
		if err != nil {
			uc.logger.Error("CreateAppointment: failed to check overlaps: %v", err)
			return fmt.Errorf("%w: failed to check overlaps: %v", ErrInternal, err)
		}
		if conflicts {
			uc.logger.Warn("CreateAppointment: slot %s already taken for staff id=%d", req.StartTime, req.StaffID)
			return ErrSlotTaken
		}

		// 7.3. Создаем запись со статусом pending и денормализацией данных каталога
		appt := &domain.Appointment{
			CustomerID:      req.CustomerID,
			SalonID:         req.SalonID,
			StaffID:         req.StaffID,
			ServiceID:       req.ServiceID,
			AppointmentDate: req.Date,
			StartTime:       req.StartTime,
			DurationMinutes: service.DurationMinutes,
			Status:          domain.StatusPending,
			ServiceName:     service.Name,
			ServicePrice:    getServicePrice(service),
			StaffName:       staff.Name,
			Notes:           req.Notes,
		}

		created, err := uc.appointmentRepo.Create(txCtx, appt)
		if err != nil {
			// Exclusion constraint отклонил вставку: конкурентная запись выиграла гонку
			if errors.Is(err, appointmentRepo.ErrSlotTaken) {
				uc.logger.Warn("CreateAppointment: lost the race for slot %s, staff id=%d",
					req.StartTime, req.StaffID)
				return ErrSlotTaken
			}
			uc.logger.Error("CreateAppointment: failed to create appointment: %v", err)
			return fmt.Errorf("%w: failed to create appointment: %v", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("CreateAppointment: successfully created appointment id=%d", result.ID)

	// 8. Побочный эффект: уведомления клиенту
	// Ошибка постановки в очередь не влияет на результат бронирования
	if uc.notifications != nil {
		if err := uc.notifications.EnqueueAppointmentCreated(ctx, result); err != nil {
			uc.logger.Warn("CreateAppointment: failed to enqueue notification for appointment id=%d: %v",
				result.ID, err)
		}
	}

	// Конвертируем в response
	return &Response{
		ID:              result.ID,
		CustomerID:      result.CustomerID,
		SalonID:         result.SalonID,
		StaffID:         result.StaffID,
		ServiceID:       result.ServiceID,
		AppointmentDate: result.AppointmentDate,
		StartTime:       result.StartTime,
		DurationMinutes: result.DurationMinutes,
		Status:          string(result.Status),
		ServiceName:     result.ServiceName,
		ServicePrice:    result.ServicePrice,
		StaffName:       result.StaffName,
		Notes:           result.Notes,
		CreatedAt:       result.CreatedAt,
		UpdatedAt:       result.UpdatedAt,
	}, nil
}

// resolveDayWindow определяет рабочее окно мастера на дату:
// правило мастера -> правило салона -> дефолтное окно 09:00-19:00
func (uc *UseCase) resolveDayWindow(ctx context.Context, salonID, staffID int64, date time.Time) (domain.DayWindow, error) {
	rule, err := uc.scheduleRepo.GetRuleForDay(ctx, salonID, &staffID, date.Weekday())
	if err != nil {
		if errors.Is(err, scheduleRepo.ErrRuleNotFound) {
			return domain.DefaultDayWindow(), nil
		}
		uc.logger.Error("CreateAppointment: failed to get working hours for staff id=%d: %v", staffID, err)
		return domain.DayWindow{}, fmt.Errorf("%w: failed to get working hours: %v", ErrInternal, err)
	}

	return rule.Window(), nil
}

// getServicePrice извлекает цену из услуги
// Если цена не указана (nil), возвращает 0.0
func getServicePrice(service *catalogClient.Service) float64 {
	if service.Price == nil {
		return 0.0
	}
	return *service.Price
}
