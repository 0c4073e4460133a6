package get_available_slots

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/m04kA/SLN-BookingService/internal/domain"
	scheduleRepo "github.com/m04kA/SLN-BookingService/internal/infra/storage/schedule"
	catalogClient "github.com/m04kA/SLN-BookingService/internal/integrations/catalogservice"
)

// UseCase use case для получения доступных слотов для записи
//
// Политика: кандидаты генерируются с шагом domain.DefaultSlotStepMinutes;
// при запросе "любой мастер" слоты считаются отдельно по каждому активному
// мастеру, выполняющему услугу, и объединяются
type UseCase struct {
	appointmentRepo AppointmentRepository
	scheduleRepo    ScheduleRepository
	catalogClient   CatalogServiceClient
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	scheduleRepo ScheduleRepository,
	catalogClient CatalogServiceClient,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		scheduleRepo:    scheduleRepo,
		catalogClient:   catalogClient,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute выполняет use case получения доступных слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: salon=%d, service=%d, staff=%v, date=%s",
		req.SalonID, req.ServiceID, req.StaffID, req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Проверяем существование салона
	if _, err := uc.catalogClient.GetSalon(ctx, req.SalonID); err != nil {
		if errors.Is(err, catalogClient.ErrSalonNotFound) {
			uc.logger.Warn("GetAvailableSlots: salon id=%d not found", req.SalonID)
			return nil, ErrSalonNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get salon id=%d: %v", req.SalonID, err)
		return nil, fmt.Errorf("%w: failed to get salon: %v", ErrInternal, err)
	}

	// 4. Получаем услугу и её длительность
	service, err := uc.catalogClient.GetService(ctx, req.SalonID, req.ServiceID)
	if err != nil {
		if errors.Is(err, catalogClient.ErrServiceNotFound) {
			uc.logger.Warn("GetAvailableSlots: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	if service.DurationMinutes <= 0 {
		uc.logger.Warn("GetAvailableSlots: service id=%d has invalid duration %d",
			req.ServiceID, service.DurationMinutes)
		return nil, ErrInvalidDuration
	}

	// 5. Определяем набор мастеров-кандидатов
	staffSet, err := uc.resolveStaffSet(ctx, req, service)
	if err != nil {
		return nil, err
	}

	// 6. Собираем слоты по каждому мастеру и объединяем
	slots := make([]Slot, 0)
	for _, staff := range staffSet {
		staffSlots, err := uc.slotsForStaff(ctx, req, service.DurationMinutes, staff, now)
		if err != nil {
			return nil, err
		}
		slots = append(slots, staffSlots...)
	}

	// 7. Сортируем по времени начала, при равенстве - по ID мастера (детерминизм)
	sort.Slice(slots, func(i, j int) bool {
		a, b := slots[i], slots[j]
		if a.StartTime != b.StartTime {
			return a.StartTime.IsBefore(b.StartTime)
		}
		return a.StaffID < b.StaffID
	})

	uc.logger.Info("GetAvailableSlots: %d slots for salon=%d, service=%d, date=%s",
		len(slots), req.SalonID, req.ServiceID, req.Date.Format(domain.DateFormat))

	return &Response{
		Date:      req.Date,
		SalonID:   req.SalonID,
		ServiceID: req.ServiceID,
		Slots:     slots,
	}, nil
}

// resolveStaffSet возвращает мастеров, для которых считаются слоты:
// конкретного мастера, если он указан, иначе всех активных мастеров салона,
// выполняющих услугу
// Неактивный или не выполняющий услугу мастер слотов не даёт
func (uc *UseCase) resolveStaffSet(ctx context.Context, req *Request, service *catalogClient.Service) ([]*catalogClient.Staff, error) {
	if req.StaffID != nil {
		staff, err := uc.catalogClient.GetStaff(ctx, req.SalonID, *req.StaffID)
		if err != nil {
			if errors.Is(err, catalogClient.ErrStaffNotFound) {
				uc.logger.Warn("GetAvailableSlots: staff id=%d not found in salon id=%d", *req.StaffID, req.SalonID)
				return nil, ErrStaffNotFound
			}
			uc.logger.Error("GetAvailableSlots: failed to get staff id=%d: %v", *req.StaffID, err)
			return nil, fmt.Errorf("%w: failed to get staff: %v", ErrInternal, err)
		}

		if !staff.IsActive || !service.IsPerformedBy(staff.ID) {
			uc.logger.Info("GetAvailableSlots: staff id=%d is inactive or does not perform service id=%d",
				staff.ID, service.ID)
			return []*catalogClient.Staff{}, nil
		}

		return []*catalogClient.Staff{staff}, nil
	}

	allStaff, err := uc.catalogClient.ListStaff(ctx, req.SalonID)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to list staff for salon id=%d: %v", req.SalonID, err)
		return nil, fmt.Errorf("%w: failed to list staff: %v", ErrInternal, err)
	}

	eligible := make([]*catalogClient.Staff, 0, len(allStaff))
	for _, staff := range allStaff {
		if staff.IsActive && service.IsPerformedBy(staff.ID) {
			eligible = append(eligible, staff)
		}
	}

	return eligible, nil
}

// slotsForStaff считает доступные слоты одного мастера:
// рабочее окно -> кандидаты -> фильтр пересечений -> фильтр lead time
func (uc *UseCase) slotsForStaff(
	ctx context.Context,
	req *Request,
	serviceDuration int,
	staff *catalogClient.Staff,
	now time.Time,
) ([]Slot, error) {
	window, err := uc.resolveDayWindow(ctx, req, staff.ID)
	if err != nil {
		return nil, err
	}

	if window.IsClosed {
		uc.logger.Info("GetAvailableSlots: staff id=%d has a day off on %s",
			staff.ID, req.Date.Format(domain.DateFormat))
		return []Slot{}, nil
	}

	candidates, err := generateCandidates(window, serviceDuration, domain.DefaultSlotStepMinutes)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to generate candidates for staff id=%d: %v", staff.ID, err)
		return nil, fmt.Errorf("%w: failed to generate candidates: %v", ErrInternal, err)
	}

	appointments, err := uc.appointmentRepo.ListActiveForDay(ctx, staff.ID, req.Date)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get appointments for staff id=%d: %v", staff.ID, err)
		return nil, fmt.Errorf("%w: failed to get appointments: %v", ErrInternal, err)
	}

	free, err := filterConflicting(candidates, serviceDuration, appointments)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to filter conflicts for staff id=%d: %v", staff.ID, err)
		return nil, fmt.Errorf("%w: failed to filter conflicts: %v", ErrInternal, err)
	}

	free = filterLeadTime(free, req.Date, now, domain.DefaultLeadTimeMinutes)

	slots := make([]Slot, len(free))
	for i, start := range free {
		slots[i] = Slot{
			StartTime:       start,
			DurationMinutes: serviceDuration,
			StaffID:         staff.ID,
			StaffName:       staff.Name,
		}
	}

	return slots, nil
}

// resolveDayWindow определяет рабочее окно мастера на дату:
// правило мастера -> правило салона -> дефолтное окно 09:00-19:00
func (uc *UseCase) resolveDayWindow(ctx context.Context, req *Request, staffID int64) (domain.DayWindow, error) {
	rule, err := uc.scheduleRepo.GetRuleForDay(ctx, req.SalonID, &staffID, req.Date.Weekday())
	if err != nil {
		if errors.Is(err, scheduleRepo.ErrRuleNotFound) {
			return domain.DefaultDayWindow(), nil
		}
		uc.logger.Error("GetAvailableSlots: failed to get working hours for staff id=%d: %v", staffID, err)
		return domain.DayWindow{}, fmt.Errorf("%w: failed to get working hours: %v", ErrInternal, err)
	}

	return rule.Window(), nil
}
