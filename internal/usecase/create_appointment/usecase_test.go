package create_appointment

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SLN-BookingService/internal/domain"
	appointmentRepo "github.com/m04kA/SLN-BookingService/internal/infra/storage/appointment"
	scheduleRepo "github.com/m04kA/SLN-BookingService/internal/infra/storage/schedule"
	catalogClient "github.com/m04kA/SLN-BookingService/internal/integrations/catalogservice"
	"github.com/m04kA/SLN-BookingService/pkg/types"
)

// Фейки зависимостей use case
// fakeAppointmentRepo имитирует exclusion constraint: вставка пересекающейся
// записи под мьютексом возвращает ErrSlotTaken, как это делает БД

type fakeAppointmentRepo struct {
	mu     sync.Mutex
	nextID int64
	items  []*domain.Appointment
}

func (f *fakeAppointmentRepo) Create(_ context.Context, appt *domain.Appointment) (*domain.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	conflicts, err := domain.OverlapsAnyActive(appt.StartTime, appt.DurationMinutes, f.activeForLocked(appt.StaffID, appt.AppointmentDate))
	if err != nil {
		return nil, err
	}
	if conflicts {
		return nil, appointmentRepo.ErrSlotTaken
	}

	f.nextID++
	created := *appt
	created.ID = f.nextID
	created.CreatedAt = time.Now()
	created.UpdatedAt = created.CreatedAt
	f.items = append(f.items, &created)
	return &created, nil
}

func (f *fakeAppointmentRepo) ListActiveForDay(_ context.Context, staffID int64, date time.Time) ([]*domain.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.activeForLocked(staffID, date), nil
}

func (f *fakeAppointmentRepo) activeForLocked(staffID int64, date time.Time) []*domain.Appointment {
	var result []*domain.Appointment
	for _, appt := range f.items {
		if appt.StaffID == staffID && appt.AppointmentDate.Equal(date) && appt.IsActive() {
			result = append(result, appt)
		}
	}
	return result
}

type fakeScheduleRepo struct {
	rule *domain.WorkingHoursRule
}

func (f *fakeScheduleRepo) GetRuleForDay(_ context.Context, _ int64, _ *int64, _ time.Weekday) (*domain.WorkingHoursRule, error) {
	if f.rule == nil {
		return nil, scheduleRepo.ErrRuleNotFound
	}
	return f.rule, nil
}

type fakeCatalog struct {
	salon   *catalogClient.Salon
	service *catalogClient.Service
	staff   map[int64]*catalogClient.Staff
}

func (f *fakeCatalog) GetSalon(_ context.Context, salonID int64) (*catalogClient.Salon, error) {
	if f.salon == nil || f.salon.ID != salonID {
		return nil, catalogClient.ErrSalonNotFound
	}
	return f.salon, nil
}

func (f *fakeCatalog) GetService(_ context.Context, _, serviceID int64) (*catalogClient.Service, error) {
	if f.service == nil || f.service.ID != serviceID {
		return nil, catalogClient.ErrServiceNotFound
	}
	return f.service, nil
}

func (f *fakeCatalog) GetStaff(_ context.Context, _, staffID int64) (*catalogClient.Staff, error) {
	staff, ok := f.staff[staffID]
	if !ok {
		return nil, catalogClient.ErrStaffNotFound
	}
	return staff, nil
}

type fakeTxManager struct{}

func (fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeEnqueuer struct {
	mu      sync.Mutex
	created []*domain.Appointment
	err     error
}

func (f *fakeEnqueuer) EnqueueAppointmentCreated(_ context.Context, appt *domain.Appointment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.created = append(f.created, appt)
	return nil
}

type fakeTimeProvider struct {
	now time.Time
}

func (f *fakeTimeProvider) Now() time.Time { return f.now }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func defaultCatalog() *fakeCatalog {
	price := 1500.0
	return &fakeCatalog{
		salon: &catalogClient.Salon{ID: 1, Name: "Лотос"},
		service: &catalogClient.Service{
			ID: 10, SalonID: 1, Name: "Стрижка",
			DurationMinutes: 60, Price: &price, StaffIDs: []int64{5},
		},
		staff: map[int64]*catalogClient.Staff{
			5: {ID: 5, SalonID: 1, Name: "Анна", IsActive: true},
		},
	}
}

func newTestUseCase(appts *fakeAppointmentRepo, rules *fakeScheduleRepo, catalog *fakeCatalog, enq NotificationEnqueuer, now time.Time) *UseCase {
	uc := NewUseCase(appts, rules, catalog, enq, fakeTxManager{}, nopLogger{})
	uc.timeProvider = &fakeTimeProvider{now: now}
	return uc
}

func validRequest() *Request {
	return &Request{
		CustomerID: 100,
		SalonID:    1,
		StaffID:    5,
		ServiceID:  10,
		Date:       time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC),
		StartTime:  "11:00",
	}
}

var testNow = time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

func TestExecute_Success(t *testing.T) {
	appts := &fakeAppointmentRepo{}
	enq := &fakeEnqueuer{}
	uc := newTestUseCase(appts, &fakeScheduleRepo{}, defaultCatalog(), enq, testNow)

	resp, err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, string(domain.StatusPending), resp.Status)
	assert.Equal(t, int64(100), resp.CustomerID)
	assert.Equal(t, types.TimeString("11:00"), resp.StartTime)
	assert.Equal(t, 60, resp.DurationMinutes)
	// Денормализованные данные каталога
	assert.Equal(t, "Стрижка", resp.ServiceName)
	assert.Equal(t, 1500.0, resp.ServicePrice)
	assert.Equal(t, "Анна", resp.StaffName)
	// Уведомление поставлено в очередь
	require.Len(t, enq.created, 1)
	assert.Equal(t, resp.ID, enq.created[0].ID)
}

func TestExecute_NilPriceBecomesZero(t *testing.T) {
	catalog := defaultCatalog()
	catalog.service.Price = nil
	uc := newTestUseCase(&fakeAppointmentRepo{}, &fakeScheduleRepo{}, catalog, nil, testNow)

	resp, err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)
	assert.Equal(t, 0.0, resp.ServicePrice)
}

func TestExecute_PastTimeRejected(t *testing.T) {
	uc := newTestUseCase(&fakeAppointmentRepo{}, &fakeScheduleRepo{}, defaultCatalog(), nil, testNow)

	req := validRequest()
	req.Date = time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)

	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrPastTime)
}

func TestExecute_DayOffRejected(t *testing.T) {
	rules := &fakeScheduleRepo{rule: &domain.WorkingHoursRule{IsDayOff: true}}
	uc := newTestUseCase(&fakeAppointmentRepo{}, rules, defaultCatalog(), nil, testNow)

	_, err := uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrSalonClosed)
}

func TestExecute_OutsideWorkingHours(t *testing.T) {
	rules := &fakeScheduleRepo{rule: &domain.WorkingHoursRule{OpenTime: "10:00", CloseTime: "11:30"}}
	uc := newTestUseCase(&fakeAppointmentRepo{}, rules, defaultCatalog(), nil, testNow)

	// 11:00 + 60 мин = 12:00 > 11:30
	_, err := uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrOutsideWorkingHours)
}

func TestExecute_SlotTakenByAdvisoryCheck(t *testing.T) {
	appts := &fakeAppointmentRepo{}
	uc := newTestUseCase(appts, &fakeScheduleRepo{}, defaultCatalog(), nil, testNow)

	_, err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	// Второй запрос на пересекающийся интервал
	req := validRequest()
	req.StartTime = "11:30"
	_, err = uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrSlotTaken)
}

func TestExecute_TouchingSlotAllowed(t *testing.T) {
	appts := &fakeAppointmentRepo{}
	uc := newTestUseCase(appts, &fakeScheduleRepo{}, defaultCatalog(), nil, testNow)

	_, err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	// Слот, начинающийся ровно в момент окончания предыдущего, не конфликтует
	req := validRequest()
	req.StartTime = "12:00"
	_, err = uc.Execute(context.Background(), req)
	assert.NoError(t, err)
}

func TestExecute_CancelledAppointmentFreesSlot(t *testing.T) {
	appts := &fakeAppointmentRepo{nextID: 1, items: []*domain.Appointment{{
		ID: 1, StaffID: 5,
		AppointmentDate: time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC),
		StartTime:       "11:00", DurationMinutes: 60,
		Status: domain.StatusCancelled,
	}}}
	uc := newTestUseCase(appts, &fakeScheduleRepo{}, defaultCatalog(), nil, testNow)

	_, err := uc.Execute(context.Background(), validRequest())
	assert.NoError(t, err)
}

func TestExecute_StaffNotAvailable(t *testing.T) {
	catalog := defaultCatalog()
	catalog.staff[5].IsActive = false
	uc := newTestUseCase(&fakeAppointmentRepo{}, &fakeScheduleRepo{}, catalog, nil, testNow)

	_, err := uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrStaffNotAvailable)
}

func TestExecute_StaffDoesNotPerformService(t *testing.T) {
	catalog := defaultCatalog()
	catalog.service.StaffIDs = []int64{6}
	uc := newTestUseCase(&fakeAppointmentRepo{}, &fakeScheduleRepo{}, catalog, nil, testNow)

	_, err := uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrStaffNotAvailable)
}

func TestExecute_SalonNotFound(t *testing.T) {
	uc := newTestUseCase(&fakeAppointmentRepo{}, &fakeScheduleRepo{}, &fakeCatalog{}, nil, testNow)

	_, err := uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrSalonNotFound)
}

func TestExecute_NotificationFailureDoesNotFailBooking(t *testing.T) {
	enq := &fakeEnqueuer{err: errors.New("redis is down")}
	uc := newTestUseCase(&fakeAppointmentRepo{}, &fakeScheduleRepo{}, defaultCatalog(), enq, testNow)

	resp, err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)
	assert.NotZero(t, resp.ID)
}

func TestExecute_NilEnqueuerTolerated(t *testing.T) {
	uc := newTestUseCase(&fakeAppointmentRepo{}, &fakeScheduleRepo{}, defaultCatalog(), nil, testNow)

	resp, err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)
	assert.NotZero(t, resp.ID)
}

func TestExecute_ConcurrentRequestsForOneSlot(t *testing.T) {
	appts := &fakeAppointmentRepo{}
	uc := newTestUseCase(appts, &fakeScheduleRepo{}, defaultCatalog(), nil, testNow)

	const workers = 10
	results := make(chan error, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := uc.Execute(context.Background(), validRequest())
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var succeeded, lost int
	for err := range results {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, ErrSlotTaken):
			lost++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	// Ровно один запрос выигрывает слот, остальные получают отказ
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, workers-1, lost)
}
