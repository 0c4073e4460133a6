package schedule

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SLN-BookingService/internal/domain"
	catalogClient "github.com/m04kA/SLN-BookingService/internal/integrations/catalogservice"
	"github.com/m04kA/SLN-BookingService/internal/service/schedule/models"
	"github.com/m04kA/SLN-BookingService/pkg/ptr"
)

// Фейки зависимостей сервиса

type fakeScheduleRepo struct {
	rules    []*domain.WorkingHoursRule
	replaced []*domain.WorkingHoursRule
}

func (f *fakeScheduleRepo) ListRules(_ context.Context, _ int64, _ *int64) ([]*domain.WorkingHoursRule, error) {
	return f.rules, nil
}

func (f *fakeScheduleRepo) ReplaceRules(_ context.Context, _ int64, _ *int64, rules []*domain.WorkingHoursRule) error {
	f.replaced = rules
	return nil
}

type fakeCatalog struct {
	salon *catalogClient.Salon
	staff map[int64]*catalogClient.Staff
}

func (f *fakeCatalog) GetSalon(_ context.Context, salonID int64) (*catalogClient.Salon, error) {
	if f.salon == nil || f.salon.ID != salonID {
		return nil, catalogClient.ErrSalonNotFound
	}
	return f.salon, nil
}

func (f *fakeCatalog) GetStaff(_ context.Context, _, staffID int64) (*catalogClient.Staff, error) {
	staff, ok := f.staff[staffID]
	if !ok {
		return nil, catalogClient.ErrStaffNotFound
	}
	return staff, nil
}

type fakeTxManager struct{}

func (fakeTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

const managerID = int64(200)

func newTestService(repo *fakeScheduleRepo) *Service {
	catalog := &fakeCatalog{
		salon: &catalogClient.Salon{ID: 1, Name: "Лотос", ManagerIDs: []int64{managerID}},
		staff: map[int64]*catalogClient.Staff{
			5: {ID: 5, SalonID: 1, Name: "Анна", IsActive: true},
		},
	}
	return NewService(repo, catalog, fakeTxManager{}, nopLogger{})
}

func validRules() []*models.RuleItem {
	return []*models.RuleItem{
		{Weekday: 1, OpenTime: "09:00", CloseTime: "18:00"},
		{Weekday: 2, OpenTime: "09:00", CloseTime: "18:00"},
		{Weekday: 0, IsDayOff: true},
	}
}

func TestGetSchedule_ReturnsRules(t *testing.T) {
	repo := &fakeScheduleRepo{rules: []*domain.WorkingHoursRule{
		{SalonID: 1, Weekday: 1, OpenTime: "10:00", CloseTime: "19:00"},
	}}
	svc := newTestService(repo)

	resp, err := svc.GetSchedule(context.Background(), &models.GetScheduleRequest{SalonID: 1})
	require.NoError(t, err)
	require.Len(t, resp.Rules, 1)
	assert.Equal(t, 1, resp.Rules[0].Weekday)
	assert.Equal(t, "10:00", resp.Rules[0].OpenTime)
}

func TestGetSchedule_SalonNotFound(t *testing.T) {
	svc := newTestService(&fakeScheduleRepo{})

	_, err := svc.GetSchedule(context.Background(), &models.GetScheduleRequest{SalonID: 99})
	assert.ErrorIs(t, err, ErrSalonNotFound)
}

func TestUpdateSchedule_ManagerReplacesRules(t *testing.T) {
	repo := &fakeScheduleRepo{}
	svc := newTestService(repo)

	resp, err := svc.UpdateSchedule(context.Background(), &models.UpdateScheduleRequest{
		UserID:  managerID,
		SalonID: 1,
		Rules:   validRules(),
	})
	require.NoError(t, err)
	assert.Len(t, repo.replaced, 3)
	assert.Len(t, resp.Rules, 3)
}

func TestUpdateSchedule_StaffSchedule(t *testing.T) {
	repo := &fakeScheduleRepo{}
	svc := newTestService(repo)

	resp, err := svc.UpdateSchedule(context.Background(), &models.UpdateScheduleRequest{
		UserID:  managerID,
		SalonID: 1,
		StaffID: ptr.Ptr(int64(5)),
		Rules:   validRules(),
	})
	require.NoError(t, err)
	require.NotNil(t, resp.StaffID)
	for _, rule := range repo.replaced {
		require.NotNil(t, rule.StaffID)
		assert.Equal(t, int64(5), *rule.StaffID)
	}
}

func TestUpdateSchedule_StaffNotFound(t *testing.T) {
	svc := newTestService(&fakeScheduleRepo{})

	_, err := svc.UpdateSchedule(context.Background(), &models.UpdateScheduleRequest{
		UserID:  managerID,
		SalonID: 1,
		StaffID: ptr.Ptr(int64(99)),
		Rules:   validRules(),
	})
	assert.ErrorIs(t, err, ErrStaffNotFound)
}

func TestUpdateSchedule_NonManagerDenied(t *testing.T) {
	svc := newTestService(&fakeScheduleRepo{})

	_, err := svc.UpdateSchedule(context.Background(), &models.UpdateScheduleRequest{
		UserID:  300,
		SalonID: 1,
		Rules:   validRules(),
	})
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestUpdateSchedule_ValidationErrors(t *testing.T) {
	svc := newTestService(&fakeScheduleRepo{})

	tests := []struct {
		name  string
		rules []*models.RuleItem
	}{
		{
			name:  "день недели вне диапазона",
			rules: []*models.RuleItem{{Weekday: 7, OpenTime: "09:00", CloseTime: "18:00"}},
		},
		{
			name: "дубликат дня недели",
			rules: []*models.RuleItem{
				{Weekday: 1, OpenTime: "09:00", CloseTime: "18:00"},
				{Weekday: 1, OpenTime: "10:00", CloseTime: "19:00"},
			},
		},
		{
			name:  "некорректный формат времени",
			rules: []*models.RuleItem{{Weekday: 1, OpenTime: "9am", CloseTime: "18:00"}},
		},
		{
			name:  "открытие не раньше закрытия",
			rules: []*models.RuleItem{{Weekday: 1, OpenTime: "18:00", CloseTime: "09:00"}},
		},
		{
			name:  "nil правило",
			rules: []*models.RuleItem{nil},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.UpdateSchedule(context.Background(), &models.UpdateScheduleRequest{
				UserID:  managerID,
				SalonID: 1,
				Rules:   tt.rules,
			})
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestUpdateSchedule_DayOffSkipsWindowCheck(t *testing.T) {
	svc := newTestService(&fakeScheduleRepo{})

	// Для выходного дня окно не задаётся и не валидируется
	_, err := svc.UpdateSchedule(context.Background(), &models.UpdateScheduleRequest{
		UserID:  managerID,
		SalonID: 1,
		Rules:   []*models.RuleItem{{Weekday: 0, IsDayOff: true}},
	})
	assert.NoError(t, err)
}
