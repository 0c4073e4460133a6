package appointments

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SLN-BookingService/internal/domain"
	appointmentRepo "github.com/m04kA/SLN-BookingService/internal/infra/storage/appointment"
	catalogClient "github.com/m04kA/SLN-BookingService/internal/integrations/catalogservice"
	"github.com/m04kA/SLN-BookingService/internal/service/appointments/models"
	"github.com/m04kA/SLN-BookingService/pkg/ptr"
)

// Фейки зависимостей сервиса

type fakeAppointmentRepo struct {
	byID       map[int64]*domain.Appointment
	cancelled  map[int64]string
	statusSets map[int64]domain.AppointmentStatus
}

func newFakeAppointmentRepo(appts ...*domain.Appointment) *fakeAppointmentRepo {
	repo := &fakeAppointmentRepo{
		byID:       make(map[int64]*domain.Appointment),
		cancelled:  make(map[int64]string),
		statusSets: make(map[int64]domain.AppointmentStatus),
	}
	for _, appt := range appts {
		repo.byID[appt.ID] = appt
	}
	return repo
}

func (f *fakeAppointmentRepo) GetByID(_ context.Context, id int64) (*domain.Appointment, error) {
	appt, ok := f.byID[id]
	if !ok {
		return nil, appointmentRepo.ErrAppointmentNotFound
	}
	return appt, nil
}

func (f *fakeAppointmentRepo) GetByCustomerID(_ context.Context, customerID int64, status *domain.AppointmentStatus) ([]*domain.Appointment, error) {
	var result []*domain.Appointment
	for _, appt := range f.byID {
		if appt.CustomerID != customerID {
			continue
		}
		if status != nil && appt.Status != *status {
			continue
		}
		result = append(result, appt)
	}
	return result, nil
}

func (f *fakeAppointmentRepo) GetBySalonWithFilter(_ context.Context, filter domain.SalonAppointmentsFilter) ([]*domain.Appointment, error) {
	var result []*domain.Appointment
	for _, appt := range f.byID {
		if appt.SalonID != filter.SalonID {
			continue
		}
		if filter.StaffID != nil && appt.StaffID != *filter.StaffID {
			continue
		}
		if !filter.IncludeInactive && appt.IsTerminal() {
			continue
		}
		result = append(result, appt)
	}
	return result, nil
}

func (f *fakeAppointmentRepo) UpdateStatus(_ context.Context, id int64, status domain.AppointmentStatus) error {
	if _, ok := f.byID[id]; !ok {
		return appointmentRepo.ErrAppointmentNotFound
	}
	f.statusSets[id] = status
	return nil
}

func (f *fakeAppointmentRepo) Cancel(_ context.Context, id int64, reason string) error {
	if _, ok := f.byID[id]; !ok {
		return appointmentRepo.ErrAppointmentNotFound
	}
	f.cancelled[id] = reason
	return nil
}

type fakeCatalog struct {
	salon *catalogClient.Salon
}

func (f *fakeCatalog) GetSalon(_ context.Context, salonID int64) (*catalogClient.Salon, error) {
	if f.salon == nil || f.salon.ID != salonID {
		return nil, catalogClient.ErrSalonNotFound
	}
	return f.salon, nil
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

const (
	ownerID   = int64(100)
	managerID = int64(200)
	otherID   = int64(300)
)

func testAppointment(status domain.AppointmentStatus) *domain.Appointment {
	return &domain.Appointment{
		ID:              1,
		CustomerID:      ownerID,
		SalonID:         1,
		StaffID:         5,
		ServiceID:       10,
		AppointmentDate: time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC),
		StartTime:       "11:00",
		DurationMinutes: 60,
		Status:          status,
	}
}

func newTestService(repo *fakeAppointmentRepo) *Service {
	catalog := &fakeCatalog{
		salon: &catalogClient.Salon{ID: 1, Name: "Лотос", ManagerIDs: []int64{managerID}},
	}
	return NewService(repo, catalog, nopLogger{})
}

func TestGetByID_OwnerAllowed(t *testing.T) {
	svc := newTestService(newFakeAppointmentRepo(testAppointment(domain.StatusPending)))

	resp, err := svc.GetByID(context.Background(), 1, ownerID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.ID)
	assert.Equal(t, string(domain.StatusPending), resp.Status)
}

func TestGetByID_ManagerAllowed(t *testing.T) {
	svc := newTestService(newFakeAppointmentRepo(testAppointment(domain.StatusPending)))

	_, err := svc.GetByID(context.Background(), 1, managerID)
	assert.NoError(t, err)
}

func TestGetByID_StrangerDenied(t *testing.T) {
	svc := newTestService(newFakeAppointmentRepo(testAppointment(domain.StatusPending)))

	_, err := svc.GetByID(context.Background(), 1, otherID)
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestGetByID_NotFound(t *testing.T) {
	svc := newTestService(newFakeAppointmentRepo())

	_, err := svc.GetByID(context.Background(), 42, ownerID)
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestGetCustomerAppointments_InvalidStatus(t *testing.T) {
	svc := newTestService(newFakeAppointmentRepo())

	_, err := svc.GetCustomerAppointments(context.Background(), &models.GetCustomerAppointmentsRequest{
		CustomerID: ownerID,
		Status:     ptr.Ptr("unknown"),
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestGetCustomerAppointments_FiltersByStatus(t *testing.T) {
	pending := testAppointment(domain.StatusPending)
	cancelled := testAppointment(domain.StatusCancelled)
	cancelled.ID = 2
	svc := newTestService(newFakeAppointmentRepo(pending, cancelled))

	resp, err := svc.GetCustomerAppointments(context.Background(), &models.GetCustomerAppointmentsRequest{
		CustomerID: ownerID,
		Status:     ptr.Ptr(string(domain.StatusPending)),
	})
	require.NoError(t, err)
	require.Equal(t, 1, resp.Total)
	assert.Equal(t, int64(1), resp.Appointments[0].ID)
}

func TestGetSalonAppointments_ManagerOnly(t *testing.T) {
	svc := newTestService(newFakeAppointmentRepo(testAppointment(domain.StatusPending)))

	_, err := svc.GetSalonAppointments(context.Background(), &models.GetSalonAppointmentsRequest{
		SalonID: 1,
		UserID:  otherID,
	})
	assert.ErrorIs(t, err, ErrAccessDenied)

	resp, err := svc.GetSalonAppointments(context.Background(), &models.GetSalonAppointmentsRequest{
		SalonID: 1,
		UserID:  managerID,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Total)
}

func TestCancel_OwnerCanCancel(t *testing.T) {
	repo := newFakeAppointmentRepo(testAppointment(domain.StatusConfirmed))
	svc := newTestService(repo)

	err := svc.Cancel(context.Background(), 1, &models.CancelAppointmentRequest{
		UserID:             ownerID,
		CancellationReason: "передумал",
	})
	require.NoError(t, err)
	assert.Equal(t, "передумал", repo.cancelled[1])
}

func TestCancel_ManagerCanCancelForeign(t *testing.T) {
	repo := newFakeAppointmentRepo(testAppointment(domain.StatusPending))
	svc := newTestService(repo)

	err := svc.Cancel(context.Background(), 1, &models.CancelAppointmentRequest{UserID: managerID})
	assert.NoError(t, err)
}

func TestCancel_StrangerDenied(t *testing.T) {
	svc := newTestService(newFakeAppointmentRepo(testAppointment(domain.StatusPending)))

	err := svc.Cancel(context.Background(), 1, &models.CancelAppointmentRequest{UserID: otherID})
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestCancel_TooLongReasonRejected(t *testing.T) {
	svc := newTestService(newFakeAppointmentRepo(testAppointment(domain.StatusPending)))

	longReason := make([]byte, domain.MaxCancellationReasonLength+1)
	for i := range longReason {
		longReason[i] = 'x'
	}

	err := svc.Cancel(context.Background(), 1, &models.CancelAppointmentRequest{
		UserID:             ownerID,
		CancellationReason: string(longReason),
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCancel_TerminalStatusRejected(t *testing.T) {
	svc := newTestService(newFakeAppointmentRepo(testAppointment(domain.StatusCompleted)))

	err := svc.Cancel(context.Background(), 1, &models.CancelAppointmentRequest{UserID: ownerID})
	assert.ErrorIs(t, err, ErrCannotCancel)
}

func TestUpdateStatus_ValidTransition(t *testing.T) {
	repo := newFakeAppointmentRepo(testAppointment(domain.StatusPending))
	svc := newTestService(repo)

	err := svc.UpdateStatus(context.Background(), 1, &models.UpdateStatusRequest{
		UserID: managerID,
		Status: string(domain.StatusConfirmed),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusConfirmed, repo.statusSets[1])
}

func TestUpdateStatus_InvalidTransition(t *testing.T) {
	svc := newTestService(newFakeAppointmentRepo(testAppointment(domain.StatusPending)))

	// pending -> completed запрещён, сначала confirmed
	err := svc.UpdateStatus(context.Background(), 1, &models.UpdateStatusRequest{
		UserID: managerID,
		Status: string(domain.StatusCompleted),
	})
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestUpdateStatus_InvalidStatusValue(t *testing.T) {
	svc := newTestService(newFakeAppointmentRepo(testAppointment(domain.StatusPending)))

	err := svc.UpdateStatus(context.Background(), 1, &models.UpdateStatusRequest{
		UserID: managerID,
		Status: "approved",
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestUpdateStatus_NonManagerDenied(t *testing.T) {
	svc := newTestService(newFakeAppointmentRepo(testAppointment(domain.StatusPending)))

	err := svc.UpdateStatus(context.Background(), 1, &models.UpdateStatusRequest{
		UserID: ownerID,
		Status: string(domain.StatusConfirmed),
	})
	assert.ErrorIs(t, err, ErrAccessDenied)
}
