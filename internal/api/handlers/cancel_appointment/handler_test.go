package cancel_appointment

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SLN-BookingService/internal/api/middleware"
	"github.com/m04kA/SLN-BookingService/internal/service/appointments/models"
)

type fakeService struct {
	gotID  int64
	gotReq *models.CancelAppointmentRequest
	err    error
}

func (f *fakeService) Cancel(_ context.Context, appointmentID int64, req *models.CancelAppointmentRequest) error {
	f.gotID = appointmentID
	f.gotReq = req
	return f.err
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func newTestServer(svc *fakeService) http.Handler {
	h := NewHandler(svc, nopLogger{})
	router := mux.NewRouter()
	router.HandleFunc("/appointments/{appointmentId}/cancel", h.Handle).Methods(http.MethodPatch)
	return middleware.Auth(router)
}

func TestHandle_EmptyBodyAllowed(t *testing.T) {
	svc := &fakeService{}
	server := newTestServer(svc)

	// Причина отмены опциональна: запрос без тела проходит
	req := httptest.NewRequest(http.MethodPatch, "/appointments/7/cancel", nil)
	req.Header.Set(middleware.HeaderUserID, "100")
	rec := httptest.NewRecorder()

	server.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, svc.gotReq)
	assert.Equal(t, int64(7), svc.gotID)
	assert.Equal(t, int64(100), svc.gotReq.UserID)
	assert.Equal(t, "", svc.gotReq.CancellationReason)
}

func TestHandle_ReasonPassedThrough(t *testing.T) {
	svc := &fakeService{}
	server := newTestServer(svc)

	body := strings.NewReader(`{"cancellationReason": "передумал"}`)
	req := httptest.NewRequest(http.MethodPatch, "/appointments/7/cancel", body)
	req.Header.Set(middleware.HeaderUserID, "100")
	rec := httptest.NewRecorder()

	server.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, svc.gotReq)
	assert.Equal(t, "передумал", svc.gotReq.CancellationReason)
}

func TestHandle_MalformedBodyRejected(t *testing.T) {
	svc := &fakeService{}
	server := newTestServer(svc)

	body := strings.NewReader(`{"cancellationReason": `)
	req := httptest.NewRequest(http.MethodPatch, "/appointments/7/cancel", body)
	req.Header.Set(middleware.HeaderUserID, "100")
	rec := httptest.NewRecorder()

	server.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Nil(t, svc.gotReq)
}

func TestHandle_MissingUserIDUnauthorized(t *testing.T) {
	svc := &fakeService{}
	server := newTestServer(svc)

	req := httptest.NewRequest(http.MethodPatch, "/appointments/7/cancel", nil)
	rec := httptest.NewRecorder()

	server.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Nil(t, svc.gotReq)
}
