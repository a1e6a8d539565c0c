package book_appointment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	bookAppointment "github.com/m04kA/SMC-AppointmentService/internal/usecase/book_appointment"
	"github.com/m04kA/SMC-AppointmentService/pkg/logger"
)

type stubUseCase struct {
	got *bookAppointment.Request
	err error
}

func (s *stubUseCase) Execute(_ context.Context, req *bookAppointment.Request) (*bookAppointment.Response, error) {
	s.got = req
	if s.err != nil {
		return nil, s.err
	}
	return &bookAppointment.Response{
		Appointment: &domain.Appointment{
			ID:                uuid.New(),
			AppointmentNumber: "APT-20261016-0A1B2C",
			CitizenID:         req.CitizenID,
			ServiceID:         req.ServiceID,
			AppointmentDate:   req.Date,
			AppointmentTime:   req.Time,
			Status:            domain.StatusPending,
			Notes:             domain.Notes{Citizen: req.CitizenNotes, Internal: "staff only"},
			QRPayload:         `{"appointmentNumber":"APT-20261016-0A1B2C"}`,
			CreatedAt:         time.Now(),
			UpdatedAt:         time.Now(),
		},
		QRCodeDataURL: "data:image/png;base64,AAAA",
	}, nil
}

func newRequest(actor *domain.Actor, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/appointments/book", strings.NewReader(body))
	if actor != nil {
		req = req.WithContext(middleware.WithActor(req.Context(), *actor))
	}
	return req
}

func TestHandle_Created(t *testing.T) {
	citizen := domain.Actor{ID: uuid.New(), Role: domain.RoleCitizen}
	serviceID := uuid.New()
	uc := &stubUseCase{}
	h := NewHandler(uc, logger.NewNop())

	body := `{"serviceId":"` + serviceID.String() + `","appointmentDate":"2026-10-16","appointmentTime":"09:30","notes":{"citizen":"bring passport"}}`
	rec := httptest.NewRecorder()
	h.Handle(rec, newRequest(&citizen, body))

	require.Equal(t, http.StatusCreated, rec.Code)
	require.NotNil(t, uc.got)
	assert.Equal(t, citizen.ID, uc.got.CitizenID)
	assert.Equal(t, serviceID, uc.got.ServiceID)
	assert.Equal(t, "09:30", uc.got.Time.String())
	assert.Equal(t, "bring passport", uc.got.CitizenNotes)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "APT-20261016-0A1B2C", resp["appointmentNumber"])
	assert.Equal(t, "pending", resp["status"])
	assert.Equal(t, "data:image/png;base64,AAAA", resp["qrCodeDataUrl"])
	assert.NotEmpty(t, resp["qrPayload"])
	notes := resp["notes"].(map[string]interface{})
	assert.NotContains(t, notes, "internal")
}

func TestHandle_Rejections(t *testing.T) {
	citizen := domain.Actor{ID: uuid.New(), Role: domain.RoleCitizen}
	dept := uuid.New()
	officer := domain.Actor{ID: uuid.New(), Role: domain.RoleOfficer, DepartmentID: &dept}
	valid := `{"serviceId":"` + uuid.NewString() + `","appointmentDate":"2026-10-16","appointmentTime":"09:30"}`

	tests := []struct {
		name   string
		actor  *domain.Actor
		body   string
		ucErr  error
		status int
	}{
		{"no actor", nil, valid, nil, http.StatusUnauthorized},
		{"officer", &officer, valid, nil, http.StatusForbidden},
		{"bad json", &citizen, `{`, nil, http.StatusBadRequest},
		{"unknown field", &citizen, `{"serviceId":"x","extra":1}`, nil, http.StatusBadRequest},
		{"bad service id", &citizen, `{"serviceId":"x","appointmentDate":"2026-10-16","appointmentTime":"09:30"}`, nil, http.StatusBadRequest},
		{"bad date", &citizen, `{"serviceId":"` + uuid.NewString() + `","appointmentDate":"16/10/2026","appointmentTime":"09:30"}`, nil, http.StatusBadRequest},
		{"slot taken", &citizen, valid, bookAppointment.ErrSlotNotAvailable, http.StatusConflict},
		{"not a slot", &citizen, valid, bookAppointment.ErrInvalidTimeSlot, http.StatusBadRequest},
		{"service missing", &citizen, valid, bookAppointment.ErrServiceNotFound, http.StatusNotFound},
		{"past date", &citizen, valid, domain.ErrPastDate, http.StatusBadRequest},
		{"storage", &citizen, valid, bookAppointment.ErrInternal, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHandler(&stubUseCase{err: tt.ucErr}, logger.NewNop())
			rec := httptest.NewRecorder()
			h.Handle(rec, newRequest(tt.actor, tt.body))
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestHandle_StorageErrorHidesDetails(t *testing.T) {
	citizen := domain.Actor{ID: uuid.New(), Role: domain.RoleCitizen}
	h := NewHandler(&stubUseCase{err: bookAppointment.ErrInternal}, logger.NewNop())

	rec := httptest.NewRecorder()
	h.Handle(rec, newRequest(&citizen, `{"serviceId":"`+uuid.NewString()+`","appointmentDate":"2026-10-16","appointmentTime":"09:30"}`))

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.NotContains(t, rec.Body.String(), "book appointment")
}
