package get_appointment_qr

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/service/appointments"
	"github.com/m04kA/SMC-AppointmentService/pkg/logger"
)

type stubService struct {
	png []byte
	err error
}

func (s *stubService) GetCheckInQR(context.Context, uuid.UUID, domain.Actor) ([]byte, error) {
	return s.png, s.err
}

func call(h *Handler, id string, withActor bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/appointments/"+id+"/qr", nil)
	req = mux.SetURLVars(req, map[string]string{"id": id})
	if withActor {
		req = req.WithContext(middleware.WithActor(req.Context(), domain.Actor{ID: uuid.New(), Role: domain.RoleCitizen}))
	}
	rec := httptest.NewRecorder()
	h.Handle(rec, req)
	return rec
}

func TestHandle_PNG(t *testing.T) {
	png := []byte("\x89PNG\r\n\x1a\nfake")
	rec := call(NewHandler(&stubService{png: png}, logger.NewNop()), uuid.NewString(), true)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.Equal(t, png, rec.Body.Bytes())
}

func TestHandle_Errors(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, call(NewHandler(&stubService{}, logger.NewNop()), "nope", true).Code)
	assert.Equal(t, http.StatusUnauthorized, call(NewHandler(&stubService{}, logger.NewNop()), uuid.NewString(), false).Code)
	assert.Equal(t, http.StatusNotFound,
		call(NewHandler(&stubService{err: appointments.ErrQRNotIssued}, logger.NewNop()), uuid.NewString(), true).Code)
	assert.Equal(t, http.StatusForbidden,
		call(NewHandler(&stubService{err: domain.ErrNotOwner}, logger.NewNop()), uuid.NewString(), true).Code)
}
