package get_appointment_qr

import (
	"net/http"
	"strconv"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
)

const (
	msgInvalidAppointmentID = "некорректный ID записи"
	msgMissingActor         = "требуется авторизация"
)

type Handler struct {
	service AppointmentService
	logger  Logger
}

func NewHandler(service AppointmentService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/appointments/{id}/qr
// Возвращает PNG с QR кодом для регистрации в отделе
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	appointmentID, err := handlers.PathUUID(r, "id")
	if err != nil {
		h.logger.Warn("GET /appointments/{id}/qr - Invalid appointment ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidAppointmentID)
		return
	}

	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		h.logger.Warn("GET /appointments/{id}/qr - Missing actor")
		handlers.RespondUnauthorized(w, msgMissingActor)
		return
	}

	png, err := h.service.GetCheckInQR(r.Context(), appointmentID, actor)
	if err != nil {
		status := handlers.RespondDomainError(w, err)
		if status >= http.StatusInternalServerError {
			h.logger.Error("GET /appointments/{id}/qr - Failed to render QR: id=%s, error=%v", appointmentID, err)
		} else {
			h.logger.Warn("GET /appointments/{id}/qr - Rejected: id=%s, user_id=%s, status=%d", appointmentID, actor.ID, status)
		}
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(png)))
	w.Header().Set("Cache-Control", "private, no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}
