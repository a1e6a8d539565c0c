package cancel_appointment

import (
	"net/http"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
)

const (
	msgInvalidAppointmentID = "некорректный ID записи"
	msgInvalidRequestBody   = "некорректное тело запроса"
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

// Handle PUT /api/v1/appointments/{id}/cancel
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	appointmentID, err := handlers.PathUUID(r, "id")
	if err != nil {
		h.logger.Warn("PUT /appointments/{id}/cancel - Invalid appointment ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidAppointmentID)
		return
	}

	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		h.logger.Warn("PUT /appointments/{id}/cancel - Missing actor")
		handlers.RespondUnauthorized(w, msgMissingActor)
		return
	}

	var req CancelAppointmentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /appointments/{id}/cancel - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	appointment, err := h.service.Cancel(r.Context(), appointmentID, actor, req.ToServiceRequest())
	if err != nil {
		status := handlers.RespondDomainError(w, err)
		if status >= http.StatusInternalServerError {
			h.logger.Error("PUT /appointments/{id}/cancel - Failed to cancel: id=%s, error=%v", appointmentID, err)
		} else {
			h.logger.Warn("PUT /appointments/{id}/cancel - Rejected: id=%s, user_id=%s, error=%v", appointmentID, actor.ID, err)
		}
		return
	}

	h.logger.Info("PUT /appointments/{id}/cancel - Appointment cancelled: id=%s, user_id=%s", appointmentID, actor.ID)
	handlers.RespondJSON(w, http.StatusOK, appointment)
}
