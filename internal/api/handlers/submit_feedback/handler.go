package submit_feedback

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

// Handle POST /api/v1/appointments/{id}/feedback
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	appointmentID, err := handlers.PathUUID(r, "id")
	if err != nil {
		h.logger.Warn("POST /appointments/{id}/feedback - Invalid appointment ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidAppointmentID)
		return
	}

	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		h.logger.Warn("POST /appointments/{id}/feedback - Missing actor")
		handlers.RespondUnauthorized(w, msgMissingActor)
		return
	}

	var req SubmitFeedbackRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /appointments/{id}/feedback - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	appointment, err := h.service.SubmitFeedback(r.Context(), appointmentID, actor, req.ToServiceRequest())
	if err != nil {
		status := handlers.RespondDomainError(w, err)
		if status >= http.StatusInternalServerError {
			h.logger.Error("POST /appointments/{id}/feedback - Failed to save feedback: id=%s, error=%v", appointmentID, err)
		} else {
			h.logger.Warn("POST /appointments/{id}/feedback - Rejected: id=%s, user_id=%s, error=%v", appointmentID, actor.ID, err)
		}
		return
	}

	h.logger.Info("POST /appointments/{id}/feedback - Feedback saved: id=%s, rating=%d", appointmentID, req.Rating)
	handlers.RespondJSON(w, http.StatusOK, appointment)
}
