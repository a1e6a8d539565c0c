package get_appointment

import (
	"net/http"

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

// Handle GET /api/v1/appointments/{id}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	appointmentID, err := handlers.PathUUID(r, "id")
	if err != nil {
		h.logger.Warn("GET /appointments/{id} - Invalid appointment ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidAppointmentID)
		return
	}

	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		h.logger.Warn("GET /appointments/{id} - Missing actor")
		handlers.RespondUnauthorized(w, msgMissingActor)
		return
	}

	// Сервис сам проверит права доступа
	appointment, err := h.service.Get(r.Context(), appointmentID, actor)
	if err != nil {
		status := handlers.RespondDomainError(w, err)
		if status >= http.StatusInternalServerError {
			h.logger.Error("GET /appointments/{id} - Failed to get appointment: id=%s, error=%v", appointmentID, err)
		} else {
			h.logger.Warn("GET /appointments/{id} - Rejected: id=%s, user_id=%s, status=%d", appointmentID, actor.ID, status)
		}
		return
	}

	h.logger.Info("GET /appointments/{id} - Appointment retrieved: id=%s, user_id=%s", appointmentID, actor.ID)
	handlers.RespondJSON(w, http.StatusOK, appointment)
}
