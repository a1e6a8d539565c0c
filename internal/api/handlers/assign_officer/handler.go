package assign_officer

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
)

const (
	msgInvalidAppointmentID = "некорректный ID записи"
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgInvalidOfficerID     = "некорректный ID сотрудника"
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

// Handle PATCH /api/v1/officer/appointments/{id}/assign
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	appointmentID, err := handlers.PathUUID(r, "id")
	if err != nil {
		h.logger.Warn("PATCH /officer/appointments/{id}/assign - Invalid appointment ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidAppointmentID)
		return
	}

	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		h.logger.Warn("PATCH /officer/appointments/{id}/assign - Missing actor")
		handlers.RespondUnauthorized(w, msgMissingActor)
		return
	}

	var req AssignOfficerRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /officer/appointments/{id}/assign - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	officerID, err := uuid.Parse(req.OfficerID)
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidOfficerID)
		return
	}

	appointment, err := h.service.AssignOfficer(r.Context(), appointmentID, actor, officerID)
	if err != nil {
		status := handlers.RespondDomainError(w, err)
		if status >= http.StatusInternalServerError {
			h.logger.Error("PATCH /officer/appointments/{id}/assign - Failed to assign: id=%s, officer_id=%s, error=%v",
				appointmentID, officerID, err)
		} else {
			h.logger.Warn("PATCH /officer/appointments/{id}/assign - Rejected: id=%s, officer_id=%s, error=%v",
				appointmentID, officerID, err)
		}
		return
	}

	h.logger.Info("PATCH /officer/appointments/{id}/assign - Officer assigned: id=%s, officer_id=%s, by=%s",
		appointmentID, officerID, actor.ID)
	handlers.RespondJSON(w, http.StatusOK, appointment)
}
