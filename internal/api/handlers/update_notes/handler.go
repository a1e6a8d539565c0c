package update_notes

import (
	"net/http"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
)

const (
	msgInvalidAppointmentID = "некорректный ID записи"
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgNothingToUpdate      = "нет полей для обновления"
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

// Handle PATCH /api/v1/officer/appointments/{id}/notes
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	appointmentID, err := handlers.PathUUID(r, "id")
	if err != nil {
		h.logger.Warn("PATCH /officer/appointments/{id}/notes - Invalid appointment ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidAppointmentID)
		return
	}

	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		h.logger.Warn("PATCH /officer/appointments/{id}/notes - Missing actor")
		handlers.RespondUnauthorized(w, msgMissingActor)
		return
	}

	var req UpdateNotesRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /officer/appointments/{id}/notes - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	if req.IsEmpty() {
		handlers.RespondBadRequest(w, msgNothingToUpdate)
		return
	}

	appointment, err := h.service.UpdateNotes(r.Context(), appointmentID, actor, req.ToServiceRequest())
	if err != nil {
		status := handlers.RespondDomainError(w, err)
		if status >= http.StatusInternalServerError {
			h.logger.Error("PATCH /officer/appointments/{id}/notes - Failed to update notes: id=%s, error=%v", appointmentID, err)
		} else {
			h.logger.Warn("PATCH /officer/appointments/{id}/notes - Rejected: id=%s, user_id=%s, error=%v", appointmentID, actor.ID, err)
		}
		return
	}

	h.logger.Info("PATCH /officer/appointments/{id}/notes - Notes updated: id=%s, user_id=%s", appointmentID, actor.ID)
	handlers.RespondJSON(w, http.StatusOK, appointment)
}
