package update_status

import (
	"net/http"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

const (
	msgInvalidAppointmentID = "некорректный ID записи"
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgMissingActor         = "требуется авторизация"
	msgMissingStatus        = "статус обязателен"
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

// Handle PATCH /api/v1/appointments/{id}
// Handle PATCH /api/v1/officer/appointments/{id}/status
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	appointmentID, err := handlers.PathUUID(r, "id")
	if err != nil {
		h.logger.Warn("PATCH /appointments/{id} - Invalid appointment ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidAppointmentID)
		return
	}

	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		h.logger.Warn("PATCH /appointments/{id} - Missing actor")
		handlers.RespondUnauthorized(w, msgMissingActor)
		return
	}

	var req UpdateStatusRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /appointments/{id} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	if req.Status == "" {
		handlers.RespondBadRequest(w, msgMissingStatus)
		return
	}

	appointment, err := h.service.UpdateStatus(r.Context(), appointmentID, actor, req.ToServiceRequest())
	if err != nil {
		status := handlers.RespondDomainError(w, err)
		if status >= http.StatusInternalServerError {
			h.logger.Error("PATCH /appointments/{id} - Failed to update status: id=%s, error=%v", appointmentID, err)
		} else {
			h.logger.Warn("PATCH /appointments/{id} - Rejected: id=%s, user_id=%s, error=%v", appointmentID, actor.ID, err)
		}
		return
	}

	// Сотрудник, подтвердивший или завершивший прием, назначается на запись, если она свободна.
	// Статус уже сохранен, поэтому ошибка назначения не отменяет ответ.
	if domain.ShouldAutoAssign(actor, domain.AppointmentStatus(appointment.Status)) {
		assigned, err := h.service.AssignIfUnassigned(r.Context(), appointmentID, actor)
		if err != nil {
			h.logger.Warn("PATCH /appointments/{id} - Auto-assign failed: id=%s, officer_id=%s, error=%v", appointmentID, actor.ID, err)
		} else if assigned {
			if fresh, err := h.service.Get(r.Context(), appointmentID, actor); err == nil {
				appointment = fresh
			}
		}
	}

	h.logger.Info("PATCH /appointments/{id} - Status updated: id=%s, status=%s, user_id=%s",
		appointmentID, appointment.Status, actor.ID)
	handlers.RespondJSON(w, http.StatusOK, appointment)
}
