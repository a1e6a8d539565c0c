package search_appointments

import (
	"net/http"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
)

const (
	msgInvalidQuery = "некорректные параметры поиска"
	msgMissingActor = "требуется авторизация"
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

// Handle GET /api/v1/officer/appointments
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		h.logger.Warn("GET /officer/appointments - Missing actor")
		handlers.RespondUnauthorized(w, msgMissingActor)
		return
	}

	req, err := ParseQuery(r.URL.Query())
	if err != nil {
		h.logger.Warn("GET /officer/appointments - Invalid query: %v", err)
		handlers.RespondBadRequest(w, msgInvalidQuery)
		return
	}

	list, err := h.service.Search(r.Context(), actor, req)
	if err != nil {
		status := handlers.RespondDomainError(w, err)
		if status >= http.StatusInternalServerError {
			h.logger.Error("GET /officer/appointments - Failed to search: user_id=%s, error=%v", actor.ID, err)
		} else {
			h.logger.Warn("GET /officer/appointments - Rejected: user_id=%s, error=%v", actor.ID, err)
		}
		return
	}

	h.logger.Info("GET /officer/appointments - Search completed: user_id=%s, count=%d", actor.ID, list.Total)
	handlers.RespondJSON(w, http.StatusOK, list)
}
