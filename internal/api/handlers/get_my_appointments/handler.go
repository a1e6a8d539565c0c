package get_my_appointments

import (
	"net/http"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
)

const (
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

// Handle GET /api/v1/appointments/my-appointments
// Query params: status (опционально)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		h.logger.Warn("GET /appointments/my-appointments - Missing actor")
		handlers.RespondUnauthorized(w, msgMissingActor)
		return
	}

	var status *string
	if s := r.URL.Query().Get("status"); s != "" {
		status = &s
	}

	list, err := h.service.ListMine(r.Context(), actor, status)
	if err != nil {
		code := handlers.RespondDomainError(w, err)
		if code >= http.StatusInternalServerError {
			h.logger.Error("GET /appointments/my-appointments - Failed to list: user_id=%s, error=%v", actor.ID, err)
		} else {
			h.logger.Warn("GET /appointments/my-appointments - Rejected: user_id=%s, status=%d", actor.ID, code)
		}
		return
	}

	h.logger.Info("GET /appointments/my-appointments - Appointments retrieved: user_id=%s, count=%d", actor.ID, list.Total)
	handlers.RespondJSON(w, http.StatusOK, list)
}
