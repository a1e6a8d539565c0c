package get_available_slots

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
)

const (
	msgMissingServiceID = "ID услуги обязателен"
	msgInvalidServiceID = "некорректный ID услуги"
	msgMissingDate      = "дата обязательна"
	msgInvalidDate      = "некорректный формат даты, ожидается YYYY-MM-DD"
)

type Handler struct {
	useCase GetAvailableSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailableSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/appointments/available-slots
// Query params: serviceId (required), date (required, YYYY-MM-DD)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	serviceIDStr := r.URL.Query().Get("serviceId")
	if serviceIDStr == "" {
		handlers.RespondBadRequest(w, msgMissingServiceID)
		return
	}
	serviceID, err := uuid.Parse(serviceIDStr)
	if err != nil {
		h.logger.Warn("GET /appointments/available-slots - Invalid service ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidServiceID)
		return
	}

	dateStr := r.URL.Query().Get("date")
	if dateStr == "" {
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}

	useCaseReq, err := ToUseCaseRequest(serviceID, dateStr)
	if err != nil {
		h.logger.Warn("GET /appointments/available-slots - Invalid date format: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		status := handlers.RespondDomainError(w, err)
		if status >= http.StatusInternalServerError {
			h.logger.Error("GET /appointments/available-slots - Failed to get slots: service_id=%s, error=%v", serviceID, err)
		} else {
			h.logger.Warn("GET /appointments/available-slots - Rejected: service_id=%s, status=%d, error=%v", serviceID, status, err)
		}
		return
	}

	h.logger.Info("GET /appointments/available-slots - Slots retrieved: service_id=%s, date=%s, slots_count=%d",
		serviceID, dateStr, len(result.Slots))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
