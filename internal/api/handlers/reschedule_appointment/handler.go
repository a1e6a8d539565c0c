package reschedule_appointment

import (
	"net/http"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
)

const (
	msgInvalidAppointmentID = "некорректный ID записи"
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgInvalidDate          = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgMissingActor         = "требуется авторизация"
)

type Handler struct {
	useCase RescheduleAppointmentUseCase
	logger  Logger
}

func NewHandler(useCase RescheduleAppointmentUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/officer/appointments/{id}/reschedule
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	appointmentID, err := handlers.PathUUID(r, "id")
	if err != nil {
		h.logger.Warn("PATCH /officer/appointments/{id}/reschedule - Invalid appointment ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidAppointmentID)
		return
	}

	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		h.logger.Warn("PATCH /officer/appointments/{id}/reschedule - Missing actor")
		handlers.RespondUnauthorized(w, msgMissingActor)
		return
	}

	var req RescheduleAppointmentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /officer/appointments/{id}/reschedule - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(appointmentID, actor)
	if err != nil {
		h.logger.Warn("PATCH /officer/appointments/{id}/reschedule - Invalid date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		status := handlers.RespondDomainError(w, err)
		if status >= http.StatusInternalServerError {
			h.logger.Error("PATCH /officer/appointments/{id}/reschedule - Failed to reschedule: id=%s, error=%v", appointmentID, err)
		} else {
			h.logger.Warn("PATCH /officer/appointments/{id}/reschedule - Rejected: id=%s, user_id=%s, error=%v", appointmentID, actor.ID, err)
		}
		return
	}

	h.logger.Info("PATCH /officer/appointments/{id}/reschedule - Appointment rescheduled: id=%s, new_date=%s, new_time=%s",
		appointmentID, req.NewDate, req.NewTime)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result, actor))
}
