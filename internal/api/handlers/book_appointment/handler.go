package book_appointment

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingActor       = "требуется авторизация"
	msgCitizenOnly        = "записаться на прием может только гражданин"
	msgInvalidServiceID   = "некорректный ID услуги"
	msgInvalidDate        = "некорректный формат даты, ожидается YYYY-MM-DD"
)

type Handler struct {
	useCase BookAppointmentUseCase
	logger  Logger
}

func NewHandler(useCase BookAppointmentUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/appointments/book
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		h.logger.Warn("POST /appointments/book - Missing actor")
		handlers.RespondUnauthorized(w, msgMissingActor)
		return
	}
	if actor.Role != domain.RoleCitizen {
		h.logger.Warn("POST /appointments/book - Non-citizen booking attempt: user_id=%s, role=%s", actor.ID, actor.Role)
		handlers.RespondForbidden(w, msgCitizenOnly)
		return
	}

	var req BookAppointmentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /appointments/book - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(actor.ID)
	if err != nil {
		h.logger.Warn("POST /appointments/book - Invalid request: %v", err)
		if errors.Is(err, errInvalidServiceID) {
			handlers.RespondBadRequest(w, msgInvalidServiceID)
		} else {
			handlers.RespondBadRequest(w, msgInvalidDate)
		}
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		status := handlers.RespondDomainError(w, err)
		if status >= http.StatusInternalServerError {
			h.logger.Error("POST /appointments/book - Failed to book: citizen_id=%s, service_id=%s, error=%v",
				actor.ID, useCaseReq.ServiceID, err)
		} else {
			h.logger.Warn("POST /appointments/book - Rejected: citizen_id=%s, status=%d, error=%v", actor.ID, status, err)
		}
		return
	}

	h.logger.Info("POST /appointments/book - Appointment booked: id=%s, number=%s, citizen_id=%s",
		result.Appointment.ID, result.Appointment.AppointmentNumber, actor.ID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result, actor))
}
