package reschedule_appointment

import (
	"github.com/google/uuid"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/service/appointments/models"
	rescheduleAppointment "github.com/m04kA/SMC-AppointmentService/internal/usecase/reschedule_appointment"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// RescheduleAppointmentRequest HTTP модель переноса записи
type RescheduleAppointmentRequest struct {
	NewDate string `json:"newDate"`
	NewTime string `json:"newTime"`
	Reason  string `json:"reason"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *RescheduleAppointmentRequest) ToUseCaseRequest(id uuid.UUID, actor domain.Actor) (*rescheduleAppointment.Request, error) {
	date, err := domain.ParseDate(r.NewDate)
	if err != nil {
		return nil, err
	}
	return &rescheduleAppointment.Request{
		AppointmentID: id,
		Actor:         actor,
		NewDate:       date,
		NewTime:       types.TimeString(r.NewTime),
		Reason:        r.Reason,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *rescheduleAppointment.Response, actor domain.Actor) *models.AppointmentResponse {
	return models.FromDomainAppointmentFor(resp.Appointment, actor)
}
