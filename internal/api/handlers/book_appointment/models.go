package book_appointment

import (
	"errors"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/service/appointments/models"
	bookAppointment "github.com/m04kA/SMC-AppointmentService/internal/usecase/book_appointment"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

var (
	errInvalidServiceID = errors.New("invalid service id")
	errInvalidDate      = errors.New("invalid appointment date")
)

// BookAppointmentRequest HTTP модель запроса на запись
type BookAppointmentRequest struct {
	ServiceID       string        `json:"serviceId"`
	AppointmentDate string        `json:"appointmentDate"`
	AppointmentTime string        `json:"appointmentTime"`
	Notes           *NotesRequest `json:"notes,omitempty"`
}

// NotesRequest заметки гражданина при записи
type NotesRequest struct {
	Citizen string `json:"citizen"`
}

// BookAppointmentResponse созданная запись вместе с QR кодом
type BookAppointmentResponse struct {
	*models.AppointmentResponse
	QRCodeDataURL string `json:"qrCodeDataUrl,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *BookAppointmentRequest) ToUseCaseRequest(citizenID uuid.UUID) (*bookAppointment.Request, error) {
	serviceID, err := uuid.Parse(r.ServiceID)
	if err != nil {
		return nil, errInvalidServiceID
	}
	date, err := domain.ParseDate(r.AppointmentDate)
	if err != nil {
		return nil, errInvalidDate
	}

	req := &bookAppointment.Request{
		CitizenID: citizenID,
		ServiceID: serviceID,
		Date:      date,
		Time:      types.TimeString(r.AppointmentTime),
	}
	if r.Notes != nil {
		req.CitizenNotes = r.Notes.Citizen
	}
	return req, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *bookAppointment.Response, actor domain.Actor) *BookAppointmentResponse {
	return &BookAppointmentResponse{
		AppointmentResponse: models.FromDomainAppointmentFor(resp.Appointment, actor),
		QRCodeDataURL:       resp.QRCodeDataURL,
	}
}
