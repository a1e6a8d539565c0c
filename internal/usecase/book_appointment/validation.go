package book_appointment

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/slots"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.CitizenID == uuid.Nil {
		return fmt.Errorf("%w: citizenId is required", ErrInvalidInput)
	}
	if req.ServiceID == uuid.Nil {
		return fmt.Errorf("%w: serviceId is required", ErrInvalidInput)
	}
	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	if err := req.Time.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if len(req.CitizenNotes) > domain.MaxCitizenNotesLength {
		return fmt.Errorf("%w: notes must be at most %d characters", ErrInvalidInput, domain.MaxCitizenNotesLength)
	}
	return nil
}

// validateSlot проверяет, что время совпадает с началом слота генератора
// и что слот еще не начался
func validateSlot(dept *domain.Department, service *domain.Service, date time.Time, t types.TimeString, now time.Time) error {
	interval, open := dept.WorkingHours.IntervalFor(date)
	if !open {
		return ErrDepartmentClosed
	}
	if !slots.Contains(interval, service.AppointmentDurationMinutes, t) {
		return fmt.Errorf("%w: %s", ErrInvalidTimeSlot, t)
	}
	if slots.Started(date, t, now) {
		return ErrSlotStarted
	}
	return nil
}
