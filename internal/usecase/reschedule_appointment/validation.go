package reschedule_appointment

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
	if req.AppointmentID == uuid.Nil {
		return fmt.Errorf("%w: appointment id is required", ErrInvalidInput)
	}
	if req.NewDate.IsZero() {
		return fmt.Errorf("%w: newDate is required", ErrInvalidInput)
	}
	if err := req.NewTime.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if len(req.Reason) > domain.MaxRescheduleReasonLength {
		return fmt.Errorf("%w: reason must be at most %d characters", ErrInvalidInput, domain.MaxRescheduleReasonLength)
	}
	return nil
}

// validateSlot проверяет, что новое время совпадает с началом слота
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
