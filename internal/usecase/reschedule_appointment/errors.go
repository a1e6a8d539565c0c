package reschedule_appointment

import (
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

var (
	// ErrAppointmentNotFound возвращается, когда запись не найдена
	ErrAppointmentNotFound = fmt.Errorf("%w: appointment not found", domain.ErrNotFound)

	// ErrServiceNotFound возвращается, когда услуга записи не найдена
	ErrServiceNotFound = fmt.Errorf("%w: service not found", domain.ErrNotFound)

	// ErrDepartmentNotFound возвращается, когда отдел не найден
	ErrDepartmentNotFound = fmt.Errorf("%w: department not found", domain.ErrNotFound)

	// ErrDepartmentClosed возвращается, когда отдел не работает в новый день
	ErrDepartmentClosed = fmt.Errorf("%w: department is closed on this date", domain.ErrValidation)

	// ErrInvalidTimeSlot возвращается, когда новое время не совпадает с началом слота
	ErrInvalidTimeSlot = fmt.Errorf("%w: time is not a valid slot for this service", domain.ErrValidation)

	// ErrSlotStarted возвращается, когда новый слот на сегодня уже начался
	ErrSlotStarted = fmt.Errorf("%w: slot has already started", domain.ErrValidation)

	// ErrSlotNotAvailable возвращается, когда новый слот занят
	ErrSlotNotAvailable = fmt.Errorf("%w: selected slot is no longer available", domain.ErrSlotConflict)

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("%w: invalid input data", domain.ErrValidation)

	// ErrInternal возвращается при внутренних ошибках
	ErrInternal = fmt.Errorf("%w: reschedule appointment: internal error", domain.ErrServiceUnavailable)
)
