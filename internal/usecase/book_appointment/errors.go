package book_appointment

import (
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

var (
	// ErrServiceNotFound возвращается, когда услуга не найдена
	ErrServiceNotFound = fmt.Errorf("%w: service not found", domain.ErrNotFound)

	// ErrDepartmentNotFound возвращается, когда отдел услуги не найден
	ErrDepartmentNotFound = fmt.Errorf("%w: department not found", domain.ErrNotFound)

	// ErrDepartmentClosed возвращается, когда отдел не работает в выбранный день
	ErrDepartmentClosed = fmt.Errorf("%w: department is closed on this date", domain.ErrValidation)

	// ErrInvalidTimeSlot возвращается, когда время не совпадает с началом слота
	ErrInvalidTimeSlot = fmt.Errorf("%w: time is not a valid slot for this service", domain.ErrValidation)

	// ErrSlotStarted возвращается, когда слот на сегодня уже начался
	ErrSlotStarted = fmt.Errorf("%w: slot has already started", domain.ErrValidation)

	// ErrSlotNotAvailable возвращается, когда слот уже занят
	ErrSlotNotAvailable = fmt.Errorf("%w: selected slot is no longer available", domain.ErrSlotConflict)

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("%w: invalid input data", domain.ErrValidation)

	// ErrInternal возвращается при внутренних ошибках
	ErrInternal = fmt.Errorf("%w: book appointment: internal error", domain.ErrServiceUnavailable)
)
