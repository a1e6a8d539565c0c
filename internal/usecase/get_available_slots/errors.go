package get_available_slots

import (
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

var (
	// ErrServiceNotFound возвращается, когда услуга не найдена
	ErrServiceNotFound = fmt.Errorf("%w: service not found", domain.ErrNotFound)

	// ErrDepartmentNotFound возвращается, когда отдел услуги не найден
	ErrDepartmentNotFound = fmt.Errorf("%w: department not found", domain.ErrNotFound)

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("%w: invalid input data", domain.ErrValidation)

	// ErrInternal возвращается при внутренних ошибках
	ErrInternal = fmt.Errorf("%w: get available slots: internal error", domain.ErrServiceUnavailable)
)
