package appointments

import (
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

var (
	// ErrAppointmentNotFound возвращается, когда запись не найдена
	ErrAppointmentNotFound = fmt.Errorf("%w: appointment not found", domain.ErrNotFound)

	// ErrOfficerNotFound возвращается, когда назначаемый сотрудник не найден
	ErrOfficerNotFound = fmt.Errorf("%w: officer not found", domain.ErrNotFound)

	// ErrNotOfficer возвращается, когда назначаемый пользователь не сотрудник
	ErrNotOfficer = fmt.Errorf("%w: user is not an officer", domain.ErrValidation)

	// ErrQRNotIssued возвращается, когда у записи еще нет check-in payload
	ErrQRNotIssued = fmt.Errorf("%w: check-in code not issued", domain.ErrNotFound)

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("%w: invalid input data", domain.ErrValidation)

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = fmt.Errorf("%w: appointments service: internal error", domain.ErrServiceUnavailable)
)
