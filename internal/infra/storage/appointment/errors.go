package appointment

import "errors"

var (
	// ErrAppointmentNotFound возвращается, когда запись не найдена
	ErrAppointmentNotFound = errors.New("appointment.repository: appointment not found")

	// ErrSlotOccupied возвращается, когда слот уже занят (нарушение ux_appointments_active_slot)
	ErrSlotOccupied = errors.New("appointment.repository: slot already occupied")

	// ErrDuplicateNumber возвращается при коллизии номера записи
	ErrDuplicateNumber = errors.New("appointment.repository: duplicate appointment number")

	// ErrPreconditionFailed возвращается, когда запись изменилась между чтением и обновлением
	ErrPreconditionFailed = errors.New("appointment.repository: appointment state changed")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("appointment.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("appointment.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("appointment.repository: failed to scan row")

	// ErrEncode возвращается при ошибке сериализации JSONB поля
	ErrEncode = errors.New("appointment.repository: failed to encode jsonb")
)
