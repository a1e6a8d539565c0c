package userservice

import "errors"

var (
	// ErrUserNotFound возвращается, когда пользователь не найден
	ErrUserNotFound = errors.New("userservice client: user not found")

	// ErrNotOfficer возвращается, когда пользователь не является сотрудником
	ErrNotOfficer = errors.New("userservice client: user is not an officer")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("userservice client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("userservice client: invalid response")

	// ErrServiceDegraded возвращается при применении graceful degradation
	// UserService недоступен, данные гражданина подставляются из того, что известно локально
	ErrServiceDegraded = errors.New("userservice unavailable: graceful degradation applied")
)
