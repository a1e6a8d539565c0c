package notifier

import "errors"

var (
	// ErrQueueEmpty возвращается, когда за время ожидания задач не появилось
	ErrQueueEmpty = errors.New("notifier: queue is empty")

	// ErrQueue возвращается при ошибках Redis
	ErrQueue = errors.New("notifier: queue error")

	// ErrDecode возвращается при битой задаче в очереди
	ErrDecode = errors.New("notifier: failed to decode job")

	// ErrInvalidMessage возвращается при некорректном письме
	ErrInvalidMessage = errors.New("notifier: invalid message")

	// ErrSend возвращается при ошибке отправки письма
	ErrSend = errors.New("notifier: failed to send email")
)
