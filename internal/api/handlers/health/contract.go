package health

import "context"

// Pinger зависимость, доступность которой проверяется
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc адаптер функции к Pinger
type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error {
	return f(ctx)
}

type Logger interface {
	Warn(format string, v ...interface{})
}
