package artifacts

import (
	"context"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/notifier"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/userservice"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	SetQRPayload(ctx context.Context, id uuid.UUID, payload string) error
	AppendNotification(ctx context.Context, id uuid.UUID, n domain.Notification) error
}

// UserServiceClient интерфейс клиента для UserService
type UserServiceClient interface {
	GetCitizenWithGracefulDegradation(ctx context.Context, citizenID uuid.UUID) (*userservice.User, error)
}

// NotificationQueue очередь уведомлений
type NotificationQueue interface {
	Enqueue(ctx context.Context, job notifier.Job) error
}

// Metrics счетчики уведомлений
type Metrics interface {
	ObserveNotification(status string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
