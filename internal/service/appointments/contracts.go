package appointments

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/userservice"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Appointment, error)
	GetByCitizen(ctx context.Context, citizenID uuid.UUID, status *domain.AppointmentStatus) ([]*domain.Appointment, error)
	Search(ctx context.Context, filter domain.SearchFilter) ([]*domain.Appointment, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to domain.AppointmentStatus, reason string) error
	Cancel(ctx context.Context, id uuid.UUID, from domain.AppointmentStatus, reason string) error
	AssignOfficer(ctx context.Context, id uuid.UUID, officerID uuid.UUID) error
	AssignIfUnassigned(ctx context.Context, id uuid.UUID, officerID uuid.UUID) (bool, error)
	UpdateNotes(ctx context.Context, id uuid.UUID, officer, internal *string) error
	SetFeedback(ctx context.Context, id uuid.UUID, feedback domain.Feedback) error
}

// UserServiceClient интерфейс клиента для UserService
type UserServiceClient interface {
	GetOfficer(ctx context.Context, officerID uuid.UUID) (*userservice.User, error)
}

// TimeProvider интерфейс для получения текущего времени
type TimeProvider interface {
	Now() time.Time
}

// Metrics счетчики переходов статуса
type Metrics interface {
	ObserveTransition(status string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
