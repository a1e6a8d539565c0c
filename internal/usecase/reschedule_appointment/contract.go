package reschedule_appointment

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// CatalogRepository интерфейс справочника услуг и отделов
type CatalogRepository interface {
	GetService(ctx context.Context, id uuid.UUID) (*domain.Service, error)
	GetDepartment(ctx context.Context, id uuid.UUID) (*domain.Department, error)
}

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Appointment, error)
	IsOccupied(ctx context.Context, serviceID uuid.UUID, date time.Time, t types.TimeString, excludeID *uuid.UUID) (bool, error)
	Reschedule(ctx context.Context, id uuid.UUID, from domain.AppointmentStatus, entry domain.RescheduleEntry, qrPayload string) error
}

// ArtifactIssuer обновляет артефакты записи после переноса
type ArtifactIssuer interface {
	RescheduledPayload(ctx context.Context, appt *domain.Appointment, newDate time.Time, newTime types.TimeString, service *domain.Service, dept *domain.Department) string
	NotifyRescheduled(ctx context.Context, appt *domain.Appointment, service *domain.Service, dept *domain.Department)
}

// TransactionManager интерфейс менеджера транзакций
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
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
