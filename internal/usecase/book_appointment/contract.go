package book_appointment

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/service/artifacts"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// CatalogRepository интерфейс справочника услуг и отделов
type CatalogRepository interface {
	GetService(ctx context.Context, id uuid.UUID) (*domain.Service, error)
	GetDepartment(ctx context.Context, id uuid.UUID) (*domain.Department, error)
}

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	IsOccupied(ctx context.Context, serviceID uuid.UUID, date time.Time, t types.TimeString, excludeID *uuid.UUID) (bool, error)
	Create(ctx context.Context, a *domain.Appointment) (*domain.Appointment, error)
}

// ArtifactIssuer выдает артефакты созданной записи
type ArtifactIssuer interface {
	Issue(ctx context.Context, appt *domain.Appointment, service *domain.Service, dept *domain.Department) artifacts.Artifact
}

// TransactionManager интерфейс менеджера транзакций
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Metrics счетчики записей
type Metrics interface {
	ObserveBooking(result string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
