package get_available_slots

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
	// OccupiedTimes возвращает занятые время начала слотов услуги на дату
	OccupiedTimes(ctx context.Context, serviceID uuid.UUID, date time.Time) ([]types.TimeString, error)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
