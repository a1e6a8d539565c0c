package update_status

import (
	"context"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/service/appointments/models"
)

type AppointmentService interface {
	UpdateStatus(ctx context.Context, id uuid.UUID, actor domain.Actor, req *models.UpdateStatusRequest) (*models.AppointmentResponse, error)
	AssignIfUnassigned(ctx context.Context, id uuid.UUID, actor domain.Actor) (bool, error)
	Get(ctx context.Context, id uuid.UUID, actor domain.Actor) (*models.AppointmentResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
