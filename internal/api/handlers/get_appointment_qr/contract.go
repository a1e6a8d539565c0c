package get_appointment_qr

import (
	"context"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

type AppointmentService interface {
	GetCheckInQR(ctx context.Context, id uuid.UUID, actor domain.Actor) ([]byte, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
