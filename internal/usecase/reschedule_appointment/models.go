package reschedule_appointment

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Request модель запроса на перенос записи
type Request struct {
	AppointmentID uuid.UUID        // ID записи
	Actor         domain.Actor     // Сотрудник, выполняющий перенос
	NewDate       time.Time        // Новая дата (без времени)
	NewTime       types.TimeString // Новое время начала слота
	Reason        string           // Причина переноса (обязательно)
}

// Response модель ответа с перенесенной записью
type Response struct {
	Appointment *domain.Appointment
}
