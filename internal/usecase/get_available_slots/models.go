package get_available_slots

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// Причины пустого списка слотов
const (
	ReasonClosed      = "closed"
	ReasonFullyBooked = "fully_booked"
)

// Request модель запроса на получение доступных слотов
type Request struct {
	ServiceID uuid.UUID // ID услуги
	Date      time.Time // Дата для получения слотов (без времени)
}

// Response модель ответа со списком доступных слотов
type Response struct {
	ServiceID uuid.UUID     // ID услуги
	Date      time.Time     // Дата, на которую запрашивались слоты
	Slots     []domain.Slot // Свободные слоты в хронологическом порядке
	Reason    string        // Пусто, если есть свободные слоты
}
