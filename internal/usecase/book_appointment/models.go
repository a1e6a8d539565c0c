package book_appointment

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Request модель запроса на запись
type Request struct {
	CitizenID    uuid.UUID        // ID гражданина из токена
	ServiceID    uuid.UUID        // ID услуги
	Date         time.Time        // Дата приема (без времени)
	Time         types.TimeString // Время начала слота (например, "09:30")
	CitizenNotes string           // Заметки гражданина (опционально)
}

// Response модель ответа с созданной записью
type Response struct {
	Appointment   *domain.Appointment // Запись с заполненным QRPayload
	QRCodeDataURL string              // PNG с QR кодом как data URL, пусто при ошибке генерации
}
