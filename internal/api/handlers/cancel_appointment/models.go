package cancel_appointment

import "github.com/m04kA/SMC-AppointmentService/internal/service/appointments/models"

// CancelAppointmentRequest HTTP модель запроса на отмену
type CancelAppointmentRequest struct {
	CancellationReason string `json:"cancellationReason"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *CancelAppointmentRequest) ToServiceRequest() *models.CancelRequest {
	return &models.CancelRequest{CancellationReason: r.CancellationReason}
}
