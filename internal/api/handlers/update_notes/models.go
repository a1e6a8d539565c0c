package update_notes

import "github.com/m04kA/SMC-AppointmentService/internal/service/appointments/models"

// UpdateNotesRequest HTTP модель изменения заметок. Отсутствующее поле не меняется.
type UpdateNotesRequest struct {
	Officer  *string `json:"officer,omitempty"`
	Internal *string `json:"internal,omitempty"`
}

// IsEmpty возвращает true, если не передано ни одного поля
func (r *UpdateNotesRequest) IsEmpty() bool {
	return r.Officer == nil && r.Internal == nil
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *UpdateNotesRequest) ToServiceRequest() *models.UpdateNotesRequest {
	return &models.UpdateNotesRequest{
		Officer:  r.Officer,
		Internal: r.Internal,
	}
}
