package update_status

import "github.com/m04kA/SMC-AppointmentService/internal/service/appointments/models"

// UpdateStatusRequest HTTP модель смены статуса
type UpdateStatusRequest struct {
	Status string        `json:"status"`
	Notes  *NotesRequest `json:"notes,omitempty"`
	Reason string        `json:"reason,omitempty"`
}

// NotesRequest заметки сотрудника
type NotesRequest struct {
	Officer *string `json:"officer,omitempty"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *UpdateStatusRequest) ToServiceRequest() *models.UpdateStatusRequest {
	req := &models.UpdateStatusRequest{
		Status: r.Status,
		Reason: r.Reason,
	}
	if r.Notes != nil {
		req.OfficerNotes = r.Notes.Officer
	}
	return req
}
