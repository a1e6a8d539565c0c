package submit_feedback

import "github.com/m04kA/SMC-AppointmentService/internal/service/appointments/models"

// SubmitFeedbackRequest HTTP модель отзыва
type SubmitFeedbackRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment,omitempty"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *SubmitFeedbackRequest) ToServiceRequest() *models.FeedbackRequest {
	return &models.FeedbackRequest{
		Rating:  r.Rating,
		Comment: r.Comment,
	}
}
