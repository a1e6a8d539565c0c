package get_available_slots

import (
	"github.com/google/uuid"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	getAvailableSlots "github.com/m04kA/SMC-AppointmentService/internal/usecase/get_available_slots"
)

// SlotResponse HTTP модель слота
type SlotResponse struct {
	StartTime    string `json:"startTime"`
	EndTime      string `json:"endTime"`
	DisplayLabel string `json:"displayLabel"`
}

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	ServiceID      string         `json:"serviceId"`
	Date           string         `json:"date"`
	AvailableSlots []SlotResponse `json:"availableSlots"`
	Reason         string         `json:"reason,omitempty"`
}

// ToUseCaseRequest конвертирует query параметры в модель use case
func ToUseCaseRequest(serviceID uuid.UUID, dateStr string) (*getAvailableSlots.Request, error) {
	date, err := domain.ParseDate(dateStr)
	if err != nil {
		return nil, err
	}
	return &getAvailableSlots.Request{ServiceID: serviceID, Date: date}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailableSlotsResponse {
	out := &AvailableSlotsResponse{
		ServiceID:      resp.ServiceID.String(),
		Date:           resp.Date.Format(domain.DateFormat),
		AvailableSlots: make([]SlotResponse, 0, len(resp.Slots)),
		Reason:         resp.Reason,
	}
	for _, s := range resp.Slots {
		out.AvailableSlots = append(out.AvailableSlots, SlotResponse{
			StartTime:    s.StartTime.String(),
			EndTime:      s.EndTime.String(),
			DisplayLabel: s.DisplayLabel,
		})
	}
	return out
}
