package artifacts

import (
	"encoding/json"
	"fmt"
	"strings"
)

// CheckInPayload данные, закодированные в QR код для регистрации на приеме
type CheckInPayload struct {
	AppointmentNumber string `json:"appointmentNumber"`
	CitizenName       string `json:"citizenName"`
	Service           string `json:"service"`
	Department        string `json:"department"`
	Date              string `json:"date"`
	Time              string `json:"time"`
}

// EncodePayload сериализует payload в строку для QR кода
func EncodePayload(p CheckInPayload) (string, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return string(data), nil
}

// DecodePayload восстанавливает payload из QR строки.
// Все поля обязательны.
func DecodePayload(s string) (CheckInPayload, error) {
	var p CheckInPayload
	dec := json.NewDecoder(strings.NewReader(s))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&p); err != nil {
		return CheckInPayload{}, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}

	if p.AppointmentNumber == "" || p.CitizenName == "" || p.Service == "" ||
		p.Department == "" || p.Date == "" || p.Time == "" {
		return CheckInPayload{}, fmt.Errorf("%w: missing fields", ErrInvalidPayload)
	}
	return p, nil
}
