package notifier

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ChannelEmail канал доставки уведомлений
const ChannelEmail = "email"

// Job задача на уведомление о записи
type Job struct {
	AppointmentID     uuid.UUID `json:"appointmentId"`
	AppointmentNumber string    `json:"appointmentNumber"`
	Recipient         string    `json:"recipient"`
	CitizenName       string    `json:"citizenName"`
	ServiceName       string    `json:"serviceName"`
	DepartmentName    string    `json:"departmentName"`
	Location          string    `json:"location,omitempty"`
	Date              string    `json:"date"`
	Time              string    `json:"time"`
	Rescheduled       bool      `json:"rescheduled,omitempty"`
	EnqueuedAt        time.Time `json:"enqueuedAt"`
}

// Subject тема письма
func (j Job) Subject() string {
	if j.Rescheduled {
		return fmt.Sprintf("Appointment %s moved to %s %s", j.AppointmentNumber, j.Date, j.Time)
	}
	return fmt.Sprintf("Appointment %s confirmed for %s %s", j.AppointmentNumber, j.Date, j.Time)
}

// Body текст письма
func (j Job) Body() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Dear %s,\n\n", j.CitizenName)
	if j.Rescheduled {
		fmt.Fprintf(&b, "Your appointment for %q at %s has been moved to a new time.\n\n", j.ServiceName, j.DepartmentName)
	} else {
		fmt.Fprintf(&b, "Your appointment for %q at %s is booked.\n\n", j.ServiceName, j.DepartmentName)
	}
	fmt.Fprintf(&b, "Reference: %s\n", j.AppointmentNumber)
	fmt.Fprintf(&b, "Date: %s\n", j.Date)
	fmt.Fprintf(&b, "Time: %s\n", j.Time)
	if j.Location != "" {
		fmt.Fprintf(&b, "Location: %s\n", j.Location)
	}
	b.WriteString("\nPlease bring the QR code from your appointment page for check-in.\n")
	return b.String()
}
