package domain

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Service is a government service that can be booked
type Service struct {
	ID                         uuid.UUID
	Name                       string
	DepartmentID               uuid.UUID
	AppointmentDurationMinutes int
	MaxAdvanceBookingDays      int
	FeeAmount                  float64
	FeeCurrency                string
	RequiredDocuments          []string
	IsActive                   bool
}

// Department owns services and defines working hours
type Department struct {
	ID           uuid.UUID
	Name         string
	Location     string
	ContactPhone string
	ContactEmail string
	WorkingHours WorkingHours
}

// DaySchedule is the opening configuration of a single weekday
type DaySchedule struct {
	IsOpen bool             `json:"isOpen"`
	Start  types.TimeString `json:"start"`
	End    types.TimeString `json:"end"`
}

// Interval is an open interval in minutes since midnight, [Start, End)
type Interval struct {
	Start int
	End   int
}

// Minutes returns the interval length
func (i Interval) Minutes() int {
	return i.End - i.Start
}

// WorkingHours holds one schedule per weekday, indexed by time.Weekday.
// A zero DaySchedule means closed.
type WorkingHours [7]DaySchedule

// Day returns the schedule for the weekday
func (w WorkingHours) Day(d time.Weekday) DaySchedule {
	return w[d]
}

// IntervalFor resolves the open interval of the date's weekday.
// The second result is false when the department is closed that day.
func (w WorkingHours) IntervalFor(date time.Time) (Interval, bool) {
	day := w[date.Weekday()]
	if !day.IsOpen || day.Start.IsZero() || day.End.IsZero() {
		return Interval{}, false
	}

	start, err := day.Start.Minutes()
	if err != nil {
		return Interval{}, false
	}
	end, err := day.End.Minutes()
	if err != nil || end <= start {
		return Interval{}, false
	}

	return Interval{Start: start, End: end}, true
}

// MarshalJSON encodes working hours as an object keyed by lowercase weekday name
func (w WorkingHours) MarshalJSON() ([]byte, error) {
	out := make(map[string]DaySchedule, 7)
	for d := time.Sunday; d <= time.Saturday; d++ {
		out[strings.ToLower(d.String())] = w[d]
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes an object keyed by weekday name. Unknown keys are
// ignored, missing days stay closed.
func (w *WorkingHours) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	var result WorkingHours
	for key, value := range raw {
		d, ok := ParseWeekday(key)
		if !ok {
			continue
		}
		var day DaySchedule
		if err := json.Unmarshal(value, &day); err != nil {
			// Битая запись дня считается выходным
			continue
		}
		result[d] = day
	}

	*w = result
	return nil
}

// ParseWeekday maps a case-insensitive weekday name to time.Weekday
func ParseWeekday(name string) (time.Weekday, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for d := time.Sunday; d <= time.Saturday; d++ {
		if strings.ToLower(d.String()) == name {
			return d, true
		}
	}
	return 0, false
}
