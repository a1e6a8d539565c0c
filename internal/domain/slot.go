package domain

import "github.com/m04kA/SMC-AppointmentService/pkg/types"

// Slot is a bookable time window. It is computed per request and never stored.
type Slot struct {
	StartTime    types.TimeString
	EndTime      types.TimeString
	DisplayLabel string
}

// NewSlot builds a slot with its "HH:MM - HH:MM" label
func NewSlot(start, end types.TimeString) Slot {
	return Slot{
		StartTime:    start,
		EndTime:      end,
		DisplayLabel: start.String() + " - " + end.String(),
	}
}
