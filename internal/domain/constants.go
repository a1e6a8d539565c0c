package domain

// Default configuration values
const (
	DefaultMaxAdvanceBookingDays = 30
	DefaultAppointmentDuration   = 30
)

// Business validation constants
const (
	MinAppointmentDurationMinutes = 5
	MaxAppointmentDurationMinutes = 480 // 8 hours
	MaxCitizenNotesLength         = 1000
	MaxOfficerNotesLength         = 2000
	MaxCancellationReasonLength   = 500
	MaxRescheduleReasonLength     = 500
	MaxFeedbackCommentLength      = 1000
	MinRating                     = 1
	MaxRating                     = 5
)

// Search paging
const (
	DefaultSearchLimit = 50
	MaxSearchLimit     = 200
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// OccupyingStatuses are the statuses that hold a (service, date, time) slot.
// Availability and booking both filter by this list, and the storage unique
// index uses the same set. Rescheduled appointments keep their new slot.
var OccupyingStatuses = []AppointmentStatus{
	StatusPending,
	StatusConfirmed,
	StatusInProgress,
	StatusRescheduled,
}

// TerminalStatuses free the slot
var TerminalStatuses = []AppointmentStatus{
	StatusCompleted,
	StatusCancelled,
	StatusNoShow,
}

// StaffSettableStatuses are the targets of a staff status update
var StaffSettableStatuses = []AppointmentStatus{
	StatusPending,
	StatusConfirmed,
	StatusInProgress,
	StatusCompleted,
	StatusCancelled,
	StatusNoShow,
}
