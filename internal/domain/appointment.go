package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// AppointmentStatus represents the lifecycle status of an appointment
type AppointmentStatus string

const (
	StatusPending     AppointmentStatus = "pending"
	StatusConfirmed   AppointmentStatus = "confirmed"
	StatusInProgress  AppointmentStatus = "in_progress"
	StatusCompleted   AppointmentStatus = "completed"
	StatusCancelled   AppointmentStatus = "cancelled"
	StatusNoShow      AppointmentStatus = "no_show"
	StatusRescheduled AppointmentStatus = "rescheduled"
)

// IsValid reports whether s is a known status
func (s AppointmentStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusInProgress, StatusCompleted,
		StatusCancelled, StatusNoShow, StatusRescheduled:
		return true
	}
	return false
}

// OccupiesSlot reports whether an appointment in this status holds its slot
func (s AppointmentStatus) OccupiesSlot() bool {
	for _, st := range OccupyingStatuses {
		if st == s {
			return true
		}
	}
	return false
}

// Notes are free-form comments attached to an appointment.
// Citizen notes are written at booking time, officer and internal notes by staff.
type Notes struct {
	Citizen  string `json:"citizen,omitempty"`
	Officer  string `json:"officer,omitempty"`
	Internal string `json:"internal,omitempty"`
}

// Document is a reference to a document the citizen brings or uploaded
type Document struct {
	Name       string    `json:"name"`
	URL        string    `json:"url,omitempty"`
	UploadedAt time.Time `json:"uploadedAt"`
}

// Feedback left by the citizen after a completed appointment
type Feedback struct {
	Rating      int       `json:"rating"`
	Comment     string    `json:"comment,omitempty"`
	SubmittedAt time.Time `json:"submittedAt"`
}

// RescheduleEntry is one append-only record of a reschedule
type RescheduleEntry struct {
	PreviousDate time.Time        `json:"previousDate"`
	PreviousTime types.TimeString `json:"previousTime"`
	NewDate      time.Time        `json:"newDate"`
	NewTime      types.TimeString `json:"newTime"`
	Reason       string           `json:"reason"`
	ActorID      uuid.UUID        `json:"actorId"`
	Timestamp    time.Time        `json:"timestamp"`
}

// NotificationStatus is the delivery outcome of a notification attempt
type NotificationStatus string

const (
	NotificationQueued NotificationStatus = "queued"
	NotificationSent   NotificationStatus = "sent"
	NotificationFailed NotificationStatus = "failed"
)

// Notification is one delivery attempt
type Notification struct {
	Channel   string             `json:"channel"`
	Status    NotificationStatus `json:"status"`
	Message   string             `json:"message,omitempty"`
	Timestamp time.Time          `json:"timestamp"`
}

// Appointment represents a citizen's booking of a service slot
type Appointment struct {
	ID                uuid.UUID
	AppointmentNumber string
	CitizenID         uuid.UUID
	ServiceID         uuid.UUID
	DepartmentID      uuid.UUID
	AssignedOfficerID *uuid.UUID
	AppointmentDate   time.Time
	AppointmentTime   types.TimeString
	Status            AppointmentStatus

	Notes     Notes
	Documents []Document
	Feedback  *Feedback

	QRPayload         string
	RescheduleHistory []RescheduleEntry

	CancellationReason *string
	CancelledAt        *time.Time

	Notifications []Notification

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsOwnedBy returns true if the appointment belongs to the citizen
func (a *Appointment) IsOwnedBy(citizenID uuid.UUID) bool {
	return a.CitizenID == citizenID
}

// HasFeedback returns true if feedback was already submitted
func (a *Appointment) HasFeedback() bool {
	return a.Feedback != nil
}

// IsAssigned returns true if an officer is assigned
func (a *Appointment) IsAssigned() bool {
	return a.AssignedOfficerID != nil
}
