package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Guard errors. Each wraps one of the error kinds.
var (
	ErrStaffOnly         = fmt.Errorf("%w: staff role required", ErrAuthorization)
	ErrCitizenOnly       = fmt.Errorf("%w: citizen role required", ErrAuthorization)
	ErrNotOwner          = fmt.Errorf("%w: appointment belongs to another citizen", ErrAuthorization)
	ErrOutsideDepartment = fmt.Errorf("%w: appointment belongs to another department", ErrAuthorization)
	ErrOfficerDepartment = fmt.Errorf("%w: officer belongs to another department", ErrAuthorization)
	ErrNotCancellable    = fmt.Errorf("%w: only pending, confirmed or rescheduled appointments can be cancelled", ErrValidation)
	ErrCancelPast        = fmt.Errorf("%w: past appointments cannot be cancelled", ErrValidation)
	ErrReasonRequired    = fmt.Errorf("%w: reason is required", ErrValidation)
	ErrInvalidStatus     = fmt.Errorf("%w: invalid target status", ErrValidation)
	ErrSameStatus        = fmt.Errorf("%w: appointment already has this status", ErrValidation)
	ErrNotReschedulable  = fmt.Errorf("%w: appointment cannot be rescheduled in its current status", ErrValidation)
	ErrSameSlot          = fmt.Errorf("%w: new slot equals the current one", ErrValidation)
	ErrNotCompleted      = fmt.Errorf("%w: feedback is allowed only for completed appointments", ErrValidation)
	ErrInvalidRating     = fmt.Errorf("%w: rating must be between 1 and 5", ErrValidation)
	ErrFeedbackSubmitted = fmt.Errorf("%w: feedback already submitted", ErrAlreadyExists)
	ErrStatusChanged     = fmt.Errorf("%w: appointment status changed concurrently", ErrValidation)
)

// CheckStaffAccess verifies the actor is staff scoped to the appointment's department
func CheckStaffAccess(appt *Appointment, actor Actor) error {
	if !actor.IsStaff() {
		return ErrStaffOnly
	}
	if !actor.CanAccessDepartment(appt.DepartmentID) {
		return ErrOutsideDepartment
	}
	return nil
}

// CheckView verifies the actor may read the appointment
func CheckView(appt *Appointment, actor Actor) error {
	if actor.Role == RoleCitizen {
		if !appt.IsOwnedBy(actor.ID) {
			return ErrNotOwner
		}
		return nil
	}
	return CheckStaffAccess(appt, actor)
}

// CheckCitizenCancel guards cancellation by the owning citizen. A rescheduled
// appointment awaits confirmation at its new slot and cancels like a pending one.
func CheckCitizenCancel(appt *Appointment, actor Actor, reason string, now time.Time) error {
	if actor.Role != RoleCitizen {
		return ErrCitizenOnly
	}
	if !appt.IsOwnedBy(actor.ID) {
		return ErrNotOwner
	}
	switch appt.Status {
	case StatusPending, StatusConfirmed, StatusRescheduled:
	default:
		return ErrNotCancellable
	}
	if DateOnly(appt.AppointmentDate).Before(DateOnly(now)) {
		return ErrCancelPast
	}
	if strings.TrimSpace(reason) == "" {
		return ErrReasonRequired
	}
	return nil
}

// CheckStatusUpdate guards a staff status update
func CheckStatusUpdate(appt *Appointment, actor Actor, target AppointmentStatus) error {
	if err := CheckStaffAccess(appt, actor); err != nil {
		return err
	}
	if !isStaffSettable(target) {
		return ErrInvalidStatus
	}
	if appt.Status == target {
		return ErrSameStatus
	}
	return nil
}

// ShouldAutoAssign reports whether an officer moving an appointment into
// target should become its assignee
func ShouldAutoAssign(actor Actor, target AppointmentStatus) bool {
	return actor.Role == RoleOfficer && (target == StatusConfirmed || target == StatusCompleted)
}

// CheckReschedule guards a staff reschedule to (newDate, newTime)
func CheckReschedule(appt *Appointment, actor Actor, newDate time.Time, newTime types.TimeString, reason string, now time.Time) error {
	if err := CheckStaffAccess(appt, actor); err != nil {
		return err
	}
	switch appt.Status {
	case StatusPending, StatusConfirmed, StatusRescheduled:
	default:
		return ErrNotReschedulable
	}
	if strings.TrimSpace(reason) == "" {
		return ErrReasonRequired
	}
	if err := ValidateNotPast(newDate, now); err != nil {
		return err
	}
	if DateOnly(newDate).Equal(DateOnly(appt.AppointmentDate)) && newTime == appt.AppointmentTime {
		return ErrSameSlot
	}
	return nil
}

// CheckAssign guards officer assignment. officerDepartmentID is the
// department of the officer being assigned.
func CheckAssign(appt *Appointment, actor Actor, officerDepartmentID uuid.UUID) error {
	if err := CheckStaffAccess(appt, actor); err != nil {
		return err
	}
	if officerDepartmentID != appt.DepartmentID {
		return ErrOfficerDepartment
	}
	return nil
}

// CheckFeedback guards feedback submission by the owning citizen
func CheckFeedback(appt *Appointment, actor Actor, rating int) error {
	if actor.Role != RoleCitizen {
		return ErrCitizenOnly
	}
	if !appt.IsOwnedBy(actor.ID) {
		return ErrNotOwner
	}
	if appt.Status != StatusCompleted {
		return ErrNotCompleted
	}
	if appt.HasFeedback() {
		return ErrFeedbackSubmitted
	}
	if rating < MinRating || rating > MaxRating {
		return ErrInvalidRating
	}
	return nil
}

func isStaffSettable(s AppointmentStatus) bool {
	for _, st := range StaffSettableStatuses {
		if st == s {
			return true
		}
	}
	return false
}
