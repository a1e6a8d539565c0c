package appointment

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

const table = "appointments"

// Имена ограничений уникальности из миграции 00001_init.sql
const (
	constraintActiveSlot = "ux_appointments_active_slot"
	constraintNumber     = "ux_appointments_number"

	pqUniqueViolation = "23505"
)

var columns = []string{
	"id",
	"appointment_number",
	"citizen_id",
	"service_id",
	"department_id",
	"assigned_officer_id",
	"appointment_date",
	"appointment_time",
	"status",
	"citizen_notes",
	"officer_notes",
	"internal_notes",
	"documents",
	"feedback",
	"qr_payload",
	"reschedule_history",
	"cancellation_reason",
	"cancelled_at",
	"notifications",
	"created_at",
	"updated_at",
}

// scanAppointment сканирует строку с колонками columns
func scanAppointment(row scanner) (*domain.Appointment, error) {
	var (
		a                  domain.Appointment
		officerID          uuid.NullUUID
		documents          []byte
		feedback           []byte
		history            []byte
		notifications      []byte
		cancellationReason sql.NullString
		cancelledAt        sql.NullTime
		createdAt          sql.NullTime
		updatedAt          sql.NullTime
	)

	err := row.Scan(
		&a.ID,
		&a.AppointmentNumber,
		&a.CitizenID,
		&a.ServiceID,
		&a.DepartmentID,
		&officerID,
		&a.AppointmentDate,
		&a.AppointmentTime,
		&a.Status,
		&a.Notes.Citizen,
		&a.Notes.Officer,
		&a.Notes.Internal,
		&documents,
		&feedback,
		&a.QRPayload,
		&history,
		&cancellationReason,
		&cancelledAt,
		&notifications,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if officerID.Valid {
		a.AssignedOfficerID = &officerID.UUID
	}
	a.AppointmentDate = domain.DateOnly(a.AppointmentDate)
	if cancellationReason.Valid {
		a.CancellationReason = &cancellationReason.String
	}
	if cancelledAt.Valid {
		a.CancelledAt = &cancelledAt.Time
	}
	a.CreatedAt = createdAt.Time
	a.UpdatedAt = updatedAt.Time

	if err := decodeJSON(documents, &a.Documents); err != nil {
		return nil, fmt.Errorf("documents: %w", err)
	}
	if len(feedback) > 0 && string(feedback) != "null" {
		a.Feedback = &domain.Feedback{}
		if err := json.Unmarshal(feedback, a.Feedback); err != nil {
			return nil, fmt.Errorf("feedback: %w", err)
		}
	}
	if err := decodeJSON(history, &a.RescheduleHistory); err != nil {
		return nil, fmt.Errorf("reschedule_history: %w", err)
	}
	if err := decodeJSON(notifications, &a.Notifications); err != nil {
		return nil, fmt.Errorf("notifications: %w", err)
	}

	return &a, nil
}

func decodeJSON(data []byte, dest any) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, dest)
}

// encodeJSON сериализует значение для JSONB колонки.
// Строка, а не []byte: lib/pq передает []byte как bytea.
func encodeJSON(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// encodeList сериализует nil-слайс как пустой массив
func encodeList[T any](items []T) (string, error) {
	if items == nil {
		items = []T{}
	}
	return encodeJSON(items)
}

// mapUniqueViolation переводит 23505 в доменные ошибки репозитория по имени ограничения
func mapUniqueViolation(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) || pqErr.Code != pqUniqueViolation {
		return nil
	}
	switch pqErr.Constraint {
	case constraintActiveSlot:
		return ErrSlotOccupied
	case constraintNumber:
		return ErrDuplicateNumber
	default:
		return nil
	}
}

func occupyingStatuses() []string {
	out := make([]string, 0, len(domain.OccupyingStatuses))
	for _, s := range domain.OccupyingStatuses {
		out = append(out, string(s))
	}
	return out
}
