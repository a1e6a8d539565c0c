package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/psqlbuilder"
)

// Repository справочник услуг и отделов (только чтение).
// Сами справочники ведет админка, здесь они нужны для расчета слотов.
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория справочников
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetService получает активную услугу по ID
func (r *Repository) GetService(ctx context.Context, id uuid.UUID) (*domain.Service, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"name",
		"department_id",
		"appointment_duration_minutes",
		"max_advance_booking_days",
		"fee_amount",
		"fee_currency",
		"required_documents",
		"is_active",
	).
		From("services").
		Where(squirrel.Eq{"id": id.String(), "is_active": true}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetService - build select query: %v", ErrBuildQuery, err)
	}

	var (
		s    domain.Service
		docs []byte
	)
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&s.ID,
		&s.Name,
		&s.DepartmentID,
		&s.AppointmentDurationMinutes,
		&s.MaxAdvanceBookingDays,
		&s.FeeAmount,
		&s.FeeCurrency,
		&docs,
		&s.IsActive,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrServiceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetService - scan service: %v", ErrScanRow, err)
	}

	if len(docs) > 0 {
		if err := json.Unmarshal(docs, &s.RequiredDocuments); err != nil {
			return nil, fmt.Errorf("%w: GetService - required_documents: %v", ErrScanRow, err)
		}
	}

	return &s, nil
}

// GetDepartment получает отдел с рабочими часами
func (r *Repository) GetDepartment(ctx context.Context, id uuid.UUID) (*domain.Department, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"name",
		"location",
		"contact_phone",
		"contact_email",
		"working_hours",
	).
		From("departments").
		Where(squirrel.Eq{"id": id.String()}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetDepartment - build select query: %v", ErrBuildQuery, err)
	}

	var (
		d     domain.Department
		hours []byte
	)
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&d.ID,
		&d.Name,
		&d.Location,
		&d.ContactPhone,
		&d.ContactEmail,
		&hours,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrDepartmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetDepartment - scan department: %v", ErrScanRow, err)
	}

	if len(hours) > 0 {
		if err := json.Unmarshal(hours, &d.WorkingHours); err != nil {
			return nil, fmt.Errorf("%w: GetDepartment - working_hours: %v", ErrScanRow, err)
		}
	}

	return &d, nil
}
