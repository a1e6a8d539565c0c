package appointment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/psqlbuilder"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Repository репозиторий записей на прием
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория записей
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create сохраняет новую запись.
// Уникальность слота обеспечивается индексом ux_appointments_active_slot:
// проигравший гонку получает ErrSlotOccupied.
func (r *Repository) Create(ctx context.Context, a *domain.Appointment) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	documents, err := encodeList(a.Documents)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - documents: %v", ErrEncode, err)
	}
	history, err := encodeList(a.RescheduleHistory)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - reschedule_history: %v", ErrEncode, err)
	}
	notifications, err := encodeList(a.Notifications)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - notifications: %v", ErrEncode, err)
	}

	query, args, err := psqlbuilder.Insert(table).
		Columns(
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
			"qr_payload",
			"reschedule_history",
			"notifications",
		).
		Values(
			a.ID,
			a.AppointmentNumber,
			a.CitizenID,
			a.ServiceID,
			a.DepartmentID,
			a.AssignedOfficerID,
			a.AppointmentDate.Format(domain.DateFormat),
			a.AppointmentTime,
			a.Status,
			a.Notes.Citizen,
			a.Notes.Officer,
			a.Notes.Internal,
			documents,
			a.QRPayload,
			history,
			notifications,
		).
		Suffix("RETURNING created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&createdAt, &updatedAt)
	if err != nil {
		if mapped := mapUniqueViolation(err); mapped != nil {
			return nil, mapped
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	a.CreatedAt = createdAt.Time
	a.UpdatedAt = updatedAt.Time

	return a, nil
}

// GetByID получает запись по ID
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"id": id.String()}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	a, err := scanAppointment(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAppointmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan appointment: %v", ErrScanRow, err)
	}

	return a, nil
}

// GetByCitizen получает записи гражданина, новые сверху.
// Опционально фильтрует по статусу.
func (r *Repository) GetByCitizen(ctx context.Context, citizenID uuid.UUID, status *domain.AppointmentStatus) ([]*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"citizen_id": citizenID.String()}).
		OrderBy("appointment_date DESC", "appointment_time DESC")

	if status != nil {
		builder = builder.Where(squirrel.Eq{"status": *status})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByCitizen - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByCitizen - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanAll(rows)
}

// Search поиск записей для сотрудников.
// Использует индексы по отделу/дате, статусу и префиксу номера.
func (r *Repository) Search(ctx context.Context, filter domain.SearchFilter) ([]*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	filter.Normalize()

	builder := psqlbuilder.Select(columns...).
		From(table).
		OrderBy("appointment_date ASC", "appointment_time ASC", "appointment_number ASC").
		Limit(uint64(filter.Limit)).
		Offset(uint64(filter.Offset))

	if filter.DepartmentID != nil {
		builder = builder.Where(squirrel.Eq{"department_id": filter.DepartmentID.String()})
	}
	if filter.Status != nil {
		builder = builder.Where(squirrel.Eq{"status": *filter.Status})
	}
	if filter.From != nil {
		builder = builder.Where(squirrel.GtOrEq{"appointment_date": filter.From.Format(domain.DateFormat)})
	}
	if filter.To != nil {
		builder = builder.Where(squirrel.LtOrEq{"appointment_date": filter.To.Format(domain.DateFormat)})
	}
	if filter.Search != "" {
		builder = builder.Where(squirrel.Like{"appointment_number": escapeLike(filter.Search) + "%"})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Search - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: Search - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanAll(rows)
}

// IsOccupied проверяет, занят ли слот записью в занимающем статусе.
// excludeID исключает саму переносимую запись.
func (r *Repository) IsOccupied(ctx context.Context, serviceID uuid.UUID, date time.Time, t types.TimeString, excludeID *uuid.UUID) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Select("1").
		From(table).
		Where(squirrel.Eq{
			"service_id":       serviceID.String(),
			"appointment_date": date.Format(domain.DateFormat),
			"appointment_time": t,
			"status":           occupyingStatuses(),
		})

	if excludeID != nil {
		builder = builder.Where(squirrel.NotEq{"id": excludeID.String()})
	}

	query, args, err := builder.Prefix("SELECT EXISTS (").Suffix(")").ToSql()
	if err != nil {
		return false, fmt.Errorf("%w: IsOccupied - build select query: %v", ErrBuildQuery, err)
	}

	var exists bool
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("%w: IsOccupied - scan: %v", ErrScanRow, err)
	}

	return exists, nil
}

// OccupiedTimes возвращает занятые времена начала на дату для услуги
func (r *Repository) OccupiedTimes(ctx context.Context, serviceID uuid.UUID, date time.Time) ([]types.TimeString, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("appointment_time").
		From(table).
		Where(squirrel.Eq{
			"service_id":       serviceID.String(),
			"appointment_date": date.Format(domain.DateFormat),
			"status":           occupyingStatuses(),
		}).
		OrderBy("appointment_time ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: OccupiedTimes - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: OccupiedTimes - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	times := make([]types.TimeString, 0)
	for rows.Next() {
		var t types.TimeString
		if err := rows.Scan(&t); err != nil {
			return nil, fmt.Errorf("%w: OccupiedTimes - scan appointment_time: %v", ErrScanRow, err)
		}
		times = append(times, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: OccupiedTimes - rows error: %v", ErrScanRow, err)
	}

	return times, nil
}

// UpdateStatus переводит запись из статуса from в to.
// При переводе в cancelled уже сохраненная причина отмены не перезаписывается.
func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to domain.AppointmentStatus, reason string) error {
	builder := psqlbuilder.Update(table).
		Set("status", to).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id.String(), "status": from})

	if to == domain.StatusCancelled {
		builder = builder.
			Set("cancellation_reason", squirrel.Expr("COALESCE(cancellation_reason, ?)", nullIfEmpty(reason))).
			Set("cancelled_at", squirrel.Expr("COALESCE(cancelled_at, NOW())"))
	}

	return r.execGuarded(ctx, "UpdateStatus", builder)
}

// Cancel отмена записи гражданином с указанием причины
func (r *Repository) Cancel(ctx context.Context, id uuid.UUID, from domain.AppointmentStatus, reason string) error {
	builder := psqlbuilder.Update(table).
		Set("status", domain.StatusCancelled).
		Set("cancellation_reason", reason).
		Set("cancelled_at", squirrel.Expr("NOW()")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id.String(), "status": from})

	return r.execGuarded(ctx, "Cancel", builder)
}

// Reschedule переносит запись одним UPDATE: освобождает старый слот, занимает новый,
// дописывает запись в историю и сохраняет check-in payload нового слота.
// Пустой qrPayload оставляет прежний. Проверка занятости нового слота выполняется
// индексом ux_appointments_active_slot.
func (r *Repository) Reschedule(ctx context.Context, id uuid.UUID, from domain.AppointmentStatus, entry domain.RescheduleEntry, qrPayload string) error {
	history, err := encodeJSON([]domain.RescheduleEntry{entry})
	if err != nil {
		return fmt.Errorf("%w: Reschedule - history entry: %v", ErrEncode, err)
	}

	builder := psqlbuilder.Update(table).
		Set("appointment_date", entry.NewDate.Format(domain.DateFormat)).
		Set("appointment_time", entry.NewTime).
		Set("status", domain.StatusRescheduled).
		Set("reschedule_history", squirrel.Expr("reschedule_history || ?::jsonb", history))
	if qrPayload != "" {
		builder = builder.Set("qr_payload", qrPayload)
	}
	builder = builder.
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{
			"id":               id.String(),
			"status":           from,
			"appointment_date": entry.PreviousDate.Format(domain.DateFormat),
			"appointment_time": entry.PreviousTime,
		})

	return r.execGuarded(ctx, "Reschedule", builder)
}

// AssignOfficer назначает сотрудника на запись
func (r *Repository) AssignOfficer(ctx context.Context, id uuid.UUID, officerID uuid.UUID) error {
	builder := psqlbuilder.Update(table).
		Set("assigned_officer_id", officerID).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id.String()})

	err := r.execGuarded(ctx, "AssignOfficer", builder)
	if errors.Is(err, ErrPreconditionFailed) {
		return ErrAppointmentNotFound
	}
	return err
}

// AssignIfUnassigned назначает сотрудника, только если никто не назначен.
// Возвращает false, если запись уже была назначена.
func (r *Repository) AssignIfUnassigned(ctx context.Context, id uuid.UUID, officerID uuid.UUID) (bool, error) {
	builder := psqlbuilder.Update(table).
		Set("assigned_officer_id", officerID).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id.String(), "assigned_officer_id": nil})

	err := r.execGuarded(ctx, "AssignIfUnassigned", builder)
	if errors.Is(err, ErrPreconditionFailed) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// UpdateNotes обновляет заметки сотрудника. nil поля не меняются.
func (r *Repository) UpdateNotes(ctx context.Context, id uuid.UUID, officer, internal *string) error {
	builder := psqlbuilder.Update(table).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id.String()})

	if officer != nil {
		builder = builder.Set("officer_notes", *officer)
	}
	if internal != nil {
		builder = builder.Set("internal_notes", *internal)
	}

	err := r.execGuarded(ctx, "UpdateNotes", builder)
	if errors.Is(err, ErrPreconditionFailed) {
		return ErrAppointmentNotFound
	}
	return err
}

// SetFeedback сохраняет отзыв. Срабатывает только для completed записи без отзыва,
// иначе ErrPreconditionFailed.
func (r *Repository) SetFeedback(ctx context.Context, id uuid.UUID, feedback domain.Feedback) error {
	payload, err := encodeJSON(feedback)
	if err != nil {
		return fmt.Errorf("%w: SetFeedback - feedback: %v", ErrEncode, err)
	}

	builder := psqlbuilder.Update(table).
		Set("feedback", squirrel.Expr("?::jsonb", payload)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{
			"id":       id.String(),
			"status":   domain.StatusCompleted,
			"feedback": nil,
		})

	return r.execGuarded(ctx, "SetFeedback", builder)
}

// SetQRPayload сохраняет check-in payload
func (r *Repository) SetQRPayload(ctx context.Context, id uuid.UUID, payload string) error {
	builder := psqlbuilder.Update(table).
		Set("qr_payload", payload).
		Where(squirrel.Eq{"id": id.String()})

	err := r.execGuarded(ctx, "SetQRPayload", builder)
	if errors.Is(err, ErrPreconditionFailed) {
		return ErrAppointmentNotFound
	}
	return err
}

// AppendNotification дописывает попытку доставки уведомления
func (r *Repository) AppendNotification(ctx context.Context, id uuid.UUID, n domain.Notification) error {
	payload, err := encodeJSON([]domain.Notification{n})
	if err != nil {
		return fmt.Errorf("%w: AppendNotification - notification: %v", ErrEncode, err)
	}

	builder := psqlbuilder.Update(table).
		Set("notifications", squirrel.Expr("notifications || ?::jsonb", payload)).
		Where(squirrel.Eq{"id": id.String()})

	err = r.execGuarded(ctx, "AppendNotification", builder)
	if errors.Is(err, ErrPreconditionFailed) {
		return ErrAppointmentNotFound
	}
	return err
}

// execGuarded выполняет UPDATE и возвращает ErrPreconditionFailed, если не затронута ни одна строка
func (r *Repository) execGuarded(ctx context.Context, method string, builder squirrel.UpdateBuilder) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: %s - build update query: %v", ErrBuildQuery, method, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		if mapped := mapUniqueViolation(err); mapped != nil {
			return mapped
		}
		return fmt.Errorf("%w: %s - execute update: %v", ErrExecQuery, method, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, method, err)
	}
	if rowsAffected == 0 {
		return ErrPreconditionFailed
	}

	return nil
}

// scanAll сканирует результаты запроса в слайс записей
func scanAll(rows *sql.Rows) ([]*domain.Appointment, error) {
	result := make([]*domain.Appointment, 0)

	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanAll - scan row: %v", ErrScanRow, err)
		}
		result = append(result, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanAll - rows error: %v", ErrScanRow, err)
	}

	return result, nil
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func escapeLike(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if r == '%' || r == '_' || r == '\\' {
			out = append(out, '\\')
		}
		out = append(out, r)
	}
	return string(out)
}
