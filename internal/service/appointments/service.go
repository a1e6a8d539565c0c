package appointments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/userservice"
	"github.com/m04kA/SMC-AppointmentService/internal/service/appointments/models"
	"github.com/m04kA/SMC-AppointmentService/internal/service/artifacts"
)

// Service сервис жизненного цикла записей
type Service struct {
	repo         AppointmentRepository
	users        UserServiceClient
	timeProvider TimeProvider
	metrics      Metrics
	timeout      time.Duration
	logger       Logger
}

// NewService создает новый экземпляр сервиса записей. metrics может быть nil,
// timeout <= 0 отключает ограничение времени операции.
func NewService(
	repo AppointmentRepository,
	users UserServiceClient,
	timeProvider TimeProvider,
	metrics Metrics,
	timeout time.Duration,
	logger Logger,
) *Service {
	return &Service{
		repo:         repo,
		users:        users,
		timeProvider: timeProvider,
		metrics:      metrics,
		timeout:      timeout,
		logger:       logger,
	}
}

// Get получает запись. Гражданин видит только свои записи,
// сотрудник только записи своего отдела.
func (s *Service) Get(ctx context.Context, id uuid.UUID, actor domain.Actor) (*models.AppointmentResponse, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	appt, err := s.load(ctx, "Get", id)
	if err != nil {
		return nil, err
	}

	if err := domain.CheckView(appt, actor); err != nil {
		s.logger.Warn("Get: access denied for user=%s to appointment id=%s", actor.ID, id)
		return nil, err
	}

	return models.FromDomainAppointmentFor(appt, actor), nil
}

// GetCheckInQR рисует PNG с QR кодом по сохраненному check-in payload
func (s *Service) GetCheckInQR(ctx context.Context, id uuid.UUID, actor domain.Actor) ([]byte, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	appt, err := s.load(ctx, "GetCheckInQR", id)
	if err != nil {
		return nil, err
	}
	if err := domain.CheckView(appt, actor); err != nil {
		return nil, err
	}
	if appt.QRPayload == "" {
		return nil, ErrQRNotIssued
	}

	png, err := artifacts.Render(appt.QRPayload)
	if err != nil {
		s.logger.Error("GetCheckInQR: failed to render qr for appointment id=%s: %v", id, err)
		return nil, fmt.Errorf("%w: GetCheckInQR - render: %v", ErrInternal, err)
	}
	return png, nil
}

// ListMine возвращает записи гражданина, опционально по статусу
func (s *Service) ListMine(ctx context.Context, actor domain.Actor, status *string) (*models.AppointmentListResponse, error) {
	if actor.Role != domain.RoleCitizen {
		return nil, domain.ErrCitizenOnly
	}

	var domainStatus *domain.AppointmentStatus
	if status != nil && *status != "" {
		st, err := models.ToDomainStatus(*status)
		if err != nil {
			s.logger.Warn("ListMine: invalid status=%s for user=%s", *status, actor.ID)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		domainStatus = &st
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	list, err := s.repo.GetByCitizen(ctx, actor.ID, domainStatus)
	if err != nil {
		s.logger.Error("ListMine: repository error for user=%s: %v", actor.ID, err)
		return nil, fmt.Errorf("%w: ListMine - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainAppointmentList(list, actor), nil
}

// Search поиск записей для сотрудников. Officer всегда ограничен своим отделом,
// admin может указать отдел или искать по всем.
func (s *Service) Search(ctx context.Context, actor domain.Actor, req *models.SearchRequest) (*models.AppointmentListResponse, error) {
	if !actor.IsStaff() {
		return nil, domain.ErrStaffOnly
	}

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("Search: invalid filter from user=%s: %v", actor.ID, err)
		return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
	}
	if filter.From != nil && filter.To != nil && filter.From.After(*filter.To) {
		return nil, fmt.Errorf("%w: from is after to", ErrInvalidInput)
	}

	if !actor.IsAdmin() {
		if actor.DepartmentID == nil {
			return nil, domain.ErrOutsideDepartment
		}
		if filter.DepartmentID != nil && *filter.DepartmentID != *actor.DepartmentID {
			return nil, domain.ErrOutsideDepartment
		}
		filter.DepartmentID = actor.DepartmentID
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	list, err := s.repo.Search(ctx, filter)
	if err != nil {
		s.logger.Error("Search: repository error for user=%s: %v", actor.ID, err)
		return nil, fmt.Errorf("%w: Search - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Search: found %d appointments for user=%s", len(list), actor.ID)
	return models.FromDomainAppointmentList(list, actor), nil
}

// Cancel отмена записи гражданином
func (s *Service) Cancel(ctx context.Context, id uuid.UUID, actor domain.Actor, req *models.CancelRequest) (*models.AppointmentResponse, error) {
	if len(req.CancellationReason) > domain.MaxCancellationReasonLength {
		return nil, fmt.Errorf("%w: cancellation reason is too long", ErrInvalidInput)
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	appt, err := s.load(ctx, "Cancel", id)
	if err != nil {
		return nil, err
	}

	if err := domain.CheckCitizenCancel(appt, actor, req.CancellationReason, s.timeProvider.Now()); err != nil {
		s.logger.Warn("Cancel: rejected for appointment id=%s by user=%s: %v", id, actor.ID, err)
		return nil, err
	}

	if err := s.repo.Cancel(ctx, id, appt.Status, req.CancellationReason); err != nil {
		return nil, s.mapWriteError("Cancel", id, err)
	}
	s.observe(domain.StatusCancelled)

	s.logger.Info("Cancel: appointment id=%s cancelled by citizen=%s", id, actor.ID)
	return s.reload(ctx, "Cancel", id, actor)
}

// UpdateStatus смена статуса сотрудником. Причина отмены гражданина не перезаписывается.
// Автоназначение сотрудника выполняется отдельно через AssignIfUnassigned.
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, actor domain.Actor, req *models.UpdateStatusRequest) (*models.AppointmentResponse, error) {
	target, err := models.ToDomainStatus(req.Status)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
	}
	if req.OfficerNotes != nil && len(*req.OfficerNotes) > domain.MaxOfficerNotesLength {
		return nil, fmt.Errorf("%w: officer notes are too long", ErrInvalidInput)
	}
	if len(req.Reason) > domain.MaxCancellationReasonLength {
		return nil, fmt.Errorf("%w: reason is too long", ErrInvalidInput)
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	appt, err := s.load(ctx, "UpdateStatus", id)
	if err != nil {
		return nil, err
	}

	if err := domain.CheckStatusUpdate(appt, actor, target); err != nil {
		s.logger.Warn("UpdateStatus: rejected %s -> %s for appointment id=%s by user=%s: %v", appt.Status, target, id, actor.ID, err)
		return nil, err
	}

	if err := s.repo.UpdateStatus(ctx, id, appt.Status, target, req.Reason); err != nil {
		return nil, s.mapWriteError("UpdateStatus", id, err)
	}
	s.observe(target)

	if req.OfficerNotes != nil {
		if err := s.repo.UpdateNotes(ctx, id, req.OfficerNotes, nil); err != nil {
			return nil, s.mapWriteError("UpdateStatus", id, err)
		}
	}

	s.logger.Info("UpdateStatus: appointment id=%s %s -> %s by user=%s", id, appt.Status, target, actor.ID)
	return s.reload(ctx, "UpdateStatus", id, actor)
}

// AssignIfUnassigned назначает текущего сотрудника на запись, если никто не назначен.
// Возвращает true, если назначение произошло.
func (s *Service) AssignIfUnassigned(ctx context.Context, id uuid.UUID, actor domain.Actor) (bool, error) {
	if actor.Role != domain.RoleOfficer {
		return false, nil
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	appt, err := s.load(ctx, "AssignIfUnassigned", id)
	if err != nil {
		return false, err
	}
	if err := domain.CheckStaffAccess(appt, actor); err != nil {
		return false, err
	}

	assigned, err := s.repo.AssignIfUnassigned(ctx, id, actor.ID)
	if err != nil {
		return false, s.mapWriteError("AssignIfUnassigned", id, err)
	}
	if assigned {
		s.logger.Info("AssignIfUnassigned: officer=%s assigned to appointment id=%s", actor.ID, id)
	}
	return assigned, nil
}

// AssignOfficer назначает сотрудника на запись. Сотрудник должен состоять в отделе записи.
func (s *Service) AssignOfficer(ctx context.Context, id uuid.UUID, actor domain.Actor, officerID uuid.UUID) (*models.AppointmentResponse, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	appt, err := s.load(ctx, "AssignOfficer", id)
	if err != nil {
		return nil, err
	}
	if err := domain.CheckStaffAccess(appt, actor); err != nil {
		return nil, err
	}

	officer, err := s.users.GetOfficer(ctx, officerID)
	if err != nil {
		switch {
		case errors.Is(err, userservice.ErrUserNotFound):
			return nil, ErrOfficerNotFound
		case errors.Is(err, userservice.ErrNotOfficer):
			return nil, ErrNotOfficer
		default:
			s.logger.Error("AssignOfficer: UserService error for officer=%s: %v", officerID, err)
			return nil, fmt.Errorf("%w: AssignOfficer - user service: %v", ErrInternal, err)
		}
	}

	officerDept := uuid.Nil
	if officer.DepartmentID != nil {
		officerDept = *officer.DepartmentID
	}
	if err := domain.CheckAssign(appt, actor, officerDept); err != nil {
		s.logger.Warn("AssignOfficer: officer=%s rejected for appointment id=%s: %v", officerID, id, err)
		return nil, err
	}

	if err := s.repo.AssignOfficer(ctx, id, officerID); err != nil {
		return nil, s.mapWriteError("AssignOfficer", id, err)
	}

	s.logger.Info("AssignOfficer: officer=%s assigned to appointment id=%s by user=%s", officerID, id, actor.ID)
	return s.reload(ctx, "AssignOfficer", id, actor)
}

// UpdateNotes обновляет заметки сотрудника
func (s *Service) UpdateNotes(ctx context.Context, id uuid.UUID, actor domain.Actor, req *models.UpdateNotesRequest) (*models.AppointmentResponse, error) {
	if req.Officer == nil && req.Internal == nil {
		return nil, fmt.Errorf("%w: nothing to update", ErrInvalidInput)
	}
	if (req.Officer != nil && len(*req.Officer) > domain.MaxOfficerNotesLength) ||
		(req.Internal != nil && len(*req.Internal) > domain.MaxOfficerNotesLength) {
		return nil, fmt.Errorf("%w: notes are too long", ErrInvalidInput)
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	appt, err := s.load(ctx, "UpdateNotes", id)
	if err != nil {
		return nil, err
	}
	if err := domain.CheckStaffAccess(appt, actor); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateNotes(ctx, id, req.Officer, req.Internal); err != nil {
		return nil, s.mapWriteError("UpdateNotes", id, err)
	}

	return s.reload(ctx, "UpdateNotes", id, actor)
}

// SubmitFeedback сохраняет отзыв гражданина о завершенной записи
func (s *Service) SubmitFeedback(ctx context.Context, id uuid.UUID, actor domain.Actor, req *models.FeedbackRequest) (*models.AppointmentResponse, error) {
	if len(req.Comment) > domain.MaxFeedbackCommentLength {
		return nil, fmt.Errorf("%w: comment is too long", ErrInvalidInput)
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	appt, err := s.load(ctx, "SubmitFeedback", id)
	if err != nil {
		return nil, err
	}
	if err := domain.CheckFeedback(appt, actor, req.Rating); err != nil {
		s.logger.Warn("SubmitFeedback: rejected for appointment id=%s by user=%s: %v", id, actor.ID, err)
		return nil, err
	}

	feedback := domain.Feedback{
		Rating:      req.Rating,
		Comment:     req.Comment,
		SubmittedAt: s.timeProvider.Now(),
	}

	if err := s.repo.SetFeedback(ctx, id, feedback); err != nil {
		// Параллельный отзыв или смена статуса между чтением и записью
		if errors.Is(err, appointmentRepo.ErrPreconditionFailed) {
			current, loadErr := s.load(ctx, "SubmitFeedback", id)
			if loadErr == nil && current.HasFeedback() {
				return nil, domain.ErrFeedbackSubmitted
			}
			return nil, domain.ErrNotCompleted
		}
		return nil, s.mapWriteError("SubmitFeedback", id, err)
	}

	s.logger.Info("SubmitFeedback: feedback rating=%d saved for appointment id=%s", req.Rating, id)
	return s.reload(ctx, "SubmitFeedback", id, actor)
}

func (s *Service) load(ctx context.Context, op string, id uuid.UUID) (*domain.Appointment, error) {
	appt, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("%s: appointment id=%s not found", op, id)
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("%s: repository error for appointment id=%s: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return appt, nil
}

func (s *Service) reload(ctx context.Context, op string, id uuid.UUID, actor domain.Actor) (*models.AppointmentResponse, error) {
	appt, err := s.load(ctx, op, id)
	if err != nil {
		return nil, err
	}
	return models.FromDomainAppointmentFor(appt, actor), nil
}

// mapWriteError переводит ошибки репозитория в ошибки сервиса
func (s *Service) mapWriteError(op string, id uuid.UUID, err error) error {
	switch {
	case errors.Is(err, appointmentRepo.ErrAppointmentNotFound):
		return ErrAppointmentNotFound
	case errors.Is(err, appointmentRepo.ErrPreconditionFailed):
		s.logger.Warn("%s: appointment id=%s changed concurrently", op, id)
		return domain.ErrStatusChanged
	case errors.Is(err, appointmentRepo.ErrSlotOccupied):
		s.logger.Warn("%s: slot of appointment id=%s is taken by another booking", op, id)
		return fmt.Errorf("%w: slot was taken by another appointment", domain.ErrSlotConflict)
	default:
		s.logger.Error("%s: repository error for appointment id=%s: %v", op, id, err)
		return fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
}

func (s *Service) observe(status domain.AppointmentStatus) {
	if s.metrics != nil {
		s.metrics.ObserveTransition(string(status))
	}
}

func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.timeout)
}
