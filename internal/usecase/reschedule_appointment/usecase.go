package reschedule_appointment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	catalogRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/catalog"
)

// UseCase use case переноса записи сотрудником
type UseCase struct {
	catalogRepo     CatalogRepository
	appointmentRepo AppointmentRepository
	artifacts       ArtifactIssuer
	txManager       TransactionManager
	timeProvider    TimeProvider
	metrics         Metrics
	timeout         time.Duration
	logger          Logger
}

// NewUseCase создает новый экземпляр use case. metrics может быть nil.
func NewUseCase(
	catalogRepo CatalogRepository,
	appointmentRepo AppointmentRepository,
	artifacts ArtifactIssuer,
	txManager TransactionManager,
	timeProvider TimeProvider,
	metrics Metrics,
	timeout time.Duration,
	logger Logger,
) *UseCase {
	return &UseCase{
		catalogRepo:     catalogRepo,
		appointmentRepo: appointmentRepo,
		artifacts:       artifacts,
		txManager:       txManager,
		timeProvider:    timeProvider,
		metrics:         metrics,
		timeout:         timeout,
		logger:          logger,
	}
}

// Execute переносит запись на новый слот. Старый слот освобождается, новый
// занимается одним UPDATE, запись о переносе дописывается в историю,
// check-in payload переписывается на новые дату и время.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("RescheduleAppointment: appointment=%s by user=%s to %s %s",
		req.AppointmentID, req.Actor.ID, req.NewDate.Format(domain.DateFormat), req.NewTime)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("RescheduleAppointment: validation failed: %v", err)
		return nil, err
	}

	if uc.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, uc.timeout)
		defer cancel()
	}

	now := uc.timeProvider.Now()
	newDate := domain.DateOnly(req.NewDate)
	reason := strings.TrimSpace(req.Reason)

	// 2. Получаем запись и проверяем права и статус
	appt, err := uc.appointmentRepo.GetByID(ctx, req.AppointmentID)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			uc.logger.Warn("RescheduleAppointment: appointment id=%s not found", req.AppointmentID)
			return nil, ErrAppointmentNotFound
		}
		uc.logger.Error("RescheduleAppointment: failed to get appointment id=%s: %v", req.AppointmentID, err)
		return nil, fmt.Errorf("%w: failed to get appointment: %v", ErrInternal, err)
	}

	if err := domain.CheckReschedule(appt, req.Actor, newDate, req.NewTime, reason, now); err != nil {
		uc.logger.Warn("RescheduleAppointment: rejected for appointment id=%s: %v", req.AppointmentID, err)
		return nil, err
	}

	// 3. Новое время должно быть слотом отдела
	service, err := uc.catalogRepo.GetService(ctx, appt.ServiceID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotFound) {
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("RescheduleAppointment: failed to get service id=%s: %v", appt.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}
	dept, err := uc.catalogRepo.GetDepartment(ctx, service.DepartmentID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrDepartmentNotFound) {
			return nil, ErrDepartmentNotFound
		}
		uc.logger.Error("RescheduleAppointment: failed to get department id=%s: %v", service.DepartmentID, err)
		return nil, fmt.Errorf("%w: failed to get department: %v", ErrInternal, err)
	}
	if err := validateSlot(dept, service, newDate, req.NewTime, now); err != nil {
		uc.logger.Warn("RescheduleAppointment: slot %s %s rejected: %v", newDate.Format(domain.DateFormat), req.NewTime, err)
		return nil, err
	}

	entry := domain.RescheduleEntry{
		PreviousDate: appt.AppointmentDate,
		PreviousTime: appt.AppointmentTime,
		NewDate:      newDate,
		NewTime:      req.NewTime,
		Reason:       reason,
		ActorID:      req.Actor.ID,
		Timestamp:    now,
	}

	qrPayload := uc.artifacts.RescheduledPayload(ctx, appt, newDate, req.NewTime, service, dept)

	// 4. Проверка занятости (без учета самой записи) и перенос
	err = uc.txManager.Do(ctx, func(txCtx context.Context) error {
		occupied, err := uc.appointmentRepo.IsOccupied(txCtx, appt.ServiceID, newDate, req.NewTime, &appt.ID)
		if err != nil {
			uc.logger.Error("RescheduleAppointment: failed to check slot: %v", err)
			return fmt.Errorf("%w: failed to check slot: %v", ErrInternal, err)
		}
		if occupied {
			uc.logger.Warn("RescheduleAppointment: slot %s %s already occupied", newDate.Format(domain.DateFormat), req.NewTime)
			return ErrSlotNotAvailable
		}

		err = uc.appointmentRepo.Reschedule(txCtx, appt.ID, appt.Status, entry, qrPayload)
		switch {
		case err == nil:
			return nil
		case errors.Is(err, appointmentRepo.ErrSlotOccupied):
			uc.logger.Warn("RescheduleAppointment: slot %s %s taken concurrently", newDate.Format(domain.DateFormat), req.NewTime)
			return ErrSlotNotAvailable
		case errors.Is(err, appointmentRepo.ErrPreconditionFailed):
			uc.logger.Warn("RescheduleAppointment: appointment id=%s changed concurrently", appt.ID)
			return domain.ErrStatusChanged
		default:
			uc.logger.Error("RescheduleAppointment: failed to update appointment id=%s: %v", appt.ID, err)
			return fmt.Errorf("%w: failed to reschedule: %v", ErrInternal, err)
		}
	})
	if err != nil {
		if errors.Is(err, domain.ErrSlotConflict) || errors.Is(err, domain.ErrValidation) || errors.Is(err, ErrInternal) {
			return nil, err
		}
		uc.logger.Error("RescheduleAppointment: transaction failed: %v", err)
		return nil, fmt.Errorf("%w: transaction failed: %v", ErrInternal, err)
	}

	if uc.metrics != nil {
		uc.metrics.ObserveTransition(string(domain.StatusRescheduled))
	}

	updated, err := uc.appointmentRepo.GetByID(ctx, appt.ID)
	if err != nil {
		uc.logger.Error("RescheduleAppointment: failed to reload appointment id=%s: %v", appt.ID, err)
		return nil, fmt.Errorf("%w: failed to reload appointment: %v", ErrInternal, err)
	}

	uc.artifacts.NotifyRescheduled(ctx, updated, service, dept)

	uc.logger.Info("RescheduleAppointment: appointment id=%s moved from %s %s to %s %s",
		appt.ID, entry.PreviousDate.Format(domain.DateFormat), entry.PreviousTime,
		newDate.Format(domain.DateFormat), req.NewTime)
	return &Response{Appointment: updated}, nil
}
