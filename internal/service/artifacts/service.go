package artifacts

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/notifier"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/userservice"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

const recordTimeout = 5 * time.Second

// Artifact артефакты созданной записи
type Artifact struct {
	AppointmentNumber string
	QRPayload         string
	QRCodeDataURL     string
}

// Service выдает артефакты записи: check-in payload, QR код и уведомление.
// Ни одна ошибка здесь не отменяет уже созданную запись.
type Service struct {
	repo           AppointmentRepository
	users          UserServiceClient
	queue          NotificationQueue
	metrics        Metrics
	enqueueTimeout time.Duration
	now            func() time.Time
	logger         Logger

	wg sync.WaitGroup
}

// NewService создает сервис артефактов. metrics может быть nil.
func NewService(
	repo AppointmentRepository,
	users UserServiceClient,
	queue NotificationQueue,
	metrics Metrics,
	enqueueTimeout time.Duration,
	logger Logger,
) *Service {
	return &Service{
		repo:           repo,
		users:          users,
		queue:          queue,
		metrics:        metrics,
		enqueueTimeout: enqueueTimeout,
		now:            time.Now,
		logger:         logger,
	}
}

// Issue формирует check-in payload для созданной записи, сохраняет его и
// отправляет уведомление в очередь в фоне. appt.QRPayload обновляется на месте.
func (s *Service) Issue(ctx context.Context, appt *domain.Appointment, service *domain.Service, dept *domain.Department) Artifact {
	artifact := Artifact{AppointmentNumber: appt.AppointmentNumber}

	citizenName, email := s.citizen(ctx, "IssueArtifacts", appt)

	payload, err := EncodePayload(newPayload(appt, citizenName, service, dept))
	if err != nil {
		s.logger.Error("IssueArtifacts: failed to encode payload for appointment=%s: %v", appt.AppointmentNumber, err)
		return artifact
	}

	appt.QRPayload = payload
	artifact.QRPayload = payload

	if err := s.repo.SetQRPayload(ctx, appt.ID, payload); err != nil {
		s.logger.Error("IssueArtifacts: failed to store payload for appointment=%s: %v", appt.AppointmentNumber, err)
	}

	if dataURL, err := DataURL(payload); err != nil {
		s.logger.Error("IssueArtifacts: failed to render qr for appointment=%s: %v", appt.AppointmentNumber, err)
	} else {
		artifact.QRCodeDataURL = dataURL
	}

	s.notify(ctx, newJob(appt, citizenName, email, service, dept, false))

	return artifact
}

// RescheduledPayload строит check-in payload для нового слота записи.
// Имя гражданина берется из сохраненного payload, если он читается,
// иначе из UserService. Пустая строка означает, что payload построить не удалось.
func (s *Service) RescheduledPayload(ctx context.Context, appt *domain.Appointment, newDate time.Time, newTime types.TimeString, service *domain.Service, dept *domain.Department) string {
	moved := *appt
	moved.AppointmentDate = newDate
	moved.AppointmentTime = newTime

	p, err := DecodePayload(appt.QRPayload)
	if err != nil {
		s.logger.Warn("RescheduleArtifacts: stored payload for appointment=%s is unreadable, rebuilding: %v", appt.AppointmentNumber, err)
		citizenName, _ := s.citizen(ctx, "RescheduleArtifacts", appt)
		p = newPayload(&moved, citizenName, service, dept)
	} else {
		p.Date = moved.AppointmentDate.Format(domain.DateFormat)
		p.Time = moved.AppointmentTime.String()
	}

	payload, err := EncodePayload(p)
	if err != nil {
		s.logger.Error("RescheduleArtifacts: failed to encode payload for appointment=%s: %v", appt.AppointmentNumber, err)
		return ""
	}
	return payload
}

// NotifyRescheduled отправляет в фоне уведомление о новом времени записи
func (s *Service) NotifyRescheduled(ctx context.Context, appt *domain.Appointment, service *domain.Service, dept *domain.Department) {
	citizenName, email := s.citizen(ctx, "RescheduleArtifacts", appt)
	s.notify(ctx, newJob(appt, citizenName, email, service, dept, true))
}

// citizen возвращает имя и email гражданина. При недоступности UserService
// вместо имени используется id гражданина.
func (s *Service) citizen(ctx context.Context, op string, appt *domain.Appointment) (string, string) {
	citizenName := appt.CitizenID.String()
	citizen, err := s.users.GetCitizenWithGracefulDegradation(ctx, appt.CitizenID)
	switch {
	case err == nil:
		if citizen.FullName != "" {
			citizenName = citizen.FullName
		}
		return citizenName, citizen.Email
	case errors.Is(err, userservice.ErrServiceDegraded), errors.Is(err, userservice.ErrUserNotFound):
		s.logger.Warn("%s: citizen lookup degraded for appointment=%s: %v", op, appt.AppointmentNumber, err)
	default:
		s.logger.Error("%s: citizen lookup failed for appointment=%s: %v", op, appt.AppointmentNumber, err)
	}
	return citizenName, ""
}

// notify кладет уведомление в очередь в фоне; отмена запроса на него не влияет
func (s *Service) notify(ctx context.Context, job notifier.Job) {
	detached := context.WithoutCancel(ctx)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.dispatch(detached, job)
	}()
}

func newPayload(appt *domain.Appointment, citizenName string, service *domain.Service, dept *domain.Department) CheckInPayload {
	return CheckInPayload{
		AppointmentNumber: appt.AppointmentNumber,
		CitizenName:       citizenName,
		Service:           service.Name,
		Department:        dept.Name,
		Date:              appt.AppointmentDate.Format(domain.DateFormat),
		Time:              appt.AppointmentTime.String(),
	}
}

func newJob(appt *domain.Appointment, citizenName, email string, service *domain.Service, dept *domain.Department, rescheduled bool) notifier.Job {
	return notifier.Job{
		AppointmentID:     appt.ID,
		AppointmentNumber: appt.AppointmentNumber,
		Recipient:         email,
		CitizenName:       citizenName,
		ServiceName:       service.Name,
		DepartmentName:    dept.Name,
		Location:          dept.Location,
		Date:              appt.AppointmentDate.Format(domain.DateFormat),
		Time:              appt.AppointmentTime.String(),
		Rescheduled:       rescheduled,
	}
}

// Wait ждет завершения фоновых отправок (для graceful shutdown)
func (s *Service) Wait() {
	s.wg.Wait()
}

// dispatch кладет уведомление в очередь. Неудача записывается в notifications[] как failed.
func (s *Service) dispatch(ctx context.Context, job notifier.Job) {
	n := domain.Notification{
		Channel:   notifier.ChannelEmail,
		Status:    domain.NotificationQueued,
		Timestamp: s.now(),
	}

	if job.Recipient == "" {
		n.Status = domain.NotificationFailed
		n.Message = "citizen has no email address"
	} else {
		enqueueCtx, cancel := context.WithTimeout(ctx, s.enqueueTimeout)
		job.EnqueuedAt = n.Timestamp
		err := s.queue.Enqueue(enqueueCtx, job)
		cancel()
		if err != nil {
			s.logger.Warn("IssueArtifacts: failed to enqueue notification for appointment=%s: %v", job.AppointmentNumber, err)
			n.Status = domain.NotificationFailed
			n.Message = "notification queue unavailable: " + err.Error()
		}
	}

	if s.metrics != nil {
		s.metrics.ObserveNotification(string(n.Status))
	}

	recCtx, cancel := context.WithTimeout(ctx, recordTimeout)
	defer cancel()
	if err := s.repo.AppendNotification(recCtx, job.AppointmentID, n); err != nil {
		s.logger.Error("IssueArtifacts: failed to record notification for appointment=%s: %v", job.AppointmentNumber, err)
	}
}
