package book_appointment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	catalogRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/catalog"
)

// Исходы записи для метрик
const (
	ResultCreated  = "created"
	ResultConflict = "conflict"
	ResultRejected = "rejected"
	ResultError    = "error"
)

// maxNumberAttempts сколько раз генерируется номер записи при коллизии
const maxNumberAttempts = 3

// errNumberTaken внутренний сигнал для повторной генерации номера
var errNumberTaken = errors.New("appointment number taken")

// UseCase use case записи гражданина на прием
type UseCase struct {
	catalogRepo     CatalogRepository
	appointmentRepo AppointmentRepository
	issuer          ArtifactIssuer
	txManager       TransactionManager
	timeProvider    TimeProvider
	metrics         Metrics
	numberPrefix    string
	timeout         time.Duration
	logger          Logger

	newNumber func(prefix string, now time.Time) string
}

// NewUseCase создает новый экземпляр use case. metrics может быть nil,
// timeout <= 0 отключает ограничение времени операции.
func NewUseCase(
	catalogRepo CatalogRepository,
	appointmentRepo AppointmentRepository,
	issuer ArtifactIssuer,
	txManager TransactionManager,
	timeProvider TimeProvider,
	metrics Metrics,
	numberPrefix string,
	timeout time.Duration,
	logger Logger,
) *UseCase {
	return &UseCase{
		catalogRepo:     catalogRepo,
		appointmentRepo: appointmentRepo,
		issuer:          issuer,
		txManager:       txManager,
		timeProvider:    timeProvider,
		metrics:         metrics,
		numberPrefix:    numberPrefix,
		timeout:         timeout,
		logger:          logger,
		newNumber:       newAppointmentNumber,
	}
}

// Execute выполняет запись на прием.
// Занятость слота гарантируется уникальным индексом ux_appointments_active_slot:
// из двух параллельных запросов на один слот успешен ровно один.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	resp, err := uc.execute(ctx, req)
	uc.observe(err)
	return resp, err
}

func (uc *UseCase) execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("BookAppointment: citizen=%s, service=%s, date=%s, time=%s",
		req.CitizenID, req.ServiceID, req.Date.Format(domain.DateFormat), req.Time)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("BookAppointment: validation failed: %v", err)
		return nil, err
	}

	opCtx := ctx
	if uc.timeout > 0 {
		var cancel context.CancelFunc
		opCtx, cancel = context.WithTimeout(ctx, uc.timeout)
		defer cancel()
	}

	now := uc.timeProvider.Now()
	date := domain.DateOnly(req.Date)

	// 2. Получаем услугу и отдел
	service, err := uc.catalogRepo.GetService(opCtx, req.ServiceID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotFound) {
			uc.logger.Warn("BookAppointment: service id=%s not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("BookAppointment: failed to get service id=%s: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	dept, err := uc.catalogRepo.GetDepartment(opCtx, service.DepartmentID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrDepartmentNotFound) {
			uc.logger.Warn("BookAppointment: department id=%s not found", service.DepartmentID)
			return nil, ErrDepartmentNotFound
		}
		uc.logger.Error("BookAppointment: failed to get department id=%s: %v", service.DepartmentID, err)
		return nil, fmt.Errorf("%w: failed to get department: %v", ErrInternal, err)
	}

	// 3. Окно записи и принадлежность времени к слотам
	if err := domain.ValidateBookingWindow(date, now, service.MaxAdvanceBookingDays); err != nil {
		uc.logger.Warn("BookAppointment: date %s rejected: %v", date.Format(domain.DateFormat), err)
		return nil, err
	}
	if err := validateSlot(dept, service, date, req.Time, now); err != nil {
		uc.logger.Warn("BookAppointment: slot %s %s rejected: %v", date.Format(domain.DateFormat), req.Time, err)
		return nil, err
	}

	// 4. Создаем запись. Коллизия номера повторяется с новым номером.
	var created *domain.Appointment
	for attempt := 1; attempt <= maxNumberAttempts; attempt++ {
		appt := &domain.Appointment{
			ID:                uuid.New(),
			AppointmentNumber: uc.newNumber(uc.numberPrefix, now),
			CitizenID:         req.CitizenID,
			ServiceID:         service.ID,
			DepartmentID:      dept.ID,
			AppointmentDate:   date,
			AppointmentTime:   req.Time,
			Status:            domain.StatusPending,
			Notes:             domain.Notes{Citizen: strings.TrimSpace(req.CitizenNotes)},
		}

		created, err = uc.create(opCtx, appt)
		if errors.Is(err, errNumberTaken) {
			uc.logger.Warn("BookAppointment: number %s taken, attempt %d/%d", appt.AppointmentNumber, attempt, maxNumberAttempts)
			continue
		}
		break
	}
	if errors.Is(err, errNumberTaken) {
		uc.logger.Error("BookAppointment: failed to generate unique number after %d attempts", maxNumberAttempts)
		return nil, fmt.Errorf("%w: appointment number collision", ErrInternal)
	}
	if err != nil {
		return nil, err
	}

	uc.logger.Info("BookAppointment: created appointment id=%s number=%s", created.ID, created.AppointmentNumber)

	// 5. Артефакты. Запись уже создана, ошибки здесь не возвращаются.
	artifact := uc.issuer.Issue(ctx, created, service, dept)

	return &Response{
		Appointment:   created,
		QRCodeDataURL: artifact.QRCodeDataURL,
	}, nil
}

// create проверяет занятость слота и вставляет запись в одной транзакции
func (uc *UseCase) create(ctx context.Context, appt *domain.Appointment) (*domain.Appointment, error) {
	var created *domain.Appointment

	err := uc.txManager.Do(ctx, func(txCtx context.Context) error {
		occupied, err := uc.appointmentRepo.IsOccupied(txCtx, appt.ServiceID, appt.AppointmentDate, appt.AppointmentTime, nil)
		if err != nil {
			uc.logger.Error("BookAppointment: failed to check slot: %v", err)
			return fmt.Errorf("%w: failed to check slot: %v", ErrInternal, err)
		}
		if occupied {
			uc.logger.Warn("BookAppointment: slot %s %s already occupied",
				appt.AppointmentDate.Format(domain.DateFormat), appt.AppointmentTime)
			return ErrSlotNotAvailable
		}

		created, err = uc.appointmentRepo.Create(txCtx, appt)
		switch {
		case err == nil:
			return nil
		case errors.Is(err, appointmentRepo.ErrSlotOccupied):
			uc.logger.Warn("BookAppointment: slot %s %s taken concurrently",
				appt.AppointmentDate.Format(domain.DateFormat), appt.AppointmentTime)
			return ErrSlotNotAvailable
		case errors.Is(err, appointmentRepo.ErrDuplicateNumber):
			return errNumberTaken
		default:
			uc.logger.Error("BookAppointment: failed to create appointment: %v", err)
			return fmt.Errorf("%w: failed to create appointment: %v", ErrInternal, err)
		}
	})
	if err != nil {
		if errors.Is(err, ErrSlotNotAvailable) || errors.Is(err, errNumberTaken) || errors.Is(err, ErrInternal) {
			return nil, err
		}
		uc.logger.Error("BookAppointment: transaction failed: %v", err)
		return nil, fmt.Errorf("%w: transaction failed: %v", ErrInternal, err)
	}

	return created, nil
}

func (uc *UseCase) observe(err error) {
	if uc.metrics == nil {
		return
	}
	switch {
	case err == nil:
		uc.metrics.ObserveBooking(ResultCreated)
	case errors.Is(err, domain.ErrSlotConflict):
		uc.metrics.ObserveBooking(ResultConflict)
	case errors.Is(err, domain.ErrServiceUnavailable):
		uc.metrics.ObserveBooking(ResultError)
	default:
		uc.metrics.ObserveBooking(ResultRejected)
	}
}

// newAppointmentNumber формирует номер вида APT-20261015-3F9A1C
func newAppointmentNumber(prefix string, now time.Time) string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return fmt.Sprintf("%s-%s-%s", prefix, now.Format("20060102"), strings.ToUpper(id[:6]))
}
