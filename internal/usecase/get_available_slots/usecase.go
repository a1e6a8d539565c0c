package get_available_slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	catalogRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/catalog"
	"github.com/m04kA/SMC-AppointmentService/internal/slots"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// UseCase use case для получения доступных слотов для записи
type UseCase struct {
	catalogRepo     CatalogRepository
	appointmentRepo AppointmentRepository
	timeProvider    TimeProvider
	timeout         time.Duration
	logger          Logger
}

// NewUseCase создает новый экземпляр use case. timeout <= 0 отключает ограничение.
func NewUseCase(
	catalogRepo CatalogRepository,
	appointmentRepo AppointmentRepository,
	timeProvider TimeProvider,
	timeout time.Duration,
	logger Logger,
) *UseCase {
	return &UseCase{
		catalogRepo:     catalogRepo,
		appointmentRepo: appointmentRepo,
		timeProvider:    timeProvider,
		timeout:         timeout,
		logger:          logger,
	}
}

// Execute выполняет use case получения доступных слотов.
// Только чтение, ничего не блокирует.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: service=%s, date=%s", req.ServiceID, req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	if uc.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, uc.timeout)
		defer cancel()
	}

	now := uc.timeProvider.Now()
	date := domain.DateOnly(req.Date)

	// 2. Получаем услугу и отдел
	service, err := uc.catalogRepo.GetService(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotFound) {
			uc.logger.Warn("GetAvailableSlots: service id=%s not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get service id=%s: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	dept, err := uc.catalogRepo.GetDepartment(ctx, service.DepartmentID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrDepartmentNotFound) {
			uc.logger.Warn("GetAvailableSlots: department id=%s not found", service.DepartmentID)
			return nil, ErrDepartmentNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get department id=%s: %v", service.DepartmentID, err)
		return nil, fmt.Errorf("%w: failed to get department: %v", ErrInternal, err)
	}

	// 3. Проверяем окно записи
	if err := domain.ValidateBookingWindow(date, now, service.MaxAdvanceBookingDays); err != nil {
		uc.logger.Warn("GetAvailableSlots: date %s rejected: %v", date.Format(domain.DateFormat), err)
		return nil, err
	}

	resp := &Response{
		ServiceID: req.ServiceID,
		Date:      date,
		Slots:     []domain.Slot{},
	}

	// 4. Рабочие часы отдела на этот день
	interval, open := dept.WorkingHours.IntervalFor(date)
	if !open {
		uc.logger.Info("GetAvailableSlots: department id=%s is closed on %s", dept.ID, date.Format(domain.DateFormat))
		resp.Reason = ReasonClosed
		return resp, nil
	}

	// 5. Занятые слоты
	occupied, err := uc.appointmentRepo.OccupiedTimes(ctx, req.ServiceID, date)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get occupied slots: %v", err)
		return nil, fmt.Errorf("%w: failed to get occupied slots: %v", ErrInternal, err)
	}

	// 6. Генерируем слоты и вычитаем занятые
	resp.Slots = freeSlots(interval, service.AppointmentDurationMinutes, date, now, occupied)
	if len(resp.Slots) == 0 {
		resp.Reason = ReasonFullyBooked
	}

	uc.logger.Info("GetAvailableSlots: %d free slots for service=%s, date=%s",
		len(resp.Slots), req.ServiceID, date.Format(domain.DateFormat))
	return resp, nil
}

// freeSlots оставляет слоты, которые не заняты и еще не начались
func freeSlots(interval domain.Interval, duration int, date, now time.Time, occupied []types.TimeString) []domain.Slot {
	taken := make(map[types.TimeString]struct{}, len(occupied))
	for _, t := range occupied {
		taken[t] = struct{}{}
	}

	result := make([]domain.Slot, 0)
	for slot := range slots.Generate(interval, duration) {
		if _, ok := taken[slot.StartTime]; ok {
			continue
		}
		if slots.Started(date, slot.StartTime, now) {
			continue
		}
		result = append(result, slot)
	}
	return result
}

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.ServiceID == uuid.Nil {
		return fmt.Errorf("%w: serviceId is required", ErrInvalidInput)
	}
	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	return nil
}
