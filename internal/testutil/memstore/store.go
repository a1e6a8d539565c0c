// Package memstore хранилище записей в памяти для тестов usecase и сервисов.
// Повторяет поведение Postgres репозиториев, включая уникальный индекс на слот.
package memstore

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	catalogRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/catalog"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Store хранилище записей, услуг и отделов
type Store struct {
	mu           sync.Mutex
	appointments map[uuid.UUID]*domain.Appointment
	services     map[uuid.UUID]*domain.Service
	departments  map[uuid.UUID]*domain.Department

	// BeforeCreate вызывается перед вставкой вне блокировки
	BeforeCreate func(a *domain.Appointment)
}

// New создает пустое хранилище
func New() *Store {
	return &Store{
		appointments: map[uuid.UUID]*domain.Appointment{},
		services:     map[uuid.UUID]*domain.Service{},
		departments:  map[uuid.UUID]*domain.Department{},
	}
}

// AddService добавляет услугу
func (s *Store) AddService(svc *domain.Service) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.services[svc.ID] = svc
}

// AddDepartment добавляет отдел
func (s *Store) AddDepartment(d *domain.Department) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.departments[d.ID] = d
}

// Put кладет запись в обход проверок (подготовка данных в тестах)
func (s *Store) Put(a *domain.Appointment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.appointments[a.ID] = clone(a)
}

// Count количество записей
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.appointments)
}

// GetService возвращает только активные услуги, как и catalog.Repository
func (s *Store) GetService(ctx context.Context, id uuid.UUID) (*domain.Service, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	svc, ok := s.services[id]
	if !ok || !svc.IsActive {
		return nil, catalogRepo.ErrServiceNotFound
	}
	cp := *svc
	return &cp, nil
}

func (s *Store) GetDepartment(ctx context.Context, id uuid.UUID) (*domain.Department, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.departments[id]
	if !ok {
		return nil, catalogRepo.ErrDepartmentNotFound
	}
	cp := *d
	return &cp, nil
}

func (s *Store) Create(ctx context.Context, a *domain.Appointment) (*domain.Appointment, error) {
	if s.BeforeCreate != nil {
		s.BeforeCreate(a)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	for _, existing := range s.appointments {
		if existing.AppointmentNumber == a.AppointmentNumber {
			return nil, appointmentRepo.ErrDuplicateNumber
		}
		if a.Status.OccupiesSlot() && s.conflicts(existing, a.ServiceID, a.AppointmentDate, a.AppointmentTime, a.ID) {
			return nil, appointmentRepo.ErrSlotOccupied
		}
	}

	now := time.Now()
	a.CreatedAt, a.UpdatedAt = now, now
	s.appointments[a.ID] = clone(a)
	return a, nil
}

func (s *Store) GetByID(ctx context.Context, id uuid.UUID) (*domain.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.appointments[id]
	if !ok {
		return nil, appointmentRepo.ErrAppointmentNotFound
	}
	return clone(a), nil
}

func (s *Store) GetByCitizen(ctx context.Context, citizenID uuid.UUID, status *domain.AppointmentStatus) ([]*domain.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*domain.Appointment, 0)
	for _, a := range s.appointments {
		if a.CitizenID != citizenID || (status != nil && a.Status != *status) {
			continue
		}
		out = append(out, clone(a))
	}
	sort.Slice(out, func(i, j int) bool { return less(out[j], out[i]) })
	return out, nil
}

func (s *Store) Search(ctx context.Context, f domain.SearchFilter) ([]*domain.Appointment, error) {
	f.Normalize()

	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*domain.Appointment, 0)
	for _, a := range s.appointments {
		switch {
		case f.DepartmentID != nil && a.DepartmentID != *f.DepartmentID:
		case f.Status != nil && a.Status != *f.Status:
		case f.From != nil && a.AppointmentDate.Before(domain.DateOnly(*f.From)):
		case f.To != nil && a.AppointmentDate.After(domain.DateOnly(*f.To)):
		case f.Search != "" && !strings.HasPrefix(a.AppointmentNumber, f.Search):
		default:
			out = append(out, clone(a))
		}
	}
	sort.Slice(out, func(i, j int) bool { return less(out[i], out[j]) })

	if f.Offset >= len(out) {
		return []*domain.Appointment{}, nil
	}
	out = out[f.Offset:]
	if len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (s *Store) IsOccupied(ctx context.Context, serviceID uuid.UUID, date time.Time, t types.TimeString, excludeID *uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	exclude := uuid.Nil
	if excludeID != nil {
		exclude = *excludeID
	}
	for _, a := range s.appointments {
		if s.conflicts(a, serviceID, date, t, exclude) {
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) OccupiedTimes(ctx context.Context, serviceID uuid.UUID, date time.Time) ([]types.TimeString, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]types.TimeString, 0)
	for _, a := range s.appointments {
		if a.ServiceID == serviceID && a.AppointmentDate.Equal(domain.DateOnly(date)) && a.Status.OccupiesSlot() {
			out = append(out, a.AppointmentTime)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}

func (s *Store) UpdateStatus(ctx context.Context, id uuid.UUID, from, to domain.AppointmentStatus, reason string) error {
	return s.mutate(id, func(a *domain.Appointment) error {
		if a.Status != from {
			return appointmentRepo.ErrPreconditionFailed
		}
		if to.OccupiesSlot() && !from.OccupiesSlot() {
			for _, other := range s.appointments {
				if s.conflicts(other, a.ServiceID, a.AppointmentDate, a.AppointmentTime, a.ID) {
					return appointmentRepo.ErrSlotOccupied
				}
			}
		}
		a.Status = to
		if to == domain.StatusCancelled {
			if a.CancellationReason == nil && reason != "" {
				a.CancellationReason = &reason
			}
			if a.CancelledAt == nil {
				now := time.Now()
				a.CancelledAt = &now
			}
		}
		return nil
	})
}

func (s *Store) Cancel(ctx context.Context, id uuid.UUID, from domain.AppointmentStatus, reason string) error {
	return s.mutate(id, func(a *domain.Appointment) error {
		if a.Status != from {
			return appointmentRepo.ErrPreconditionFailed
		}
		now := time.Now()
		a.Status = domain.StatusCancelled
		a.CancellationReason = &reason
		a.CancelledAt = &now
		return nil
	})
}

func (s *Store) Reschedule(ctx context.Context, id uuid.UUID, from domain.AppointmentStatus, entry domain.RescheduleEntry, qrPayload string) error {
	return s.mutate(id, func(a *domain.Appointment) error {
		if a.Status != from || !a.AppointmentDate.Equal(domain.DateOnly(entry.PreviousDate)) || a.AppointmentTime != entry.PreviousTime {
			return appointmentRepo.ErrPreconditionFailed
		}
		for _, other := range s.appointments {
			if s.conflicts(other, a.ServiceID, entry.NewDate, entry.NewTime, a.ID) {
				return appointmentRepo.ErrSlotOccupied
			}
		}
		a.AppointmentDate = domain.DateOnly(entry.NewDate)
		a.AppointmentTime = entry.NewTime
		a.Status = domain.StatusRescheduled
		a.RescheduleHistory = append(a.RescheduleHistory, entry)
		if qrPayload != "" {
			a.QRPayload = qrPayload
		}
		return nil
	})
}

func (s *Store) AssignOfficer(ctx context.Context, id uuid.UUID, officerID uuid.UUID) error {
	err := s.mutate(id, func(a *domain.Appointment) error {
		a.AssignedOfficerID = &officerID
		return nil
	})
	return err
}

func (s *Store) AssignIfUnassigned(ctx context.Context, id uuid.UUID, officerID uuid.UUID) (bool, error) {
	assigned := false
	err := s.mutate(id, func(a *domain.Appointment) error {
		if a.AssignedOfficerID == nil {
			a.AssignedOfficerID = &officerID
			assigned = true
		}
		return nil
	})
	return assigned, err
}

func (s *Store) UpdateNotes(ctx context.Context, id uuid.UUID, officer, internal *string) error {
	return s.mutate(id, func(a *domain.Appointment) error {
		if officer != nil {
			a.Notes.Officer = *officer
		}
		if internal != nil {
			a.Notes.Internal = *internal
		}
		return nil
	})
}

func (s *Store) SetFeedback(ctx context.Context, id uuid.UUID, fb domain.Feedback) error {
	return s.mutate(id, func(a *domain.Appointment) error {
		if a.Status != domain.StatusCompleted || a.Feedback != nil {
			return appointmentRepo.ErrPreconditionFailed
		}
		a.Feedback = &fb
		return nil
	})
}

func (s *Store) SetQRPayload(ctx context.Context, id uuid.UUID, payload string) error {
	return s.mutate(id, func(a *domain.Appointment) error {
		a.QRPayload = payload
		return nil
	})
}

func (s *Store) AppendNotification(ctx context.Context, id uuid.UUID, n domain.Notification) error {
	return s.mutate(id, func(a *domain.Appointment) error {
		a.Notifications = append(a.Notifications, n)
		return nil
	})
}

func (s *Store) mutate(id uuid.UUID, fn func(a *domain.Appointment) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.appointments[id]
	if !ok {
		return appointmentRepo.ErrAppointmentNotFound
	}
	cp := clone(a)
	if err := fn(cp); err != nil {
		return err
	}
	cp.UpdatedAt = time.Now()
	s.appointments[id] = cp
	return nil
}

// conflicts вызывается под s.mu
func (s *Store) conflicts(a *domain.Appointment, serviceID uuid.UUID, date time.Time, t types.TimeString, exclude uuid.UUID) bool {
	return a.ID != exclude &&
		a.ServiceID == serviceID &&
		a.AppointmentDate.Equal(domain.DateOnly(date)) &&
		a.AppointmentTime == t &&
		a.Status.OccupiesSlot()
}

func less(a, b *domain.Appointment) bool {
	if !a.AppointmentDate.Equal(b.AppointmentDate) {
		return a.AppointmentDate.Before(b.AppointmentDate)
	}
	if a.AppointmentTime != b.AppointmentTime {
		return a.AppointmentTime < b.AppointmentTime
	}
	return a.AppointmentNumber < b.AppointmentNumber
}

func clone(a *domain.Appointment) *domain.Appointment {
	cp := *a
	if a.AssignedOfficerID != nil {
		id := *a.AssignedOfficerID
		cp.AssignedOfficerID = &id
	}
	if a.Feedback != nil {
		fb := *a.Feedback
		cp.Feedback = &fb
	}
	if a.CancellationReason != nil {
		r := *a.CancellationReason
		cp.CancellationReason = &r
	}
	if a.CancelledAt != nil {
		t := *a.CancelledAt
		cp.CancelledAt = &t
	}
	cp.Documents = append([]domain.Document(nil), a.Documents...)
	cp.RescheduleHistory = append([]domain.RescheduleEntry(nil), a.RescheduleHistory...)
	cp.Notifications = append([]domain.Notification(nil), a.Notifications...)
	return &cp
}

// TxManager выполняет функцию без транзакции
type TxManager struct{}

func (TxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (TxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// NopLogger логгер, который ничего не пишет
type NopLogger struct{}

func (NopLogger) Info(string, ...interface{})  {}
func (NopLogger) Warn(string, ...interface{})  {}
func (NopLogger) Error(string, ...interface{}) {}
