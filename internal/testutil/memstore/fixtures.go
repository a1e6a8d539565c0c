package memstore

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// OfficeHours часы работы пн-пт с start до end, выходные закрыты
func OfficeHours(start, end types.TimeString) domain.WorkingHours {
	var wh domain.WorkingHours
	for d := time.Monday; d <= time.Friday; d++ {
		wh[d] = domain.DaySchedule{IsOpen: true, Start: start, End: end}
	}
	return wh
}

// Seed добавляет отдел (пн-пт 09:00-12:00) и услугу длительностью 30 минут
// с окном записи 30 дней
func (s *Store) Seed() (*domain.Service, *domain.Department) {
	dept := &domain.Department{
		ID:           uuid.New(),
		Name:         "Central office",
		Location:     "Main st. 1",
		WorkingHours: OfficeHours("09:00", "12:00"),
	}
	svc := &domain.Service{
		ID:                         uuid.New(),
		Name:                       "Passport renewal",
		DepartmentID:               dept.ID,
		AppointmentDurationMinutes: 30,
		MaxAdvanceBookingDays:      30,
		IsActive:                   true,
	}
	s.AddDepartment(dept)
	s.AddService(svc)
	return svc, dept
}
