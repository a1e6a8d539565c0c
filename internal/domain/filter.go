package domain

import (
	"time"

	"github.com/google/uuid"
)

// SearchFilter is the staff appointment search query
type SearchFilter struct {
	DepartmentID *uuid.UUID         // nil - все отделы (только admin)
	Status       *AppointmentStatus // фильтр по статусу
	From         *time.Time         // дата приема с (включительно)
	To           *time.Time         // дата приема по (включительно)
	Search       string             // префикс номера записи
	Limit        int
	Offset       int
}

// Normalize applies paging defaults and bounds
func (f *SearchFilter) Normalize() {
	if f.Limit <= 0 {
		f.Limit = DefaultSearchLimit
	}
	if f.Limit > MaxSearchLimit {
		f.Limit = MaxSearchLimit
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
}
