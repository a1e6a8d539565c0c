package models

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid appointment status")
)

// Request модели

// CancelRequest запрос на отмену записи гражданином
type CancelRequest struct {
	CancellationReason string `json:"cancellationReason"`
}

// UpdateStatusRequest запрос сотрудника на смену статуса
type UpdateStatusRequest struct {
	Status       string  `json:"status"`
	OfficerNotes *string `json:"officerNotes,omitempty"`
	Reason       string  `json:"reason,omitempty"`
}

// UpdateNotesRequest запрос на изменение заметок сотрудника
type UpdateNotesRequest struct {
	Officer  *string `json:"officer,omitempty"`
	Internal *string `json:"internal,omitempty"`
}

// FeedbackRequest отзыв гражданина
type FeedbackRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment,omitempty"`
}

// SearchRequest поиск записей сотрудником
type SearchRequest struct {
	DepartmentID *uuid.UUID // только для admin
	Status       *string
	From         *time.Time
	To           *time.Time
	Search       string
	Limit        int
	Offset       int
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *SearchRequest) ToDomainFilter() (domain.SearchFilter, error) {
	filter := domain.SearchFilter{
		DepartmentID: r.DepartmentID,
		From:         r.From,
		To:           r.To,
		Search:       r.Search,
		Limit:        r.Limit,
		Offset:       r.Offset,
	}

	if r.Status != nil {
		status, err := ToDomainStatus(*r.Status)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}

	filter.Normalize()
	return filter, nil
}

// Response модели

// NotesResponse заметки к записи
type NotesResponse struct {
	Citizen  string `json:"citizen,omitempty"`
	Officer  string `json:"officer,omitempty"`
	Internal string `json:"internal,omitempty"` // только для сотрудников
}

// FeedbackResponse отзыв
type FeedbackResponse struct {
	Rating      int       `json:"rating"`
	Comment     string    `json:"comment,omitempty"`
	SubmittedAt time.Time `json:"submittedAt"`
}

// RescheduleResponse запись истории переносов
type RescheduleResponse struct {
	PreviousDate string    `json:"previousDate"`
	PreviousTime string    `json:"previousTime"`
	NewDate      string    `json:"newDate"`
	NewTime      string    `json:"newTime"`
	Reason       string    `json:"reason"`
	ActorID      string    `json:"actorId"`
	Timestamp    time.Time `json:"timestamp"`
}

// AppointmentResponse ответ с данными записи
type AppointmentResponse struct {
	ID                 string                `json:"id"`
	AppointmentNumber  string                `json:"appointmentNumber"`
	CitizenID          string                `json:"citizenId"`
	ServiceID          string                `json:"serviceId"`
	DepartmentID       string                `json:"departmentId"`
	AssignedOfficerID  *string               `json:"assignedOfficerId,omitempty"`
	AppointmentDate    string                `json:"appointmentDate"` // "2026-10-20"
	AppointmentTime    string                `json:"appointmentTime"` // "09:30"
	Status             string                `json:"status"`
	Notes              NotesResponse         `json:"notes"`
	Documents          []domain.Document     `json:"documents"`
	Feedback           *FeedbackResponse     `json:"feedback,omitempty"`
	QRPayload          string                `json:"qrPayload,omitempty"`
	RescheduleHistory  []RescheduleResponse  `json:"rescheduleHistory"`
	CancellationReason *string               `json:"cancellationReason,omitempty"`
	CancelledAt        *time.Time            `json:"cancelledAt,omitempty"`
	Notifications      []domain.Notification `json:"notifications"`
	CreatedAt          time.Time             `json:"createdAt"`
	UpdatedAt          time.Time             `json:"updatedAt"`
}

// AppointmentListResponse список записей
type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
	Total        int                   `json:"total"`
}

// Конвертеры

// FromDomainAppointment конвертирует domain.Appointment в AppointmentResponse
func FromDomainAppointment(a *domain.Appointment) *AppointmentResponse {
	resp := &AppointmentResponse{
		ID:                 a.ID.String(),
		AppointmentNumber:  a.AppointmentNumber,
		CitizenID:          a.CitizenID.String(),
		ServiceID:          a.ServiceID.String(),
		DepartmentID:       a.DepartmentID.String(),
		AppointmentDate:    a.AppointmentDate.Format(domain.DateFormat),
		AppointmentTime:    a.AppointmentTime.String(),
		Status:             string(a.Status),
		Notes:              NotesResponse(a.Notes),
		Documents:          a.Documents,
		QRPayload:          a.QRPayload,
		RescheduleHistory:  make([]RescheduleResponse, 0, len(a.RescheduleHistory)),
		CancellationReason: a.CancellationReason,
		CancelledAt:        a.CancelledAt,
		Notifications:      a.Notifications,
		CreatedAt:          a.CreatedAt,
		UpdatedAt:          a.UpdatedAt,
	}

	if a.AssignedOfficerID != nil {
		id := a.AssignedOfficerID.String()
		resp.AssignedOfficerID = &id
	}
	if a.Feedback != nil {
		fb := FeedbackResponse(*a.Feedback)
		resp.Feedback = &fb
	}
	for _, e := range a.RescheduleHistory {
		resp.RescheduleHistory = append(resp.RescheduleHistory, RescheduleResponse{
			PreviousDate: e.PreviousDate.Format(domain.DateFormat),
			PreviousTime: e.PreviousTime.String(),
			NewDate:      e.NewDate.Format(domain.DateFormat),
			NewTime:      e.NewTime.String(),
			Reason:       e.Reason,
			ActorID:      e.ActorID.String(),
			Timestamp:    e.Timestamp,
		})
	}
	if resp.Documents == nil {
		resp.Documents = []domain.Document{}
	}
	if resp.Notifications == nil {
		resp.Notifications = []domain.Notification{}
	}

	return resp
}

// FromDomainAppointmentFor конвертирует запись с учетом роли читателя.
// Гражданин не видит внутренние заметки.
func FromDomainAppointmentFor(a *domain.Appointment, actor domain.Actor) *AppointmentResponse {
	resp := FromDomainAppointment(a)
	if !actor.IsStaff() {
		resp.Notes.Internal = ""
	}
	return resp
}

// FromDomainAppointmentList конвертирует список записей
func FromDomainAppointmentList(list []*domain.Appointment, actor domain.Actor) *AppointmentListResponse {
	resp := &AppointmentListResponse{
		Appointments: make([]AppointmentResponse, 0, len(list)),
		Total:        len(list),
	}
	for _, a := range list {
		resp.Appointments = append(resp.Appointments, *FromDomainAppointmentFor(a, actor))
	}
	return resp
}

// ToDomainStatus конвертирует строку в domain.AppointmentStatus
func ToDomainStatus(s string) (domain.AppointmentStatus, error) {
	status := domain.AppointmentStatus(s)
	if !status.IsValid() {
		return "", ErrInvalidStatus
	}
	return status, nil
}
