package router

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
)

// Маршрут {id} принимает только UUID, чтобы не перехватывать статические пути
const idPattern = "{id:[0-9a-fA-F-]{36}}"

// Handlers обработчики всех эндпоинтов API
type Handlers struct {
	GetAvailableSlots http.HandlerFunc
	BookAppointment   http.HandlerFunc
	GetMyAppointments http.HandlerFunc
	GetAppointment    http.HandlerFunc
	GetAppointmentQR  http.HandlerFunc
	CancelAppointment http.HandlerFunc
	UpdateStatus      http.HandlerFunc
	SubmitFeedback    http.HandlerFunc

	SearchAppointments    http.HandlerFunc
	AssignOfficer         http.HandlerFunc
	RescheduleAppointment http.HandlerFunc
	UpdateNotes           http.HandlerFunc

	Health http.HandlerFunc
}

// Options инфраструктура роутера
type Options struct {
	Auth    mux.MiddlewareFunc
	Logger  middleware.Logger
	Metrics middleware.HTTPMetrics // nil - без HTTP метрик

	MetricsPath    string
	MetricsHandler http.Handler // nil - эндпоинт метрик не публикуется
}

// New собирает роутер сервиса
func New(h Handlers, opts Options) *mux.Router {
	r := mux.NewRouter()

	r.Use(middleware.Logging(opts.Logger))
	if opts.Metrics != nil {
		r.Use(middleware.Metrics(opts.Metrics))
	}

	// ============================================================
	// SERVICE ROUTES
	// ============================================================

	r.HandleFunc("/health", h.Health).Methods(http.MethodGet)
	if opts.MetricsHandler != nil {
		r.Handle(opts.MetricsPath, opts.MetricsHandler).Methods(http.MethodGet)
	}

	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Свободные слоты услуги на дату
	api.HandleFunc("/appointments/available-slots", h.GetAvailableSlots).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (Bearer JWT)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(opts.Auth)

	// --- Гражданин ---
	protected.HandleFunc("/appointments/book", h.BookAppointment).Methods(http.MethodPost)
	protected.HandleFunc("/appointments/my-appointments", h.GetMyAppointments).Methods(http.MethodGet)
	protected.HandleFunc("/appointments/"+idPattern, h.GetAppointment).Methods(http.MethodGet)
	protected.HandleFunc("/appointments/"+idPattern+"/qr", h.GetAppointmentQR).Methods(http.MethodGet)
	protected.HandleFunc("/appointments/"+idPattern+"/cancel", h.CancelAppointment).Methods(http.MethodPut)
	protected.HandleFunc("/appointments/"+idPattern+"/feedback", h.SubmitFeedback).Methods(http.MethodPost)

	// --- Сотрудники (права проверяются в сервисах) ---
	protected.HandleFunc("/appointments/"+idPattern, h.UpdateStatus).Methods(http.MethodPatch)
	protected.HandleFunc("/officer/appointments", h.SearchAppointments).Methods(http.MethodGet)
	protected.HandleFunc("/officer/appointments/"+idPattern+"/status", h.UpdateStatus).Methods(http.MethodPatch)
	protected.HandleFunc("/officer/appointments/"+idPattern+"/assign", h.AssignOfficer).Methods(http.MethodPatch)
	protected.HandleFunc("/officer/appointments/"+idPattern+"/reschedule", h.RescheduleAppointment).Methods(http.MethodPatch)
	protected.HandleFunc("/officer/appointments/"+idPattern+"/notes", h.UpdateNotes).Methods(http.MethodPatch)

	return r
}
