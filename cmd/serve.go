package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	assignOfficerHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/assign_officer"
	bookAppointmentHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/book_appointment"
	cancelAppointmentHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/cancel_appointment"
	getAppointmentHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/get_appointment"
	getAppointmentQRHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/get_appointment_qr"
	getAvailableSlotsHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/get_available_slots"
	getMyAppointmentsHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/get_my_appointments"
	healthHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/health"
	rescheduleAppointmentHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/reschedule_appointment"
	searchAppointmentsHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/search_appointments"
	submitFeedbackHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/submit_feedback"
	updateNotesHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/update_notes"
	updateStatusHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/update_status"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SMC-AppointmentService/internal/api/router"
	appointmentRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	catalogRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/catalog"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/notifier"
	userServiceClient "github.com/m04kA/SMC-AppointmentService/internal/integrations/userservice"
	appointmentsService "github.com/m04kA/SMC-AppointmentService/internal/service/appointments"
	artifactsService "github.com/m04kA/SMC-AppointmentService/internal/service/artifacts"
	bookAppointmentUC "github.com/m04kA/SMC-AppointmentService/internal/usecase/book_appointment"
	getAvailableSlotsUC "github.com/m04kA/SMC-AppointmentService/internal/usecase/get_available_slots"
	rescheduleAppointmentUC "github.com/m04kA/SMC-AppointmentService/internal/usecase/reschedule_appointment"
	"github.com/m04kA/SMC-AppointmentService/pkg/clock"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/metrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/txmanager"
)

const healthCheckTimeout = 2 * time.Second

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Запустить HTTP API (и воркер уведомлений, если включен)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve()
		},
	}
}

func serve() error {
	cfg, log, err := bootstrap()
	if err != nil {
		return err
	}
	defer log.Close()

	log.Info("Starting SMC-AppointmentService...")

	ctx := context.Background()

	// Метрики регистрируются всегда, флаг управляет только публикацией эндпоинта
	metricsCollector := metrics.New(prometheus.DefaultRegisterer, cfg.Metrics.ServiceName)
	stopMetricsCh := make(chan struct{})

	// Подключаемся к базе данных
	db, err := openDatabase(ctx, cfg.Database, log)
	if err != nil {
		return err
	}
	defer db.Close()

	if cfg.Metrics.Enabled {
		gauges := dbmetrics.NewPoolGauges(prometheus.DefaultRegisterer, cfg.Metrics.ServiceName)
		dbmetrics.CollectPoolStats(db, gauges, cfg.Metrics.ServiceName, dbmetrics.DefaultCollectInterval, stopMetricsCh)
		log.Info("Database pool metrics collection started")
	}

	// Очередь уведомлений
	redisClient, err := openRedis(ctx, cfg.Redis, log)
	if err != nil {
		return err
	}
	defer redisClient.Close()
	queue := notifier.NewQueue(redisClient, cfg.Notifier.QueueKey)

	// Интеграционные клиенты
	userClient := userServiceClient.NewClient(
		cfg.UserService.URL,
		time.Duration(cfg.UserService.Timeout)*time.Second,
		log,
	)
	log.Info("Integration clients initialized (UserService=%s timeout=%ds)", cfg.UserService.URL, cfg.UserService.Timeout)

	// Репозитории
	appointmentRepository := appointmentRepo.NewRepository(db)
	catalogRepository := catalogRepo.NewRepository(db)
	txMgr := txmanager.NewTransactionManager(db)
	timeProvider := clock.NewReal(cfg.Booking.Location())

	// Сервисы
	artifactsSvc := artifactsService.NewService(
		appointmentRepository,
		userClient,
		queue,
		metricsCollector,
		time.Duration(cfg.Notifier.EnqueueTimeout)*time.Second,
		log,
	)
	appointmentsSvc := appointmentsService.NewService(
		appointmentRepository,
		userClient,
		timeProvider,
		metricsCollector,
		cfg.Booking.Timeout(),
		log,
	)

	// Use cases
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		catalogRepository,
		appointmentRepository,
		timeProvider,
		cfg.Booking.Timeout(),
		log,
	)
	bookAppointmentUseCase := bookAppointmentUC.NewUseCase(
		catalogRepository,
		appointmentRepository,
		artifactsSvc,
		txMgr,
		timeProvider,
		metricsCollector,
		cfg.Booking.NumberPrefix,
		cfg.Booking.Timeout(),
		log,
	)
	rescheduleAppointmentUseCase := rescheduleAppointmentUC.NewUseCase(
		catalogRepository,
		appointmentRepository,
		artifactsSvc,
		txMgr,
		timeProvider,
		metricsCollector,
		cfg.Booking.Timeout(),
		log,
	)

	// Handlers
	auth := middleware.NewAuthenticator(cfg.Auth.JWTSecret, cfg.Auth.Issuer, log)
	handlers := router.Handlers{
		GetAvailableSlots:     getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log).Handle,
		BookAppointment:       bookAppointmentHandler.NewHandler(bookAppointmentUseCase, log).Handle,
		GetMyAppointments:     getMyAppointmentsHandler.NewHandler(appointmentsSvc, log).Handle,
		GetAppointment:        getAppointmentHandler.NewHandler(appointmentsSvc, log).Handle,
		GetAppointmentQR:      getAppointmentQRHandler.NewHandler(appointmentsSvc, log).Handle,
		CancelAppointment:     cancelAppointmentHandler.NewHandler(appointmentsSvc, log).Handle,
		UpdateStatus:          updateStatusHandler.NewHandler(appointmentsSvc, log).Handle,
		SubmitFeedback:        submitFeedbackHandler.NewHandler(appointmentsSvc, log).Handle,
		SearchAppointments:    searchAppointmentsHandler.NewHandler(appointmentsSvc, log).Handle,
		AssignOfficer:         assignOfficerHandler.NewHandler(appointmentsSvc, log).Handle,
		RescheduleAppointment: rescheduleAppointmentHandler.NewHandler(rescheduleAppointmentUseCase, log).Handle,
		UpdateNotes:           updateNotesHandler.NewHandler(appointmentsSvc, log).Handle,
		Health: healthHandler.NewHandler(map[string]healthHandler.Pinger{
			"postgres": healthHandler.PingFunc(db.PingContext),
			"redis":    queue,
		}, healthCheckTimeout, log).Handle,
	}

	opts := router.Options{
		Auth:   auth.Middleware,
		Logger: log,
	}
	if cfg.Metrics.Enabled {
		opts.Metrics = metricsCollector
		opts.MetricsPath = cfg.Metrics.Path
		opts.MetricsHandler = promhttp.Handler()
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}
	r := router.New(handlers, opts)

	// Воркер уведомлений внутри процесса
	workerCtx, stopWorker := context.WithCancel(context.Background())
	workerDone := make(chan struct{})
	if cfg.Notifier.WorkerEnabled {
		worker := newNotifyWorker(cfg, queue, appointmentRepository, metricsCollector, log)
		go func() {
			defer close(workerDone)
			if err := worker.Run(workerCtx); err != nil {
				log.Error("Notification worker stopped with error: %v", err)
			}
		}()
	} else {
		close(workerDone)
	}

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-serverErr:
		log.Error("Server failed: %v", err)
	}

	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	// Дожидаемся фоновых отправок в очередь, затем останавливаем воркер
	artifactsSvc.Wait()
	stopWorker()
	<-workerDone

	close(stopMetricsCh)
	log.Info("Server stopped gracefully")
	return nil
}
