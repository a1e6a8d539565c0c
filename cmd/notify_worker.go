package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/m04kA/SMC-AppointmentService/internal/config"
	appointmentRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/notifier"
	"github.com/m04kA/SMC-AppointmentService/pkg/logger"
	"github.com/m04kA/SMC-AppointmentService/pkg/metrics"
)

func newNotifyWorkerCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "notify-worker",
		Short: "Запустить отдельный воркер доставки уведомлений",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := bootstrap()
			if err != nil {
				return err
			}
			defer log.Close()

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			db, err := openDatabase(ctx, cfg.Database, log)
			if err != nil {
				return err
			}
			defer db.Close()

			redisClient, err := openRedis(ctx, cfg.Redis, log)
			if err != nil {
				return err
			}
			defer redisClient.Close()

			queue := notifier.NewQueue(redisClient, cfg.Notifier.QueueKey)
			metricsCollector := metrics.New(prometheus.DefaultRegisterer, cfg.Metrics.ServiceName)
			worker := newNotifyWorker(cfg, queue, appointmentRepo.NewRepository(db), metricsCollector, log)

			return worker.Run(ctx)
		},
	}
}

// newNotifyWorker собирает воркер, отправляющий письма через SMTP
func newNotifyWorker(
	cfg *config.Config,
	queue *notifier.Queue,
	repo *appointmentRepo.Repository,
	metricsCollector *metrics.Metrics,
	log *logger.Logger,
) *notifier.Worker {
	sender := notifier.NewEmailSender(notifier.SMTPConfig{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
		From:     cfg.SMTP.From,
	})

	log.Info("Notification worker configured (queue=%s, smtp=%s:%d)", cfg.Notifier.QueueKey, cfg.SMTP.Host, cfg.SMTP.Port)
	return notifier.NewWorker(
		queue,
		sender,
		repo,
		metricsCollector,
		time.Duration(cfg.Notifier.PopTimeout)*time.Second,
		log,
	)
}
