package notifier

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// JobSource источник задач
type JobSource interface {
	Dequeue(ctx context.Context, timeout time.Duration) (*Job, error)
}

// Sender отправка уведомления
type Sender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// DeliveryRecorder сохраняет результат доставки в записи
type DeliveryRecorder interface {
	AppendNotification(ctx context.Context, id uuid.UUID, n domain.Notification) error
}

// Metrics счетчики уведомлений
type Metrics interface {
	ObserveNotification(status string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Worker забирает задачи из очереди и отправляет письма
type Worker struct {
	source      JobSource
	sender      Sender
	recorder    DeliveryRecorder
	metrics     Metrics
	popTimeout  time.Duration
	sendTimeout time.Duration
	now         func() time.Time
	logger      Logger
}

// NewWorker создает воркер уведомлений. metrics может быть nil.
func NewWorker(
	source JobSource,
	sender Sender,
	recorder DeliveryRecorder,
	metrics Metrics,
	popTimeout time.Duration,
	logger Logger,
) *Worker {
	return &Worker{
		source:      source,
		sender:      sender,
		recorder:    recorder,
		metrics:     metrics,
		popTimeout:  popTimeout,
		sendTimeout: defaultSendTimeout,
		now:         time.Now,
		logger:      logger,
	}
}

// Run обрабатывает задачи до отмены контекста
func (w *Worker) Run(ctx context.Context) error {
	w.logger.Info("NotifyWorker: started")
	for {
		if err := ctx.Err(); err != nil {
			w.logger.Info("NotifyWorker: stopped")
			return nil
		}

		_, err := w.ProcessOne(ctx)
		if err != nil && ctx.Err() == nil {
			w.logger.Error("NotifyWorker: %v", err)
			// Пауза, чтобы не крутиться при недоступном Redis
			select {
			case <-ctx.Done():
			case <-time.After(time.Second):
			}
		}
	}
}

// ProcessOne обрабатывает одну задачу. Возвращает false, если очередь пуста.
// Ошибка отправки письма не возвращается, а записывается в notifications[].
func (w *Worker) ProcessOne(ctx context.Context) (bool, error) {
	job, err := w.source.Dequeue(ctx, w.popTimeout)
	if errors.Is(err, ErrQueueEmpty) {
		return false, nil
	}
	if errors.Is(err, ErrDecode) {
		w.logger.Warn("NotifyWorker: dropping malformed job: %v", err)
		return true, nil
	}
	if err != nil {
		return false, err
	}

	sendCtx, cancel := context.WithTimeout(ctx, w.sendTimeout)
	defer cancel()

	n := domain.Notification{
		Channel:   ChannelEmail,
		Status:    domain.NotificationSent,
		Timestamp: w.now(),
	}

	if err := w.sender.Send(sendCtx, job.Recipient, job.Subject(), job.Body()); err != nil {
		w.logger.Warn("NotifyWorker: delivery failed for appointment=%s: %v", job.AppointmentNumber, err)
		n.Status = domain.NotificationFailed
		n.Message = err.Error()
	} else {
		w.logger.Info("NotifyWorker: sent notification for appointment=%s", job.AppointmentNumber)
	}

	if w.metrics != nil {
		w.metrics.ObserveNotification(string(n.Status))
	}

	// Результат доставки пишем вне отмены воркера
	recCtx, recCancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer recCancel()
	if err := w.recorder.AppendNotification(recCtx, job.AppointmentID, n); err != nil {
		w.logger.Error("NotifyWorker: failed to record delivery for appointment=%s: %v", job.AppointmentNumber, err)
	}

	return true, nil
}
