package notifier

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gopkg.in/gomail.v2"
)

const defaultSendTimeout = 30 * time.Second

// SMTPConfig настройки SMTP
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// EmailSender отправка писем через SMTP
type EmailSender struct {
	cfg SMTPConfig
}

// NewEmailSender создает отправителя писем
func NewEmailSender(cfg SMTPConfig) *EmailSender {
	return &EmailSender{cfg: cfg}
}

// Send отправляет письмо. Дедлайн контекста ограничивает ожидание SMTP.
func (s *EmailSender) Send(ctx context.Context, to, subject, body string) error {
	msg, err := buildMessage(s.cfg.From, to, subject, body)
	if err != nil {
		return err
	}

	d := gomail.NewDialer(s.cfg.Host, s.cfg.Port, s.cfg.Username, s.cfg.Password)

	done := make(chan error, 1)
	go func() {
		done <- d.DialAndSend(msg)
	}()

	wait := defaultSendTimeout
	if dl, ok := ctx.Deadline(); ok {
		if left := time.Until(dl); left > 0 && left < wait {
			wait = left
		}
	}

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("%w: %v", ErrSend, err)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(wait):
		return context.DeadlineExceeded
	}
}

func buildMessage(from, to, subject, body string) (*gomail.Message, error) {
	from = strings.TrimSpace(from)
	to = strings.TrimSpace(to)
	if from == "" {
		return nil, fmt.Errorf("%w: from is required", ErrInvalidMessage)
	}
	if to == "" {
		return nil, fmt.Errorf("%w: recipient is required", ErrInvalidMessage)
	}
	if strings.TrimSpace(subject) == "" {
		return nil, fmt.Errorf("%w: subject is required", ErrInvalidMessage)
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)
	return msg, nil
}
