package notifier

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type sliceSource struct {
	jobs []*Job
	err  error
}

func (s *sliceSource) Dequeue(ctx context.Context, timeout time.Duration) (*Job, error) {
	if s.err != nil {
		return nil, s.err
	}
	if len(s.jobs) == 0 {
		return nil, ErrQueueEmpty
	}
	j := s.jobs[0]
	s.jobs = s.jobs[1:]
	return j, nil
}

type stubSender struct {
	err  error
	sent []string
}

func (s *stubSender) Send(ctx context.Context, to, subject, body string) error {
	s.sent = append(s.sent, to)
	return s.err
}

type recorder struct {
	mu      sync.Mutex
	entries map[uuid.UUID][]domain.Notification
}

func (r *recorder) AppendNotification(ctx context.Context, id uuid.UUID, n domain.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.entries == nil {
		r.entries = map[uuid.UUID][]domain.Notification{}
	}
	r.entries[id] = append(r.entries[id], n)
	return nil
}

type countingMetrics map[string]int

func (m countingMetrics) ObserveNotification(status string) { m[status]++ }

func TestWorker_RecordsOutcomes(t *testing.T) {
	okID, failID := uuid.New(), uuid.New()
	source := &sliceSource{jobs: []*Job{
		{AppointmentID: okID, AppointmentNumber: "APT-OK", Recipient: "a@example.com"},
	}}
	sender := &stubSender{}
	rec := &recorder{}
	metrics := countingMetrics{}

	w := NewWorker(source, sender, rec, metrics, time.Millisecond, nopLogger{})

	processed, err := w.ProcessOne(context.Background())
	require.NoError(t, err)
	assert.True(t, processed)

	sender.err = errors.New("smtp: 550 mailbox unavailable")
	source.jobs = append(source.jobs, &Job{AppointmentID: failID, AppointmentNumber: "APT-FAIL", Recipient: "b@example.com"})

	processed, err = w.ProcessOne(context.Background())
	require.NoError(t, err)
	assert.True(t, processed)

	require.Len(t, rec.entries[okID], 1)
	assert.Equal(t, domain.NotificationSent, rec.entries[okID][0].Status)
	require.Len(t, rec.entries[failID], 1)
	assert.Equal(t, domain.NotificationFailed, rec.entries[failID][0].Status)
	assert.Contains(t, rec.entries[failID][0].Message, "mailbox unavailable")

	assert.Equal(t, 1, metrics["sent"])
	assert.Equal(t, 1, metrics["failed"])
}

func TestWorker_EmptyQueue(t *testing.T) {
	w := NewWorker(&sliceSource{}, &stubSender{}, &recorder{}, nil, time.Millisecond, nopLogger{})

	processed, err := w.ProcessOne(context.Background())
	require.NoError(t, err)
	assert.False(t, processed)
}

func TestWorker_SkipsMalformed(t *testing.T) {
	sender := &stubSender{}
	w := NewWorker(&sliceSource{err: ErrDecode}, sender, &recorder{}, nil, time.Millisecond, nopLogger{})

	processed, err := w.ProcessOne(context.Background())
	require.NoError(t, err)
	assert.True(t, processed)
	assert.Empty(t, sender.sent)
}

func TestWorker_RunStopsOnCancel(t *testing.T) {
	w := NewWorker(&sliceSource{}, &stubSender{}, &recorder{}, nil, time.Millisecond, nopLogger{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not stop")
	}
}
