package book_appointment

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/service/artifacts"
	"github.com/m04kA/SMC-AppointmentService/internal/testutil/memstore"
	"github.com/m04kA/SMC-AppointmentService/pkg/clock"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// 2026-10-15 четверг
var now = time.Date(2026, 10, 15, 8, 0, 0, 0, time.UTC)

var friday = time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC)

type stubIssuer struct {
	mu     sync.Mutex
	issued []string
}

func (s *stubIssuer) Issue(ctx context.Context, appt *domain.Appointment, service *domain.Service, dept *domain.Department) artifacts.Artifact {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.issued = append(s.issued, appt.AppointmentNumber)
	appt.QRPayload = `{"appointmentNumber":"` + appt.AppointmentNumber + `"}`
	return artifacts.Artifact{AppointmentNumber: appt.AppointmentNumber, QRPayload: appt.QRPayload, QRCodeDataURL: "data:image/png;base64,AA=="}
}

type bookingCounter struct {
	mu     sync.Mutex
	counts map[string]int
}

func (m *bookingCounter) ObserveBooking(result string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.counts == nil {
		m.counts = map[string]int{}
	}
	m.counts[result]++
}

type failingCreate struct {
	*memstore.Store
}

func (f failingCreate) Create(ctx context.Context, a *domain.Appointment) (*domain.Appointment, error) {
	return nil, errors.New("connection reset by peer")
}

func newUseCase(store *memstore.Store, issuer ArtifactIssuer, metrics Metrics) *UseCase {
	return NewUseCase(store, store, issuer, memstore.TxManager{}, clock.Fixed{T: now}, metrics, "APT", time.Second, memstore.NopLogger{})
}

func request(svc *domain.Service, date time.Time, t types.TimeString) *Request {
	return &Request{CitizenID: uuid.New(), ServiceID: svc.ID, Date: date, Time: t, CitizenNotes: " first visit "}
}

func TestExecute_Success(t *testing.T) {
	store := memstore.New()
	svc, dept := store.Seed()
	issuer := &stubIssuer{}
	metrics := &bookingCounter{}

	req := request(svc, friday, "09:30")
	resp, err := newUseCase(store, issuer, metrics).Execute(context.Background(), req)
	require.NoError(t, err)

	appt := resp.Appointment
	assert.Equal(t, domain.StatusPending, appt.Status)
	assert.Equal(t, req.CitizenID, appt.CitizenID)
	assert.Equal(t, dept.ID, appt.DepartmentID)
	assert.Equal(t, friday, appt.AppointmentDate)
	assert.Equal(t, types.TimeString("09:30"), appt.AppointmentTime)
	assert.Equal(t, "first visit", appt.Notes.Citizen)
	assert.Regexp(t, regexp.MustCompile(`^APT-20261015-[0-9A-F]{6}$`), appt.AppointmentNumber)
	assert.NotEmpty(t, appt.QRPayload)
	assert.NotEmpty(t, resp.QRCodeDataURL)

	assert.Equal(t, []string{appt.AppointmentNumber}, issuer.issued)
	assert.Equal(t, 1, metrics.counts[ResultCreated])
	assert.Equal(t, 1, store.Count())
}

func TestExecute_SlotTaken(t *testing.T) {
	store := memstore.New()
	svc, _ := store.Seed()
	issuer := &stubIssuer{}
	metrics := &bookingCounter{}
	uc := newUseCase(store, issuer, metrics)

	_, err := uc.Execute(context.Background(), request(svc, friday, "09:30"))
	require.NoError(t, err)

	_, err = uc.Execute(context.Background(), request(svc, friday, "09:30"))
	assert.ErrorIs(t, err, ErrSlotNotAvailable)
	assert.ErrorIs(t, err, domain.ErrSlotConflict)

	assert.Len(t, issuer.issued, 1)
	assert.Equal(t, 1, metrics.counts[ResultConflict])
}

func TestExecute_CancelledSlotIsFree(t *testing.T) {
	store := memstore.New()
	svc, _ := store.Seed()
	uc := newUseCase(store, &stubIssuer{}, nil)

	first, err := uc.Execute(context.Background(), request(svc, friday, "10:00"))
	require.NoError(t, err)
	require.NoError(t, store.Cancel(context.Background(), first.Appointment.ID, domain.StatusPending, "changed plans"))

	second, err := uc.Execute(context.Background(), request(svc, friday, "10:00"))
	require.NoError(t, err)
	assert.NotEqual(t, first.Appointment.ID, second.Appointment.ID)
}

func TestExecute_RaceAfterPreCheck(t *testing.T) {
	store := memstore.New()
	svc, _ := store.Seed()

	// Конкурент занимает слот между проверкой и вставкой
	var once sync.Once
	store.BeforeCreate = func(a *domain.Appointment) {
		once.Do(func() {
			store.Put(&domain.Appointment{
				ID:                uuid.New(),
				AppointmentNumber: "APT-RIVAL",
				ServiceID:         a.ServiceID,
				DepartmentID:      a.DepartmentID,
				AppointmentDate:   a.AppointmentDate,
				AppointmentTime:   a.AppointmentTime,
				Status:            domain.StatusPending,
			})
		})
	}

	issuer := &stubIssuer{}
	_, err := newUseCase(store, issuer, nil).Execute(context.Background(), request(svc, friday, "11:00"))
	assert.ErrorIs(t, err, domain.ErrSlotConflict)
	assert.Empty(t, issuer.issued)
	assert.Equal(t, 1, store.Count())
}

func TestExecute_ConcurrentSameSlot(t *testing.T) {
	store := memstore.New()
	svc, _ := store.Seed()
	uc := newUseCase(store, &stubIssuer{}, nil)

	const n = 20
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		conflicts int
	)
	start := make(chan struct{})
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			_, err := uc.Execute(context.Background(), request(svc, friday, "09:00"))
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case errors.Is(err, domain.ErrSlotConflict):
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	close(start)
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, n-1, conflicts)
	assert.Equal(t, 1, store.Count())
}

func TestExecute_NumberCollisionRetries(t *testing.T) {
	store := memstore.New()
	svc, _ := store.Seed()
	store.Put(&domain.Appointment{ID: uuid.New(), AppointmentNumber: "APT-DUP", Status: domain.StatusCancelled})

	uc := newUseCase(store, &stubIssuer{}, nil)
	calls := 0
	uc.newNumber = func(prefix string, now time.Time) string {
		calls++
		if calls == 1 {
			return "APT-DUP"
		}
		return fmt.Sprintf("APT-%d", calls)
	}

	resp, err := uc.Execute(context.Background(), request(svc, friday, "09:00"))
	require.NoError(t, err)
	assert.Equal(t, "APT-2", resp.Appointment.AppointmentNumber)
	assert.Equal(t, 2, calls)
}

func TestExecute_NumberCollisionExhausted(t *testing.T) {
	store := memstore.New()
	svc, _ := store.Seed()
	store.Put(&domain.Appointment{ID: uuid.New(), AppointmentNumber: "APT-DUP", Status: domain.StatusCancelled})

	uc := newUseCase(store, &stubIssuer{}, nil)
	uc.newNumber = func(string, time.Time) string { return "APT-DUP" }

	_, err := uc.Execute(context.Background(), request(svc, friday, "09:00"))
	assert.ErrorIs(t, err, domain.ErrServiceUnavailable)
}

func TestExecute_Validation(t *testing.T) {
	store := memstore.New()
	svc, _ := store.Seed()
	uc := newUseCase(store, &stubIssuer{}, nil)
	sunday := time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		req  *Request
		want error
	}{
		{"past date", request(svc, now.AddDate(0, 0, -1), "09:00"), domain.ErrPastDate},
		{"too far", request(svc, now.AddDate(0, 0, 31), "09:00"), domain.ErrTooFarInAdvance},
		{"closed day", request(svc, sunday, "09:00"), ErrDepartmentClosed},
		{"off grid", request(svc, friday, "09:15"), ErrInvalidTimeSlot},
		{"after hours", request(svc, friday, "12:00"), ErrInvalidTimeSlot},
		{"bad time", request(svc, friday, "9am"), ErrInvalidInput},
		{"unknown service", request(&domain.Service{ID: uuid.New()}, friday, "09:00"), ErrServiceNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Execute(context.Background(), tt.req)
			assert.ErrorIs(t, err, tt.want)
		})
	}
	assert.Equal(t, 0, store.Count())
}

func TestExecute_TodayStartedSlot(t *testing.T) {
	store := memstore.New()
	svc, _ := store.Seed()
	at := time.Date(2026, 10, 15, 9, 10, 0, 0, time.UTC)
	uc := NewUseCase(store, store, &stubIssuer{}, memstore.TxManager{}, clock.Fixed{T: at}, nil, "APT", time.Second, memstore.NopLogger{})

	_, err := uc.Execute(context.Background(), request(svc, at, "09:00"))
	assert.ErrorIs(t, err, ErrSlotStarted)

	_, err = uc.Execute(context.Background(), request(svc, at, "09:30"))
	assert.NoError(t, err)
}

func TestExecute_LastDayOfWindow(t *testing.T) {
	store := memstore.New()
	svc, _ := store.Seed()
	svc.MaxAdvanceBookingDays = 1
	store.AddService(svc)

	_, err := newUseCase(store, &stubIssuer{}, nil).Execute(context.Background(), request(svc, friday, "09:00"))
	assert.NoError(t, err)
}

func TestExecute_StorageFailure(t *testing.T) {
	store := memstore.New()
	svc, _ := store.Seed()
	metrics := &bookingCounter{}
	uc := NewUseCase(store, failingCreate{store}, &stubIssuer{}, memstore.TxManager{}, clock.Fixed{T: now}, metrics, "APT", time.Second, memstore.NopLogger{})

	_, err := uc.Execute(context.Background(), request(svc, friday, "09:00"))
	assert.ErrorIs(t, err, domain.ErrServiceUnavailable)
	assert.Equal(t, 1, metrics.counts[ResultError])
}

// stalledCreate вставляет запись только после отмены контекста
type stalledCreate struct {
	*memstore.Store
}

func (s stalledCreate) Create(ctx context.Context, a *domain.Appointment) (*domain.Appointment, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestExecute_OperationTimeout(t *testing.T) {
	store := memstore.New()
	svc, _ := store.Seed()
	metrics := &bookingCounter{}
	issuer := &stubIssuer{}
	uc := NewUseCase(store, stalledCreate{store}, issuer, memstore.TxManager{}, clock.Fixed{T: now}, metrics, "APT", 10*time.Millisecond, memstore.NopLogger{})

	start := time.Now()
	_, err := uc.Execute(context.Background(), request(svc, friday, "09:00"))

	assert.ErrorIs(t, err, domain.ErrServiceUnavailable)
	assert.Less(t, time.Since(start), time.Second)
	assert.Equal(t, 1, metrics.counts[ResultError])
	assert.Empty(t, issuer.issued)
	assert.Equal(t, 0, store.Count())
}
