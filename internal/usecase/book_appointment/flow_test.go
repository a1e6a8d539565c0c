package book_appointment

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/notifier"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/userservice"
	"github.com/m04kA/SMC-AppointmentService/internal/service/appointments"
	"github.com/m04kA/SMC-AppointmentService/internal/service/appointments/models"
	"github.com/m04kA/SMC-AppointmentService/internal/service/artifacts"
	"github.com/m04kA/SMC-AppointmentService/internal/testutil/memstore"
	"github.com/m04kA/SMC-AppointmentService/internal/usecase/get_available_slots"
	"github.com/m04kA/SMC-AppointmentService/pkg/clock"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

type citizenDirectory struct{}

func (citizenDirectory) GetCitizenWithGracefulDegradation(ctx context.Context, id uuid.UUID) (*userservice.User, error) {
	return &userservice.User{ID: id, FullName: "Anna Ivanova", Email: "anna@example.com"}, nil
}

type memQueue struct{ jobs []notifier.Job }

func (q *memQueue) Enqueue(ctx context.Context, job notifier.Job) error {
	q.jobs = append(q.jobs, job)
	return nil
}

func freeTimes(t *testing.T, uc *get_available_slots.UseCase, serviceID uuid.UUID) []types.TimeString {
	t.Helper()
	resp, err := uc.Execute(context.Background(), &get_available_slots.Request{ServiceID: serviceID, Date: friday})
	require.NoError(t, err)
	out := make([]types.TimeString, 0, len(resp.Slots))
	for _, s := range resp.Slots {
		out = append(out, s.StartTime)
	}
	return out
}

// Запись -> слот пропадает из доступных -> отмена -> слот снова доступен
func TestFlow_BookCancelRebook(t *testing.T) {
	store := memstore.New()
	svc, _ := store.Seed()
	clk := clock.Fixed{T: now}
	queue := &memQueue{}

	issuer := artifacts.NewService(store, citizenDirectory{}, queue, nil, time.Second, memstore.NopLogger{})
	book := NewUseCase(store, store, issuer, memstore.TxManager{}, clk, nil, "APT", time.Second, memstore.NopLogger{})
	available := get_available_slots.NewUseCase(store, store, clk, time.Second, memstore.NopLogger{})
	lifecycle := appointments.NewService(store, nil, clk, nil, time.Second, memstore.NopLogger{})

	require.Contains(t, freeTimes(t, available, svc.ID), types.TimeString("10:00"))

	citizen := domain.Actor{ID: uuid.New(), Role: domain.RoleCitizen}
	resp, err := book.Execute(context.Background(), &Request{CitizenID: citizen.ID, ServiceID: svc.ID, Date: friday, Time: "10:00"})
	require.NoError(t, err)
	issuer.Wait()

	payload, err := artifacts.DecodePayload(resp.Appointment.QRPayload)
	require.NoError(t, err)
	assert.Equal(t, "Anna Ivanova", payload.CitizenName)
	assert.Equal(t, resp.Appointment.AppointmentNumber, payload.AppointmentNumber)
	require.Len(t, queue.jobs, 1)

	assert.NotContains(t, freeTimes(t, available, svc.ID), types.TimeString("10:00"))

	stored, err := lifecycle.Get(context.Background(), resp.Appointment.ID, citizen)
	require.NoError(t, err)
	assert.Equal(t, resp.Appointment.QRPayload, stored.QRPayload)
	require.Len(t, stored.Notifications, 1)
	assert.Equal(t, domain.NotificationQueued, stored.Notifications[0].Status)

	_, err = lifecycle.Cancel(context.Background(), resp.Appointment.ID, citizen, &models.CancelRequest{CancellationReason: "cannot come"})
	require.NoError(t, err)

	assert.Contains(t, freeTimes(t, available, svc.ID), types.TimeString("10:00"))

	_, err = book.Execute(context.Background(), &Request{CitizenID: uuid.New(), ServiceID: svc.ID, Date: friday, Time: "10:00"})
	require.NoError(t, err)
	issuer.Wait()
}
