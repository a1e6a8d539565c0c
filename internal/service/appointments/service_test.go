package appointments

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/userservice"
	"github.com/m04kA/SMC-AppointmentService/internal/service/appointments/models"
	"github.com/m04kA/SMC-AppointmentService/internal/testutil/memstore"
	"github.com/m04kA/SMC-AppointmentService/pkg/clock"
	"github.com/m04kA/SMC-AppointmentService/pkg/ptr"
)

var now = time.Date(2026, 10, 15, 10, 0, 0, 0, time.UTC)

type stubUsers struct {
	users map[uuid.UUID]*userservice.User
}

func (s *stubUsers) GetOfficer(ctx context.Context, id uuid.UUID) (*userservice.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, userservice.ErrUserNotFound
	}
	if u.Role != "officer" && u.Role != "admin" {
		return nil, userservice.ErrNotOfficer
	}
	return u, nil
}

type transitions map[string]int

func (t transitions) ObserveTransition(status string) { t[status]++ }

type env struct {
	svc     *Service
	store   *memstore.Store
	users   *stubUsers
	metrics transitions

	deptID  uuid.UUID
	citizen domain.Actor
	officer domain.Actor
	admin   domain.Actor
}

func newEnv(t *testing.T) *env {
	t.Helper()

	e := &env{
		store:   memstore.New(),
		users:   &stubUsers{users: map[uuid.UUID]*userservice.User{}},
		metrics: transitions{},
		deptID:  uuid.New(),
	}
	e.citizen = domain.Actor{ID: uuid.New(), Role: domain.RoleCitizen}
	e.officer = domain.Actor{ID: uuid.New(), Role: domain.RoleOfficer, DepartmentID: ptr.Ptr(e.deptID)}
	e.admin = domain.Actor{ID: uuid.New(), Role: domain.RoleAdmin}
	e.svc = NewService(e.store, e.users, clock.Fixed{T: now}, e.metrics, time.Second, memstore.NopLogger{})
	return e
}

func (e *env) put(status domain.AppointmentStatus, date time.Time) *domain.Appointment {
	a := &domain.Appointment{
		ID:                uuid.New(),
		AppointmentNumber: "APT-" + uuid.NewString()[:8],
		CitizenID:         e.citizen.ID,
		ServiceID:         uuid.New(),
		DepartmentID:      e.deptID,
		AppointmentDate:   domain.DateOnly(date),
		AppointmentTime:   "09:00",
		Status:            status,
	}
	e.store.Put(a)
	return a
}

func TestGet_Access(t *testing.T) {
	e := newEnv(t)
	a := e.put(domain.StatusPending, now)

	_, err := e.svc.Get(context.Background(), a.ID, e.citizen)
	require.NoError(t, err)

	_, err = e.svc.Get(context.Background(), a.ID, e.officer)
	require.NoError(t, err)

	stranger := domain.Actor{ID: uuid.New(), Role: domain.RoleCitizen}
	_, err = e.svc.Get(context.Background(), a.ID, stranger)
	assert.ErrorIs(t, err, domain.ErrAuthorization)

	otherOfficer := domain.Actor{ID: uuid.New(), Role: domain.RoleOfficer, DepartmentID: ptr.Ptr(uuid.New())}
	_, err = e.svc.Get(context.Background(), a.ID, otherOfficer)
	assert.ErrorIs(t, err, domain.ErrAuthorization)

	_, err = e.svc.Get(context.Background(), uuid.New(), e.citizen)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGet_HidesInternalNotesFromCitizen(t *testing.T) {
	e := newEnv(t)
	a := e.put(domain.StatusPending, now)
	require.NoError(t, e.store.UpdateNotes(context.Background(), a.ID, ptr.Ptr("bring form"), ptr.Ptr("flagged")))

	resp, err := e.svc.Get(context.Background(), a.ID, e.citizen)
	require.NoError(t, err)
	assert.Equal(t, "bring form", resp.Notes.Officer)
	assert.Empty(t, resp.Notes.Internal)

	resp, err = e.svc.Get(context.Background(), a.ID, e.officer)
	require.NoError(t, err)
	assert.Equal(t, "flagged", resp.Notes.Internal)
}

func TestGetCheckInQR(t *testing.T) {
	e := newEnv(t)
	a := e.put(domain.StatusPending, now)

	_, err := e.svc.GetCheckInQR(context.Background(), a.ID, e.citizen)
	assert.ErrorIs(t, err, ErrQRNotIssued)

	require.NoError(t, e.store.SetQRPayload(context.Background(), a.ID, `{"appointmentNumber":"APT-1"}`))
	png, err := e.svc.GetCheckInQR(context.Background(), a.ID, e.citizen)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, []byte("\x89PNG")))
}

func TestListMine(t *testing.T) {
	e := newEnv(t)
	e.put(domain.StatusPending, now)
	e.put(domain.StatusCancelled, now.AddDate(0, 0, 1))
	e.store.Put(&domain.Appointment{ID: uuid.New(), AppointmentNumber: "APT-other", CitizenID: uuid.New(), Status: domain.StatusPending})

	resp, err := e.svc.ListMine(context.Background(), e.citizen, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Total)

	resp, err = e.svc.ListMine(context.Background(), e.citizen, ptr.Ptr("cancelled"))
	require.NoError(t, err)
	require.Equal(t, 1, resp.Total)
	assert.Equal(t, "cancelled", resp.Appointments[0].Status)

	_, err = e.svc.ListMine(context.Background(), e.citizen, ptr.Ptr("archived"))
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = e.svc.ListMine(context.Background(), e.officer, nil)
	assert.ErrorIs(t, err, domain.ErrAuthorization)
}

func TestSearch_DepartmentScope(t *testing.T) {
	e := newEnv(t)
	e.put(domain.StatusPending, now)
	e.store.Put(&domain.Appointment{
		ID: uuid.New(), AppointmentNumber: "APT-X", DepartmentID: uuid.New(),
		AppointmentDate: domain.DateOnly(now), AppointmentTime: "10:00", Status: domain.StatusPending,
	})

	resp, err := e.svc.Search(context.Background(), e.officer, &models.SearchRequest{})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Total)

	resp, err = e.svc.Search(context.Background(), e.admin, &models.SearchRequest{})
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Total)

	foreign := uuid.New()
	_, err = e.svc.Search(context.Background(), e.officer, &models.SearchRequest{DepartmentID: &foreign})
	assert.ErrorIs(t, err, domain.ErrAuthorization)

	_, err = e.svc.Search(context.Background(), e.citizen, &models.SearchRequest{})
	assert.ErrorIs(t, err, domain.ErrAuthorization)

	resp, err = e.svc.Search(context.Background(), e.admin, &models.SearchRequest{Search: "APT-X"})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Total)
}

func TestSearch_InvalidRange(t *testing.T) {
	e := newEnv(t)
	from, to := now, now.AddDate(0, 0, -1)
	_, err := e.svc.Search(context.Background(), e.admin, &models.SearchRequest{From: &from, To: &to})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestCancel(t *testing.T) {
	e := newEnv(t)
	a := e.put(domain.StatusConfirmed, now.AddDate(0, 0, 2))

	resp, err := e.svc.Cancel(context.Background(), a.ID, e.citizen, &models.CancelRequest{CancellationReason: "sick"})
	require.NoError(t, err)
	assert.Equal(t, "cancelled", resp.Status)
	require.NotNil(t, resp.CancellationReason)
	assert.Equal(t, "sick", *resp.CancellationReason)
	assert.NotNil(t, resp.CancelledAt)
	assert.Equal(t, 1, e.metrics["cancelled"])
}

func TestCancel_Guards(t *testing.T) {
	e := newEnv(t)

	past := e.put(domain.StatusPending, now.AddDate(0, 0, -1))
	_, err := e.svc.Cancel(context.Background(), past.ID, e.citizen, &models.CancelRequest{CancellationReason: "x"})
	assert.ErrorIs(t, err, domain.ErrCancelPast)

	done := e.put(domain.StatusCompleted, now)
	_, err = e.svc.Cancel(context.Background(), done.ID, e.citizen, &models.CancelRequest{CancellationReason: "x"})
	assert.ErrorIs(t, err, domain.ErrNotCancellable)

	today := e.put(domain.StatusPending, now)
	_, err = e.svc.Cancel(context.Background(), today.ID, e.citizen, &models.CancelRequest{CancellationReason: "  "})
	assert.ErrorIs(t, err, domain.ErrReasonRequired)

	_, err = e.svc.Cancel(context.Background(), today.ID, e.officer, &models.CancelRequest{CancellationReason: "x"})
	assert.ErrorIs(t, err, domain.ErrAuthorization)
}

func TestUpdateStatus(t *testing.T) {
	e := newEnv(t)
	a := e.put(domain.StatusPending, now)

	resp, err := e.svc.UpdateStatus(context.Background(), a.ID, e.officer, &models.UpdateStatusRequest{
		Status:       "confirmed",
		OfficerNotes: ptr.Ptr("documents checked"),
	})
	require.NoError(t, err)
	assert.Equal(t, "confirmed", resp.Status)
	assert.Equal(t, "documents checked", resp.Notes.Officer)
	assert.Equal(t, 1, e.metrics["confirmed"])

	_, err = e.svc.UpdateStatus(context.Background(), a.ID, e.officer, &models.UpdateStatusRequest{Status: "confirmed"})
	assert.ErrorIs(t, err, domain.ErrSameStatus)

	_, err = e.svc.UpdateStatus(context.Background(), a.ID, e.officer, &models.UpdateStatusRequest{Status: "rescheduled"})
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)

	_, err = e.svc.UpdateStatus(context.Background(), a.ID, e.officer, &models.UpdateStatusRequest{Status: "bogus"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = e.svc.UpdateStatus(context.Background(), a.ID, e.citizen, &models.UpdateStatusRequest{Status: "completed"})
	assert.ErrorIs(t, err, domain.ErrAuthorization)
}

func TestUpdateStatus_KeepsCitizenCancellationReason(t *testing.T) {
	e := newEnv(t)
	a := e.put(domain.StatusPending, now.AddDate(0, 0, 1))

	_, err := e.svc.Cancel(context.Background(), a.ID, e.citizen, &models.CancelRequest{CancellationReason: "moving away"})
	require.NoError(t, err)

	_, err = e.svc.UpdateStatus(context.Background(), a.ID, e.admin, &models.UpdateStatusRequest{Status: "no_show"})
	require.NoError(t, err)
	resp, err := e.svc.UpdateStatus(context.Background(), a.ID, e.admin, &models.UpdateStatusRequest{Status: "cancelled", Reason: "staff reason"})
	require.NoError(t, err)

	require.NotNil(t, resp.CancellationReason)
	assert.Equal(t, "moving away", *resp.CancellationReason)
}

func TestUpdateStatus_ReactivationConflict(t *testing.T) {
	e := newEnv(t)
	cancelled := e.put(domain.StatusCancelled, now)
	taken := e.put(domain.StatusPending, now)
	taken.ServiceID = cancelled.ServiceID
	e.store.Put(taken)

	_, err := e.svc.UpdateStatus(context.Background(), cancelled.ID, e.officer, &models.UpdateStatusRequest{Status: "pending"})
	assert.ErrorIs(t, err, domain.ErrSlotConflict)
}

func TestAssignIfUnassigned(t *testing.T) {
	e := newEnv(t)
	a := e.put(domain.StatusPending, now)

	assigned, err := e.svc.AssignIfUnassigned(context.Background(), a.ID, e.officer)
	require.NoError(t, err)
	assert.True(t, assigned)

	second := domain.Actor{ID: uuid.New(), Role: domain.RoleOfficer, DepartmentID: ptr.Ptr(e.deptID)}
	assigned, err = e.svc.AssignIfUnassigned(context.Background(), a.ID, second)
	require.NoError(t, err)
	assert.False(t, assigned)

	got, err := e.store.GetByID(context.Background(), a.ID)
	require.NoError(t, err)
	assert.Equal(t, e.officer.ID, *got.AssignedOfficerID)

	assigned, err = e.svc.AssignIfUnassigned(context.Background(), a.ID, e.admin)
	require.NoError(t, err)
	assert.False(t, assigned)
}

func TestAssignOfficer(t *testing.T) {
	e := newEnv(t)
	a := e.put(domain.StatusPending, now)

	inDept := uuid.New()
	outDept := uuid.New()
	citizen := uuid.New()
	e.users.users[inDept] = &userservice.User{ID: inDept, Role: "officer", DepartmentID: ptr.Ptr(e.deptID)}
	e.users.users[outDept] = &userservice.User{ID: outDept, Role: "officer", DepartmentID: ptr.Ptr(uuid.New())}
	e.users.users[citizen] = &userservice.User{ID: citizen, Role: "citizen"}

	resp, err := e.svc.AssignOfficer(context.Background(), a.ID, e.officer, inDept)
	require.NoError(t, err)
	require.NotNil(t, resp.AssignedOfficerID)
	assert.Equal(t, inDept.String(), *resp.AssignedOfficerID)

	_, err = e.svc.AssignOfficer(context.Background(), a.ID, e.admin, outDept)
	assert.ErrorIs(t, err, domain.ErrOfficerDepartment)

	_, err = e.svc.AssignOfficer(context.Background(), a.ID, e.admin, citizen)
	assert.ErrorIs(t, err, ErrNotOfficer)

	_, err = e.svc.AssignOfficer(context.Background(), a.ID, e.admin, uuid.New())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdateNotes(t *testing.T) {
	e := newEnv(t)
	a := e.put(domain.StatusPending, now)

	resp, err := e.svc.UpdateNotes(context.Background(), a.ID, e.officer, &models.UpdateNotesRequest{Internal: ptr.Ptr("vip")})
	require.NoError(t, err)
	assert.Equal(t, "vip", resp.Notes.Internal)

	_, err = e.svc.UpdateNotes(context.Background(), a.ID, e.officer, &models.UpdateNotesRequest{})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = e.svc.UpdateNotes(context.Background(), a.ID, e.citizen, &models.UpdateNotesRequest{Officer: ptr.Ptr("x")})
	assert.ErrorIs(t, err, domain.ErrAuthorization)
}

func TestSubmitFeedback(t *testing.T) {
	e := newEnv(t)
	a := e.put(domain.StatusCompleted, now)

	resp, err := e.svc.SubmitFeedback(context.Background(), a.ID, e.citizen, &models.FeedbackRequest{Rating: 5, Comment: "fast"})
	require.NoError(t, err)
	require.NotNil(t, resp.Feedback)
	assert.Equal(t, 5, resp.Feedback.Rating)
	assert.Equal(t, now, resp.Feedback.SubmittedAt)

	_, err = e.svc.SubmitFeedback(context.Background(), a.ID, e.citizen, &models.FeedbackRequest{Rating: 4})
	assert.ErrorIs(t, err, domain.ErrAlreadyExists)
}

func TestSubmitFeedback_Guards(t *testing.T) {
	e := newEnv(t)

	pending := e.put(domain.StatusPending, now)
	_, err := e.svc.SubmitFeedback(context.Background(), pending.ID, e.citizen, &models.FeedbackRequest{Rating: 5})
	assert.ErrorIs(t, err, domain.ErrNotCompleted)

	done := e.put(domain.StatusCompleted, now)
	for _, rating := range []int{0, 6} {
		_, err = e.svc.SubmitFeedback(context.Background(), done.ID, e.citizen, &models.FeedbackRequest{Rating: rating})
		assert.ErrorIs(t, err, domain.ErrInvalidRating)
	}

	stranger := domain.Actor{ID: uuid.New(), Role: domain.RoleCitizen}
	_, err = e.svc.SubmitFeedback(context.Background(), done.ID, stranger, &models.FeedbackRequest{Rating: 5})
	assert.ErrorIs(t, err, domain.ErrNotOwner)
}
