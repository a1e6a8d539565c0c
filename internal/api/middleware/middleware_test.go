package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/logger"
)

const secret = "test-secret"

func echoActor(t *testing.T, got *domain.Actor) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, ok := GetActor(r.Context())
		require.True(t, ok)
		*got = actor
		w.WriteHeader(http.StatusNoContent)
	})
}

func TestAuth_ValidToken(t *testing.T) {
	auth := NewAuthenticator(secret, "appointments", logger.NewNop())
	deptID := uuid.New()
	officer := domain.Actor{ID: uuid.New(), Role: domain.RoleOfficer, DepartmentID: &deptID}

	token, err := auth.Issue(officer, time.Hour)
	require.NoError(t, err)

	var got domain.Actor
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	auth.Middleware(echoActor(t, &got)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, officer.ID, got.ID)
	assert.Equal(t, domain.RoleOfficer, got.Role)
	require.NotNil(t, got.DepartmentID)
	assert.Equal(t, deptID, *got.DepartmentID)
}

func TestAuth_Rejects(t *testing.T) {
	auth := NewAuthenticator(secret, "appointments", logger.NewNop())
	citizen := domain.Actor{ID: uuid.New(), Role: domain.RoleCitizen}

	expired, err := auth.Issue(citizen, -time.Minute)
	require.NoError(t, err)

	foreign, err := NewAuthenticator("other-secret", "appointments", logger.NewNop()).Issue(citizen, time.Hour)
	require.NoError(t, err)

	wrongIssuer, err := NewAuthenticator(secret, "someone-else", logger.NewNop()).Issue(citizen, time.Hour)
	require.NoError(t, err)

	badRole, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Role:             "superuser",
		RegisteredClaims: jwt.RegisteredClaims{Subject: uuid.NewString(), Issuer: "appointments"},
	}).SignedString([]byte(secret))
	require.NoError(t, err)

	officerNoDept, err := auth.Issue(domain.Actor{ID: uuid.New(), Role: domain.RoleOfficer}, time.Hour)
	require.NoError(t, err)

	tests := map[string]string{
		"missing":         "",
		"not bearer":      "Basic abc",
		"garbage":         "Bearer abc.def.ghi",
		"expired":         "Bearer " + expired,
		"foreign secret":  "Bearer " + foreign,
		"wrong issuer":    "Bearer " + wrongIssuer,
		"unknown role":    "Bearer " + badRole,
		"officer no dept": "Bearer " + officerNoDept,
	}

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not be called")
	})

	for name, header := range tests {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if header != "" {
				req.Header.Set("Authorization", header)
			}
			rec := httptest.NewRecorder()
			auth.Middleware(next).ServeHTTP(rec, req)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

type recordedHTTP struct {
	method, route string
	status        int
}

type fakeHTTPMetrics struct {
	calls []recordedHTTP
}

func (f *fakeHTTPMetrics) ObserveHTTP(method, route string, status int, d time.Duration) {
	f.calls = append(f.calls, recordedHTTP{method, route, status})
}

func TestMetrics_UsesRouteTemplate(t *testing.T) {
	m := &fakeHTTPMetrics{}
	r := mux.NewRouter()
	r.Use(Metrics(m))
	r.HandleFunc("/appointments/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}).Methods(http.MethodGet)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/appointments/"+uuid.NewString(), nil))

	require.Len(t, m.calls, 1)
	assert.Equal(t, recordedHTTP{http.MethodGet, "/appointments/{id}", http.StatusNotFound}, m.calls[0])
}

func TestLogging_RecoversPanic(t *testing.T) {
	r := mux.NewRouter()
	r.Use(Logging(logger.NewNop()))
	r.HandleFunc("/boom", func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
