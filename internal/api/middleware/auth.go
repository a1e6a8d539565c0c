package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

const (
	msgMissingToken = "отсутствует токен авторизации"
	msgInvalidToken = "некорректный токен авторизации"
)

type actorKey struct{}

var (
	// ErrInvalidClaims возвращается, когда в токене нет корректных sub/role
	ErrInvalidClaims = errors.New("auth: invalid token claims")
)

// Claims полезная нагрузка токена
type Claims struct {
	Role         string `json:"role"`
	DepartmentID string `json:"department_id,omitempty"`
	jwt.RegisteredClaims
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Authenticator проверяет Bearer токены, подписанные HMAC
type Authenticator struct {
	secret []byte
	issuer string
	logger Logger
}

// NewAuthenticator создает проверку токенов. Пустой issuer не проверяется.
func NewAuthenticator(secret, issuer string, logger Logger) *Authenticator {
	return &Authenticator{secret: []byte(secret), issuer: issuer, logger: logger}
}

// Middleware кладет domain.Actor из токена в контекст запроса
func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || raw == "" {
			a.logger.Warn("Auth: missing bearer token for %s %s", r.Method, r.URL.Path)
			handlers.RespondUnauthorized(w, msgMissingToken)
			return
		}

		actor, err := a.Parse(raw)
		if err != nil {
			a.logger.Warn("Auth: rejected token for %s %s: %v", r.Method, r.URL.Path, err)
			handlers.RespondUnauthorized(w, msgInvalidToken)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), actor)))
	})
}

// Parse проверяет подпись и срок действия токена и возвращает actor
func (a *Authenticator) Parse(raw string) (domain.Actor, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if a.issuer != "" {
		opts = append(opts, jwt.WithIssuer(a.issuer))
	}

	var claims Claims
	_, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (interface{}, error) {
		return a.secret, nil
	}, opts...)
	if err != nil {
		return domain.Actor{}, err
	}

	return claims.Actor()
}

// Issue подписывает токен для actor (используется CLI и тестами)
func (a *Authenticator) Issue(actor domain.Actor, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Role: string(actor.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   actor.ID.String(),
			Issuer:    a.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	if actor.DepartmentID != nil {
		claims.DepartmentID = actor.DepartmentID.String()
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
}

// Actor собирает domain.Actor из claims
func (c Claims) Actor() (domain.Actor, error) {
	id, err := uuid.Parse(c.Subject)
	if err != nil {
		return domain.Actor{}, fmt.Errorf("%w: sub: %v", ErrInvalidClaims, err)
	}

	role := domain.Role(c.Role)
	if !role.IsValid() {
		return domain.Actor{}, fmt.Errorf("%w: role %q", ErrInvalidClaims, c.Role)
	}

	actor := domain.Actor{ID: id, Role: role}
	if c.DepartmentID != "" {
		deptID, err := uuid.Parse(c.DepartmentID)
		if err != nil {
			return domain.Actor{}, fmt.Errorf("%w: department_id: %v", ErrInvalidClaims, err)
		}
		actor.DepartmentID = &deptID
	}
	if role == domain.RoleOfficer && actor.DepartmentID == nil {
		return domain.Actor{}, fmt.Errorf("%w: officer without department", ErrInvalidClaims)
	}

	return actor, nil
}

// WithActor кладет actor в контекст
func WithActor(ctx context.Context, actor domain.Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

// GetActor достает actor из контекста
func GetActor(ctx context.Context) (domain.Actor, bool) {
	actor, ok := ctx.Value(actorKey{}).(domain.Actor)
	return actor, ok
}
