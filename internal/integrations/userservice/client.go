package userservice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Client клиент для работы с UserService
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента UserService
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// GetUser получает пользователя по ID
func (c *Client) GetUser(ctx context.Context, userID uuid.UUID) (*User, error) {
	url := fmt.Sprintf("%s/internal/users/%s", c.baseURL, userID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusBadRequest:
		return nil, fmt.Errorf("%w: invalid user ID format", ErrInvalidResponse)
	case http.StatusNotFound:
		return nil, ErrUserNotFound
	default:
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}

	var user User
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	return &user, nil
}

// GetOfficer получает сотрудника. Пользователь без роли officer/admin даёт ErrNotOfficer.
func (c *Client) GetOfficer(ctx context.Context, officerID uuid.UUID) (*User, error) {
	user, err := c.GetUser(ctx, officerID)
	if err != nil {
		return nil, err
	}
	if user.Role != "officer" && user.Role != "admin" {
		return nil, ErrNotOfficer
	}
	return user, nil
}

// GetCitizenWithGracefulDegradation получает гражданина для уведомления и QR.
// При недоступности UserService возвращает ErrServiceDegraded: запись все равно
// создается, а имя подставляется из ID.
func (c *Client) GetCitizenWithGracefulDegradation(ctx context.Context, citizenID uuid.UUID) (*User, error) {
	user, err := c.GetUser(ctx, citizenID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			c.log.Warn("GetCitizen: citizen id=%s not found in UserService", citizenID)
			return nil, err
		}

		c.log.Error("UserService unavailable, applying graceful degradation for citizen id=%s: %v", citizenID, err)
		return nil, fmt.Errorf("%w: citizen_id=%s, error=%v", ErrServiceDegraded, citizenID, err)
	}

	return user, nil
}
