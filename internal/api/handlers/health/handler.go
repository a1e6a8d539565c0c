package health

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
)

type Handler struct {
	checks  map[string]Pinger
	timeout time.Duration
	logger  Logger
}

func NewHandler(checks map[string]Pinger, timeout time.Duration, logger Logger) *Handler {
	return &Handler{
		checks:  checks,
		timeout: timeout,
		logger:  logger,
	}
}

// Handle GET /health
// 200 если все зависимости отвечают, иначе 503
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	resp := Response{Status: statusOK, Dependencies: make(map[string]string, len(names))}
	for _, name := range names {
		if err := h.checks[name].Ping(ctx); err != nil {
			h.logger.Warn("GET /health - %s is unavailable: %v", name, err)
			resp.Dependencies[name] = statusDegraded
			resp.Status = statusDegraded
			continue
		}
		resp.Dependencies[name] = statusOK
	}

	status := http.StatusOK
	if resp.Status != statusOK {
		status = http.StatusServiceUnavailable
	}
	handlers.RespondJSON(w, status, resp)
}
