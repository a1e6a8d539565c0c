package search_appointments

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/service/appointments/models"
	"github.com/m04kA/SMC-AppointmentService/pkg/ptr"
)

// ParseQuery собирает запрос поиска из query параметров.
// Query params: departmentId, status, from, to (YYYY-MM-DD), search, limit, offset
func ParseQuery(q url.Values) (*models.SearchRequest, error) {
	req := &models.SearchRequest{
		Search: q.Get("search"),
	}

	if s := q.Get("departmentId"); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			return nil, fmt.Errorf("departmentId: %w", err)
		}
		req.DepartmentID = &id
	}
	if s := q.Get("status"); s != "" {
		req.Status = ptr.Ptr(s)
	}
	if s := q.Get("from"); s != "" {
		d, err := domain.ParseDate(s)
		if err != nil {
			return nil, fmt.Errorf("from: %w", err)
		}
		req.From = &d
	}
	if s := q.Get("to"); s != "" {
		d, err := domain.ParseDate(s)
		if err != nil {
			return nil, fmt.Errorf("to: %w", err)
		}
		req.To = &d
	}
	if s := q.Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return nil, fmt.Errorf("limit: %w", err)
		}
		req.Limit = n
	}
	if s := q.Get("offset"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return nil, fmt.Errorf("offset: %w", err)
		}
		req.Offset = n
	}

	return req, nil
}
