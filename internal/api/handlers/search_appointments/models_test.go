package search_appointments

import (
	"net/url"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseQuery(t *testing.T) {
	dept := uuid.New()
	q := url.Values{}
	q.Set("departmentId", dept.String())
	q.Set("status", "confirmed")
	q.Set("from", "2026-10-01")
	q.Set("to", "2026-10-31")
	q.Set("search", "APT-2026")
	q.Set("limit", "20")
	q.Set("offset", "40")

	req, err := ParseQuery(q)
	require.NoError(t, err)

	require.NotNil(t, req.DepartmentID)
	assert.Equal(t, dept, *req.DepartmentID)
	require.NotNil(t, req.Status)
	assert.Equal(t, "confirmed", *req.Status)
	require.NotNil(t, req.From)
	assert.Equal(t, "2026-10-01", req.From.Format("2006-01-02"))
	require.NotNil(t, req.To)
	assert.Equal(t, "2026-10-31", req.To.Format("2006-01-02"))
	assert.Equal(t, "APT-2026", req.Search)
	assert.Equal(t, 20, req.Limit)
	assert.Equal(t, 40, req.Offset)
}

func TestParseQuery_Empty(t *testing.T) {
	req, err := ParseQuery(url.Values{})
	require.NoError(t, err)
	assert.Nil(t, req.DepartmentID)
	assert.Nil(t, req.Status)
	assert.Nil(t, req.From)
	assert.Nil(t, req.To)
	assert.Zero(t, req.Limit)
}

func TestParseQuery_Invalid(t *testing.T) {
	for name, q := range map[string]url.Values{
		"department": {"departmentId": {"abc"}},
		"from":       {"from": {"01.10.2026"}},
		"to":         {"to": {"tomorrow"}},
		"limit":      {"limit": {"ten"}},
		"offset":     {"offset": {"-x"}},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := ParseQuery(q)
			assert.Error(t, err)
		})
	}
}
