package artifacts

import (
	"bytes"
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samplePayload() CheckInPayload {
	return CheckInPayload{
		AppointmentNumber: "APT-20261015-A1B2C3",
		CitizenName:       "Ivan Petrov",
		Service:           "Passport renewal",
		Department:        "Central office",
		Date:              "2026-10-20",
		Time:              "09:30",
	}
}

func TestPayload_EncodeDecode(t *testing.T) {
	s, err := EncodePayload(samplePayload())
	require.NoError(t, err)
	assert.Contains(t, s, `"appointmentNumber":"APT-20261015-A1B2C3"`)

	got, err := DecodePayload(s)
	require.NoError(t, err)
	assert.Equal(t, samplePayload(), got)
}

func TestDecodePayload_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"not json", "APT-1"},
		{"missing fields", `{"appointmentNumber":"APT-1"}`},
		{"unknown field", `{"appointmentNumber":"A","citizenName":"B","service":"C","department":"D","date":"E","time":"F","extra":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodePayload(tt.input)
			assert.ErrorIs(t, err, ErrInvalidPayload)
		})
	}
}

func TestRender_PNG(t *testing.T) {
	s, err := EncodePayload(samplePayload())
	require.NoError(t, err)

	png, err := Render(s)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, []byte("\x89PNG")))

	url, err := DataURL(s)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(url, "data:image/png;base64,"))

	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(url, "data:image/png;base64,"))
	require.NoError(t, err)
	assert.Equal(t, png, raw)
}

func TestRender_Empty(t *testing.T) {
	_, err := Render("")
	assert.ErrorIs(t, err, ErrRender)
}
