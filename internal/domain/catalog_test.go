package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkingHours_IntervalFor(t *testing.T) {
	var wh WorkingHours
	wh[time.Monday] = DaySchedule{IsOpen: true, Start: "09:00", End: "17:00"}
	wh[time.Tuesday] = DaySchedule{IsOpen: false, Start: "09:00", End: "17:00"}
	wh[time.Wednesday] = DaySchedule{IsOpen: true, Start: "", End: "17:00"}
	wh[time.Thursday] = DaySchedule{IsOpen: true, Start: "18:00", End: "09:00"}

	monday := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)

	interval, ok := wh.IntervalFor(monday)
	require.True(t, ok)
	assert.Equal(t, Interval{Start: 9 * 60, End: 17 * 60}, interval)
	assert.Equal(t, 480, interval.Minutes())

	for _, offset := range []int{1, 2, 3, 5, 6} {
		_, ok := wh.IntervalFor(monday.AddDate(0, 0, offset))
		assert.False(t, ok, "weekday %s must be closed", monday.AddDate(0, 0, offset).Weekday())
	}
}

func TestWorkingHours_JSON(t *testing.T) {
	raw := `{
		"Monday": {"isOpen": true, "start": "08:30", "end": "12:00"},
		"saturday": {"isOpen": false},
		"holiday": {"isOpen": true, "start": "10:00", "end": "11:00"},
		"friday": "garbage"
	}`

	var wh WorkingHours
	require.NoError(t, json.Unmarshal([]byte(raw), &wh))

	assert.Equal(t, DaySchedule{IsOpen: true, Start: "08:30", End: "12:00"}, wh.Day(time.Monday))
	assert.False(t, wh.Day(time.Friday).IsOpen)
	assert.False(t, wh.Day(time.Sunday).IsOpen)

	data, err := json.Marshal(wh)
	require.NoError(t, err)

	var back WorkingHours
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, wh, back)
}

func TestParseWeekday(t *testing.T) {
	d, ok := ParseWeekday(" WEDNESDAY ")
	assert.True(t, ok)
	assert.Equal(t, time.Wednesday, d)

	_, ok = ParseWeekday("wed")
	assert.False(t, ok)
}

func TestNewSlot(t *testing.T) {
	s := NewSlot("09:00", "09:30")
	assert.Equal(t, "09:00 - 09:30", s.DisplayLabel)
}
