package service

import (
	"errors"
	"testing"
	"time"

	"github.com/Freeeeeet/testdrive_bot/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultWindow(t *testing.T) window {
	t.Helper()
	w, err := parseWindow(model.DefaultSettings().BusinessHours)
	require.NoError(t, err)
	return w
}

func TestWindowValidate(t *testing.T) {
	w := defaultWindow(t)
	today := time.Date(2025, 6, 2, 15, 0, 0, 0, time.Local)

	tests := []struct {
		name    string
		date    string
		clock   string
		wantErr error
	}{
		{name: "opening time", date: "2025-06-03", clock: "09:00"},
		{name: "today is allowed", date: "2025-06-02", clock: "10:30"},
		{name: "end of hours is inclusive", date: "2025-06-03", clock: "18:00"},
		{name: "past date", date: "2025-06-01", clock: "10:00", wantErr: ErrPastDate},
		{name: "before opening", date: "2025-06-03", clock: "08:30", wantErr: ErrOutOfHours},
		{name: "after closing", date: "2025-06-03", clock: "18:30", wantErr: ErrOutOfHours},
		{name: "malformed date", date: "06/03/2025", clock: "10:00", wantErr: ErrMalformedInput},
		{name: "impossible date", date: "2025-02-30", clock: "10:00", wantErr: ErrMalformedInput},
		{name: "malformed time", date: "2025-06-03", clock: "2pm", wantErr: ErrMalformedInput},
		{name: "single digit hour", date: "2025-06-03", clock: "9:00", wantErr: ErrMalformedInput},
		{name: "off grid", date: "2025-06-03", clock: "10:15", wantErr: ErrMalformedInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := w.validate(today, tt.date, tt.clock)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)

			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.NotEmpty(t, verr.Message)
		})
	}
}

func TestWindowValidateMessages(t *testing.T) {
	w := defaultWindow(t)
	today := time.Date(2025, 6, 2, 9, 0, 0, 0, time.Local)

	err := w.validate(today, "2025-06-01", "10:00")
	assert.Equal(t, "Cannot book test drives for past dates.", Reason(err))

	err = w.validate(today, "2025-06-03", "08:30")
	assert.Equal(t, "Bookings are only available between 09:00 and 18:00.", Reason(err))
}

func TestWindowGrid(t *testing.T) {
	grid := defaultWindow(t).grid()

	require.Len(t, grid, 18)
	assert.Equal(t, "09:00", grid[0])
	assert.Equal(t, "09:30", grid[1])
	assert.Equal(t, "17:30", grid[17])
	assert.NotContains(t, grid, "18:00")
}

func TestParseWindowRejectsBadHours(t *testing.T) {
	_, err := parseWindow(model.BusinessHours{Start: "18:00", End: "09:00", SlotGranularityMinutes: 30})
	assert.Error(t, err)

	_, err = parseWindow(model.BusinessHours{Start: "09:00", End: "18:00"})
	assert.Error(t, err)
}

func TestParseClock(t *testing.T) {
	minutes, err := ParseClock("14:30")
	require.NoError(t, err)
	assert.Equal(t, 14*60+30, minutes)
	assert.Equal(t, "14:30", FormatClock(minutes))

	_, err = ParseClock("24:00")
	assert.Error(t, err)
}
