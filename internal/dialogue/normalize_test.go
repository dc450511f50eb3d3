package dialogue

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeDate(t *testing.T) {
	now := time.Date(2025, 12, 31, 16, 0, 0, 0, time.Local)

	tests := []struct {
		raw  string
		want string
	}{
		{raw: "today", want: "2025-12-31"},
		{raw: "Tomorrow", want: "2026-01-01"},
		{raw: " tomorrow ", want: "2026-01-01"},
		{raw: "2026-02-14", want: "2026-02-14"},
		{raw: "next friday", want: "next friday"},
		{raw: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeDate(tt.raw, now))
		})
	}
}

func TestNormalizeTime(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{raw: "2pm", want: "14:00"},
		{raw: "2 PM", want: "14:00"},
		{raw: "11:30 am", want: "11:30"},
		{raw: "11:30 a.m.", want: "11:30"},
		{raw: "12pm", want: "12:00"},
		{raw: "12am", want: "00:00"},
		{raw: "9:05pm", want: "21:05"},
		{raw: "14:00", want: "14:00"},
		{raw: "9:30", want: "09:30"},
		{raw: " 0:00", want: "00:00"},
		{raw: "9:75", want: "9:75"},
		{raw: "13pm", want: "13pm"},
		{raw: "noon", want: "noon"},
		{raw: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeTime(tt.raw))
		})
	}
}
