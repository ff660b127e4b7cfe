package ui

import (
	"testing"
	"time"
)

func TestFormatTimeRel(t *testing.T) {
	now := time.Now()
	tests := []struct {
		name string
		t    time.Time
		want string
	}{
		{"zero", time.Time{}, "unknown"},
		{"future", now.Add(time.Hour), "now"},
		{"seconds", now.Add(-30 * time.Second), "now"},
		{"minutes", now.Add(-5 * time.Minute), "5m ago"},
		{"hours", now.Add(-3 * time.Hour), "3h ago"},
		{"days", now.Add(-48 * time.Hour), "2d ago"},
		{"weeks", now.Add(-8 * 24 * time.Hour), "1w ago"},
		{"months", now.Add(-65 * 24 * time.Hour), "2mo ago"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatTimeRel(tt.t); got != tt.want {
				t.Errorf("FormatTimeRel = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{950, "950"},
		{0, "0"},
		{999, "999"},
		{1000, "1.0K"},
		{14500, "14.5K"},
		{999999, "1000.0K"},
		{2300000, "2.3M"},
	}
	for _, tt := range tests {
		if got := FormatAmount(tt.in); got != tt.want {
			t.Errorf("FormatAmount(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTruncateCells(t *testing.T) {
	tests := []struct {
		name  string
		s     string
		width int
		want  string
	}{
		{"fits", "abc", 5, "abc"},
		{"exact", "abcde", 5, "abcde"},
		{"truncated", "abcdefgh", 5, "abcd…"},
		{"zero width", "abc", 0, ""},
		{"wide runes", "日本語テスト", 7, "日本語…"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := truncateCells(tt.s, tt.width, "…"); got != tt.want {
				t.Errorf("truncateCells = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPadRight(t *testing.T) {
	if got := padRight("ab", 5); got != "ab   " {
		t.Errorf("padRight = %q", got)
	}
	if got := padRight("abcdef", 3); got != "abcdef" {
		t.Errorf("padRight must not cut: %q", got)
	}
}

func TestScoreBar(t *testing.T) {
	tests := []struct {
		score float64
		width int
		want  string
	}{
		{0, 6, "▱▱▱▱▱▱"},
		{1, 6, "▰▰▰▰▰▰"},
		{0.5, 6, "▰▰▰▱▱▱"},
		{1.5, 4, "▰▰▰▰"}, // clamped
		{-1, 4, "▱▱▱▱"},  // clamped
		{0.5, 0, ""},
	}
	for _, tt := range tests {
		if got := scoreBar(tt.score, tt.width); got != tt.want {
			t.Errorf("scoreBar(%v, %d) = %q, want %q", tt.score, tt.width, got, tt.want)
		}
	}
}
