package model

import (
	"testing"
	"time"
)

func TestCodeValidate(t *testing.T) {
	tests := []struct {
		name    string
		code    Code
		wantErr bool
	}{
		{
			name: "valid windowed code",
			code: Code{ID: "JRD", Description: "Day shift", StartTime: "08:00", EndTime: "16:00"},
		},
		{
			name: "valid duration-only code",
			code: Code{ID: "RH", Description: "Rest", Duration: 0},
		},
		{
			name:    "missing identifier",
			code:    Code{Description: "Day shift"},
			wantErr: true,
		},
		{
			name:    "missing description",
			code:    Code{ID: "JRD"},
			wantErr: true,
		},
		{
			name:    "malformed start time",
			code:    Code{ID: "JRD", Description: "x", StartTime: "8am", EndTime: "16:00"},
			wantErr: true,
		},
		{
			name:    "out of range clock",
			code:    Code{ID: "JRD", Description: "x", StartTime: "25:00", EndTime: "16:00"},
			wantErr: true,
		},
		{
			name:    "start without end",
			code:    Code{ID: "JRD", Description: "x", StartTime: "08:00"},
			wantErr: true,
		},
		{
			name:    "negative duration",
			code:    Code{ID: "RH", Description: "x", Duration: -1},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.code.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestNormalizeCodeID(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{" jrd ", "JRD"},
		{"N12", "N12"},
		{"", ""},
		{"  ", ""},
	}

	for _, tt := range tests {
		if got := NormalizeCodeID(tt.in); got != tt.want {
			t.Errorf("NormalizeCodeID(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCodeWindow(t *testing.T) {
	loc := time.UTC

	tests := []struct {
		name      string
		code      Code
		wantStart time.Time
		wantEnd   time.Time
	}{
		{
			name:      "plain day window",
			code:      Code{ID: "JRD", StartTime: "08:00", EndTime: "16:00"},
			wantStart: time.Date(2025, time.March, 5, 8, 0, 0, 0, loc),
			wantEnd:   time.Date(2025, time.March, 5, 16, 0, 0, 0, loc),
		},
		{
			name:      "window wrapping midnight rolls to next day",
			code:      Code{ID: "N12", StartTime: "22:00", EndTime: "06:00"},
			wantStart: time.Date(2025, time.March, 5, 22, 0, 0, 0, loc),
			wantEnd:   time.Date(2025, time.March, 6, 6, 0, 0, 0, loc),
		},
		{
			name:      "overnight flag forces the roll on equal clocks",
			code:      Code{ID: "X24", StartTime: "08:00", EndTime: "08:00", Overnight: true},
			wantStart: time.Date(2025, time.March, 5, 8, 0, 0, 0, loc),
			wantEnd:   time.Date(2025, time.March, 6, 8, 0, 0, 0, loc),
		},
		{
			name:      "duration-only code anchors at nine",
			code:      Code{ID: "D6", Duration: 6},
			wantStart: time.Date(2025, time.March, 5, 9, 0, 0, 0, loc),
			wantEnd:   time.Date(2025, time.March, 5, 15, 0, 0, 0, loc),
		},
		{
			name:      "zero-duration code gets the default window",
			code:      Code{ID: "RH"},
			wantStart: time.Date(2025, time.March, 5, 9, 0, 0, 0, loc),
			wantEnd:   time.Date(2025, time.March, 5, 17, 0, 0, 0, loc),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := tt.code.Window(2025, time.March, 5, loc)
			if !start.Equal(tt.wantStart) {
				t.Errorf("start = %v, want %v", start, tt.wantStart)
			}
			if !end.Equal(tt.wantEnd) {
				t.Errorf("end = %v, want %v", end, tt.wantEnd)
			}
		})
	}
}

func TestDurationAnchorFollowsDefaultStart(t *testing.T) {
	h, m := mustClock(DefaultStartTime)
	code := Code{ID: "D6", Duration: 6}

	start, end := code.Window(2025, time.March, 5, time.UTC)
	if start.Hour() != h || start.Minute() != m {
		t.Errorf("start anchor = %02d:%02d, want %s", start.Hour(), start.Minute(), DefaultStartTime)
	}
	if got := end.Sub(start); got != 6*time.Hour {
		t.Errorf("window length = %v, want 6h", got)
	}
}
