// Package model defines the core domain types shared across the application.
package model

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// timeOfDayPattern matches HH:MM clock times (24h).
var timeOfDayPattern = regexp.MustCompile(`^([01]?\d|2[0-3]):[0-5]\d$`)

// Code represents a single shift or absence type in the registry.
//
// A code either carries a concrete time window (StartTime/EndTime, HH:MM,
// which may wrap past midnight) or a plain duration in hours. The ID is
// canonical in uppercase and immutable once created; renaming a code is
// a delete followed by a create.
type Code struct {
	CreatedAt   time.Time
	UpdatedAt   time.Time
	ID          string
	Description string
	StartTime   string
	EndTime     string
	Color       string
	Duration    float64
	Exportable  bool
	Overnight   bool
}

// NormalizeCodeID returns the canonical form of a code identifier:
// trimmed and upper-cased.
func NormalizeCodeID(id string) string {
	return strings.ToUpper(strings.TrimSpace(id))
}

// HasWindow reports whether the code carries a concrete start/end window.
func (c *Code) HasWindow() bool {
	return c.StartTime != "" && c.EndTime != ""
}

// Validate checks the code for structural problems before persistence.
func (c *Code) Validate() error {
	if strings.TrimSpace(c.ID) == "" {
		return fmt.Errorf("code identifier is required")
	}
	if strings.TrimSpace(c.Description) == "" {
		return fmt.Errorf("code description is required")
	}
	if c.StartTime != "" && !timeOfDayPattern.MatchString(c.StartTime) {
		return fmt.Errorf("invalid start time %q, expected HH:MM", c.StartTime)
	}
	if c.EndTime != "" && !timeOfDayPattern.MatchString(c.EndTime) {
		return fmt.Errorf("invalid end time %q, expected HH:MM", c.EndTime)
	}
	if (c.StartTime == "") != (c.EndTime == "") {
		return fmt.Errorf("start and end time must be set together")
	}
	if !c.HasWindow() && c.Duration < 0 {
		return fmt.Errorf("duration must be >= 0 hours, got %.2f", c.Duration)
	}
	return nil
}

// Window resolves the code's start/end clock times for a given calendar
// day. The end rolls into the next day when the window wraps midnight or
// the code is flagged overnight.
func (c *Code) Window(year int, month time.Month, day int, loc *time.Location) (start, end time.Time) {
	startClock := c.StartTime
	endClock := c.EndTime
	if !c.HasWindow() {
		// Duration-only codes anchor at the default start; a zero
		// duration falls back to the whole default window.
		startClock = DefaultStartTime
		endClock = DefaultEndTime
		if c.Duration > 0 {
			sh, sm := mustClock(DefaultStartTime)
			start = time.Date(year, month, day, sh, sm, 0, 0, loc)
			end = start.Add(time.Duration(c.Duration * float64(time.Hour)))
			return start, end
		}
	}

	sh, sm := mustClock(startClock)
	eh, em := mustClock(endClock)
	start = time.Date(year, month, day, sh, sm, 0, 0, loc)
	end = time.Date(year, month, day, eh, em, 0, 0, loc)
	// End-of-window clock before start means the shift spans midnight.
	if eh*60+em < sh*60+sm || (c.Overnight && !end.After(start)) {
		end = end.AddDate(0, 0, 1)
	}
	return start, end
}

// Default window applied to codes synthesized for unknown identifiers.
const (
	DefaultStartTime = "09:00"
	DefaultEndTime   = "17:00"
	DefaultColor     = "#888888"
)

func mustClock(v string) (h, m int) {
	// Callers validate via timeOfDayPattern; a bad value degrades to 00:00.
	if _, err := fmt.Sscanf(v, "%d:%d", &h, &m); err != nil {
		return 0, 0
	}
	return h, m
}
