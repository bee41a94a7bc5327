package model

import (
	"fmt"
	"strings"
	"time"
)

// DaySequence is the ordered list of resolved code identifiers for one
// month. Index i holds the code for calendar day i+1; an empty string is
// an unresolved day.
type DaySequence []string

// ScheduleRequest captures the inputs of one analysis run.
type ScheduleRequest struct {
	PersonName string
	Month      int
	Year       int
	ImagePath  string
	RawText    string
}

// Validate rejects a request before any work (or network call) starts.
func (r *ScheduleRequest) Validate() error {
	if strings.TrimSpace(r.PersonName) == "" {
		return fmt.Errorf("person name is required")
	}
	if r.Month < 1 || r.Month > 12 {
		return fmt.Errorf("month must be between 1 and 12, got %d", r.Month)
	}
	if r.Year <= 0 {
		return fmt.Errorf("year must be positive, got %d", r.Year)
	}
	if r.ImagePath == "" && r.RawText == "" {
		return fmt.Errorf("either an image or raw text input is required")
	}
	return nil
}

// ReconciliationResult is the outcome of parsing and reconciling one
// roster against the registry.
type ReconciliationResult struct {
	RawText string
	Days    DaySequence
	Found   bool
}

// Schedule is a persisted analysis result that can be reviewed and
// exported later.
type Schedule struct {
	CreatedAt  time.Time
	UpdatedAt  time.Time
	PersonName string
	Days       DaySequence
	ID         int64
	Month      int
	Year       int
	Found      bool
}

// DaysInMonth returns the number of calendar days in the given month.
func DaysInMonth(month, year int) int {
	// Day zero of the next month is the last day of this one.
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// NewDaySequence returns an all-empty sequence sized for month/year.
func NewDaySequence(month, year int) DaySequence {
	return make(DaySequence, DaysInMonth(month, year))
}

// ReviseDay returns a copy of seq with the code at dayIndex (0-based)
// replaced. The input sequence is never mutated; the review UI applies
// edits through this function and persists the returned sequence.
func ReviseDay(seq DaySequence, dayIndex int, code string) (DaySequence, error) {
	if dayIndex < 0 || dayIndex >= len(seq) {
		return nil, fmt.Errorf("day index %d out of range [0,%d)", dayIndex, len(seq))
	}
	revised := make(DaySequence, len(seq))
	copy(revised, seq)
	revised[dayIndex] = NormalizeCodeID(code)
	return revised, nil
}

// Resolved counts the non-empty days in the sequence.
func (s DaySequence) Resolved() int {
	n := 0
	for _, code := range s {
		if code != "" {
			n++
		}
	}
	return n
}
