// Package export renders reconciled schedules to calendar formats.
package export

import (
	"fmt"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/google/uuid"

	"github.com/rotaflow/rota/internal/model"
)

// prodID identifies this application in generated calendars.
const prodID = "-//rotaflow//rota//EN"

// Lookup resolves a code identifier to its registry entry. Satisfied by
// registry.Registry.
type Lookup interface {
	Get(id string) (model.Code, bool)
}

// ICSExporter renders a schedule to an iCalendar document, one VEVENT
// per resolved, exportable day.
type ICSExporter struct {
	codebook Lookup
	loc      *time.Location
	now      func() time.Time
}

// NewICSExporter creates an exporter resolving codes through codebook.
// A nil location defaults to the process-local timezone.
func NewICSExporter(codebook Lookup, loc *time.Location) *ICSExporter {
	if loc == nil {
		loc = time.Local
	}
	return &ICSExporter{codebook: codebook, loc: loc, now: time.Now}
}

// Export serializes the schedule as an iCalendar document. Days with no
// resolved code and codes flagged non-exportable produce no event;
// identifiers missing from the registry get a synthesized stand-in so
// the calendar still shows something on that day.
func (e *ICSExporter) Export(schedule *model.Schedule) (string, error) {
	if schedule == nil {
		return "", fmt.Errorf("schedule is required")
	}

	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(prodID)
	cal.SetCalscale("GREGORIAN")

	stamp := e.now().UTC()
	for i, id := range schedule.Days {
		if id == "" {
			continue
		}

		code, ok := e.codebook.Get(id)
		if !ok {
			code = standInCode(id)
		}
		if !code.Exportable {
			continue
		}

		day := i + 1
		start, end := code.Window(schedule.Year, time.Month(schedule.Month), day, e.loc)

		event := cal.AddEvent(eventUID(schedule, day))
		event.SetDtStampTime(stamp)
		event.SetStartAt(start)
		event.SetEndAt(end)
		event.SetSummary(fmt.Sprintf("%s - %s", code.ID, code.Description))
		event.SetDescription(fmt.Sprintf("Shift %s for %s", code.ID, schedule.PersonName))
		if code.Color != "" {
			event.SetProperty(ical.ComponentProperty("COLOR"), code.Color)
		}
	}

	// RFC 5545 content lines end in CRLF; the serializer emits bare LF.
	serialized := strings.ReplaceAll(cal.Serialize(), "\r\n", "\n")
	return strings.ReplaceAll(serialized, "\n", "\r\n"), nil
}

// Filename returns the conventional output name for a schedule.
func Filename(schedule *model.Schedule, ext string) string {
	person := strings.ToLower(strings.TrimSpace(schedule.PersonName))
	person = strings.ReplaceAll(person, " ", "-")
	return fmt.Sprintf("%s-%04d-%02d.%s", person, schedule.Year, schedule.Month, ext)
}

// eventUID builds a globally unique, context-carrying event identifier.
func eventUID(schedule *model.Schedule, day int) string {
	return fmt.Sprintf("%s-%04d%02d%02d-%s@rotaflow",
		uuid.NewString(), schedule.Year, schedule.Month, day,
		strings.ToLower(strings.ReplaceAll(strings.TrimSpace(schedule.PersonName), " ", "-")))
}

// standInCode covers identifiers present in a day sequence but missing
// from the registry, e.g. after a code was deleted post-analysis.
func standInCode(id string) model.Code {
	return model.Code{
		ID:          model.NormalizeCodeID(id),
		Description: fmt.Sprintf("Code %s", model.NormalizeCodeID(id)),
		StartTime:   model.DefaultStartTime,
		EndTime:     model.DefaultEndTime,
		Color:       model.DefaultColor,
		Exportable:  true,
	}
}
