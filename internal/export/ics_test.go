package export

import (
	"strings"
	"testing"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rotaflow/rota/internal/model"
)

type fakeLookup map[string]model.Code

func (f fakeLookup) Get(id string) (model.Code, bool) {
	code, ok := f[model.NormalizeCodeID(id)]
	return code, ok
}

func testLookup() fakeLookup {
	return fakeLookup{
		"JRD": {ID: "JRD", Description: "Regular day shift", StartTime: "08:00", EndTime: "16:00", Color: "#4ECDC4", Exportable: true},
		"N12": {ID: "N12", Description: "Night shift", StartTime: "22:00", EndTime: "06:00", Exportable: true, Overnight: true},
		"RH":  {ID: "RH", Description: "Rest day", Exportable: false},
	}
}

func testSchedule(days model.DaySequence) *model.Schedule {
	return &model.Schedule{
		ID:         1,
		PersonName: "Alice Smith",
		Month:      2,
		Year:       2025,
		Days:       days,
		Found:      true,
	}
}

func TestICSExport(t *testing.T) {
	days := model.NewDaySequence(2, 2025)
	days[0] = "JRD" // exported
	days[1] = "N12" // exported, rolls overnight
	days[2] = "RH"  // non-exportable, skipped
	days[3] = "ZZZ" // unknown, synthesized stand-in
	// day 5+ unresolved, skipped

	exporter := NewICSExporter(testLookup(), time.UTC)
	out, err := exporter.Export(testSchedule(days))
	require.NoError(t, err)

	assert.Contains(t, out, "BEGIN:VCALENDAR")
	assert.Contains(t, out, "PRODID:"+prodID)
	// iCalendar requires CRLF line endings, with no bare LF left over.
	assert.Contains(t, out, "\r\n")
	assert.NotContains(t, strings.ReplaceAll(out, "\r\n", ""), "\n")

	cal, err := ical.ParseCalendar(strings.NewReader(out))
	require.NoError(t, err)

	events := cal.Events()
	require.Len(t, events, 3, "rest days and unresolved days must not produce events")

	byDay := map[int]*ical.VEvent{}
	for _, event := range events {
		start, startErr := event.GetStartAt()
		require.NoError(t, startErr)
		byDay[start.Day()] = event
	}

	jrd := byDay[1]
	require.NotNil(t, jrd)
	assert.Equal(t, "JRD - Regular day shift", jrd.GetProperty(ical.ComponentPropertySummary).Value)
	assert.Contains(t, jrd.GetProperty(ical.ComponentPropertyDescription).Value, "Alice Smith")
	require.NotNil(t, jrd.GetProperty(ical.ComponentProperty("COLOR")))
	assert.Equal(t, "#4ECDC4", jrd.GetProperty(ical.ComponentProperty("COLOR")).Value)

	night := byDay[2]
	require.NotNil(t, night)
	nightStart, err := night.GetStartAt()
	require.NoError(t, err)
	nightEnd, err := night.GetEndAt()
	require.NoError(t, err)
	assert.Equal(t, 8*time.Hour, nightEnd.Sub(nightStart), "overnight shift must roll into the next day")

	standIn := byDay[4]
	require.NotNil(t, standIn)
	assert.Equal(t, "ZZZ - Code ZZZ", standIn.GetProperty(ical.ComponentPropertySummary).Value)
	standInStart, err := standIn.GetStartAt()
	require.NoError(t, err)
	standInEnd, err := standIn.GetEndAt()
	require.NoError(t, err)
	assert.Equal(t, 8*time.Hour, standInEnd.Sub(standInStart), "stand-in codes use the default 09:00-17:00 window")
}

func TestICSExportUIDsAreUnique(t *testing.T) {
	days := model.NewDaySequence(2, 2025)
	for i := range days {
		days[i] = "JRD"
	}

	exporter := NewICSExporter(testLookup(), time.UTC)
	out, err := exporter.Export(testSchedule(days))
	require.NoError(t, err)

	cal, err := ical.ParseCalendar(strings.NewReader(out))
	require.NoError(t, err)

	seen := map[string]bool{}
	for _, event := range cal.Events() {
		uid := event.GetProperty(ical.ComponentPropertyUniqueId).Value
		require.False(t, seen[uid], "duplicate UID %s", uid)
		seen[uid] = true
	}
	assert.Len(t, seen, 28)
}

func TestICSExportNilSchedule(t *testing.T) {
	exporter := NewICSExporter(testLookup(), time.UTC)
	_, err := exporter.Export(nil)
	assert.Error(t, err)
}

func TestFilename(t *testing.T) {
	schedule := testSchedule(model.NewDaySequence(2, 2025))
	assert.Equal(t, "alice-smith-2025-02.ics", Filename(schedule, "ics"))
	assert.Equal(t, "alice-smith-2025-02.json", Filename(schedule, "json"))
}
