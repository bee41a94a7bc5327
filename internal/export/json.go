package export

import (
	"encoding/json"
	"fmt"

	"github.com/rotaflow/rota/internal/model"
)

// jsonSchedule is the interchange shape for JSON export/import.
type jsonSchedule struct {
	Person string   `json:"person"`
	Days   []string `json:"days"`
	Month  int      `json:"month"`
	Year   int      `json:"year"`
}

// MarshalSchedule renders a schedule as indented JSON suitable for
// hand-editing and later re-import.
func MarshalSchedule(schedule *model.Schedule) ([]byte, error) {
	if schedule == nil {
		return nil, fmt.Errorf("schedule is required")
	}
	out := jsonSchedule{
		Person: schedule.PersonName,
		Month:  schedule.Month,
		Year:   schedule.Year,
		Days:   schedule.Days,
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schedule: %w", err)
	}
	return data, nil
}

// UnmarshalSchedule parses a JSON export back into a schedule. The day
// sequence is padded or truncated to the month's length so hand-edited
// files with a missing or extra trailing entry still import cleanly.
func UnmarshalSchedule(data []byte) (*model.Schedule, error) {
	var in jsonSchedule
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, fmt.Errorf("failed to parse schedule: %w", err)
	}
	if in.Month < 1 || in.Month > 12 {
		return nil, fmt.Errorf("month must be between 1 and 12, got %d", in.Month)
	}
	if in.Year <= 0 {
		return nil, fmt.Errorf("year must be positive, got %d", in.Year)
	}

	days := model.NewDaySequence(in.Month, in.Year)
	for i := range days {
		if i < len(in.Days) {
			days[i] = model.NormalizeCodeID(in.Days[i])
		}
	}

	return &model.Schedule{
		PersonName: in.Person,
		Month:      in.Month,
		Year:       in.Year,
		Days:       days,
		Found:      days.Resolved() > 0,
	}, nil
}
