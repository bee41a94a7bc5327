package export

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rotaflow/rota/internal/model"
)

func TestJSONRoundTrip(t *testing.T) {
	days := model.NewDaySequence(2, 2025)
	days[0] = "JRD"
	days[27] = "N12"

	original := testSchedule(days)
	data, err := MarshalSchedule(original)
	require.NoError(t, err)

	parsed, err := UnmarshalSchedule(data)
	require.NoError(t, err)

	assert.Equal(t, original.PersonName, parsed.PersonName)
	assert.Equal(t, original.Month, parsed.Month)
	assert.Equal(t, original.Year, parsed.Year)
	assert.Equal(t, original.Days, parsed.Days)
	assert.True(t, parsed.Found)
}

func TestUnmarshalSchedulePadsAndTruncates(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		wantLen int
		check   func(t *testing.T, s *model.Schedule)
	}{
		{
			name:    "short day list is padded",
			in:      `{"person":"Alice","month":2,"year":2025,"days":["JRD","RH"]}`,
			wantLen: 28,
			check: func(t *testing.T, s *model.Schedule) {
				assert.Equal(t, "JRD", s.Days[0])
				assert.Equal(t, "", s.Days[2])
			},
		},
		{
			name:    "long day list is truncated",
			in:      `{"person":"Alice","month":2,"year":2025,"days":["JRD","JRD","JRD","JRD","JRD","JRD","JRD","JRD","JRD","JRD","JRD","JRD","JRD","JRD","JRD","JRD","JRD","JRD","JRD","JRD","JRD","JRD","JRD","JRD","JRD","JRD","JRD","JRD","JRD","JRD","JRD"]}`,
			wantLen: 28,
		},
		{
			name:    "codes are normalized on import",
			in:      `{"person":"Alice","month":2,"year":2025,"days":[" jrd "]}`,
			wantLen: 28,
			check: func(t *testing.T, s *model.Schedule) {
				assert.Equal(t, "JRD", s.Days[0])
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed, err := UnmarshalSchedule([]byte(tt.in))
			require.NoError(t, err)
			assert.Len(t, parsed.Days, tt.wantLen)
			if tt.check != nil {
				tt.check(t, parsed)
			}
		})
	}
}

func TestUnmarshalScheduleRejectsBadInput(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"not json", "nope"},
		{"month zero", `{"person":"Alice","month":0,"year":2025,"days":[]}`},
		{"month thirteen", `{"person":"Alice","month":13,"year":2025,"days":[]}`},
		{"year zero", `{"person":"Alice","month":2,"year":0,"days":[]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := UnmarshalSchedule([]byte(tt.in))
			assert.Error(t, err)
		})
	}
}
