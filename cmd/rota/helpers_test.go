package main

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rotaflow/rota/internal/model"
)

func TestPersonFromFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"/tmp/rosters/alice-smith.jpg", "alice smith"},
		{"bob_jones.png", "bob jones"},
		{"Carol.webp", "Carol"},
		{"weird name.jpeg", "weird name"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, personFromFilename(tt.in), "input %q", tt.in)
	}
}

func TestMergeCodeFlags(t *testing.T) {
	existing := model.Code{
		ID:          "JRD",
		Description: "Regular day shift",
		StartTime:   "08:00",
		EndTime:     "16:00",
		Color:       "#4ECDC4",
		Exportable:  true,
	}

	var updated model.Code
	cmd := &cobra.Command{}
	addCodeFlags(cmd, &updated)

	// Only the flags the user set override the stored values.
	require.NoError(t, cmd.Flags().Set("description", "Updated"))
	require.NoError(t, cmd.Flags().Set("exportable", "false"))

	merged := mergeCodeFlags(cmd, existing, updated)

	assert.Equal(t, "Updated", merged.Description)
	assert.False(t, merged.Exportable)
	assert.Equal(t, "08:00", merged.StartTime, "unset flags keep stored values")
	assert.Equal(t, "16:00", merged.EndTime)
	assert.Equal(t, "#4ECDC4", merged.Color)
}

func TestMaskKey(t *testing.T) {
	assert.Equal(t, "(not set)", maskKey(""))
	assert.Equal(t, "***", maskKey("abc"))
	assert.Equal(t, "******3456", maskKey("ab12163456"))
}
