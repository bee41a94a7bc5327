package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rotaflow/rota/internal/model"
)

// Run starts the interactive review loop for one schedule and blocks
// until the user quits. Edits are persisted as they are applied, so
// there is no separate save step.
func Run(ctx context.Context, schedule *model.Schedule, reviser Reviser, codebook Lookup) error {
	if schedule == nil {
		return fmt.Errorf("schedule is required")
	}

	program := tea.NewProgram(
		NewModel(ctx, schedule, reviser, codebook),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("review UI failed: %w", err)
	}
	return nil
}
