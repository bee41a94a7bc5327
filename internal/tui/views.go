package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/rotaflow/rota/internal/cli"
)

var (
	cursorStyle = lipgloss.NewStyle().Bold(true).Foreground(cli.PrimaryColor)
	headerStyle = lipgloss.NewStyle().Bold(true).MarginBottom(1)
	helpStyle   = lipgloss.NewStyle().Foreground(cli.SubtleColor).MarginTop(1)
	errStyle    = lipgloss.NewStyle().Foreground(cli.ErrorColor)
)

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	title := fmt.Sprintf("%s — %s %d", m.schedule.PersonName,
		time.Month(m.schedule.Month).String(), m.schedule.Year)
	b.WriteString(headerStyle.Render(title))
	b.WriteString("\n")

	for i, code := range m.schedule.Days {
		line := m.renderDay(i, code)
		if i == m.cursor {
			line = cursorStyle.Render("> " + line)
		} else {
			line = "  " + line
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	if m.editing {
		b.WriteString("\n")
		b.WriteString(fmt.Sprintf("Day %d: %s", m.cursor+1, m.input.View()))
		b.WriteString(helpStyle.Render("\nenter apply · esc cancel"))
	} else {
		b.WriteString(helpStyle.Render("\n↑/↓ move · enter edit · x clear · q quit"))
	}

	if m.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(errStyle.Render(m.errMsg))
	}

	return b.String()
}

func (m Model) renderDay(i int, code string) string {
	day := fmt.Sprintf("%2d", i+1)
	if code == "" {
		return fmt.Sprintf("%s  %s", day, cli.UnresolvedStyle.Render("(unresolved)"))
	}
	if c, ok := m.codebook.Get(code); ok {
		return fmt.Sprintf("%s  %-6s %s", day, c.ID, cli.SubtleStyle.Render(c.Description))
	}
	return fmt.Sprintf("%s  %-6s %s", day, code, cli.WarningStyle.Render("(unknown code)"))
}
