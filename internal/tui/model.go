// Package tui implements the interactive day-by-day schedule review
// screen.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rotaflow/rota/internal/model"
)

// Reviser persists single-day edits. Satisfied by reconcile.Engine.
type Reviser interface {
	ReviseDay(ctx context.Context, schedule *model.Schedule, dayIndex int, code string) error
}

// Lookup resolves code identifiers for display. Satisfied by
// registry.Registry.
type Lookup interface {
	Get(id string) (model.Code, bool)
	List() []string
}

// reviseDoneMsg reports the outcome of persisting a day edit.
type reviseDoneMsg struct {
	err      error
	dayIndex int
}

// Model holds the review screen state.
type Model struct {
	ctx      context.Context
	reviser  Reviser
	codebook Lookup
	schedule *model.Schedule
	input    textinput.Model
	keymap   KeyMap
	errMsg   string
	cursor   int
	height   int
	width    int
	editing  bool
	quitting bool
}

// NewModel creates a review model for one schedule.
func NewModel(ctx context.Context, schedule *model.Schedule, reviser Reviser, codebook Lookup) Model {
	input := textinput.New()
	input.Placeholder = "code"
	input.CharLimit = 8
	input.Width = 12

	return Model{
		ctx:      ctx,
		reviser:  reviser,
		codebook: codebook,
		schedule: schedule,
		input:    input,
		keymap:   DefaultKeyMap(),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case reviseDoneMsg:
		if msg.err != nil {
			m.errMsg = msg.err.Error()
		}
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keymap.ForceQuit) {
			m.quitting = true
			return m, tea.Quit
		}
		if m.editing {
			return m.updateEditing(msg)
		}
		return m.updateBrowsing(msg)
	}

	return m, nil
}

func (m Model) updateBrowsing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	days := len(m.schedule.Days)

	switch {
	case key.Matches(msg, m.keymap.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keymap.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keymap.Down):
		if m.cursor < days-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keymap.PageUp):
		m.cursor = max(0, m.cursor-7)
	case key.Matches(msg, m.keymap.PageDn):
		m.cursor = min(days-1, m.cursor+7)
	case key.Matches(msg, m.keymap.Home):
		m.cursor = 0
	case key.Matches(msg, m.keymap.End):
		m.cursor = days - 1
	case key.Matches(msg, m.keymap.Clear):
		return m, m.applyEdit("")
	case key.Matches(msg, m.keymap.Edit):
		m.editing = true
		m.errMsg = ""
		m.input.SetValue(m.schedule.Days[m.cursor])
		m.input.Focus()
		return m, textinput.Blink
	}
	return m, nil
}

func (m Model) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Cancel):
		m.editing = false
		m.input.Blur()
		return m, nil
	case key.Matches(msg, m.keymap.Accept):
		value := strings.TrimSpace(m.input.Value())
		m.editing = false
		m.input.Blur()
		return m, m.applyEdit(value)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// applyEdit updates the in-memory sequence immediately and persists in
// the background; a persistence failure surfaces as an error line.
func (m *Model) applyEdit(code string) tea.Cmd {
	dayIndex := m.cursor
	reviser := m.reviser
	ctx := m.ctx
	schedule := m.schedule

	revised, err := model.ReviseDay(schedule.Days, dayIndex, code)
	if err != nil {
		m.errMsg = err.Error()
		return nil
	}
	schedule.Days = revised

	return func() tea.Msg {
		persistCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return reviseDoneMsg{
			dayIndex: dayIndex,
			err:      persistDay(persistCtx, reviser, schedule, dayIndex),
		}
	}
}

func persistDay(ctx context.Context, reviser Reviser, schedule *model.Schedule, dayIndex int) error {
	if reviser == nil {
		return nil
	}
	if err := reviser.ReviseDay(ctx, schedule, dayIndex, schedule.Days[dayIndex]); err != nil {
		return fmt.Errorf("day %d not saved: %w", dayIndex+1, err)
	}
	return nil
}
