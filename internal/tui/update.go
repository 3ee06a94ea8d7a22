package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nroyer/docseal/internal/event"
	"github.com/nroyer/docseal/internal/protect"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tickMsg:
		if m.done {
			return m, nil
		}
		m.spinnerIdx = (m.spinnerIdx + 1) % len(spinnerFrames)
		return m, tick()

	case EventMsg:
		m.apply(msg.Event)
		return m, nil

	case DoneMsg:
		m.done = true
		return m, tea.Quit
	}

	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		if m.cancel != nil {
			m.cancel()
		}
		m.done = true
		return m, tea.Quit
	}

	return m, nil
}

func (m *Model) apply(ev event.Event) {
	if ev.Kind == event.KindWarning {
		m.warnings++
		m.pushRecent(warningStyle.Render("⚠ " + ev.Message))
		return
	}

	m.processed++

	switch ev.Outcome {
	case protect.OutcomeProtected:
		m.protected++
		m.bytes += ev.Bytes
		m.pushRecent(successStyle.Render("✓ ") + ev.Rel)
	case protect.OutcomeCopied:
		m.copied++
		m.bytes += ev.Bytes
		m.pushRecent(successStyle.Render("✓ ") + ev.Rel + mutedStyle.Render(" (already protected)"))
	case protect.OutcomeSkippedExists:
		m.skipped++
		m.pushRecent(mutedStyle.Render("- " + ev.Rel + " (output exists)"))
	case protect.OutcomeError:
		m.errors++
		m.pushRecent(errorStyle.Render("✗ ") + ev.Rel + errorStyle.Render(fmt.Sprintf(": %v", ev.Err)))
	}
}
