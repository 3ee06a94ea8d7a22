// Package tui renders a live dashboard for a protection run: counters,
// recent per-file outcomes, and the final state, fed by run events.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nroyer/docseal/internal/event"
	"github.com/nroyer/docseal/internal/protect"
)

const recentLines = 8

// EventMsg carries one run event into the program loop.
type EventMsg struct {
	Event event.Event
}

// DoneMsg signals the run finished; the program quits on receipt.
type DoneMsg struct {
	Summary protect.Summary
	Err     error
}

type tickMsg time.Time

// Sink forwards run events into the program's message loop. It is safe
// to call from the event stream's consumer goroutine.
type Sink struct {
	Program *tea.Program
}

func (s Sink) Handle(ev event.Event) {
	s.Program.Send(EventMsg{Event: ev})
}

// Model holds the dashboard state.
type Model struct {
	inputDir  string
	outputDir string
	start     time.Time

	processed int64
	protected int64
	copied    int64
	skipped   int64
	warnings  int64
	errors    int64
	bytes     int64

	recent     []string
	spinnerIdx int
	width      int
	done       bool

	// cancel stops the run when the operator quits mid-flight.
	cancel func()
}

// NewModel creates a dashboard for one run. cancel may be nil.
func NewModel(inputDir, outputDir string, cancel func()) *Model {
	return &Model{
		inputDir:  inputDir,
		outputDir: outputDir,
		start:     time.Now(),
		cancel:    cancel,
	}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m *Model) pushRecent(line string) {
	m.recent = append(m.recent, line)
	if len(m.recent) > recentLines {
		m.recent = m.recent[len(m.recent)-recentLines:]
	}
}

func (m *Model) helpLine() string {
	return "q: quit"
}
