package tui

import (
	"fmt"
	"strings"
	"time"
)

// View implements tea.Model.
func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("docseal"))
	b.WriteString("\n\n")

	b.WriteString(labelStyle.Render("input:  "))
	b.WriteString(pathStyle.Render(m.inputDir))
	b.WriteString("\n")
	b.WriteString(labelStyle.Render("output: "))
	b.WriteString(pathStyle.Render(m.outputDir))
	b.WriteString("\n\n")

	b.WriteString(m.statusLine())
	b.WriteString("\n")
	b.WriteString(m.countersLine())
	b.WriteString("\n\n")

	for _, line := range m.recent {
		b.WriteString("  ")
		b.WriteString(line)
		b.WriteString("\n")
	}
	if len(m.recent) > 0 {
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render(m.helpLine()))
	b.WriteString("\n")

	return b.String()
}

func (m *Model) statusLine() string {
	elapsed := time.Since(m.start).Round(time.Second)
	if m.done {
		return successStyle.Render("done") + mutedStyle.Render(fmt.Sprintf("  %s", elapsed))
	}
	frame := spinnerFrames[m.spinnerIdx]
	return spinnerStyle.Render(frame) + mutedStyle.Render(fmt.Sprintf(" protecting  %s", elapsed))
}

func (m *Model) countersLine() string {
	parts := []string{
		fmt.Sprintf("%s processed", FormatCount(m.processed)),
		fmt.Sprintf("%s protected", FormatCount(m.protected)),
		fmt.Sprintf("%s copied", FormatCount(m.copied)),
		fmt.Sprintf("%s skipped", FormatCount(m.skipped)),
	}
	if m.errors > 0 {
		parts = append(parts, errorStyle.Render(fmt.Sprintf("%s errors", FormatCount(m.errors))))
	}
	if m.warnings > 0 {
		parts = append(parts, warningStyle.Render(fmt.Sprintf("%s warnings", FormatCount(m.warnings))))
	}
	parts = append(parts, mutedStyle.Render(FormatSize(m.bytes)+" written"))
	return strings.Join(parts, mutedStyle.Render("  ·  "))
}
