package event

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"

	"github.com/nroyer/docseal/internal/protect"
)

// ConsoleSink prints one line per event, the plain output mode used when
// stdout is not a terminal or the dashboard is disabled.
type ConsoleSink struct {
	W io.Writer
}

func (c ConsoleSink) Handle(ev Event) {
	if ev.Kind == KindWarning {
		if ev.Err != nil {
			fmt.Fprintf(c.W, "warning: %s: %v\n", ev.Message, ev.Err)
		} else {
			fmt.Fprintf(c.W, "warning: %s\n", ev.Message)
		}
		return
	}

	switch ev.Outcome {
	case protect.OutcomeProtected:
		fmt.Fprintf(c.W, "protected %s (%s)\n", ev.Rel, humanize.Bytes(uint64(ev.Bytes)))
	case protect.OutcomeCopied:
		fmt.Fprintf(c.W, "copied %s (already protected)\n", ev.Rel)
	case protect.OutcomeSkippedExists:
		fmt.Fprintf(c.W, "skipped %s (output exists)\n", ev.Rel)
	case protect.OutcomeError:
		fmt.Fprintf(c.W, "error %s: %v\n", ev.Rel, ev.Err)
	}
}
