// Package event carries per-file observations from workers to the
// surfaces that display them. Workers publish into a Stream; the stream
// serializes delivery so sinks (console, structured log, TUI, test
// capture) never need locks of their own.
package event

import "github.com/nroyer/docseal/internal/protect"

// Kind tags what an event describes.
type Kind uint8

const (
	// KindResult is the terminal outcome for one file.
	KindResult Kind = iota
	// KindWarning is a recoverable anomaly attached to a file.
	KindWarning
)

// Event is one observable step of a protection run.
type Event struct {
	Kind    Kind
	Rel     string
	Class   protect.Classification
	Outcome protect.Outcome
	Bytes   int64
	Err     error
	Message string
}

// Sink receives events in publication order. Handle runs on the stream's
// consumer goroutine.
type Sink interface {
	Handle(Event)
}

// FromResult expands one file's result into its event sequence: warnings
// first, then the terminal result.
func FromResult(rel string, res protect.Result) []Event {
	evs := make([]Event, 0, len(res.Warnings)+1)
	for _, w := range res.Warnings {
		evs = append(evs, Event{Kind: KindWarning, Rel: rel, Message: w.Message, Err: w.Err})
	}
	evs = append(evs, Event{
		Kind:    KindResult,
		Rel:     rel,
		Class:   res.Class,
		Outcome: res.Outcome,
		Bytes:   res.Bytes,
		Err:     res.Err,
	})
	return evs
}
