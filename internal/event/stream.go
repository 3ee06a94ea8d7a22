package event

import (
	"sync/atomic"

	"github.com/nroyer/docseal/internal/protect"
)

// Stream serializes events from concurrent workers and fans them out to
// its sinks. A single consumer goroutine owns sink delivery. Counters are
// atomic so Progress can be read while workers are still publishing.
type Stream struct {
	events chan Event
	done   chan struct{}
	sinks  []Sink

	processed  int64
	protected  int64
	copied     int64
	skipped    int64
	unreadable int64
	warnings   int64
	errors     int64
	bytes      int64
}

// Progress holds current run counters.
type Progress struct {
	Processed  int64
	Protected  int64
	Copied     int64
	Skipped    int64
	Unreadable int64
	Warnings   int64
	Errors     int64
	Bytes      int64
}

// NewStream starts the consumer goroutine. buffer sizes the publish
// channel; workers block when sinks fall behind by more than that.
func NewStream(buffer int, sinks ...Sink) *Stream {
	s := &Stream{
		events: make(chan Event, buffer),
		done:   make(chan struct{}),
		sinks:  sinks,
	}
	go s.run()
	return s
}

func (s *Stream) run() {
	defer close(s.done)
	for ev := range s.events {
		s.count(ev)
		for _, sink := range s.sinks {
			sink.Handle(ev)
		}
	}
}

func (s *Stream) count(ev Event) {
	if ev.Kind == KindWarning {
		atomic.AddInt64(&s.warnings, 1)
		return
	}

	atomic.AddInt64(&s.processed, 1)
	atomic.AddInt64(&s.bytes, ev.Bytes)
	if ev.Class == protect.ClassUnreadable {
		atomic.AddInt64(&s.unreadable, 1)
	}
	switch ev.Outcome {
	case protect.OutcomeProtected:
		atomic.AddInt64(&s.protected, 1)
	case protect.OutcomeCopied:
		atomic.AddInt64(&s.copied, 1)
	case protect.OutcomeSkippedExists:
		atomic.AddInt64(&s.skipped, 1)
	case protect.OutcomeError:
		atomic.AddInt64(&s.errors, 1)
	}
}

// Publish queues ev for delivery. Safe for concurrent use; blocks when
// the buffer is full so slow sinks apply backpressure instead of
// dropping events.
func (s *Stream) Publish(ev Event) {
	s.events <- ev
}

// PublishResult publishes one file's full event sequence.
func (s *Stream) PublishResult(rel string, res protect.Result) {
	for _, ev := range FromResult(rel, res) {
		s.Publish(ev)
	}
}

// Progress returns current run counters (safe for concurrent access).
func (s *Stream) Progress() Progress {
	return Progress{
		Processed:  atomic.LoadInt64(&s.processed),
		Protected:  atomic.LoadInt64(&s.protected),
		Copied:     atomic.LoadInt64(&s.copied),
		Skipped:    atomic.LoadInt64(&s.skipped),
		Unreadable: atomic.LoadInt64(&s.unreadable),
		Warnings:   atomic.LoadInt64(&s.warnings),
		Errors:     atomic.LoadInt64(&s.errors),
		Bytes:      atomic.LoadInt64(&s.bytes),
	}
}

// Close drains pending events and returns the run summary. found is the
// enumeration count, which the stream cannot know on its own.
func (s *Stream) Close(found int64) protect.Summary {
	close(s.events)
	<-s.done
	return protect.Summary{
		Found:                   found,
		Protected:               atomic.LoadInt64(&s.protected),
		SkippedAlreadyProtected: atomic.LoadInt64(&s.copied),
		SkippedOutputExists:     atomic.LoadInt64(&s.skipped),
		Unreadable:              atomic.LoadInt64(&s.unreadable),
		Warnings:                atomic.LoadInt64(&s.warnings),
		Errors:                  atomic.LoadInt64(&s.errors),
		BytesWritten:            atomic.LoadInt64(&s.bytes),
	}
}
