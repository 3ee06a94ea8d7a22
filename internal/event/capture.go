package event

import "sync"

// CaptureSink retains every event it sees, for tests.
type CaptureSink struct {
	mu     sync.Mutex
	events []Event
}

func (c *CaptureSink) Handle(ev Event) {
	c.mu.Lock()
	c.events = append(c.events, ev)
	c.mu.Unlock()
}

// Events returns a copy of everything captured so far.
func (c *CaptureSink) Events() []Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Event(nil), c.events...)
}
