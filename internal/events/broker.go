package events

import (
	"sync"
	"time"

	"decorstudio/internal/metrics"
	"decorstudio/internal/session"
)

// Name is a discrete UI event consumed by the sound and presentation layers.
type Name string

const (
	Select    Name = "select"
	Deselect  Name = "deselect"
	Generate  Name = "generate"
	Stage     Name = "stage"
	Success   Name = "success"
	Error     Name = "error"
	Upload    Name = "upload"
	TabSwitch Name = "tab-switch"
)

// Event describes one thing that happened in the session.
type Event struct {
	Name    Name           `json:"name"`
	Target  string         `json:"target,omitempty"`
	RunID   string         `json:"run_id,omitempty"`
	Stage   session.Stage  `json:"stage,omitempty"`
	Status  session.Status `json:"status,omitempty"`
	Message string         `json:"message,omitempty"`
	At      time.Time      `json:"at"`
}

// Broker manages SSE subscribers.
type Broker struct {
	mu          sync.RWMutex
	subscribers map[chan Event]struct{}
	buffer      int
	closed      bool
}

// NewBroker constructs a broker instance.
func NewBroker() *Broker {
	return &Broker{
		subscribers: make(map[chan Event]struct{}),
		buffer:      32,
	}
}

// Subscribe returns a channel that receives events. After Close the
// channel comes back already closed.
func (b *Broker) Subscribe() chan Event {
	ch := make(chan Event, b.buffer)
	b.mu.Lock()
	if b.closed {
		close(ch)
	} else {
		b.subscribers[ch] = struct{}{}
	}
	b.mu.Unlock()
	return ch
}

// Unsubscribe removes the channel from the broker.
func (b *Broker) Unsubscribe(ch chan Event) {
	b.mu.Lock()
	if _, ok := b.subscribers[ch]; ok {
		delete(b.subscribers, ch)
		close(ch)
	}
	b.mu.Unlock()
}

// Close ends every subscription so open streams return. It is safe to call
// more than once and alongside Unsubscribe.
func (b *Broker) Close() {
	b.mu.Lock()
	b.closed = true
	for ch := range b.subscribers {
		delete(b.subscribers, ch)
		close(ch)
	}
	b.mu.Unlock()
}

// Publish fan-outs the event to all subscribers.
func (b *Broker) Publish(evt Event) {
	if evt.At.IsZero() {
		evt.At = time.Now().UTC()
	}
	metrics.EventsPublishedTotal.WithLabelValues(string(evt.Name)).Inc()

	b.mu.RLock()
	for ch := range b.subscribers {
		select {
		case ch <- evt:
		default:
			// drop if subscriber is slow
			metrics.EventsDroppedTotal.Inc()
		}
	}
	b.mu.RUnlock()
}

// Subscribers reports the number of live subscriptions.
func (b *Broker) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}
