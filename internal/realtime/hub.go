package realtime

import (
	"log"
	"strings"
	"sync"
	"time"
)

const (
	ActionInsert = "INSERT"
	ActionUpdate = "UPDATE"
	ActionDelete = "DELETE"

	// AllTables subscribes to every table.
	AllTables = "*"
)

// Event is a row change notification.
type Event struct {
	Table  string    `json:"table"`
	Action string    `json:"action"`
	Key    string    `json:"key,omitempty"`
	At     time.Time `json:"at"`
}

// Publisher is implemented by Hub and by anything that forwards change events.
type Publisher interface {
	Publish(Event)
}

// Sink receives every event published on the hub, e.g. a message broker.
type Sink interface {
	Send(Event) error
}

type subscriber struct {
	table string
	ch    chan Event
}

// sinkQueue feeds one sink from its own goroutine so a slow broker never blocks writers.
type sinkQueue struct {
	sink Sink
	ch   chan Event
}

func (q *sinkQueue) run() {
	for e := range q.ch {
		if err := q.sink.Send(e); err != nil {
			log.Printf("[REALTIME] action=sink_error table=%s msg=%v", e.Table, err)
		}
	}
}

// Hub fans change events out to in-process subscribers.
// Slow subscribers miss events instead of blocking writers.
type Hub struct {
	mu     sync.RWMutex
	subs   map[*subscriber]struct{}
	sinks  []*sinkQueue
	buffer int
	closed bool
}

func NewHub(buffer int) *Hub {
	if buffer <= 0 {
		buffer = 16
	}
	return &Hub{subs: map[*subscriber]struct{}{}, buffer: buffer}
}

// AddSink forwards every subsequent event to s. Events are dropped while its queue is full.
func (h *Hub) AddSink(s Sink) {
	if s == nil {
		return
	}
	q := &sinkQueue{sink: s, ch: make(chan Event, h.buffer*4)}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.sinks = append(h.sinks, q)
	go q.run()
}

// Subscribe returns a channel of events for table (or AllTables) and a cancel func.
func (h *Hub) Subscribe(table string) (<-chan Event, func()) {
	sub := &subscriber{table: strings.TrimSpace(table), ch: make(chan Event, h.buffer)}
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		close(sub.ch)
		return sub.ch, func() {}
	}
	h.subs[sub] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	return sub.ch, func() {
		once.Do(func() {
			h.mu.Lock()
			if _, ok := h.subs[sub]; ok {
				delete(h.subs, sub)
				close(sub.ch)
			}
			h.mu.Unlock()
		})
	}
}

func (h *Hub) Publish(e Event) {
	if h == nil {
		return
	}
	if e.At.IsZero() {
		e.At = time.Now().UTC()
	}
	h.mu.RLock()
	if h.closed {
		h.mu.RUnlock()
		return
	}
	for sub := range h.subs {
		if sub.table != AllTables && sub.table != e.Table {
			continue
		}
		select {
		case sub.ch <- e:
		default:
			log.Printf("[REALTIME] action=drop table=%s key=%s msg=subscriber buffer full", e.Table, e.Key)
		}
	}
	for _, q := range h.sinks {
		select {
		case q.ch <- e:
		default:
			log.Printf("[REALTIME] action=drop table=%s key=%s msg=sink queue full", e.Table, e.Key)
		}
	}
	h.mu.RUnlock()
}

// Subscribers reports how many listeners are attached.
func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// Close ends all subscriptions.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for sub := range h.subs {
		close(sub.ch)
		delete(h.subs, sub)
	}
	for _, q := range h.sinks {
		close(q.ch)
	}
	h.sinks = nil
}

// Notify publishes on p when it is set. Services call this after each write.
func Notify(p Publisher, table, action, key string) {
	if p == nil {
		return
	}
	p.Publish(Event{Table: table, Action: action, Key: key})
}
