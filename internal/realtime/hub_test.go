package realtime

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSink struct {
	mu     sync.Mutex
	events []Event
	err    error
}

func (s *recordingSink) Send(e Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, e)
	return s.err
}

func (s *recordingSink) snapshot() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Event(nil), s.events...)
}

// blockingSink holds every Send until release is closed.
type blockingSink struct {
	release chan struct{}
}

func (s blockingSink) Send(Event) error {
	<-s.release
	return nil
}

func receive(t *testing.T, ch <-chan Event) Event {
	t.Helper()
	select {
	case e, ok := <-ch:
		require.True(t, ok, "channel closed")
		return e
	case <-time.After(time.Second):
		t.Fatalf("no event received")
	}
	return Event{}
}

func TestHubRoutesByTable(t *testing.T) {
	h := NewHub(4)
	agencies, cancelA := h.Subscribe("agencies")
	defer cancelA()
	all, cancelAll := h.Subscribe(AllTables)
	defer cancelAll()

	h.Publish(Event{Table: "media", Action: ActionInsert, Key: "m1"})
	h.Publish(Event{Table: "agencies", Action: ActionUpdate, Key: "a1"})

	e := receive(t, agencies)
	assert.Equal(t, "a1", e.Key)
	assert.False(t, e.At.IsZero())

	assert.Equal(t, "m1", receive(t, all).Key)
	assert.Equal(t, "a1", receive(t, all).Key)
}

func TestHubDropsWhenSubscriberIsFull(t *testing.T) {
	h := NewHub(1)
	ch, cancel := h.Subscribe("bookings")
	defer cancel()

	h.Publish(Event{Table: "bookings", Key: "1"})
	h.Publish(Event{Table: "bookings", Key: "2"})

	assert.Equal(t, "1", receive(t, ch).Key)
	select {
	case e := <-ch:
		t.Fatalf("unexpected event %+v", e)
	default:
	}
}

func TestHubCancelAndClose(t *testing.T) {
	h := NewHub(1)
	_, cancel := h.Subscribe("x")
	assert.Equal(t, 1, h.Subscribers())
	cancel()
	cancel()
	assert.Equal(t, 0, h.Subscribers())

	ch, _ := h.Subscribe("x")
	h.Close()
	_, ok := <-ch
	assert.False(t, ok)
	h.Publish(Event{Table: "x"})
}

func TestHubForwardsToSinks(t *testing.T) {
	h := NewHub(1)
	sink := &recordingSink{err: errors.New("broker down")}
	h.AddSink(sink)

	Notify(h, "inquiries", ActionDelete, "i-1")
	Notify(nil, "inquiries", ActionDelete, "ignored")

	require.Eventually(t, func() bool { return len(sink.snapshot()) == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, "inquiries.DELETE", RoutingKey(sink.snapshot()[0]))
	h.Close()
}

func TestHubPublishDoesNotWaitForSinks(t *testing.T) {
	h := NewHub(1)
	slow := blockingSink{release: make(chan struct{})}
	defer close(slow.release)
	h.AddSink(slow)
	ch, cancel := h.Subscribe("media")
	defer cancel()

	done := make(chan struct{})
	go func() {
		for i := 0; i < 20; i++ {
			h.Publish(Event{Table: "media", Action: ActionUpdate, Key: "m"})
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("publish blocked on a stalled sink")
	}
	assert.Equal(t, "m", receive(t, ch).Key)
	h.Close()
}
