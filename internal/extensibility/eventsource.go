package extensibility

import (
	"context"
	"sync"
	"time"

	"github.com/comalice/hsmx/internal/primitives"
)

// EventSource produces events for a machine.
type EventSource interface {
	Events() <-chan primitives.Event
}

// Firer is the part of a machine an event source drives.
type Firer interface {
	Fire(ctx context.Context, event primitives.EventID, data any) error
}

// Drive fires every event from src on target, one at a time on the calling
// goroutine, until ctx is done or the source channel is closed. When onError
// is nil or returns false, the first Fire error stops Drive and is returned.
func Drive(ctx context.Context, src EventSource, target Firer, onError func(primitives.Event, error) bool) error {
	events := src.Events()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case evt, ok := <-events:
			if !ok {
				return nil
			}
			if err := target.Fire(ctx, evt.Type, evt.Data); err != nil {
				if onError == nil || !onError(evt, err) {
					return err
				}
			}
		}
	}
}

// ChannelEventSource is an EventSource backed by a Go channel. Producers on
// any goroutine call Send; a single Drive loop owns the machine.
type ChannelEventSource struct {
	ch chan primitives.Event
}

// NewChannelEventSource creates a ChannelEventSource with the given buffer.
func NewChannelEventSource(buffer int) *ChannelEventSource {
	return &ChannelEventSource{ch: make(chan primitives.Event, buffer)}
}

// Events returns the receive-only channel for events.
func (s *ChannelEventSource) Events() <-chan primitives.Event {
	return s.ch
}

// Send queues an event, blocking until there is room or ctx is done.
func (s *ChannelEventSource) Send(ctx context.Context, event primitives.EventID, data any) error {
	select {
	case s.ch <- primitives.NewEvent(event, data):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close ends the stream. Send must not be called afterwards.
func (s *ChannelEventSource) Close() {
	close(s.ch)
}

// TimerEventSource emits the same event periodically, for timeouts and
// heartbeats. Ticks are dropped while the consumer is behind.
type TimerEventSource struct {
	ch     chan primitives.Event
	event  primitives.EventID
	data   any
	ticker *time.Ticker
	stop   chan struct{}
	once   sync.Once
}

// NewTimerEventSource creates a TimerEventSource that emits event every d.
func NewTimerEventSource(event primitives.EventID, data any, d time.Duration) *TimerEventSource {
	t := &TimerEventSource{
		ch:     make(chan primitives.Event, 1),
		event:  event,
		data:   data,
		ticker: time.NewTicker(d),
		stop:   make(chan struct{}),
	}
	go t.run()
	return t
}

func (t *TimerEventSource) run() {
	for {
		select {
		case <-t.ticker.C:
			select {
			case t.ch <- primitives.NewEvent(t.event, t.data):
			default:
			}
		case <-t.stop:
			t.ticker.Stop()
			close(t.ch)
			return
		}
	}
}

// Events returns the event channel.
func (t *TimerEventSource) Events() <-chan primitives.Event {
	return t.ch
}

// Stop stops the ticker and closes the channel. Calling it again is a no-op.
func (t *TimerEventSource) Stop() {
	t.once.Do(func() { close(t.stop) })
}
