package production

import (
	"sync"
	"sync/atomic"

	"github.com/comalice/hsmx/internal/core"
)

// PublishedEvent is one completed action as seen by a subscriber.
type PublishedEvent struct {
	core.ActionEvent
	Transition string
}

// ChannelPublisher is a core.ActionListener that forwards every completed
// action to a Go channel. Publishing never blocks the machine: events are
// dropped while the channel is full.
type ChannelPublisher struct {
	mu      sync.RWMutex
	ch      chan<- PublishedEvent
	closed  bool
	dropped atomic.Uint64
}

// NewChannelPublisher creates a ChannelPublisher with the given output channel.
func NewChannelPublisher(ch chan<- PublishedEvent) *ChannelPublisher {
	return &ChannelPublisher{ch: ch}
}

// BeforeAction implements core.ActionListener.
func (p *ChannelPublisher) BeforeAction(core.ActionEvent) {}

// AfterAction implements core.ActionListener.
func (p *ChannelPublisher) AfterAction(e core.ActionEvent) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return
	}
	ev := PublishedEvent{
		ActionEvent: e,
		Transition:  string(e.From) + " -> " + string(e.To),
	}
	select {
	case p.ch <- ev:
	default:
		p.dropped.Add(1)
	}
}

// Dropped returns the number of events lost to backpressure.
func (p *ChannelPublisher) Dropped() uint64 {
	return p.dropped.Load()
}

// Close closes the output channel. Later actions are ignored.
func (p *ChannelPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.closed {
		p.closed = true
		close(p.ch)
	}
	return nil
}
