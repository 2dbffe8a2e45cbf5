package core

import (
	"time"

	"go.uber.org/zap"
)

// Option applies configuration to Machine via functional options pattern.
type Option func(*Machine)

// WithLogger sets the logger. The machine logs under the "hsmx" name.
func WithLogger(l *zap.Logger) Option {
	return func(m *Machine) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithID overrides the generated machine id.
func WithID(id string) Option {
	return func(m *Machine) {
		if id != "" {
			m.id = id
		}
	}
}

// WithListener registers an action listener at construction.
func WithListener(l ActionListener) Option {
	return func(m *Machine) {
		m.initialListeners = append(m.initialListeners, l)
	}
}

// WithAutoStart makes Fire start an INITIALIZED machine, with the event's
// data, instead of ignoring the event.
func WithAutoStart() Option {
	return func(m *Machine) {
		m.autoStart = true
	}
}

// WithClock replaces time.Now for listener timings and snapshot timestamps.
func WithClock(now func() time.Time) Option {
	return func(m *Machine) {
		if now != nil {
			m.now = now
		}
	}
}
