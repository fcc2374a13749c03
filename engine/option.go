package engine

import "time"

type Option func(r *Runtime)

// WithTickInterval sets how often each world ticks. The default is 1 second.
func WithTickInterval(interval time.Duration) Option {
	return func(r *Runtime) {
		r.tickInterval = interval
	}
}

// WithTickChannel sets a shared channel that drives ticks instead of a
// per-world ticker. Tests can pass in a channel they control for fine-grained
// control over when ticks are executed; with more than one world registered,
// worlds will compete for ticks.
func WithTickChannel(ch <-chan time.Time) Option {
	return func(r *Runtime) {
		r.tickChannel = ch
	}
}

// WithTickDoneChannel sets a channel that is notified each time a world
// completes a tick. The completed tick count is pushed to the channel. This
// option is useful in tests when assertions need to be performed at the end
// of a tick.
func WithTickDoneChannel(ch chan<- uint64) Option {
	return func(r *Runtime) {
		r.tickDoneChannel = ch
	}
}
