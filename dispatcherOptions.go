package gelf

import (
	"os"
	"time"
)

// OverflowPolicy governs producer behavior when the dispatch queue is at
// capacity.
type OverflowPolicy int

const (
	// OverflowBlock blocks the enqueueing caller until queue space frees
	// up, bounded by EnqueueTimeout when one is set. This is the default.
	OverflowBlock OverflowPolicy = iota

	// OverflowDropNewest drops the incoming message and increments the
	// dropped counter.
	OverflowDropNewest

	// OverflowDropOldest evicts the oldest queued message to make room for
	// the incoming one.
	OverflowDropOldest
)

// DispatcherOptions are used to customize a Dispatcher.
//
// # Invalid options are coerced
type DispatcherOptions struct {

	// Host supplies the GELF `host` field for messages that do not carry
	// their own. The default is os.Hostname.
	Host string

	// QueueCapacity bounds the number of messages buffered between logging
	// call sites and the delivery worker. The default is 256.
	QueueCapacity int

	// Overflow selects what happens when the queue is full. The default is
	// OverflowBlock.
	Overflow OverflowPolicy

	// EnqueueTimeout bounds how long Enqueue blocks under OverflowBlock
	// before failing with ErrQueueFull. Zero blocks without bound. Ignored
	// by the drop policies.
	EnqueueTimeout time.Duration

	// FlushTimeout bounds the Shutdown drain when the caller's context
	// carries no deadline of its own. The default is 5 seconds.
	FlushTimeout time.Duration

	// Verbose controls whether debug logs are written to the internal
	// logger.
	Verbose bool
}

const (
	defaultQueueCapacity = 256
	defaultFlushTimeout  = time.Second * 5
)

// DefaultDispatcherOptions returns *DispatcherOptions with all default
// values.
func DefaultDispatcherOptions() *DispatcherOptions {
	return &DispatcherOptions{
		QueueCapacity: defaultQueueCapacity,
		FlushTimeout:  defaultFlushTimeout,
	}
}

// resolve ensures that all options have valid values.
func (o *DispatcherOptions) resolve() {

	if len(o.Host) == 0 {
		if host, err := os.Hostname(); err == nil {
			o.Host = host
		} else {
			o.Host = "localhost"
		}
	}

	// must buffer at least one message
	if o.QueueCapacity < 1 {
		o.QueueCapacity = defaultQueueCapacity
	}

	if o.Overflow < OverflowBlock || o.Overflow > OverflowDropOldest {
		o.Overflow = OverflowBlock
	}

	// must be positive
	if o.FlushTimeout < 1 {
		o.FlushTimeout = defaultFlushTimeout
	}
}
