package gelf

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"
)

// DispatcherStats is a snapshot of the delivery counters.
type DispatcherStats struct {
	// Sent counts messages fully written to the backend.
	Sent uint64

	// Dropped counts messages lost to queue overflow, pipeline errors,
	// transport errors, or an expired shutdown drain.
	Dropped uint64
}

// Dispatcher is the asynchronous boundary between logging call sites and
// network I/O. Producers enqueue Messages from any goroutine; exactly one
// worker goroutine drains the bounded FIFO queue and drives the
// encode -> compress -> chunk -> send pipeline. Failures past the queue are
// contained in the worker, counted, and reported via the internal logger,
// never returned to the caller. Each message gets exactly one delivery
// attempt.
type Dispatcher struct {
	opts    *DispatcherOptions
	backend Backend
	queue   chan *Message
	wg      sync.WaitGroup
	closed  atomic.Bool

	sent    atomic.Uint64
	dropped atomic.Uint64
}

// NewDispatcher starts the delivery worker for the given backend. The
// Dispatcher assumes ownership of the backend and closes it on Shutdown.
func NewDispatcher(backend Backend, opts *DispatcherOptions) *Dispatcher {
	if opts == nil {
		opts = DefaultDispatcherOptions()
	}
	opts.resolve()

	d := &Dispatcher{
		opts:    opts,
		backend: backend,
		queue:   make(chan *Message, opts.QueueCapacity),
	}

	d.debug("starting Dispatcher with the resolved DispatcherOptions: %+v", d.opts)

	d.wg.Add(1)
	go d.run()

	return d
}

// run is the single consumer of the queue; it is the only goroutine that
// touches the backend, so the send path needs no locking.
func (d *Dispatcher) run() {
	defer d.wg.Done()

	for m := range d.queue {
		payload, err := Encode(m, d.opts.Host)
		if err != nil {
			d.dropped.Add(1)
			InternalLogger().Printf("dropping message: %v", err)
			continue
		}

		if err := d.backend.Send(payload); err != nil {
			d.dropped.Add(1)
			InternalLogger().Printf("dropping message: %v", err)
			continue
		}

		d.sent.Add(1)
	}

	d.debug("queue drained; closing backend and stopping worker")

	if err := d.backend.Close(); err != nil {
		InternalLogger().Printf("error closing backend: %v", err)
	}
}

// Enqueue places a message into the dispatch queue in FIFO order. It never
// waits on network I/O. When the queue is full, behavior follows the
// configured OverflowPolicy: with OverflowBlock the call blocks (failing
// with ErrQueueFull once EnqueueTimeout expires, if one is set); with the
// drop policies the call returns nil immediately and the loss shows up in
// Stats. Enqueue fails with ErrDispatcherClosed after Shutdown.
func (d *Dispatcher) Enqueue(m *Message) error {
	if m == nil {
		return errors.New("gelf: cannot enqueue a nil message")
	}
	if d.closed.Load() {
		return ErrDispatcherClosed
	}

	switch d.opts.Overflow {
	case OverflowDropNewest:
		select {
		case d.queue <- m:
		default:
			d.dropped.Add(1)
			d.debug("full queue: dropping incoming message: capacity: %d", d.opts.QueueCapacity)
		}
		return nil

	case OverflowDropOldest:
		for {
			select {
			case d.queue <- m:
				return nil
			default:
			}

			// evict one and retry; the worker may win the race, in
			// which case nothing is dropped this round
			select {
			case <-d.queue:
				d.dropped.Add(1)
				d.debug("full queue: evicted oldest message: capacity: %d", d.opts.QueueCapacity)
			default:
			}
		}

	default: // OverflowBlock
		if d.opts.EnqueueTimeout <= 0 {
			d.queue <- m
			return nil
		}

		t := time.NewTimer(d.opts.EnqueueTimeout)
		defer t.Stop()

		select {
		case d.queue <- m:
			return nil
		case <-t.C:
			return ErrQueueFull
		}
	}
}

// Stats returns a snapshot of the delivery counters.
func (d *Dispatcher) Stats() DispatcherStats {
	return DispatcherStats{
		Sent:    d.sent.Load(),
		Dropped: d.dropped.Load(),
	}
}

// Shutdown closes the dispatch queue and blocks until the worker has
// drained it and released the backend, or the deadline expires, whichever
// occurs first. The deadline comes from ctx, falling back to the configured
// FlushTimeout when ctx carries none. Messages still queued past the
// deadline are counted as dropped before the context error is returned, so
// nothing is lost silently. Enqueue must not be called after Shutdown.
func (d *Dispatcher) Shutdown(ctx context.Context) error {
	if d.closed.Swap(true) {
		return ErrDispatcherClosed
	}

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.opts.FlushTimeout)
		defer cancel()
	}

	close(d.queue)
	d.debug("dispatch queue closed; flushing previously enqueued messages")

	doneCh := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(doneCh)
	}()

	select {
	case <-doneCh:
		d.debug("dispatch queue successfully flushed")
		return nil
	case <-ctx.Done():
		// account for everything the worker will no longer deliver
		for range d.queue {
			d.dropped.Add(1)
		}
		return ctx.Err()
	}
}

func (d *Dispatcher) debug(format string, args ...any) {
	if !d.opts.Verbose {
		return
	}
	InternalLogger().Printf(format, args...)
}
