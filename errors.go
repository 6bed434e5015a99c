package gelf

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyMessage is returned by NewMessage when short_message is empty.
	ErrEmptyMessage = errors.New("gelf: short_message must not be empty")

	// ErrQueueFull is returned by Enqueue under OverflowBlock when the queue
	// does not free up within EnqueueTimeout.
	ErrQueueFull = errors.New("gelf: dispatch queue is full")

	// ErrDispatcherClosed is returned by Enqueue after Shutdown has been
	// called.
	ErrDispatcherClosed = errors.New("gelf: dispatcher has been shut down")
)

// InvalidLevelError reports a level outside the syslog range 0..7.
type InvalidLevelError struct{ Level Level }

func (e InvalidLevelError) Error() string {
	return fmt.Sprintf("gelf: level %d outside syslog range 0..7", int(e.Level))
}

// ReservedFieldError reports an additional field whose name collides with a
// reserved GELF field.
type ReservedFieldError struct{ Field string }

func (e ReservedFieldError) Error() string {
	return fmt.Sprintf("gelf: %q is a reserved GELF field name", e.Field)
}

// MessageTooLargeError reports a payload that would exceed the GELF ceiling
// of 128 chunks per message. The message is dropped, never partially sent.
type MessageTooLargeError struct {
	PayloadLen int
	ChunkSize  int
}

func (e MessageTooLargeError) Error() string {
	return fmt.Sprintf("gelf: payload of %d bytes needs more than %d chunks of %d bytes",
		e.PayloadLen, maxChunkCount, e.ChunkSize)
}
