package gelf

// Backend transports one encoded GELF document to the collector. Send
// receives the uncompressed JSON bytes for a single message and is
// responsible for the backend's own codec and framing: compression, UDP
// chunking, or the TCP null terminator. A Backend's connection is owned by
// exactly one Dispatcher worker, so implementations need no locking on the
// send path.
type Backend interface {
	Send(payload []byte) error
	Close() error
}

// NullBackend discards all messages. Useful for tests and benchmarks.
type NullBackend struct{}

// Send is a noop and never fails.
func (NullBackend) Send(payload []byte) error { return nil }

// Close is a noop.
func (NullBackend) Close() error { return nil }
