package gelf

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"time"

	"github.com/bitdabbler/backoff"
)

// TCPOptions are used to customize a TCPBackend.
//
// # Invalid options are coerced
type TCPOptions struct {

	// Network selects plain "tcp" or "tls" (TLS over TCP). The framing is
	// identical for both. The default is "tcp".
	Network string

	// TLSConfig supplies certificate and verification material when
	// Network is "tls". A nil config uses the defaults of crypto/tls.
	TLSConfig *tls.Config

	// Compression selects the codec applied to each payload. The default
	// is CompressNone: a compressed stream can itself contain the 0x00
	// delimiter, so enable this only for collectors configured for it.
	Compression CompressionType

	// CompressionLevel tunes the codec. The default favors throughput
	// (level 1).
	CompressionLevel int

	// DialTimeout sets the timeout for dialing the server. The default is
	// 30s.
	DialTimeout time.Duration

	// MaxDialTries limits reconnect attempts within a single Send after
	// the connection has been torn down. If the value is < 0, Send keeps
	// trying until connected. The default is 3.
	MaxDialTries int

	// WriteTimeout controls the timeout for each write to the server. If
	// WriteTimeout < 0, no deadline is set. The default is 10 seconds.
	WriteTimeout time.Duration

	// MaxWriteTries controls the number of times a write is retried after
	// a timeout before the connection is inferred broken and torn down.
	// This must be > 0. The default is 3.
	MaxWriteTries int

	// Verbose controls whether debug logs are written to the internal
	// logger.
	Verbose bool
}

const (
	defaultNetwork      = "tcp"
	defaultDialTimeout  = time.Second * 30
	defaultDialTries    = 3
	defaultWriteTimeout = time.Second * 10
	defaultWriteTries   = 3
)

// DefaultTCPOptions returns *TCPOptions with all default values.
func DefaultTCPOptions() *TCPOptions {
	return &TCPOptions{
		Network:       defaultNetwork,
		DialTimeout:   defaultDialTimeout,
		MaxDialTries:  defaultDialTries,
		WriteTimeout:  defaultWriteTimeout,
		MaxWriteTries: defaultWriteTries,
	}
}

// resolve ensures that all options have valid values.
func (o *TCPOptions) resolve() {

	// only plain or TLS streams; UDP has its own backend
	if o.Network != "tcp" && o.Network != "tls" {
		o.Network = defaultNetwork
	}

	if o.Compression < CompressNone || o.Compression > CompressZlib {
		o.Compression = CompressNone
	}

	if o.CompressionLevel == 0 {
		o.CompressionLevel = DefaultCompressionLevel
	}

	// must be positive
	if o.DialTimeout < 1 {
		o.DialTimeout = defaultDialTimeout
	}

	// can be negative (infinity) or positive, but not 0
	if o.MaxDialTries == 0 {
		o.MaxDialTries = defaultDialTries
	}

	// can be negative (no deadline) or positive, but not 0
	if o.WriteTimeout == 0 {
		o.WriteTimeout = defaultWriteTimeout
	}

	// must be positive
	if o.MaxWriteTries < 1 {
		o.MaxWriteTries = defaultWriteTries
	}
}

// TCPBackend ships GELF documents over a TCP or TLS stream, each document
// framed with a single trailing 0x00 byte. Chunking does not apply to
// streams. The backend reconnects transparently on broken pipes; a message
// whose send attempt fails is never partially resent, so the collector sees
// each document at most once.
type TCPBackend struct {
	opts *TCPOptions
	addr string
	conn net.Conn
}

// NewTCPBackend eagerly dials the collector at addr (host:port), returning
// an error if the initial connection cannot be established.
func NewTCPBackend(addr string, opts *TCPOptions) (*TCPBackend, error) {
	if len(addr) == 0 {
		return nil, fmt.Errorf("gelf: valid tcp address required")
	}

	if opts == nil {
		opts = DefaultTCPOptions()
	} else {
		opts.resolve()
	}

	b := &TCPBackend{opts: opts, addr: addr}
	if err := b.connect(context.Background()); err != nil {
		return nil, err
	}
	return b, nil
}

func (b *TCPBackend) connect(ctx context.Context) error {
	var d net.Dialer
	ctx, cancel := context.WithTimeout(ctx, b.opts.DialTimeout)
	defer cancel()

	switch b.opts.Network {
	case "tcp":
		conn, err := d.DialContext(ctx, "tcp", b.addr)
		if err != nil {
			return fmt.Errorf("gelf: failed to dial collector at %s over tcp: %w", b.addr, err)
		}
		b.conn = conn

	case "tls":
		tlsDialer := tls.Dialer{
			NetDialer: &d,
			Config:    b.opts.TLSConfig,
		}
		conn, err := tlsDialer.DialContext(ctx, "tcp", b.addr)
		if err != nil {
			return fmt.Errorf("gelf: failed to dial collector at %s over tls: %w", b.addr, err)
		}
		b.conn = conn

	default:
		return fmt.Errorf("gelf: unsupported stream transport: %s", b.opts.Network)
	}

	return nil
}

func (b *TCPBackend) tryConnect(maxAttempts int) error {
	bo, err := backoff.New(
		backoff.WithInitialDelay(0),
		backoff.WithExponentialLimit(time.Second*20),
	)
	if err != nil {
		return err
	}

	i := 0
	for {
		i++
		err = b.connect(context.Background())
		if err == nil {
			return nil
		}

		b.debug("failed to connect to collector on attempt %d: %v", i, err)

		if maxAttempts > 0 && i >= maxAttempts {
			break
		}

		bo.Sleep()
	}

	return fmt.Errorf("gelf: failed to connect to collector; maxAttempts reached: %d: %w", maxAttempts, err)
}

// Send compresses the payload with the backend's codec and writes it to the
// stream followed by the 0x00 terminator. A broken connection is torn down
// and redialed on the next attempt; the failed message is reported as a
// single transport error, not resent.
func (b *TCPBackend) Send(payload []byte) error {
	data, err := Compress(payload, b.opts.Compression, b.opts.CompressionLevel)
	if err != nil {
		return err
	}

	// terminate before writing so the frame goes out in one Write
	frame := make([]byte, 0, len(data)+1)
	frame = append(frame, data...)
	frame = append(frame, 0x00)

	if b.conn == nil {
		if err := b.tryConnect(b.opts.MaxDialTries); err != nil {
			return err
		}
	}

	for i := 0; i < b.opts.MaxWriteTries; i++ {
		if b.opts.WriteTimeout > 0 {
			b.conn.SetWriteDeadline(time.Now().Add(b.opts.WriteTimeout))
		}

		n, err := b.conn.Write(frame)
		if err == nil {
			return nil
		}

		// a partially written frame cannot be retried without
		// duplicating bytes in the stream
		if n > 0 {
			b.teardown()
			return fmt.Errorf("gelf: partial write of %d/%d bytes: %w", n, len(frame), err)
		}

		// only timeouts are potentially recoverable
		if ne, ok := err.(net.Error); !(ok && ne.Timeout()) {
			b.teardown()
			return fmt.Errorf("gelf: failed to write message: %w", err)
		}

		b.debug("write attempt %d timed out: %v", i+1, err)
	}

	b.teardown()
	return fmt.Errorf("gelf: failed to write message after %d tries", b.opts.MaxWriteTries)
}

func (b *TCPBackend) teardown() {
	if err := b.conn.Close(); err != nil {
		b.debug("error closing broken connection: %v", err)
	}
	b.conn = nil
}

// Close flushes nothing (writes are unbuffered) and releases the connection.
func (b *TCPBackend) Close() error {
	if b.conn == nil {
		return nil
	}
	err := b.conn.Close()
	b.conn = nil
	return err
}

func (b *TCPBackend) debug(format string, args ...any) {
	if !b.opts.Verbose {
		return
	}
	InternalLogger().Printf(format, args...)
}
