package gelf

import (
	"crypto/rand"
	"fmt"
	"io"
	"net"
)

// UDPOptions are used to customize a UDPBackend.
//
// # Invalid options are coerced
//
// NB: The struct pointer options approach is used to be consistent with the
// options used elsewhere in the package.
type UDPOptions struct {

	// ChunkSize bounds the payload bytes carried per datagram. Payloads at
	// or under this size are sent as a single unchunked datagram; larger
	// payloads are split per the GELF chunking protocol, with the 12-byte
	// chunk header on top of each slice. The default is ChunkSizeWAN.
	ChunkSize int

	// Compression selects the codec applied to each payload before
	// chunking. The default is CompressGzip.
	Compression CompressionType

	// CompressionLevel tunes the codec. The default favors throughput
	// (level 1). To skip compression entirely use CompressNone.
	CompressionLevel int

	// Rand is the source for chunked-message ids. The default is
	// crypto/rand. Tests inject a deterministic reader to make chunking
	// scenarios reproducible.
	Rand io.Reader
}

// DefaultUDPOptions returns *UDPOptions with all default values.
func DefaultUDPOptions() *UDPOptions {
	return &UDPOptions{
		ChunkSize:        ChunkSizeWAN,
		Compression:      CompressGzip,
		CompressionLevel: DefaultCompressionLevel,
		Rand:             rand.Reader,
	}
}

// resolve ensures that all options have valid values.
func (o *UDPOptions) resolve() {

	// must leave room for at least one payload byte per chunk
	if o.ChunkSize < 1 {
		o.ChunkSize = ChunkSizeWAN
	}

	if o.Compression < CompressNone || o.Compression > CompressZlib {
		o.Compression = CompressGzip
	}

	if o.CompressionLevel == 0 {
		o.CompressionLevel = DefaultCompressionLevel
	}

	if o.Rand == nil {
		o.Rand = rand.Reader
	}
}

// UDPBackend ships GELF documents as UDP datagrams, one per chunk or
// unchunked frame. Datagram loss is invisible to the sender; Send only fails
// on local socket errors or when a payload exceeds the 128-chunk ceiling.
type UDPBackend struct {
	opts *UDPOptions
	conn net.Conn
}

// NewUDPBackend resolves addr (host:port) and opens the datagram socket.
func NewUDPBackend(addr string, opts *UDPOptions) (*UDPBackend, error) {
	if len(addr) == 0 {
		return nil, fmt.Errorf("gelf: valid udp address required")
	}

	if opts == nil {
		opts = DefaultUDPOptions()
	} else {
		opts.resolve()
	}

	conn, err := net.Dial("udp", addr)
	if err != nil {
		return nil, fmt.Errorf("gelf: failed to dial udp address %s: %w", addr, err)
	}

	return &UDPBackend{opts: opts, conn: conn}, nil
}

// Send compresses the payload with the backend's codec, splits it into
// datagrams if needed, and writes them in ascending sequence order. On a
// MessageTooLargeError nothing is written.
func (b *UDPBackend) Send(payload []byte) error {
	data, err := Compress(payload, b.opts.Compression, b.opts.CompressionLevel)
	if err != nil {
		return err
	}

	// reserve the id before framing so a failed read sends nothing
	var id [8]byte
	if len(data) > b.opts.ChunkSize {
		if id, err = NewMessageID(b.opts.Rand); err != nil {
			return err
		}
	}

	chunks, err := SplitChunks(data, b.opts.ChunkSize, id)
	if err != nil {
		return err
	}

	for seq, chunk := range chunks {
		if _, err := b.conn.Write(chunk); err != nil {
			return fmt.Errorf("gelf: failed to write udp chunk %d/%d: %w", seq, len(chunks), err)
		}
	}

	return nil
}

// Close releases the socket.
func (b *UDPBackend) Close() error {
	return b.conn.Close()
}
