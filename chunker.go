package gelf

import (
	"crypto/rand"
	"fmt"
	"io"
)

// GELF UDP chunking protocol constants. A chunked datagram carries a
// 12-byte header (magic + message id + seq + count) followed by a slice of
// the encoded payload.
const (
	// ChunkSizeLAN bounds the payload slice per chunk for LAN-grade MTUs.
	ChunkSizeLAN = 8154

	// ChunkSizeWAN bounds the payload slice per chunk so that the full
	// datagram stays under common WAN path MTUs. This is the default.
	ChunkSizeWAN = 1420

	chunkHeaderLen = 12

	// maxChunkCount is limited by the protocol to a maximum of 128
	// chunks per message; the sequence count is a single byte.
	maxChunkCount = 128
)

// magicChunked identifies a GELF chunk datagram.
var magicChunked = [2]byte{0x1e, 0x0f}

// NewMessageID reads 8 random bytes from r for use as a chunked-message id.
// Uniqueness is best-effort via randomness; the protocol accepts this. A nil
// r falls back to crypto/rand.
func NewMessageID(r io.Reader) ([8]byte, error) {
	if r == nil {
		r = rand.Reader
	}
	var id [8]byte
	if _, err := io.ReadFull(r, id[:]); err != nil {
		return id, fmt.Errorf("gelf: failed to generate chunk message id: %w", err)
	}
	return id, nil
}

// ChunkCount returns the number of datagrams needed to carry a payload with
// the given per-chunk payload size, or a MessageTooLargeError past the
// 128-chunk protocol ceiling.
func ChunkCount(payloadLen, chunkSize int) (int, error) {
	if chunkSize <= 0 {
		return 0, fmt.Errorf("gelf: illegal chunk size: %d", chunkSize)
	}
	if payloadLen <= chunkSize {
		return 1, nil
	}
	n := (payloadLen + chunkSize - 1) / chunkSize
	if n > maxChunkCount {
		return 0, MessageTooLargeError{PayloadLen: payloadLen, ChunkSize: chunkSize}
	}
	return n, nil
}

// SplitChunks frames an encoded payload into transport datagrams. Payloads
// that fit in a single chunk are returned as one unframed datagram, wire
// compatible with non-chunked GELF receivers. Larger payloads are split into
// sequence-ordered chunks sharing the given message id, each prefixed with
// the 12-byte chunk header. The concatenation of the payload slices in
// sequence order reproduces the input exactly.
func SplitChunks(payload []byte, chunkSize int, id [8]byte) ([][]byte, error) {
	n, err := ChunkCount(len(payload), chunkSize)
	if err != nil {
		return nil, err
	}

	if n == 1 {
		return [][]byte{payload}, nil
	}

	chunks := make([][]byte, 0, n)
	for seq := 0; seq < n; seq++ {
		start := seq * chunkSize
		end := min(start+chunkSize, len(payload))

		chunk := make([]byte, 0, chunkHeaderLen+(end-start))
		chunk = append(chunk, magicChunked[0], magicChunked[1])
		chunk = append(chunk, id[:]...)
		chunk = append(chunk, byte(seq), byte(n))
		chunk = append(chunk, payload[start:end]...)

		chunks = append(chunks, chunk)
	}

	return chunks, nil
}
