package gelf

import (
	"bytes"
	"fmt"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"
)

// CompressionType selects the codec applied to encoded payloads before they
// hit the wire. The codec is fixed per Backend instance, not per message.
type CompressionType int

const (
	CompressNone CompressionType = iota
	CompressGzip
	CompressZlib
)

// DefaultCompressionLevel favors throughput over ratio; log shipping is
// latency-sensitive and collectors decompress cheaply.
const DefaultCompressionLevel = gzip.BestSpeed

// String returns the human-readable name of the compression type.
func (ct CompressionType) String() string {
	switch ct {
	case CompressNone:
		return "none"
	case CompressGzip:
		return "gzip"
	case CompressZlib:
		return "zlib"
	default:
		return fmt.Sprintf("unknown(%d)", int(ct))
	}
}

// ParseCompressionType parses a compression type from its string
// representation.
func ParseCompressionType(name string) (CompressionType, error) {
	switch name {
	case "none":
		return CompressNone, nil
	case "gzip":
		return CompressGzip, nil
	case "zlib":
		return CompressZlib, nil
	default:
		return 0, fmt.Errorf("gelf: unknown compression type: %q", name)
	}
}

// Compress applies the codec to an encoded payload. CompressNone is the
// identity. The gzip and zlib streams are standard-conformant and decodable
// by any stock decompressor on the collector side.
func Compress(payload []byte, ct CompressionType, level int) ([]byte, error) {
	var buf bytes.Buffer

	switch ct {
	case CompressNone:
		return payload, nil

	case CompressGzip:
		w, err := gzip.NewWriterLevel(&buf, level)
		if err != nil {
			return nil, fmt.Errorf("gelf: failed to create gzip writer: %w", err)
		}
		if _, err := w.Write(payload); err != nil {
			return nil, fmt.Errorf("gelf: failed to gzip payload: %w", err)
		}
		if err := w.Close(); err != nil {
			return nil, fmt.Errorf("gelf: failed to flush gzip payload: %w", err)
		}

	case CompressZlib:
		w, err := zlib.NewWriterLevel(&buf, level)
		if err != nil {
			return nil, fmt.Errorf("gelf: failed to create zlib writer: %w", err)
		}
		if _, err := w.Write(payload); err != nil {
			return nil, fmt.Errorf("gelf: failed to zlib-compress payload: %w", err)
		}
		if err := w.Close(); err != nil {
			return nil, fmt.Errorf("gelf: failed to flush zlib payload: %w", err)
		}

	default:
		return nil, fmt.Errorf("gelf: unknown compression type: %d", int(ct))
	}

	return buf.Bytes(), nil
}
