package gelf

import (
	"bytes"
	stdgzip "compress/gzip"
	stdzlib "compress/zlib"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCompressNoneIsIdentity(t *testing.T) {
	payload := []byte(`{"version":"1.1","short_message":"boom"}`)

	out, err := Compress(payload, CompressNone, DefaultCompressionLevel)
	require.NoError(t, err)
	require.Equal(t, payload, out)
}

// The collector is an independent process, so compressed streams must be
// decodable by a stock decompressor; both round trips decode with the
// standard library.
func TestCompressGzipRoundTrip(t *testing.T) {
	payload := bytes.Repeat([]byte("log log log "), 512)

	for level := 1; level <= 9; level++ {
		out, err := Compress(payload, CompressGzip, level)
		require.NoError(t, err)

		r, err := stdgzip.NewReader(bytes.NewReader(out))
		require.NoError(t, err)

		decoded, err := io.ReadAll(r)
		require.NoError(t, err)
		require.NoError(t, r.Close())
		require.Equal(t, payload, decoded)
	}
}

func TestCompressZlibRoundTrip(t *testing.T) {
	payload := bytes.Repeat([]byte("log log log "), 512)

	for level := 1; level <= 9; level++ {
		out, err := Compress(payload, CompressZlib, level)
		require.NoError(t, err)

		r, err := stdzlib.NewReader(bytes.NewReader(out))
		require.NoError(t, err)

		decoded, err := io.ReadAll(r)
		require.NoError(t, err)
		require.NoError(t, r.Close())
		require.Equal(t, payload, decoded)
	}
}

func TestCompressUnknownType(t *testing.T) {
	_, err := Compress([]byte("x"), CompressionType(42), DefaultCompressionLevel)
	require.Error(t, err)
}

func TestCompressionTypeStringParse(t *testing.T) {
	for _, ct := range []CompressionType{CompressNone, CompressGzip, CompressZlib} {
		parsed, err := ParseCompressionType(ct.String())
		require.NoError(t, err)
		require.Equal(t, ct, parsed)
	}

	_, err := ParseCompressionType("brotli")
	require.Error(t, err)
}
