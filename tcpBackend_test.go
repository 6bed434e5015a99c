package gelf

import (
	"bufio"
	"bytes"
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type tcpReader struct {
	ln     net.Listener
	frames chan []byte
}

// newTCPReader accepts connections on loopback and splits each stream into
// null-terminated GELF frames.
func newTCPReader(t *testing.T) *tcpReader {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })

	r := &tcpReader{ln: ln, frames: make(chan []byte, 16)}

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go r.readFrames(conn)
		}
	}()

	return r
}

func (r *tcpReader) readFrames(conn net.Conn) {
	defer conn.Close()

	sc := bufio.NewScanner(conn)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	sc.Split(func(data []byte, atEOF bool) (int, []byte, error) {
		if i := bytes.IndexByte(data, 0x00); i >= 0 {
			return i + 1, data[:i], nil
		}
		return 0, nil, nil
	})

	for sc.Scan() {
		r.frames <- append([]byte(nil), sc.Bytes()...)
	}
}

func (r *tcpReader) addr() string { return r.ln.Addr().String() }

func (r *tcpReader) next(t *testing.T) []byte {
	t.Helper()

	select {
	case f := <-r.frames:
		return f
	case <-time.After(2 * time.Second):
		t.Fatal("no frame received in time")
		return nil
	}
}

func TestNewTCPBackend(t *testing.T) {
	b, err := NewTCPBackend("", nil)
	require.Error(t, err)
	require.Nil(t, b)
}

func TestTCPOptionsResolve(t *testing.T) {
	o := &TCPOptions{Network: "udp", MaxWriteTries: -1}
	o.resolve()

	require.Equal(t, "tcp", o.Network)
	require.Equal(t, defaultDialTimeout, o.DialTimeout)
	require.Equal(t, defaultWriteTimeout, o.WriteTimeout)
	require.Equal(t, defaultWriteTries, o.MaxWriteTries)
	require.Equal(t, CompressNone, o.Compression)
}

func TestTCPFraming(t *testing.T) {
	r := newTCPReader(t)

	backend, err := NewTCPBackend(r.addr(), nil)
	require.NoError(t, err)
	defer backend.Close()

	for _, short := range []string{"first", "second"} {
		m, err := NewMessage(short, LevelInfo)
		require.NoError(t, err)

		payload, err := Encode(m, "h1")
		require.NoError(t, err)
		require.NoError(t, backend.Send(payload))
	}

	first := decodeDoc(t, r.next(t))
	require.Equal(t, "first", first["short_message"])

	second := decodeDoc(t, r.next(t))
	require.Equal(t, "second", second["short_message"])
}

func TestTCPReconnect(t *testing.T) {
	r := newTCPReader(t)

	backend, err := NewTCPBackend(r.addr(), &TCPOptions{MaxDialTries: 3})
	require.NoError(t, err)
	defer backend.Close()

	// simulate a prior teardown; the next Send must redial transparently
	require.NoError(t, backend.conn.Close())
	backend.conn = nil

	m, err := NewMessage("after reconnect", LevelInfo)
	require.NoError(t, err)

	payload, err := Encode(m, "h1")
	require.NoError(t, err)
	require.NoError(t, backend.Send(payload))

	doc := decodeDoc(t, r.next(t))
	require.Equal(t, "after reconnect", doc["short_message"])
}

func TestTCPDispatcherEndToEnd(t *testing.T) {
	r := newTCPReader(t)

	backend, err := NewTCPBackend(r.addr(), nil)
	require.NoError(t, err)

	d := NewDispatcher(backend, &DispatcherOptions{Host: "h1"})

	for _, short := range []string{"one", "two", "three"} {
		m, err := NewMessage(short, LevelNotice)
		require.NoError(t, err)
		require.NoError(t, d.Enqueue(m))
	}

	// FIFO enqueue order is preserved on the wire
	for _, want := range []string{"one", "two", "three"} {
		doc := decodeDoc(t, r.next(t))
		require.Equal(t, want, doc["short_message"])
		require.Equal(t, float64(LevelNotice), doc["level"])
	}

	require.NoError(t, d.Shutdown(context.Background()))
	require.Equal(t, uint64(3), d.Stats().Sent)
}
