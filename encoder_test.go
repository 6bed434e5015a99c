package gelf

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func decodeDoc(t *testing.T, b []byte) map[string]any {
	t.Helper()

	var doc map[string]any
	require.NoError(t, json.Unmarshal(b, &doc))
	return doc
}

func TestEncodeMinimal(t *testing.T) {
	m, err := NewMessage("boom", LevelError)
	require.NoError(t, err)

	b, err := Encode(m, "h1")
	require.NoError(t, err)

	doc := decodeDoc(t, b)
	require.Equal(t, "1.1", doc["version"])
	require.Equal(t, "h1", doc["host"])
	require.Equal(t, "boom", doc["short_message"])
	require.Equal(t, float64(3), doc["level"])

	// optional fields are omitted, not nulled
	require.NotContains(t, doc, "full_message")
	require.NotContains(t, doc, "timestamp")
}

func TestEncodeRoundTrip(t *testing.T) {
	ts := time.Unix(1700000000, 250_000_000)

	m, err := NewMessage("boom", LevelWarning)
	require.NoError(t, err)
	m.SetFullMessage("boom\ndetails").SetTimestamp(ts)

	require.NoError(t, m.SetField("user", "u-123"))
	require.NoError(t, m.SetField("attempt", 3))
	require.NoError(t, m.SetField("ratio", 0.5))
	require.NoError(t, m.SetField("cached", true))

	b, err := Encode(m, "h1")
	require.NoError(t, err)

	doc := decodeDoc(t, b)
	require.Equal(t, "boom\ndetails", doc["full_message"])
	require.InDelta(t, 1700000000.25, doc["timestamp"], 0.001)

	// additional fields round-trip with the wire prefix applied
	require.Equal(t, "u-123", doc["_user"])
	require.Equal(t, float64(3), doc["_attempt"])
	require.Equal(t, 0.5, doc["_ratio"])
	require.Equal(t, true, doc["_cached"])

	// unprefixed keys must not leak onto the wire
	require.NotContains(t, doc, "user")
	require.NotContains(t, doc, "attempt")
}

func TestEncodeHostPrecedence(t *testing.T) {
	m, err := NewMessage("boom", LevelInfo)
	require.NoError(t, err)
	m.SetHost("override")

	b, err := Encode(m, "default")
	require.NoError(t, err)
	require.Equal(t, "override", decodeDoc(t, b)["host"])
}

func TestEncodeRequiresHost(t *testing.T) {
	m, err := NewMessage("boom", LevelInfo)
	require.NoError(t, err)

	_, err = Encode(m, "")
	require.Error(t, err)
}

func TestEncodeDeterministic(t *testing.T) {
	m, err := NewMessage("boom", LevelInfo)
	require.NoError(t, err)
	require.NoError(t, m.SetField("b", 2))
	require.NoError(t, m.SetField("a", 1))
	require.NoError(t, m.SetField("c", 3))

	first, err := Encode(m, "h1")
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		again, err := Encode(m, "h1")
		require.NoError(t, err)
		require.Equal(t, first, again)
	}
}
