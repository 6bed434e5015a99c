package gelf

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLevelStringParseRoundTrip(t *testing.T) {
	for l := LevelEmergency; l <= LevelDebug; l++ {
		parsed, err := ParseLevel(l.String())
		require.NoError(t, err)
		require.Equal(t, l, parsed)
	}

	_, err := ParseLevel("loud")
	require.Error(t, err)
}

func TestLevelValid(t *testing.T) {
	require.True(t, LevelEmergency.Valid())
	require.True(t, LevelDebug.Valid())
	require.False(t, Level(-1).Valid())
	require.False(t, Level(8).Valid())
}

func TestLevelFromSlog(t *testing.T) {
	cases := []struct {
		in   slog.Level
		want Level
	}{
		{slog.LevelDebug, LevelDebug},
		{slog.LevelDebug - 4, LevelDebug},
		{slog.LevelInfo, LevelInfo},
		{slog.LevelInfo + 1, LevelInfo},
		{slog.LevelWarn, LevelWarning},
		{slog.LevelError, LevelError},
		{slog.LevelError + 4, LevelCritical},
		{slog.LevelError + 8, LevelCritical},
	}

	for _, tc := range cases {
		require.Equalf(t, tc.want, LevelFromSlog(tc.in), "slog level %v", tc.in)
	}
}
