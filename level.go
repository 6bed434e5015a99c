package gelf

import (
	"fmt"
	"log/slog"
)

// Level is a syslog severity as used by the GELF `level` field. Lower values
// are more severe.
type Level int

const (
	LevelEmergency Level = iota
	LevelAlert
	LevelCritical
	LevelError
	LevelWarning
	LevelNotice
	LevelInfo
	LevelDebug
)

// Valid reports whether the level is within the syslog range 0..7.
func (l Level) Valid() bool { return l >= LevelEmergency && l <= LevelDebug }

// String returns the human-readable name of the level.
func (l Level) String() string {
	switch l {
	case LevelEmergency:
		return "emergency"
	case LevelAlert:
		return "alert"
	case LevelCritical:
		return "critical"
	case LevelError:
		return "error"
	case LevelWarning:
		return "warning"
	case LevelNotice:
		return "notice"
	case LevelInfo:
		return "info"
	case LevelDebug:
		return "debug"
	default:
		return fmt.Sprintf("unknown(%d)", int(l))
	}
}

// ParseLevel parses a level from its string representation.
func ParseLevel(name string) (Level, error) {
	for l := LevelEmergency; l <= LevelDebug; l++ {
		if l.String() == name {
			return l, nil
		}
	}
	return 0, fmt.Errorf("unknown GELF level: %q", name)
}

// LevelFromSlog maps a slog.Level onto the syslog scale. Levels between the
// four standard slog levels map to the nearest less-severe syslog level, and
// levels above slog.LevelError map to critical.
func LevelFromSlog(l slog.Level) Level {
	switch {
	case l >= slog.LevelError+4:
		return LevelCritical
	case l >= slog.LevelError:
		return LevelError
	case l >= slog.LevelWarn:
		return LevelWarning
	case l >= slog.LevelInfo:
		return LevelInfo
	default:
		return LevelDebug
	}
}
