package gelf

import (
	"log/slog"
	"time"
)

// HandlerOptions are used to customize the GELF slog.Handler.
//
// NB: The struct pointer options approach is used to be consistent with the
// `HandlerOptions` used by log/slog.
type HandlerOptions struct {

	// Level reports the minimum record level that will be logged. The
	// handler discards records with lower levels. If Level is nil, the
	// handler assumes LevelInfo. To adjust the minimum level dynamically,
	// use a LevelVar.
	Level slog.Leveler

	// AddSource causes the handler to compute the source code position of
	// the log statement and add it as the `_file` and `_line` additional
	// fields.
	AddSource bool

	// FieldPolicy controls what happens to record attributes whose keys
	// collide with reserved GELF field names. FieldPolicyReject drops the
	// attribute and reports it through the internal logger;
	// FieldPolicyRename keeps it under a deterministically renamed key.
	// The default is FieldPolicyReject.
	FieldPolicy FieldPolicy

	// TimeFormat controls how time values inside log content are
	// serialized. This does not affect the message timestamp, whose format
	// is fixed by the GELF spec. The default is time.RFC3339Nano.
	TimeFormat string

	// Verbose controls whether debug logs are written to the internal
	// logger.
	Verbose bool
}

const defaultTimeFormat = time.RFC3339Nano

// DefaultHandlerOptions returns *HandlerOptions with all default values.
func DefaultHandlerOptions() *HandlerOptions {
	return &HandlerOptions{
		Level:      slog.LevelInfo,
		TimeFormat: defaultTimeFormat,
	}
}

// resolve ensures that all options have valid values.
func (o *HandlerOptions) resolve() {

	// set default log level if not provided
	if o.Level == nil {
		o.Level = slog.LevelInfo
	}

	if o.FieldPolicy != FieldPolicyReject && o.FieldPolicy != FieldPolicyRename {
		o.FieldPolicy = FieldPolicyReject
	}

	if len(o.TimeFormat) == 0 {
		o.TimeFormat = defaultTimeFormat
	}
}
