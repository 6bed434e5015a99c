package gelf

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"time"
)

// Sink interface defines the Dispatcher API consumed by the Handler.
type Sink interface {
	Enqueue(*Message) error
	Shutdown(context.Context) error
}

// field is one pre-resolved additional field inherited via WithAttrs.
type field struct {
	key   string
	value any
}

// Handler is an adapter that converts Go structured logs into GELF
// messages and hands them to a Dispatcher.
//
//	// Example of basic usage
//	backend, err := gelf.NewUDPBackend("graylog.internal:12201", nil)
//	if err != nil {
//	   log.Fatalln(err)
//	}
//
//	h := gelf.NewHandler(gelf.NewDispatcher(backend, nil), nil)
//	slog.SetDefault(slog.New(h))
//
//	slog.Info("unrecognized user", "user_id", userID)
//
// Group scopes flatten to dotted key prefixes, since GELF additional
// fields are a flat namespace.
type Handler struct {
	*HandlerOptions
	sink   Sink
	fields []field
	prefix string
}

// NewHandler wraps a Sink (normally a *Dispatcher) in a slog.Handler.
func NewHandler(sink Sink, opts *HandlerOptions) *Handler {
	if opts == nil {
		opts = DefaultHandlerOptions()
	} else {
		opts.resolve()
	}

	return &Handler{
		HandlerOptions: opts,
		sink:           sink,
	}
}

// Shutdown flushes and stops the underlying Dispatcher. You MUST NOT log
// through this handler after calling Shutdown.
func (h *Handler) Shutdown(ctx context.Context) error {
	h.debug("shutting down the shipping stack")
	return h.sink.Shutdown(ctx)
}

func (h *Handler) debug(format string, args ...any) {
	if !h.Verbose {
		return
	}
	InternalLogger().Printf(format, args...)
}

// Enabled reports whether the handler handles records at the given level.
// The handler ignores records whose level is lower.
func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.Level.Level()
}

// WithAttrs returns a new Handler whose messages all carry the given
// attributes as additional fields.
func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	h2 := *h
	h2.fields = append(h.fields[:len(h.fields):len(h.fields)], flatten(h.prefix, attrs, h.TimeFormat)...)
	return &h2
}

// WithGroup returns a new Handler that nests subsequent attribute keys
// under name, rendered as a dotted prefix.
func (h *Handler) WithGroup(name string) slog.Handler {
	if len(name) == 0 {
		return h
	}
	h2 := *h
	h2.prefix = h.prefix + name + "."
	return &h2
}

// Handle converts the Record into a Message and enqueues it. The slog rules
// for zero times, empty attrs, and group inlining apply; a zero record time
// falls back to time.Now() because the GELF timestamp is not optional in
// practice (collectors otherwise stamp arrival time, which lies under queue
// delay).
func (h *Handler) Handle(_ context.Context, r slog.Record) error {
	short := r.Message
	if len(short) == 0 {
		// GELF requires a non-empty short_message
		short = "(no message)"
	}

	m, err := NewMessage(short, LevelFromSlog(r.Level))
	if err != nil {
		return fmt.Errorf("gelf: failed to build message from record: %w", err)
	}

	t := r.Time
	if t.IsZero() {
		t = time.Now()
	}
	m.SetTimestamp(t)

	if h.AddSource && r.PC != 0 {
		fs := runtime.CallersFrames([]uintptr{r.PC})
		f, _ := fs.Next()
		h.setField(m, "file", f.File)
		h.setField(m, "line", f.Line)
	}

	for _, f := range h.fields {
		h.setField(m, f.key, f.value)
	}

	r.Attrs(func(attr slog.Attr) bool {
		for _, f := range flatten(h.prefix, []slog.Attr{attr}, h.TimeFormat) {
			h.setField(m, f.key, f.value)
		}
		return true // continue iterating
	})

	return h.sink.Enqueue(m)
}

// setField applies the configured collision policy. Under the reject policy
// a colliding attr is dropped and reported, not allowed to fail the whole
// record.
func (h *Handler) setField(m *Message, key string, value any) {
	if err := m.setField(key, value, h.FieldPolicy); err != nil {
		InternalLogger().Printf("dropping record attribute: %v", err)
	}
}

// flatten resolves attrs into additional-field key/value pairs, expanding
// groups into dotted prefixes and applying the slog zero-attr and
// empty-group rules.
func flatten(prefix string, attrs []slog.Attr, timeFormat string) []field {
	var out []field

	for _, attr := range attrs {
		attr.Value = attr.Value.Resolve()

		// rule: ignore empty attrs
		if attr.Equal(slog.Attr{}) {
			continue
		}

		if attr.Value.Kind() == slog.KindGroup {
			group := attr.Value.Group()

			// rule: ignore empty groups
			if len(group) == 0 {
				continue
			}

			// rule: inline groups with empty keys
			p := prefix
			if len(attr.Key) > 0 {
				p = prefix + attr.Key + "."
			}
			out = append(out, flatten(p, group, timeFormat)...)
			continue
		}

		// rule: ignore non-group attrs with empty keys
		if len(attr.Key) == 0 {
			continue
		}

		out = append(out, field{
			key:   prefix + attr.Key,
			value: fieldValue(attr.Value, timeFormat),
		})
	}

	return out
}

// fieldValue converts a slog.Value to a GELF-friendly string, number, or
// bool.
func fieldValue(v slog.Value, timeFormat string) any {
	switch v.Kind() {
	case slog.KindBool:
		return v.Bool()
	case slog.KindInt64:
		return v.Int64()
	case slog.KindUint64:
		return v.Uint64()
	case slog.KindFloat64:
		return v.Float64()
	case slog.KindString:
		return v.String()
	case slog.KindDuration:
		return v.Duration().String()
	case slog.KindTime:
		return v.Time().Format(timeFormat)
	default:
		return fmt.Sprintf("%v", v.Any())
	}
}
