package gelf

import (
	"time"
)

// reservedFields are the GELF field names that additional fields must not
// shadow. The `_`-prefix applied on the wire does not lift the restriction
// for `id`: `_id` is explicitly forbidden by the GELF spec.
var reservedFields = map[string]bool{
	"id":            true,
	"version":       true,
	"host":          true,
	"short_message": true,
	"full_message":  true,
	"timestamp":     true,
	"level":         true,
}

// FieldPolicy governs what SetField does with an additional field whose name
// collides with a reserved GELF field.
type FieldPolicy int

const (
	// FieldPolicyReject makes reserved-name collisions an error. This is the
	// default.
	FieldPolicyReject FieldPolicy = iota

	// FieldPolicyRename deterministically renames colliding keys by
	// appending "_" (so `id` is sent as `_id_`).
	FieldPolicyRename
)

// Message is one GELF log event. Construct it with NewMessage, populate it
// with the Set* methods, and hand it to a Dispatcher. A Message must not be
// modified after it has been enqueued; the worker assumes exclusive
// ownership from that point on.
type Message struct {
	short     string
	full      string
	timestamp time.Time
	level     Level
	host      string
	fields    map[string]any
}

// NewMessage constructs a Message with the required short message and
// severity. It fails with ErrEmptyMessage or InvalidLevelError, which are
// programming errors worth surfacing at the call site.
func NewMessage(short string, level Level) (*Message, error) {
	if len(short) == 0 {
		return nil, ErrEmptyMessage
	}
	if !level.Valid() {
		return nil, InvalidLevelError{Level: level}
	}
	return &Message{short: short, level: level}, nil
}

// Short returns the short_message.
func (m *Message) Short() string { return m.short }

// Full returns the full_message, or "" if unset.
func (m *Message) Full() string { return m.full }

// Level returns the syslog severity.
func (m *Message) Level() Level { return m.level }

// Host returns the origin host, or "" if unset (the Dispatcher fills in its
// default host before encoding).
func (m *Message) Host() string { return m.host }

// Timestamp returns the event time, or the zero time if unset.
func (m *Message) Timestamp() time.Time { return m.timestamp }

// Field returns the additional field with the given (unprefixed) key.
func (m *Message) Field(key string) (any, bool) {
	v, ok := m.fields[key]
	return v, ok
}

// SetFullMessage sets the optional long message body (e.g. a stack trace).
func (m *Message) SetFullMessage(full string) *Message {
	m.full = full
	return m
}

// SetTimestamp sets the event time. If never called, the encoder omits the
// timestamp and the server assigns arrival time.
func (m *Message) SetTimestamp(t time.Time) *Message {
	m.timestamp = t
	return m
}

// SetHost sets the origin host, overriding the Dispatcher default.
func (m *Message) SetHost(host string) *Message {
	m.host = host
	return m
}

// SetField adds an additional field. The key is given without the `_` wire
// prefix, which the encoder applies. Values should be strings, numbers, or
// bools per the GELF spec. Reserved-name collisions are rejected with a
// ReservedFieldError.
func (m *Message) SetField(key string, value any) error {
	return m.setField(key, value, FieldPolicyReject)
}

func (m *Message) setField(key string, value any, policy FieldPolicy) error {
	if reservedFields[key] {
		if policy == FieldPolicyReject {
			return ReservedFieldError{Field: key}
		}
		key += "_"
	}
	if m.fields == nil {
		m.fields = make(map[string]any, 4)
	}
	m.fields[key] = value
	return nil
}
