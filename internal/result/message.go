package result

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// timestampLayout is used when rendering messages as text
const timestampLayout = "2006-01-02 15:04:05"

// now is replaced in tests
var now = func() time.Time { return time.Now().UTC() }

// Message is a single immutable outcome note
type Message struct {
	typ       MessageType
	text      string
	code      string
	timestamp time.Time
}

// Option customizes a message at construction time
type Option func(*Message)

// WithCode attaches a machine-readable code
func WithCode(code string) Option {
	return func(m *Message) {
		m.code = strings.TrimSpace(code)
	}
}

// At overrides the message timestamp. The value is stored in UTC.
func At(t time.Time) Option {
	return func(m *Message) {
		m.timestamp = t.UTC()
	}
}

// NewMessage creates a message of the given type
func NewMessage(typ MessageType, text string, opts ...Option) *Message {
	m := &Message{
		typ:       typ,
		text:      normalizeText(typ, text),
		timestamp: now(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// NotFound creates a NotFound message
func NotFound(text string, opts ...Option) *Message {
	return NewMessage(TypeNotFound, text, opts...)
}

// SuccessMessage creates a Success message (Success builds a result)
func SuccessMessage(text string, opts ...Option) *Message {
	return NewMessage(TypeSuccess, text, opts...)
}

// Information creates an Information message
func Information(text string, opts ...Option) *Message {
	return NewMessage(TypeInformation, text, opts...)
}

// Warning creates a Warning message
func Warning(text string, opts ...Option) *Message {
	return NewMessage(TypeWarning, text, opts...)
}

// Error creates an Error message
func Error(text string, opts ...Option) *Message {
	return NewMessage(TypeError, text, opts...)
}

// normalizeText trims the text and drops a leading "ERROR:"-style label
// matching the message type.
func normalizeText(typ MessageType, text string) string {
	text = strings.TrimSpace(text)
	label := typ.Label() + ":"
	if len(text) >= len(label) && strings.EqualFold(text[:len(label)], label) {
		text = strings.TrimSpace(text[len(label):])
	}
	return text
}

// Type returns the message severity
func (m *Message) Type() MessageType { return m.typ }

// Text returns the message text
func (m *Message) Text() string { return m.text }

// Code returns the message code, "" when none was given
func (m *Message) Code() string { return m.code }

// Timestamp returns when the message was created (UTC)
func (m *Message) Timestamp() time.Time { return m.timestamp }

// Prefixed returns a copy of m whose text starts with prefix
func (m *Message) Prefixed(prefix string) *Message {
	cp := *m
	cp.text = prefix + m.text
	return &cp
}

// String renders "ERROR: text (CODE) at 2006-01-02 15:04:05"
func (m *Message) String() string {
	code := m.code
	if code == "" {
		code = "N/A"
	}
	return fmt.Sprintf("%s: %s (%s) at %s", m.typ.Label(), m.text, code, m.timestamp.Format(timestampLayout))
}

type messageJSON struct {
	Type      MessageType `json:"type" yaml:"type"`
	Text      string      `json:"text" yaml:"text"`
	Code      string      `json:"code,omitempty" yaml:"code,omitempty"`
	Timestamp time.Time   `json:"timestamp" yaml:"timestamp"`
}

// MarshalJSON implements json.Marshaler
func (m *Message) MarshalJSON() ([]byte, error) {
	return json.Marshal(messageJSON{Type: m.typ, Text: m.text, Code: m.code, Timestamp: m.timestamp})
}

// MarshalYAML implements yaml.Marshaler
func (m *Message) MarshalYAML() (interface{}, error) {
	return messageJSON{Type: m.typ, Text: m.text, Code: m.code, Timestamp: m.timestamp}, nil
}
