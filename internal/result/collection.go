package result

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidArgument is returned for nil messages and for failures
	// without an Error or NotFound message.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrAmbiguousSingle is the panic value of ToSingle when more than one
	// element is present.
	ErrAmbiguousSingle = errors.New("sequence contains more than one element")
)

// MessageCollection is an ordered, append-only list of messages
type MessageCollection struct {
	messages []*Message
}

// NewMessageCollection creates a collection holding msgs. It panics if any
// of them is nil.
func NewMessageCollection(msgs ...*Message) *MessageCollection {
	c := &MessageCollection{}
	if err := c.AddAll(msgs); err != nil {
		panic(err)
	}
	return c
}

// Len returns the number of messages
func (c *MessageCollection) Len() int {
	if c == nil {
		return 0
	}
	return len(c.messages)
}

// All returns the messages in insertion order
func (c *MessageCollection) All() []*Message {
	if c == nil {
		return nil
	}
	out := make([]*Message, len(c.messages))
	copy(out, c.messages)
	return out
}

// Clone returns an independent collection with the same messages
func (c *MessageCollection) Clone() *MessageCollection {
	return &MessageCollection{messages: c.All()}
}

// ============================================================================
// Appending
// ============================================================================

// Add appends a message
func (c *MessageCollection) Add(m *Message) error {
	if m == nil {
		return fmt.Errorf("%w: nil message", ErrInvalidArgument)
	}
	c.messages = append(c.messages, m)
	return nil
}

// AddErr appends err as an Error message
func (c *MessageCollection) AddErr(err error, opts ...Option) error {
	if err == nil {
		return fmt.Errorf("%w: nil error", ErrInvalidArgument)
	}
	return c.Add(Error(err.Error(), opts...))
}

// AddAll appends msgs. Nothing is appended if any of them is nil.
func (c *MessageCollection) AddAll(msgs []*Message) error {
	for i, m := range msgs {
		if m == nil {
			return fmt.Errorf("%w: nil message at index %d", ErrInvalidArgument, i)
		}
	}
	c.messages = append(c.messages, msgs...)
	return nil
}

// AddRange appends every message of other. A nil other is a no-op.
func (c *MessageCollection) AddRange(other *MessageCollection) {
	if other == nil {
		return
	}
	c.messages = append(c.messages, other.messages...)
}

// AddNotFound appends a NotFound message
func (c *MessageCollection) AddNotFound(text string, opts ...Option) {
	c.messages = append(c.messages, NotFound(text, opts...))
}

// AddSuccess appends a Success message
func (c *MessageCollection) AddSuccess(text string, opts ...Option) {
	c.messages = append(c.messages, SuccessMessage(text, opts...))
}

// AddInformation appends an Information message
func (c *MessageCollection) AddInformation(text string, opts ...Option) {
	c.messages = append(c.messages, Information(text, opts...))
}

// AddWarning appends a Warning message
func (c *MessageCollection) AddWarning(text string, opts ...Option) {
	c.messages = append(c.messages, Warning(text, opts...))
}

// AddError appends an Error message
func (c *MessageCollection) AddError(text string, opts ...Option) {
	c.messages = append(c.messages, Error(text, opts...))
}

// AddTexts appends one message of type typ per text, sharing opts
func (c *MessageCollection) AddTexts(typ MessageType, texts []string, opts ...Option) {
	for _, text := range texts {
		c.messages = append(c.messages, NewMessage(typ, text, opts...))
	}
}

// AddErrors appends one Error message per text
func (c *MessageCollection) AddErrors(texts []string, opts ...Option) {
	c.AddTexts(TypeError, texts, opts...)
}

// AddWarnings appends one Warning message per text
func (c *MessageCollection) AddWarnings(texts []string, opts ...Option) {
	c.AddTexts(TypeWarning, texts, opts...)
}

// AddInformations appends one Information message per text
func (c *MessageCollection) AddInformations(texts []string, opts ...Option) {
	c.AddTexts(TypeInformation, texts, opts...)
}

// ============================================================================
// Queries
// ============================================================================

// OfType returns the messages of a single severity in insertion order
func (c *MessageCollection) OfType(typ MessageType) []*Message {
	var out []*Message
	if c == nil {
		return out
	}
	for _, m := range c.messages {
		if m.typ == typ {
			out = append(out, m)
		}
	}
	return out
}

func (c *MessageCollection) has(typ MessageType) bool {
	if c == nil {
		return false
	}
	for _, m := range c.messages {
		if m.typ == typ {
			return true
		}
	}
	return false
}

func (c *MessageCollection) NotFounds() []*Message    { return c.OfType(TypeNotFound) }
func (c *MessageCollection) Successes() []*Message    { return c.OfType(TypeSuccess) }
func (c *MessageCollection) Informations() []*Message { return c.OfType(TypeInformation) }
func (c *MessageCollection) Warnings() []*Message     { return c.OfType(TypeWarning) }
func (c *MessageCollection) Errors() []*Message       { return c.OfType(TypeError) }

func (c *MessageCollection) HasNotFounds() bool    { return c.has(TypeNotFound) }
func (c *MessageCollection) HasSuccesses() bool    { return c.has(TypeSuccess) }
func (c *MessageCollection) HasInformations() bool { return c.has(TypeInformation) }
func (c *MessageCollection) HasWarnings() bool     { return c.has(TypeWarning) }
func (c *MessageCollection) HasErrors() bool       { return c.has(TypeError) }

// canFail reports whether the collection may back a failed result
func (c *MessageCollection) canFail() bool {
	return c.HasErrors() || c.HasNotFounds()
}

// HighestSeverity returns the most severe type present, or TypeInformation
// for an empty collection.
func (c *MessageCollection) HighestSeverity() MessageType {
	if c.Len() == 0 {
		return TypeInformation
	}
	highest := c.messages[0].typ
	for _, m := range c.messages[1:] {
		if m.typ > highest {
			highest = m.typ
		}
	}
	return highest
}

// Texts returns the message texts in insertion order
func (c *MessageCollection) Texts() []string {
	out := make([]string, 0, c.Len())
	for _, m := range c.All() {
		out = append(out, m.text)
	}
	return out
}

// String renders one message per line
func (c *MessageCollection) String() string {
	lines := make([]string, 0, c.Len())
	for _, m := range c.All() {
		lines = append(lines, m.String())
	}
	return strings.Join(lines, "\n")
}

// MarshalJSON renders the collection as a JSON array
func (c *MessageCollection) MarshalJSON() ([]byte, error) {
	msgs := c.All()
	if msgs == nil {
		msgs = []*Message{}
	}
	return json.Marshal(msgs)
}
