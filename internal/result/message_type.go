package result

import (
	"fmt"
	"strings"
)

// MessageType is the severity of a message. Higher values are more severe.
type MessageType int16

const (
	TypeNotFound MessageType = iota
	TypeSuccess
	TypeInformation
	TypeWarning
	TypeError
)

var typeNames = map[MessageType]string{
	TypeNotFound:    "NotFound",
	TypeSuccess:     "Success",
	TypeInformation: "Information",
	TypeWarning:     "Warning",
	TypeError:       "Error",
}

// String returns the type name, e.g. "Warning"
func (t MessageType) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("MessageType(%d)", int16(t))
}

// Label returns the upper-case rendering used in message text, e.g. "NOT FOUND"
func (t MessageType) Label() string {
	if t == TypeNotFound {
		return "NOT FOUND"
	}
	return strings.ToUpper(t.String())
}

// Valid reports whether t is one of the declared types
func (t MessageType) Valid() bool {
	_, ok := typeNames[t]
	return ok
}

// IsFailure reports whether a message of this type can back a failed result
func (t MessageType) IsFailure() bool {
	return t == TypeError || t == TypeNotFound
}

// MarshalText implements encoding.TextMarshaler
func (t MessageType) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("%w: message type %d", ErrInvalidArgument, int16(t))
	}
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Names are case-insensitive.
func (t *MessageType) UnmarshalText(text []byte) error {
	parsed, err := ParseMessageType(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// ParseMessageType converts a type name back into a MessageType
func ParseMessageType(s string) (MessageType, error) {
	key := strings.ReplaceAll(strings.TrimSpace(s), " ", "")
	for t, name := range typeNames {
		if strings.EqualFold(name, key) {
			return t, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown message type %q", ErrInvalidArgument, s)
}
