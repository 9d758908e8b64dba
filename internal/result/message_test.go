package result

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessageTextNormalization(t *testing.T) {
	tests := []struct {
		name string
		msg  *Message
		want string
	}{
		{"plain", Error("boom"), "boom"},
		{"trimmed", Warning("  careful  "), "careful"},
		{"error label", Error("ERROR: disk full"), "disk full"},
		{"lower-case label", Error("error:   disk full"), "disk full"},
		{"not found label", NotFound("NOT FOUND: contact 4"), "contact 4"},
		{"foreign label kept", Warning("ERROR: looks bad"), "ERROR: looks bad"},
		{"success label", SuccessMessage("SUCCESS: saved"), "saved"},
		{"information label", Information("INFORMATION: fyi"), "fyi"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.msg.Text())
		})
	}
}

func TestMessageString(t *testing.T) {
	at := time.Date(2024, 3, 9, 14, 5, 6, 0, time.FixedZone("EST", -5*3600))

	m := Error("bad id", WithCode("BAD_ID"), At(at))
	assert.Equal(t, "ERROR: bad id (BAD_ID) at 2024-03-09 19:05:06", m.String())
	assert.Equal(t, time.UTC, m.Timestamp().Location())

	nf := NotFound("gone", At(at))
	assert.Equal(t, "NOT FOUND: gone (N/A) at 2024-03-09 19:05:06", nf.String())
}

func TestMessageDefaultTimestampIsUTC(t *testing.T) {
	m := Information("hello")
	assert.Equal(t, time.UTC, m.Timestamp().Location())
	assert.WithinDuration(t, time.Now(), m.Timestamp(), time.Minute)
}

func TestMessagePrefixed(t *testing.T) {
	m := Error("FirstName is required", WithCode("REQUIRED"))
	p := m.Prefixed("addresses[1]: ")

	assert.Equal(t, "addresses[1]: FirstName is required", p.Text())
	assert.Equal(t, "REQUIRED", p.Code())
	assert.Equal(t, m.Timestamp(), p.Timestamp())
	assert.Equal(t, "FirstName is required", m.Text())
}

func TestMessageTypeOrdering(t *testing.T) {
	assert.True(t, TypeNotFound < TypeSuccess)
	assert.True(t, TypeSuccess < TypeInformation)
	assert.True(t, TypeInformation < TypeWarning)
	assert.True(t, TypeWarning < TypeError)
}

func TestMessageTypeText(t *testing.T) {
	for _, typ := range []MessageType{TypeNotFound, TypeSuccess, TypeInformation, TypeWarning, TypeError} {
		text, err := typ.MarshalText()
		require.NoError(t, err)

		var back MessageType
		require.NoError(t, back.UnmarshalText(text))
		assert.Equal(t, typ, back)
	}

	parsed, err := ParseMessageType("not found")
	require.NoError(t, err)
	assert.Equal(t, TypeNotFound, parsed)

	_, err = ParseMessageType("fatal")
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = MessageType(42).MarshalText()
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestMessageJSON(t *testing.T) {
	at := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	data, err := json.Marshal(Warning("low stock", WithCode("STOCK"), At(at)))
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"Warning","text":"low stock","code":"STOCK","timestamp":"2024-01-02T03:04:05Z"}`, string(data))
}
