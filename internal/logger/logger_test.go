package logger_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/randel-bjorkquist/pluralsight/internal/logger"
	"github.com/randel-bjorkquist/pluralsight/internal/result"
)

func TestLog(t *testing.T) {
	buff := bytes.NewBuffer([]byte{})
	templogger, err := logger.New().FromWriter(buff).Make()
	require.NoError(t, err)
	require.NotNil(t, templogger)

	require.Equal(t, 0, buff.Len())
	templogger.Logger.Info().Msg("Test")
	require.Contains(t, buff.String(), "Test")

	templogger.Logger.Debug().Msg("hidden")
	require.NotContains(t, buff.String(), "hidden")
}

func TestLogToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "contacts.log")
	templogger, err := logger.New().FromPath(path).Level(zerolog.DebugLevel).Make()
	require.NoError(t, err)

	templogger.Logger.Debug().Str("op", "contact.create").Msg("statement")
	require.NoError(t, templogger.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), `"op":"contact.create"`)
}

func TestParseLevel(t *testing.T) {
	require.Equal(t, zerolog.DebugLevel, logger.ParseLevel("DEBUG"))
	require.Equal(t, zerolog.WarnLevel, logger.ParseLevel(" warn "))
	require.Equal(t, zerolog.InfoLevel, logger.ParseLevel("loud"))
	require.Equal(t, zerolog.InfoLevel, logger.ParseLevel(""))
}

func TestMessages(t *testing.T) {
	buff := bytes.NewBuffer([]byte{})
	templogger, err := logger.New().FromWriter(buff).Level(zerolog.DebugLevel).Make()
	require.NoError(t, err)

	msgs := result.NewMessageCollection(
		result.Error("create contact: disk full", result.WithCode("CONTACT_CREATE_FAILED")),
		result.Warning("slow"),
	)
	logger.Messages(templogger.Logger, msgs)

	lines := strings.Split(strings.TrimSpace(buff.String()), "\n")
	require.Len(t, lines, 2)

	var first map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	require.Equal(t, "error", first["level"])
	require.Equal(t, "CONTACT_CREATE_FAILED", first["code"])
	require.Equal(t, "create contact: disk full", first["message"])

	var second map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &second))
	require.Equal(t, "warn", second["level"])
	require.NotContains(t, second, "code")
}
