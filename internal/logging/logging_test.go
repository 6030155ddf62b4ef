package logging_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/petasbytes/moviebot/internal/config"
	"github.com/petasbytes/moviebot/internal/logging"
)

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	log, err := logging.New(config.LogConfig{Level: "warn", Format: "json"}, &buf)
	require.NoError(t, err)

	log.Info().Msg("dropped")
	log.Warn().Str("session_id", "s1").Msg("kept")

	out := buf.Bytes()
	assert.NotContains(t, string(out), "dropped")
	assert.Equal(t, "kept", gjson.GetBytes(out, "message").String())
	assert.Equal(t, "s1", gjson.GetBytes(out, "session_id").String())
	assert.Equal(t, "moviebot", gjson.GetBytes(out, "app").String())
}

func TestNew_Console(t *testing.T) {
	var buf bytes.Buffer
	log, err := logging.New(config.LogConfig{Level: "DEBUG"}, &buf)
	require.NoError(t, err)

	log.Debug().Msg("hello")
	assert.Contains(t, buf.String(), "hello")
	assert.NotContains(t, buf.String(), `"message"`)
}

func TestNew_Rejects(t *testing.T) {
	_, err := logging.New(config.LogConfig{Level: "loud"}, &bytes.Buffer{})
	assert.Error(t, err)
	_, err = logging.New(config.LogConfig{Format: "xml"}, &bytes.Buffer{})
	assert.Error(t, err)
}
