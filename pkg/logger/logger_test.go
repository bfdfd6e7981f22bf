package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, parseLevel("DEBUG"))
	assert.Equal(t, zerolog.WarnLevel, parseLevel(" warn "))
	assert.Equal(t, zerolog.InfoLevel, parseLevel("no-existe"))
	assert.Equal(t, zerolog.InfoLevel, parseLevel(""))
}

func TestNew_JSONConApp(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Env: "production", Level: "info", AppName: "stock-ledger-api", Out: &buf})

	l.Info().Str("warehouse_id", "wh-1").Msg("stock ajustado")
	l.Debug().Msg("no debe salir")

	var line map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line), "una sola línea JSON")
	assert.Equal(t, "stock-ledger-api", line["app"])
	assert.Equal(t, "wh-1", line["warehouse_id"])
	assert.Equal(t, "info", line["level"])
}
