package jsstack

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngineAndRuntimeNames(t *testing.T) {
	assert.Equal(t, EngineV8, EngineFromString("V8"))
	assert.Equal(t, Engine(0), EngineFromString("v8"))
	assert.Equal(t, Engine(0), EngineFromString(""))
	assert.Equal(t, "V8", EngineV8.String())
	assert.Equal(t, "<unknown>", Engine(0).String())
	assert.Equal(t, "<unknown>", Engine(42).String())

	assert.Equal(t, RuntimeNodeJS, RuntimeFromString("Node.js"))
	assert.Equal(t, Runtime(0), RuntimeFromString("node.js"))
	assert.Equal(t, "Node.js", RuntimeNodeJS.String())
	assert.Equal(t, "<unknown>", Runtime(7).String())

	assert.Equal(t, "V8/Node.js", NodeJS.String())
}

func TestPlatformFromString(t *testing.T) {
	platform, err := PlatformFromString("Node.js", "v8.11.1")
	require.NoError(t, err)
	assert.Equal(t, NodeJS, platform)
	assert.True(t, platform.Valid())

	_, err = PlatformFromString("Deno", "1.40")
	require.Error(t, err)
	assert.Equal(t, "No known JavaScript platform with runtime 'Deno'", err.Error())
}

func TestPlatformValidity(t *testing.T) {
	assert.True(t, Platform{}.IsZero())
	assert.False(t, Platform{}.Valid())
	assert.False(t, Platform{Engine: EngineV8}.Valid())
	assert.False(t, Platform{Engine: Engine(9), Runtime: RuntimeNodeJS}.Valid())
}

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	previous := log.Logger
	log.Logger = zerolog.New(&buf)
	t.Cleanup(func() { log.Logger = previous })
	return &buf
}

func TestInvalidPlatformIsLogged(t *testing.T) {
	buf := captureLog(t)

	frame, _, err := Platform{Engine: Engine(9), Runtime: RuntimeNodeJS}.ParseFrame("at a.js:1:1")
	assert.Nil(t, frame)
	assert.ErrorIs(t, err, ErrInvalidPlatform)
	assert.Contains(t, buf.String(), "Invalid JavaScript engine code 9")
	assert.Contains(t, buf.String(), `"level":"warn"`)

	buf.Reset()
	trace, err := Platform{}.ParseStacktrace("Error: x\n    at a.js:1:1")
	assert.Nil(t, trace)
	assert.ErrorIs(t, err, ErrInvalidPlatform)
	assert.Contains(t, buf.String(), "Invalid JavaScript runtime code 0")
}
