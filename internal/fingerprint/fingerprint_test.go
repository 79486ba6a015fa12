package fingerprint

import (
	"crypto/sha1"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yousuf/jstrace/internal/jsstack"
)

const trace = `TypeError: Cannot read property 'x' of undefined
    at render (/app/view.js:10:5)
    at Array.forEach (<anonymous>:1:1)
    at main (/app/index.js:4:3)
    at /app/index.js:9:1
`

func parse(t *testing.T, text string) *jsstack.Stacktrace {
	t.Helper()
	st, err := jsstack.NodeJS.ParseStacktrace(text)
	require.NoError(t, err)
	return st
}

func sha1Hex(s string) string {
	sum := sha1.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}

func TestBthash(t *testing.T) {
	st := parse(t, trace)

	text := BthashText(st)
	assert.Equal(t, "/app/view.js, 10, render\n"+
		"<anonymous>, 1, Array.forEach\n"+
		"/app/index.js, 4, main\n"+
		"/app/index.js, 9, UNKNOWN\n", text)
	assert.Equal(t, sha1Hex(text), Bthash(st))

	// Stable across runs and copies.
	assert.Equal(t, Bthash(st), Bthash(parse(t, trace)))
	assert.Equal(t, Bthash(st), Bthash(st.Dup()))
}

func TestDuphash(t *testing.T) {
	st := parse(t, trace)

	plain := Duphash(st, Options{Frames: 3, NoHash: true})
	assert.Equal(t, "/app/view.js:10\n<anonymous>:1\n/app/index.js:4\n", plain)

	assert.Equal(t, sha1Hex(plain), Duphash(st, Options{Frames: 3}))
	assert.Equal(t, "/app/view.js:10\n<anonymous>:1\n/app/index.js:4\n/app/index.js:9\n",
		Duphash(st, Options{NoHash: true}))
	assert.Equal(t, "Node.js\n/app/view.js:10\n",
		Duphash(st, Options{Frames: 1, Prefix: "Node.js", NoHash: true}))
}

func TestDuphashIgnoresFunctionNames(t *testing.T) {
	a := parse(t, "Error: a\n    at first (/app/a.js:1:1)\n    at /app/b.js:2:2")
	b := parse(t, "Error: b\n    at second (/app/a.js:1:9)\n    at other (/app/b.js:2:2)")

	assert.Equal(t, Duphash(a, Options{}), Duphash(b, Options{}))
	assert.NotEqual(t, Bthash(a), Bthash(b))
}

func TestEmptyTrace(t *testing.T) {
	st := &jsstack.Stacktrace{ExceptionName: "Error"}
	assert.Equal(t, "", BthashText(st))
	assert.Equal(t, sha1Hex(""), Bthash(st))
	assert.Equal(t, "", Duphash(st, Options{NoHash: true}))
}
