package sourcemap

import (
	"testing"

	gosourcemap "github.com/go-sourcemap/sourcemap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yousuf/jstrace/internal/jsstack"
)

// Maps bundle.js 1:0 to src/app.ts 1:0 named "render", and bundle.js 2:4 to
// src/app.ts 10:2.
const bundleMap = `{
	"version": 3,
	"file": "bundle.js",
	"sources": ["src/app.ts"],
	"names": ["render"],
	"mappings": "AAAAA;IASE"
}`

const bundleTrace = "Error: boom\n" +
	"    at bundle.js:1:1\n" +
	"    at handler (bundle.js:2:5)\n" +
	"    at node:internal/main:3:4"

func TestMap(t *testing.T) {
	out, err := Map(bundleMap, bundleTrace, false)
	require.NoError(t, err)
	assert.Equal(t, "Error\n"+
		"    at render (src/app.ts:1:1)\n"+
		"    at handler (src/app.ts:10:3)\n"+
		"    at node:internal/main:3:4", out)

	out, err = Map(bundleMap, bundleTrace, true)
	require.NoError(t, err)
	assert.Contains(t, out, "at render (src/app.ts:1:1) ✓ mapped from at bundle.js:1:1")
	assert.Contains(t, out, "at node:internal/main:3:4 ✗ unmapped")
}

func TestMapErrors(t *testing.T) {
	_, err := Map("not json", bundleTrace, false)
	assert.ErrorContains(t, err, "failed to parse source map")

	_, err = Map(bundleMap, "no frames here", false)
	var perr *jsstack.ParseError
	assert.ErrorAs(t, err, &perr)
}

func TestRemap(t *testing.T) {
	consumer, err := gosourcemap.Parse("", []byte(bundleMap))
	require.NoError(t, err)

	trace, err := jsstack.NodeJS.ParseStacktrace(bundleTrace)
	require.NoError(t, err)

	remapped, unmapped := Remap(consumer, trace)
	require.Len(t, remapped.Frames, 3)
	assert.Equal(t, "Error", remapped.ExceptionName)
	assert.Equal(t, jsstack.NodeJS, remapped.Platform)

	assert.Equal(t, "at handler (src/app.ts:10:3)", remapped.Frames[1].String())
	require.Len(t, unmapped, 1)
	assert.Equal(t, "node:internal/main", *unmapped[0].FileName)

	// The input trace is left untouched.
	assert.Equal(t, "at handler (bundle.js:2:5)", trace.Frames[1].String())
}

func TestRemapWithoutPosition(t *testing.T) {
	consumer, err := gosourcemap.Parse("", []byte(bundleMap))
	require.NoError(t, err)

	trace := &jsstack.Stacktrace{
		ExceptionName: "Error",
		Frames:        []jsstack.Frame{jsstack.NewFrame("f", "bundle.js", 0, 0)},
	}
	remapped, unmapped := Remap(consumer, trace)
	assert.Len(t, unmapped, 1)
	assert.True(t, remapped.Frames[0].Equal(&trace.Frames[0]))
}

func TestStore(t *testing.T) {
	store := NewStore()
	require.NoError(t, store.Add("bundle.js", []byte(bundleMap)))
	assert.Equal(t, 1, store.Files())
	assert.Error(t, store.Add("broken.js", []byte("{")))
	assert.Equal(t, 1, store.Files())

	trace, err := jsstack.NodeJS.ParseStacktrace(bundleTrace + "\n    at other (vendor.js:2:5)")
	require.NoError(t, err)

	remapped, unmapped := RemapWith(store, trace)
	assert.Equal(t, "at render (src/app.ts:1:1)", remapped.Frames[0].String())
	require.Len(t, unmapped, 2)
	assert.Equal(t, "vendor.js", *unmapped[1].FileName)
}
