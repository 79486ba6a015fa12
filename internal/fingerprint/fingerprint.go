// Package fingerprint hashes parsed JavaScript stack traces for crash
// deduplication. The bthash identifies a backtrace exactly; the duphash groups
// crashes coming from the same file locations.
package fingerprint

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/yousuf/jstrace/internal/jsstack"
)

// Options controls duphash generation
type Options struct {
	// Number of innermost frames to hash, 0 hashes every frame
	Frames int
	// Written on its own line ahead of the frame text when not empty
	Prefix string
	// Return the plain text instead of its digest
	NoHash bool
}

// BthashText concatenates the bthash text of every frame of the trace
func BthashText(trace *jsstack.Stacktrace) string {
	var b strings.Builder
	for i := range trace.Frames {
		trace.Frames[i].AppendBthashText(&b)
	}
	return b.String()
}

// Bthash returns the hex SHA-1 digest of BthashText
func Bthash(trace *jsstack.Stacktrace) string {
	return digest(BthashText(trace))
}

// DuphashText concatenates the duphash text of the first frames of the trace
func DuphashText(trace *jsstack.Stacktrace, opts Options) string {
	var b strings.Builder
	if opts.Prefix != "" {
		fmt.Fprintf(&b, "%s\n", opts.Prefix)
	}

	frames := trace.Frames
	if opts.Frames > 0 && opts.Frames < len(frames) {
		frames = frames[:opts.Frames]
	}
	for i := range frames {
		frames[i].AppendDuphashText(&b)
	}
	return b.String()
}

// Duphash returns the duphash of the trace, hashed unless opts.NoHash is set
func Duphash(trace *jsstack.Stacktrace, opts Options) string {
	text := DuphashText(trace, opts)
	if opts.NoHash {
		return text
	}
	return digest(text)
}

func digest(text string) string {
	sum := sha1.Sum([]byte(text))
	return hex.EncodeToString(sum[:])
}
