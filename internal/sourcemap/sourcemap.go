package sourcemap

import (
	"fmt"
	"sync"

	gosourcemap "github.com/go-sourcemap/sourcemap"
	"github.com/rs/zerolog/log"
	"github.com/yousuf/jstrace/internal/jsstack"
)

// Map parses a V8 stack trace, resolves every frame through the source map and
// returns the remapped trace as text.
func Map(sourceMap string, stack string, debug bool) (string, error) {
	consumer, err := gosourcemap.Parse("", []byte(sourceMap))
	if err != nil {
		return "", fmt.Errorf("failed to parse source map: %w", err)
	}

	trace, err := jsstack.NodeJS.ParseStacktrace(stack)
	if err != nil {
		return "", fmt.Errorf("failed to parse stack trace: %w", err)
	}

	mappedFrames := mapStackFrames(func(*jsstack.Frame) *gosourcemap.Consumer { return consumer }, trace.Frames)

	f := newFormatter()
	if debug {
		return f.FormatWithMetadata(trace.ExceptionName, mappedFrames), nil
	}
	return f.FormatStackTrace(trace.ExceptionName, mappedFrames), nil
}

// Remap returns a copy of trace whose frames were resolved through consumer,
// together with the frames that could not be mapped.
func Remap(consumer *gosourcemap.Consumer, trace *jsstack.Stacktrace) (*jsstack.Stacktrace, []jsstack.Frame) {
	return remap(func(*jsstack.Frame) *gosourcemap.Consumer { return consumer }, trace)
}

// RemapWith resolves each frame through the source map stored for its file
func RemapWith(store *Store, trace *jsstack.Stacktrace) (*jsstack.Stacktrace, []jsstack.Frame) {
	return remap(store.consumerFor, trace)
}

func remap(lookup func(*jsstack.Frame) *gosourcemap.Consumer, trace *jsstack.Stacktrace) (*jsstack.Stacktrace, []jsstack.Frame) {
	mappedFrames := mapStackFrames(lookup, trace.Frames)

	var unmapped []jsstack.Frame
	for _, frame := range mappedFrames {
		if !frame.Mapped {
			unmapped = append(unmapped, frame.Generated)
		}
	}

	result := trace.Dup()
	result.Frames = originals(mappedFrames)
	return result, unmapped
}

// mapStackFrame maps a single stack frame to its original position
func mapStackFrame(consumer *gosourcemap.Consumer, frame jsstack.Frame) mappedFrame {
	unmapped := mappedFrame{
		Generated: frame,
		Original:  frame.Dup(),
		Mapped:    false,
	}

	// Without position info or a source map, return as-is
	if consumer == nil || !hasPosition(&frame) {
		return unmapped
	}

	// go-sourcemap expects 1-indexed line and 0-indexed column
	file, functionName, line, col, ok := consumer.Source(int(frame.FileLine), int(frame.LineColumn)-1)
	if !ok || file == "" || line <= 0 || col < 0 {
		log.Warn().
			Str("file", *frame.FileName).
			Uint32("line", frame.FileLine).
			Uint32("column", frame.LineColumn).
			Msg("Failed to map position")
		return unmapped
	}

	original := jsstack.Frame{
		FunctionName: frame.Dup().FunctionName,
		FileName:     &file,
		FileLine:     uint32(line),
		LineColumn:   uint32(col + 1),
	}
	if functionName != "" {
		original.FunctionName = &functionName
	}

	return mappedFrame{
		Generated: frame,
		Original:  original,
		Mapped:    true,
	}
}

// mapStackFrames maps an array of stack frames
func mapStackFrames(lookup func(*jsstack.Frame) *gosourcemap.Consumer, frames []jsstack.Frame) []mappedFrame {
	mappedFrames := make([]mappedFrame, len(frames))
	for i := range frames {
		mappedFrames[i] = mapStackFrame(lookup(&frames[i]), frames[i])
	}
	return mappedFrames
}

// Store holds parsed source maps keyed by the generated file name they describe.
// It is safe for concurrent use.
type Store struct {
	mu        sync.RWMutex
	consumers map[string]*gosourcemap.Consumer
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		consumers: make(map[string]*gosourcemap.Consumer),
	}
}

// Add parses data and registers it for frames whose file name is fileName
func (s *Store) Add(fileName string, data []byte) error {
	consumer, err := gosourcemap.Parse(fileName, data)
	if err != nil {
		return fmt.Errorf("failed to parse source map for %q: %w", fileName, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.consumers[fileName] = consumer
	return nil
}

// Files returns the number of registered source maps
func (s *Store) Files() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.consumers)
}

func (s *Store) consumerFor(frame *jsstack.Frame) *gosourcemap.Consumer {
	if frame.FileName == nil {
		return nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.consumers[*frame.FileName]
}
