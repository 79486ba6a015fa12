package sourcemap

import (
	"fmt"
	"strings"

	"github.com/yousuf/jstrace/internal/jsstack"
)

// formatter formats mapped stack frames back into readable stack trace format
type formatter struct {
	indent string
}

// newFormatter creates a new formatter indenting frames the way V8 does
func newFormatter() *formatter {
	return &formatter{indent: "    "}
}

// FormatStackFrame formats a single mapped stack frame
func (f *formatter) FormatStackFrame(frame mappedFrame) string {
	return f.indent + frame.Original.String()
}

// FormatStackTrace formats the exception header followed by the mapped frames
func (f *formatter) FormatStackTrace(exceptionName string, frames []mappedFrame) string {
	lines := make([]string, 0, len(frames)+1)
	lines = append(lines, exceptionName)
	for _, frame := range frames {
		lines = append(lines, f.FormatStackFrame(frame))
	}
	return strings.Join(lines, "\n")
}

// FormatWithMetadata formats with additional metadata (for debugging)
func (f *formatter) FormatWithMetadata(exceptionName string, frames []mappedFrame) string {
	lines := make([]string, 0, len(frames)+1)
	lines = append(lines, exceptionName)
	for _, frame := range frames {
		mappingStatus := "✗ unmapped"
		if frame.Mapped {
			mappingStatus = fmt.Sprintf("✓ mapped from %s", frame.Generated.String())
		}
		lines = append(lines, fmt.Sprintf("%s %s", f.FormatStackFrame(frame), mappingStatus))
	}
	return strings.Join(lines, "\n")
}

func originals(frames []mappedFrame) []jsstack.Frame {
	result := make([]jsstack.Frame, len(frames))
	for i := range frames {
		result[i] = frames[i].Original
	}
	return result
}
