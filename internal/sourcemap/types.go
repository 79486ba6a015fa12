package sourcemap

import "github.com/yousuf/jstrace/internal/jsstack"

// mappedFrame pairs a parsed frame with its position in the original sources
type mappedFrame struct {
	// Frame as it appears in the generated code
	Generated jsstack.Frame
	// Resolved frame, a copy of Generated when mapping failed
	Original jsstack.Frame
	// Whether mapping was successful
	Mapped bool
}

// hasPosition reports whether the frame carries enough to be looked up
func hasPosition(f *jsstack.Frame) bool {
	return f.FileName != nil && f.FileLine > 0 && f.LineColumn > 0
}
