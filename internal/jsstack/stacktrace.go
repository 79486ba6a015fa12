package jsstack

import (
	"fmt"
	"strings"
)

// Dup returns a deep copy of the trace
func (s *Stacktrace) Dup() *Stacktrace {
	return &Stacktrace{
		ExceptionName: s.ExceptionName,
		Frames:        DupFrames(s.Frames, true),
		Platform:      s.Platform,
	}
}

// Reason summarizes the crash as "<exception> at <file>:<line>" using the
// innermost frame.
func (s *Stacktrace) Reason() string {
	if len(s.Frames) == 0 {
		return s.ExceptionName
	}
	top := &s.Frames[0]
	return fmt.Sprintf("%s at %s:%d", s.ExceptionName, orUnknown(top.FileName), top.FileLine)
}

// String renders the exception name followed by one indented line per frame
func (s *Stacktrace) String() string {
	var b strings.Builder
	b.WriteString(s.ExceptionName)
	for _, frame := range s.Frames {
		b.WriteString("\n    ")
		b.WriteString(frame.String())
	}
	return b.String()
}
