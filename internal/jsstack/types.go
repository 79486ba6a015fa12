package jsstack

// Frame represents a single call site parsed from a JavaScript stack trace
type Frame struct {
	// Function name, nil for anonymous or top-level frames
	FunctionName *string
	// Source file path or URL, always set by the parser
	FileName *string
	// Line number (1-indexed), 0 if unknown
	FileLine uint32
	// Column number (1-indexed), 0 if unknown
	LineColumn uint32
}

// Stacktrace represents an exception header together with its frames, innermost first
type Stacktrace struct {
	// Thrown error type, e.g. "ReferenceError". The message is never stored.
	ExceptionName string
	// Frames in call order, innermost first
	Frames []Frame
	// Platform whose dialect produced the trace
	Platform Platform
}

// NewFrame creates a frame from plain values. An empty function name leaves it unset.
func NewFrame(functionName, fileName string, fileLine, lineColumn uint32) Frame {
	f := Frame{
		FileName:   stringPtr(fileName),
		FileLine:   fileLine,
		LineColumn: lineColumn,
	}
	if functionName != "" {
		f.FunctionName = stringPtr(functionName)
	}
	return f
}

func stringPtr(s string) *string {
	return &s
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	return stringPtr(*s)
}

// orUnknown substitutes the literal UNKNOWN for an absent field
func orUnknown(s *string) string {
	if s == nil {
		return "UNKNOWN"
	}
	return *s
}
