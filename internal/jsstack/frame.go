package jsstack

import (
	"fmt"
	"strings"
)

// Dup returns a deep copy of the frame. The copy shares no string storage with f.
func (f Frame) Dup() Frame {
	return Frame{
		FunctionName: cloneString(f.FunctionName),
		FileName:     cloneString(f.FileName),
		FileLine:     f.FileLine,
		LineColumn:   f.LineColumn,
	}
}

// DupFrames copies the first frame of the sequence, or the whole sequence when
// siblings is set.
func DupFrames(frames []Frame, siblings bool) []Frame {
	if len(frames) == 0 {
		return nil
	}
	if !siblings {
		return []Frame{frames[0].Dup()}
	}

	result := make([]Frame, len(frames))
	for i := range frames {
		result[i] = frames[i].Dup()
	}
	return result
}

// AppendFrames links items after the last frame of dest and returns the combined
// sequence. When dest is empty, items is returned unchanged. The caller gives up
// items.
func AppendFrames(dest, items []Frame) []Frame {
	if len(dest) == 0 {
		return items
	}
	return append(dest, items...)
}

// Equal reports whether both frames carry the same values
func (f *Frame) Equal(other *Frame) bool {
	return Compare(f, other) == 0
}

// String formats the frame the way V8 prints it
func (f Frame) String() string {
	var b strings.Builder
	b.WriteString("at ")
	if f.FunctionName != nil {
		fmt.Fprintf(&b, "%s (", *f.FunctionName)
	}
	fileName := ""
	if f.FileName != nil {
		fileName = *f.FileName
	}
	fmt.Fprintf(&b, "%s:%d:%d", fileName, f.FileLine, f.LineColumn)
	if f.FunctionName != nil {
		b.WriteString(")")
	}
	return b.String()
}

// AppendBthashText writes the exact-identity hash text of the frame:
// "<file>, <line>, <function>\n".
func (f *Frame) AppendBthashText(b *strings.Builder) {
	fmt.Fprintf(b, "%s, %d, %s\n", orUnknown(f.FileName), f.FileLine, orUnknown(f.FunctionName))
}

// AppendDuphashText writes the coarse duplicate-detection text of the frame:
// "<file>:<line>\n". The function name is left out on purpose.
func (f *Frame) AppendDuphashText(b *strings.Builder) {
	fmt.Fprintf(b, "%s:%d\n", orUnknown(f.FileName), f.FileLine)
}

// BthashText returns the output of AppendBthashText as a string
func (f *Frame) BthashText() string {
	var b strings.Builder
	f.AppendBthashText(&b)
	return b.String()
}

// DuphashText returns the output of AppendDuphashText as a string
func (f *Frame) DuphashText() string {
	var b strings.Builder
	f.AppendDuphashText(&b)
	return b.String()
}
