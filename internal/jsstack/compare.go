package jsstack

import (
	"cmp"
	"strings"
)

// compareOptional orders an absent string before any present one, the empty
// string included.
func compareOptional(a, b *string) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	default:
		return strings.Compare(*a, *b)
	}
}

// Compare orders frames by function name, file name, file line and line column.
// It returns -1, 0 or +1 and is the ordering used for canonical dedup grouping.
func Compare(a, b *Frame) int {
	if c := compareOptional(a.FunctionName, b.FunctionName); c != 0 {
		return c
	}
	if c := compareOptional(a.FileName, b.FileName); c != 0 {
		return c
	}
	if c := cmp.Compare(a.FileLine, b.FileLine); c != 0 {
		return c
	}
	return cmp.Compare(a.LineColumn, b.LineColumn)
}

// CompareDistance orders frames by file line first, then function name and file
// name, so that frames from nearby lines sort next to each other.
func CompareDistance(a, b *Frame) int {
	if c := cmp.Compare(a.FileLine, b.FileLine); c != 0 {
		return c
	}
	if c := compareOptional(a.FunctionName, b.FunctionName); c != 0 {
		return c
	}
	return compareOptional(a.FileName, b.FileName)
}
