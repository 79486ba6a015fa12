package jsstack

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrameDup(t *testing.T) {
	frame := NewFrame("Object.<anonymous>", "/home/user/testapp/index.js", 2, 1)
	dup := frame.Dup()

	assert.True(t, dup.Equal(&frame))
	assert.NotSame(t, frame.FunctionName, dup.FunctionName)
	assert.NotSame(t, frame.FileName, dup.FileName)

	*dup.FunctionName = "other"
	assert.Equal(t, "Object.<anonymous>", *frame.FunctionName)
	assert.False(t, dup.Equal(&frame))
}

func TestDupFrames(t *testing.T) {
	frames := []Frame{
		NewFrame("a", "a.js", 1, 1),
		NewFrame("b", "b.js", 2, 2),
		NewFrame("", "c.js", 3, 3),
	}

	one := DupFrames(frames, false)
	require.Len(t, one, 1)
	assert.True(t, one[0].Equal(&frames[0]))

	all := DupFrames(frames, true)
	require.Len(t, all, 3)
	for i := range frames {
		assert.True(t, all[i].Equal(&frames[i]))
		assert.NotSame(t, frames[i].FileName, all[i].FileName)
	}
	assert.Nil(t, all[2].FunctionName)

	assert.Nil(t, DupFrames(nil, true))
}

func TestAppendFrames(t *testing.T) {
	items := []Frame{NewFrame("b", "b.js", 2, 2)}
	assert.Equal(t, items, AppendFrames(nil, items))

	dest := []Frame{NewFrame("a", "a.js", 1, 1)}
	joined := AppendFrames(dest, append(items, NewFrame("c", "c.js", 3, 3)))
	require.Len(t, joined, 3)
	assert.Equal(t, "a", *joined[0].FunctionName)
	assert.Equal(t, "c", *joined[2].FunctionName)
}

func TestFrameString(t *testing.T) {
	assert.Equal(t, "at f (a.js:1:2)", NewFrame("f", "a.js", 1, 2).String())
	assert.Equal(t, "at a.js:1:2", NewFrame("", "a.js", 1, 2).String())
}

func TestHashText(t *testing.T) {
	a := NewFrame("f", "a.js", 10, 3)
	b := NewFrame("g", "a.js", 10, 7)

	assert.Equal(t, "a.js, 10, f\n", a.BthashText())
	assert.Equal(t, "a.js:10\n", a.DuphashText())

	assert.Equal(t, a.DuphashText(), b.DuphashText())
	assert.NotEqual(t, a.BthashText(), b.BthashText())

	var empty Frame
	assert.Equal(t, "UNKNOWN, 0, UNKNOWN\n", empty.BthashText())
	assert.Equal(t, "UNKNOWN:0\n", empty.DuphashText())
}

func TestCompareOrder(t *testing.T) {
	anonymous := NewFrame("", "a.js", 1, 1)
	emptyName := Frame{FunctionName: stringPtr(""), FileName: stringPtr("a.js"), FileLine: 1, LineColumn: 1}
	named := NewFrame("a", "a.js", 1, 1)

	// An absent name sorts before the empty one.
	assert.Equal(t, -1, Compare(&anonymous, &emptyName))
	assert.Equal(t, -1, Compare(&emptyName, &named))

	tests := []struct {
		name string
		a, b Frame
	}{
		{name: "function name first", a: NewFrame("a", "z.js", 9, 9), b: NewFrame("b", "a.js", 1, 1)},
		{name: "then file name", a: NewFrame("f", "a.js", 9, 9), b: NewFrame("f", "b.js", 1, 1)},
		{name: "then file line", a: NewFrame("f", "a.js", 1, 9), b: NewFrame("f", "a.js", 2, 1)},
		{name: "then column", a: NewFrame("f", "a.js", 1, 1), b: NewFrame("f", "a.js", 1, 2)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, -1, Compare(&tt.a, &tt.b))
			assert.Equal(t, 1, Compare(&tt.b, &tt.a))
		})
	}
}

func TestCompareDistanceOrder(t *testing.T) {
	// Line number wins over naming.
	a := NewFrame("z", "z.js", 1, 1)
	b := NewFrame("a", "a.js", 2, 1)
	assert.Equal(t, -1, CompareDistance(&a, &b))
	assert.Equal(t, 1, Compare(&a, &b))

	c := NewFrame("f", "a.js", 5, 1)
	d := NewFrame("f", "b.js", 5, 1)
	assert.Equal(t, -1, CompareDistance(&c, &d))

	// The column is not part of the distance ordering.
	e := NewFrame("f", "a.js", 5, 99)
	assert.Equal(t, 0, CompareDistance(&c, &e))
}

func TestComparatorsAreTotalOrders(t *testing.T) {
	frames := []Frame{
		NewFrame("", "a.js", 1, 1),
		NewFrame("", "b.js", 1, 1),
		{FileLine: 4},
		{FunctionName: stringPtr(""), FileName: stringPtr("a.js")},
		NewFrame("run", "bootstrap_node.js", 394, 7),
		NewFrame("run", "bootstrap_node.js", 394, 8),
		NewFrame("startup", "bootstrap_node.js", 149, 9),
		NewFrame("Module.load", "module.js", 487, 32),
	}

	for _, compare := range []func(a, b *Frame) int{Compare, CompareDistance} {
		for i := range frames {
			assert.Equal(t, 0, compare(&frames[i], &frames[i]))
			for j := range frames {
				assert.Equal(t, compare(&frames[i], &frames[j]), -compare(&frames[j], &frames[i]))
			}
		}

		sorted := DupFrames(frames, true)
		slices.SortFunc(sorted, func(a, b Frame) int { return compare(&a, &b) })
		for i := 1; i < len(sorted); i++ {
			assert.LessOrEqual(t, compare(&sorted[i-1], &sorted[i]), 0)
			for j := i; j < len(sorted); j++ {
				assert.LessOrEqual(t, compare(&sorted[i-1], &sorted[j]), 0)
			}
		}
	}
}
