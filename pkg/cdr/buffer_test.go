package cdr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var widths = []Width{Int8, Int16, Int32, Int64}

func TestNewSegmentBufferZeroed(t *testing.T) {
	for _, w := range widths {
		for _, n := range []int{0, 1, 5, 257} {
			buf, err := NewSegmentBuffer(n, w)
			require.NoError(t, err)
			assert.Equal(t, n, buf.Len())
			assert.Equal(t, w, buf.Width())
			assert.Equal(t, n*int(w), buf.ByteLen())
			assert.Equal(t, make([]int64, n), buf.Ints(), "%s x %d", w, n)
		}
	}
}

func TestNewSegmentBufferInvalid(t *testing.T) {
	for _, w := range []Width{0, 3, 16, -1} {
		buf, err := NewSegmentBuffer(4, w)
		require.ErrorIs(t, err, ErrInvalidConfig, "width %d", int(w))
		assert.Nil(t, buf)
	}
	_, err := NewSegmentBuffer(-1, Int8)
	require.ErrorIs(t, err, ErrInvalidConfig)
}

func TestAtBounds(t *testing.T) {
	for _, w := range widths {
		buf, err := NewSegmentBuffer(3, w)
		require.NoError(t, err)
		for i := 0; i < 3; i++ {
			v, ok := buf.At(i)
			assert.True(t, ok)
			assert.Zero(t, v)
		}
		for _, i := range []int{-1, 3, 100} {
			_, ok := buf.At(i)
			assert.False(t, ok, "index %d", i)
		}
	}
}

func TestInt32Scenario(t *testing.T) {
	buf, err := NewSegmentBuffer(5, Int32)
	require.NoError(t, err)

	v, ok := buf.At(2)
	require.True(t, ok)
	assert.Equal(t, int64(0), v)
	assert.Equal(t, []int64{0, 0, 0, 0, 0}, buf.Ints())
}

func TestSliceMatchesAt(t *testing.T) {
	for _, w := range widths {
		buf, err := NewSegmentBuffer(8, w)
		require.NoError(t, err)
		for i := 0; i < buf.Len(); i++ {
			require.True(t, buf.Set(i, int64(i*7-20)))
		}

		for offset := 0; offset <= buf.Len(); offset++ {
			for length := 0; length <= buf.Len()-offset; length++ {
				got, err := buf.Slice(length, offset)
				require.NoError(t, err)
				want := make([]int64, 0, length)
				for i := offset; i < offset+length; i++ {
					v, ok := buf.At(i)
					require.True(t, ok)
					want = append(want, v)
				}
				assert.Equal(t, want, got)
			}
		}
	}
}

func TestSliceOutOfRange(t *testing.T) {
	buf, err := NewSegmentBuffer(4, Int16)
	require.NoError(t, err)

	tests := []struct {
		name           string
		length, offset int
	}{
		{"past end", 5, 0},
		{"offset past end", 1, 4},
		{"offset beyond", 0, 5},
		{"negative offset", 1, -1},
		{"negative length", -1, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := buf.Slice(tt.length, tt.offset)
			require.ErrorIs(t, err, ErrOutOfRange)
			assert.Nil(t, out)
		})
	}

	out, err := buf.Slice(0, 4)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestSetTruncatesToWidth(t *testing.T) {
	tests := []struct {
		width Width
		in    int64
		want  int64
	}{
		{Int8, 127, 127},
		{Int8, 128, -128},
		{Int8, -1, -1},
		{Int16, 40000, 40000 - 65536},
		{Int32, 1 << 31, -(1 << 31)},
		{Int64, -(1 << 62), -(1 << 62)},
	}
	for _, tt := range tests {
		buf, err := NewSegmentBuffer(1, tt.width)
		require.NoError(t, err)
		require.True(t, buf.Set(0, tt.in))
		v, _ := buf.At(0)
		assert.Equal(t, tt.want, v, "%s <- %d", tt.width, tt.in)
	}

	buf, err := NewSegmentBuffer(1, Int8)
	require.NoError(t, err)
	assert.False(t, buf.Set(1, 1))
	assert.False(t, buf.Set(-1, 1))
}

func TestPointer(t *testing.T) {
	empty, err := NewSegmentBuffer(0, Int64)
	require.NoError(t, err)
	assert.Nil(t, empty.Pointer())

	buf, err := NewSegmentBuffer(2, Int16)
	require.NoError(t, err)
	require.NotNil(t, buf.Pointer())

	p := (*[2]int16)(buf.Pointer())
	p[1] = -300
	v, ok := buf.At(1)
	require.True(t, ok)
	assert.Equal(t, int64(-300), v)
}

func TestWidthString(t *testing.T) {
	assert.Equal(t, "int8", Int8.String())
	assert.Equal(t, "int64", Int64.String())
	assert.Equal(t, "Width(3)", Width(3).String())
}
