package cdr

import (
	"fmt"
	"unsafe"
)

// Width is the byte size of one SegmentBuffer element.
type Width int

const (
	Int8  Width = 1
	Int16 Width = 2
	Int32 Width = 4
	Int64 Width = 8
)

// Valid reports whether w is one of the supported element widths.
func (w Width) Valid() bool {
	switch w {
	case Int8, Int16, Int32, Int64:
		return true
	}
	return false
}

func (w Width) String() string {
	if !w.Valid() {
		return fmt.Sprintf("Width(%d)", int(w))
	}
	return fmt.Sprintf("int%d", int(w)*8)
}

type element interface {
	~int8 | ~int16 | ~int32 | ~int64
}

type segments interface {
	len() int
	at(i int) int64
	set(i int, v int64)
	pointer() unsafe.Pointer
}

type typedSegments[T element] []T

func (s typedSegments[T]) len() int           { return len(s) }
func (s typedSegments[T]) at(i int) int64     { return int64(s[i]) }
func (s typedSegments[T]) set(i int, v int64) { s[i] = T(v) }

func (s typedSegments[T]) pointer() unsafe.Pointer {
	if len(s) == 0 {
		return nil
	}
	return unsafe.Pointer(&s[0])
}

// SegmentBuffer is a fixed-length array of signed integers of one width. It
// can be handed to native code as untyped memory and read back as []int64.
//
// A SegmentBuffer has no internal locking: hand it to one native call at a
// time and keep it reachable until that call returns.
type SegmentBuffer struct {
	width Width
	data  segments
}

// NewSegmentBuffer allocates length zeroed elements of the given width.
func NewSegmentBuffer(length int, width Width) (*SegmentBuffer, error) {
	const op = "NewSegmentBuffer"
	if length < 0 {
		return nil, invalidf(op, fmt.Sprintf("negative length %d", length))
	}
	var data segments
	switch width {
	case Int8:
		data = make(typedSegments[int8], length)
	case Int16:
		data = make(typedSegments[int16], length)
	case Int32:
		data = make(typedSegments[int32], length)
	case Int64:
		data = make(typedSegments[int64], length)
	default:
		return nil, invalidf(op, fmt.Sprintf("unsupported element width %d", int(width)))
	}
	return &SegmentBuffer{width: width, data: data}, nil
}

// Len returns the number of elements.
func (b *SegmentBuffer) Len() int { return b.data.len() }

// Width returns the element width.
func (b *SegmentBuffer) Width() Width { return b.width }

// ByteLen returns the size of the storage in bytes.
func (b *SegmentBuffer) ByteLen() int { return b.data.len() * int(b.width) }

// Pointer returns the address of the first element, or nil for an empty
// buffer. The pointer is valid only while b is reachable.
func (b *SegmentBuffer) Pointer() unsafe.Pointer { return b.data.pointer() }

// At returns the i-th element widened to int64. ok is false when i is outside
// [0, Len()).
func (b *SegmentBuffer) At(i int) (v int64, ok bool) {
	if i < 0 || i >= b.data.len() {
		return 0, false
	}
	return b.data.at(i), true
}

// Set stores v at index i, truncated to the element width. It reports false
// when i is outside [0, Len()).
func (b *SegmentBuffer) Set(i int, v int64) bool {
	if i < 0 || i >= b.data.len() {
		return false
	}
	b.data.set(i, v)
	return true
}

// Slice copies length elements starting at offset into a new []int64. Ranges
// reaching outside the buffer fail with ErrOutOfRange.
func (b *SegmentBuffer) Slice(length, offset int) ([]int64, error) {
	n := b.data.len()
	if length < 0 || offset < 0 || offset > n || length > n-offset {
		return nil, &Error{
			Op:     "Slice",
			Err:    ErrOutOfRange,
			Detail: fmt.Sprintf("length %d at offset %d exceeds buffer of %d", length, offset, n),
		}
	}
	out := make([]int64, length)
	for i := range out {
		out[i] = b.data.at(offset + i)
	}
	return out, nil
}

// Ints copies the whole buffer into a new []int64.
func (b *SegmentBuffer) Ints() []int64 {
	out, _ := b.Slice(b.data.len(), 0)
	return out
}
