package cdr

import (
	"fmt"
	"runtime"

	"github.com/cxv4/cdr-go/internal/native"
)

// Stats reports the freshness of a bigc block.
type Stats struct {
	// Valid is false when the library has no data for the block yet.
	Valid bool
	Age   int
	Flags int
}

// RegisterBigBlock registers the bigc block name with room for maxDataSize
// bytes of data and returns its handle. cb may be nil. As with
// RegisterSimpleChannel, re-registering a name returns the existing handle
// and ignores cb and priv.
func (l *Library) RegisterBigBlock(name string, maxDataSize int, cb *BigBlockCallback, priv Opaque) (int, error) {
	const op = "RegisterBigBlock"
	if err := l.usable(op); err != nil {
		return 0, err
	}
	if err := checkName(op, "bigc", name); err != nil {
		return 0, err
	}
	if maxDataSize < 0 {
		return 0, invalidf(op, fmt.Sprintf("negative max data size %d", maxDataSize))
	}

	var key uintptr
	if cb != nil {
		key = native.Retain(&bigBlockBinding{lib: l, name: name, cb: cb, priv: priv})
	}
	return l.register(op, kindBigBlock, name, key, func() int32 {
		return l.api.RegisterSimpleBigc(name, l.identity, uint64(maxDataSize), key)
	})
}

// SetBigBlockParam writes parameter n of the block.
func (l *Library) SetBigBlockParam(handle, n, value int) error {
	const op = "SetBigBlockParam"
	if err := l.usable(op); err != nil {
		return err
	}
	h, err := toInt32(op, "handle", handle)
	if err != nil {
		return err
	}
	idx, err := toInt32(op, "parameter index", n)
	if err != nil {
		return err
	}
	v, err := toInt32(op, "value", value)
	if err != nil {
		return err
	}
	rc := l.api.SetSimpleBigcParam(h, idx, v)
	return l.check(op, rc, rc != 0, ErrOperation)
}

// GetBigBlockParam reads parameter n of the block.
func (l *Library) GetBigBlockParam(handle, n int) (int, error) {
	const op = "GetBigBlockParam"
	if err := l.usable(op); err != nil {
		return 0, err
	}
	h, err := toInt32(op, "handle", handle)
	if err != nil {
		return 0, err
	}
	idx, err := toInt32(op, "parameter index", n)
	if err != nil {
		return 0, err
	}
	var v int32
	rc := l.api.GetSimpleBigcParam(h, idx, &v)
	if err := l.check(op, rc, rc != 0, ErrOperation); err != nil {
		return 0, err
	}
	return int(v), nil
}

// ReadBigBlockData fills buf with block data starting at byteOffset and
// returns the library's result, the number of bytes it reports.
func (l *Library) ReadBigBlockData(handle, byteOffset int, buf *SegmentBuffer) (int, error) {
	const op = "ReadBigBlockData"
	h, ofs, size, err := l.dataArgs(op, native.SymGetSimpleBigcData, handle, byteOffset, buf)
	if err != nil {
		return 0, err
	}
	rc := l.api.GetSimpleBigcData(h, ofs, size, buf.Pointer())
	runtime.KeepAlive(buf)
	if err := l.check(op, rc, rc < 0, ErrOperation); err != nil {
		return 0, err
	}
	return int(rc), nil
}

// WriteBigBlockData sends the contents of buf as block data starting at
// byteOffset. The element width is passed as the data unit size.
func (l *Library) WriteBigBlockData(handle, byteOffset int, buf *SegmentBuffer) (int, error) {
	const op = "WriteBigBlockData"
	h, ofs, size, err := l.dataArgs(op, native.SymSetSimpleBigcData, handle, byteOffset, buf)
	if err != nil {
		return 0, err
	}
	rc := l.api.SetSimpleBigcData(h, ofs, size, buf.Pointer(), int32(buf.Width()))
	runtime.KeepAlive(buf)
	if err := l.check(op, rc, rc < 0, ErrOperation); err != nil {
		return 0, err
	}
	return int(rc), nil
}

func (l *Library) dataArgs(op string, sym native.Symbol, handle, byteOffset int, buf *SegmentBuffer) (h, ofs, size int32, err error) {
	if err = l.usable(op); err != nil {
		return
	}
	if err = l.require(op, sym); err != nil {
		return
	}
	if buf == nil {
		err = invalidf(op, "nil buffer")
		return
	}
	if byteOffset < 0 {
		err = invalidf(op, fmt.Sprintf("negative byte offset %d", byteOffset))
		return
	}
	if h, err = toInt32(op, "handle", handle); err != nil {
		return
	}
	if ofs, err = toInt32(op, "byte offset", byteOffset); err != nil {
		return
	}
	size, err = toInt32(op, "byte size", buf.ByteLen())
	return
}

// BigBlockStats reports the age and flags of the block's current data.
func (l *Library) BigBlockStats(handle int) (Stats, error) {
	const op = "BigBlockStats"
	if err := l.usable(op); err != nil {
		return Stats{}, err
	}
	if err := l.require(op, native.SymGetSimpleBigcStats); err != nil {
		return Stats{}, err
	}
	h, err := toInt32(op, "handle", handle)
	if err != nil {
		return Stats{}, err
	}
	var age, flags int32
	rc := l.api.GetSimpleBigcStats(h, &age, &flags)
	if err := l.check(op, rc, rc < 0, ErrOperation); err != nil {
		return Stats{}, err
	}
	if rc == 0 {
		return Stats{}, nil
	}
	return Stats{Valid: true, Age: int(age), Flags: int(flags)}, nil
}
