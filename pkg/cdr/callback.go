package cdr

import (
	"context"
	"fmt"
)

// Opaque is a private value attached to a registration and handed back to
// its callback unchanged. The binding never inspects it.
type Opaque any

// ChannelFunc handles a scalar channel update. The result is the callback's
// status code; 0 means success.
type ChannelFunc func(handle int, value float64, priv Opaque) int

// BigBlockFunc handles a bigc notification.
type BigBlockFunc func(handle int, priv Opaque) int

// ChannelCallback is a native-callable adapter around a ChannelFunc. Once
// registered it stays alive for the rest of the process.
type ChannelCallback struct {
	fn ChannelFunc
}

// MakeChannelCallback wraps fn for RegisterSimpleChannel. A nil fn yields a
// nil callback, which registers the channel without notifications.
func MakeChannelCallback(fn ChannelFunc) *ChannelCallback {
	if fn == nil {
		return nil
	}
	return &ChannelCallback{fn: fn}
}

// Invoke calls the wrapped function directly, bypassing the library.
func (c *ChannelCallback) Invoke(handle int, value float64, priv Opaque) int {
	return c.fn(handle, value, priv)
}

// BigBlockCallback is a native-callable adapter around a BigBlockFunc.
type BigBlockCallback struct {
	fn BigBlockFunc
}

// MakeBigBlockCallback wraps fn for RegisterBigBlock.
func MakeBigBlockCallback(fn BigBlockFunc) *BigBlockCallback {
	if fn == nil {
		return nil
	}
	return &BigBlockCallback{fn: fn}
}

// Invoke calls the wrapped function directly, bypassing the library.
func (c *BigBlockCallback) Invoke(handle int, priv Opaque) int {
	return c.fn(handle, priv)
}

const (
	kindChannel  = "channel"
	kindBigBlock = "bigblock"
)

// channelBinding is the registry entry for one RegisterSimpleChannel call.
type channelBinding struct {
	lib  *Library
	name string
	cb   *ChannelCallback
	priv Opaque
}

func (b *channelBinding) HandleChannel(handle int32, value float64) (rc int32) {
	defer b.lib.recoverCallback(kindChannel, b.name, &rc)
	b.lib.metrics.callback(kindChannel)
	return int32(b.cb.fn(int(handle), value, b.priv))
}

// bigBlockBinding is the registry entry for one RegisterBigBlock call.
type bigBlockBinding struct {
	lib  *Library
	name string
	cb   *BigBlockCallback
	priv Opaque
}

func (b *bigBlockBinding) HandleBigBlock(handle int32) (rc int32) {
	defer b.lib.recoverCallback(kindBigBlock, b.name, &rc)
	b.lib.metrics.callback(kindBigBlock)
	return int32(b.cb.fn(int(handle), b.priv))
}

// recoverCallback stops a panic from unwinding into the C caller.
func (l *Library) recoverCallback(kind, name string, rc *int32) {
	r := recover()
	if r == nil {
		return
	}
	l.metrics.panicked(kind)
	l.log.Warn(context.Background(), "callback panicked",
		"kind", kind,
		"name", name,
		"panic", fmt.Sprint(r),
	)
	*rc = -1
}
