package cdr

import (
	"github.com/cxv4/cdr-go/internal/native"
)

// RegisterSimpleChannel registers the scalar channel name ("subsys.knob")
// under the library's process identity and returns its handle. cb may be nil;
// otherwise it is invoked with priv on every channel update.
//
// A name that is already registered returns the existing handle. The library
// keeps the callback from the first registration, so cb and priv are ignored
// in that case.
func (l *Library) RegisterSimpleChannel(name string, cb *ChannelCallback, priv Opaque) (int, error) {
	const op = "RegisterSimpleChannel"
	if err := l.usable(op); err != nil {
		return 0, err
	}
	if err := checkName(op, "channel", name); err != nil {
		return 0, err
	}

	var key uintptr
	if cb != nil {
		key = native.Retain(&channelBinding{lib: l, name: name, cb: cb, priv: priv})
	}
	return l.register(op, kindChannel, name, key, func() int32 {
		return l.api.RegisterSimpleChan(name, l.identity, key)
	})
}

// SetChannelValue writes value to the channel.
func (l *Library) SetChannelValue(handle int, value float64) error {
	const op = "SetChannelValue"
	if err := l.usable(op); err != nil {
		return err
	}
	h, err := toInt32(op, "handle", handle)
	if err != nil {
		return err
	}
	rc := l.api.SetSimpleChanVal(h, value)
	return l.check(op, rc, rc != 0, ErrOperation)
}

// GetChannelValue reads the channel's current value.
func (l *Library) GetChannelValue(handle int) (float64, error) {
	const op = "GetChannelValue"
	if err := l.usable(op); err != nil {
		return 0, err
	}
	h, err := toInt32(op, "handle", handle)
	if err != nil {
		return 0, err
	}
	var v float64
	rc := l.api.GetSimpleChanVal(h, &v)
	if err := l.check(op, rc, rc != 0, ErrOperation); err != nil {
		return 0, err
	}
	return v, nil
}
