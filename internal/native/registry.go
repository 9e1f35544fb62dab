package native

import (
	"sync/atomic"

	cmap "github.com/orcaman/concurrent-map/v2"
)

// ChannelHandler receives scalar channel updates from the native trampoline.
type ChannelHandler interface {
	HandleChannel(handle int32, value float64) int32
}

// BigBlockHandler receives bigc notifications from the native trampoline.
type BigBlockHandler interface {
	HandleBigBlock(handle int32) int32
}

var (
	next     atomic.Uintptr
	registry = cmap.NewWithCustomShardingFunction[uintptr, any](func(key uintptr) uint32 {
		return uint32(key)
	})
)

// Retain stores v and returns the key that native code carries as its private
// pointer. Keys start at 1; 0 is never issued.
func Retain(v any) uintptr {
	key := next.Add(1)
	registry.Set(key, v)
	return key
}

// Lookup returns the value stored under key.
func Lookup(key uintptr) (any, bool) {
	if key == 0 {
		return nil, false
	}
	return registry.Get(key)
}

// Release drops the value stored under key. Only call it when the native side
// can no longer invoke a trampoline with that key.
func Release(key uintptr) {
	if key == 0 {
		return
	}
	registry.Remove(key)
}

// Retained returns the number of live registry entries.
func Retained() int {
	return registry.Count()
}

func dispatchChannel(handle int32, value float64, key uintptr) int32 {
	v, ok := Lookup(key)
	if !ok {
		return -1
	}
	h, ok := v.(ChannelHandler)
	if !ok {
		return -1
	}
	return h.HandleChannel(handle, value)
}

func dispatchBigBlock(handle int32, key uintptr) int32 {
	v, ok := Lookup(key)
	if !ok {
		return -1
	}
	h, ok := v.(BigBlockHandler)
	if !ok {
		return -1
	}
	return h.HandleBigBlock(handle)
}
