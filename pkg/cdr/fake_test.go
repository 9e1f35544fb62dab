package cdr

import (
	"testing"
	"unsafe"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/cxv4/cdr-go/internal/native"
)

type registerCall struct {
	name        string
	argv0       string
	maxDataSize uint64
	key         uintptr
}

// fakeAPI stands in for the CDR library. Return codes and out values are set
// per test; register calls are recorded.
type fakeAPI struct {
	registerRC int32
	setRC      int32
	getRC      int32
	dataRC     int32
	statsRC    int32

	chanValue  float64
	paramValue int32
	age, flags int32
	data       []byte

	missing map[native.Symbol]bool

	registered []registerCall
	lastSet    []any
	lastData   []any
}

func (f *fakeAPI) Has(s native.Symbol) bool { return !f.missing[s] }

func (f *fakeAPI) RegisterSimpleChan(name, argv0 string, key uintptr) int32 {
	f.registered = append(f.registered, registerCall{name: name, argv0: argv0, key: key})
	return f.registerRC
}

func (f *fakeAPI) SetSimpleChanVal(handle int32, val float64) int32 {
	f.lastSet = []any{handle, val}
	return f.setRC
}

func (f *fakeAPI) GetSimpleChanVal(_ int32, val *float64) int32 {
	*val = f.chanValue
	return f.getRC
}

func (f *fakeAPI) RegisterSimpleBigc(name, argv0 string, maxDataSize uint64, key uintptr) int32 {
	f.registered = append(f.registered, registerCall{name: name, argv0: argv0, maxDataSize: maxDataSize, key: key})
	return f.registerRC
}

func (f *fakeAPI) SetSimpleBigcParam(handle, n, val int32) int32 {
	f.lastSet = []any{handle, n, val}
	return f.setRC
}

func (f *fakeAPI) GetSimpleBigcParam(_, _ int32, val *int32) int32 {
	*val = f.paramValue
	return f.getRC
}

func (f *fakeAPI) GetSimpleBigcData(handle, byteOfs, byteSize int32, buf unsafe.Pointer) int32 {
	f.lastData = []any{handle, byteOfs, byteSize}
	if buf != nil {
		copy(unsafe.Slice((*byte)(buf), byteSize), f.data)
	}
	return f.dataRC
}

func (f *fakeAPI) SetSimpleBigcData(handle, byteOfs, byteSize int32, buf unsafe.Pointer, units int32) int32 {
	f.lastData = []any{handle, byteOfs, byteSize, units}
	if buf != nil {
		f.data = append([]byte(nil), unsafe.Slice((*byte)(buf), byteSize)...)
	}
	return f.dataRC
}

func (f *fakeAPI) GetSimpleBigcStats(_ int32, age, rflags *int32) int32 {
	*age = f.age
	*rflags = f.flags
	return f.statsRC
}

// fire invokes the callback registered by the i-th register call the way the
// native trampoline would.
func (f *fakeAPI) fire(t *testing.T, i int, handle int32, value float64) int32 {
	t.Helper()
	require.Less(t, i, len(f.registered))
	v, ok := native.Lookup(f.registered[i].key)
	require.True(t, ok, "no registry entry for register call %d", i)
	switch h := v.(type) {
	case native.ChannelHandler:
		return h.HandleChannel(handle, value)
	case native.BigBlockHandler:
		return h.HandleBigBlock(handle)
	}
	t.Fatalf("unexpected registry entry %T", v)
	return 0
}

func newTestLibrary(t *testing.T, api *fakeAPI) (*Library, *prometheus.Registry) {
	t.Helper()
	reg := prometheus.NewRegistry()
	lib, err := newLibrary(api, Config{
		Path:            "/opt/cx/lib/libcdr.so",
		ProcessIdentity: "cdr-test",
		Registerer:      reg,
	})
	require.NoError(t, err)
	return lib, reg
}
