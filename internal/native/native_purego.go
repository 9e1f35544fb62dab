//go:build !cgo && (linux || darwin)

package native

import (
	"sync"
	"unsafe"

	"github.com/ebitengine/purego"
)

var (
	trampolineOnce sync.Once
	chanTrampoline uintptr
	bigcTrampoline uintptr
)

// purego callbacks are never freed, so exactly one per kind is created.
func trampolines() (uintptr, uintptr) {
	trampolineOnce.Do(func() {
		chanTrampoline = purego.NewCallback(func(handle int32, val float64, key uintptr) int32 {
			return dispatchChannel(handle, val, key)
		})
		bigcTrampoline = purego.NewCallback(func(handle int32, key uintptr) int32 {
			return dispatchBigBlock(handle, key)
		})
	})
	return chanTrampoline, bigcTrampoline
}

type library struct {
	handle uintptr
	has    [symCount]bool

	registerSimpleChan func(name, argv0 string, cb, privptr uintptr) int32
	setSimpleChanVal   func(handle int32, val float64) int32
	getSimpleChanVal   func(handle int32, val *float64) int32
	registerSimpleBigc func(name, argv0 string, maxDataSize uint64, cb, privptr uintptr) int32
	setSimpleBigcParam func(handle, n, val int32) int32
	getSimpleBigcParam func(handle, n int32, val *int32) int32
	getSimpleBigcData  func(handle, byteOfs, byteSize int32, buf unsafe.Pointer) int32
	setSimpleBigcData  func(handle, byteOfs, byteSize int32, buf unsafe.Pointer, units int32) int32
	getSimpleBigcStats func(handle int32, age, rflags *int32) int32
}

func open(opts Options) (API, error) {
	mode := purego.RTLD_NOW
	if opts.Global {
		mode |= purego.RTLD_GLOBAL
	} else {
		mode |= purego.RTLD_LOCAL
	}

	h, err := purego.Dlopen(opts.Path, mode)
	if err != nil {
		return nil, &LoadError{Path: opts.Path, Reason: err.Error()}
	}

	lib := &library{handle: h}
	targets := [symCount]any{
		SymRegisterSimpleChan: &lib.registerSimpleChan,
		SymSetSimpleChanVal:   &lib.setSimpleChanVal,
		SymGetSimpleChanVal:   &lib.getSimpleChanVal,
		SymRegisterSimpleBigc: &lib.registerSimpleBigc,
		SymSetSimpleBigcParam: &lib.setSimpleBigcParam,
		SymGetSimpleBigcParam: &lib.getSimpleBigcParam,
		SymGetSimpleBigcData:  &lib.getSimpleBigcData,
		SymSetSimpleBigcData:  &lib.setSimpleBigcData,
		SymGetSimpleBigcStats: &lib.getSimpleBigcStats,
	}
	for i := range symbols {
		addr, err := purego.Dlsym(h, symbols[i].name)
		if err != nil || addr == 0 {
			if symbols[i].optional {
				continue
			}
			reason := "symbol not found"
			if err != nil {
				reason = err.Error()
			}
			_ = purego.Dlclose(h)
			return nil, &LoadError{Path: opts.Path, Symbol: symbols[i].name, Reason: reason}
		}
		purego.RegisterFunc(targets[i], addr)
		lib.has[i] = true
	}
	return lib, nil
}

func (l *library) Has(s Symbol) bool {
	return s >= 0 && s < symCount && l.has[s]
}

func (l *library) RegisterSimpleChan(name, argv0 string, key uintptr) int32 {
	var cb uintptr
	if key != 0 {
		cb, _ = trampolines()
	}
	return l.registerSimpleChan(name, argv0, cb, key)
}

func (l *library) SetSimpleChanVal(handle int32, val float64) int32 {
	return l.setSimpleChanVal(handle, val)
}

func (l *library) GetSimpleChanVal(handle int32, val *float64) int32 {
	return l.getSimpleChanVal(handle, val)
}

func (l *library) RegisterSimpleBigc(name, argv0 string, maxDataSize uint64, key uintptr) int32 {
	var cb uintptr
	if key != 0 {
		_, cb = trampolines()
	}
	return l.registerSimpleBigc(name, argv0, maxDataSize, cb, key)
}

func (l *library) SetSimpleBigcParam(handle, n, val int32) int32 {
	return l.setSimpleBigcParam(handle, n, val)
}

func (l *library) GetSimpleBigcParam(handle, n int32, val *int32) int32 {
	return l.getSimpleBigcParam(handle, n, val)
}

func (l *library) GetSimpleBigcData(handle, byteOfs, byteSize int32, buf unsafe.Pointer) int32 {
	if !l.has[SymGetSimpleBigcData] {
		return -1
	}
	return l.getSimpleBigcData(handle, byteOfs, byteSize, buf)
}

func (l *library) SetSimpleBigcData(handle, byteOfs, byteSize int32, buf unsafe.Pointer, units int32) int32 {
	if !l.has[SymSetSimpleBigcData] {
		return -1
	}
	return l.setSimpleBigcData(handle, byteOfs, byteSize, buf, units)
}

func (l *library) GetSimpleBigcStats(handle int32, age, rflags *int32) int32 {
	if !l.has[SymGetSimpleBigcStats] {
		return -1
	}
	return l.getSimpleBigcStats(handle, age, rflags)
}
