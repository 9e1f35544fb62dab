//go:build cgo && !windows

package native

/*
#cgo linux LDFLAGS: -ldl
#include <dlfcn.h>
#include <stdint.h>
#include <stdlib.h>

typedef void (*cdr_chan_cb_t)(int, double, void *);
typedef void (*cdr_bigc_cb_t)(int, void *);

extern int cdrGoChanTrampoline(int, double, uintptr_t);
extern int cdrGoBigcTrampoline(int, uintptr_t);

// The library declares void callbacks; the Go result is dropped here.
static void cdr_chan_trampoline(int handle, double val, void *privptr) {
	cdrGoChanTrampoline(handle, val, (uintptr_t)privptr);
}

static void cdr_bigc_trampoline(int handle, void *privptr) {
	cdrGoBigcTrampoline(handle, (uintptr_t)privptr);
}

typedef int (*cdr_register_chan_fn)(const char *, const char *, cdr_chan_cb_t, void *);
typedef int (*cdr_set_chan_fn)(int, double);
typedef int (*cdr_get_chan_fn)(int, double *);
typedef int (*cdr_register_bigc_fn)(const char *, const char *, size_t, cdr_bigc_cb_t, void *);
typedef int (*cdr_set_param_fn)(int, int, int);
typedef int (*cdr_get_param_fn)(int, int, int *);
typedef int (*cdr_get_data_fn)(int, int, int, void *);
typedef int (*cdr_set_data_fn)(int, int, int, void *, int);
typedef int (*cdr_get_stats_fn)(int, int *, int *);

static int cdr_register_chan(void *fn, const char *name, const char *argv0, uintptr_t key) {
	cdr_chan_cb_t cb = key != 0 ? cdr_chan_trampoline : NULL;
	return ((cdr_register_chan_fn)fn)(name, argv0, cb, (void *)key);
}

static int cdr_set_chan(void *fn, int handle, double val) {
	return ((cdr_set_chan_fn)fn)(handle, val);
}

static int cdr_get_chan(void *fn, int handle, double *val_p) {
	return ((cdr_get_chan_fn)fn)(handle, val_p);
}

static int cdr_register_bigc(void *fn, const char *name, const char *argv0, size_t max_datasize, uintptr_t key) {
	cdr_bigc_cb_t cb = key != 0 ? cdr_bigc_trampoline : NULL;
	return ((cdr_register_bigc_fn)fn)(name, argv0, max_datasize, cb, (void *)key);
}

static int cdr_set_param(void *fn, int handle, int n, int val) {
	return ((cdr_set_param_fn)fn)(handle, n, val);
}

static int cdr_get_param(void *fn, int handle, int n, int *val_p) {
	return ((cdr_get_param_fn)fn)(handle, n, val_p);
}

static int cdr_get_data(void *fn, int handle, int byte_ofs, int byte_size, void *buf) {
	return ((cdr_get_data_fn)fn)(handle, byte_ofs, byte_size, buf);
}

static int cdr_set_data(void *fn, int handle, int byte_ofs, int byte_size, void *buf, int units) {
	return ((cdr_set_data_fn)fn)(handle, byte_ofs, byte_size, buf, units);
}

static int cdr_get_stats(void *fn, int handle, int *age_p, int *rflags_p) {
	return ((cdr_get_stats_fn)fn)(handle, age_p, rflags_p);
}
*/
import "C"

import (
	"unsafe"
)

type library struct {
	handle unsafe.Pointer
	syms   [symCount]unsafe.Pointer
}

func dlerror() string {
	if msg := C.dlerror(); msg != nil {
		return C.GoString(msg)
	}
	return "unknown dlopen error"
}

func open(opts Options) (API, error) {
	cPath := C.CString(opts.Path)
	defer C.free(unsafe.Pointer(cPath))

	mode := C.int(C.RTLD_NOW)
	if opts.Global {
		mode |= C.RTLD_GLOBAL
	} else {
		mode |= C.RTLD_LOCAL
	}

	h := C.dlopen(cPath, mode)
	if h == nil {
		return nil, &LoadError{Path: opts.Path, Reason: dlerror()}
	}

	lib := &library{handle: h}
	for i := range symbols {
		cName := C.CString(symbols[i].name)
		C.dlerror()
		sym := C.dlsym(h, cName)
		C.free(unsafe.Pointer(cName))
		if sym == nil && !symbols[i].optional {
			err := &LoadError{Path: opts.Path, Symbol: symbols[i].name, Reason: dlerror()}
			C.dlclose(h)
			return nil, err
		}
		lib.syms[i] = sym
	}
	return lib, nil
}

func (l *library) Has(s Symbol) bool {
	return s >= 0 && s < symCount && l.syms[s] != nil
}

func (l *library) RegisterSimpleChan(name, argv0 string, key uintptr) int32 {
	cName := C.CString(name)
	defer C.free(unsafe.Pointer(cName))
	cArgv0 := C.CString(argv0)
	defer C.free(unsafe.Pointer(cArgv0))

	return int32(C.cdr_register_chan(l.syms[SymRegisterSimpleChan], cName, cArgv0, C.uintptr_t(key)))
}

func (l *library) SetSimpleChanVal(handle int32, val float64) int32 {
	return int32(C.cdr_set_chan(l.syms[SymSetSimpleChanVal], C.int(handle), C.double(val)))
}

func (l *library) GetSimpleChanVal(handle int32, val *float64) int32 {
	var v C.double
	rc := C.cdr_get_chan(l.syms[SymGetSimpleChanVal], C.int(handle), &v)
	*val = float64(v)
	return int32(rc)
}

func (l *library) RegisterSimpleBigc(name, argv0 string, maxDataSize uint64, key uintptr) int32 {
	cName := C.CString(name)
	defer C.free(unsafe.Pointer(cName))
	cArgv0 := C.CString(argv0)
	defer C.free(unsafe.Pointer(cArgv0))

	return int32(C.cdr_register_bigc(l.syms[SymRegisterSimpleBigc], cName, cArgv0, C.size_t(maxDataSize), C.uintptr_t(key)))
}

func (l *library) SetSimpleBigcParam(handle, n, val int32) int32 {
	return int32(C.cdr_set_param(l.syms[SymSetSimpleBigcParam], C.int(handle), C.int(n), C.int(val)))
}

func (l *library) GetSimpleBigcParam(handle, n int32, val *int32) int32 {
	var v C.int
	rc := C.cdr_get_param(l.syms[SymGetSimpleBigcParam], C.int(handle), C.int(n), &v)
	*val = int32(v)
	return int32(rc)
}

func (l *library) GetSimpleBigcData(handle, byteOfs, byteSize int32, buf unsafe.Pointer) int32 {
	if l.syms[SymGetSimpleBigcData] == nil {
		return -1
	}
	return int32(C.cdr_get_data(l.syms[SymGetSimpleBigcData], C.int(handle), C.int(byteOfs), C.int(byteSize), buf))
}

func (l *library) SetSimpleBigcData(handle, byteOfs, byteSize int32, buf unsafe.Pointer, units int32) int32 {
	if l.syms[SymSetSimpleBigcData] == nil {
		return -1
	}
	return int32(C.cdr_set_data(l.syms[SymSetSimpleBigcData], C.int(handle), C.int(byteOfs), C.int(byteSize), buf, C.int(units)))
}

func (l *library) GetSimpleBigcStats(handle int32, age, rflags *int32) int32 {
	if l.syms[SymGetSimpleBigcStats] == nil {
		return -1
	}
	var a, f C.int
	rc := C.cdr_get_stats(l.syms[SymGetSimpleBigcStats], C.int(handle), &a, &f)
	*age = int32(a)
	*rflags = int32(f)
	return int32(rc)
}
