package native

import (
	"errors"
	"fmt"
	"unsafe"
)

// ErrNotBuilt reports that no native backend was compiled into the current
// binary.
var ErrNotBuilt = errors.New("cdr/internal/native: native bindings not built")

// LoadError describes a library that could not be opened or that lacks a
// required entry point.
type LoadError struct {
	Path   string
	Symbol string
	Reason string
}

func (e *LoadError) Error() string {
	if e.Symbol != "" {
		return fmt.Sprintf("load %s: missing symbol %s: %s", e.Path, e.Symbol, e.Reason)
	}
	return fmt.Sprintf("load %s: %s", e.Path, e.Reason)
}

// Symbol indexes the simpleaccess entry-point table.
type Symbol int

const (
	SymRegisterSimpleChan Symbol = iota
	SymSetSimpleChanVal
	SymGetSimpleChanVal
	SymRegisterSimpleBigc
	SymSetSimpleBigcParam
	SymGetSimpleBigcParam
	SymGetSimpleBigcData
	SymSetSimpleBigcData
	SymGetSimpleBigcStats
	symCount
)

// symbols lists each entry point with its C prototype. Optional entry points
// may be absent from older builds of the library.
var symbols = [symCount]struct {
	name     string
	proto    string
	optional bool
}{
	SymRegisterSimpleChan: {"CdrRegisterSimpleChan", "int(const char*, const char*, void(*)(int, double, void*), void*)", false},
	SymSetSimpleChanVal:   {"CdrSetSimpleChanVal", "int(int, double)", false},
	SymGetSimpleChanVal:   {"CdrGetSimpleChanVal", "int(int, double*)", false},
	SymRegisterSimpleBigc: {"CdrRegisterSimpleBigc", "int(const char*, const char*, size_t, void(*)(int, void*), void*)", false},
	SymSetSimpleBigcParam: {"CdrSetSimpleBigcParam", "int(int, int, int)", false},
	SymGetSimpleBigcParam: {"CdrGetSimpleBigcParam", "int(int, int, int*)", false},
	SymGetSimpleBigcData:  {"CdrGetSimpleBigcData", "int(int, int, int, void*)", true},
	SymSetSimpleBigcData:  {"CdrSetSimpleBigcData", "int(int, int, int, void*, int)", true},
	SymGetSimpleBigcStats: {"CdrGetSimpleBigcStats", "int(int, int*, int*)", true},
}

// Name returns the exported C name of the entry point.
func (s Symbol) Name() string {
	if s < 0 || s >= symCount {
		return fmt.Sprintf("Symbol(%d)", int(s))
	}
	return symbols[s].name
}

// String returns the C prototype of the entry point.
func (s Symbol) String() string {
	if s < 0 || s >= symCount {
		return s.Name()
	}
	return s.Name() + " " + symbols[s].proto
}

// Optional reports whether a library may omit the entry point.
func (s Symbol) Optional() bool {
	return s >= 0 && s < symCount && symbols[s].optional
}

// Options controls how the shared library is opened.
type Options struct {
	Path string
	// Global makes the library's symbols available to libraries loaded later
	// (RTLD_GLOBAL).
	Global bool
}

// API is the resolved simpleaccess entry-point table. Every method returns the
// native result code unchanged.
//
// A zero key passed to a register call means "no callback": the native side
// receives NULL for both the function pointer and the private pointer.
type API interface {
	RegisterSimpleChan(name, argv0 string, key uintptr) int32
	SetSimpleChanVal(handle int32, val float64) int32
	GetSimpleChanVal(handle int32, val *float64) int32

	RegisterSimpleBigc(name, argv0 string, maxDataSize uint64, key uintptr) int32
	SetSimpleBigcParam(handle, n, val int32) int32
	GetSimpleBigcParam(handle, n int32, val *int32) int32

	// buf must point at byteSize bytes that stay reachable for the call.
	GetSimpleBigcData(handle, byteOfs, byteSize int32, buf unsafe.Pointer) int32
	SetSimpleBigcData(handle, byteOfs, byteSize int32, buf unsafe.Pointer, units int32) int32
	GetSimpleBigcStats(handle int32, age, rflags *int32) int32

	// Has reports whether the entry point was resolved at load time.
	Has(Symbol) bool
}

// Open loads the library at opts.Path and resolves the symbol table. A
// missing required symbol closes the library again and returns a *LoadError.
func Open(opts Options) (API, error) {
	if opts.Path == "" {
		return nil, &LoadError{Reason: "empty library path"}
	}
	return open(opts)
}
