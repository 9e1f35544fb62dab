// Package native contains all foreign-function code that talks to the CDR
// shared library.
//
// # Design Principles
//
//  1. Isolation: ALL cgo and purego code lives in this package. No other
//     package should import "C". pkg/cdr only sees the API interface.
//
//  2. Static signatures: every entry point is described once in the symbol
//     table and resolved when the library is opened, never re-declared per call.
//
//  3. Raw codes: functions return the native int result unchanged. Turning
//     codes into Go errors is the caller's job.
//
//  4. Callbacks: native code receives one fixed trampoline per callback kind
//     and a registry key as its private pointer. The trampoline looks the Go
//     handler up in the registry; Go pointers never cross into C memory.
//
// # Backends
//
// With cgo enabled (non-Windows) the library is opened through dlopen(3).
// With cgo disabled on Linux and macOS, github.com/ebitengine/purego provides
// the same table. Everything else compiles against a stub returning
// ErrNotBuilt.
//
// # Threading
//
// The CDR library may invoke trampolines from any thread. The registry is safe
// for concurrent use; the API itself adds no locking around native calls.
package native
