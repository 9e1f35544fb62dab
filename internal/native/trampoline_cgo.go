//go:build cgo && !windows

package native

// #include <stdint.h>
import "C"

// Callback functions - called from the CDR library back into Go. They may run
// on threads the Go runtime has never seen.

//export cdrGoChanTrampoline
func cdrGoChanTrampoline(handle C.int, val C.double, key C.uintptr_t) C.int {
	return C.int(dispatchChannel(int32(handle), float64(val), uintptr(key)))
}

//export cdrGoBigcTrampoline
func cdrGoBigcTrampoline(handle C.int, key C.uintptr_t) C.int {
	return C.int(dispatchBigBlock(int32(handle), uintptr(key)))
}
