// Package cdr binds the CDR "simpleaccess" API: named scalar channels and
// bigc parameter blocks served by the CDR shared library.
//
// Open loads the library once per process and resolves its entry points:
//
//	lib, err := cdr.Open(cdr.Config{Path: "/opt/cx/lib/libcdr.so"})
//	if err != nil {
//	    return err
//	}
//	cb := cdr.MakeChannelCallback(func(handle int, value float64, priv cdr.Opaque) int {
//	    fmt.Println("update", handle, value)
//	    return 0
//	})
//	h, err := lib.RegisterSimpleChannel("linac1.beam_current", cb, nil)
//	...
//	err = lib.SetChannelValue(h, 12.5)
//
// Every call is synchronous. A negative code from a register call yields
// ErrRegistration, a non-zero code from a get/set call yields ErrOperation; the
// returned *Error carries the native code. Callbacks may be invoked by the
// library from any thread and are kept alive for the rest of the process.
//
// SegmentBuffer is a fixed-length block of 1, 2, 4 or 8 byte integers for
// bigc data transfers and other calls that fill caller-supplied memory.
package cdr
