//go:build windows || (!cgo && !linux && !darwin)

package native

// Stub backend for platforms without dlopen support in this package. The
// package compiles but Open always reports ErrNotBuilt.

func open(Options) (API, error) {
	return nil, ErrNotBuilt
}
