package cdr

import (
	"context"
	"fmt"
	"math"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/cxv4/cdr-go/internal/native"
	"github.com/cxv4/cdr-go/pkg/cdr/logging"
)

// Library represents the loaded CDR library plus the process identity passed
// to register calls. The resolved entry points never change after Open.
type Library struct {
	api      native.API
	path     string
	identity string
	log      logging.Logger
	metrics  *metrics
	closed   atomic.Bool

	// regMu serialises register calls so that registered matches the
	// library's own first-registration-wins table.
	regMu      sync.Mutex
	registered map[registration]uintptr
}

// registration identifies a name within one callback kind. Channels and bigc
// blocks live in separate namespaces.
type registration struct {
	kind string
	name string
}

// Open loads the shared library named by cfg.Path and resolves its entry
// points. Load failures are reported as ErrLoad, builds without a native
// backend as ErrNotBuilt.
func Open(cfg Config) (*Library, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	api, err := native.Open(native.Options{Path: cfg.Path, Global: cfg.GlobalSymbols})
	if err != nil {
		return nil, remapError("Open", err)
	}
	return newLibrary(api, cfg)
}

func newLibrary(api native.API, cfg Config) (*Library, error) {
	m, err := newMetrics(cfg.Registerer)
	if err != nil {
		return nil, invalidf("Open", fmt.Sprintf("register metrics: %v", err))
	}
	identity := cfg.identity()
	return &Library{
		api:      api,
		path:     cfg.Path,
		identity: identity,
		log:      cfg.logger().With("library", cfg.Path, "identity", identity),
		metrics:  m,

		registered: make(map[registration]uintptr),
	}, nil
}

// ProcessIdentity returns the argv0 string passed to register calls.
func (l *Library) ProcessIdentity() string { return l.identity }

// Path returns the path the library was loaded from.
func (l *Library) Path() string { return l.path }

// Close marks the handle closed. Further calls fail with ErrLibraryClosed and
// a second Close returns ErrLibraryClosed. The shared object stays mapped,
// since the library may still hold callbacks registered through it.
func (l *Library) Close() error {
	if l == nil {
		return nil
	}
	if !l.closed.CompareAndSwap(false, true) {
		return ErrLibraryClosed
	}
	return nil
}

func (l *Library) usable(op string) error {
	if l == nil || l.api == nil {
		return &Error{Op: op, Err: ErrNotBuilt}
	}
	if l.closed.Load() {
		return &Error{Op: op, Err: ErrLibraryClosed}
	}
	return nil
}

func (l *Library) require(op string, sym native.Symbol) error {
	if !l.api.Has(sym) {
		return &Error{Op: op, Err: ErrUnsupported, Detail: sym.Name()}
	}
	return nil
}

// check records a native result and returns the matching error for a failed
// call.
func (l *Library) check(op string, rc int32, failed bool, class error) error {
	l.metrics.call(op, failed)
	if !failed {
		return nil
	}
	l.log.Debug(context.Background(), "native call failed", "op", op, "code", rc)
	return &Error{Op: op, Code: int(rc), Err: class}
}

func checkName(op, what, name string) error {
	if name == "" {
		return invalidf(op, "empty "+what+" name")
	}
	if strings.ContainsRune(name, 0) {
		return invalidf(op, what+" name contains NUL")
	}
	return nil
}

// register performs one native register call. key is the registry entry for
// cb, or 0 without a callback. The library answers a repeated name with the
// existing handle and keeps the callback it was first given, so key is
// released again in that case as well as on failure.
func (l *Library) register(op, kind, name string, key uintptr, call func() int32) (int, error) {
	l.regMu.Lock()
	defer l.regMu.Unlock()

	rc := call()
	if err := l.check(op, rc, rc < 0, ErrRegistration); err != nil {
		native.Release(key)
		return 0, err
	}

	id := registration{kind: kind, name: name}
	if _, dup := l.registered[id]; dup {
		if key != 0 {
			native.Release(key)
			l.log.Debug(context.Background(), "name already registered, callback ignored", "op", op, "name", name)
		}
		return int(rc), nil
	}
	l.registered[id] = key
	return int(rc), nil
}

func toInt32(op, what string, v int) (int32, error) {
	if v < math.MinInt32 || v > math.MaxInt32 {
		return 0, invalidf(op, fmt.Sprintf("%s %d does not fit a C int", what, v))
	}
	return int32(v), nil
}
