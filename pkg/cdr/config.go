package cdr

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/cxv4/cdr-go/pkg/cdr/logging"
)

// EnvLibrary names the environment variable consulted by FromEnv.
const EnvLibrary = "CDR_LIBRARY"

// Config expresses the knobs required to open the CDR library.
type Config struct {
	// Path is the filesystem path of the CDR shared library.
	Path string `json:"library"`

	// ProcessIdentity is passed to every register call as argv0. Leaving it
	// empty uses the program invocation name.
	ProcessIdentity string `json:"process_identity,omitempty"`

	// GlobalSymbols opens the library with RTLD_GLOBAL so that libraries loaded
	// afterwards can resolve its symbols.
	GlobalSymbols bool `json:"global_symbols,omitempty"`

	// Logger receives debug output for native failures and warnings for
	// recovered callback panics. Nil disables logging.
	Logger logging.Logger `json:"-"`

	// Registerer receives the binding's Prometheus collectors. Nil keeps them
	// unregistered.
	Registerer prometheus.Registerer `json:"-"`
}

// DefaultProcessIdentity returns the program invocation name.
func DefaultProcessIdentity() string {
	if len(os.Args) > 0 && os.Args[0] != "" {
		return os.Args[0]
	}
	return "cdr-go"
}

func (c Config) identity() string {
	if c.ProcessIdentity != "" {
		return c.ProcessIdentity
	}
	return DefaultProcessIdentity()
}

func (c Config) logger() logging.Logger {
	if c.Logger == nil {
		return logging.Nop()
	}
	return c.Logger
}

func (c Config) validate() error {
	if strings.TrimSpace(c.Path) == "" {
		return invalidf("Open", "library path is required")
	}
	if strings.ContainsRune(c.ProcessIdentity, 0) {
		return invalidf("Open", "process identity contains NUL")
	}
	return nil
}

// FromEnv fills an empty Path from the CDR_LIBRARY environment variable.
func (c Config) FromEnv() Config {
	if c.Path == "" {
		c.Path = os.Getenv(EnvLibrary)
	}
	return c
}

// LoadConfig reads a JSON configuration file:
//
//	{"library": "/opt/cx/lib/libcdr.so", "process_identity": "beamview", "global_symbols": true}
//
// An absolute path is used as given. A relative path must stay inside the
// working directory.
func LoadConfig(path string) (Config, error) {
	absPath := filepath.Clean(path)
	if !filepath.IsAbs(absPath) {
		var err error
		if absPath, err = SecurePath(path); err != nil {
			return Config{}, fmt.Errorf("secure path: %w", err)
		}
	}
	data, err := os.ReadFile(absPath) // #nosec G304 -- relative paths validated by SecurePath
	if err != nil {
		return Config{}, fmt.Errorf("read file: %w", err)
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal JSON: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// SecurePath validates that a file path doesn't escape the working directory.
func SecurePath(path string) (string, error) {
	clean := filepath.Clean(path)
	absPath, err := filepath.Abs(clean)
	if err != nil {
		return "", fmt.Errorf("absolute path: %w", err)
	}
	base, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get working directory: %w", err)
	}
	rel, err := filepath.Rel(base, absPath)
	if err != nil {
		return "", fmt.Errorf("relative path: %w", err)
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(os.PathSeparator)) {
		return "", fmt.Errorf("path %q escapes working directory", path)
	}
	return absPath, nil
}
