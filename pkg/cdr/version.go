package cdr

// Version is populated at build time via ldflags.
var Version = "v0.0.0-in-progress"

// WrapperVersion returns the semantic version of this binding. In development
// it defaults to v0.0.0-in-progress.
func WrapperVersion() string {
	return Version
}
