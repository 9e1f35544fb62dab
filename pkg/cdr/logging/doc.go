// Package logging provides a minimal logging facade for the CDR binding.
//
// The Logger interface wraps a subset of log/slog. Applications can plug in
// their own implementation, hand over a *slog.Logger with New, or a
// *zap.Logger with NewZap:
//
//	lib, err := cdr.Open(cdr.Config{
//	    Path:   "/opt/cx/lib/libcdr.so",
//	    Logger: logging.NewZap(zapLogger),
//	})
//
// The binding logs nothing unless a Logger is configured; Nop is the default.
// Native failures are reported at debug level, recovered callback panics at
// warn level.
package logging
