// Package log provides compact structured logging for regreport, built on
// top of the standard slog package.
//
// This package extends slog to provide:
//   - Compaction of coefficient vectors and variance matrices into shape
//     summaries such as "float64[6 x 6]"
//   - Truncation of long string values such as whole report texts
//   - Configurable log levels with verbose mode support
//   - An optional rotating JSON log file
//
// # Usage
//
//	logger := log.NewLogger(os.Stderr, true) // verbose=true
//
//	logger.Debug("deriving chow test",
//	    "betas", betas, // logged as float64[6]
//	    "vm", vm,       // logged as float64[6 x 6]
//	)
//
//	slog.SetDefault(logger)
package log
