// Package log provides the logging abstraction used by readout components.
//
// This package defines a Logger interface that can be implemented by any
// logging library. A zerolog adapter is provided for command-line use and a
// no-op logger for tests and library embedding.
//
// # Usage
//
// Wrap an existing zerolog logger:
//
//	logger := log.NewZerologAdapterWithLogger(zerolog.New(os.Stderr))
//
// Or discard everything:
//
//	logger := log.Discard
//
// # Custom Loggers
//
// Implement the Logger interface to route readout events into your own
// logging infrastructure:
//
//	type MyLogger struct { ... }
//
//	func (l *MyLogger) Debug(msg string, fields ...log.Field) { ... }
//	func (l *MyLogger) Info(msg string, fields ...log.Field) { ... }
//	func (l *MyLogger) Warn(msg string, fields ...log.Field) { ... }
//	func (l *MyLogger) Error(msg string, fields ...log.Field) { ... }
package log
