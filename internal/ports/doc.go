// Package ports defines the interfaces (ports) that connect the readout core
// to its external collaborators.
//
// # Port Interfaces
//
//   - [Encoder]: turns one row of pixel samples into zero, one or two words
//   - [EventSink]: receives data-path events (degraded encoding, skips, idles)
//   - [ReportRepository]: persists run reports
//   - [Logger]: structured logging abstraction
//
// # Usage
//
// The simulation core (internal/channel, internal/arbiter, internal/sim)
// depends only on these interfaces. internal/adapters/fs provides the file
// system implementations, pkg/log the loggers, and internal/encoder the
// reference row encoder.
package ports
