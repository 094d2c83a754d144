package ports

import "github.com/bft-labs/readout/pkg/log"

// Logger is the structured logging port used throughout the core.
type Logger = log.Logger

// Field is a structured log field.
type Field = log.Field

// Field constructors re-exported so core packages only import ports.
var (
	String   = log.String
	Int      = log.Int
	Int64    = log.Int64
	Uint64   = log.Uint64
	Float64  = log.Float64
	Bool     = log.Bool
	Duration = log.Duration
	Ints     = log.Ints
	Word     = log.Word
	Err      = log.Err
	Any      = log.Any
)
