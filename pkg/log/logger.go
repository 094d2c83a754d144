package log

import (
	"fmt"
	"time"
)

// Logger is the structured logging port. Messages carry a short constant
// text and the variable parts as fields.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
}

// Kind tags the payload of a Field so adapters can pick a typed encoder
// without reflection.
type Kind uint8

const (
	KindAny Kind = iota
	KindString
	KindInt
	KindInt64
	KindUint64
	KindFloat64
	KindBool
	KindDuration
	KindInts
	KindError
)

// Field is one key/value pair attached to a log message.
type Field struct {
	Key   string
	Kind  Kind
	Value any
}

func String(key, v string) Field                 { return Field{key, KindString, v} }
func Int(key string, v int) Field                { return Field{key, KindInt, v} }
func Int64(key string, v int64) Field            { return Field{key, KindInt64, v} }
func Uint64(key string, v uint64) Field          { return Field{key, KindUint64, v} }
func Float64(key string, v float64) Field        { return Field{key, KindFloat64, v} }
func Bool(key string, v bool) Field              { return Field{key, KindBool, v} }
func Duration(key string, v time.Duration) Field { return Field{key, KindDuration, v} }
func Ints(key string, v []int) Field             { return Field{key, KindInts, v} }
func Any(key string, v any) Field                { return Field{key, KindAny, v} }

// Word renders a bus word as 0xHHHH.
func Word(key string, w uint16) Field {
	return Field{key, KindString, fmt.Sprintf("0x%04X", w)}
}

// Err attaches err under the "error" key.
func Err(err error) Field {
	return Field{"error", KindError, err}
}
