package unit

import (
	"fmt"

	"github.com/robotalks/metal.go/pkg/serial"
)

// Type is the kind of an Event.
type Type uint8

// Event types in wire order.
const (
	TypePlain Type = iota
	TypeCritical
	TypeCriticalSection
	TypeLoop
	TypeRanged
	TypeMessage
	TypeCall
	TypeLog
	TypeCheckpoint
	TypeEqual
	TypeNotEqual
	TypePredicate
	TypeClose
	TypeCloseRelative
	TypeGE
	TypeLE
	TypeGreater
	TypeLesser
	TypeReport
	numTypes
)

// Level is the severity or control phase of an Event.
type Level uint8

// Levels in wire order.
const (
	LevelCancel Level = iota
	LevelInfo
	LevelEnter
	LevelExit
	LevelAssert
	LevelExpect
	numLevels
)

// Packing of Type and Level into one byte.
const (
	TypeBits  = 5
	TypeMask  = 1<<TypeBits - 1
	LevelMask = 0xff &^ TypeMask
)

var typeNames = [...]string{
	"plain", "critical", "critical_section", "loop", "ranged", "message",
	"call", "log", "checkpoint", "equal", "not_equal", "predicate", "close",
	"close_relative", "ge", "le", "greater", "lesser", "report",
}

var levelNames = [...]string{"cancel", "info", "enter", "exit", "assert", "expect"}

func (t Type) String() string {
	if t < numTypes {
		return typeNames[t]
	}
	return fmt.Sprintf("type(%d)", uint8(t))
}

// MarshalText implements encoding.TextMarshaler.
func (t Type) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (l Level) String() string {
	if l < numLevels {
		return levelNames[l]
	}
	return fmt.Sprintf("level(%d)", uint8(l))
}

// MarshalText implements encoding.TextMarshaler.
func (l Level) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// Checks tells whether events of the level count as executed checks.
func (l Level) Checks() bool {
	return l == LevelAssert || l == LevelExpect
}

// Pack combines t and l into the wire byte.
func Pack(t Type, l Level) byte {
	return byte(l)<<TypeBits | byte(t)&TypeMask
}

// Unpack splits the wire byte.
func Unpack(b byte) (Type, Level, error) {
	t, l := Type(b&TypeMask), Level(b>>TypeBits)
	if t >= numTypes {
		return t, l, fmt.Errorf("unit: unknown event type %d", uint8(t))
	}
	if l >= numLevels {
		return t, l, fmt.Errorf("unit: unknown event level %d", uint8(l))
	}
	return t, l, nil
}

// Event is a single report of the harness.
type Event struct {
	Loc   serial.Location
	Type  Type
	Level Level
	// Value is the condition (0 or 1) of checks and the count or index of
	// control events.
	Value int64
	// Operands are the printed operands. They never go on the wire.
	Operands []string
	// Name and Description of a test case.
	Name        string
	Description string
}

// Condition reports Value as a boolean.
func (e *Event) Condition() bool {
	return e.Value != 0
}

// Failed tells whether e is a failed check.
func (e *Event) Failed() bool {
	return e.Level.Checks() && e.Value == 0
}

func boolValue(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
