package unit

import (
	"fmt"
	"io"
	"strings"

	"github.com/robotalks/metal.go/pkg/serial"
)

// PrintLevel selects which checks are printed.
type PrintLevel int

// Print levels.
const (
	// PrintAll prints every event.
	PrintAll PrintLevel = iota
	// PrintWarning prints failed checks of both levels.
	PrintWarning
	// PrintError prints failed asserts only.
	PrintError
)

var printLevelNames = [...]string{"all", "warning", "error"}

func (l PrintLevel) String() string {
	if l >= 0 && int(l) < len(printLevelNames) {
		return printLevelNames[l]
	}
	return fmt.Sprintf("PrintLevel(%d)", int(l))
}

// ParsePrintLevel parses the name of a PrintLevel.
func ParsePrintLevel(s string) (PrintLevel, error) {
	for n, name := range printLevelNames {
		if strings.EqualFold(s, name) {
			return PrintLevel(n), nil
		}
	}
	return PrintAll, fmt.Errorf("unknown print level %q", s)
}

// Set implements flag.Value.
func (l *PrintLevel) Set(s string) error {
	v, err := ParsePrintLevel(s)
	if err == nil {
		*l = v
	}
	return err
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *PrintLevel) UnmarshalText(text []byte) error {
	return l.Set(string(text))
}

// Printer writes events as human readable lines and keeps the statistics
// of nested test cases.
type Printer struct {
	Out   io.Writer
	Level PrintLevel
	Stack *Stack
}

// NewPrinter creates a Printer with a fresh Stack.
func NewPrinter(out io.Writer, level PrintLevel) *Printer {
	return &Printer{Out: out, Level: level, Stack: NewStack()}
}

func (p *Printer) printf(format string, args ...interface{}) {
	if p.Out != nil {
		fmt.Fprintf(p.Out, format, args...)
	}
}

func (p *Printer) shouldPrint(e *Event) bool {
	switch p.Level {
	case PrintAll:
		return true
	case PrintWarning:
		return e.Failed()
	default:
		return e.Failed() && e.Level == LevelAssert
	}
}

// Print records e at site into the current scope and prints it.
func (p *Printer) Print(e *Event, site serial.Site) {
	loc := site.String()
	scope := p.Stack.Current()
	switch e.Type {
	case TypeCall:
		p.call(e, loc)
		return
	case TypeCritical, TypeCriticalSection:
		scope.Cancelled = true
		p.printf("%s critical check failed, cancelling\n", loc)
	case TypeLoop:
		p.printf("%s for loop cancelled\n", loc)
	case TypeRanged:
		p.ranged(e, loc)
	case TypeLog:
		p.printf("%s log : %s\n", loc, operand(e, 0))
	case TypeCheckpoint:
		if p.Level == PrintAll {
			p.printf("%s checkpoint\n", loc)
		}
	case TypeReport:
		sum := p.Stack.Root().Summary
		p.printf("%s full test report: {executed: %d, warnings: %d, errors: %d}\n",
			loc, sum.Executed, sum.Warnings, sum.Errors)
	default:
		scope.Record(e, site)
		if p.shouldPrint(e) {
			p.check(e, loc)
		}
		return
	}
	scope.Record(e, site)
}

func (p *Printer) call(e *Event, loc string) {
	name := e.Name
	if e.Description != "" {
		name = e.Description
	}
	switch e.Level {
	case LevelEnter:
		p.Stack.Enter(e.Name, e.Description)
		p.printf("%s entering test case %s\n", loc, name)
	case LevelExit:
		scope := p.Stack.Current()
		state, result := "exiting", "succeeded"
		if scope.Cancelled {
			state = "cancelled"
		}
		if e.Value != 0 {
			result = "failed"
		}
		p.printf("%s %s test case %s, %s with {executed: %d, warnings: %d, errors: %d}\n",
			loc, state, name, result, scope.Summary.Executed, scope.Summary.Warnings, scope.Summary.Errors)
		p.Stack.Exit()
	}
}

func (p *Printer) ranged(e *Event, loc string) {
	switch e.Level {
	case LevelEnter:
		if len(e.Operands) >= 4 {
			p.printf("%s ranged test starting with %d elements for %s[0 ... %s] and %s[0 ... %s]\n",
				loc, e.Value, e.Operands[0], e.Operands[1], e.Operands[2], e.Operands[3])
		} else {
			p.printf("%s ranged test starting with %d elements\n", loc, e.Value)
		}
	case LevelCancel:
		p.printf("%s ranged test cancelled at pos %d\n", loc, e.Value)
	case LevelExit:
		p.printf("%s ranged test completed with %d elements\n", loc, e.Value)
	}
}

var checkOperators = map[Type]string{
	TypeEqual:    "==",
	TypeNotEqual: "!=",
	TypeGE:       ">=",
	TypeLE:       "<=",
	TypeGreater:  ">",
	TypeLesser:   "<",
}

// Expression formats the checked expression of e from its operands.
func Expression(e *Event) string {
	if op, ok := checkOperators[e.Type]; ok && len(e.Operands) >= 2 {
		return e.Operands[0] + " " + op + " " + e.Operands[1]
	}
	switch e.Type {
	case TypeClose, TypeCloseRelative:
		if len(e.Operands) < 3 {
			break
		}
		sep := "+/-"
		if e.Type == TypeCloseRelative {
			sep = "~"
		}
		return fmt.Sprintf("%s == %s %s %s", e.Operands[0], e.Operands[1], sep, e.Operands[2])
	case TypePredicate:
		if len(e.Operands) == 0 {
			break
		}
		return e.Operands[0] + "(" + strings.Join(e.Operands[1:], ", ") + ")"
	}
	return strings.Join(e.Operands, " ")
}

func (p *Printer) check(e *Event, loc string) {
	result := "succeeded"
	if !e.Condition() {
		result = "failed"
	}
	expr := Expression(e)
	if expr != "" {
		expr += " "
	}
	p.printf("%s [%s]: %s%s %s\n", loc, e.Type, expr, e.Level, result)
}

func operand(e *Event, n int) string {
	if n < len(e.Operands) {
		return e.Operands[n]
	}
	return ""
}
