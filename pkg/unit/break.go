package unit

import "github.com/robotalks/metal.go/pkg/serial"

// BreakIdentifier is passed to the Breakpoint for every event.
const BreakIdentifier = "metal.unit"

// Breakpoint is where a debugger intercepts events.
type Breakpoint interface {
	Break(identifier string, args ...interface{})
}

// BreakFunc is the func form of Breakpoint.
type BreakFunc func(identifier string, args ...interface{})

// Break implements Breakpoint.
func (f BreakFunc) Break(identifier string, args ...interface{}) {
	f(identifier, args...)
}

// Break does nothing. Debuggers set a breakpoint on it and read the
// arguments from the frame.
//
//go:noinline
func Break(identifier string, args ...interface{}) {
}

// BreakReporter hands every event to a Breakpoint. The arguments are the
// type, level, value, file, line and the operands.
type BreakReporter struct {
	Breakpoint Breakpoint
	Locate     serial.Locator
}

// NewBreak creates a BreakReporter calling Break. The locator resolves
// call sites into file and line.
func NewBreak(l serial.Locator) *BreakReporter {
	if l == nil {
		l = serial.CallerLocator{}
	}
	return &BreakReporter{Breakpoint: BreakFunc(Break), Locate: l}
}

// Locator implements LocatingReporter.
func (r *BreakReporter) Locator() serial.Locator {
	return r.Locate
}

// Report implements Reporter.
func (r *BreakReporter) Report(e *Event) {
	site, _ := r.Locate.Resolve(e.Loc)
	args := []interface{}{e.Type, e.Level, e.Value, site.File, site.Line}
	for _, op := range e.Operands {
		args = append(args, op)
	}
	r.Breakpoint.Break(BreakIdentifier, args...)
}
