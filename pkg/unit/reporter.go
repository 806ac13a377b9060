package unit

import (
	"github.com/robotalks/metal.go/pkg/serial"
)

// Reporter is the backend receiving the events of a Unit.
type Reporter interface {
	Report(e *Event)
}

// ReportFunc is the func form of Reporter.
type ReportFunc func(e *Event)

// Report implements Reporter.
func (f ReportFunc) Report(e *Event) {
	f(e)
}

// LocatingReporter is a Reporter which decides how call sites are
// identified.
type LocatingReporter interface {
	Reporter
	Locator() serial.Locator
}

type operandDropper interface {
	DropsOperands() bool
}

type nopReporter struct{}

func (nopReporter) Report(*Event) {}

// Nop drops all events.
var Nop Reporter = nopReporter{}

// SerialReporter writes events on the wire: the location, the packed type
// and level, then the value as an int32. Operands are never sent.
type SerialReporter struct {
	Target *serial.Target
}

// NewSerial creates a SerialReporter.
func NewSerial(t *serial.Target) *SerialReporter {
	return &SerialReporter{Target: t}
}

// Locator implements LocatingReporter.
func (r *SerialReporter) Locator() serial.Locator {
	return r.Target.Locator
}

// DropsOperands tells the Unit not to format operands.
func (r *SerialReporter) DropsOperands() bool {
	return true
}

// Report implements Reporter.
func (r *SerialReporter) Report(e *Event) {
	r.Target.WriteLocation(e.Loc)
	r.Target.WriteByte(Pack(e.Type, e.Level))
	serial.WriteInt(r.Target, int32(e.Value))
}
