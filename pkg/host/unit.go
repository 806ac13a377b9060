package host

import (
	"io"

	"github.com/robotalks/metal.go/pkg/serial"
	"github.com/robotalks/metal.go/pkg/unit"
)

// Unit collects the test events of the target. The wire carries no
// operands: the call site identifies the check.
type Unit struct {
	Printer *unit.Printer
	events  int
}

// NewUnit creates a Unit printing to out.
func NewUnit(out io.Writer, level unit.PrintLevel) *Unit {
	return &Unit{Printer: unit.NewPrinter(out, level)}
}

// Install implements Extension.
func (u *Unit) Install(e *Engine) {
	e.Handle(serial.TagUnit, u)
}

// Invoke implements Hook.
func (u *Unit) Invoke(e *Engine, site serial.Site) error {
	b, err := e.ReadByte()
	if err != nil {
		return err
	}
	t, l, err := unit.Unpack(b)
	if err != nil {
		return err
	}
	value, err := e.ReadInt()
	if err != nil {
		return err
	}
	ev := &unit.Event{Loc: site.ID, Type: t, Level: l, Value: value}
	if t == unit.TypeCall {
		// case names stay on the target
		ev.Name = site.String()
	}
	u.Printer.Print(ev, site)
	u.events++
	return nil
}

// Root returns the root scope of the collected results.
func (u *Unit) Root() *unit.Scope {
	return u.Printer.Stack.Root()
}

// Events is the number of events received.
func (u *Unit) Events() int {
	return u.events
}
