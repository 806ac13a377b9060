package unit

import (
	"io"

	"github.com/robotalks/metal.go/pkg/serial"
)

// HostedReporter prints events directly, for targets which have a
// console of their own.
type HostedReporter struct {
	*Printer
	Locate serial.Locator
}

// NewHosted creates a HostedReporter printing everything to out.
func NewHosted(out io.Writer) *HostedReporter {
	return &HostedReporter{
		Printer: NewPrinter(out, PrintAll),
		Locate:  serial.CallerLocator{},
	}
}

// Locator implements LocatingReporter.
func (r *HostedReporter) Locator() serial.Locator {
	return r.Locate
}

// Report implements Reporter.
func (r *HostedReporter) Report(e *Event) {
	site, ok := r.Locate.Resolve(e.Loc)
	if !ok {
		site = serial.Site{ID: e.Loc, File: "<unknown>"}
	}
	r.Print(e, site)
}
