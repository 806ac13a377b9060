package unit

import (
	"github.com/robotalks/metal.go/pkg/serial"
)

// Outcome tells the caller of a check whether to go on.
type Outcome uint8

// Outcomes.
const (
	// Continue is returned by passing checks and outside armed constructs.
	Continue Outcome = iota
	// Cancelled is returned by a failed assert inside an armed construct.
	// The caller is expected to return it without further checks.
	Cancelled
)

func (o Outcome) String() string {
	if o == Cancelled {
		return "cancelled"
	}
	return "continue"
}

// Unit is the test harness of a target.
//
// Critical, CriticalSection, For, ForEach and Ranged arm the checks run
// inside them: a failed assert then returns Cancelled and the construct
// reports the cancellation. Expects never cancel.
type Unit struct {
	Reporter Reporter
	Locator  serial.Locator

	armed    int
	operands bool
	summary  Summary
}

// New creates a Unit reporting to r, or to Nop if r is nil.
func New(r Reporter) *Unit {
	if r == nil {
		r = Nop
	}
	u := &Unit{Reporter: r, Locator: serial.CallerLocator{}, operands: true}
	if lr, ok := r.(LocatingReporter); ok {
		u.Locator = lr.Locator()
	}
	if d, ok := r.(operandDropper); ok && d.DropsOperands() {
		u.operands = false
	}
	return u
}

// at locates the caller skip frames above the caller of at.
func (u *Unit) at(skip int) serial.Location {
	return u.Locator.Locate(skip+1, serial.TagUnit)
}

func (u *Unit) emit(e *Event) {
	u.Reporter.Report(e)
}

func (u *Unit) check(loc serial.Location, t Type, l Level, cond bool, operands func() []string) Outcome {
	e := &Event{Loc: loc, Type: t, Level: l, Value: boolValue(cond)}
	if u.operands && operands != nil {
		e.Operands = operands()
	}
	u.emit(e)
	u.summary.Executed++
	if cond {
		return Continue
	}
	if l == LevelExpect {
		u.summary.Warnings++
		return Continue
	}
	u.summary.Errors++
	if u.armed > 0 {
		return Cancelled
	}
	return Continue
}

func texts(s ...string) func() []string {
	return func() []string { return s }
}

// Assert checks cond.
func (u *Unit) Assert(cond bool) Outcome {
	return u.check(u.at(1), TypePlain, LevelAssert, cond, nil)
}

// Expect checks cond as a warning.
func (u *Unit) Expect(cond bool) Outcome {
	return u.check(u.at(1), TypePlain, LevelExpect, cond, nil)
}

// AssertMessage checks cond, printing msg.
func (u *Unit) AssertMessage(cond bool, msg string) Outcome {
	return u.check(u.at(1), TypeMessage, LevelAssert, cond, texts(msg))
}

// ExpectMessage checks cond as a warning, printing msg.
func (u *Unit) ExpectMessage(cond bool, msg string) Outcome {
	return u.check(u.at(1), TypeMessage, LevelExpect, cond, texts(msg))
}

// Log emits a message.
func (u *Unit) Log(msg string) {
	e := &Event{Loc: u.at(1), Type: TypeLog, Level: LevelInfo, Value: 1}
	if u.operands {
		e.Operands = []string{msg}
	}
	u.emit(e)
}

// Checkpoint marks that execution passed the call site.
func (u *Unit) Checkpoint() {
	u.emit(&Event{Loc: u.at(1), Type: TypeCheckpoint, Level: LevelInfo, Value: 1})
}

// Call runs the test case fn named name.
func (u *Unit) Call(name string, fn func()) {
	u.call(u.at(1), name, "", fn)
}

// CallDescribed runs the test case fn with a description.
func (u *Unit) CallDescribed(name, description string, fn func()) {
	u.call(u.at(1), name, description, fn)
}

// call reports the entry, runs fn unarmed and reports the exit with the
// number of errors raised by fn.
func (u *Unit) call(loc serial.Location, name, description string, fn func()) {
	u.emit(&Event{Loc: loc, Type: TypeCall, Level: LevelEnter, Value: 1, Name: name, Description: description})
	errors, armed := u.summary.Errors, u.armed
	u.armed = 0
	fn()
	u.armed = armed
	u.emit(&Event{
		Loc:         loc,
		Type:        TypeCall,
		Level:       LevelExit,
		Value:       int64(u.summary.Errors - errors),
		Name:        name,
		Description: description,
	})
}

// Critical runs check armed. If it is cancelled the cancellation is
// reported and Cancelled returned for the caller to return early.
func (u *Unit) Critical(check func() Outcome) Outcome {
	return u.critical(u.at(1), TypeCritical, check)
}

// CriticalSection is Critical for a block of checks.
func (u *Unit) CriticalSection(body func() Outcome) Outcome {
	return u.critical(u.at(1), TypeCriticalSection, body)
}

func (u *Unit) critical(loc serial.Location, t Type, body func() Outcome) Outcome {
	if u.arm(body) == Continue {
		return Continue
	}
	u.emit(&Event{Loc: loc, Type: t, Level: LevelCancel})
	return Cancelled
}

// arm runs body with the armed depth raised by one.
func (u *Unit) arm(body func() Outcome) Outcome {
	u.armed++
	defer func() { u.armed-- }()
	return body()
}

// For runs body for i in [0, n). A cancelled iteration is reported and
// ends the loop, which returns false. The cancellation does not propagate.
func (u *Unit) For(n int, body func(i int) Outcome) bool {
	return u.loop(u.at(1), n, body)
}

func (u *Unit) loop(loc serial.Location, n int, body func(i int) Outcome) bool {
	for i := 0; i < n; i++ {
		if u.arm(func() Outcome { return body(i) }) == Cancelled {
			u.emit(&Event{Loc: loc, Type: TypeLoop, Level: LevelCancel, Value: int64(i)})
			return false
		}
	}
	return true
}

// Report emits the final report, its value tells whether any assert
// failed.
func (u *Unit) Report() {
	u.emit(&Event{Loc: u.at(1), Type: TypeReport, Level: LevelInfo, Value: boolValue(u.Errored())})
}

// Errored tells whether any assert failed.
func (u *Unit) Errored() bool {
	return u.summary.Errors > 0
}

// ExitCode is 1 when an assert failed, 0 otherwise.
func (u *Unit) ExitCode() int {
	if u.Errored() {
		return 1
	}
	return 0
}

// Summary returns the counters of all checks so far.
func (u *Unit) Summary() Summary {
	return u.summary
}
