// Package unit is the test harness running inside a target.
//
// Checks produce Events which a Reporter delivers: SerialReporter sends
// them over the serial wire with only the call site and outcome,
// BreakReporter stops in a debugger and HostedReporter prints them on a
// local console.
//
//	u := unit.New(unit.NewSerial(target))
//	u.Call("parse", func() {
//		unit.AssertEqual(u, parse("1"), 1)
//	})
//	u.Report()
//	os.Exit(u.ExitCode())
package unit
