package unit

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/metal.go/pkg/serial"
)

func TestScopeFold(t *testing.T) {
	testCases := []struct {
		name      string
		cancelled bool
	}{
		{"exited", false},
		{"cancelled", true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			stack := NewStack()
			root := stack.Root()
			root.Summary = Summary{Executed: 1}
			outer := stack.Enter("outer", "")
			inner := stack.Enter("inner", "")
			require.Equal(t, outer, inner.Parent)
			require.Equal(t, 2, stack.Depth())
			inner.Summary = Summary{Executed: 5, Errors: 2, Warnings: 1}
			inner.Cancelled = tc.cancelled
			require.Equal(t, inner, stack.Exit())
			require.Equal(t, Summary{Executed: 5, Errors: 2, Warnings: 1}, outer.Summary)
			require.Equal(t, outer, stack.Exit())
			require.Equal(t, Summary{Executed: 6, Errors: 2, Warnings: 1}, root.Summary)
			require.Equal(t, []*Scope{outer}, root.Children)
			require.Nil(t, stack.Exit())
			require.Equal(t, root, stack.Current())
		})
	}
}

func TestScopeRecord(t *testing.T) {
	s := &Scope{}
	site := serial.Site{File: "a.go", Line: 3}
	s.Record(&Event{Type: TypeEqual, Level: LevelAssert, Value: 0}, site)
	s.Record(&Event{Type: TypePlain, Level: LevelExpect, Value: 0}, site)
	s.Record(&Event{Type: TypePlain, Level: LevelExpect, Value: 1}, site)
	s.Record(&Event{Type: TypeLog, Level: LevelInfo, Value: 1}, site)
	require.Equal(t, Summary{Executed: 3, Errors: 1, Warnings: 1}, s.Summary)
	require.Len(t, s.Tests, 4)
	require.Equal(t, "a.go", s.Tests[0].File)
}

func TestPrintLevel(t *testing.T) {
	var l PrintLevel
	require.NoError(t, l.Set("Warning"))
	require.Equal(t, PrintWarning, l)
	require.Error(t, l.Set("none"))
	require.Equal(t, "error", PrintError.String())
}

func TestPrinterFilter(t *testing.T) {
	testCases := []struct {
		level PrintLevel
		lines int
	}{
		{PrintAll, 4},
		{PrintWarning, 2},
		{PrintError, 1},
	}
	for _, tc := range testCases {
		t.Run(tc.level.String(), func(t *testing.T) {
			var out bytes.Buffer
			p := NewPrinter(&out, tc.level)
			site := serial.Site{File: "t.c", Line: 1}
			p.Print(&Event{Type: TypePlain, Level: LevelAssert, Value: 1}, site)
			p.Print(&Event{Type: TypePlain, Level: LevelAssert, Value: 0}, site)
			p.Print(&Event{Type: TypePlain, Level: LevelExpect, Value: 0}, site)
			p.Print(&Event{Type: TypeCheckpoint, Level: LevelInfo, Value: 1}, site)
			require.Len(t, strings.Split(strings.TrimSpace(out.String()), "\n"), tc.lines)
			require.Equal(t, Summary{Executed: 3, Errors: 1, Warnings: 1}, p.Stack.Root().Summary)
		})
	}
}

func TestHostedReporter(t *testing.T) {
	var out bytes.Buffer
	table := serial.NewTable()
	r := NewHosted(&out)
	r.Locate = table
	u := New(r)

	u.CallDescribed("case", "my case", func() {
		AssertEqual(u, 1, 2)
		ExpectClose(u, 1.0, 1.5, 0.1)
		u.Log("hello")
		u.Critical(func() Outcome { return AssertLE(u, 3, 1) })
	})
	u.Checkpoint()
	Ranged(u, []int{1}, []int{1}, func(l, r int) Outcome { return AssertEqual(u, l, r) })
	u.Report()

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	sites := table.Sites()
	loc := func(n int) string { return sites[n].String() }
	require.Equal(t, []string{
		loc(0) + " entering test case my case",
		loc(1) + " [equal]: 1 == 2 assert failed",
		loc(2) + " [close]: 1 == 1.5 +/- 0.1 expect failed",
		loc(3) + " log : hello",
		loc(5) + " [le]: 3 <= 1 assert failed",
		loc(4) + " critical check failed, cancelling",
		loc(0) + " cancelled test case my case, failed with {executed: 3, warnings: 1, errors: 2}",
		loc(6) + " checkpoint",
		loc(7) + " ranged test starting with 1 elements for []int[0 ... 1] and []int[0 ... 1]",
		loc(8) + " [equal]: 1 == 1 assert succeeded",
		loc(7) + " ranged test completed with 1 elements",
		loc(9) + " full test report: {executed: 4, warnings: 1, errors: 2}",
	}, lines)
	root := r.Stack.Root()
	require.Len(t, root.Children, 1)
	require.True(t, root.Children[0].Cancelled)
	require.Equal(t, "my case", root.Children[0].Description)
}
