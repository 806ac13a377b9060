package unit

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/metal.go/pkg/serial"
)

type recorder struct {
	events []*Event
}

func (r *recorder) Report(e *Event) {
	r.events = append(r.events, e)
}

type control struct {
	Type  Type
	Level Level
	Value int64
}

func (r *recorder) controls() []control {
	var c []control
	for _, e := range r.events {
		c = append(c, control{e.Type, e.Level, e.Value})
	}
	return c
}

func newTestUnit() (*Unit, *recorder) {
	r := &recorder{}
	return New(r), r
}

func TestPack(t *testing.T) {
	for ty := TypePlain; ty < numTypes; ty++ {
		for l := LevelCancel; l < numLevels; l++ {
			b := Pack(ty, l)
			require.Equal(t, byte(ty), b&TypeMask)
			require.Equal(t, byte(l), b>>TypeBits)
			ut, ul, err := Unpack(b)
			require.NoError(t, err)
			require.Equal(t, ty, ut)
			require.Equal(t, l, ul)
		}
	}
	require.Equal(t, byte(0x89), Pack(TypeEqual, LevelAssert))
	_, _, err := Unpack(0x1f)
	require.Error(t, err)
	_, _, err = Unpack(0xe0)
	require.Error(t, err)
	require.Equal(t, "close_relative", TypeCloseRelative.String())
	require.Equal(t, "expect", LevelExpect.String())
}

func TestChecks(t *testing.T) {
	u, r := newTestUnit()
	require.Equal(t, Continue, u.Assert(true))
	require.Equal(t, Continue, u.Assert(false))
	require.Equal(t, Continue, u.Expect(false))
	require.Equal(t, Continue, u.AssertMessage(true, "fine"))
	require.Equal(t, Continue, ExpectEqual(u, 1, 2))
	require.Equal(t, []control{
		{TypePlain, LevelAssert, 1},
		{TypePlain, LevelAssert, 0},
		{TypePlain, LevelExpect, 0},
		{TypeMessage, LevelAssert, 1},
		{TypeEqual, LevelExpect, 0},
	}, r.controls())
	require.Equal(t, []string{"fine"}, r.events[3].Operands)
	require.Equal(t, []string{"1", "2"}, r.events[4].Operands)
	require.Equal(t, Summary{Executed: 5, Warnings: 2, Errors: 1}, u.Summary())
	require.True(t, u.Errored())
	require.Equal(t, 1, u.ExitCode())
}

func TestComparisons(t *testing.T) {
	isEven := func(v int) bool { return v%2 == 0 }
	testCases := []struct {
		name  string
		check func(u *Unit) Outcome
		ty    Type
		cond  bool
	}{
		{"equal", func(u *Unit) Outcome { return AssertEqual(u, "a", "a") }, TypeEqual, true},
		{"not equal", func(u *Unit) Outcome { return AssertNotEqual(u, 1, 1) }, TypeNotEqual, false},
		{"equal int mixed", func(u *Unit) Outcome { return AssertEqualInt(u, int8(-1), uint32(0xffffffff)) }, TypeEqual, false},
		{"equal int widths", func(u *Unit) Outcome { return AssertEqualInt(u, uint8(200), int64(200)) }, TypeEqual, true},
		{"not equal int", func(u *Unit) Outcome { return AssertNotEqualInt(u, int16(-5), uint64(5)) }, TypeNotEqual, true},
		{"ge", func(u *Unit) Outcome { return AssertGE(u, 2, 2) }, TypeGE, true},
		{"le", func(u *Unit) Outcome { return AssertLE(u, 3, 2) }, TypeLE, false},
		{"greater", func(u *Unit) Outcome { return AssertGreater(u, 2.5, 2.0) }, TypeGreater, true},
		{"lesser", func(u *Unit) Outcome { return AssertLesser(u, "b", "a") }, TypeLesser, false},
		{"close", func(u *Unit) Outcome { return AssertClose(u, 1.0, 1.05, 0.1) }, TypeClose, true},
		{"close int", func(u *Unit) Outcome { return AssertClose(u, 10, 13, 2) }, TypeClose, false},
		{"close relative", func(u *Unit) Outcome { return AssertCloseRelative(u, 100, 109, 0.1) }, TypeCloseRelative, true},
		{"close relative negative", func(u *Unit) Outcome { return AssertCloseRelative(u, -100.0, -95.0, 0.1) }, TypeCloseRelative, true},
		{"close relative out", func(u *Unit) Outcome { return AssertCloseRelative(u, 100, 111, 0.1) }, TypeCloseRelative, false},
		{"predicate", func(u *Unit) Outcome { return AssertPredicate(u, isEven, 4) }, TypePredicate, true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			u, r := newTestUnit()
			require.Equal(t, Continue, tc.check(u))
			require.Len(t, r.events, 1)
			require.Equal(t, tc.ty, r.events[0].Type)
			require.Equal(t, LevelAssert, r.events[0].Level)
			require.Equal(t, tc.cond, r.events[0].Condition())
		})
	}
}

func TestCompareInt(t *testing.T) {
	require.Equal(t, -1, CompareInt(int8(-1), uint8(255)))
	require.Equal(t, 1, CompareInt(uint64(1<<63), int64(-1)))
	require.Equal(t, 0, CompareInt(int32(-7), int64(-7)))
	require.Equal(t, -1, CompareInt(int64(-8), int8(-7)))
	require.Equal(t, 0, CompareInt(uint64(1<<63), uint64(1<<63)))
	require.Equal(t, 1, CompareInt(uint64(1<<63), int64(1<<62)))
}

func TestCritical(t *testing.T) {
	u, r := newTestUnit()
	body := func() Outcome {
		if u.Critical(func() Outcome { return u.Assert(false) }) == Cancelled {
			return Cancelled
		}
		u.Checkpoint()
		return Continue
	}
	require.Equal(t, Cancelled, body())
	require.Equal(t, []control{
		{TypePlain, LevelAssert, 0},
		{TypeCritical, LevelCancel, 0},
	}, r.controls())
	require.Equal(t, 0, u.armed)

	r.events = nil
	require.Equal(t, Continue, u.Critical(func() Outcome { return u.Expect(false) }))
	require.Equal(t, []control{{TypePlain, LevelExpect, 0}}, r.controls())
}

func TestCriticalSection(t *testing.T) {
	u, r := newTestUnit()
	out := u.CriticalSection(func() Outcome {
		if u.Assert(true) == Cancelled {
			return Cancelled
		}
		if AssertEqual(u, 1, 2) == Cancelled {
			return Cancelled
		}
		u.Assert(true)
		return Continue
	})
	require.Equal(t, Cancelled, out)
	require.Equal(t, []control{
		{TypePlain, LevelAssert, 1},
		{TypeEqual, LevelAssert, 0},
		{TypeCriticalSection, LevelCancel, 0},
	}, r.controls())
	require.Equal(t, 0, u.armed)
}

func TestFor(t *testing.T) {
	u, r := newTestUnit()
	var visited []int
	done := u.For(5, func(i int) Outcome {
		visited = append(visited, i)
		return u.Assert(i < 2)
	})
	require.False(t, done)
	require.Equal(t, []int{0, 1, 2}, visited)
	require.Equal(t, control{TypeLoop, LevelCancel, 2}, r.controls()[3])
	require.Equal(t, 0, u.armed)

	r.events = nil
	require.True(t, ForEach(u, []string{"a", "b"}, func(i int, s string) Outcome {
		return u.Expect(s == "a")
	}))
	require.Len(t, r.events, 2)
}

func TestForInsideCritical(t *testing.T) {
	u, r := newTestUnit()
	out := u.CriticalSection(func() Outcome {
		u.For(3, func(i int) Outcome { return u.Assert(i == 0) })
		return u.Assert(true)
	})
	require.Equal(t, Continue, out)
	require.Equal(t, []control{
		{TypePlain, LevelAssert, 1},
		{TypePlain, LevelAssert, 0},
		{TypeLoop, LevelCancel, 1},
		{TypePlain, LevelAssert, 1},
	}, r.controls())
}

func TestRanged(t *testing.T) {
	check := func(u *Unit) func(l, r int) Outcome {
		return func(l, r int) Outcome { return AssertEqual(u, l, r) }
	}
	t.Run("complete", func(t *testing.T) {
		u, r := newTestUnit()
		require.Equal(t, Continue, Ranged(u, []int{1, 2, 3}, []int{1, 2}, check(u)))
		c := r.controls()
		require.Equal(t, control{TypeRanged, LevelEnter, 2}, c[0])
		require.Equal(t, control{TypeRanged, LevelExit, 2}, c[len(c)-1])
		require.Len(t, c, 4)
	})
	t.Run("cancelled", func(t *testing.T) {
		u, r := newTestUnit()
		require.Equal(t, Continue, Ranged(u, []int{1, 5, 3}, []int{1, 2, 3}, check(u)))
		require.Equal(t, []control{
			{TypeRanged, LevelEnter, 3},
			{TypeEqual, LevelAssert, 1},
			{TypeEqual, LevelAssert, 0},
			{TypeRanged, LevelCancel, 1},
			{TypeRanged, LevelExit, 1},
		}, r.controls())
	})
	t.Run("nested", func(t *testing.T) {
		u, r := newTestUnit()
		out := u.CriticalSection(func() Outcome {
			if Ranged(u, []int{1, 5}, []int{1, 2}, check(u)) == Cancelled {
				return Cancelled
			}
			u.Checkpoint()
			return Continue
		})
		require.Equal(t, Cancelled, out)
		require.Equal(t, []control{
			{TypeRanged, LevelEnter, 2},
			{TypeEqual, LevelAssert, 1},
			{TypeEqual, LevelAssert, 0},
			{TypeRanged, LevelCancel, 1},
			{TypeCriticalSection, LevelCancel, 0},
		}, r.controls())
		require.Equal(t, 0, u.armed)
	})
}

func TestCall(t *testing.T) {
	u, r := newTestUnit()
	u.CriticalSection(func() Outcome {
		u.CallDescribed("case", "a test case", func() {
			require.Equal(t, Continue, u.Assert(false))
			u.Assert(false)
			require.Equal(t, 0, u.armed)
		})
		require.Equal(t, 1, u.armed)
		return Continue
	})
	u.Call("empty", func() {})
	c := r.controls()
	require.Equal(t, control{TypeCall, LevelEnter, 1}, c[0])
	require.Equal(t, control{TypeCall, LevelExit, 2}, c[3])
	require.Equal(t, control{TypeCall, LevelExit, 0}, c[5])
	require.Equal(t, "case", r.events[0].Name)
	require.Equal(t, "a test case", r.events[3].Description)

	r.events = nil
	u.Report()
	require.Equal(t, []control{{TypeReport, LevelInfo, 1}}, r.controls())
}

func TestLocations(t *testing.T) {
	table := serial.NewTable()
	u := New(&SerialReporter{Target: serial.NewTarget(&serial.BufferPort{}).WithLocator(table)})
	require.False(t, u.operands)
	for i := 0; i < 2; i++ {
		u.Assert(true)
	}
	u.Assert(true)
	AssertEqual(u, 1, 1)
	sites := table.Sites()
	require.Len(t, sites, 3)
	for _, site := range sites {
		require.Equal(t, serial.TagUnit, site.Tag)
		require.Contains(t, site.File, "unit_test.go")
	}
	require.Equal(t, sites[0].Line+2, sites[1].Line)
	require.Equal(t, sites[1].Line+1, sites[2].Line)
}

func TestSerialReporter(t *testing.T) {
	port := &serial.BufferPort{}
	target := serial.NewTarget(port).WithLocator(serial.NewTable())
	target.PtrSize = 4
	u := New(NewSerial(target))
	AssertEqual(u, 1, 2)
	u.For(1, func(int) Outcome { return u.Assert(false) })
	require.Equal(t, []byte{
		4, 1, 0, 0, 0, 0x89, 4, 0, 0, 0, 0,
		4, 3, 0, 0, 0, 0x80, 4, 0, 0, 0, 0,
		4, 2, 0, 0, 0, 0x03, 4, 0, 0, 0, 0,
	}, port.Out.Bytes())
	require.NoError(t, target.Err())
}

func TestBreakReporter(t *testing.T) {
	var calls [][]interface{}
	r := NewBreak(nil)
	r.Breakpoint = BreakFunc(func(id string, args ...interface{}) {
		require.Equal(t, BreakIdentifier, id)
		calls = append(calls, args)
	})
	u := New(r)
	AssertGE(u, 1, 2)
	require.Len(t, calls, 1)
	require.Equal(t, TypeGE, calls[0][0])
	require.Equal(t, LevelAssert, calls[0][1])
	require.Equal(t, int64(0), calls[0][2])
	require.Contains(t, calls[0][3], "unit_test.go")
	require.Equal(t, []interface{}{"1", "2"}, calls[0][5:])

	NewBreak(nil).Report(&Event{})
}
