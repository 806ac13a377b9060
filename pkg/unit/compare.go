package unit

import (
	"cmp"
	"fmt"
	"strings"

	"golang.org/x/exp/constraints"

	"github.com/robotalks/metal.go/pkg/serial"
)

// Number is any integer or floating point type.
type Number interface {
	constraints.Integer | constraints.Float
}

// CompareInt compares the mathematical values of l and r, whatever their
// width and signedness. It returns -1, 0 or +1.
func CompareInt[L, R constraints.Integer](l L, r R) int {
	lneg, rneg := l < 0, r < 0
	switch {
	case lneg && !rneg:
		return -1
	case !lneg && rneg:
		return 1
	case lneg:
		return cmp.Compare(int64(l), int64(r))
	default:
		return cmp.Compare(uint64(l), uint64(r))
	}
}

func show(v ...interface{}) func() []string {
	return func() []string {
		s := make([]string, len(v))
		for n, val := range v {
			s[n] = fmt.Sprint(val)
		}
		return s
	}
}

// AssertEqual checks lhs == rhs.
func AssertEqual[T comparable](u *Unit, lhs, rhs T) Outcome {
	return u.check(u.at(1), TypeEqual, LevelAssert, lhs == rhs, show(lhs, rhs))
}

// ExpectEqual checks lhs == rhs as a warning.
func ExpectEqual[T comparable](u *Unit, lhs, rhs T) Outcome {
	return u.check(u.at(1), TypeEqual, LevelExpect, lhs == rhs, show(lhs, rhs))
}

// AssertNotEqual checks lhs != rhs.
func AssertNotEqual[T comparable](u *Unit, lhs, rhs T) Outcome {
	return u.check(u.at(1), TypeNotEqual, LevelAssert, lhs != rhs, show(lhs, rhs))
}

// ExpectNotEqual checks lhs != rhs as a warning.
func ExpectNotEqual[T comparable](u *Unit, lhs, rhs T) Outcome {
	return u.check(u.at(1), TypeNotEqual, LevelExpect, lhs != rhs, show(lhs, rhs))
}

// AssertEqualInt checks integers of different types for equality, see
// CompareInt.
func AssertEqualInt[L, R constraints.Integer](u *Unit, lhs L, rhs R) Outcome {
	return u.check(u.at(1), TypeEqual, LevelAssert, CompareInt(lhs, rhs) == 0, show(lhs, rhs))
}

// ExpectEqualInt is AssertEqualInt as a warning.
func ExpectEqualInt[L, R constraints.Integer](u *Unit, lhs L, rhs R) Outcome {
	return u.check(u.at(1), TypeEqual, LevelExpect, CompareInt(lhs, rhs) == 0, show(lhs, rhs))
}

// AssertNotEqualInt checks integers of different types for inequality.
func AssertNotEqualInt[L, R constraints.Integer](u *Unit, lhs L, rhs R) Outcome {
	return u.check(u.at(1), TypeNotEqual, LevelAssert, CompareInt(lhs, rhs) != 0, show(lhs, rhs))
}

// ExpectNotEqualInt is AssertNotEqualInt as a warning.
func ExpectNotEqualInt[L, R constraints.Integer](u *Unit, lhs L, rhs R) Outcome {
	return u.check(u.at(1), TypeNotEqual, LevelExpect, CompareInt(lhs, rhs) != 0, show(lhs, rhs))
}

// AssertGE checks lhs >= rhs.
func AssertGE[T cmp.Ordered](u *Unit, lhs, rhs T) Outcome {
	return u.check(u.at(1), TypeGE, LevelAssert, lhs >= rhs, show(lhs, rhs))
}

// ExpectGE checks lhs >= rhs as a warning.
func ExpectGE[T cmp.Ordered](u *Unit, lhs, rhs T) Outcome {
	return u.check(u.at(1), TypeGE, LevelExpect, lhs >= rhs, show(lhs, rhs))
}

// AssertLE checks lhs <= rhs.
func AssertLE[T cmp.Ordered](u *Unit, lhs, rhs T) Outcome {
	return u.check(u.at(1), TypeLE, LevelAssert, lhs <= rhs, show(lhs, rhs))
}

// ExpectLE checks lhs <= rhs as a warning.
func ExpectLE[T cmp.Ordered](u *Unit, lhs, rhs T) Outcome {
	return u.check(u.at(1), TypeLE, LevelExpect, lhs <= rhs, show(lhs, rhs))
}

// AssertGreater checks lhs > rhs.
func AssertGreater[T cmp.Ordered](u *Unit, lhs, rhs T) Outcome {
	return u.check(u.at(1), TypeGreater, LevelAssert, lhs > rhs, show(lhs, rhs))
}

// ExpectGreater checks lhs > rhs as a warning.
func ExpectGreater[T cmp.Ordered](u *Unit, lhs, rhs T) Outcome {
	return u.check(u.at(1), TypeGreater, LevelExpect, lhs > rhs, show(lhs, rhs))
}

// AssertLesser checks lhs < rhs.
func AssertLesser[T cmp.Ordered](u *Unit, lhs, rhs T) Outcome {
	return u.check(u.at(1), TypeLesser, LevelAssert, lhs < rhs, show(lhs, rhs))
}

// ExpectLesser checks lhs < rhs as a warning.
func ExpectLesser[T cmp.Ordered](u *Unit, lhs, rhs T) Outcome {
	return u.check(u.at(1), TypeLesser, LevelExpect, lhs < rhs, show(lhs, rhs))
}

func within[T Number](lhs, rhs, tolerance T) bool {
	l, r, tol := float64(lhs), float64(rhs), float64(tolerance)
	return r <= l+tol && r >= l-tol
}

func withinRelative[T Number](lhs, rhs T, tolerance float64) bool {
	l, r := float64(lhs), float64(rhs)
	lo, hi := l*(1-tolerance), l*(1+tolerance)
	if lo > hi {
		lo, hi = hi, lo
	}
	return r <= hi && r >= lo
}

// AssertClose checks that rhs is within lhs +/- tolerance.
func AssertClose[T Number](u *Unit, lhs, rhs, tolerance T) Outcome {
	return u.check(u.at(1), TypeClose, LevelAssert, within(lhs, rhs, tolerance), show(lhs, rhs, tolerance))
}

// ExpectClose is AssertClose as a warning.
func ExpectClose[T Number](u *Unit, lhs, rhs, tolerance T) Outcome {
	return u.check(u.at(1), TypeClose, LevelExpect, within(lhs, rhs, tolerance), show(lhs, rhs, tolerance))
}

// AssertCloseRelative checks that rhs is within lhs * (1 +/- tolerance).
func AssertCloseRelative[T Number](u *Unit, lhs, rhs T, tolerance float64) Outcome {
	return u.check(u.at(1), TypeCloseRelative, LevelAssert, withinRelative(lhs, rhs, tolerance), show(lhs, rhs, tolerance))
}

// ExpectCloseRelative is AssertCloseRelative as a warning.
func ExpectCloseRelative[T Number](u *Unit, lhs, rhs T, tolerance float64) Outcome {
	return u.check(u.at(1), TypeCloseRelative, LevelExpect, withinRelative(lhs, rhs, tolerance), show(lhs, rhs, tolerance))
}

func predicateOperands[T any](pred func(T) bool, arg T) func() []string {
	return func() []string {
		name := serial.FuncName(pred)
		if n := strings.LastIndexByte(name, '.'); n >= 0 {
			name = name[n+1:]
		}
		return []string{name, fmt.Sprint(arg)}
	}
}

// AssertPredicate checks pred(arg).
func AssertPredicate[T any](u *Unit, pred func(T) bool, arg T) Outcome {
	return u.check(u.at(1), TypePredicate, LevelAssert, pred(arg), predicateOperands(pred, arg))
}

// ExpectPredicate checks pred(arg) as a warning.
func ExpectPredicate[T any](u *Unit, pred func(T) bool, arg T) Outcome {
	return u.check(u.at(1), TypePredicate, LevelExpect, pred(arg), predicateOperands(pred, arg))
}
