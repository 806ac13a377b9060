package unit

import (
	"fmt"
)

// ForEach runs body for every item, see Unit.For.
func ForEach[T any](u *Unit, items []T, body func(i int, item T) Outcome) bool {
	return u.loop(u.at(1), len(items), func(i int) Outcome {
		return body(i, items[i])
	})
}

// Ranged runs check on the pairs of lhs and rhs up to the shorter length.
//
// On a cancelled pair the position is reported. If an enclosing construct
// is armed the cancellation propagates without an exit event, otherwise
// the exit is reported with the number of completed pairs.
func Ranged[L, R any](u *Unit, lhs []L, rhs []R, check func(l L, r R) Outcome) Outcome {
	loc := u.at(1)
	size := len(lhs)
	if len(rhs) < size {
		size = len(rhs)
	}
	enter := &Event{Loc: loc, Type: TypeRanged, Level: LevelEnter, Value: int64(size)}
	if u.operands {
		enter.Operands = []string{
			fmt.Sprintf("%T", lhs), fmt.Sprint(len(lhs)),
			fmt.Sprintf("%T", rhs), fmt.Sprint(len(rhs)),
		}
	}
	u.emit(enter)
	for i := 0; i < size; i++ {
		if u.arm(func() Outcome { return check(lhs[i], rhs[i]) }) == Continue {
			continue
		}
		u.emit(&Event{Loc: loc, Type: TypeRanged, Level: LevelCancel, Value: int64(i)})
		if u.armed > 0 {
			return Cancelled
		}
		u.emit(&Event{Loc: loc, Type: TypeRanged, Level: LevelExit, Value: int64(i)})
		return Continue
	}
	u.emit(&Event{Loc: loc, Type: TypeRanged, Level: LevelExit, Value: int64(size)})
	return Continue
}
