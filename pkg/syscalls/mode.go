package syscalls

import (
	"fmt"
	"strings"
)

// Mode selects which calls are forwarded to the host.
type Mode int

// Modes.
const (
	ModeBlocked Mode = iota
	ModeUnchecked
	ModeFull
)

var modeNames = []string{"blocked", "unchecked", "full"}

// String implements fmt.Stringer.
func (m Mode) String() string {
	if m >= 0 && int(m) < len(modeNames) {
		return modeNames[m]
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

// ParseMode parses the name of a Mode.
func ParseMode(name string) (Mode, error) {
	for n, modeName := range modeNames {
		if strings.EqualFold(name, modeName) {
			return Mode(n), nil
		}
	}
	return ModeBlocked, fmt.Errorf("unknown syscall mode %q", name)
}

// Tags of the locations emitted by the Shim.
const (
	TagWriteBlocked   = "syscall.write.blocked"
	TagWriteUnchecked = "syscall.write.unchecked"
	TagWriteFull      = "syscall.write.full"
	TagOpenUnchecked  = "syscall.open.unchecked"
	TagOpenFull       = "syscall.open.full"
	TagCloseUnchecked = "syscall.close.unchecked"
	TagCloseFull      = "syscall.close.full"
	TagReadFull       = "syscall.read.full"
	TagReadBuffered   = "syscall.read.buffered"
	TagLseek          = "syscall.lseek"
	TagStat           = "syscall.stat"
	TagFstat          = "syscall.fstat"
	TagIsatty         = "syscall.isatty"
	TagLink           = "syscall.link"
	TagSymlink        = "syscall.symlink"
	TagUnlink         = "syscall.unlink"
)
