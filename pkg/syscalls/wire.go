package syscalls

import (
	"github.com/golang/glog"

	"github.com/robotalks/metal.go/pkg/newlib"
	"github.com/robotalks/metal.go/pkg/serial"
)

// Every request below emits its location from its own function, which is
// how hosts resolving program counters tell requests apart.

func init() {
	serial.BindTag((*Shim).writeBlocked, TagWriteBlocked)
	serial.BindTag((*Shim).writeUnchecked, TagWriteUnchecked)
	serial.BindTag((*Shim).writeFull, TagWriteFull)
	serial.BindTag((*Shim).openUnchecked, TagOpenUnchecked)
	serial.BindTag((*Shim).openFull, TagOpenFull)
	serial.BindTag((*Shim).closeUnchecked, TagCloseUnchecked)
	serial.BindTag((*Shim).closeFull, TagCloseFull)
	serial.BindTag((*Shim).readFull, TagReadFull)
	serial.BindTag((*Shim).readBufferedRemote, TagReadBuffered)
	serial.BindTag((*Shim).lseekFull, TagLseek)
	serial.BindTag((*Shim).statFull, TagStat)
	serial.BindTag((*Shim).fstatFull, TagFstat)
	serial.BindTag((*Shim).isattyFull, TagIsatty)
	serial.BindTag((*Shim).linkFull, TagLink)
	serial.BindTag((*Shim).symlinkFull, TagSymlink)
	serial.BindTag((*Shim).unlinkFull, TagUnlink)
}

// errno reads an error number answered by the host.
func (s *Shim) errno() error {
	code, err := serial.ReadInt[int32](s.Target)
	if err != nil {
		return newlib.EIO
	}
	if code != 0 {
		return newlib.Errno(code)
	}
	return nil
}

// result reads a result answered by the host, followed by an error
// number when the result is -1.
func (s *Shim) result() (int64, error) {
	res, err := serial.ReadInt[int64](s.Target)
	if err != nil {
		return -1, newlib.EIO
	}
	if res == -1 {
		if err := s.errno(); err != nil {
			return -1, err
		}
		return -1, newlib.EIO
	}
	return res, nil
}

//go:noinline
func (s *Shim) writeBlocked(fd int, p []byte) (int, error) {
	s.Target.Mark(0, TagWriteBlocked)
	serial.WriteInt(s.Target, int32(fd))
	s.Target.WriteMemory(p)
	return len(p), nil
}

//go:noinline
func (s *Shim) writeUnchecked(fd int, p []byte) (int, error) {
	s.Target.Mark(0, TagWriteUnchecked)
	serial.WriteInt(s.Target, int32(fd))
	s.Target.WriteMemory(p)
	return len(p), nil
}

//go:noinline
func (s *Shim) writeFull(fd int, p []byte) (int, error) {
	s.Target.Mark(0, TagWriteFull)
	serial.WriteInt(s.Target, int32(fd))
	s.Target.WriteMemory(p)
	n, err := s.result()
	return int(n), err
}

//go:noinline
func (s *Shim) openUnchecked(path string, flags int, mode uint32) (int, error) {
	s.Target.Mark(0, TagOpenUnchecked)
	s.Target.WriteStr(path)
	serial.WriteInt(s.Target, int32(flags))
	serial.WriteInt(s.Target, int32(mode))
	s.lastFD++
	serial.WriteInt(s.Target, int32(s.lastFD))
	if glog.V(5) {
		glog.Infof("syscalls: open %q as %d", path, s.lastFD)
	}
	return s.lastFD, nil
}

//go:noinline
func (s *Shim) openFull(path string, flags int, mode uint32) (int, error) {
	s.Target.Mark(0, TagOpenFull)
	s.Target.WriteStr(path)
	serial.WriteInt(s.Target, int32(flags))
	serial.WriteInt(s.Target, int32(mode))
	fd, err := s.result()
	return int(fd), err
}

//go:noinline
func (s *Shim) closeUnchecked(fd int) error {
	s.Target.Mark(0, TagCloseUnchecked)
	serial.WriteInt(s.Target, int32(fd))
	return nil
}

//go:noinline
func (s *Shim) closeFull(fd int) error {
	s.Target.Mark(0, TagCloseFull)
	serial.WriteInt(s.Target, int32(fd))
	return s.errno()
}

//go:noinline
func (s *Shim) readFull(fd int, p []byte) (int, error) {
	s.Target.Mark(0, TagReadFull)
	serial.WriteInt(s.Target, int32(fd))
	serial.WriteInt(s.Target, int32(len(p)))
	if err := s.errno(); err != nil {
		return -1, err
	}
	return s.Target.ReadMemory(p), nil
}

//go:noinline
func (s *Shim) readBufferedRemote(fd int, p []byte) (int, error) {
	s.Target.Mark(0, TagReadBuffered)
	serial.WriteInt(s.Target, int32(fd))
	serial.WriteInt(s.Target, int32(len(p)))
	if err := s.errno(); err != nil {
		return -1, err
	}
	return s.Target.ReadMemory(p), nil
}

//go:noinline
func (s *Shim) lseekFull(fd int, offset int64, whence int) (int64, error) {
	s.Target.Mark(0, TagLseek)
	serial.WriteInt(s.Target, int32(fd))
	serial.WriteInt(s.Target, offset)
	serial.WriteInt(s.Target, int32(whence))
	return s.result()
}

//go:noinline
func (s *Shim) statFull(path string) (Stat, error) {
	s.Target.Mark(0, TagStat)
	s.Target.WriteStr(path)
	if err := s.errno(); err != nil {
		return Stat{}, err
	}
	return readStat(s.Target)
}

//go:noinline
func (s *Shim) fstatFull(fd int) (Stat, error) {
	s.Target.Mark(0, TagFstat)
	serial.WriteInt(s.Target, int32(fd))
	if err := s.errno(); err != nil {
		return Stat{}, err
	}
	return readStat(s.Target)
}

//go:noinline
func (s *Shim) isattyFull(fd int) (bool, error) {
	s.Target.Mark(0, TagIsatty)
	serial.WriteInt(s.Target, int32(fd))
	if err := s.errno(); err != nil {
		return false, err
	}
	res, err := serial.ReadInt[int32](s.Target)
	if err != nil {
		return false, newlib.EIO
	}
	return res != 0, nil
}

//go:noinline
func (s *Shim) linkFull(existing, name string) error {
	s.Target.Mark(0, TagLink)
	s.Target.WriteStr(existing)
	s.Target.WriteStr(name)
	return s.errno()
}

//go:noinline
func (s *Shim) symlinkFull(existing, name string) error {
	s.Target.Mark(0, TagSymlink)
	s.Target.WriteStr(existing)
	s.Target.WriteStr(name)
	return s.errno()
}

//go:noinline
func (s *Shim) unlinkFull(name string) error {
	s.Target.Mark(0, TagUnlink)
	s.Target.WriteStr(name)
	return s.errno()
}
