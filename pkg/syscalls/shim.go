package syscalls

import (
	"github.com/robotalks/metal.go/pkg/newlib"
	"github.com/robotalks/metal.go/pkg/serial"
)

// DefaultBufferSize is the capacity of the write and read buffers.
const DefaultBufferSize = 0x400

// Shim forwards file system calls to the host.
type Shim struct {
	Target *serial.Target
	Mode   Mode

	wbuf   writeBuffer
	rbuf   readBuffer
	lastFD int
}

// Option configures a Shim.
type Option func(*Shim)

// WithBufferSize sets the capacity of the buffers, 0 disables buffering.
func WithBufferSize(size int) Option {
	return func(s *Shim) {
		s.wbuf.data = make([]byte, size)
		s.rbuf.data = make([]byte, size)
	}
}

// New creates a Shim.
func New(t *serial.Target, mode Mode, opts ...Option) *Shim {
	s := &Shim{Target: t, Mode: mode, lastFD: newlib.STDERR_FILENO}
	s.wbuf.fd, s.rbuf.fd = -1, -1
	WithBufferSize(DefaultBufferSize)(s)
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func isStdout(fd int) bool {
	return fd == newlib.STDOUT_FILENO || fd == newlib.STDERR_FILENO
}

// Write writes p to fd. Single byte writes are buffered until a newline,
// a change of descriptor or a full buffer.
func (s *Shim) Write(fd int, p []byte) (int, error) {
	if s.Mode == ModeBlocked && !isStdout(fd) {
		return -1, newlib.EBADF
	}
	if len(p) == 1 && s.wbuf.enabled() {
		return s.writeBuffered(fd, p[0])
	}
	if err := s.flushBefore(fd); err != nil {
		return -1, err
	}
	return s.write(fd, p)
}

func (s *Shim) write(fd int, p []byte) (int, error) {
	switch s.Mode {
	case ModeBlocked:
		return s.writeBlocked(fd, p)
	case ModeUnchecked:
		return s.writeUnchecked(fd, p)
	default:
		return s.writeFull(fd, p)
	}
}

// Read reads from fd. Only available in ModeFull. Pending buffered
// writes are flushed first so prompts reach the host before it blocks.
func (s *Shim) Read(fd int, p []byte) (int, error) {
	if s.Mode != ModeFull {
		return -1, newlib.EBADF
	}
	if err := s.flushBefore(fd); err != nil {
		return -1, err
	}
	r := &s.rbuf
	switch {
	case r.enabled() && r.fd == fd:
		return s.readCached(p)
	case r.enabled() && r.fd == -1 && len(p) > 0:
		r.bind(fd)
		return s.readCached(p)
	default:
		return s.readFull(fd, p)
	}
}

// Open opens a file on the host. In ModeUnchecked only write-only opens
// are allowed and the descriptor is allocated locally.
func (s *Shim) Open(path string, flags int, mode uint32) (int, error) {
	switch s.Mode {
	case ModeBlocked:
		return -1, newlib.EACCES
	case ModeUnchecked:
		if newlib.AccessMode(flags) != newlib.O_WRONLY {
			return -1, newlib.EACCES
		}
		return s.openUnchecked(path, flags, mode)
	default:
		return s.openFull(path, flags, mode)
	}
}

// Close closes fd, flushing and releasing buffers bound to it. A failed
// flush is returned when the close itself succeeds.
func (s *Shim) Close(fd int) error {
	var flushErr error
	if s.wbuf.fd == fd {
		flushErr = s.Flush()
	}
	if s.rbuf.fd == fd {
		s.rbuf.unbind()
	}
	var err error
	switch s.Mode {
	case ModeBlocked:
		err = newlib.EBADF
	case ModeUnchecked:
		err = s.closeUnchecked(fd)
	default:
		err = s.closeFull(fd)
	}
	if err != nil {
		return err
	}
	return flushErr
}

// Lseek moves the offset of fd.
func (s *Shim) Lseek(fd int, offset int64, whence int) (int64, error) {
	if s.Mode != ModeFull {
		return -1, newlib.EACCES
	}
	if s.wbuf.fd == fd {
		if err := s.Flush(); err != nil {
			return -1, err
		}
	}
	if s.rbuf.fd == fd {
		// the host is ahead by the bytes still cached
		if whence == newlib.SEEK_CUR {
			offset -= int64(s.rbuf.end - s.rbuf.pos)
		}
		s.rbuf.unbind()
	}
	return s.lseekFull(fd, offset, whence)
}

// Stat returns information about the file at path.
func (s *Shim) Stat(path string) (Stat, error) {
	if s.Mode != ModeFull {
		return Stat{}, newlib.EIO
	}
	return s.statFull(path)
}

// Fstat returns information about fd.
func (s *Shim) Fstat(fd int) (Stat, error) {
	if s.Mode != ModeFull {
		return Stat{}, newlib.EIO
	}
	if s.wbuf.fd == fd {
		if err := s.Flush(); err != nil {
			return Stat{}, err
		}
	}
	return s.fstatFull(fd)
}

// Isatty reports whether fd is a terminal.
func (s *Shim) Isatty(fd int) (bool, error) {
	switch s.Mode {
	case ModeBlocked:
		return false, newlib.EBADF
	case ModeUnchecked:
		return false, nil
	default:
		return s.isattyFull(fd)
	}
}

// Link creates a hard link.
func (s *Shim) Link(existing, name string) error {
	if s.Mode != ModeFull {
		return newlib.EACCES
	}
	return s.linkFull(existing, name)
}

// Symlink creates a symbolic link.
func (s *Shim) Symlink(existing, name string) error {
	if s.Mode != ModeFull {
		return newlib.EACCES
	}
	return s.symlinkFull(existing, name)
}

// Unlink removes a file.
func (s *Shim) Unlink(name string) error {
	if s.Mode != ModeFull {
		return newlib.EACCES
	}
	return s.unlinkFull(name)
}
