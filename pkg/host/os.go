package host

import (
	"golang.org/x/sys/unix"

	"github.com/robotalks/metal.go/pkg/newlib"
	"github.com/robotalks/metal.go/pkg/syscalls"
)

// OS performs the system calls forwarded by a target. Flags, modes, seek
// origins and stat results use newlib values. Errors are translated with
// newlib.FromHost.
type OS interface {
	Open(path string, flags int, mode uint32) (int, error)
	Close(fd int) error
	Read(fd int, p []byte) (int, error)
	Write(fd int, p []byte) (int, error)
	Lseek(fd int, offset int64, whence int) (int64, error)
	Stat(path string) (syscalls.Stat, error)
	Fstat(fd int) (syscalls.Stat, error)
	Isatty(fd int) (bool, error)
	Link(existing, name string) error
	Symlink(existing, name string) error
	Unlink(name string) error
}

// UnixOS serves system calls from the host system.
type UnixOS struct{}

// Open implements OS.
func (UnixOS) Open(path string, flags int, mode uint32) (int, error) {
	return unix.Open(path, newlib.OpenFlagsToHost(flags), newlib.ModeToHost(mode))
}

// Close implements OS.
func (UnixOS) Close(fd int) error {
	return unix.Close(fd)
}

// Read implements OS.
func (UnixOS) Read(fd int, p []byte) (int, error) {
	return unix.Read(fd, p)
}

// Write implements OS.
func (UnixOS) Write(fd int, p []byte) (int, error) {
	return unix.Write(fd, p)
}

// Lseek implements OS.
func (UnixOS) Lseek(fd int, offset int64, whence int) (int64, error) {
	w, err := newlib.WhenceToHost(whence)
	if err != nil {
		return -1, err
	}
	return unix.Seek(fd, offset, w)
}

// Stat implements OS.
func (UnixOS) Stat(path string) (syscalls.Stat, error) {
	var st unix.Stat_t
	if err := unix.Stat(path, &st); err != nil {
		return syscalls.Stat{}, err
	}
	return statFromHost(&st), nil
}

// Fstat implements OS.
func (UnixOS) Fstat(fd int) (syscalls.Stat, error) {
	var st unix.Stat_t
	if err := unix.Fstat(fd, &st); err != nil {
		return syscalls.Stat{}, err
	}
	return statFromHost(&st), nil
}

// Isatty implements OS.
func (UnixOS) Isatty(fd int) (bool, error) {
	_, err := unix.IoctlGetTermios(fd, ioctlReadTermios)
	if err == unix.ENOTTY || err == unix.EINVAL {
		return false, nil
	}
	return err == nil, err
}

// Link implements OS.
func (UnixOS) Link(existing, name string) error {
	return unix.Link(existing, name)
}

// Symlink implements OS.
func (UnixOS) Symlink(existing, name string) error {
	return unix.Symlink(existing, name)
}

// Unlink implements OS.
func (UnixOS) Unlink(name string) error {
	return unix.Unlink(name)
}

func statFromHost(st *unix.Stat_t) syscalls.Stat {
	return syscalls.Stat{
		Dev:     uint64(st.Dev),
		Ino:     uint64(st.Ino),
		Mode:    newlib.ModeFromHost(uint32(st.Mode)),
		Nlink:   uint32(st.Nlink),
		Uid:     st.Uid,
		Gid:     st.Gid,
		Rdev:    uint64(st.Rdev),
		Size:    st.Size,
		Blksize: int64(st.Blksize),
		Blocks:  st.Blocks,
		Atim:    syscalls.Timespec{Sec: int64(st.Atim.Sec), Nsec: int64(st.Atim.Nsec)},
		Mtim:    syscalls.Timespec{Sec: int64(st.Mtim.Sec), Nsec: int64(st.Mtim.Nsec)},
		Ctim:    syscalls.Timespec{Sec: int64(st.Ctim.Sec), Nsec: int64(st.Ctim.Nsec)},
	}
}

// NullOS refuses every system call. Replays use it so a recorded session
// never touches host files.
type NullOS struct{}

// Open implements OS.
func (NullOS) Open(string, int, uint32) (int, error) { return -1, newlib.EACCES }

// Close implements OS.
func (NullOS) Close(int) error { return newlib.EBADF }

// Read implements OS.
func (NullOS) Read(int, []byte) (int, error) { return -1, newlib.EBADF }

// Write implements OS.
func (NullOS) Write(int, []byte) (int, error) { return -1, newlib.EBADF }

// Lseek implements OS.
func (NullOS) Lseek(int, int64, int) (int64, error) { return -1, newlib.EBADF }

// Stat implements OS.
func (NullOS) Stat(string) (syscalls.Stat, error) { return syscalls.Stat{}, newlib.EACCES }

// Fstat implements OS.
func (NullOS) Fstat(int) (syscalls.Stat, error) { return syscalls.Stat{}, newlib.EBADF }

// Isatty implements OS.
func (NullOS) Isatty(int) (bool, error) { return false, nil }

// Link implements OS.
func (NullOS) Link(string, string) error { return newlib.EACCES }

// Symlink implements OS.
func (NullOS) Symlink(string, string) error { return newlib.EACCES }

// Unlink implements OS.
func (NullOS) Unlink(string) error { return newlib.EACCES }
