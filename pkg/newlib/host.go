package newlib

import (
	"errors"
	"io"

	"golang.org/x/sys/unix"
)

var errnoTable = []struct {
	host  unix.Errno
	errno Errno
}{
	{unix.EPERM, EPERM},
	{unix.ENOENT, ENOENT},
	{unix.ESRCH, ESRCH},
	{unix.EINTR, EINTR},
	{unix.EIO, EIO},
	{unix.ENXIO, ENXIO},
	{unix.E2BIG, E2BIG},
	{unix.ENOEXEC, ENOEXEC},
	{unix.EBADF, EBADF},
	{unix.ECHILD, ECHILD},
	{unix.EAGAIN, EAGAIN},
	{unix.ENOMEM, ENOMEM},
	{unix.EACCES, EACCES},
	{unix.EFAULT, EFAULT},
	{unix.ENOTBLK, ENOTBLK},
	{unix.EBUSY, EBUSY},
	{unix.EEXIST, EEXIST},
	{unix.EXDEV, EXDEV},
	{unix.ENODEV, ENODEV},
	{unix.ENOTDIR, ENOTDIR},
	{unix.EISDIR, EISDIR},
	{unix.EINVAL, EINVAL},
	{unix.ENFILE, ENFILE},
	{unix.EMFILE, EMFILE},
	{unix.ENOTTY, ENOTTY},
	{unix.ETXTBSY, ETXTBSY},
	{unix.EFBIG, EFBIG},
	{unix.ENOSPC, ENOSPC},
	{unix.ESPIPE, ESPIPE},
	{unix.EROFS, EROFS},
	{unix.EMLINK, EMLINK},
	{unix.EPIPE, EPIPE},
	{unix.EDOM, EDOM},
	{unix.ERANGE, ERANGE},
	{unix.EDEADLK, EDEADLK},
	{unix.ENOLCK, ENOLCK},
	{unix.ENODATA, ENODATA},
	{unix.EPROTO, EPROTO},
	{unix.EBADMSG, EBADMSG},
	{unix.ENOSYS, ENOSYS},
	{unix.ENOTEMPTY, ENOTEMPTY},
	{unix.ENAMETOOLONG, ENAMETOOLONG},
	{unix.ELOOP, ELOOP},
	{unix.EOPNOTSUPP, EOPNOTSUPP},
	{unix.ECONNRESET, ECONNRESET},
	{unix.ETIMEDOUT, ETIMEDOUT},
	{unix.EILSEQ, EILSEQ},
	{unix.EOVERFLOW, EOVERFLOW},
	{unix.ECANCELED, ECANCELED},
}

var (
	fromHostErrno = make(map[unix.Errno]Errno)
	toHostErrno   = make(map[Errno]unix.Errno)
)

func init() {
	for _, pair := range errnoTable {
		if _, exists := fromHostErrno[pair.host]; !exists {
			fromHostErrno[pair.host] = pair.errno
		}
		toHostErrno[pair.errno] = pair.host
	}
}

// FromHost translates an error of a host system call. Errors without a
// host error number become EIO. A nil error is 0.
func FromHost(err error) Errno {
	if err == nil {
		return 0
	}
	var errno Errno
	if errors.As(err, &errno) {
		return errno
	}
	var hostErrno unix.Errno
	if errors.As(err, &hostErrno) {
		if e, ok := fromHostErrno[hostErrno]; ok {
			return e
		}
	}
	return EIO
}

// ToHost translates e into the host error number.
func ToHost(e Errno) unix.Errno {
	if h, ok := toHostErrno[e]; ok {
		return h
	}
	return unix.EIO
}

var openFlagTable = []struct {
	flag int
	host int
}{
	{O_APPEND, unix.O_APPEND},
	{O_CREAT, unix.O_CREAT},
	{O_TRUNC, unix.O_TRUNC},
	{O_EXCL, unix.O_EXCL},
	{O_SYNC, unix.O_SYNC},
	{O_NONBLOCK, unix.O_NONBLOCK},
	{O_NOCTTY, unix.O_NOCTTY},
	{O_CLOEXEC, unix.O_CLOEXEC},
	{O_NOFOLLOW, unix.O_NOFOLLOW},
	{O_DIRECTORY, unix.O_DIRECTORY},
}

// OpenFlagsToHost translates open flags for the host.
func OpenFlagsToHost(flags int) int {
	var out int
	switch AccessMode(flags) {
	case O_WRONLY:
		out = unix.O_WRONLY
	case O_RDWR:
		out = unix.O_RDWR
	default:
		out = unix.O_RDONLY
	}
	for _, f := range openFlagTable {
		if flags&f.flag != 0 {
			out |= f.host
		}
	}
	return out
}

var fileTypeTable = []struct {
	mode uint32
	host uint32
}{
	{S_IFDIR, unix.S_IFDIR},
	{S_IFCHR, unix.S_IFCHR},
	{S_IFBLK, unix.S_IFBLK},
	{S_IFREG, unix.S_IFREG},
	{S_IFLNK, unix.S_IFLNK},
	{S_IFSOCK, unix.S_IFSOCK},
	{S_IFIFO, unix.S_IFIFO},
}

// ModeToHost translates a file mode for the host. Only permission bits
// are meaningful for open.
func ModeToHost(mode uint32) uint32 {
	return mode & 0o7777
}

// ModeFromHost translates a host file mode, as found in stat results.
func ModeFromHost(mode uint32) uint32 {
	out := mode & 0o7777
	for _, t := range fileTypeTable {
		if mode&unix.S_IFMT == t.host {
			out |= t.mode
			break
		}
	}
	return out
}

// WhenceToHost translates a seek origin.
func WhenceToHost(whence int) (int, error) {
	switch whence {
	case SEEK_SET:
		return io.SeekStart, nil
	case SEEK_CUR:
		return io.SeekCurrent, nil
	case SEEK_END:
		return io.SeekEnd, nil
	}
	return 0, EINVAL
}
