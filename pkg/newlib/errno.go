// Package newlib defines the ABI constants of the newlib C library used
// by targets, and their translation to the host operating system.
package newlib

import "strconv"

// Errno is an error number as seen by the target.
type Errno int32

// Error numbers from newlib's sys/errno.h.
const (
	EPERM        Errno = 1
	ENOENT       Errno = 2
	ESRCH        Errno = 3
	EINTR        Errno = 4
	EIO          Errno = 5
	ENXIO        Errno = 6
	E2BIG        Errno = 7
	ENOEXEC      Errno = 8
	EBADF        Errno = 9
	ECHILD       Errno = 10
	EAGAIN       Errno = 11
	ENOMEM       Errno = 12
	EACCES       Errno = 13
	EFAULT       Errno = 14
	ENOTBLK      Errno = 15
	EBUSY        Errno = 16
	EEXIST       Errno = 17
	EXDEV        Errno = 18
	ENODEV       Errno = 19
	ENOTDIR      Errno = 20
	EISDIR       Errno = 21
	EINVAL       Errno = 22
	ENFILE       Errno = 23
	EMFILE       Errno = 24
	ENOTTY       Errno = 25
	ETXTBSY      Errno = 26
	EFBIG        Errno = 27
	ENOSPC       Errno = 28
	ESPIPE       Errno = 29
	EROFS        Errno = 30
	EMLINK       Errno = 31
	EPIPE        Errno = 32
	EDOM         Errno = 33
	ERANGE       Errno = 34
	EDEADLK      Errno = 45
	ENOLCK       Errno = 46
	ENODATA      Errno = 61
	EPROTO       Errno = 71
	EBADMSG      Errno = 77
	ENOSYS       Errno = 88
	ENOTEMPTY    Errno = 90
	ENAMETOOLONG Errno = 91
	ELOOP        Errno = 92
	EOPNOTSUPP   Errno = 95
	ECONNRESET   Errno = 104
	ETIMEDOUT    Errno = 116
	ENOTSUP      Errno = 134
	EILSEQ       Errno = 138
	EOVERFLOW    Errno = 139
	ECANCELED    Errno = 140

	EWOULDBLOCK = EAGAIN
)

var errnoText = map[Errno]string{
	EPERM:        "not owner",
	ENOENT:       "no such file or directory",
	ESRCH:        "no such process",
	EINTR:        "interrupted system call",
	EIO:          "I/O error",
	ENXIO:        "no such device or address",
	E2BIG:        "arg list too long",
	ENOEXEC:      "exec format error",
	EBADF:        "bad file number",
	ECHILD:       "no children",
	EAGAIN:       "no more processes",
	ENOMEM:       "not enough space",
	EACCES:       "permission denied",
	EFAULT:       "bad address",
	ENOTBLK:      "block device required",
	EBUSY:        "device or resource busy",
	EEXIST:       "file exists",
	EXDEV:        "cross-device link",
	ENODEV:       "no such device",
	ENOTDIR:      "not a directory",
	EISDIR:       "is a directory",
	EINVAL:       "invalid argument",
	ENFILE:       "too many open files in system",
	EMFILE:       "file descriptor value too large",
	ENOTTY:       "not a character device",
	ETXTBSY:      "text file busy",
	EFBIG:        "file too large",
	ENOSPC:       "no space left on device",
	ESPIPE:       "illegal seek",
	EROFS:        "read-only file system",
	EMLINK:       "too many links",
	EPIPE:        "broken pipe",
	EDOM:         "argument out of domain",
	ERANGE:       "result too large",
	EDEADLK:      "deadlock",
	ENOLCK:       "no lock",
	ENODATA:      "no data",
	EPROTO:       "protocol error",
	EBADMSG:      "bad message",
	ENOSYS:       "function not implemented",
	ENOTEMPTY:    "directory not empty",
	ENAMETOOLONG: "file or path name too long",
	ELOOP:        "too many symbolic links",
	EOPNOTSUPP:   "operation not supported on socket",
	ECONNRESET:   "connection reset by peer",
	ETIMEDOUT:    "connection timed out",
	ENOTSUP:      "not supported",
	EILSEQ:       "illegal byte sequence",
	EOVERFLOW:    "value too large for defined data type",
	ECANCELED:    "operation canceled",
}

// Error implements error.
func (e Errno) Error() string {
	if text, ok := errnoText[e]; ok {
		return text
	}
	return "errno " + strconv.Itoa(int(e))
}
