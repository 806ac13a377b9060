package newlib

// Open flags from newlib's sys/_default_fcntl.h.
const (
	O_RDONLY    = 0
	O_WRONLY    = 1
	O_RDWR      = 2
	O_ACCMODE   = O_RDONLY | O_WRONLY | O_RDWR
	O_APPEND    = 0x0008
	O_CREAT     = 0x0200
	O_TRUNC     = 0x0400
	O_EXCL      = 0x0800
	O_SYNC      = 0x2000
	O_NONBLOCK  = 0x4000
	O_NOCTTY    = 0x8000
	O_CLOEXEC   = 0x40000
	O_NOFOLLOW  = 0x100000
	O_DIRECTORY = 0x200000
)

// File mode bits from newlib's sys/stat.h.
const (
	S_IFMT   = 0o170000
	S_IFDIR  = 0o040000
	S_IFCHR  = 0o020000
	S_IFBLK  = 0o060000
	S_IFREG  = 0o100000
	S_IFLNK  = 0o120000
	S_IFSOCK = 0o140000
	S_IFIFO  = 0o010000

	S_ISUID = 0o004000
	S_ISGID = 0o002000
	S_ISVTX = 0o001000

	S_IRWXU = 0o000700
	S_IRUSR = 0o000400
	S_IWUSR = 0o000200
	S_IXUSR = 0o000100
	S_IRWXG = 0o000070
	S_IRWXO = 0o000007
)

// Seek origins.
const (
	SEEK_SET = 0
	SEEK_CUR = 1
	SEEK_END = 2
)

// Standard descriptors.
const (
	STDIN_FILENO  = 0
	STDOUT_FILENO = 1
	STDERR_FILENO = 2
)

// AccessMode extracts the read/write intent of open flags.
func AccessMode(flags int) int {
	return flags & O_ACCMODE
}
