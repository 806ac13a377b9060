package syscalls

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/metal.go/pkg/newlib"
)

func TestParseMode(t *testing.T) {
	for _, mode := range []Mode{ModeBlocked, ModeUnchecked, ModeFull} {
		parsed, err := ParseMode(mode.String())
		require.NoError(t, err)
		require.Equal(t, mode, parsed)
	}
	_, err := ParseMode("open")
	require.Error(t, err)
}

func TestBlocked(t *testing.T) {
	shim, port := newTestShim(ModeBlocked)

	n, err := shim.Write(newlib.STDOUT_FILENO, []byte("hi"))
	require.NoError(t, err)
	require.Equal(t, 2, n)
	newDecoder(t, shim, port).
		tag(TagWriteBlocked).int(newlib.STDOUT_FILENO).memory([]byte("hi")).
		done()

	testCases := []struct {
		name   string
		call   func() error
		expect newlib.Errno
	}{
		{"close stdout", func() error { return shim.Close(newlib.STDOUT_FILENO) }, newlib.EBADF},
		{"write file", func() error { _, err := shim.Write(3, []byte("x")); return err }, newlib.EBADF},
		{"open", func() error { _, err := shim.Open("f", newlib.O_WRONLY, 0); return err }, newlib.EACCES},
		{"read", func() error { _, err := shim.Read(newlib.STDIN_FILENO, make([]byte, 4)); return err }, newlib.EBADF},
		{"stat", func() error { _, err := shim.Stat("f"); return err }, newlib.EIO},
		{"fstat", func() error { _, err := shim.Fstat(1); return err }, newlib.EIO},
		{"isatty", func() error { _, err := shim.Isatty(1); return err }, newlib.EBADF},
		{"link", func() error { return shim.Link("a", "b") }, newlib.EACCES},
		{"symlink", func() error { return shim.Symlink("a", "b") }, newlib.EACCES},
		{"unlink", func() error { return shim.Unlink("a") }, newlib.EACCES},
		{"lseek", func() error { _, err := shim.Lseek(1, 0, newlib.SEEK_SET); return err }, newlib.EACCES},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			require.ErrorIs(t, tc.call(), tc.expect)
			require.Zero(t, port.Out.Len())
		})
	}
}

func TestUncheckedOpen(t *testing.T) {
	shim, port := newTestShim(ModeUnchecked)

	for _, flags := range []int{newlib.O_RDONLY, newlib.O_RDWR, newlib.O_RDWR | newlib.O_CREAT} {
		fd, err := shim.Open("f", flags, 0)
		require.ErrorIs(t, err, newlib.EACCES)
		require.Equal(t, -1, fd)
		require.Zero(t, port.Out.Len())
	}

	fd, err := shim.Open("f", newlib.O_WRONLY, 0)
	require.NoError(t, err)
	require.Equal(t, 3, fd)
	fd, err = shim.Open("g", newlib.O_WRONLY|newlib.O_CREAT, 0o644)
	require.NoError(t, err)
	require.Equal(t, 4, fd)
	require.NoError(t, shim.Close(4))

	newDecoder(t, shim, port).
		tag(TagOpenUnchecked).str("f").int(newlib.O_WRONLY).int(0).int(3).
		tag(TagOpenUnchecked).str("g").int(newlib.O_WRONLY | newlib.O_CREAT).int(0o644).int(4).
		tag(TagCloseUnchecked).int(4).
		done()
}

func TestUnchecked(t *testing.T) {
	shim, port := newTestShim(ModeUnchecked)

	n, err := shim.Write(5, []byte("data"))
	require.NoError(t, err)
	require.Equal(t, 4, n)
	newDecoder(t, shim, port).tag(TagWriteUnchecked).int(5).memory([]byte("data")).done()

	tty, err := shim.Isatty(1)
	require.NoError(t, err)
	require.False(t, tty)

	_, err = shim.Read(0, make([]byte, 1))
	require.ErrorIs(t, err, newlib.EBADF)
	_, err = shim.Stat("f")
	require.ErrorIs(t, err, newlib.EIO)
	require.ErrorIs(t, shim.Unlink("f"), newlib.EACCES)
	require.Zero(t, port.Out.Len())
}

func TestFull(t *testing.T) {
	st := Stat{
		Dev: 1, Ino: 2, Mode: newlib.S_IFREG | 0o644, Nlink: 1, Uid: 1000, Gid: 100,
		Size: 1234, Blksize: 4096, Blocks: 8,
		Atim: Timespec{Sec: 10, Nsec: 1}, Mtim: Timespec{Sec: 20, Nsec: 2}, Ctim: Timespec{Sec: 30, Nsec: 3},
	}
	shim, port := newTestShim(ModeFull, WithBufferSize(0))
	newScript().
		int(7).
		int(-1).errno(newlib.ENOENT).
		int(3).
		errno(0).memory([]byte("abcdef")).
		int(42).
		errno(0).stat(&st).
		errno(newlib.ENOENT).
		errno(0).int(1).
		errno(0).
		errno(newlib.EEXIST).
		errno(0).
		errno(0).
		feed(port)

	fd, err := shim.Open("in.txt", newlib.O_RDONLY, 0)
	require.NoError(t, err)
	require.Equal(t, 7, fd)
	_, err = shim.Open("missing", newlib.O_RDONLY, 0)
	require.ErrorIs(t, err, newlib.ENOENT)

	n, err := shim.Write(7, []byte("xyz"))
	require.NoError(t, err)
	require.Equal(t, 3, n)

	buf := make([]byte, 4)
	n, err = shim.Read(7, buf)
	require.NoError(t, err)
	require.Equal(t, 4, n)
	require.Equal(t, []byte("abcd"), buf)

	off, err := shim.Lseek(7, 42, newlib.SEEK_SET)
	require.NoError(t, err)
	require.Equal(t, int64(42), off)

	actual, err := shim.Stat("in.txt")
	require.NoError(t, err)
	require.Equal(t, st, actual)
	_, err = shim.Fstat(9)
	require.ErrorIs(t, err, newlib.ENOENT)

	tty, err := shim.Isatty(1)
	require.NoError(t, err)
	require.True(t, tty)

	require.NoError(t, shim.Link("a", "b"))
	require.ErrorIs(t, shim.Symlink("a", "b"), newlib.EEXIST)
	require.NoError(t, shim.Unlink("a"))
	require.NoError(t, shim.Close(7))
	require.Zero(t, port.In.Len())

	newDecoder(t, shim, port).
		tag(TagOpenFull).str("in.txt").int(newlib.O_RDONLY).int(0).
		tag(TagOpenFull).str("missing").int(newlib.O_RDONLY).int(0).
		tag(TagWriteFull).int(7).memory([]byte("xyz")).
		tag(TagReadFull).int(7).int(4).int(4).
		tag(TagLseek).int(7).int(42).int(newlib.SEEK_SET).
		tag(TagStat).str("in.txt").
		tag(TagFstat).int(9).
		tag(TagIsatty).int(1).
		tag(TagLink).str("a").str("b").
		tag(TagSymlink).str("a").str("b").
		tag(TagUnlink).str("a").
		tag(TagCloseFull).int(7).
		done()
}

func TestFullTransportFailure(t *testing.T) {
	shim, _ := newTestShim(ModeFull)
	fd, err := shim.Open("f", newlib.O_RDONLY, 0)
	require.ErrorIs(t, err, newlib.EIO)
	require.Equal(t, -1, fd)
	require.Error(t, shim.Target.Err())
}
