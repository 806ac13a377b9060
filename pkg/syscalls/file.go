package syscalls

import (
	"io"

	"github.com/robotalks/metal.go/pkg/newlib"
)

// File is a descriptor of a Shim, usable with the io interfaces.
type File struct {
	shim *Shim
	fd   int
}

// File wraps an already open descriptor.
func (s *Shim) File(fd int) *File {
	return &File{shim: s, fd: fd}
}

// Stdout is the File of the standard output.
func (s *Shim) Stdout() *File {
	return s.File(newlib.STDOUT_FILENO)
}

// Stderr is the File of the standard error.
func (s *Shim) Stderr() *File {
	return s.File(newlib.STDERR_FILENO)
}

// OpenFile opens path and wraps the descriptor.
func (s *Shim) OpenFile(path string, flags int, mode uint32) (*File, error) {
	fd, err := s.Open(path, flags, mode)
	if err != nil {
		return nil, err
	}
	return s.File(fd), nil
}

// Fd returns the descriptor.
func (f *File) Fd() int {
	return f.fd
}

// Read implements io.Reader. A zero read is io.EOF.
func (f *File) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	n, err := f.shim.Read(f.fd, p)
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, io.EOF
	}
	return n, nil
}

// Write implements io.Writer.
func (f *File) Write(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	n, err := f.shim.Write(f.fd, p)
	if err != nil {
		return 0, err
	}
	if n < len(p) {
		return n, io.ErrShortWrite
	}
	return n, nil
}

// WriteByte implements io.ByteWriter, going through the line buffer.
func (f *File) WriteByte(b byte) error {
	_, err := f.shim.Write(f.fd, []byte{b})
	return err
}

// Seek implements io.Seeker.
func (f *File) Seek(offset int64, whence int) (int64, error) {
	switch whence {
	case io.SeekStart:
		whence = newlib.SEEK_SET
	case io.SeekCurrent:
		whence = newlib.SEEK_CUR
	case io.SeekEnd:
		whence = newlib.SEEK_END
	}
	return f.shim.Lseek(f.fd, offset, whence)
}

// Stat returns information about the file.
func (f *File) Stat() (Stat, error) {
	return f.shim.Fstat(f.fd)
}

// Close implements io.Closer.
func (f *File) Close() error {
	return f.shim.Close(f.fd)
}
