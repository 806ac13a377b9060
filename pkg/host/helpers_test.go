package host

import (
	"net"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/metal.go/pkg/newlib"
	"github.com/robotalks/metal.go/pkg/serial"
	"github.com/robotalks/metal.go/pkg/syscalls"
)

type memFile struct {
	name string
	pos  int
}

// memOS is an OS on in-memory files.
type memOS struct {
	files  map[string][]byte
	open   map[int]*memFile
	nextFD int
}

func newMemOS(files map[string]string) *memOS {
	m := &memOS{files: make(map[string][]byte), open: make(map[int]*memFile), nextFD: 10}
	for name, content := range files {
		m.files[name] = []byte(content)
	}
	return m
}

func (m *memOS) Open(path string, flags int, mode uint32) (int, error) {
	if _, ok := m.files[path]; !ok {
		if flags&newlib.O_CREAT == 0 {
			return -1, newlib.ENOENT
		}
		m.files[path] = nil
	}
	if flags&newlib.O_TRUNC != 0 {
		m.files[path] = nil
	}
	fd := m.nextFD
	m.nextFD++
	m.open[fd] = &memFile{name: path}
	return fd, nil
}

func (m *memOS) file(fd int) (*memFile, error) {
	if f, ok := m.open[fd]; ok {
		return f, nil
	}
	return nil, newlib.EBADF
}

func (m *memOS) Close(fd int) error {
	if _, err := m.file(fd); err != nil {
		return err
	}
	delete(m.open, fd)
	return nil
}

func (m *memOS) Read(fd int, p []byte) (int, error) {
	f, err := m.file(fd)
	if err != nil {
		return -1, err
	}
	n := copy(p, m.files[f.name][f.pos:])
	f.pos += n
	return n, nil
}

func (m *memOS) Write(fd int, p []byte) (int, error) {
	f, err := m.file(fd)
	if err != nil {
		return -1, err
	}
	data := append(m.files[f.name][:f.pos], p...)
	m.files[f.name] = data
	f.pos = len(data)
	return len(p), nil
}

func (m *memOS) Lseek(fd int, offset int64, whence int) (int64, error) {
	f, err := m.file(fd)
	if err != nil {
		return -1, err
	}
	switch whence {
	case newlib.SEEK_SET:
		f.pos = int(offset)
	case newlib.SEEK_CUR:
		f.pos += int(offset)
	case newlib.SEEK_END:
		f.pos = len(m.files[f.name]) + int(offset)
	default:
		return -1, newlib.EINVAL
	}
	return int64(f.pos), nil
}

func (m *memOS) Stat(path string) (syscalls.Stat, error) {
	data, ok := m.files[path]
	if !ok {
		return syscalls.Stat{}, newlib.ENOENT
	}
	return syscalls.Stat{Mode: newlib.S_IFREG | 0o644, Size: int64(len(data)), Nlink: 1}, nil
}

func (m *memOS) Fstat(fd int) (syscalls.Stat, error) {
	f, err := m.file(fd)
	if err != nil {
		return syscalls.Stat{}, err
	}
	return m.Stat(f.name)
}

func (m *memOS) Isatty(fd int) (bool, error) {
	return fd == newlib.STDOUT_FILENO, nil
}

func (m *memOS) Link(existing, name string) error {
	data, ok := m.files[existing]
	if !ok {
		return newlib.ENOENT
	}
	if _, ok := m.files[name]; ok {
		return newlib.EEXIST
	}
	m.files[name] = data
	return nil
}

func (m *memOS) Symlink(existing, name string) error {
	return m.Link(existing, name)
}

func (m *memOS) Unlink(name string) error {
	if _, ok := m.files[name]; !ok {
		return newlib.ENOENT
	}
	delete(m.files, name)
	return nil
}

// runSession runs fn as a target in a goroutine, connected to an Engine
// through a pipe.
func runSession(t *testing.T, locator serial.Locator, fn func(*serial.Target), exts ...Extension) (int, error) {
	targetConn, hostConn := net.Pipe()
	target := serial.NewTarget(serial.NewStreamPort(targetConn)).WithLocator(locator)
	done := make(chan struct{})
	go func() {
		defer close(done)
		defer targetConn.Close()
		target.Init()
		fn(target)
	}()
	code, err := NewEngine(hostConn, hostConn, LocatorSymbols{Locator: locator}).Use(exts...).Run()
	hostConn.Close()
	<-done
	require.NoError(t, target.Err())
	return code, err
}
