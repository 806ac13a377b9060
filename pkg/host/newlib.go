package host

import (
	"io"
	"os"
	"sync"

	"github.com/golang/glog"

	"github.com/robotalks/metal.go/pkg/newlib"
	"github.com/robotalks/metal.go/pkg/serial"
	"github.com/robotalks/metal.go/pkg/syscalls"
)

// maxReadSize bounds a single read request.
const maxReadSize = 1 << 20

// Newlib serves the system calls of the target in all modes.
//
// Writes to the standard descriptors go to Stdout and Stderr. Descriptors
// opened in unchecked mode are numbered by the target and mapped to host
// descriptors here.
type Newlib struct {
	OS     OS
	Stdout io.Writer
	Stderr io.Writer

	lock      sync.Mutex
	unchecked map[int]int
}

// NewNewlib creates a Newlib on the host system.
func NewNewlib() *Newlib {
	return &Newlib{OS: UnixOS{}, Stdout: os.Stdout, Stderr: os.Stderr}
}

// Install implements Extension.
func (n *Newlib) Install(e *Engine) {
	e.HandleFunc(syscalls.TagWriteBlocked, n.writeOneWay)
	e.HandleFunc(syscalls.TagWriteUnchecked, n.writeOneWay)
	e.HandleFunc(syscalls.TagWriteFull, n.writeFull)
	e.HandleFunc(syscalls.TagOpenUnchecked, n.openUnchecked)
	e.HandleFunc(syscalls.TagOpenFull, n.openFull)
	e.HandleFunc(syscalls.TagCloseUnchecked, n.closeUnchecked)
	e.HandleFunc(syscalls.TagCloseFull, n.closeFull)
	e.HandleFunc(syscalls.TagReadFull, n.read)
	e.HandleFunc(syscalls.TagReadBuffered, n.read)
	e.HandleFunc(syscalls.TagLseek, n.lseek)
	e.HandleFunc(syscalls.TagStat, n.stat)
	e.HandleFunc(syscalls.TagFstat, n.fstat)
	e.HandleFunc(syscalls.TagIsatty, n.isatty)
	e.HandleFunc(syscalls.TagLink, n.link)
	e.HandleFunc(syscalls.TagSymlink, n.symlink)
	e.HandleFunc(syscalls.TagUnlink, n.unlink)
}

// Exit implements Exiter. Descriptors left open by the target are closed.
func (n *Newlib) Exit(code int) {
	n.lock.Lock()
	defer n.lock.Unlock()
	for fd, hostFD := range n.unchecked {
		if err := n.OS.Close(hostFD); err != nil {
			glog.Warningf("host: close %d (target %d): %v", hostFD, fd, err)
		}
	}
	n.unchecked = nil
}

func (n *Newlib) stdWriter(fd int) io.Writer {
	switch fd {
	case newlib.STDOUT_FILENO:
		return n.Stdout
	case newlib.STDERR_FILENO:
		return n.Stderr
	}
	return nil
}

func (n *Newlib) hostFD(fd int) (int, bool) {
	n.lock.Lock()
	defer n.lock.Unlock()
	hostFD, ok := n.unchecked[fd]
	return hostFD, ok
}

func (n *Newlib) doWrite(fd int, p []byte) (int, error) {
	if w := n.stdWriter(fd); w != nil {
		return w.Write(p)
	}
	return n.OS.Write(fd, p)
}

// writeOneWay serves blocked and unchecked writes, nothing is answered.
func (n *Newlib) writeOneWay(e *Engine, site serial.Site) error {
	fd, err := e.ReadInt()
	if err != nil {
		return err
	}
	data, err := e.ReadMemory()
	if err != nil {
		return err
	}
	target := int(fd)
	if w := n.stdWriter(target); w != nil {
		_, err = w.Write(data)
	} else if hostFD, ok := n.hostFD(target); ok {
		_, err = n.OS.Write(hostFD, data)
	} else {
		err = newlib.EBADF
	}
	if err != nil {
		glog.Errorf("host: write to %d at %s: %v", target, site, err)
	}
	return nil
}

func (n *Newlib) writeFull(e *Engine, site serial.Site) error {
	fd, err := e.ReadInt()
	if err != nil {
		return err
	}
	data, err := e.ReadMemory()
	if err != nil {
		return err
	}
	count, err := n.doWrite(int(fd), data)
	return writeResult(e, int64(count), err)
}

func (n *Newlib) openUnchecked(e *Engine, site serial.Site) error {
	path, err := e.ReadString()
	if err != nil {
		return err
	}
	flags, err := e.ReadInt()
	if err != nil {
		return err
	}
	mode, err := e.ReadInt()
	if err != nil {
		return err
	}
	fd, err := e.ReadInt()
	if err != nil {
		return err
	}
	hostFD, err := n.OS.Open(path, int(flags), uint32(mode))
	if err != nil {
		glog.Errorf("host: open %q at %s: %v", path, site, err)
		return nil
	}
	n.lock.Lock()
	if n.unchecked == nil {
		n.unchecked = make(map[int]int)
	}
	n.unchecked[int(fd)] = hostFD
	n.lock.Unlock()
	glog.V(2).Infof("host: opened %q as %d for target %d", path, hostFD, fd)
	return nil
}

func (n *Newlib) openFull(e *Engine, site serial.Site) error {
	path, err := e.ReadString()
	if err != nil {
		return err
	}
	flags, err := e.ReadInt()
	if err != nil {
		return err
	}
	mode, err := e.ReadInt()
	if err != nil {
		return err
	}
	fd, err := n.OS.Open(path, int(flags), uint32(mode))
	return writeResult(e, int64(fd), err)
}

func (n *Newlib) closeUnchecked(e *Engine, site serial.Site) error {
	fd, err := e.ReadInt()
	if err != nil {
		return err
	}
	n.lock.Lock()
	hostFD, ok := n.unchecked[int(fd)]
	delete(n.unchecked, int(fd))
	n.lock.Unlock()
	if !ok {
		return nil
	}
	if err := n.OS.Close(hostFD); err != nil {
		glog.Errorf("host: close %d at %s: %v", fd, site, err)
	}
	return nil
}

func (n *Newlib) closeFull(e *Engine, site serial.Site) error {
	fd, err := e.ReadInt()
	if err != nil {
		return err
	}
	return writeErrno(e, n.OS.Close(int(fd)))
}

func (n *Newlib) read(e *Engine, site serial.Site) error {
	fd, err := e.ReadInt()
	if err != nil {
		return err
	}
	size, err := e.ReadInt()
	if err != nil {
		return err
	}
	if size < 0 {
		return writeErrno(e, newlib.EINVAL)
	}
	buf := make([]byte, min(size, maxReadSize))
	count, err := n.OS.Read(int(fd), buf)
	if err != nil {
		return writeErrno(e, err)
	}
	if err := writeErrno(e, nil); err != nil {
		return err
	}
	acked, err := e.WriteMemory(buf[:count])
	if err != nil {
		return err
	}
	if acked != count {
		glog.Warningf("host: target kept %d of %d bytes at %s", acked, count, site)
	}
	return nil
}

func (n *Newlib) lseek(e *Engine, site serial.Site) error {
	fd, err := e.ReadInt()
	if err != nil {
		return err
	}
	offset, err := e.ReadInt()
	if err != nil {
		return err
	}
	whence, err := e.ReadInt()
	if err != nil {
		return err
	}
	pos, err := n.OS.Lseek(int(fd), offset, int(whence))
	return writeResult(e, pos, err)
}

func (n *Newlib) stat(e *Engine, site serial.Site) error {
	path, err := e.ReadString()
	if err != nil {
		return err
	}
	st, err := n.OS.Stat(path)
	return writeStat(e, &st, err)
}

func (n *Newlib) fstat(e *Engine, site serial.Site) error {
	fd, err := e.ReadInt()
	if err != nil {
		return err
	}
	st, err := n.OS.Fstat(int(fd))
	return writeStat(e, &st, err)
}

func (n *Newlib) isatty(e *Engine, site serial.Site) error {
	fd, err := e.ReadInt()
	if err != nil {
		return err
	}
	tty, err := n.OS.Isatty(int(fd))
	if err != nil {
		return writeErrno(e, err)
	}
	if err := writeErrno(e, nil); err != nil {
		return err
	}
	var v int64
	if tty {
		v = 1
	}
	return e.WriteInt(v)
}

func (n *Newlib) link(e *Engine, site serial.Site) error {
	existing, name, err := readPair(e)
	if err != nil {
		return err
	}
	return writeErrno(e, n.OS.Link(existing, name))
}

func (n *Newlib) symlink(e *Engine, site serial.Site) error {
	existing, name, err := readPair(e)
	if err != nil {
		return err
	}
	return writeErrno(e, n.OS.Symlink(existing, name))
}

func (n *Newlib) unlink(e *Engine, site serial.Site) error {
	name, err := e.ReadString()
	if err != nil {
		return err
	}
	return writeErrno(e, n.OS.Unlink(name))
}

func readPair(e *Engine) (string, string, error) {
	first, err := e.ReadString()
	if err != nil {
		return "", "", err
	}
	second, err := e.ReadString()
	return first, second, err
}

// writeErrno answers the error number of err, 0 for success.
func writeErrno(e *Engine, err error) error {
	return e.WriteInt(int64(newlib.FromHost(err)))
}

// writeResult answers res, or -1 followed by the error number.
func writeResult(e *Engine, res int64, err error) error {
	if err == nil {
		return e.WriteInt(res)
	}
	if werr := e.WriteInt(-1); werr != nil {
		return werr
	}
	return writeErrno(e, err)
}

func writeStat(e *Engine, st *syscalls.Stat, err error) error {
	if err != nil {
		return writeErrno(e, err)
	}
	if err := writeErrno(e, nil); err != nil {
		return err
	}
	for _, v := range st.Fields() {
		if err := e.WriteInt(v); err != nil {
			return err
		}
	}
	return nil
}
