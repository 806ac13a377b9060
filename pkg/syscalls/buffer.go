package syscalls

import "github.com/golang/glog"

type writeBuffer struct {
	data []byte
	fd   int
	pos  int
}

func (b *writeBuffer) enabled() bool {
	return len(b.data) > 0
}

type readBuffer struct {
	data []byte
	fd   int
	pos  int
	end  int
}

func (b *readBuffer) enabled() bool {
	return len(b.data) > 0
}

func (b *readBuffer) bind(fd int) {
	b.fd, b.pos, b.end = fd, 0, 0
}

func (b *readBuffer) unbind() {
	b.fd, b.pos, b.end = -1, 0, 0
}

// Flush forwards pending buffered bytes.
func (s *Shim) Flush() error {
	w := &s.wbuf
	fd, pending := w.fd, w.data[:w.pos]
	w.fd, w.pos = -1, 0
	if fd == -1 || len(pending) == 0 {
		return nil
	}
	_, err := s.write(fd, pending)
	return err
}

// flushBefore flushes pending bytes ahead of a call on fd. Only a failure
// of bytes pending for fd itself is returned, others are logged.
func (s *Shim) flushBefore(fd int) error {
	pending := s.wbuf.fd
	err := s.Flush()
	if err != nil && pending != fd {
		glog.Warningf("syscalls: flush fd %d: %v", pending, err)
		return nil
	}
	return err
}

func (s *Shim) writeBuffered(fd int, b byte) (int, error) {
	w := &s.wbuf
	if w.fd != fd || w.pos == len(w.data) {
		if err := s.flushBefore(fd); err != nil {
			return -1, err
		}
	}
	w.fd = fd
	w.data[w.pos] = b
	w.pos++
	if b == '\n' {
		if err := s.Flush(); err != nil {
			return -1, err
		}
	}
	return 1, nil
}

// readCached serves p from the read buffer. An exhausted buffer is
// refilled from the host; an empty refill ends the binding and reports
// end of data.
func (s *Shim) readCached(p []byte) (int, error) {
	r := &s.rbuf
	if r.pos == r.end {
		n, err := s.readBufferedRemote(r.fd, r.data)
		if err != nil {
			r.unbind()
			return -1, err
		}
		r.pos, r.end = 0, n
		if n == 0 {
			r.unbind()
			return 0, nil
		}
	}
	n := copy(p, r.data[r.pos:r.end])
	r.pos += n
	return n, nil
}
