package serial

import (
	"bytes"
	"io"
)

// Port is the byte channel between target and host.
type Port interface {
	io.ByteReader
	io.ByteWriter
}

// StreamPort adapts an io.ReadWriter into a Port.
type StreamPort struct {
	ReadWriter io.ReadWriter

	rbuf [1]byte
	wbuf [1]byte
}

// NewStreamPort creates a StreamPort.
func NewStreamPort(rw io.ReadWriter) *StreamPort {
	return &StreamPort{ReadWriter: rw}
}

// ReadByte implements io.ByteReader.
func (p *StreamPort) ReadByte() (byte, error) {
	if _, err := io.ReadFull(p.ReadWriter, p.rbuf[:]); err != nil {
		return 0, err
	}
	return p.rbuf[0], nil
}

// WriteByte implements io.ByteWriter.
func (p *StreamPort) WriteByte(b byte) error {
	p.wbuf[0] = b
	_, err := p.ReadWriter.Write(p.wbuf[:])
	return err
}

// BufferPort is an in-memory Port. Bytes written by the target are
// collected in Out, bytes read by the target are taken from In.
type BufferPort struct {
	In  bytes.Buffer
	Out bytes.Buffer
}

// ReadByte implements io.ByteReader.
func (p *BufferPort) ReadByte() (byte, error) {
	return p.In.ReadByte()
}

// WriteByte implements io.ByteWriter.
func (p *BufferPort) WriteByte(b byte) error {
	return p.Out.WriteByte(b)
}
