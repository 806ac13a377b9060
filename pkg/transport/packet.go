package transport

import "io"

// PacketReader reads packets in bytes.
type PacketReader interface {
	ReadPacket() ([]byte, error)
}

// PacketWriter writes packets in bytes.
type PacketWriter interface {
	WritePacket([]byte) error
}

// PacketReadWriter reads/writes packets in bytes.
type PacketReadWriter interface {
	PacketReader
	PacketWriter
}

// PacketConn presents a packet transport as a byte stream. Packet
// boundaries are not preserved on read, every Write is sent as one packet.
type PacketConn struct {
	ReadWriter PacketReadWriter

	pending []byte
}

// NewPacketConn wraps rw.
func NewPacketConn(rw PacketReadWriter) *PacketConn {
	return &PacketConn{ReadWriter: rw}
}

// Read implements io.Reader.
func (c *PacketConn) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	for len(c.pending) == 0 {
		pkt, err := c.ReadWriter.ReadPacket()
		if err != nil {
			return 0, err
		}
		c.pending = pkt
	}
	n := copy(p, c.pending)
	c.pending = c.pending[n:]
	return n, nil
}

// Write implements io.Writer.
func (c *PacketConn) Write(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	pkt := make([]byte, len(p))
	copy(pkt, p)
	if err := c.ReadWriter.WritePacket(pkt); err != nil {
		return 0, err
	}
	return len(p), nil
}

// Close implements io.Closer.
func (c *PacketConn) Close() error {
	if closer, ok := c.ReadWriter.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
