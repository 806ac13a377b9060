package syscalls

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/metal.go/pkg/newlib"
	"github.com/robotalks/metal.go/pkg/serial"
)

func newTestShim(mode Mode, opts ...Option) (*Shim, *serial.BufferPort) {
	port := &serial.BufferPort{}
	return New(serial.NewTarget(port), mode, opts...), port
}

// script builds the bytes a host answers with.
type script struct {
	t    *serial.Target
	port *serial.BufferPort
}

func newScript() *script {
	port := &serial.BufferPort{}
	return &script{t: serial.NewTarget(port), port: port}
}

func (s *script) int(v int64) *script {
	serial.WriteInt(s.t, v)
	return s
}

func (s *script) errno(e newlib.Errno) *script {
	serial.WriteInt(s.t, int32(e))
	return s
}

func (s *script) memory(p []byte) *script {
	s.t.WriteMemory(p)
	return s
}

func (s *script) stat(st *Stat) *script {
	for _, v := range st.Fields() {
		serial.WriteInt(s.t, v)
	}
	return s
}

func (s *script) feed(port *serial.BufferPort) {
	port.In.Write(s.port.Out.Bytes())
}

// decoder reads back what a Shim wrote.
type decoder struct {
	t       *testing.T
	locator serial.Locator
	port    *serial.BufferPort
	r       *serial.Target
}

func newDecoder(t *testing.T, shim *Shim, port *serial.BufferPort) *decoder {
	in := &serial.BufferPort{}
	in.In.Write(port.Out.Bytes())
	port.Out.Reset()
	return &decoder{t: t, locator: shim.Target.Locator, port: in, r: serial.NewTarget(in)}
}

func (d *decoder) tag(expected string) *decoder {
	loc, err := serial.ReadInt[uint64](d.r)
	require.NoError(d.t, err)
	site, ok := d.locator.Resolve(serial.Location(loc))
	require.True(d.t, ok, "unknown location %d", loc)
	require.Equal(d.t, expected, site.Tag)
	return d
}

func (d *decoder) int(expected int64) *decoder {
	v, err := serial.ReadInt[int64](d.r)
	require.NoError(d.t, err)
	require.Equal(d.t, expected, v)
	return d
}

func (d *decoder) str(expected string) *decoder {
	var buf []byte
	for {
		b, err := d.r.ReadByte()
		require.NoError(d.t, err)
		if b == 0 {
			break
		}
		buf = append(buf, b)
	}
	require.Equal(d.t, expected, string(buf))
	return d
}

func (d *decoder) memory(expected []byte) *decoder {
	size, err := serial.ReadInt[uint32](d.r)
	require.NoError(d.t, err)
	buf := make([]byte, size)
	for n := range buf {
		buf[n], err = d.r.ReadByte()
		require.NoError(d.t, err)
	}
	require.Equal(d.t, expected, buf)
	return d
}

func (d *decoder) done() {
	require.Zero(d.t, d.port.In.Len(), "unexpected trailing bytes")
}
