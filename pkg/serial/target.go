package serial

import (
	"reflect"
	"runtime"
	"strings"
	"unsafe"

	"github.com/golang/glog"
)

// Version opens every session.
const Version = "__metal_serial_version_1"

// Sentinel follows Version so the host can detect byte order and the
// width of integers.
const Sentinel int32 = 0x6C43

// Tags of the locations every host understands.
const (
	TagInit = "init"
	TagExit = "exit"
	TagArgv = "argv"
	TagUnit = "unit"
)

// Target is the target end of a session.
// Transport errors are sticky: after the first failure every operation is
// a no-op and Err reports the failure.
type Target struct {
	Port    Port
	Locator Locator
	// PtrSize is the width in bytes of pointers and locations.
	PtrSize int

	err error
}

// NewTarget creates a Target allocating locations from a new Table.
func NewTarget(port Port) *Target {
	return &Target{
		Port:    port,
		Locator: NewTable(),
		PtrSize: int(unsafe.Sizeof(uintptr(0))),
	}
}

// WithLocator replaces the Locator.
func (t *Target) WithLocator(l Locator) *Target {
	t.Locator = l
	return t
}

// Err returns the first transport error.
func (t *Target) Err() error {
	return t.err
}

// writePrimitive is the single write primitive of the target. Its address
// is sent during Init to identify the build.
func writePrimitive(p Port, b byte) error {
	return p.WriteByte(b)
}

// Token returns the capability token sent during Init.
func Token() uintptr {
	return reflect.ValueOf(writePrimitive).Pointer()
}

// TokenFunc returns the name of the function whose address is the token.
func TokenFunc() string {
	return runtime.FuncForPC(Token()).Name()
}

// WriteByte implements io.ByteWriter.
func (t *Target) WriteByte(b byte) error {
	if t.err != nil {
		return t.err
	}
	if err := writePrimitive(t.Port, b); err != nil {
		t.fail(err)
	}
	return t.err
}

// ReadByte implements io.ByteReader.
func (t *Target) ReadByte() (byte, error) {
	if t.err != nil {
		return 0, t.err
	}
	b, err := t.Port.ReadByte()
	if err != nil {
		t.fail(err)
		return 0, err
	}
	return b, nil
}

func (t *Target) fail(err error) {
	t.err = err
	if glog.V(5) {
		glog.Infof("serial: transport failed: %v", err)
	}
}

// WriteStr writes s up to its first NUL, followed by the terminator.
func (t *Target) WriteStr(s string) error {
	if n := strings.IndexByte(s, 0); n >= 0 {
		s = s[:n]
	}
	for i := 0; i < len(s); i++ {
		t.WriteByte(s[i])
	}
	return t.WriteByte(0)
}

// ReadStr reads a NUL-terminated string from the host into buf.
// At most len(buf)-1 characters are stored and buf is always terminated.
// Characters beyond that are drained until the host's terminator. The
// number of stored characters is acknowledged to the host and returned.
func (t *Target) ReadStr(buf []byte) int {
	var n int
	terminated := false
	for n+1 < len(buf) {
		b, err := t.ReadByte()
		if err != nil {
			break
		}
		buf[n] = b
		if b == 0 {
			terminated = true
			break
		}
		n++
	}
	if len(buf) > 0 {
		buf[n] = 0
	}
	if !terminated {
		for {
			b, err := t.ReadByte()
			if err != nil || b == 0 {
				break
			}
		}
	}
	WriteInt(t, uint32(n))
	return n
}

// ReadString is ReadStr with a buffer of capacity bytes.
func (t *Target) ReadString(capacity int) string {
	buf := make([]byte, capacity)
	n := t.ReadStr(buf)
	return string(buf[:n])
}

// WriteMemory writes the length of p followed by its bytes.
func (t *Target) WriteMemory(p []byte) error {
	WriteInt(t, uint32(len(p)))
	for _, b := range p {
		t.WriteByte(b)
	}
	return t.err
}

// ReadMemory reads a memory block from the host into buf. Bytes beyond
// len(buf) are dropped. The number of bytes kept is acknowledged to the
// host and returned.
func (t *Target) ReadMemory(buf []byte) int {
	size, err := ReadInt[uint32](t)
	if err != nil {
		return 0
	}
	n := len(buf)
	if uint64(size) < uint64(n) {
		n = int(size)
	}
	for i := 0; i < n; i++ {
		buf[i], _ = t.ReadByte()
	}
	for i := uint64(n); i < uint64(size) && t.err == nil; i++ {
		t.ReadByte()
	}
	WriteInt(t, uint32(n))
	return n
}

// WritePtr writes v with the pointer width.
func (t *Target) WritePtr(v uintptr) error {
	t.writeUint(uint64(v), t.PtrSize)
	return t.err
}

// WriteLocation writes a location marker.
func (t *Target) WriteLocation(loc Location) error {
	t.writeUint(uint64(loc), t.PtrSize)
	return t.err
}

// Mark writes the location of the caller skip frames above the caller of
// Mark.
func (t *Target) Mark(skip int, tag string) error {
	return t.WriteLocation(t.Locator.Locate(skip+1, tag))
}

// Init starts the session.
func (t *Target) Init() error {
	for i := 0; i < len(Version); i++ {
		t.WriteByte(Version[i])
	}
	t.WriteByte(0)
	WriteInt(t, Sentinel)
	t.WritePtr(Token())
	return t.Mark(1, TagInit)
}

// Exit ends the session with code.
//
//go:noinline
func (t *Target) Exit(code int) error {
	t.Mark(0, TagExit)
	return WriteInt(t, int32(code))
}

func init() {
	BindTag((*Target).Exit, TagExit)
	BindTag((*Target).ReadArgv, TagArgv)
}
