package host

import (
	"bufio"
	"bytes"
	"fmt"
	"io"

	"github.com/golang/glog"

	"github.com/robotalks/metal.go/pkg/serial"
)

// maxVersionLen bounds the version string read during the handshake.
const maxVersionLen = 64

// Hook serves the locations of one tag. It consumes exactly the bytes the
// target emits after the location and answers requests.
type Hook interface {
	Invoke(e *Engine, site serial.Site) error
}

// HookFunc is the func form of Hook.
type HookFunc func(e *Engine, site serial.Site) error

// Invoke implements Hook.
func (f HookFunc) Invoke(e *Engine, site serial.Site) error {
	return f(e, site)
}

// Extension installs hooks into an Engine.
type Extension interface {
	Install(e *Engine)
}

// Exiter is notified with the exit code when the session ends.
type Exiter interface {
	Exit(code int)
}

// Engine is the host end of a session.
type Engine struct {
	Symbols Symbols

	in        *bufio.Reader
	out       *bufio.Writer
	offset    int64
	bigEndian bool
	intSize   int
	base      uint64
	ready     bool
	hooks     map[string]Hook
	exts      []Extension
	exited    bool
	exitCode  int
	initSite  serial.Site
}

// NewEngine creates an Engine reading the target from in and answering to
// out. A nil out makes a read only engine for replaying captures.
func NewEngine(in io.Reader, out io.Writer, symbols Symbols) *Engine {
	e := &Engine{
		Symbols: symbols,
		in:      bufio.NewReader(in),
		hooks:   make(map[string]Hook),
	}
	if out != nil {
		e.out = bufio.NewWriter(out)
	}
	e.hooks[serial.TagExit] = HookFunc(exitHook)
	e.hooks[serial.TagInit] = HookFunc(func(*Engine, serial.Site) error { return nil })
	return e
}

// Handle installs hook for locations tagged tag.
func (e *Engine) Handle(tag string, hook Hook) *Engine {
	e.hooks[tag] = hook
	return e
}

// HandleFunc installs fn for locations tagged tag.
func (e *Engine) HandleFunc(tag string, fn func(*Engine, serial.Site) error) *Engine {
	return e.Handle(tag, HookFunc(fn))
}

// Use installs extensions.
func (e *Engine) Use(exts ...Extension) *Engine {
	for _, ext := range exts {
		ext.Install(e)
		e.exts = append(e.exts, ext)
	}
	return e
}

// ReadOnly tells whether the engine can't answer.
func (e *Engine) ReadOnly() bool {
	return e.out == nil
}

// BigEndian tells the byte order detected during the handshake.
func (e *Engine) BigEndian() bool {
	return e.bigEndian
}

// IntSize is the width of the sentinel.
func (e *Engine) IntSize() int {
	return e.intSize
}

// Base is the difference between target addresses and symbol addresses.
func (e *Engine) Base() uint64 {
	return e.base
}

// InitSite is where the target started the session.
func (e *Engine) InitSite() serial.Site {
	return e.initSite
}

func (e *Engine) protoErr(op string, err error) error {
	if _, ok := err.(*ProtocolError); ok {
		return err
	}
	return &ProtocolError{Op: op, Offset: e.offset, Err: err}
}

// Handshake reads the version, the sentinel, the token and the init
// location.
func (e *Engine) Handshake() error {
	var version []byte
	for {
		b, err := e.ReadByte()
		if err != nil {
			return e.protoErr("handshake", err)
		}
		if b == 0 {
			break
		}
		if len(version) >= maxVersionLen {
			return e.protoErr("handshake", ErrVersion)
		}
		version = append(version, b)
	}
	if string(version) != serial.Version {
		return e.protoErr("handshake", fmt.Errorf("%w: %q", ErrVersion, version))
	}
	if err := e.readSentinel(); err != nil {
		return err
	}
	token, err := e.ReadUint()
	if err != nil {
		return e.protoErr("handshake", err)
	}
	if symToken, ok := e.Symbols.Token(); ok {
		e.base = token - symToken
	}
	glog.V(2).Infof("host: session started, int size %d, big endian %v, token 0x%x, base 0x%x",
		e.intSize, e.bigEndian, token, e.base)
	site, err := e.ReadSite()
	if err != nil {
		return err
	}
	e.initSite, e.ready = site, true
	return nil
}

func (e *Engine) readSentinel() error {
	size, err := e.ReadByte()
	if err != nil {
		return e.protoErr("handshake", err)
	}
	if size == 0 || size > 8 {
		return e.protoErr("handshake", fmt.Errorf("%w: size %d", ErrSentinel, size))
	}
	data := make([]byte, size)
	for n := range data {
		if data[n], err = e.ReadByte(); err != nil {
			return e.protoErr("handshake", err)
		}
	}
	little := make([]byte, size)
	little[0] = byte(serial.Sentinel & 0xFF)
	if size > 1 {
		little[1] = byte(serial.Sentinel >> 8)
	}
	big := make([]byte, size)
	if size == 1 {
		big[0] = byte(serial.Sentinel >> 8)
	} else {
		big[size-1], big[size-2] = little[0], little[1]
	}
	switch {
	case bytes.Equal(data, little):
		e.bigEndian = false
	case bytes.Equal(data, big):
		e.bigEndian = true
	default:
		return e.protoErr("handshake", fmt.Errorf("%w: % x", ErrSentinel, data))
	}
	e.intSize = int(size)
	return nil
}

// Run serves the target until it exits and returns its exit code. The
// handshake is done first unless already done.
func (e *Engine) Run() (int, error) {
	if !e.ready {
		if err := e.Handshake(); err != nil {
			return 1, err
		}
	}
	for !e.exited {
		site, err := e.ReadSite()
		if err != nil {
			return 1, err
		}
		hook, ok := e.hooks[site.Tag]
		if !ok {
			return 1, e.protoErr("dispatch", fmt.Errorf("%w %q at %s", ErrUnknownTag, site.Tag, site))
		}
		if glog.V(4) {
			glog.Infof("host: %s at %s", site.Tag, site)
		}
		if err := hook.Invoke(e, site); err != nil {
			return 1, e.protoErr(site.Tag, err)
		}
		if err := e.flush(); err != nil {
			return 1, err
		}
	}
	for _, ext := range e.exts {
		if exiter, ok := ext.(Exiter); ok {
			exiter.Exit(e.exitCode)
		}
	}
	return e.exitCode, nil
}

// Exited tells whether the target sent its exit code.
func (e *Engine) Exited() bool {
	return e.exited
}

// ExitCode returns the exit code of the target.
func (e *Engine) ExitCode() int {
	return e.exitCode
}

func exitHook(e *Engine, site serial.Site) error {
	code, err := e.ReadInt()
	if err != nil {
		return err
	}
	e.exited, e.exitCode = true, int(code)
	glog.V(2).Infof("host: target exited with %d at %s", code, site)
	return nil
}
