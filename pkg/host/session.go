package host

import (
	"context"
	"io"

	"github.com/robotalks/metal.go/pkg/framework"
)

// Session runs an Engine over a connection to a target.
type Session struct {
	Conn       io.ReadWriteCloser
	Symbols    Symbols
	Extensions []Extension
	// Capture records the bytes sent by the target when set.
	Capture io.Writer

	exitCode int
}

// Name implements framework.Named.
func (s *Session) Name() string {
	return "session"
}

// Run implements framework.Runnable. The connection is closed when the
// target exits or ctx is cancelled.
func (s *Session) Run(ctx context.Context) error {
	var in io.Reader = s.Conn
	if s.Capture != nil {
		in = io.TeeReader(in, s.Capture)
	}
	e := NewEngine(in, s.Conn, s.Symbols).Use(s.Extensions...)
	return framework.RunWithContextCloser(ctx, s.Conn, func() (err error) {
		s.exitCode, err = e.Run()
		return
	})
}

// ExitCode returns the exit code of the target after Run.
func (s *Session) ExitCode() int {
	return s.exitCode
}

// Replay decodes a recorded session. Only sessions which never expected
// an answer can be replayed.
func Replay(in io.Reader, symbols Symbols, exts ...Extension) (int, error) {
	return NewEngine(in, nil, symbols).Use(exts...).Run()
}
