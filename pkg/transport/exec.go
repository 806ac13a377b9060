package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"os/exec"
	"time"

	"github.com/golang/glog"
)

// ExitGrace is how long Close waits for a process before killing it.
var ExitGrace = time.Second

// Process is a target running as a subprocess. The session runs on its
// standard input and output, its standard error is passed through.
type Process struct {
	Cmd *exec.Cmd

	stdin  io.WriteCloser
	stdout io.ReadCloser
	waitCh chan error
}

// Exec starts the target name with args.
func Exec(ctx context.Context, name string, args ...string) (*Process, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stderr = os.Stderr
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, err
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, err
	}
	if err := cmd.Start(); err != nil {
		return nil, err
	}
	glog.V(2).Infof("transport: started %s, pid %d", name, cmd.Process.Pid)
	p := &Process{Cmd: cmd, stdin: stdin, stdout: stdout, waitCh: make(chan error, 1)}
	return p, nil
}

// Read implements io.Reader.
func (p *Process) Read(b []byte) (int, error) {
	return p.stdout.Read(b)
}

// Write implements io.Writer.
func (p *Process) Write(b []byte) (int, error) {
	return p.stdin.Write(b)
}

// Close closes the input of the process and waits for it, killing it
// after ExitGrace. A non-zero exit status is not an error.
func (p *Process) Close() error {
	p.stdin.Close()
	go func() { p.waitCh <- p.Cmd.Wait() }()
	var err error
	select {
	case err = <-p.waitCh:
	case <-time.After(ExitGrace):
		glog.Warningf("transport: killing pid %d", p.Cmd.Process.Pid)
		p.Cmd.Process.Kill()
		err = <-p.waitCh
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		glog.V(2).Infof("transport: pid %d %v", p.Cmd.Process.Pid, exitErr)
		return nil
	}
	return err
}

func dialExec(ctx context.Context, u *url.URL) (io.ReadWriteCloser, error) {
	path := u.Opaque
	if path == "" {
		path = u.Path
	}
	if path == "" {
		return nil, fmt.Errorf("%w: %s has no program", ErrInvalidAddress, u)
	}
	return Exec(ctx, path, u.Query()["arg"]...)
}
