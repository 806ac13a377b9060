package env

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"

	"github.com/golang/glog"

	"github.com/robotalks/metal.go/pkg/host"
	"github.com/robotalks/metal.go/pkg/transport"
)

// Env is a host session set up from a Config.
type Env struct {
	Config  *Config
	Session *host.Session
	Unit    *host.Unit
	Newlib  *host.Newlib

	recorder *host.Recorder
}

// IsURL tells whether target names a transport rather than a program.
func IsURL(target string) bool {
	u, err := url.Parse(target)
	if err != nil || u.Scheme == "" {
		return false
	}
	for _, scheme := range transport.Schemes() {
		if u.Scheme == scheme {
			return true
		}
	}
	return false
}

// Dial connects to the target. A program target is started with Args.
func (c *Config) Dial(ctx context.Context) (io.ReadWriteCloser, error) {
	if IsURL(c.Target) {
		return transport.Dial(ctx, c.Target)
	}
	return transport.Exec(ctx, c.Target, c.Args...)
}

// OpenSymbols opens the symbols of the target: a binary with a line
// table, otherwise a site table file.
func (c *Config) OpenSymbols() (host.Symbols, error) {
	path := c.Symbols
	if path == "" {
		if IsURL(c.Target) {
			return nil, fmt.Errorf("symbols must be specified for %s", c.Target)
		}
		path = c.Target
	}
	syms, err := host.OpenBinary(path)
	if err == nil {
		return syms, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return nil, err
	}
	glog.V(2).Infof("env: %s is not a binary (%v), loading as site table", path, err)
	return host.OpenTableFile(path)
}

// NewEnv creates the session printing test events to out.
func (c *Config) NewEnv(ctx context.Context, out io.Writer) (*Env, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	syms, err := c.OpenSymbols()
	if err != nil {
		return nil, err
	}
	env := &Env{
		Config: c,
		Unit:   host.NewUnit(out, c.Level),
		Newlib: host.NewNewlib(),
	}
	env.Newlib.Stdout = out
	conn, err := c.Dial(ctx)
	if err != nil {
		return nil, err
	}
	env.Session = &host.Session{
		Conn:       conn,
		Symbols:    syms,
		Extensions: []host.Extension{env.Unit, env.Newlib, &host.Argv{Args: c.Args}},
	}
	if c.Capture != "" {
		if env.recorder, err = host.CreateCapture(c.Capture); err != nil {
			conn.Close()
			return nil, err
		}
		env.Session.Capture = env.recorder
	}
	return env, nil
}

// Run runs the session, writes the report and returns the exit code of
// the target.
func (e *Env) Run(ctx context.Context) (int, error) {
	err := e.Session.Run(ctx)
	if e.recorder != nil {
		if cerr := e.recorder.Close(); cerr != nil {
			glog.Errorf("env: capture %s: %v", e.Config.Capture, cerr)
		}
	}
	if err != nil {
		return 1, err
	}
	code := e.Session.ExitCode()
	report := host.NewReport(e.Unit.Root(), code)
	report.Host = MachineID()
	if err := e.Config.WriteReport(report); err != nil {
		return code, err
	}
	return code, nil
}

// WriteReport writes report to the configured destination.
func (c *Config) WriteReport(report *host.Report) error {
	switch c.Report {
	case "":
		return nil
	case "-":
		return report.Encode(os.Stdout, strings.ToLower(c.Format))
	}
	f, err := os.Create(c.Report)
	if err != nil {
		return err
	}
	if err := report.Encode(f, strings.ToLower(c.Format)); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
