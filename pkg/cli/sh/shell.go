package sh

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/abiosoft/ishell"
	"github.com/golang/glog"

	"github.com/robotalks/metal.go/pkg/env"
	"github.com/robotalks/metal.go/pkg/framework"
)

// Shell provides ishell backed interactive shell.
type Shell struct {
	Interactive bool
	OutputJSON  bool

	Shell  *ishell.Shell
	Config *env.Config
	// ExitCode is the exit code of the last target run or decoded.
	ExitCode int
}

const shellKey = "$shell"

var (
	// flags

	evalOnly   bool
	outputJSON bool

	// commands
	commands = []*ishell.Cmd{
		&RunCmd,
		&DecodeCmd,
		&SymbolsCmd,
	}
)

func init() {
	flag.BoolVar(&evalOnly, "e", evalOnly, "Evaluation only, no interactive shell.")
	flag.BoolVar(&outputJSON, "json", outputJSON, "Print output in JSON.")
}

// AddCmds is used by other commands providers during init func.
func AddCmds(cmds ...*ishell.Cmd) {
	commands = append(commands, cmds...)
}

// New creates a new shell.
func New(conf *env.Config) *Shell {
	s := &Shell{
		Interactive: !evalOnly,
		OutputJSON:  outputJSON,

		Shell:  ishell.New(),
		Config: conf,
	}
	s.Shell.Set(shellKey, s)
	s.Shell.SetPrompt("metal > ")
	for _, cmd := range commands {
		s.Shell.AddCmd(cmd)
	}
	return s
}

// ShellFrom gets Shell from ishell context.
func ShellFrom(c *ishell.Context) *Shell {
	return c.Get(shellKey).(*Shell)
}

// contextWriter prints to an ishell context.
type contextWriter struct {
	c *ishell.Context
}

func (w contextWriter) Write(p []byte) (int, error) {
	w.c.Print(string(p))
	return len(p), nil
}

// Writer returns an io.Writer printing to c.
func Writer(c *ishell.Context) io.Writer {
	return contextWriter{c: c}
}

// PrintJSON prints v as JSON.
func PrintJSON(c *ishell.Context, v interface{}) error {
	out, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.Println(string(out))
	return nil
}

// RunTarget runs a session with conf until the target exits or ctx is
// done, printing the test events to out. In evaluation mode an interrupt
// stops the session.
func (s *Shell) RunTarget(ctx context.Context, conf *env.Config, out io.Writer) (int, error) {
	e, err := conf.NewEnv(ctx, out)
	if err != nil {
		return 1, err
	}
	runner := framework.NewRunnerWith(ctx)
	if !s.Interactive {
		runner.HandleSignals()
	}
	code := 1
	var sessionErr error
	runner.Go(framework.NamedRun("session", framework.RunnableFunc(func(ctx context.Context) error {
		code, sessionErr = e.Run(ctx)
		return sessionErr
	})))
	if err := runner.Wait(); err != nil {
		return 1, err
	}
	// Wait doesn't count cancellation as an error, the caller needs it.
	if sessionErr != nil {
		return 1, sessionErr
	}
	return code, nil
}

// Run runs the shell and returns the exit code of the last target.
func (s *Shell) Run(args ...string) int {
	if len(args) == 0 && !s.Interactive {
		args = []string{RunCmd.Name}
	}
	if len(args) > 0 {
		if err := s.Shell.Process(args...); err != nil {
			glog.Errorf("%v", err)
			return 1
		}
		return s.ExitCode
	}
	s.Shell.Run()
	return s.ExitCode
}

// Main is a helper to provide a single call in main.
func Main() {
	flag.Parse()
	conf, err := env.NewConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	code := New(conf).Run(flag.Args()...)
	glog.Flush()
	os.Exit(code)
}
