package sh

import (
	"context"
	"fmt"

	"github.com/abiosoft/ishell"

	"github.com/robotalks/metal.go/pkg/host"
)

var (
	// RunCmd runs a target.
	RunCmd = ishell.Cmd{
		Name:    "run",
		Aliases: []string{"r"},
		Help:    "[TARGET [ARGS...]]",
		Func: func(c *ishell.Context) {
			s := ShellFrom(c)
			conf := *s.Config
			if len(c.Args) > 0 {
				conf.Target, conf.Args = c.Args[0], c.Args[1:]
			}
			code, err := s.RunTarget(context.Background(), &conf, Writer(c))
			s.ExitCode = code
			if err != nil {
				s.ExitCode = 1
				c.Err(err)
				return
			}
			if s.OutputJSON {
				if err := PrintJSON(c, map[string]int{"exit_code": code}); err != nil {
					c.Err(err)
				}
				return
			}
			c.Printf("target exited with %d\n", code)
		},
	}

	// DecodeCmd replays a captured session.
	DecodeCmd = ishell.Cmd{
		Name:    "decode",
		Aliases: []string{"d"},
		Help:    "CAPTURE [SYMBOLS]",
		Func: func(c *ishell.Context) {
			s := ShellFrom(c)
			if len(c.Args) < 1 {
				c.Err(fmt.Errorf("capture file expected"))
				return
			}
			conf := *s.Config
			if len(c.Args) > 1 {
				conf.Symbols = c.Args[1]
			}
			syms, err := conf.OpenSymbols()
			if err != nil {
				c.Err(err)
				return
			}
			capture, err := host.OpenCapture(c.Args[0])
			if err != nil {
				c.Err(err)
				return
			}
			defer capture.Close()
			results := host.NewUnit(Writer(c), conf.Level)
			lib := &host.Newlib{OS: host.NullOS{}, Stdout: Writer(c), Stderr: Writer(c)}
			code, err := host.Replay(capture, syms, results, lib)
			s.ExitCode = code
			if err != nil {
				s.ExitCode = 1
				c.Err(err)
				return
			}
			if s.OutputJSON {
				if err := host.NewReport(results.Root(), code).Encode(Writer(c), host.FormatJSON); err != nil {
					c.Err(err)
				}
				return
			}
			sum := results.Root().Summary
			c.Printf("%d events, exit code %d, {executed: %d, warnings: %d, errors: %d}\n",
				results.Events(), code, sum.Executed, sum.Warnings, sum.Errors)
		},
	}

	// SymbolsCmd lists the sites of a site table.
	SymbolsCmd = ishell.Cmd{
		Name:    "symbols",
		Aliases: []string{"sym"},
		Help:    "[TABLE]",
		Func: func(c *ishell.Context) {
			s := ShellFrom(c)
			path := s.Config.Symbols
			if len(c.Args) > 0 {
				path = c.Args[0]
			}
			if path == "" {
				c.Err(fmt.Errorf("site table expected"))
				return
			}
			table, err := host.OpenTableFile(path)
			if err != nil {
				c.Err(err)
				return
			}
			sites := table.Table().Sites()
			if s.OutputJSON {
				if err := PrintJSON(c, sites); err != nil {
					c.Err(err)
				}
				return
			}
			for _, site := range sites {
				c.Printf("%4d %-24s %s %s\n", site.ID, site.Tag, site, site.Func)
			}
		},
	}
)
