// Command metal-demo is a target running a few unit tests over the serial
// session. By default it talks on stdin/stdout so the host can start it:
//
//	metal -e ./metal-demo arg1 arg2
//
// With -listen it waits for the host to dial in instead.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/golang/glog"

	"github.com/robotalks/metal.go/pkg/newlib"
	"github.com/robotalks/metal.go/pkg/serial"
	"github.com/robotalks/metal.go/pkg/syscalls"
	"github.com/robotalks/metal.go/pkg/transport"
	"github.com/robotalks/metal.go/pkg/unit"
)

//go-build: CGO_ENABLED=0

var (
	listenURL string
	modeName  = syscalls.ModeFull.String()
	sitesPath string
)

func init() {
	flag.StringVar(&listenURL, "listen", listenURL, "Wait for the host on tcp:// or ws:// URL.")
	flag.StringVar(&modeName, "mode", modeName, "Syscall mode: blocked, unchecked or full.")
	flag.StringVar(&sitesPath, "sites", sitesPath, "Write a site table to the file and locate by IDs.")
}

type stdio struct {
	io.Reader
	io.Writer
}

func main() {
	flag.Parse()
	mode, err := syscalls.ParseMode(modeName)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	var locator serial.Locator = serial.CallerLocator{}
	if sitesPath != "" {
		f, err := os.Create(sitesPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		defer f.Close()
		table := serial.NewTable()
		if err := table.StreamTo(f); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		locator = table
	}

	if listenURL == "" {
		os.Exit(run(stdio{Reader: os.Stdin, Writer: os.Stdout}, locator, mode))
	}

	done := make(chan int, 1)
	srv, err := transport.Listen(listenURL, func(conn io.ReadWriteCloser) {
		defer conn.Close()
		done <- run(conn, locator, mode)
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stderr, "waiting for host on %s\n", srv.DialURL())
	go func() {
		if err := srv.Run(context.Background()); err != nil {
			glog.Errorf("%v", err)
			done <- 1
		}
	}()
	code := <-done
	glog.Flush()
	os.Exit(code)
}

func run(rw io.ReadWriter, locator serial.Locator, mode syscalls.Mode) int {
	tgt := serial.NewTarget(serial.NewStreamPort(rw)).WithLocator(locator)
	tgt.Init()
	args, truncated := tgt.ReadArgv(256)
	shim := syscalls.New(tgt, mode)
	u := unit.New(unit.NewSerial(tgt))

	u.Call("argv", func() {
		unit.ExpectEqual(u, truncated, false)
		unit.ExpectGE(u, len(args), 1)
	})
	u.Call("arithmetic", func() { arithmetic(u) })
	u.CallDescribed("ranges", "element-wise comparisons", func() { ranges(u) })
	u.Call("stdout", func() {
		n, err := fmt.Fprintf(shim.Stdout(), "hello from %s\n", strings.Join(args, " "))
		unit.AssertGreater(u, n, 0)
		u.AssertMessage(err == nil, "write stdout")
	})
	if mode == syscalls.ModeFull {
		u.CallDescribed("files", "create, read back and remove a file on the host", func() { files(u, shim) })
	}
	shim.Flush()
	u.Report()
	code := u.ExitCode()
	tgt.Exit(code)
	if err := tgt.Err(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return code
}

func arithmetic(u *unit.Unit) {
	unit.AssertEqualInt(u, int8(-1), int64(-1))
	unit.ExpectNotEqualInt(u, uint32(math.MaxUint32), int32(-1))
	unit.ExpectLesser(u, 2, 3)
	unit.ExpectClose(u, math.Sqrt(2), 1.41421, 1e-5)
	unit.ExpectCloseRelative(u, 1000.0, 1001.0, 0.01)
	u.Critical(func() unit.Outcome {
		return unit.AssertPredicate(u, func(v int) bool { return v%2 == 0 }, 42)
	})
	u.For(4, func(i int) unit.Outcome {
		return unit.AssertLE(u, i*i, 9)
	})
}

func ranges(u *unit.Unit) {
	fib := []int{1, 1, 2, 3, 5, 8}
	unit.Ranged(u, fib[2:], fib[1:], func(l, r int) unit.Outcome {
		return unit.ExpectGE(u, l, r)
	})
	unit.ForEach(u, []string{"metal", "serial"}, func(i int, s string) unit.Outcome {
		return unit.ExpectNotEqual(u, s, "")
	})
}

func files(u *unit.Unit, shim *syscalls.Shim) {
	const name = "metal-demo.txt"
	f, err := shim.OpenFile(name, newlib.O_CREAT|newlib.O_TRUNC|newlib.O_RDWR, 0o644)
	u.AssertMessage(err == nil, "open "+name)
	if err != nil {
		return
	}
	defer shim.Unlink(name)
	defer f.Close()
	n, err := f.Write([]byte("bare metal\n"))
	u.AssertMessage(err == nil, "write "+name)
	unit.AssertEqualInt(u, n, 11)
	off, err := f.Seek(0, newlib.SEEK_SET)
	u.ExpectMessage(err == nil, "seek "+name)
	unit.ExpectEqualInt(u, off, 0)
	buf := make([]byte, 32)
	n, _ = f.Read(buf)
	unit.ExpectEqual(u, string(buf[:n]), "bare metal\n")
	st, err := f.Stat()
	u.AssertMessage(err == nil, "stat "+name)
	if err == nil {
		unit.ExpectEqualInt(u, st.Size, 11)
	}
}
