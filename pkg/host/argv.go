package host

import (
	"strings"

	"github.com/golang/glog"

	"github.com/robotalks/metal.go/pkg/serial"
)

// Argv answers the target asking for its command line.
type Argv struct {
	Args []string
}

// Install implements Extension.
func (a *Argv) Install(e *Engine) {
	e.Handle(serial.TagArgv, a)
}

// Invoke implements Hook.
func (a *Argv) Invoke(e *Engine, site serial.Site) error {
	if err := e.WriteInt(int64(len(a.Args))); err != nil {
		return err
	}
	data := strings.Join(a.Args, "\x00") + "\x00"
	n, err := e.WriteMemory([]byte(data))
	if err != nil {
		return err
	}
	if n != len(data) {
		glog.Warningf("host: argv truncated to %d of %d bytes at %s", n, len(data), site)
	}
	return nil
}
