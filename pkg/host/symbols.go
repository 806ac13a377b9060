package host

import (
	"os"
	"sync"

	"github.com/golang/glog"

	"github.com/robotalks/metal.go/pkg/serial"
)

// Symbols maps location markers back to call sites.
type Symbols interface {
	Resolve(loc serial.Location) (serial.Site, bool)
	// Token returns the address of the write primitive in the same
	// address space as the locations, if the symbols know addresses. The
	// difference to the token sent by the target is subtracted from every
	// location.
	Token() (uint64, bool)
}

// TableSymbols resolves explicit locations from a site table.
type TableSymbols struct {
	Table *serial.Table
}

// Resolve implements Symbols.
func (s TableSymbols) Resolve(loc serial.Location) (serial.Site, bool) {
	return s.Table.Resolve(loc)
}

// Token implements Symbols. Explicit locations are not addresses.
func (s TableSymbols) Token() (uint64, bool) {
	return 0, false
}

// LocatorSymbols shares the Locator of a target running in this process.
type LocatorSymbols struct {
	Locator serial.Locator
}

// Resolve implements Symbols.
func (s LocatorSymbols) Resolve(loc serial.Location) (serial.Site, bool) {
	return s.Locator.Resolve(loc)
}

// Token implements Symbols.
func (s LocatorSymbols) Token() (uint64, bool) {
	return uint64(serial.Token()), true
}

// TableFile resolves explicit locations from a site table file. The file
// is read again when a location is missing, so a table still streamed by
// a running target is picked up.
type TableFile struct {
	Path string

	lock  sync.Mutex
	table *serial.Table
}

// OpenTableFile loads the table file at path.
func OpenTableFile(path string) (*TableFile, error) {
	f := &TableFile{Path: path, table: serial.NewTable()}
	if err := f.Reload(); err != nil {
		return nil, err
	}
	return f, nil
}

// Reload reads the file again.
func (f *TableFile) Reload() error {
	file, err := os.Open(f.Path)
	if err != nil {
		return err
	}
	defer file.Close()
	count, err := f.table.Load(file)
	glog.V(4).Infof("host: loaded %d sites from %s", count, f.Path)
	return err
}

// Table returns the loaded table.
func (f *TableFile) Table() *serial.Table {
	return f.table
}

// Resolve implements Symbols.
func (f *TableFile) Resolve(loc serial.Location) (serial.Site, bool) {
	f.lock.Lock()
	defer f.lock.Unlock()
	if site, ok := f.table.Resolve(loc); ok {
		return site, true
	}
	if err := f.Reload(); err != nil {
		glog.Warningf("host: reload %s: %v", f.Path, err)
		return serial.Site{}, false
	}
	return f.table.Resolve(loc)
}

// Token implements Symbols.
func (f *TableFile) Token() (uint64, bool) {
	return 0, false
}
