package host

import (
	"debug/elf"
	"debug/gosym"
	"errors"
	"fmt"

	"github.com/robotalks/metal.go/pkg/serial"
)

// ErrNoLineTable indicates a binary without a Go line table.
var ErrNoLineTable = errors.New("no .gopclntab section")

// BinarySymbols resolves program counter locations from the line table
// of a target binary. Tags come from the functions bound with
// serial.BindTag, which this package links in as well.
type BinarySymbols struct {
	Path  string
	table *gosym.Table
	token uint64
}

// OpenBinary reads the line table of the ELF binary at path.
func OpenBinary(path string) (*BinarySymbols, error) {
	f, err := elf.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	pclntab := f.Section(".gopclntab")
	text := f.Section(".text")
	if pclntab == nil || text == nil {
		return nil, fmt.Errorf("%s: %w", path, ErrNoLineTable)
	}
	pcln, err := pclntab.Data()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	var symtab []byte
	if sec := f.Section(".gosymtab"); sec != nil {
		if symtab, err = sec.Data(); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}
	table, err := gosym.NewTable(symtab, gosym.NewLineTable(pcln, text.Addr))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	s := &BinarySymbols{Path: path, table: table}
	if fn := table.LookupFunc(serial.TokenFunc()); fn != nil {
		s.token = fn.Entry
	}
	return s, nil
}

// Resolve implements Symbols.
func (s *BinarySymbols) Resolve(loc serial.Location) (serial.Site, bool) {
	file, line, fn := s.table.PCToLine(uint64(loc))
	if fn == nil {
		return serial.Site{}, false
	}
	return serial.Site{
		ID:   loc,
		Tag:  serial.TagOf(fn.Name),
		Func: fn.Name,
		File: file,
		Line: line,
	}, true
}

// Token implements Symbols.
func (s *BinarySymbols) Token() (uint64, bool) {
	return s.token, s.token != 0
}
