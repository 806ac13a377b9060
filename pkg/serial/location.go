package serial

import (
	"fmt"
	"reflect"
	"runtime"
	"sync"
)

// Location identifies a call site. It is sent with the pointer width.
type Location uint64

// Site describes the call site behind a Location.
type Site struct {
	ID   Location `msgpack:"id" json:"id"`
	Tag  string   `msgpack:"tag" json:"tag"`
	Func string   `msgpack:"func" json:"func"`
	File string   `msgpack:"file" json:"file"`
	Line int      `msgpack:"line" json:"line"`
}

// String formats the site as file(line).
func (s Site) String() string {
	return fmt.Sprintf("%s(%d)", s.File, s.Line)
}

// Locator allocates Locations for call sites.
type Locator interface {
	// Locate returns the Location of the caller skip frames above the
	// caller of Locate. The tag is recorded for the host where the
	// Locator keeps a table.
	Locate(skip int, tag string) Location
	// Resolve maps a Location back to its Site.
	Resolve(Location) (Site, bool)
}

// CallerLocator uses program counters as Locations. The host resolves them
// from the line table of the target binary.
type CallerLocator struct{}

// Locate implements Locator.
func (CallerLocator) Locate(skip int, tag string) Location {
	pc, _, _, ok := runtime.Caller(skip + 1)
	if !ok {
		return 0
	}
	return Location(pc)
}

// Resolve implements Locator.
func (CallerLocator) Resolve(loc Location) (Site, bool) {
	fn := runtime.FuncForPC(uintptr(loc))
	if fn == nil {
		return Site{}, false
	}
	file, line := fn.FileLine(uintptr(loc))
	return Site{
		ID:   loc,
		Tag:  TagOf(fn.Name()),
		Func: fn.Name(),
		File: file,
		Line: line,
	}, true
}

var (
	boundTagsLock sync.RWMutex
	boundTags     = make(map[string]string)
)

// FuncName returns the symbol name of function fn.
func FuncName(fn interface{}) string {
	f := runtime.FuncForPC(reflect.ValueOf(fn).Pointer())
	if f == nil {
		return ""
	}
	return f.Name()
}

// BindTag declares that locations emitted from inside fn carry tag.
// It is used by hosts resolving program counters, where the tag cannot be
// recorded at the call site.
func BindTag(fn interface{}, tag string) {
	name := FuncName(fn)
	boundTagsLock.Lock()
	boundTags[name] = tag
	boundTagsLock.Unlock()
}

// TagOf returns the tag bound to the function name, TagUnit by default.
func TagOf(funcName string) string {
	boundTagsLock.RLock()
	defer boundTagsLock.RUnlock()
	if tag, ok := boundTags[funcName]; ok {
		return tag
	}
	return TagUnit
}
