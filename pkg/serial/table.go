package serial

import (
	"errors"
	"io"
	"runtime"
	"sort"
	"sync"

	"github.com/golang/glog"
	"github.com/vmihailenco/msgpack/v5"
)

// Table allocates explicit Locations: call sites are numbered from 1 in
// the order they are first reached and recorded with their tag and source
// position.
//
// A Table can stream new sites to a sidecar file so a host in another
// process sees each site before its Location appears on the wire.
type Table struct {
	lock  sync.RWMutex
	sites map[Location]Site
	byPC  map[uintptr]Location
	next  Location
	sink  *msgpack.Encoder
}

// NewTable creates an empty Table.
func NewTable() *Table {
	return &Table{
		sites: make(map[Location]Site),
		byPC:  make(map[uintptr]Location),
	}
}

// StreamTo writes all known sites to w, and every site allocated later.
func (t *Table) StreamTo(w io.Writer) error {
	t.lock.Lock()
	defer t.lock.Unlock()
	enc := msgpack.NewEncoder(w)
	for _, site := range t.sorted() {
		if err := enc.Encode(&site); err != nil {
			return err
		}
	}
	t.sink = enc
	return nil
}

// Locate implements Locator.
func (t *Table) Locate(skip int, tag string) Location {
	pc, file, line, ok := runtime.Caller(skip + 1)
	if !ok {
		return 0
	}
	t.lock.RLock()
	id, found := t.byPC[pc]
	t.lock.RUnlock()
	if found {
		return id
	}

	t.lock.Lock()
	defer t.lock.Unlock()
	if id, found = t.byPC[pc]; found {
		return id
	}
	t.next++
	site := Site{ID: t.next, Tag: tag, File: file, Line: line}
	if fn := runtime.FuncForPC(pc); fn != nil {
		site.Func = fn.Name()
	}
	t.sites[site.ID], t.byPC[pc] = site, site.ID
	if t.sink != nil {
		if err := t.sink.Encode(&site); err != nil {
			glog.Warningf("serial: stream site %d: %v", site.ID, err)
		}
	}
	return site.ID
}

// Resolve implements Locator.
func (t *Table) Resolve(loc Location) (Site, bool) {
	t.lock.RLock()
	defer t.lock.RUnlock()
	site, ok := t.sites[loc]
	return site, ok
}

// Add records a site, e.g. one loaded from a file.
func (t *Table) Add(site Site) {
	t.lock.Lock()
	t.sites[site.ID] = site
	if site.ID > t.next {
		t.next = site.ID
	}
	t.lock.Unlock()
}

// Sites returns all sites ordered by Location.
func (t *Table) Sites() []Site {
	t.lock.RLock()
	defer t.lock.RUnlock()
	return t.sorted()
}

func (t *Table) sorted() []Site {
	sites := make([]Site, 0, len(t.sites))
	for _, site := range t.sites {
		sites = append(sites, site)
	}
	sort.Slice(sites, func(i, j int) bool { return sites[i].ID < sites[j].ID })
	return sites
}

// Save writes all sites to w.
func (t *Table) Save(w io.Writer) error {
	enc := msgpack.NewEncoder(w)
	for _, site := range t.Sites() {
		if err := enc.Encode(&site); err != nil {
			return err
		}
	}
	return nil
}

// Load adds the sites read from r and returns how many were read.
// A truncated trailing record, as left by a writer still streaming, ends
// the load without error.
func (t *Table) Load(r io.Reader) (int, error) {
	dec := msgpack.NewDecoder(r)
	var count int
	for {
		var site Site
		if err := dec.Decode(&site); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				return count, nil
			}
			return count, err
		}
		t.Add(site)
		count++
	}
}

// LoadTable reads a Table saved by Save or streamed by StreamTo.
func LoadTable(r io.Reader) (*Table, error) {
	t := NewTable()
	if _, err := t.Load(r); err != nil {
		return nil, err
	}
	return t, nil
}
