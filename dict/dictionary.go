/*
	dict package interns URIs into compact, process-local identifiers. All
	schedulers key their work by these identifiers instead of by URI strings.
*/

package dict

import "sync"

// ID is a process-local handle for an interned URI.
type ID uint64

// Unknown is the reserved identifier for URIs that are unknown or can not be
// dereferenced. It is never assigned to an interned URI.
const Unknown ID = 0

// Dictionary maps URIs to identifiers and back. Identifiers are assigned
// sequentially and are stable for the lifetime of the dictionary.
type Dictionary struct {
	mu   sync.RWMutex
	ids  map[string]ID
	uris []string // uris[id-1] holds the URI for id.
}

// New returns an empty dictionary.
func New() *Dictionary {
	return &Dictionary{
		ids: make(map[string]ID),
	}
}

// Intern returns the identifier for uri, assigning a new one if the URI has
// not been seen before. The empty URI always maps to Unknown.
func (d *Dictionary) Intern(uri string) ID {
	if uri == "" {
		return Unknown
	}

	if id, ok := d.Lookup(uri); ok {
		return id
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	// Another goroutine may have interned the same URI while we were waiting
	// for the write lock.
	if id, ok := d.ids[uri]; ok {
		return id
	}

	d.uris = append(d.uris, uri)
	id := ID(len(d.uris))
	d.ids[uri] = id

	return id
}

// Lookup returns the identifier for uri without interning it.
func (d *Dictionary) Lookup(uri string) (ID, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	id, ok := d.ids[uri]

	return id, ok
}

// URI returns the URI that was interned as id.
func (d *Dictionary) URI(id ID) (string, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if id == Unknown || int(id) > len(d.uris) {
		return "", false
	}

	return d.uris[id-1], true
}

// Len returns the number of interned URIs.
func (d *Dictionary) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()

	return len(d.uris)
}
