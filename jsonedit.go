// Package jsonedit edits flat JSON documents stored on disk. An Editor loads a
// document, changes its top-level fields in memory and writes them back with
// merge-on-save semantics.
package jsonedit

// D represents a document, defined as an ordered collection of key-value pairs.
// Each entry in the document is represented by an E. Keys are expected to be
// unique; the methods below maintain that.
type D []E

// A represents an array, defined as a slice of values of any type.
type A []any

// E represents a single entry in a document. It consists of a string key and an
// associated value of any type.
type E struct {
	Key   string
	Value any
}

// Document is an alias of D for callers preferring the long name.
type Document = D

func (d D) index(key string) int {
	for i := range d {
		if d[i].Key == key {
			return i
		}
	}
	return -1
}

// Lookup returns the value stored under key. The boolean reports membership,
// so a key holding nil is still present.
func (d D) Lookup(key string) (any, bool) {
	if i := d.index(key); i >= 0 {
		return d[i].Value, true
	}
	return nil, false
}

// Has reports whether key is present.
func (d D) Has(key string) bool {
	return d.index(key) >= 0
}

// Set replaces the value of key in place, or appends a new entry when key is
// absent. The returned D must be used, as with append.
func (d D) Set(key string, value any) D {
	if i := d.index(key); i >= 0 {
		d[i].Value = value
		return d
	}
	return append(d, E{Key: key, Value: value})
}

// Delete removes key, keeping the order of the remaining entries.
func (d D) Delete(key string) (D, bool) {
	i := d.index(key)
	if i < 0 {
		return d, false
	}
	return append(d[:i:i], d[i+1:]...), true
}

// Keys returns the keys in document order.
func (d D) Keys() []string {
	keys := make([]string, len(d))
	for i, e := range d {
		keys[i] = e.Key
	}
	return keys
}

// Clone returns a shallow copy. Nested values are shared.
func (d D) Clone() D {
	if d == nil {
		return nil
	}
	out := make(D, len(d))
	copy(out, d)
	return out
}

// Map returns an unordered view of the top-level entries.
func (d D) Map() map[string]any {
	m := make(map[string]any, len(d))
	for _, e := range d {
		m[e.Key] = e.Value
	}
	return m
}
