package jsonedit

import (
	"fmt"
	"io"
)

// Option configures an Editor.
type Option func(e *Editor)

// WithStorage sets the backend the Editor reads and writes through. The
// default is FileStorage.
func WithStorage(s Storage) Option {
	return func(e *Editor) {
		if s != nil {
			e.storage = s
		}
	}
}

// Editor holds one document in memory bound to a storage location.
//
// Add, Update and Get work on memory only. Remove writes the whole document
// back to the bound location immediately. Save merges the in-memory fields
// into whatever a location currently holds; SaveNew overwrites it.
//
// An Editor is not safe for concurrent use, and nothing guards the backing
// location against other writers: Save is a read-modify-write sequence.
type Editor struct {
	location string
	storage  Storage
	// root is the decoded document. It is a D unless a non-object value was
	// read from storage; mutators reset it to an empty D in that case.
	root any
}

// New returns an Editor holding an empty document bound to location. No I/O
// is performed.
func New(location string, opts ...Option) *Editor {
	e := &Editor{location: location, storage: FileStorage{}, root: D{}}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Open reads and parses the document stored at location and returns an
// Editor bound to it. The root does not have to be an object.
func Open(location string, opts ...Option) (*Editor, error) {
	e := New(location, opts...)
	v, err := e.read("open", location)
	if err != nil {
		return nil, err
	}
	e.root = v
	return e, nil
}

// ReadFile reads the document stored at location without building an Editor.
// A root that is not an object is reported as ErrInvalidData.
func ReadFile(location string, opts ...Option) (D, error) {
	e, err := Open(location, opts...)
	if err != nil {
		return nil, err
	}
	d, ok := e.root.(D)
	if !ok {
		return nil, errorf("read", location, KindInvalidData, "root is %s, not an object", describe(e.root))
	}
	return d, nil
}

// Location returns the storage location the Editor is bound to.
func (e *Editor) Location() string { return e.location }

// Root returns the in-memory root value, which is a D unless a non-object
// document was loaded.
func (e *Editor) Root() any { return e.root }

// Document returns a copy of the in-memory document. A non-object root yields
// an empty document.
func (e *Editor) Document() D {
	d := e.object().Clone()
	if d == nil {
		d = D{}
	}
	return d
}

// Len returns the number of top-level keys.
func (e *Editor) Len() int { return len(e.object()) }

// Keys returns the top-level keys in document order.
func (e *Editor) Keys() []string { return e.object().Keys() }

// Get returns the value stored under key. The boolean reports whether the key
// is present; a key holding nil is present.
func (e *Editor) Get(key string) (any, bool) {
	return e.object().Lookup(key)
}

// Add inserts key with value. It fails with ErrKeyAlreadyExists when key is
// present and leaves the document unchanged. Storage is not touched.
func (e *Editor) Add(key string, value any) error {
	d := e.normalize()
	if d.Has(key) {
		return newError("add", "", key, KindKeyAlreadyExists, nil)
	}
	e.root = d.Set(key, value)
	return nil
}

// Update sets key to value, creating or replacing it. A non-object root is
// replaced by an empty document first. Storage is not touched.
func (e *Editor) Update(key string, value any) {
	e.root = e.normalize().Set(key, value)
}

// Remove deletes key and writes the resulting document to the bound location,
// replacing its previous content. It fails with ErrKeyNotFound when key is
// absent, and with ErrIO when the location cannot be opened or written. A
// value that cannot be encoded fails with ErrInvalidData before the location
// is opened. On either write failure the key is already gone from memory.
func (e *Editor) Remove(key string) error {
	d, ok := e.object().Delete(key)
	if !ok {
		return newError("remove", "", key, KindKeyNotFound, nil)
	}
	e.root = d
	return e.write("remove", e.location, d, KindIO)
}

// Save writes the in-memory document to location, merging it with the
// document already stored there: stored keys absent from memory are kept,
// keys present in memory take the in-memory value.
//
// When location cannot be opened for reading Save behaves like SaveNew. When
// its content is not a valid document, or its root is neither an object nor
// null, Save fails with ErrInvalidData and leaves it untouched. The in-memory
// document is not modified.
func (e *Editor) Save(location string) error {
	existing, err := e.read("save", location)
	if KindOf(err) == KindNotFound {
		return e.write("save", location, e.Document(), KindNotFound)
	}
	if err != nil {
		return err
	}
	var merged D
	switch v := existing.(type) {
	case D:
		merged = v
	case nil:
		merged = D{}
	default:
		return errorf("save", location, KindInvalidData, "existing root is %s, not an object", describe(v))
	}
	for _, ent := range e.object() {
		merged = merged.Set(ent.Key, ent.Value)
	}
	return e.write("save", location, merged, KindNotFound)
}

// SaveNew writes the in-memory document to location, discarding whatever was
// stored there.
func (e *Editor) SaveNew(location string) error {
	return e.write("save", location, e.Document(), KindNotFound)
}

// Reload replaces the in-memory document with the one stored at location. On
// failure the in-memory document is unchanged. The bound location does not
// change.
func (e *Editor) Reload(location string) error {
	v, err := e.read("reload", location)
	if err != nil {
		return err
	}
	e.root = v
	return nil
}

// object returns the root as a document, or nil when it is not an object.
func (e *Editor) object() D {
	d, _ := e.root.(D)
	return d
}

// normalize resets a non-object root to an empty document and returns it.
func (e *Editor) normalize() D {
	d, ok := e.root.(D)
	if !ok || d == nil {
		d = D{}
		e.root = d
	}
	return d
}

func (e *Editor) read(op, location string) (any, error) {
	r, err := e.storage.Open(location)
	if err != nil {
		return nil, newError(op, location, "", KindNotFound, err)
	}
	defer r.Close()
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, newError(op, location, "", KindIO, err)
	}
	v, err := Decode(data)
	if err != nil {
		return nil, newError(op, location, "", KindInvalidData, err)
	}
	return v, nil
}

// write encodes v before opening location so an encoding failure leaves the
// stored content intact. openKind classifies a failure to open location.
func (e *Editor) write(op, location string, v any, openKind Kind) (err error) {
	b, err := Encode(v)
	if err != nil {
		return newError(op, location, "", KindInvalidData, err)
	}
	w, err := e.storage.Create(location)
	if err != nil {
		return newError(op, location, "", openKind, err)
	}
	defer func() {
		if cerr := w.Close(); cerr != nil && err == nil {
			err = newError(op, location, "", KindIO, cerr)
		}
	}()
	if _, err := w.Write(b); err != nil {
		return newError(op, location, "", KindIO, err)
	}
	return nil
}

func describe(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "a boolean"
	case int64, uint64, float64:
		return "a number"
	case string:
		return "a string"
	case A:
		return "an array"
	}
	return fmt.Sprintf("%T", v)
}
