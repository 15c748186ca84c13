package jsonedit

import (
	"bytes"
	"io"
	"io/fs"
	"os"
	"sync"
)

// Storage is the byte-oriented backend an Editor reads and writes documents
// through. Locations are opaque to the Editor.
type Storage interface {
	// Open opens location for reading. It fails if the location is absent.
	Open(location string) (io.ReadCloser, error)
	// Create opens location for writing, creating it or truncating any
	// previous content.
	Create(location string) (io.WriteCloser, error)
}

// FileStorage stores documents as operating system files. Locations are file
// paths.
type FileStorage struct{}

func (FileStorage) Open(location string) (io.ReadCloser, error) {
	return os.Open(location)
}

func (FileStorage) Create(location string) (io.WriteCloser, error) {
	return os.Create(location)
}

// MemStorage keeps documents in memory. The zero value is ready to use and it
// is safe for concurrent use.
type MemStorage struct {
	mu    sync.RWMutex
	files map[string][]byte
}

// NewMemStorage returns an empty MemStorage.
func NewMemStorage() *MemStorage {
	return &MemStorage{}
}

func (s *MemStorage) Open(location string) (io.ReadCloser, error) {
	b, ok := s.Bytes(location)
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: location, Err: fs.ErrNotExist}
	}
	return io.NopCloser(bytes.NewReader(b)), nil
}

// Create truncates location immediately. Written bytes become visible on
// Close.
func (s *MemStorage) Create(location string) (io.WriteCloser, error) {
	s.Put(location, nil)
	return &memFile{s: s, location: location}, nil
}

// Bytes returns a copy of the content stored at location.
func (s *MemStorage) Bytes(location string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.files[location]
	if !ok {
		return nil, false
	}
	return bytes.Clone(b), true
}

// Put replaces the content stored at location.
func (s *MemStorage) Put(location string, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.files == nil {
		s.files = make(map[string][]byte)
	}
	s.files[location] = bytes.Clone(data)
}

// Remove deletes location. It reports whether it existed.
func (s *MemStorage) Remove(location string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.files[location]
	delete(s.files, location)
	return ok
}

type memFile struct {
	s        *MemStorage
	location string
	buf      bytes.Buffer
	closed   bool
}

func (f *memFile) Write(p []byte) (int, error) {
	if f.closed {
		return 0, fs.ErrClosed
	}
	return f.buf.Write(p)
}

func (f *memFile) Close() error {
	if f.closed {
		return fs.ErrClosed
	}
	f.closed = true
	f.s.Put(f.location, f.buf.Bytes())
	return nil
}
