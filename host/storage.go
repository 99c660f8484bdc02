package host

import "errors"

// ErrNotFound is returned by Storage.Get for a missing key.
var ErrNotFound = errors.New("storage: key not found")

// Storage is the persistent key-value store backing a single contract
// instance. The runtime guarantees exclusive access for the duration of
// a call.
type Storage interface {
	// Get returns the value stored under key or ErrNotFound.
	Get(key []byte) ([]byte, error)
	Put(key, value []byte) error
	Delete(key []byte) error
	Has(key []byte) (bool, error)
}

// MemStorage is a map-backed Storage used by the local chain harness and
// tests.
type MemStorage struct {
	items map[string][]byte
}

// NewMemStorage returns an empty MemStorage.
func NewMemStorage() *MemStorage {
	return &MemStorage{items: make(map[string][]byte)}
}

// Get implements Storage.
func (s *MemStorage) Get(key []byte) ([]byte, error) {
	v, ok := s.items[string(key)]
	if !ok {
		return nil, ErrNotFound
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, nil
}

// Put implements Storage.
func (s *MemStorage) Put(key, value []byte) error {
	v := make([]byte, len(value))
	copy(v, value)
	s.items[string(key)] = v
	return nil
}

// Delete implements Storage.
func (s *MemStorage) Delete(key []byte) error {
	delete(s.items, string(key))
	return nil
}

// Has implements Storage.
func (s *MemStorage) Has(key []byte) (bool, error) {
	_, ok := s.items[string(key)]
	return ok, nil
}

// Copy returns an independent snapshot of the store. The harness uses it to
// roll back a failed call.
func (s *MemStorage) Copy() *MemStorage {
	c := NewMemStorage()
	for k, v := range s.items {
		c.items[k] = v
	}
	return c
}

// Restore replaces the store contents with those of the snapshot.
func (s *MemStorage) Restore(snapshot *MemStorage) {
	s.items = make(map[string][]byte, len(snapshot.items))
	for k, v := range snapshot.items {
		s.items[k] = v
	}
}
