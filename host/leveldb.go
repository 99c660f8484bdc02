package host

import (
	"github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb"
)

// LevelDBStorage is a Storage persisted in a goleveldb database. It backs
// offline tooling that inspects or migrates a dumped contract store.
type LevelDBStorage struct {
	db *leveldb.DB
}

// OpenLevelDBStorage opens (or creates) a database at path.
func OpenLevelDBStorage(path string) (*LevelDBStorage, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "open leveldb at %q", path)
	}
	return &LevelDBStorage{db: db}, nil
}

// Get implements Storage.
func (s *LevelDBStorage) Get(key []byte) ([]byte, error) {
	v, err := s.db.Get(key, nil)
	if err == leveldb.ErrNotFound {
		return nil, ErrNotFound
	}
	return v, err
}

// Put implements Storage.
func (s *LevelDBStorage) Put(key, value []byte) error {
	return s.db.Put(key, value, nil)
}

// Delete implements Storage.
func (s *LevelDBStorage) Delete(key []byte) error {
	return s.db.Delete(key, nil)
}

// Has implements Storage.
func (s *LevelDBStorage) Has(key []byte) (bool, error) {
	return s.db.Has(key, nil)
}

// Close releases the underlying database.
func (s *LevelDBStorage) Close() error {
	return s.db.Close()
}
