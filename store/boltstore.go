package store

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"
)

var (
	bucketRecords = []byte("records")
	bucketIndex   = []byte("index")
)

// BoltStore persists records in a bbolt database. bbolt serializes writers
// and commits each Update atomically.
type BoltStore struct {
	db *bbolt.DB
}

// Compile-time interface check.
var _ Store = (*BoltStore)(nil)

// OpenBoltStore opens or creates the bbolt database at dbPath.
// The parent directory is created if it does not exist.
func OpenBoltStore(dbPath string) (*BoltStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0700); err != nil {
		return nil, fmt.Errorf("store: create directory: %w", err)
	}
	db, err := bbolt.Open(dbPath, 0600, &bbolt.Options{Timeout: 5 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("store: open bolt db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, name := range [][]byte{bucketRecords, bucketIndex} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return fmt.Errorf("boltstore: create bucket %q: %w", name, err)
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("store: create buckets: %w", err)
	}

	return &BoltStore{db: db}, nil
}

// Path returns the database file path.
func (s *BoltStore) Path() string { return s.db.Path() }

// Close closes the underlying database.
func (s *BoltStore) Close() error { return s.db.Close() }

// View runs fn in a bbolt read transaction.
func (s *BoltStore) View(fn func(Tx) error) error {
	return s.wrap(s.db.View(func(tx *bbolt.Tx) error {
		return fn(&boltTx{tx: tx})
	}))
}

// Update runs fn in a bbolt read-write transaction.
func (s *BoltStore) Update(fn func(Tx) error) error {
	return s.wrap(s.db.Update(func(tx *bbolt.Tx) error {
		return fn(&boltTx{tx: tx})
	}))
}

func (s *BoltStore) wrap(err error) error {
	if errors.Is(err, bbolt.ErrDatabaseNotOpen) {
		return ErrClosed
	}
	return err
}

// boltTx adapts a bbolt transaction to Tx.
type boltTx struct {
	tx *bbolt.Tx
}

func (t *boltTx) Get(key []byte) ([]byte, error) {
	if err := checkKey(key); err != nil {
		return nil, err
	}
	v := t.tx.Bucket(bucketRecords).Get(key)
	if v == nil {
		return nil, ErrNotFound
	}
	// bbolt memory is only valid for the life of the transaction.
	return bytes.Clone(v), nil
}

func (t *boltTx) Create(key, value []byte) error {
	if err := checkKey(key); err != nil {
		return err
	}
	if !t.tx.Writable() {
		return ErrReadOnly
	}
	b := t.tx.Bucket(bucketRecords)
	if b.Get(key) != nil {
		return fmt.Errorf("%w: %x", ErrAlreadyExists, key)
	}
	if err := b.Put(key, value); err != nil {
		return fmt.Errorf("boltstore: create record: %w", err)
	}
	return nil
}

func (t *boltTx) Put(key, value []byte) error {
	if err := checkKey(key); err != nil {
		return err
	}
	if !t.tx.Writable() {
		return ErrReadOnly
	}
	b := t.tx.Bucket(bucketRecords)
	if b.Get(key) == nil {
		return fmt.Errorf("%w: %x", ErrNotFound, key)
	}
	if err := b.Put(key, value); err != nil {
		return fmt.Errorf("boltstore: update record: %w", err)
	}
	return nil
}

func (t *boltTx) AddIndex(index, key []byte) error {
	if err := checkKey(index); err != nil {
		return err
	}
	if err := checkKey(key); err != nil {
		return err
	}
	if !t.tx.Writable() {
		return ErrReadOnly
	}
	if err := t.tx.Bucket(bucketIndex).Put(indexKey(index, key), []byte{}); err != nil {
		return fmt.Errorf("boltstore: put index entry: %w", err)
	}
	return nil
}

func (t *boltTx) Scan(index []byte) ([][]byte, error) {
	if err := checkKey(index); err != nil {
		return nil, err
	}
	prefix := indexPrefix(index)
	var keys [][]byte
	c := t.tx.Bucket(bucketIndex).Cursor()
	for k, _ := c.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, _ = c.Next() {
		if len(k) == len(prefix) {
			continue
		}
		keys = append(keys, bytes.Clone(k[len(prefix):]))
	}
	return keys, nil
}
