// Package store is the persistent record store behind the custody engine.
//
// Records live at caller-derived keys. A key can be created exactly once;
// afterwards the record is read and updated in place. Update runs its callback
// as one atomic, serializable unit: either every write lands or none does.
package store

import (
	"bytes"
	"fmt"
	"sort"
	"sync"
)

// Store persists records and runs transactions against them.
type Store interface {
	// View runs fn in a read-only transaction.
	View(fn func(Tx) error) error

	// Update runs fn in a read-write transaction. Any error returned by fn
	// discards every write made through the Tx.
	Update(fn func(Tx) error) error

	// Close releases the store.
	Close() error
}

// Tx is the view of the store inside a transaction.
type Tx interface {
	// Get returns the record at key, or ErrNotFound.
	Get(key []byte) ([]byte, error)

	// Create stores a new record and fails with ErrAlreadyExists if key is taken.
	Create(key, value []byte) error

	// Put overwrites an existing record and fails with ErrNotFound if absent.
	Put(key, value []byte) error

	// AddIndex files key under index. Adding the same pair twice is a no-op.
	AddIndex(index, key []byte) error

	// Scan returns the keys filed under index in ascending key order.
	Scan(index []byte) ([][]byte, error)
}

// indexKey composes the secondary-index entry: len(index) || index || key.
func indexKey(index, key []byte) []byte {
	out := make([]byte, 0, 2+len(index)+len(key))
	out = append(out, byte(len(index)>>8), byte(len(index)))
	out = append(out, index...)
	return append(out, key...)
}

func indexPrefix(index []byte) []byte {
	return indexKey(index, nil)
}

func checkKey(key []byte) error {
	if len(key) == 0 {
		return ErrEmptyKey
	}
	return nil
}

// MemStore is an in-memory Store for tests and ephemeral engines.
// Update holds an exclusive lock for the whole callback, so transactions are
// fully serialized.
type MemStore struct {
	mu      sync.RWMutex
	records map[string][]byte
	index   map[string]struct{}
	closed  bool
}

// Compile-time interface check.
var _ Store = (*MemStore)(nil)

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{
		records: make(map[string][]byte),
		index:   make(map[string]struct{}),
	}
}

// View runs fn against a read-only snapshot.
func (s *MemStore) View(fn func(Tx) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrClosed
	}
	return fn(&memTx{store: s, readOnly: true})
}

// Update runs fn and applies its writes only if fn returns nil.
func (s *MemStore) Update(fn func(Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	tx := &memTx{
		store:   s,
		pending: make(map[string][]byte),
		index:   make(map[string]struct{}),
	}
	if err := fn(tx); err != nil {
		return err
	}
	for k, v := range tx.pending {
		s.records[k] = v
	}
	for k := range tx.index {
		s.index[k] = struct{}{}
	}
	return nil
}

// Close marks the store closed. Later transactions fail with ErrClosed.
func (s *MemStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// memTx stages writes in an overlay until the owning Update commits.
type memTx struct {
	store    *MemStore
	readOnly bool
	pending  map[string][]byte
	index    map[string]struct{}
}

func (t *memTx) lookup(key []byte) ([]byte, bool) {
	if v, ok := t.pending[string(key)]; ok {
		return v, true
	}
	v, ok := t.store.records[string(key)]
	return v, ok
}

func (t *memTx) Get(key []byte) ([]byte, error) {
	if err := checkKey(key); err != nil {
		return nil, err
	}
	v, ok := t.lookup(key)
	if !ok {
		return nil, ErrNotFound
	}
	return bytes.Clone(v), nil
}

func (t *memTx) Create(key, value []byte) error {
	if err := checkKey(key); err != nil {
		return err
	}
	if t.readOnly {
		return ErrReadOnly
	}
	if _, ok := t.lookup(key); ok {
		return fmt.Errorf("%w: %x", ErrAlreadyExists, key)
	}
	t.pending[string(key)] = bytes.Clone(value)
	return nil
}

func (t *memTx) Put(key, value []byte) error {
	if err := checkKey(key); err != nil {
		return err
	}
	if t.readOnly {
		return ErrReadOnly
	}
	if _, ok := t.lookup(key); !ok {
		return fmt.Errorf("%w: %x", ErrNotFound, key)
	}
	t.pending[string(key)] = bytes.Clone(value)
	return nil
}

func (t *memTx) AddIndex(index, key []byte) error {
	if err := checkKey(index); err != nil {
		return err
	}
	if err := checkKey(key); err != nil {
		return err
	}
	if t.readOnly {
		return ErrReadOnly
	}
	t.index[string(indexKey(index, key))] = struct{}{}
	return nil
}

func (t *memTx) Scan(index []byte) ([][]byte, error) {
	if err := checkKey(index); err != nil {
		return nil, err
	}
	prefix := indexPrefix(index)
	seen := make(map[string]struct{})
	collect := func(entries map[string]struct{}) {
		for k := range entries {
			if len(k) > len(prefix) && k[:len(prefix)] == string(prefix) {
				seen[k[len(prefix):]] = struct{}{}
			}
		}
	}
	collect(t.store.index)
	collect(t.index)

	keys := make([][]byte, 0, len(seen))
	for k := range seen {
		keys = append(keys, []byte(k))
	}
	sort.Slice(keys, func(i, j int) bool { return bytes.Compare(keys[i], keys[j]) < 0 })
	return keys, nil
}
