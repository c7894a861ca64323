// Package store is the durable client storage: a badger-backed key → JSON
// value store surviving process restarts, scoped to one client. Each state
// slice (session, watchlist, notifications) owns disjoint keys; absence of
// a key means "empty"/"logged out" for that slice.
package store

import (
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
)

// KV is a JSON key-value store. Safe for concurrent use.
type KV struct {
	db *badger.DB
}

// Open opens (or creates) the store under dir.
func Open(dir string) (*KV, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open store at %s: %w", dir, err)
	}
	return &KV{db: db}, nil
}

// OpenInMemory opens a non-durable store, for tests.
func OpenInMemory() (*KV, error) {
	opts := badger.DefaultOptions("").WithInMemory(true).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open in-memory store: %w", err)
	}
	return &KV{db: db}, nil
}

// Close releases the underlying database.
func (kv *KV) Close() error {
	return kv.db.Close()
}

// GetJSON reads key into v. Returns (false, nil) when the key is absent and
// an error when the stored value fails to parse.
func (kv *KV) GetJSON(key string, v any) (bool, error) {
	var data []byte
	err := kv.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("get %s: %w", key, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("parse %s: %w", key, err)
	}
	return true, nil
}

// PutJSON writes v under key as JSON.
func (kv *KV) PutJSON(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	err = kv.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), data)
	})
	if err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}
	return nil
}

// PutRaw writes a pre-encoded value under key. Used by tests to plant
// corrupt records.
func (kv *KV) PutRaw(key string, data []byte) error {
	err := kv.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), data)
	})
	if err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}
	return nil
}

// Delete removes key. Deleting an absent key is a no-op.
func (kv *KV) Delete(key string) error {
	err := kv.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
	if err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}
