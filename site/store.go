package site

import (
	"context"
	"encoding/json"
	"errors"
	"sort"

	"github.com/dgraph-io/badger/v4"

	"github.com/warwick-one-metre/pkgmeta/internal/core"
)

const distPrefix = "dist:"

// Store persists distribution records in a Badger database.
// Keys are "dist:<normalized-name>", values JSON-encoded Records.
type Store struct {
	db *badger.DB
}

// OpenStore opens (or creates) the install database at path.
func OpenStore(path string) (*Store, error) {
	opts := badger.DefaultOptions(path).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error { return s.db.Close() }

// Put stores a record under its normalized name.
func (s *Store) Put(ctx context.Context, rec *core.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	key := []byte(distPrefix + rec.NormalizedName)
	buf, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, buf)
	})
}

// Get retrieves a record by normalized name.
func (s *Store) Get(ctx context.Context, normalized string) (*core.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	key := []byte(distPrefix + normalized)
	var out core.Record
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &out)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, &core.NotFoundError{Name: normalized}
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete removes a record by normalized name.
func (s *Store) Delete(ctx context.Context, normalized string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	key := []byte(distPrefix + normalized)
	err := s.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(key); err != nil {
			return err
		}
		return txn.Delete(key)
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return &core.NotFoundError{Name: normalized}
	}
	return err
}

// List returns every stored record, sorted by normalized name.
func (s *Store) List(ctx context.Context) ([]core.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var records []core.Record
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(distPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			var rec core.Record
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &rec)
			}); err != nil {
				return err
			}
			records = append(records, rec)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].NormalizedName < records[j].NormalizedName
	})
	return records, nil
}
