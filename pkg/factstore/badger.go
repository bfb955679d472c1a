package factstore

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"github.com/tempograph/tempograph/pkg/network"
	"github.com/tempograph/tempograph/pkg/types"
)

const (
	factKeyPrefix       = "fact/"
	constraintKeyPrefix = "constraint/"
)

// BadgerStore is a BadgerDB-backed Store. Facts are keyed by subject so a
// subject's facts are one prefix scan; constraints are keyed by their
// event pair.
type BadgerStore struct {
	db *badger.DB
}

// NewBadgerStore opens (or creates) a Badger database at path.
func NewBadgerStore(path string) (*BadgerStore, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil // Badger's own logging is too chatty for a library default

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger store: %w", err)
	}
	return &BadgerStore{db: db}, nil
}

func factKey(subject types.EventID, id string) []byte {
	return []byte(factKeyPrefix + string(subject) + "/" + id)
}

func constraintKey(c network.Constraint) []byte {
	return []byte(constraintKeyPrefix + string(c.Event1) + "/" + string(c.Event2))
}

// SaveFact implements Store.
func (s *BadgerStore) SaveFact(_ context.Context, fact *types.TemporalFact) error {
	if err := fact.Validate(); err != nil {
		return err
	}
	if fact.ID == "" {
		return ErrMissingFactID
	}
	value, err := json.Marshal(fact)
	if err != nil {
		return fmt.Errorf("encoding fact %s: %w", fact.ID, err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(factKey(fact.Subject, fact.ID), value)
	})
}

// FactsBySubject implements Store.
func (s *BadgerStore) FactsBySubject(_ context.Context, subject types.EventID) ([]*types.TemporalFact, error) {
	var out []*types.TemporalFact
	prefix := []byte(factKeyPrefix + string(subject) + "/")

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(value []byte) error {
				var fact types.TemporalFact
				if err := json.Unmarshal(value, &fact); err != nil {
					return fmt.Errorf("decoding fact at %s: %w", it.Item().Key(), err)
				}
				out = append(out, &fact)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// SaveConstraint implements Store.
func (s *BadgerStore) SaveConstraint(_ context.Context, constraint network.Constraint) error {
	if err := constraint.Validate(); err != nil {
		return err
	}
	value, err := json.Marshal(constraint)
	if err != nil {
		return fmt.Errorf("encoding constraint: %w", err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(constraintKey(constraint), value)
	})
}

// Constraints implements Store.
func (s *BadgerStore) Constraints(_ context.Context) ([]network.Constraint, error) {
	var out []network.Constraint
	prefix := []byte(constraintKeyPrefix)

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(value []byte) error {
				var c network.Constraint
				if err := json.Unmarshal(value, &c); err != nil {
					return fmt.Errorf("decoding constraint at %s: %w", it.Item().Key(), err)
				}
				out = append(out, c)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Close implements Store.
func (s *BadgerStore) Close() error {
	return s.db.Close()
}
