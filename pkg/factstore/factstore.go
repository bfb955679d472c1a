// Package factstore provides storage backends for temporal facts and
// asserted constraints. The reasoning engine is purely in-memory; stores
// are collaborators it snapshots into and reloads from, never a dependency
// of the reasoning itself.
package factstore

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/tempograph/tempograph/pkg/network"
	"github.com/tempograph/tempograph/pkg/types"
)

// Validation errors
var (
	ErrNilConfig       = errors.New("factstore config is required")
	ErrEmptyPath       = errors.New("store path is required")
	ErrUnsupportedType = errors.New("unsupported factstore type")
	ErrMissingFactID   = errors.New("fact id is required")
)

// StoreType selects the storage backend.
type StoreType string

const (
	// StoreTypeMemory keeps everything in process memory.
	StoreTypeMemory StoreType = "memory"
	// StoreTypeBadger persists to a BadgerDB directory.
	StoreTypeBadger StoreType = "badger"
)

// Config configures a store backend.
type Config struct {
	// Type is the backend type; empty selects memory.
	Type StoreType `json:"type,omitempty" mapstructure:"type"`

	// Path is the data directory for persistent backends.
	Path string `json:"path,omitempty" mapstructure:"path"`
}

// Store persists temporal facts and asserted constraints. Implementations
// must be safe for concurrent use.
type Store interface {
	// SaveFact stores a fact. Facts are immutable: saving an existing ID
	// overwrites the record byte-for-byte but never mutates history kept
	// by the engine.
	SaveFact(ctx context.Context, fact *types.TemporalFact) error

	// FactsBySubject returns every fact stored for a subject.
	FactsBySubject(ctx context.Context, subject types.EventID) ([]*types.TemporalFact, error)

	// SaveConstraint stores an asserted constraint.
	SaveConstraint(ctx context.Context, constraint network.Constraint) error

	// Constraints returns every stored constraint.
	Constraints(ctx context.Context) ([]network.Constraint, error)

	// Close releases backend resources.
	Close() error
}

// NewStore builds a store from config.
func NewStore(cfg *Config) (Store, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}
	switch cfg.Type {
	case StoreTypeMemory, "":
		return NewMemoryStore(), nil
	case StoreTypeBadger:
		if cfg.Path == "" {
			return nil, ErrEmptyPath
		}
		return NewBadgerStore(cfg.Path)
	default:
		return nil, ErrUnsupportedType
	}
}

// MemoryStore is the in-process Store implementation.
type MemoryStore struct {
	mu          sync.RWMutex
	facts       map[string]*types.TemporalFact
	constraints []network.Constraint
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{facts: make(map[string]*types.TemporalFact)}
}

// SaveFact implements Store.
func (s *MemoryStore) SaveFact(_ context.Context, fact *types.TemporalFact) error {
	if err := fact.Validate(); err != nil {
		return err
	}
	if fact.ID == "" {
		return ErrMissingFactID
	}
	copied := *fact
	s.mu.Lock()
	s.facts[fact.ID] = &copied
	s.mu.Unlock()
	return nil
}

// FactsBySubject implements Store.
func (s *MemoryStore) FactsBySubject(_ context.Context, subject types.EventID) ([]*types.TemporalFact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*types.TemporalFact
	for _, fact := range s.facts {
		if fact.Subject == subject {
			copied := *fact
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// SaveConstraint implements Store.
func (s *MemoryStore) SaveConstraint(_ context.Context, constraint network.Constraint) error {
	if err := constraint.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	s.constraints = append(s.constraints, constraint)
	s.mu.Unlock()
	return nil
}

// Constraints implements Store.
func (s *MemoryStore) Constraints(_ context.Context) ([]network.Constraint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]network.Constraint, len(s.constraints))
	copy(out, s.constraints)
	return out, nil
}

// Close implements Store.
func (s *MemoryStore) Close() error {
	return nil
}
