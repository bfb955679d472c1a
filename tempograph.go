package tempograph

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/tempograph/tempograph/pkg/allen"
	"github.com/tempograph/tempograph/pkg/factstore"
	"github.com/tempograph/tempograph/pkg/network"
	"github.com/tempograph/tempograph/pkg/parser"
	"github.com/tempograph/tempograph/pkg/types"
)

// DefaultEpsilon is the tolerance applied when comparing event endpoints
// for equality during ground classification.
const DefaultEpsilon = time.Second

// Reasoner is the main interface of the temporal reasoning engine. It
// orchestrates event and fact ingestion, seeds the constraint network from
// concrete timestamps, and exposes ordering, fact-validity and consistency
// queries.
type Reasoner interface {
	// AddEvent registers a single event. Events without timestamps are
	// parsed when a parser collaborator is configured; a parse miss is not
	// an error, the event simply joins no timestamp-derived constraints.
	AddEvent(ctx context.Context, event types.Event) error

	// AddTemporalRelation asserts a qualitative relation between two
	// events and propagates it one hop through the network.
	AddTemporalRelation(event1, event2 types.EventID, relation allen.Relation, confidence float64) ([]network.Inference, error)

	// ReasonAboutEvents ingests a batch of events, derives ground-truth
	// relations between all timestamped pairs, and runs one propagation
	// pass over the result.
	ReasonAboutEvents(ctx context.Context, events []types.Event) (*types.ReasoningResult, error)

	// OrderEvents derives a total order over the given events from the
	// network's before/meets relations.
	OrderEvents(ids []types.EventID) []types.EventID

	// InferRelations returns the set of relations still admissible between
	// two events: a stored constraint yields a singleton, otherwise the
	// transitive closure of the network decides.
	InferRelations(event1, event2 types.EventID) (allen.RelationSet, bool)

	// AddTemporalFact records an immutable fact with a validity interval.
	AddTemporalFact(ctx context.Context, fact *types.TemporalFact) (*types.TemporalFact, error)

	// GetFactsAtTime returns the subject's facts whose validity interval
	// contains t. Missing bounds extend to the infinite past or future.
	GetFactsAtTime(subject types.EventID, t time.Time) []*types.TemporalFact

	// GetCurrentFacts returns the subject's facts valid now.
	GetCurrentFacts(subject types.EventID) []*types.TemporalFact

	// ValidateConsistency runs a propagation pass and returns the
	// accumulated inconsistencies. It never repairs them.
	ValidateConsistency() []network.Inconsistency

	// Constraints returns every stored constraint, asserted and inferred.
	Constraints() []network.Constraint

	// Inferences returns every recorded inference.
	Inferences() []network.Inference

	// Inconsistencies returns the recorded inconsistencies without
	// triggering a new propagation pass.
	Inconsistencies() []network.Inconsistency

	// Close releases collaborator resources.
	Close(ctx context.Context) error
}

// Config holds configuration for the reasoning client.
type Config struct {
	// Epsilon is the equality tolerance for endpoint comparisons.
	// Zero selects DefaultEpsilon.
	Epsilon time.Duration

	// MinConfidence floors inferred confidences; see network.Config.
	MinConfidence float64
}

// Client is the engine's implementation of Reasoner. Mutations are
// serialized by an internal lock; read queries share it.
type Client struct {
	mu sync.RWMutex

	net    *network.Network
	parser parser.Parser
	store  factstore.Store

	events   map[types.EventID]types.Event
	timeConf map[types.EventID]float64
	facts    map[types.EventID][]*types.TemporalFact
	epsilon  time.Duration
	logger   *slog.Logger
	nowFunc  func() time.Time
}

var _ Reasoner = (*Client)(nil)

// NewClient creates a reasoning client. The parser and store collaborators
// are optional and may be nil; a nil config selects defaults and a nil
// logger selects slog.Default().
func NewClient(p parser.Parser, store factstore.Store, config *Config, logger *slog.Logger) (*Client, error) {
	if config == nil {
		config = &Config{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	epsilon := config.Epsilon
	if epsilon <= 0 {
		epsilon = DefaultEpsilon
	}

	return &Client{
		net:      network.New(network.Config{MinConfidence: config.MinConfidence}, logger),
		parser:   p,
		store:    store,
		events:   make(map[types.EventID]types.Event),
		timeConf: make(map[types.EventID]float64),
		facts:    make(map[types.EventID][]*types.TemporalFact),
		epsilon:  epsilon,
		logger:   logger,
		nowFunc:  time.Now,
	}, nil
}

// Network returns the underlying constraint network. Callers must respect
// the single-writer model when using it directly.
func (c *Client) Network() *network.Network {
	return c.net
}

// Events returns every registered event, keyed by ID.
func (c *Client) Events() map[types.EventID]types.Event {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[types.EventID]types.Event, len(c.events))
	for id, e := range c.events {
		out[id] = e
	}
	return out
}

// Constraints returns all stored constraints.
func (c *Client) Constraints() []network.Constraint {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.net.Constraints()
}

// Inferences returns every recorded inference.
func (c *Client) Inferences() []network.Inference {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.net.Inferred()
}

// Inconsistencies returns every recorded inconsistency without triggering
// a new propagation pass.
func (c *Client) Inconsistencies() []network.Inconsistency {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.net.Inconsistencies()
}

// Close implements Reasoner.
func (c *Client) Close(context.Context) error {
	if c.store != nil {
		return c.store.Close()
	}
	return nil
}
