package network

import (
	"log/slog"
	"sort"

	"github.com/tempograph/tempograph/pkg/allen"
	"github.com/tempograph/tempograph/pkg/types"
)

// DefaultMinConfidence is the floor applied to inferred confidences so that
// long composition chains do not vanish to zero.
const DefaultMinConfidence = 0.1

// Config holds tunables for the constraint network.
type Config struct {
	// MinConfidence floors the confidence of inferred constraints.
	// Zero selects DefaultMinConfidence.
	MinConfidence float64
}

type inferenceKey struct {
	event1   types.EventID
	event2   types.EventID
	possible allen.RelationSet
}

type conflictKey struct {
	event1   types.EventID
	event2   types.EventID
	relation allen.Relation
	possible allen.RelationSet
}

// Network is a mutable constraint graph over event identifiers. It is not
// safe for concurrent mutation: callers serialize AddConstraint and
// Propagate, per the single-writer model of the engine.
type Network struct {
	constraints     map[Pair]Constraint
	events          map[types.EventID]struct{}
	inferred        []Inference
	inconsistencies []Inconsistency
	seenInferences  map[inferenceKey]struct{}
	seenConflicts   map[conflictKey]struct{}
	minConfidence   float64
	logger          *slog.Logger
}

// New creates an empty constraint network.
func New(cfg Config, logger *slog.Logger) *Network {
	if logger == nil {
		logger = slog.Default()
	}
	minConfidence := cfg.MinConfidence
	if minConfidence <= 0 {
		minConfidence = DefaultMinConfidence
	}
	return &Network{
		constraints:    make(map[Pair]Constraint),
		events:         make(map[types.EventID]struct{}),
		seenInferences: make(map[inferenceKey]struct{}),
		seenConflicts:  make(map[conflictKey]struct{}),
		minConfidence:  minConfidence,
		logger:         logger,
	}
}

// AddConstraint stores c together with its mirrored inverse. When propagate
// is true it runs one-hop propagation restricted to the two endpoints of c
// and returns the inferences that pass produced. Contradictions with
// existing constraints are recorded as inconsistencies, never returned as
// errors; an error is returned only for invalid input.
func (n *Network) AddConstraint(c Constraint, propagate bool) ([]Inference, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	key := Pair{c.Event1, c.Event2}
	if existing, ok := n.constraints[key]; ok {
		if existing.Relation != c.Relation {
			inf := Inference{
				Event1:     c.Event1,
				Event2:     c.Event2,
				Possible:   allen.NewRelationSet(c.Relation),
				Path:       []types.EventID{c.Event1, c.Event2},
				Confidence: c.Confidence,
			}
			n.recordInconsistency(existing, inf)
			return nil, nil
		}
		// Re-assertion of the same relation keeps the stronger claim.
		if c.Confidence > existing.Confidence {
			n.store(c)
		}
		return nil, nil
	}

	n.store(c)
	n.logger.Debug("constraint added",
		"event1", string(c.Event1),
		"event2", string(c.Event2),
		"relation", c.Relation.String(),
		"propagate", propagate)

	if !propagate {
		return nil, nil
	}
	inferences := n.propagateThrough(c.Event1)
	inferences = append(inferences, n.propagateThrough(c.Event2)...)
	return inferences, nil
}

// store writes a constraint and its mirror, registering both endpoints.
func (n *Network) store(c Constraint) {
	n.constraints[Pair{c.Event1, c.Event2}] = c
	inv := c.Inverse()
	n.constraints[Pair{inv.Event1, inv.Event2}] = inv
	n.events[c.Event1] = struct{}{}
	n.events[c.Event2] = struct{}{}
}

// Propagate runs one composition pass through every event as the midpoint
// and returns the inferences the pass produced. The pass is idempotent:
// results already recorded are not reported again.
func (n *Network) Propagate() []Inference {
	var out []Inference
	for _, mid := range n.EventIDs() {
		out = append(out, n.propagateThrough(mid)...)
	}
	return out
}

// propagateThrough composes every pair of constraints a->mid and mid->c.
// A composition that excludes an existing constraint records an
// inconsistency; a determinate composition with no existing constraint is
// promoted to an inferred constraint; anything else is recorded as a
// possible-relation inference.
func (n *Network) propagateThrough(mid types.EventID) []Inference {
	incoming := n.constraintsInto(mid)
	outgoing := n.constraintsFrom(mid)

	var out []Inference
	for _, ab := range incoming {
		for _, bc := range outgoing {
			a, c := ab.Event1, bc.Event2
			if a == c || a == mid || c == mid {
				continue
			}

			possible := allen.Compose(ab.Relation, bc.Relation)
			confidence := ab.Confidence * bc.Confidence
			if confidence < n.minConfidence {
				confidence = n.minConfidence
			}
			inf := Inference{
				Event1:     a,
				Event2:     c,
				Possible:   possible,
				Path:       []types.EventID{a, mid, c},
				Confidence: confidence,
			}

			if existing, ok := n.constraints[Pair{a, c}]; ok {
				if !possible.Has(existing.Relation) {
					n.recordInconsistency(existing, inf)
				}
				continue
			}

			key := inferenceKey{a, c, possible}
			if _, seen := n.seenInferences[key]; seen {
				continue
			}
			n.seenInferences[key] = struct{}{}

			if relation, determinate := possible.Single(); determinate {
				n.store(Constraint{
					Event1:     a,
					Event2:     c,
					Relation:   relation,
					Confidence: confidence,
					Provenance: ProvenanceInferred,
				})
				n.logger.Debug("determinate inference promoted",
					"event1", string(a),
					"event2", string(c),
					"relation", relation.String())
			}
			n.inferred = append(n.inferred, inf)
			out = append(out, inf)
		}
	}
	return out
}

func (n *Network) recordInconsistency(existing Constraint, inf Inference) {
	key := conflictKey{existing.Event1, existing.Event2, existing.Relation, inf.Possible}
	if _, seen := n.seenConflicts[key]; seen {
		return
	}
	n.seenConflicts[key] = struct{}{}
	inc := newInconsistency(existing, inf)
	n.inconsistencies = append(n.inconsistencies, inc)
	n.logger.Warn("temporal inconsistency detected", "explanation", inc.Explanation)
}

// constraintsInto returns constraints ending at mid, in deterministic order.
func (n *Network) constraintsInto(mid types.EventID) []Constraint {
	var out []Constraint
	for key, c := range n.constraints {
		if key.Event2 == mid {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Event1 < out[j].Event1 })
	return out
}

// constraintsFrom returns constraints starting at mid, in deterministic order.
func (n *Network) constraintsFrom(mid types.EventID) []Constraint {
	var out []Constraint
	for key, c := range n.constraints {
		if key.Event1 == mid {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Event2 < out[j].Event2 })
	return out
}

// TransitiveClosure computes the fixed point of composition over all known
// triples: for every ordered pair the set of relations still admissible.
// The computation is cubic in the number of events per iteration and is
// meant for audits and tests; incremental propagation serves the hot path.
// A pair whose set became empty is irreconcilable with the stored
// constraints.
func (n *Network) TransitiveClosure() map[Pair]allen.RelationSet {
	sets := make(map[Pair]allen.RelationSet, len(n.constraints))
	for key, c := range n.constraints {
		sets[key] = allen.NewRelationSet(c.Relation)
	}

	events := n.EventIDs()
	for changed := true; changed; {
		changed = false
		for _, a := range events {
			for _, b := range events {
				if a == b {
					continue
				}
				sab, ok := sets[Pair{a, b}]
				if !ok || sab.Empty() {
					continue
				}
				for _, c := range events {
					if c == a || c == b {
						continue
					}
					sbc, ok := sets[Pair{b, c}]
					if !ok || sbc.Empty() {
						continue
					}
					composed := allen.ComposeSets(sab, sbc)
					current, ok := sets[Pair{a, c}]
					next := composed
					if ok {
						next = current.Intersect(composed)
					}
					if !ok || next != current {
						sets[Pair{a, c}] = next
						sets[Pair{c, a}] = next.Inverse()
						changed = true
					}
				}
			}
		}
	}
	return sets
}

// Constraint returns the stored constraint between two events, if any.
func (n *Network) Constraint(event1, event2 types.EventID) (Constraint, bool) {
	c, ok := n.constraints[Pair{event1, event2}]
	return c, ok
}

// Constraints returns all stored constraints (both directions of every
// mirrored pair), sorted for deterministic iteration.
func (n *Network) Constraints() []Constraint {
	out := make([]Constraint, 0, len(n.constraints))
	for _, c := range n.constraints {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Event1 != out[j].Event1 {
			return out[i].Event1 < out[j].Event1
		}
		return out[i].Event2 < out[j].Event2
	})
	return out
}

// Inferred returns every recorded inference.
func (n *Network) Inferred() []Inference {
	out := make([]Inference, len(n.inferred))
	copy(out, n.inferred)
	return out
}

// Inconsistencies returns every recorded inconsistency.
func (n *Network) Inconsistencies() []Inconsistency {
	out := make([]Inconsistency, len(n.inconsistencies))
	copy(out, n.inconsistencies)
	return out
}

// Consistent reports whether the network has recorded no inconsistencies.
func (n *Network) Consistent() bool {
	return len(n.inconsistencies) == 0
}

// EventIDs returns all known events in sorted order.
func (n *Network) EventIDs() []types.EventID {
	out := make([]types.EventID, 0, len(n.events))
	for id := range n.events {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// EventCount returns the number of events the network has seen.
func (n *Network) EventCount() int {
	return len(n.events)
}
