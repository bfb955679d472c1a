// Package network implements the temporal constraint network: a graph over
// event identifiers whose edges carry Allen relations. The network stores
// asserted and inferred constraints, propagates new information through
// relation composition, and records inconsistencies as data instead of
// rejecting contradictory input.
package network

import (
	"fmt"

	"github.com/tempograph/tempograph/pkg/allen"
	"github.com/tempograph/tempograph/pkg/types"
)

// Provenance records how a constraint entered the network.
type Provenance string

const (
	// ProvenanceAsserted marks constraints supplied by a caller.
	ProvenanceAsserted Provenance = "asserted"
	// ProvenanceInferred marks constraints promoted from determinate inferences.
	ProvenanceInferred Provenance = "inferred"
)

// Constraint relates two events by a single Allen relation. Every stored
// constraint implies the mirrored constraint for the swapped pair with the
// inverse relation; the network maintains both.
type Constraint struct {
	Event1     types.EventID  `json:"event1"`
	Event2     types.EventID  `json:"event2"`
	Relation   allen.Relation `json:"relation"`
	Confidence float64        `json:"confidence"`
	Provenance Provenance     `json:"provenance"`
}

// NewConstraint builds an asserted constraint, validating at the boundary.
func NewConstraint(event1, event2 types.EventID, relation allen.Relation, confidence float64) (Constraint, error) {
	c := Constraint{
		Event1:     event1,
		Event2:     event2,
		Relation:   relation,
		Confidence: confidence,
		Provenance: ProvenanceAsserted,
	}
	if err := c.Validate(); err != nil {
		return Constraint{}, err
	}
	return c, nil
}

// Validate checks endpoint identifiers, the relation and the confidence.
func (c Constraint) Validate() error {
	if c.Event1 == "" || c.Event2 == "" {
		return types.ErrEmptyEventID
	}
	if c.Event1 == c.Event2 {
		return types.ErrSameEvent
	}
	if !c.Relation.Valid() {
		return fmt.Errorf("%w: value %d", allen.ErrUnknownRelation, uint8(c.Relation))
	}
	if !types.ValidConfidence(c.Confidence) {
		return types.ErrInvalidConfidence
	}
	return nil
}

// Inverse returns the mirrored constraint for the swapped event pair.
func (c Constraint) Inverse() Constraint {
	return Constraint{
		Event1:     c.Event2,
		Event2:     c.Event1,
		Relation:   c.Relation.Inverse(),
		Confidence: c.Confidence,
		Provenance: c.Provenance,
	}
}

func (c Constraint) String() string {
	return fmt.Sprintf("%s %s %s (%.2f, %s)", c.Event1, c.Relation, c.Event2, c.Confidence, c.Provenance)
}

// Inference is the result of composing two constraints along a two-hop
// path. Possible is never empty; when it is a singleton the inference is
// determinate and eligible for promotion to a stored constraint.
type Inference struct {
	Event1     types.EventID     `json:"event1"`
	Event2     types.EventID     `json:"event2"`
	Possible   allen.RelationSet `json:"possible"`
	Path       []types.EventID   `json:"path"`
	Confidence float64           `json:"confidence"`
}

// Determinate reports whether the possible set has exactly one member.
func (i Inference) Determinate() bool {
	_, ok := i.Possible.Single()
	return ok
}

func (i Inference) String() string {
	return fmt.Sprintf("%s ? %s in %s via %v", i.Event1, i.Event2, i.Possible, i.Path)
}

// Inconsistency records a stored constraint whose relation falls outside
// the relation set composed along an alternative path. Inconsistencies are
// surfaced as data and never auto-resolved.
type Inconsistency struct {
	Constraint  Constraint `json:"constraint"`
	Inferred    Inference  `json:"inferred"`
	Explanation string     `json:"explanation"`
}

func newInconsistency(existing Constraint, inf Inference) Inconsistency {
	return Inconsistency{
		Constraint: existing,
		Inferred:   inf,
		Explanation: fmt.Sprintf(
			"constraint %s %s %s conflicts with composed set %s along path %v",
			existing.Event1, existing.Relation, existing.Event2, inf.Possible, inf.Path),
	}
}

// Pair is an ordered pair of events, the key of the closure map.
type Pair struct {
	Event1 types.EventID
	Event2 types.EventID
}
