package tempograph

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/tempograph/tempograph/pkg/allen"
	"github.com/tempograph/tempograph/pkg/network"
	"github.com/tempograph/tempograph/pkg/parser"
	"github.com/tempograph/tempograph/pkg/types"
	"github.com/tempograph/tempograph/pkg/utils"
)

// AddEvent implements Reasoner. The event is resolved against the parser
// when it lacks timestamps, then related to every other timestamped event
// with incremental propagation.
func (c *Client) AddEvent(ctx context.Context, event types.Event) error {
	if err := event.Validate(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	resolved, confidence := c.resolveTimestamps(ctx, event)
	c.events[resolved.ID] = resolved
	if resolved.Timestamped() {
		c.timeConf[resolved.ID] = confidence
		c.seedGroundConstraints(resolved, true)
	}
	return nil
}

// AddTemporalRelation implements Reasoner.
func (c *Client) AddTemporalRelation(event1, event2 types.EventID, relation allen.Relation, confidence float64) ([]network.Inference, error) {
	constraint, err := network.NewConstraint(event1, event2, relation, confidence)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	inferences, err := c.net.AddConstraint(constraint, true)
	if err != nil {
		return nil, err
	}
	c.persistConstraint(constraint)
	return inferences, nil
}

// ReasonAboutEvents implements Reasoner. Constraints between timestamped
// pairs are inserted in bulk without per-insertion propagation; a single
// trailing propagation pass amortizes the cost over the whole batch.
func (c *Client) ReasonAboutEvents(ctx context.Context, events []types.Event) (*types.ReasoningResult, error) {
	for i := range events {
		if err := events[i].Validate(); err != nil {
			return nil, fmt.Errorf("event %s: %w", events[i].ID, err)
		}
	}

	// Timestamp resolution can hit a remote parser, so it runs outside
	// the lock with bounded concurrency.
	type resolution struct {
		event      types.Event
		confidence float64
	}
	fns := make([]func() (resolution, error), len(events))
	for i, event := range events {
		event := event
		fns[i] = func() (resolution, error) {
			resolved, confidence := c.resolveTimestamps(ctx, event)
			return resolution{event: resolved, confidence: confidence}, nil
		}
	}
	resolutions, errs := utils.ExecuteWithResults(ctx, 0, fns...)
	for _, err := range errs {
		if err == nil {
			continue
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("resolving timestamps: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	result := &types.ReasoningResult{}
	inconsistenciesBefore := len(c.net.Inconsistencies())

	for _, r := range resolutions {
		if r.event.ID == "" {
			continue
		}
		c.events[r.event.ID] = r.event
		if r.event.Timestamped() {
			c.timeConf[r.event.ID] = r.confidence
			result.EventsIdentified++
		}
	}

	// Bulk mode: seed every timestamped pair without propagating, then run
	// one pass at the end.
	ids := c.timestampedEventIDs()
	for i := 0; i < len(ids); i++ {
		for j := i + 1; j < len(ids); j++ {
			if c.seedGroundPair(c.events[ids[i]], c.events[ids[j]], false) {
				result.ConstraintsAdded++
			}
		}
	}

	inferences := c.net.Propagate()
	result.InferencesMade = len(inferences)
	result.InconsistenciesFound = len(c.net.Inconsistencies()) - inconsistenciesBefore

	c.logger.Info("reasoning pass complete",
		"events", result.EventsIdentified,
		"constraints", result.ConstraintsAdded,
		"inferences", result.InferencesMade,
		"inconsistencies", result.InconsistenciesFound)
	return result, nil
}

// resolveTimestamps fills missing endpoints from the parser collaborator.
// A parse miss or parser failure leaves the event untimestamped; that is a
// recoverable condition, not an error.
func (c *Client) resolveTimestamps(ctx context.Context, event types.Event) (types.Event, float64) {
	if event.Timestamped() {
		return event, 1.0
	}
	if c.parser == nil || event.Description == "" {
		return event, 0
	}

	expressions, err := c.parser.Parse(ctx, event.Description)
	if err != nil {
		c.logger.Warn("parser collaborator failed, continuing without timestamps",
			"event", string(event.ID), "error", err)
		return event, 0
	}
	best, ok := parser.BestExpression(expressions)
	if !ok {
		c.logger.Debug("no temporal expression in event text", "event", string(event.ID))
		return event, 0
	}

	event.Start = best.Start
	event.End = best.End
	return event, best.Confidence
}

// seedGroundConstraints relates a timestamped event to every other
// timestamped event.
func (c *Client) seedGroundConstraints(event types.Event, propagate bool) {
	for _, id := range c.timestampedEventIDs() {
		if id == event.ID {
			continue
		}
		c.seedGroundPair(event, c.events[id], propagate)
	}
}

// seedGroundPair classifies a pair of timestamped intervals and stores the
// resulting constraint. Returns true when a new constraint was stored.
func (c *Client) seedGroundPair(e1, e2 types.Event, propagate bool) bool {
	s1, end1, ok1 := e1.Interval()
	s2, end2, ok2 := e2.Interval()
	if !ok1 || !ok2 {
		return false
	}
	if _, exists := c.net.Constraint(e1.ID, e2.ID); exists {
		return false
	}

	relation := allen.FromTimestamps(s1, end1, s2, end2, c.epsilon)
	confidence := c.groundConfidence(e1.ID) * c.groundConfidence(e2.ID)
	constraint := network.Constraint{
		Event1:     e1.ID,
		Event2:     e2.ID,
		Relation:   relation,
		Confidence: confidence,
		Provenance: network.ProvenanceAsserted,
	}
	if _, err := c.net.AddConstraint(constraint, propagate); err != nil {
		// Only invalid input reaches here; ground constraints are built
		// from validated events.
		c.logger.Warn("dropping ground constraint", "error", err)
		return false
	}
	c.persistConstraint(constraint)
	return true
}

// timestampedEventIDs returns the IDs of every event with a resolved
// interval, sorted for deterministic pairing.
func (c *Client) timestampedEventIDs() []types.EventID {
	ids := make([]types.EventID, 0, len(c.events))
	for id, e := range c.events {
		if e.Timestamped() {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (c *Client) groundConfidence(id types.EventID) float64 {
	if conf, ok := c.timeConf[id]; ok && conf > 0 {
		return conf
	}
	return 1.0
}

// OrderEvents implements Reasoner. Each event is ranked by how many other
// events of the set come before or meet it; events with no relation to any
// other in the set keep their input position at the end of the order.
func (c *Client) OrderEvents(ids []types.EventID) []types.EventID {
	c.mu.RLock()
	defer c.mu.RUnlock()

	type ranked struct {
		id      types.EventID
		index   int
		count   int
		related bool
	}

	rankings := make([]ranked, len(ids))
	for i, id := range ids {
		r := ranked{id: id, index: i}
		for _, other := range ids {
			if other == id {
				continue
			}
			constraint, ok := c.net.Constraint(other, id)
			if !ok {
				continue
			}
			r.related = true
			if constraint.Relation == allen.Before || constraint.Relation == allen.Meets {
				r.count++
			}
		}
		rankings[i] = r
	}

	sort.SliceStable(rankings, func(i, j int) bool {
		if rankings[i].related != rankings[j].related {
			return rankings[i].related
		}
		if rankings[i].count != rankings[j].count {
			return rankings[i].count < rankings[j].count
		}
		return rankings[i].index < rankings[j].index
	})

	out := make([]types.EventID, len(rankings))
	for i, r := range rankings {
		out[i] = r.id
	}
	return out
}

// InferRelations implements Reasoner.
func (c *Client) InferRelations(event1, event2 types.EventID) (allen.RelationSet, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if constraint, ok := c.net.Constraint(event1, event2); ok {
		return allen.NewRelationSet(constraint.Relation), true
	}
	closure := c.net.TransitiveClosure()
	set, ok := closure[network.Pair{Event1: event1, Event2: event2}]
	if !ok {
		return allen.RelationSet(0), false
	}
	return set, true
}

// ValidateConsistency implements Reasoner.
func (c *Client) ValidateConsistency() []network.Inconsistency {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.net.Propagate()
	return c.net.Inconsistencies()
}

// persistConstraint snapshots an asserted constraint into the store
// collaborator. Store failures are logged, not propagated: persistence is
// an auxiliary concern of this engine.
func (c *Client) persistConstraint(constraint network.Constraint) {
	if c.store == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := c.store.SaveConstraint(ctx, constraint); err != nil {
		c.logger.Warn("persisting constraint failed", "error", err)
	}
}
