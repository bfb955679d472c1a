package tempograph

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/tempograph/tempograph/pkg/types"
)

// AddTemporalFact implements Reasoner. Facts are append-only: a new
// assertion about the same subject and predicate never rewrites an older
// one, the two coexist with their own validity intervals. The stored copy
// is returned with its ID and creation time filled in.
func (c *Client) AddTemporalFact(ctx context.Context, fact *types.TemporalFact) (*types.TemporalFact, error) {
	if fact == nil {
		return nil, types.ErrEmptySubject
	}
	if err := fact.Validate(); err != nil {
		return nil, err
	}

	stored := *fact
	if stored.ID == "" {
		stored.ID = uuid.New().String()
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = c.nowFunc()
	}
	c.facts[stored.Subject] = append(c.facts[stored.Subject], &stored)

	if c.store != nil {
		if err := c.store.SaveFact(ctx, &stored); err != nil {
			c.logger.Warn("persisting fact failed",
				"fact", stored.ID, "subject", string(stored.Subject), "error", err)
		}
	}

	out := stored
	return &out, nil
}

// GetFactsAtTime implements Reasoner. An open ValidFrom extends to the
// infinite past and an open ValidTo to the infinite future.
func (c *Client) GetFactsAtTime(subject types.EventID, t time.Time) []*types.TemporalFact {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var out []*types.TemporalFact
	for _, fact := range c.facts[subject] {
		if fact.ValidAt(t) {
			copied := *fact
			out = append(out, &copied)
		}
	}
	return out
}

// GetCurrentFacts implements Reasoner.
func (c *Client) GetCurrentFacts(subject types.EventID) []*types.TemporalFact {
	return c.GetFactsAtTime(subject, c.nowFunc())
}
