// Package tempograph provides a temporal constraint reasoning engine for Go.
//
// Tempograph implements Allen's interval algebra over a constraint network
// of named events: callers assert qualitative relations ("the deploy
// happened before the outage") or concrete timestamps, and the engine
// propagates relations through composition, detects contradictions, and
// answers ordering and fact-validity queries.
//
// # Basic Usage
//
// Create a client, feed it events, and query:
//
//	client, err := tempograph.NewClient(nil, nil, nil, nil)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	start1 := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
//	end1 := time.Date(2020, 1, 10, 0, 0, 0, 0, time.UTC)
//	start2 := end1
//	end2 := time.Date(2020, 1, 20, 0, 0, 0, 0, time.UTC)
//
//	result, err := client.ReasonAboutEvents(ctx, []types.Event{
//		{ID: "sprint-1", Start: &start1, End: &end1},
//		{ID: "sprint-2", Start: &start2, End: &end2},
//	})
//
//	ordered := client.OrderEvents([]types.EventID{"sprint-2", "sprint-1"})
//
// # Relations and Inference
//
// Qualitative relations may be asserted directly:
//
//	inferences, err := client.AddTemporalRelation("a", "b", allen.Before, 0.9)
//
// Each insertion propagates one hop through the network; a composition
// whose possible-relation set has exactly one member is promoted to a
// stored constraint automatically. Contradictions are recorded as
// Inconsistency values and surfaced by ValidateConsistency; they are never
// returned as errors, because contradictory source claims are expected
// input.
//
// # Facts
//
// Temporal facts carry a validity interval and answer "what was true when":
//
//	fact, err := client.AddTemporalFact(ctx, &types.TemporalFact{
//		Subject:    "alice",
//		Predicate:  "works_at",
//		Object:     "acme",
//		ValidFrom:  &hired,
//		Confidence: 0.95,
//	})
//	active := client.GetFactsAtTime("alice", someday)
//
// Facts are immutable once created; updates add new facts and queries
// filter by timestamp.
//
// # Collaborators
//
// Two optional collaborators plug in at construction: a parser.Parser that
// resolves natural-language dates for events lacking timestamps, and a
// factstore.Store that persists facts and asserted constraints. The engine
// works without either.
//
// # Concurrency
//
// The engine follows a single-writer model: mutating calls are serialized
// internally, and read-only queries may run concurrently with each other
// but share the same lock. All operations are synchronous and in-memory.
package tempograph
