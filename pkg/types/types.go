package types

import (
	"errors"
	"math"
	"time"
)

// Validation errors
var (
	ErrEmptyEventID      = errors.New("event id cannot be empty")
	ErrEmptySubject      = errors.New("subject cannot be empty")
	ErrEmptyPredicate    = errors.New("predicate cannot be empty")
	ErrInvalidConfidence = errors.New("confidence must be a number in [0, 1]")
	ErrInvalidInterval   = errors.New("interval end cannot precede its start")
	ErrSameEvent         = errors.New("constraint endpoints must be distinct events")
)

// ContextKey is the type for context values carried through the engine.
type ContextKey string

const (
	// ContextKeyRequestID identifies the originating request in logs and telemetry.
	ContextKeyRequestID ContextKey = "request_id"
	// ContextKeyRequestSource identifies the ingestion surface (server, cli, library).
	ContextKeyRequestSource ContextKey = "request_source"
)

// EventID is an opaque identifier for an event known to the engine.
type EventID string

// Event is a named occurrence in time. Start and End are optional: events
// whose text has not resolved to concrete timestamps participate only in
// explicitly asserted constraints.
type Event struct {
	ID          EventID    `json:"id" mapstructure:"id"`
	Description string     `json:"description,omitempty" mapstructure:"description"`
	Start       *time.Time `json:"start,omitempty" mapstructure:"start"`
	End         *time.Time `json:"end,omitempty" mapstructure:"end"`
}

// Validate checks the Event's required fields and interval sanity.
func (e *Event) Validate() error {
	if e.ID == "" {
		return ErrEmptyEventID
	}
	if e.Start != nil && e.End != nil && e.End.Before(*e.Start) {
		return ErrInvalidInterval
	}
	return nil
}

// Timestamped reports whether the event has a concrete interval. An event
// with only a start is treated as an instant.
func (e *Event) Timestamped() bool {
	return e.Start != nil
}

// Interval returns the event's concrete interval. A missing end collapses
// the interval to an instant at the start.
func (e *Event) Interval() (start, end time.Time, ok bool) {
	if e.Start == nil {
		return time.Time{}, time.Time{}, false
	}
	start = *e.Start
	end = start
	if e.End != nil {
		end = *e.End
	}
	return start, end, true
}

// ValidConfidence reports whether c is a usable confidence value.
func ValidConfidence(c float64) bool {
	return !math.IsNaN(c) && c >= 0 && c <= 1
}

// TemporalFact is an assertion about a subject that holds over a validity
// interval. Facts are immutable once created: updates supersede them with
// new facts, and they are never deleted.
type TemporalFact struct {
	ID         string     `json:"id" mapstructure:"id"`
	Subject    EventID    `json:"subject" mapstructure:"subject"`
	Predicate  string     `json:"predicate" mapstructure:"predicate"`
	Object     string     `json:"object" mapstructure:"object"`
	ValidFrom  *time.Time `json:"valid_from,omitempty" mapstructure:"valid_from"`
	ValidTo    *time.Time `json:"valid_to,omitempty" mapstructure:"valid_to"`
	Confidence float64    `json:"confidence" mapstructure:"confidence"`
	SourceIDs  []string   `json:"source_ids,omitempty" mapstructure:"source_ids"`
	CreatedAt  time.Time  `json:"created_at" mapstructure:"created_at"`
}

// Validate checks the TemporalFact's required fields.
func (f *TemporalFact) Validate() error {
	if f.Subject == "" {
		return ErrEmptySubject
	}
	if f.Predicate == "" {
		return ErrEmptyPredicate
	}
	if !ValidConfidence(f.Confidence) {
		return ErrInvalidConfidence
	}
	if f.ValidFrom != nil && f.ValidTo != nil && f.ValidTo.Before(*f.ValidFrom) {
		return ErrInvalidInterval
	}
	return nil
}

// ValidAt reports whether the fact's validity interval contains t. Open
// bounds extend to the infinite past or future.
func (f *TemporalFact) ValidAt(t time.Time) bool {
	if f.ValidFrom != nil && t.Before(*f.ValidFrom) {
		return false
	}
	if f.ValidTo != nil && t.After(*f.ValidTo) {
		return false
	}
	return true
}

// ExpressionKind categorizes a parsed temporal expression.
type ExpressionKind string

const (
	// PointExpression is a single moment, such as a date.
	PointExpression ExpressionKind = "point"
	// IntervalExpression is a bounded span with a start and an end.
	IntervalExpression ExpressionKind = "interval"
	// RelativeExpression is anchored to the reference time, such as "yesterday".
	RelativeExpression ExpressionKind = "relative"
	// DurationExpression is an unanchored length of time.
	DurationExpression ExpressionKind = "duration"
)

// Expression is a temporal expression extracted from text by a parser
// collaborator. The engine consumes expressions and never produces them.
type Expression struct {
	Text       string         `json:"text"`
	Kind       ExpressionKind `json:"kind"`
	Start      *time.Time     `json:"start,omitempty"`
	End        *time.Time     `json:"end,omitempty"`
	Confidence float64        `json:"confidence"`
}

// ReasoningResult summarizes a bulk reasoning pass over a set of events.
type ReasoningResult struct {
	EventsIdentified     int `json:"events_identified"`
	ConstraintsAdded     int `json:"constraints_added"`
	InferencesMade       int `json:"inferences_made"`
	InconsistenciesFound int `json:"inconsistencies_found"`
}
