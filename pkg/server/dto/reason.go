package dto

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tempograph/tempograph/pkg/types"
)

// Validation errors
var (
	ErrEmptyEvents      = errors.New("events cannot be empty")
	ErrEmptyEventID     = errors.New("event id cannot be empty")
	ErrEventIDTooLong   = errors.New("event id exceeds maximum length (256)")
	ErrTextTooLong      = errors.New("description exceeds maximum length (64KB)")
	ErrTooManyEvents    = errors.New("events count exceeds maximum (1000)")
	ErrEmptyRelation    = errors.New("relation cannot be empty")
	ErrBadConfidence    = errors.New("confidence must be between 0 and 1")
	ErrEmptySubject     = errors.New("subject cannot be empty")
	ErrEmptyPredicate   = errors.New("predicate cannot be empty")
	ErrInvalidTimeOrder = errors.New("valid_to precedes valid_from")
)

// Maximum field lengths to prevent abuse
const (
	MaxEventIDLength     = 256
	MaxDescriptionLength = 64 * 1024
	MaxEventsCount       = 1000
	MaxPredicateLength   = 1024
)

// EventPayload carries one event in a reasoning request
type EventPayload struct {
	ID          string     `json:"id" binding:"required"`
	Description string     `json:"description,omitempty"`
	Start       *time.Time `json:"start,omitempty"`
	End         *time.Time `json:"end,omitempty"`
}

// Validate performs validation on EventPayload
func (p *EventPayload) Validate() error {
	if strings.TrimSpace(p.ID) == "" {
		return ErrEmptyEventID
	}
	if len(p.ID) > MaxEventIDLength {
		return ErrEventIDTooLong
	}
	if len(p.Description) > MaxDescriptionLength {
		return ErrTextTooLong
	}
	return nil
}

// Event converts the payload to a domain event
func (p *EventPayload) Event() types.Event {
	return types.Event{
		ID:          types.EventID(p.ID),
		Description: p.Description,
		Start:       p.Start,
		End:         p.End,
	}
}

// ReasonRequest represents a request to reason about a batch of events
type ReasonRequest struct {
	Events []EventPayload `json:"events" binding:"required,dive"`
}

// Validate performs validation on ReasonRequest
func (r *ReasonRequest) Validate() error {
	if len(r.Events) == 0 {
		return ErrEmptyEvents
	}
	if len(r.Events) > MaxEventsCount {
		return ErrTooManyEvents
	}
	for i := range r.Events {
		if err := r.Events[i].Validate(); err != nil {
			return fmt.Errorf("event %d: %w", i, err)
		}
	}
	return nil
}

// AddRelationRequest represents a request to assert a relation
type AddRelationRequest struct {
	Event1     string   `json:"event1" binding:"required"`
	Event2     string   `json:"event2" binding:"required"`
	Relation   string   `json:"relation" binding:"required"`
	Confidence *float64 `json:"confidence,omitempty"`
}

// Validate performs validation on AddRelationRequest
func (r *AddRelationRequest) Validate() error {
	if strings.TrimSpace(r.Event1) == "" || strings.TrimSpace(r.Event2) == "" {
		return ErrEmptyEventID
	}
	if strings.TrimSpace(r.Relation) == "" {
		return ErrEmptyRelation
	}
	if r.Confidence != nil && (*r.Confidence < 0 || *r.Confidence > 1) {
		return ErrBadConfidence
	}
	return nil
}

// ConfidenceOrDefault returns the requested confidence, or 1 when absent.
func (r *AddRelationRequest) ConfidenceOrDefault() float64 {
	if r.Confidence != nil {
		return *r.Confidence
	}
	return 1.0
}

// OrderRequest represents a request to order events
type OrderRequest struct {
	Events []string `json:"events" binding:"required"`
}

// Validate performs validation on OrderRequest
func (r *OrderRequest) Validate() error {
	if len(r.Events) == 0 {
		return ErrEmptyEvents
	}
	if len(r.Events) > MaxEventsCount {
		return ErrTooManyEvents
	}
	for _, id := range r.Events {
		if strings.TrimSpace(id) == "" {
			return ErrEmptyEventID
		}
	}
	return nil
}

// AddFactRequest represents a request to record a temporal fact
type AddFactRequest struct {
	Subject    string     `json:"subject" binding:"required"`
	Predicate  string     `json:"predicate" binding:"required"`
	Object     string     `json:"object,omitempty"`
	ValidFrom  *time.Time `json:"valid_from,omitempty"`
	ValidTo    *time.Time `json:"valid_to,omitempty"`
	Confidence *float64   `json:"confidence,omitempty"`
	SourceIDs  []string   `json:"source_ids,omitempty"`
}

// Validate performs validation on AddFactRequest
func (r *AddFactRequest) Validate() error {
	if strings.TrimSpace(r.Subject) == "" {
		return ErrEmptySubject
	}
	if strings.TrimSpace(r.Predicate) == "" {
		return ErrEmptyPredicate
	}
	if len(r.Predicate) > MaxPredicateLength {
		return ErrTextTooLong
	}
	if r.Confidence != nil && (*r.Confidence < 0 || *r.Confidence > 1) {
		return ErrBadConfidence
	}
	if r.ValidFrom != nil && r.ValidTo != nil && r.ValidTo.Before(*r.ValidFrom) {
		return ErrInvalidTimeOrder
	}
	return nil
}

// Fact converts the request to a domain fact
func (r *AddFactRequest) Fact() *types.TemporalFact {
	confidence := 1.0
	if r.Confidence != nil {
		confidence = *r.Confidence
	}
	return &types.TemporalFact{
		Subject:    types.EventID(r.Subject),
		Predicate:  r.Predicate,
		Object:     r.Object,
		ValidFrom:  r.ValidFrom,
		ValidTo:    r.ValidTo,
		Confidence: confidence,
		SourceIDs:  r.SourceIDs,
	}
}

// ConsistencyResponse reports the network's consistency state
type ConsistencyResponse struct {
	Consistent      bool                `json:"consistent"`
	Inconsistencies []InconsistencyView `json:"inconsistencies"`
}
