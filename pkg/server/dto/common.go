package dto

import (
	"github.com/tempograph/tempograph/pkg/allen"
	"github.com/tempograph/tempograph/pkg/network"
	"github.com/tempograph/tempograph/pkg/types"
)

// Result represents a generic API result
type Result struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code,omitempty"`
}

// ConstraintView is the wire representation of a network constraint
type ConstraintView struct {
	Event1     string  `json:"event1"`
	Event2     string  `json:"event2"`
	Relation   string  `json:"relation"`
	Confidence float64 `json:"confidence"`
	Provenance string  `json:"provenance"`
}

// InferenceView is the wire representation of an inference
type InferenceView struct {
	Event1     string   `json:"event1"`
	Event2     string   `json:"event2"`
	Possible   []string `json:"possible"`
	Path       []string `json:"path,omitempty"`
	Confidence float64  `json:"confidence"`
}

// InconsistencyView is the wire representation of an inconsistency
type InconsistencyView struct {
	Constraint  ConstraintView `json:"constraint"`
	Inferred    InferenceView  `json:"inferred"`
	Explanation string         `json:"explanation"`
}

// NewConstraintView converts a network constraint for the wire
func NewConstraintView(c network.Constraint) ConstraintView {
	return ConstraintView{
		Event1:     string(c.Event1),
		Event2:     string(c.Event2),
		Relation:   c.Relation.String(),
		Confidence: c.Confidence,
		Provenance: string(c.Provenance),
	}
}

// NewInferenceView converts a network inference for the wire
func NewInferenceView(inf network.Inference) InferenceView {
	path := make([]string, len(inf.Path))
	for i, id := range inf.Path {
		path[i] = string(id)
	}
	return InferenceView{
		Event1:     string(inf.Event1),
		Event2:     string(inf.Event2),
		Possible:   RelationNames(inf.Possible),
		Path:       path,
		Confidence: inf.Confidence,
	}
}

// NewInferenceViews converts a slice of inferences for the wire
func NewInferenceViews(infs []network.Inference) []InferenceView {
	out := make([]InferenceView, len(infs))
	for i, inf := range infs {
		out[i] = NewInferenceView(inf)
	}
	return out
}

// NewInconsistencyView converts a network inconsistency for the wire
func NewInconsistencyView(inc network.Inconsistency) InconsistencyView {
	return InconsistencyView{
		Constraint:  NewConstraintView(inc.Constraint),
		Inferred:    NewInferenceView(inc.Inferred),
		Explanation: inc.Explanation,
	}
}

// RelationNames renders a relation set as a sorted name slice
func RelationNames(set allen.RelationSet) []string {
	relations := set.Relations()
	out := make([]string, len(relations))
	for i, r := range relations {
		out[i] = r.String()
	}
	return out
}

// EventIDs converts a string slice to event identifiers
func EventIDs(ids []string) []types.EventID {
	out := make([]types.EventID, len(ids))
	for i, id := range ids {
		out[i] = types.EventID(id)
	}
	return out
}
