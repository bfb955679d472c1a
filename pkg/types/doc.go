// Package types defines the core data types shared across the tempograph
// reasoning engine.
//
// This package contains the fundamental types used throughout tempograph:
//   - Event: a named interval in time, possibly without known timestamps
//   - TemporalFact: a subject-predicate-object assertion with a validity interval
//   - Expression: a temporal expression produced by a parser collaborator
//   - ReasoningResult: the outcome of a bulk reasoning pass
//
// # Validation
//
// Types provide Validate() methods for input validation at the constructor
// boundary:
//
//	fact := &types.TemporalFact{Subject: "e1", Predicate: "works_at", Object: "acme"}
//	if err := fact.Validate(); err != nil {
//	    // Handle validation error
//	}
//
// # JSON Serialization
//
// All types are designed to be JSON-serializable with appropriate struct tags.
package types
