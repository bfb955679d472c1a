// Package allen implements Allen's interval algebra: the 13 qualitative
// relations between time intervals, closed under inversion and composition.
//
// The package provides the relation enumeration, the complete 13x13
// composition table, and deterministic classification of concrete
// timestamped intervals into exactly one relation.
package allen

import (
	"errors"
	"fmt"
	"strings"
)

// Relation is one of the 13 Allen interval relations. The relations are
// mutually exclusive and jointly exhaustive: any two intervals stand in
// exactly one of them.
type Relation uint8

const (
	// Before holds when the first interval ends strictly before the second starts.
	Before Relation = iota
	// After is the inverse of Before.
	After
	// Meets holds when the first interval ends exactly where the second starts.
	Meets
	// MetBy is the inverse of Meets.
	MetBy
	// Overlaps holds when the intervals overlap and the first starts earlier
	// and ends earlier.
	Overlaps
	// OverlappedBy is the inverse of Overlaps.
	OverlappedBy
	// Starts holds when both intervals start together and the first ends earlier.
	Starts
	// StartedBy is the inverse of Starts.
	StartedBy
	// Finishes holds when both intervals end together and the first starts later.
	Finishes
	// FinishedBy is the inverse of Finishes.
	FinishedBy
	// During holds when the first interval lies strictly inside the second.
	During
	// Contains is the inverse of During.
	Contains
	// Equals holds when both intervals share both endpoints. It is its own inverse.
	Equals

	// NumRelations is the size of the relation enumeration.
	NumRelations = 13
)

// ErrUnknownRelation is returned by ParseRelation for names outside the enumeration.
var ErrUnknownRelation = errors.New("unknown allen relation")

var relationNames = [NumRelations]string{
	"before",
	"after",
	"meets",
	"met_by",
	"overlaps",
	"overlapped_by",
	"starts",
	"started_by",
	"finishes",
	"finished_by",
	"during",
	"contains",
	"equals",
}

var inverses = [NumRelations]Relation{
	Before:       After,
	After:        Before,
	Meets:        MetBy,
	MetBy:        Meets,
	Overlaps:     OverlappedBy,
	OverlappedBy: Overlaps,
	Starts:       StartedBy,
	StartedBy:    Starts,
	Finishes:     FinishedBy,
	FinishedBy:   Finishes,
	During:       Contains,
	Contains:     During,
	Equals:       Equals,
}

// String returns the canonical lower_snake name of the relation.
func (r Relation) String() string {
	if !r.Valid() {
		return fmt.Sprintf("relation(%d)", uint8(r))
	}
	return relationNames[r]
}

// Valid reports whether r is a member of the enumeration.
func (r Relation) Valid() bool {
	return r < NumRelations
}

// Inverse returns the relation that holds between the swapped pair of
// intervals. Inverse is an involution: r.Inverse().Inverse() == r.
// Out-of-range relations map to themselves.
func (r Relation) Inverse() Relation {
	if !r.Valid() {
		return r
	}
	return inverses[r]
}

// ParseRelation maps a relation name to its typed value. Names are matched
// case-insensitively and accept both "met_by" and "metby" spellings.
func ParseRelation(name string) (Relation, error) {
	normalized := strings.ToLower(strings.TrimSpace(name))
	normalized = strings.ReplaceAll(normalized, "-", "_")
	collapsed := strings.ReplaceAll(normalized, "_", "")
	for i, n := range relationNames {
		if normalized == n || collapsed == strings.ReplaceAll(n, "_", "") {
			return Relation(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownRelation, name)
}

// AllRelations returns the 13 relations in enumeration order.
func AllRelations() []Relation {
	out := make([]Relation, NumRelations)
	for i := range out {
		out[i] = Relation(i)
	}
	return out
}

// MarshalText implements encoding.TextMarshaler.
func (r Relation) MarshalText() ([]byte, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("%w: value %d", ErrUnknownRelation, uint8(r))
	}
	return []byte(r.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *Relation) UnmarshalText(text []byte) error {
	parsed, err := ParseRelation(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}
