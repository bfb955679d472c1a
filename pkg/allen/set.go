package allen

import (
	"encoding/json"
	"math/bits"
	"strings"
)

// RelationSet is a set of Allen relations packed into a bitmask. The zero
// value is the empty set.
type RelationSet uint16

const fullMask = RelationSet(1<<NumRelations - 1)

// NewRelationSet builds a set from the given relations.
func NewRelationSet(relations ...Relation) RelationSet {
	var s RelationSet
	for _, r := range relations {
		s = s.Add(r)
	}
	return s
}

// FullSet returns the set of all 13 relations.
func FullSet() RelationSet {
	return fullMask
}

// Add returns the set with r included.
func (s RelationSet) Add(r Relation) RelationSet {
	return s | 1<<r
}

// Has reports whether r is a member of the set.
func (s RelationSet) Has(r Relation) bool {
	return s&(1<<r) != 0
}

// Union returns the union of both sets.
func (s RelationSet) Union(other RelationSet) RelationSet {
	return s | other
}

// Intersect returns the intersection of both sets.
func (s RelationSet) Intersect(other RelationSet) RelationSet {
	return s & other
}

// Len returns the number of relations in the set.
func (s RelationSet) Len() int {
	return bits.OnesCount16(uint16(s))
}

// Empty reports whether the set has no members.
func (s RelationSet) Empty() bool {
	return s == 0
}

// Single returns the sole member of a singleton set. ok is false when the
// set does not have exactly one member.
func (s RelationSet) Single() (r Relation, ok bool) {
	if s.Len() != 1 {
		return 0, false
	}
	return Relation(bits.TrailingZeros16(uint16(s))), true
}

// Inverse returns the set of inverses of every member. Applied to a
// composition result it yields the composition along the reversed path.
func (s RelationSet) Inverse() RelationSet {
	var out RelationSet
	for r := Relation(0); r < NumRelations; r++ {
		if s.Has(r) {
			out = out.Add(r.Inverse())
		}
	}
	return out
}

// Relations returns the members in enumeration order.
func (s RelationSet) Relations() []Relation {
	out := make([]Relation, 0, s.Len())
	for r := Relation(0); r < NumRelations; r++ {
		if s.Has(r) {
			out = append(out, r)
		}
	}
	return out
}

// MarshalJSON encodes the set as an array of relation names.
func (s RelationSet) MarshalJSON() ([]byte, error) {
	names := make([]string, 0, s.Len())
	for _, r := range s.Relations() {
		names = append(names, r.String())
	}
	return json.Marshal(names)
}

// UnmarshalJSON decodes an array of relation names.
func (s *RelationSet) UnmarshalJSON(data []byte) error {
	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		return err
	}
	var out RelationSet
	for _, name := range names {
		r, err := ParseRelation(name)
		if err != nil {
			return err
		}
		out = out.Add(r)
	}
	*s = out
	return nil
}

// String renders the set as a comma-separated list in braces.
func (s RelationSet) String() string {
	names := make([]string, 0, s.Len())
	for _, r := range s.Relations() {
		names = append(names, r.String())
	}
	return "{" + strings.Join(names, ", ") + "}"
}
