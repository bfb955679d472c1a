package allen

import (
	"errors"
	"testing"
)

func TestInverseInvolution(t *testing.T) {
	for _, r := range AllRelations() {
		if got := r.Inverse().Inverse(); got != r {
			t.Errorf("Inverse(Inverse(%s)) = %s, want %s", r, got, r)
		}
	}
}

func TestInverseOutOfRange(t *testing.T) {
	bogus := Relation(200)
	if got := bogus.Inverse(); got != bogus {
		t.Errorf("Relation(200).Inverse() = %v, want identity", got)
	}
}

func TestInversePairs(t *testing.T) {
	tests := []struct {
		r    Relation
		want Relation
	}{
		{Before, After},
		{Meets, MetBy},
		{Overlaps, OverlappedBy},
		{Starts, StartedBy},
		{Finishes, FinishedBy},
		{During, Contains},
		{Equals, Equals},
	}
	for _, tt := range tests {
		if got := tt.r.Inverse(); got != tt.want {
			t.Errorf("%s.Inverse() = %s, want %s", tt.r, got, tt.want)
		}
		if got := tt.want.Inverse(); got != tt.r {
			t.Errorf("%s.Inverse() = %s, want %s", tt.want, got, tt.r)
		}
	}
}

func TestParseRelation(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Relation
		wantErr bool
	}{
		{name: "canonical", input: "before", want: Before},
		{name: "upper case", input: "BEFORE", want: Before},
		{name: "underscore", input: "met_by", want: MetBy},
		{name: "collapsed", input: "metby", want: MetBy},
		{name: "hyphen", input: "overlapped-by", want: OverlappedBy},
		{name: "padded", input: "  equals  ", want: Equals},
		{name: "unknown", input: "sideways", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRelation(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrUnknownRelation) {
					t.Fatalf("ParseRelation(%q) error = %v, want ErrUnknownRelation", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseRelation(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseRelation(%q) = %s, want %s", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseRelationRoundTrip(t *testing.T) {
	for _, r := range AllRelations() {
		got, err := ParseRelation(r.String())
		if err != nil {
			t.Fatalf("ParseRelation(%q) unexpected error: %v", r.String(), err)
		}
		if got != r {
			t.Errorf("round trip %s = %s", r, got)
		}
	}
}

func TestRelationTextMarshaling(t *testing.T) {
	for _, r := range AllRelations() {
		text, err := r.MarshalText()
		if err != nil {
			t.Fatalf("MarshalText(%s) unexpected error: %v", r, err)
		}
		var back Relation
		if err := back.UnmarshalText(text); err != nil {
			t.Fatalf("UnmarshalText(%q) unexpected error: %v", text, err)
		}
		if back != r {
			t.Errorf("text round trip %s = %s", r, back)
		}
	}
}

func TestRelationSetOperations(t *testing.T) {
	s := NewRelationSet(Before, Meets)
	if s.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", s.Len())
	}
	if !s.Has(Before) || !s.Has(Meets) || s.Has(After) {
		t.Fatalf("membership wrong for %s", s)
	}
	if _, ok := s.Single(); ok {
		t.Error("Single() on two-member set reported ok")
	}

	single := NewRelationSet(During)
	r, ok := single.Single()
	if !ok || r != During {
		t.Errorf("Single() = %s, %v, want during, true", r, ok)
	}

	if got := s.Intersect(NewRelationSet(Meets, After)); got != NewRelationSet(Meets) {
		t.Errorf("Intersect = %s, want {meets}", got)
	}
	if got := s.Union(NewRelationSet(After)); got.Len() != 3 {
		t.Errorf("Union length = %d, want 3", got.Len())
	}
	if FullSet().Len() != NumRelations {
		t.Errorf("FullSet length = %d, want %d", FullSet().Len(), NumRelations)
	}
	if !RelationSet(0).Empty() {
		t.Error("zero set should be empty")
	}
}

func TestRelationSetInverse(t *testing.T) {
	s := NewRelationSet(Before, Starts, Equals)
	want := NewRelationSet(After, StartedBy, Equals)
	if got := s.Inverse(); got != want {
		t.Errorf("Inverse(%s) = %s, want %s", s, got, want)
	}
}
