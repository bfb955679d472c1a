package allen

// The composition table is derived from the point algebra over interval
// endpoints rather than hand-typed. Each relation is characterized by the
// four point relations between the endpoints of the two intervals; composing
// two interval relations composes those point constraints through the shared
// interval's endpoints. The derivation reproduces the textbook 13x13 table
// exactly and covers every pair, so no lookup can miss.

type pointRel uint8

const (
	pointLT pointRel = iota
	pointEQ
	pointGT
)

type pointSet uint8

const (
	bitLT pointSet = 1 << iota
	bitEQ
	bitGT

	allPoints = bitLT | bitEQ | bitGT
)

func pointBit(p pointRel) pointSet {
	return 1 << p
}

// pointCompose is the composition table of the point algebra: given x ? y
// and y ? z, the possible relations x ? z.
var pointCompose = [3][3]pointSet{
	pointLT: {pointLT: bitLT, pointEQ: bitLT, pointGT: allPoints},
	pointEQ: {pointLT: bitLT, pointEQ: bitEQ, pointGT: bitGT},
	pointGT: {pointLT: allPoints, pointEQ: bitGT, pointGT: bitGT},
}

// endpointTuples characterizes each relation between intervals A=[s1,e1] and
// B=[s2,e2] by the point relations (s1?s2, s1?e2, e1?s2, e1?e2). The tuples
// already account for s < e within each interval.
var endpointTuples = [NumRelations][4]pointRel{
	Before:       {pointLT, pointLT, pointLT, pointLT},
	After:        {pointGT, pointGT, pointGT, pointGT},
	Meets:        {pointLT, pointLT, pointEQ, pointLT},
	MetBy:        {pointGT, pointEQ, pointGT, pointGT},
	Overlaps:     {pointLT, pointLT, pointGT, pointLT},
	OverlappedBy: {pointGT, pointLT, pointGT, pointGT},
	Starts:       {pointEQ, pointLT, pointGT, pointLT},
	StartedBy:    {pointEQ, pointLT, pointGT, pointGT},
	Finishes:     {pointGT, pointLT, pointGT, pointEQ},
	FinishedBy:   {pointLT, pointLT, pointGT, pointEQ},
	During:       {pointGT, pointLT, pointGT, pointLT},
	Contains:     {pointLT, pointLT, pointGT, pointGT},
	Equals:       {pointEQ, pointLT, pointGT, pointEQ},
}

// compositionTable holds all 169 entries, built once at package
// initialization and treated as immutable afterwards.
var compositionTable = buildCompositionTable()

func buildCompositionTable() [NumRelations][NumRelations]RelationSet {
	var table [NumRelations][NumRelations]RelationSet
	for r1 := Relation(0); r1 < NumRelations; r1++ {
		for r2 := Relation(0); r2 < NumRelations; r2++ {
			table[r1][r2] = composeEndpoints(r1, r2)
		}
	}
	return table
}

// composeEndpoints derives the composition of r1 (A to B) and r2 (B to C)
// by propagating point constraints through B's endpoints. A candidate
// relation for A to C is admitted when each of its four endpoint relations
// is consistent with the propagated constraints.
func composeEndpoints(r1, r2 Relation) RelationSet {
	t1 := endpointTuples[r1]
	t2 := endpointTuples[r2]

	// possible[x][z] collects the admissible point relations between
	// endpoint x of A (0=start, 1=end) and endpoint z of C, intersected
	// over both endpoints y of B.
	var possible [2][2]pointSet
	for x := 0; x < 2; x++ {
		for z := 0; z < 2; z++ {
			p := allPoints
			for y := 0; y < 2; y++ {
				p &= pointCompose[t1[x*2+y]][t2[y*2+z]]
			}
			possible[x][z] = p
		}
	}

	var out RelationSet
	for r := Relation(0); r < NumRelations; r++ {
		t := endpointTuples[r]
		fits := true
		for x := 0; x < 2 && fits; x++ {
			for z := 0; z < 2; z++ {
				if possible[x][z]&pointBit(t[x*2+z]) == 0 {
					fits = false
					break
				}
			}
		}
		if fits {
			out = out.Add(r)
		}
	}
	return out
}

// Compose returns every relation r3 such that A r3 C is consistent with
// some interval assignment satisfying A r1 B and B r2 C. The result is
// never empty.
func Compose(r1, r2 Relation) RelationSet {
	return compositionTable[r1][r2]
}

// ComposeSets lifts Compose to sets: the union of the compositions of every
// pair drawn from s1 and s2. Used by the network's transitive closure.
func ComposeSets(s1, s2 RelationSet) RelationSet {
	var out RelationSet
	for _, r1 := range s1.Relations() {
		for _, r2 := range s2.Relations() {
			out = out.Union(compositionTable[r1][r2])
		}
	}
	return out
}
