package allen

import "time"

// FromTimestamps classifies two concrete intervals into exactly one of the
// 13 relations. Endpoint comparisons within epsilon count as equal. The
// checks run in a fixed priority order (equals, before/after, meets/met_by,
// starts/started_by, finishes/finished_by, during/contains,
// overlaps/overlapped_by) so the classification is total and unambiguous.
func FromTimestamps(start1, end1, start2, end2 time.Time, epsilon time.Duration) Relation {
	if epsilon < 0 {
		epsilon = 0
	}
	eq := func(a, b time.Time) bool {
		d := a.Sub(b)
		if d < 0 {
			d = -d
		}
		return d <= epsilon
	}

	switch {
	case eq(start1, start2) && eq(end1, end2):
		return Equals
	case !eq(end1, start2) && end1.Before(start2):
		return Before
	case !eq(start1, end2) && start1.After(end2):
		return After
	case eq(end1, start2):
		return Meets
	case eq(start1, end2):
		return MetBy
	case eq(start1, start2):
		if end1.Before(end2) {
			return Starts
		}
		return StartedBy
	case eq(end1, end2):
		if start1.After(start2) {
			return Finishes
		}
		return FinishedBy
	case start1.After(start2) && end1.Before(end2):
		return During
	case start1.Before(start2) && end1.After(end2):
		return Contains
	case start1.Before(start2):
		return Overlaps
	default:
		return OverlappedBy
	}
}
