package parser

import (
	"context"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/tempograph/tempograph/pkg/types"
)

// Confidence assigned per expression kind. Explicit dates are trusted more
// than relative phrases, which depend on the reference clock.
const (
	confidenceISO      = 0.95
	confidenceWritten  = 0.9
	confidenceRange    = 0.9
	confidenceRelative = 0.7
	confidenceYear     = 0.6
	confidenceDuration = 0.6
)

var (
	isoPattern = regexp.MustCompile(
		`\d{4}-\d{2}-\d{2}(?:T\d{2}:\d{2}:\d{2}(?:Z|[+-]\d{2}:\d{2}))?`)
	writtenPattern = regexp.MustCompile(
		`(?i)(January|February|March|April|May|June|July|August|September|October|November|December)\s+(\d{1,2}),?\s+(\d{4})`)
	yearPattern     = regexp.MustCompile(`\b(19|20)\d{2}\b`)
	rangePattern    = regexp.MustCompile(`(\d{4}-\d{2}-\d{2})\s*(?:\.\.|to|through|-)\s*(\d{4}-\d{2}-\d{2})`)
	agoPattern      = regexp.MustCompile(`(?i)(\d+)\s+(hour|day|week|month|year)s?\s+ago`)
	durationPattern = regexp.MustCompile(`(?i)for\s+(\d+)\s+(hour|day|week|month|year)s?`)
)

var monthsByName = map[string]time.Month{
	"january": time.January, "february": time.February, "march": time.March,
	"april": time.April, "may": time.May, "june": time.June,
	"july": time.July, "august": time.August, "september": time.September,
	"october": time.October, "november": time.November, "december": time.December,
}

// PatternParser is a fixed-pattern reference implementation of Parser. It
// recognizes ISO dates and ranges, written dates, bare years, a handful of
// relative phrases anchored to its clock, and simple durations.
type PatternParser struct {
	// Now supplies the reference time for relative expressions.
	// Nil means time.Now.
	Now func() time.Time

	// Location resolves parsed dates. Nil means UTC.
	Location *time.Location
}

// NewPatternParser returns a parser anchored to the wall clock in UTC.
func NewPatternParser() *PatternParser {
	return &PatternParser{}
}

func (p *PatternParser) now() time.Time {
	if p.Now != nil {
		return p.Now()
	}
	return time.Now()
}

func (p *PatternParser) location() *time.Location {
	if p.Location != nil {
		return p.Location
	}
	return time.UTC
}

// Parse implements Parser. It never fails: text without temporal content
// yields an empty slice.
func (p *PatternParser) Parse(_ context.Context, text string) ([]types.Expression, error) {
	var out []types.Expression
	covered := make([]span, 0, 4)

	// Ranges first so their component dates are not re-reported as points.
	for _, m := range rangePattern.FindAllStringSubmatchIndex(text, -1) {
		match := text[m[0]:m[1]]
		start, err1 := time.ParseInLocation("2006-01-02", text[m[2]:m[3]], p.location())
		end, err2 := time.ParseInLocation("2006-01-02", text[m[4]:m[5]], p.location())
		if err1 != nil || err2 != nil || end.Before(start) {
			continue
		}
		out = append(out, types.Expression{
			Text:       match,
			Kind:       types.IntervalExpression,
			Start:      &start,
			End:        &end,
			Confidence: confidenceRange,
		})
		covered = append(covered, span{m[0], m[1]})
	}

	for _, m := range isoPattern.FindAllStringIndex(text, -1) {
		if overlaps(covered, span{m[0], m[1]}) {
			continue
		}
		match := text[m[0]:m[1]]
		layout := "2006-01-02"
		if strings.ContainsRune(match, 'T') {
			layout = time.RFC3339
		}
		ts, err := time.ParseInLocation(layout, match, p.location())
		if err != nil {
			continue
		}
		out = append(out, types.Expression{
			Text:       match,
			Kind:       types.PointExpression,
			Start:      &ts,
			Confidence: confidenceISO,
		})
		covered = append(covered, span{m[0], m[1]})
	}

	for _, m := range writtenPattern.FindAllStringSubmatchIndex(text, -1) {
		if overlaps(covered, span{m[0], m[1]}) {
			continue
		}
		month := monthsByName[strings.ToLower(text[m[2]:m[3]])]
		day, _ := strconv.Atoi(text[m[4]:m[5]])
		year, _ := strconv.Atoi(text[m[6]:m[7]])
		if day < 1 || day > 31 {
			continue
		}
		ts := time.Date(year, month, day, 0, 0, 0, 0, p.location())
		out = append(out, types.Expression{
			Text:       text[m[0]:m[1]],
			Kind:       types.PointExpression,
			Start:      &ts,
			Confidence: confidenceWritten,
		})
		covered = append(covered, span{m[0], m[1]})
	}

	out = append(out, p.parseRelative(text, covered)...)

	for _, m := range durationPattern.FindAllStringIndex(text, -1) {
		out = append(out, types.Expression{
			Text:       text[m[0]:m[1]],
			Kind:       types.DurationExpression,
			Confidence: confidenceDuration,
		})
	}

	// Bare years only when nothing stronger matched.
	if len(out) == 0 {
		for _, m := range yearPattern.FindAllStringIndex(text, -1) {
			year, _ := strconv.Atoi(text[m[0]:m[1]])
			start := time.Date(year, time.January, 1, 0, 0, 0, 0, p.location())
			end := time.Date(year, time.December, 31, 23, 59, 59, 0, p.location())
			out = append(out, types.Expression{
				Text:       text[m[0]:m[1]],
				Kind:       types.IntervalExpression,
				Start:      &start,
				End:        &end,
				Confidence: confidenceYear,
			})
		}
	}

	return out, nil
}

func (p *PatternParser) parseRelative(text string, covered []span) []types.Expression {
	var out []types.Expression
	now := p.now()
	lower := strings.ToLower(text)

	phrases := []struct {
		phrase string
		offset func(time.Time) (time.Time, time.Time)
	}{
		{"yesterday", func(t time.Time) (time.Time, time.Time) {
			d := midnight(t, p.location()).AddDate(0, 0, -1)
			return d, d.AddDate(0, 0, 1).Add(-time.Second)
		}},
		{"tomorrow", func(t time.Time) (time.Time, time.Time) {
			d := midnight(t, p.location()).AddDate(0, 0, 1)
			return d, d.AddDate(0, 0, 1).Add(-time.Second)
		}},
		{"today", func(t time.Time) (time.Time, time.Time) {
			d := midnight(t, p.location())
			return d, d.AddDate(0, 0, 1).Add(-time.Second)
		}},
		{"last week", func(t time.Time) (time.Time, time.Time) {
			d := midnight(t, p.location()).AddDate(0, 0, -7)
			return d, d.AddDate(0, 0, 7).Add(-time.Second)
		}},
		{"last month", func(t time.Time) (time.Time, time.Time) {
			d := midnight(t, p.location()).AddDate(0, -1, 0)
			return d, d.AddDate(0, 1, 0).Add(-time.Second)
		}},
		{"last year", func(t time.Time) (time.Time, time.Time) {
			d := midnight(t, p.location()).AddDate(-1, 0, 0)
			return d, d.AddDate(1, 0, 0).Add(-time.Second)
		}},
	}

	for _, ph := range phrases {
		idx := strings.Index(lower, ph.phrase)
		if idx < 0 || overlaps(covered, span{idx, idx + len(ph.phrase)}) {
			continue
		}
		start, end := ph.offset(now)
		out = append(out, types.Expression{
			Text:       text[idx : idx+len(ph.phrase)],
			Kind:       types.RelativeExpression,
			Start:      &start,
			End:        &end,
			Confidence: confidenceRelative,
		})
	}

	for _, m := range agoPattern.FindAllStringSubmatchIndex(text, -1) {
		amount, _ := strconv.Atoi(text[m[2]:m[3]])
		unit := strings.ToLower(text[m[4]:m[5]])
		ts := now
		switch unit {
		case "hour":
			ts = now.Add(-time.Duration(amount) * time.Hour)
		case "day":
			ts = now.AddDate(0, 0, -amount)
		case "week":
			ts = now.AddDate(0, 0, -7*amount)
		case "month":
			ts = now.AddDate(0, -amount, 0)
		case "year":
			ts = now.AddDate(-amount, 0, 0)
		}
		out = append(out, types.Expression{
			Text:       text[m[0]:m[1]],
			Kind:       types.RelativeExpression,
			Start:      &ts,
			Confidence: confidenceRelative,
		})
	}

	return out
}

// ExtractRange implements Parser. It prefers an explicit range expression
// and falls back to the two strongest point expressions in text order.
func (p *PatternParser) ExtractRange(ctx context.Context, text string) (*time.Time, *time.Time, error) {
	expressions, err := p.Parse(ctx, text)
	if err != nil {
		return nil, nil, err
	}

	for _, expr := range expressions {
		if expr.Kind == types.IntervalExpression || expr.Kind == types.RelativeExpression {
			if expr.Start != nil && expr.End != nil {
				return expr.Start, expr.End, nil
			}
		}
	}

	var points []*time.Time
	for i := range expressions {
		if expressions[i].Start != nil {
			points = append(points, expressions[i].Start)
		}
	}
	switch len(points) {
	case 0:
		return nil, nil, nil
	case 1:
		return points[0], nil, nil
	default:
		start, end := points[0], points[1]
		if end.Before(*start) {
			start, end = end, start
		}
		return start, end, nil
	}
}

type span struct{ from, to int }

func overlaps(covered []span, s span) bool {
	for _, c := range covered {
		if s.from < c.to && c.from < s.to {
			return true
		}
	}
	return false
}

func midnight(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}
