package parser

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tempograph/tempograph/pkg/types"
)

func fixedClock() time.Time {
	return time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC)
}

func testParser() *PatternParser {
	return &PatternParser{Now: fixedClock}
}

func TestPatternParserISODate(t *testing.T) {
	expressions, err := testParser().Parse(context.Background(), "the launch happened on 2024-01-15")
	require.NoError(t, err)
	require.Len(t, expressions, 1)

	expr := expressions[0]
	assert.Equal(t, types.PointExpression, expr.Kind)
	require.NotNil(t, expr.Start)
	assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), *expr.Start)
	assert.Greater(t, expr.Confidence, 0.9)
}

func TestPatternParserWrittenDate(t *testing.T) {
	expressions, err := testParser().Parse(context.Background(), "signed on January 15, 2024 in Berlin")
	require.NoError(t, err)
	require.Len(t, expressions, 1)
	require.NotNil(t, expressions[0].Start)
	assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), *expressions[0].Start)
}

func TestPatternParserRange(t *testing.T) {
	expressions, err := testParser().Parse(context.Background(), "sprint ran 2024-01-01..2024-01-14")
	require.NoError(t, err)
	require.Len(t, expressions, 1)

	expr := expressions[0]
	assert.Equal(t, types.IntervalExpression, expr.Kind)
	require.NotNil(t, expr.Start)
	require.NotNil(t, expr.End)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), *expr.Start)
	assert.Equal(t, time.Date(2024, 1, 14, 0, 0, 0, 0, time.UTC), *expr.End)
}

func TestPatternParserRelative(t *testing.T) {
	expressions, err := testParser().Parse(context.Background(), "we met yesterday")
	require.NoError(t, err)
	require.Len(t, expressions, 1)

	expr := expressions[0]
	assert.Equal(t, types.RelativeExpression, expr.Kind)
	require.NotNil(t, expr.Start)
	assert.Equal(t, time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC), *expr.Start)
}

func TestPatternParserDaysAgo(t *testing.T) {
	expressions, err := testParser().Parse(context.Background(), "deployed 3 days ago")
	require.NoError(t, err)
	require.Len(t, expressions, 1)
	require.NotNil(t, expressions[0].Start)
	assert.Equal(t, fixedClock().AddDate(0, 0, -3), *expressions[0].Start)
}

func TestPatternParserNoMatchIsEmpty(t *testing.T) {
	expressions, err := testParser().Parse(context.Background(), "nothing temporal here")
	require.NoError(t, err)
	assert.Empty(t, expressions)
}

func TestPatternParserBareYear(t *testing.T) {
	expressions, err := testParser().Parse(context.Background(), "founded in 1997")
	require.NoError(t, err)
	require.Len(t, expressions, 1)
	assert.Equal(t, types.IntervalExpression, expressions[0].Kind)
	assert.Equal(t, 1997, expressions[0].Start.Year())
	assert.Equal(t, 1997, expressions[0].End.Year())
}

func TestExtractRange(t *testing.T) {
	p := testParser()

	start, end, err := p.ExtractRange(context.Background(), "from 2024-01-01..2024-01-14")
	require.NoError(t, err)
	require.NotNil(t, start)
	require.NotNil(t, end)
	assert.True(t, start.Before(*end))

	// Two points fall back to an ordered pair.
	start, end, err = p.ExtractRange(context.Background(), "started 2024-02-01 and wrapped 2024-01-20")
	require.NoError(t, err)
	require.NotNil(t, start)
	require.NotNil(t, end)
	assert.Equal(t, time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC), *start)

	// One point leaves the end open.
	start, end, err = p.ExtractRange(context.Background(), "since 2024-02-01")
	require.NoError(t, err)
	require.NotNil(t, start)
	assert.Nil(t, end)

	// No temporal content is a recoverable miss, not an error.
	start, end, err = p.ExtractRange(context.Background(), "no dates")
	require.NoError(t, err)
	assert.Nil(t, start)
	assert.Nil(t, end)
}

func TestBestExpression(t *testing.T) {
	ts := fixedClock()
	expressions := []types.Expression{
		{Text: "vague", Kind: types.DurationExpression, Confidence: 0.99},
		{Text: "weak", Kind: types.PointExpression, Start: &ts, Confidence: 0.5},
		{Text: "strong", Kind: types.PointExpression, Start: &ts, Confidence: 0.9},
	}
	best, ok := BestExpression(expressions)
	require.True(t, ok)
	assert.Equal(t, "strong", best.Text)

	_, ok = BestExpression([]types.Expression{{Text: "vague", Kind: types.DurationExpression}})
	assert.False(t, ok)
}

func TestRemoteParser(t *testing.T) {
	ts := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/parse", r.URL.Path)
		var req parseRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		_ = json.NewEncoder(w).Encode([]types.Expression{
			{Text: req.Text, Kind: types.PointExpression, Start: &ts, Confidence: 0.8},
		})
	}))
	defer server.Close()

	p := NewRemoteParser(server.URL, server.Client())
	expressions, err := p.Parse(context.Background(), "2024-01-15")
	require.NoError(t, err)
	require.Len(t, expressions, 1)
	assert.Equal(t, ts, *expressions[0].Start)

	start, end, err := p.ExtractRange(context.Background(), "2024-01-15")
	require.NoError(t, err)
	require.NotNil(t, start)
	assert.Nil(t, end)
}

type failingParser struct{ calls int }

func (f *failingParser) Parse(context.Context, string) ([]types.Expression, error) {
	f.calls++
	return nil, errors.New("service down")
}

func (f *failingParser) ExtractRange(context.Context, string) (*time.Time, *time.Time, error) {
	f.calls++
	return nil, nil, errors.New("service down")
}

func TestBreakerParserOpensAfterFailures(t *testing.T) {
	inner := &failingParser{}
	p := NewBreakerParser(inner, BreakerConfig{Timeout: time.Minute}, "test")

	for i := 0; i < 10; i++ {
		_, _ = p.Parse(context.Background(), "text")
	}
	_, err := p.Parse(context.Background(), "text")
	require.Error(t, err)
	assert.Less(t, inner.calls, 11, "breaker should stop forwarding after tripping")
}
