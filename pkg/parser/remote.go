package parser

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/sony/gobreaker"

	"github.com/tempograph/tempograph/pkg/types"
)

// RemoteParser calls an external temporal parsing service over HTTP. The
// service contract is a single POST endpoint accepting {"text": ...} and
// returning a JSON array of expressions.
type RemoteParser struct {
	baseURL string
	client  *http.Client
}

// NewRemoteParser creates a client for the parsing service at baseURL.
// A nil httpClient selects a client with a 10 second timeout.
func NewRemoteParser(baseURL string, httpClient *http.Client) *RemoteParser {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &RemoteParser{baseURL: baseURL, client: httpClient}
}

type parseRequest struct {
	Text string `json:"text"`
}

// Parse implements Parser.
func (p *RemoteParser) Parse(ctx context.Context, text string) ([]types.Expression, error) {
	body, err := json.Marshal(parseRequest{Text: text})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/parse", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("parser service request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("parser service returned status %d", resp.StatusCode)
	}

	var expressions []types.Expression
	if err := json.NewDecoder(resp.Body).Decode(&expressions); err != nil {
		return nil, fmt.Errorf("decoding parser response: %w", err)
	}
	return expressions, nil
}

// ExtractRange implements Parser on top of Parse.
func (p *RemoteParser) ExtractRange(ctx context.Context, text string) (*time.Time, *time.Time, error) {
	expressions, err := p.Parse(ctx, text)
	if err != nil {
		return nil, nil, err
	}
	best, ok := BestExpression(expressions)
	if !ok {
		return nil, nil, nil
	}
	return best.Start, best.End, nil
}

// BreakerConfig holds circuit breaker tunables for a wrapped parser.
type BreakerConfig struct {
	MaxRequests      uint32
	Interval         time.Duration
	Timeout          time.Duration
	ReadyToTripRatio float64
}

// BreakerParser wraps a Parser with a circuit breaker so a failing remote
// service degrades to parse misses instead of stalling ingestion.
type BreakerParser struct {
	parser Parser
	cb     *gobreaker.CircuitBreaker
}

// NewBreakerParser wraps parser with circuit breaking.
func NewBreakerParser(parser Parser, cfg BreakerConfig, name string) *BreakerParser {
	ratio := cfg.ReadyToTripRatio
	if ratio <= 0 {
		ratio = 0.6
	}
	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= ratio
		},
	}
	return &BreakerParser{
		parser: parser,
		cb:     gobreaker.NewCircuitBreaker(settings),
	}
}

// Parse implements Parser.
func (b *BreakerParser) Parse(ctx context.Context, text string) ([]types.Expression, error) {
	result, err := b.cb.Execute(func() (interface{}, error) {
		return b.parser.Parse(ctx, text)
	})
	if err != nil {
		return nil, err
	}
	return result.([]types.Expression), nil
}

// ExtractRange implements Parser.
func (b *BreakerParser) ExtractRange(ctx context.Context, text string) (*time.Time, *time.Time, error) {
	type rangeResult struct {
		start *time.Time
		end   *time.Time
	}
	result, err := b.cb.Execute(func() (interface{}, error) {
		start, end, err := b.parser.ExtractRange(ctx, text)
		if err != nil {
			return nil, err
		}
		return rangeResult{start, end}, nil
	})
	if err != nil {
		return nil, nil, err
	}
	r := result.(rangeResult)
	return r.start, r.end, nil
}
