package rhyme

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/time/rate"

	"github.com/VerseforgeAI/VerseForge/pkg/validation"
)

var tracer = otel.Tracer("verseforge.rhyme")

// Defaults for the rhyme client. The near-rhyme score floor filters out
// words that barely rhyme; exact-rhyme sources need no floor.
const (
	DefaultNearRhymeMinScore = 2000
	DefaultRequestTimeout    = 10 * time.Second
	DefaultRequestsPerSecond = 10
)

// Source describes one rhyme API endpoint. The query word is appended to
// URL after escaping. Exact sources return true rhymes and skip the score
// filter; near sources are filtered by the client's minimum score.
type Source struct {
	Name  string
	URL   string
	Exact bool
}

// DatamuseSources returns the default source set: Datamuse exact rhymes
// and Datamuse near rhymes.
func DatamuseSources() []Source {
	return []Source{
		{Name: "datamuse-exact", URL: "https://api.datamuse.com/words?rel_rhy=", Exact: true},
		{Name: "datamuse-near", URL: "https://api.datamuse.com/words?rel_nry=", Exact: false},
	}
}

// Client fetches rhyme sets over HTTP from configured sources.
//
// Fetch queries every source and unions the results. If any source fails,
// the whole call fails with ErrUnavailable even when earlier sources
// already returned results. Outbound requests share a rate limiter since
// public rhyme APIs throttle aggressive callers.
type Client struct {
	httpClient        *http.Client
	sources           []Source
	nearRhymeMinScore int
	limiter           *rate.Limiter
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithSources replaces the default Datamuse sources.
func WithSources(sources []Source) ClientOption {
	return func(c *Client) { c.sources = sources }
}

// WithNearRhymeMinScore sets the relevance floor for near-rhyme sources.
func WithNearRhymeMinScore(score int) ClientOption {
	return func(c *Client) { c.nearRhymeMinScore = score }
}

// WithRequestTimeout sets the per-request timeout.
func WithRequestTimeout(d time.Duration) ClientOption {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithRequestsPerSecond caps the outbound request rate.
func WithRequestsPerSecond(rps float64) ClientOption {
	return func(c *Client) { c.limiter = rate.NewLimiter(rate.Limit(rps), 1) }
}

// NewClient creates a Client with Datamuse defaults, applying any options.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient:        &http.Client{Timeout: DefaultRequestTimeout},
		sources:           DatamuseSources(),
		nearRhymeMinScore: DefaultNearRhymeMinScore,
		limiter:           rate.NewLimiter(rate.Limit(DefaultRequestsPerSecond), 1),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// rhymeEntry is one element of a rhyme API response.
type rhymeEntry struct {
	Word  string `json:"word"`
	Score int    `json:"score"`
}

// Fetch returns the union of rhyme sets for word across all sources.
//
// Near-rhyme results below the score floor are discarded. Source order
// does not affect the result. Fails with an error wrapping ErrUnavailable
// if any source returns a non-success status or times out.
func (c *Client) Fetch(ctx context.Context, word string) (map[string]struct{}, error) {
	ctx, span := tracer.Start(ctx, "Client.Fetch")
	defer span.End()
	span.SetAttributes(attribute.String("rhyme.word", word))

	// Corpus noise (stray punctuation runs, numerals) is not worth a
	// network round trip and must not reach the outbound query string.
	if err := validation.ValidateWord(word); err != nil {
		slog.Debug("Skipping rhyme lookup for invalid word", "word", word, "reason", err)
		return map[string]struct{}{}, nil
	}

	union := make(map[string]struct{})
	for _, src := range c.sources {
		set, err := c.fetchSource(ctx, src, word)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		}
		for w := range set {
			union[w] = struct{}{}
		}
	}

	span.SetAttributes(attribute.Int("rhyme.count", len(union)))
	return union, nil
}

// fetchSource queries a single source and applies its score floor.
func (c *Client) fetchSource(ctx context.Context, src Source, word string) (map[string]struct{}, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	reqURL := src.URL + url.QueryEscape(word)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request to %s: %w", src.Name, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		slog.Error("Rhyme source call failed", "source", src.Name, "word", word, "error", err)
		return nil, fmt.Errorf("%s call failed: %v: %w", src.Name, err, ErrUnavailable)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response from %s: %v: %w", src.Name, err, ErrUnavailable)
	}

	if resp.StatusCode != http.StatusOK {
		slog.Warn("Rhyme source returned non-success status",
			"source", src.Name, "word", word, "status_code", resp.StatusCode)
		return nil, fmt.Errorf("%s returned status %d: %w", src.Name, resp.StatusCode, ErrUnavailable)
	}

	var entries []rhymeEntry
	if err := json.Unmarshal(body, &entries); err != nil {
		slog.Error("Failed to parse rhyme source response",
			"source", src.Name, "word", word, "error", err)
		return nil, fmt.Errorf("failed to parse %s response: %v: %w", src.Name, err, ErrUnavailable)
	}

	minScore := 0
	if !src.Exact {
		minScore = c.nearRhymeMinScore
	}

	set := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		if e.Score >= minScore {
			set[e.Word] = struct{}{}
		}
	}
	return set, nil
}
