package sampler

import (
	"context"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"
)

// Defaults for the supplier. Each draw picks a target length uniformly
// from [MinChars, MaxChars] and asks the model for a sentence no longer
// than that target.
const (
	DefaultPoolSize = 10
	DefaultMinChars = 50
	DefaultMaxChars = 120
)

// SentenceSource produces one bounded sentence per call, or false when
// its internal state cannot satisfy the bound. Model implements it.
type SentenceSource interface {
	ShortSentence(maxChars int) (string, bool)
}

// Supplier hands out sentences from a SentenceSource through a bounded
// worker pool.
//
// Sampling is CPU-bound, so each draw runs on its own goroutine gated by
// a weighted semaphore: at most PoolSize samples run at once and callers
// queue rather than spawning unbounded work. A caller whose context is
// cancelled stops waiting immediately; the abandoned sample finishes in
// the background and releases its pool slot.
type Supplier struct {
	source   SentenceSource
	sem      *semaphore.Weighted
	minChars int
	maxChars int

	mu  sync.Mutex
	rng *rand.Rand
}

// SupplierOption configures a Supplier.
type SupplierOption func(*Supplier)

// WithPoolSize bounds the number of concurrent sampling calls.
func WithPoolSize(n int) SupplierOption {
	return func(s *Supplier) { s.sem = semaphore.NewWeighted(int64(n)) }
}

// WithCharRange sets the sentence length bounds for each draw.
func WithCharRange(minChars, maxChars int) SupplierOption {
	return func(s *Supplier) {
		s.minChars = minChars
		s.maxChars = maxChars
	}
}

// withRandSource fixes the target-length random source, for tests.
func withRandSource(seed int64) SupplierOption {
	return func(s *Supplier) { s.rng = rand.New(rand.NewSource(seed)) }
}

// NewSupplier wraps source with default bounds and pool size, applying
// any options.
func NewSupplier(source SentenceSource, opts ...SupplierOption) *Supplier {
	s := &Supplier{
		source:   source,
		sem:      semaphore.NewWeighted(DefaultPoolSize),
		minChars: DefaultMinChars,
		maxChars: DefaultMaxChars,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Next returns one sentence within the configured length range.
//
// Fails with ErrExhausted when the source cannot satisfy the bound, or
// with the context error when the caller gives up first.
func (s *Supplier) Next(ctx context.Context) (string, error) {
	if err := s.sem.Acquire(ctx, 1); err != nil {
		return "", err
	}

	target := s.targetLength()

	type sample struct {
		line string
		ok   bool
	}
	ch := make(chan sample, 1)
	go func() {
		defer s.sem.Release(1)
		line, ok := s.source.ShortSentence(target)
		ch <- sample{line: line, ok: ok}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-ch:
		if !r.ok {
			slog.Error("Sentence model ran out within length bounds",
				"target_chars", target)
			return "", ErrExhausted
		}
		return r.line, nil
	}
}

// targetLength draws a uniform target from [minChars, maxChars].
func (s *Supplier) targetLength() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.maxChars <= s.minChars {
		return s.maxChars
	}
	return s.minChars + s.rng.Intn(s.maxChars-s.minChars+1)
}
