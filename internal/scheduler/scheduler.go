// Package scheduler drives the fetch, select, publish and record cycle.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/C3MO/reddit2Linkedin/internal/domain"
	"github.com/C3MO/reddit2Linkedin/internal/metrics"
)

type ItemSource interface {
	LoadItems() []domain.Item
}

type HistoryStore interface {
	Load() domain.PublishHistory
	Save(h domain.PublishHistory) error
}

// TokenSource exposes the persisted token only; the scheduler never starts
// an interactive authorization.
type TokenSource interface {
	CachedToken() string
}

type Publisher interface {
	Publish(ctx context.Context, token, title, link string) error
}

// Fetcher refreshes the item collection before a cycle.
type Fetcher interface {
	Run(ctx context.Context) error
}

// Outcome summarizes one cycle.
type Outcome string

const (
	OutcomePublished Outcome = "published"
	OutcomeFailed    Outcome = "failed"
	OutcomeIdle      Outcome = "idle"
	OutcomeNoToken   Outcome = "no_token"
)

// CycleResult reports what a cycle did. Item is set whenever a candidate was
// selected.
type CycleResult struct {
	Outcome Outcome
	Item    *domain.Item
	Err     error
}

type Scheduler struct {
	items     ItemSource
	history   HistoryStore
	tokens    TokenSource
	publisher Publisher
	fetcher   Fetcher
	interval  time.Duration
	newTicker TickerFactory
	now       func() time.Time
	logger    *slog.Logger
	metrics   *metrics.Recorder
}

// Option customizes a Scheduler during construction.
type Option func(*Scheduler)

// WithFetcher refreshes the collection at the start of every cycle.
func WithFetcher(f Fetcher) Option {
	return func(s *Scheduler) { s.fetcher = f }
}

func WithTicker(f TickerFactory) Option {
	return func(s *Scheduler) { s.newTicker = f }
}

func WithClock(clock func() time.Time) Option {
	return func(s *Scheduler) { s.now = clock }
}

func WithMetrics(r *metrics.Recorder) Option {
	return func(s *Scheduler) { s.metrics = r }
}

func New(items ItemSource, history HistoryStore, tokens TokenSource, publisher Publisher, interval time.Duration, logger *slog.Logger, opts ...Option) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Scheduler{
		items:     items,
		history:   history,
		tokens:    tokens,
		publisher: publisher,
		interval:  interval,
		newTicker: NewTicker,
		now:       time.Now,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run publishes once immediately and then once per interval until ctx is
// cancelled.
func (s *Scheduler) Run(ctx context.Context) error {
	s.logger.Info("Scheduler started", "interval", s.interval.String())
	s.RunCycle(ctx)

	ticker := s.newTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Scheduler stopped")
			return nil
		case <-ticker.C():
			s.RunCycle(ctx)
		}
	}
}

// RunCycle performs one publish attempt. A started publish is allowed to
// finish even if ctx is cancelled meanwhile.
func (s *Scheduler) RunCycle(ctx context.Context) CycleResult {
	res := s.cycle(context.WithoutCancel(ctx))
	s.metrics.Cycle(string(res.Outcome))
	return res
}

func (s *Scheduler) cycle(ctx context.Context) CycleResult {
	if s.fetcher != nil {
		// Fetch errors are logged by the fetcher; the cycle works with
		// whatever collection is on disk.
		_ = s.fetcher.Run(ctx)
	}

	items := s.items.LoadItems()
	history := s.history.Load()

	candidates := Candidates(items, history)
	s.metrics.SetPending(len(candidates))
	next, ok := SelectNext(items, history)
	if !ok {
		s.logger.Info("No unposted items, nothing to do", "items", len(items))
		return CycleResult{Outcome: OutcomeIdle}
	}

	token := s.tokens.CachedToken()
	if token == "" {
		s.logger.Error("No LinkedIn access token available; run the auth command to authorize", "candidate", next.ID)
		return CycleResult{Outcome: OutcomeNoToken, Item: &next}
	}

	s.logger.Info("Publishing", "id", next.ID, "score", next.Score, "title", next.Title, "pending", len(candidates))
	if err := s.publisher.Publish(ctx, token, next.Title, next.URL); err != nil {
		s.logger.Error("Publish failed, will retry next cycle", "id", next.ID, "err", err)
		return CycleResult{Outcome: OutcomeFailed, Item: &next, Err: err}
	}

	history.MarkPosted(next.ID, s.now())
	if err := s.history.Save(history); err != nil {
		// The share is live but unrecorded; it may be shared again.
		s.logger.Error("Published but failed to save history", "id", next.ID, "err", err)
		return CycleResult{Outcome: OutcomePublished, Item: &next, Err: err}
	}

	s.logger.Info("Published", "id", next.ID, "remaining", len(candidates)-1)
	return CycleResult{Outcome: OutcomePublished, Item: &next}
}
