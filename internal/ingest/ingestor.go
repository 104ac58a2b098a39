package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/C3MO/reddit2Linkedin/internal/domain"
	"github.com/C3MO/reddit2Linkedin/internal/metrics"
)

// ItemWriter replaces the stored item collection.
type ItemWriter interface {
	SaveItems(items []domain.Item) error
}

// Ingestor pulls the newest posts of one subreddit and keeps those inside
// the freshness window.
type Ingestor struct {
	collector domain.Collector
	store     ItemWriter
	subreddit string
	limit     int
	window    time.Duration
	logger    *slog.Logger
	metrics   *metrics.Recorder
	now       func() time.Time
}

// Option customizes an Ingestor during construction.
type Option func(*Ingestor)

// WithClock overrides the clock used for the freshness window.
func WithClock(clock func() time.Time) Option {
	return func(in *Ingestor) { in.now = clock }
}

// WithMetrics records fetch outcomes on r.
func WithMetrics(r *metrics.Recorder) Option {
	return func(in *Ingestor) { in.metrics = r }
}

func New(c domain.Collector, store ItemWriter, subreddit string, limit int, window time.Duration, logger *slog.Logger, opts ...Option) *Ingestor {
	if logger == nil {
		logger = slog.Default()
	}
	in := &Ingestor{
		collector: c,
		store:     store,
		subreddit: subreddit,
		limit:     limit,
		window:    window,
		logger:    logger,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(in)
	}
	return in
}

// FetchRecent inspects at most the configured number of newest posts and
// returns those created strictly after now-window, in listing order.
func (in *Ingestor) FetchRecent(ctx context.Context, channel string, window time.Duration) ([]domain.Item, error) {
	posts, err := in.collector.FetchNewPosts(ctx, channel, in.limit)
	if err != nil {
		return nil, fmt.Errorf("fetch r/%s: %w", channel, err)
	}
	if len(posts) > in.limit {
		posts = posts[:in.limit]
	}

	cutoff := in.now().Add(-window)
	recent := make([]domain.Item, 0, len(posts))
	for _, p := range posts {
		if p.CreatedAt.After(cutoff) {
			recent = append(recent, p)
		}
	}
	return recent, nil
}

// Run fetches and overwrites the collection. On a fetch error the existing
// collection is left untouched.
func (in *Ingestor) Run(ctx context.Context) error {
	items, err := in.FetchRecent(ctx, in.subreddit, in.window)
	if err != nil {
		in.logger.Error("Fetch failed, keeping previous collection", "sub", in.subreddit, "err", err)
		in.metrics.FetchFailed()
		return err
	}

	if err := in.store.SaveItems(items); err != nil {
		in.logger.Error("Failed to save item collection", "err", err)
		in.metrics.FetchFailed()
		return fmt.Errorf("save collection: %w", err)
	}

	in.metrics.Fetched(len(items))
	in.logger.Info("Saved recent posts", "sub", in.subreddit, "count", len(items), "window", in.window.String())
	return nil
}
