package dashboard

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/C3MO/reddit2Linkedin/internal/domain"
	"github.com/C3MO/reddit2Linkedin/internal/metrics"
	"github.com/C3MO/reddit2Linkedin/internal/scheduler"
	"github.com/go-chi/chi/v5"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
)

const maxBars = 20

type ItemSource interface {
	LoadItems() []domain.Item
}

type HistorySource interface {
	Load() domain.PublishHistory
}

// Server renders the publishing queue and exposes /metrics.
type Server struct {
	items   ItemSource
	history HistorySource
	metrics *metrics.Recorder
	logger  *slog.Logger
	srv     *http.Server
}

func NewServer(port string, items ItemSource, history HistorySource, rec *metrics.Recorder, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{items: items, history: history, metrics: rec, logger: logger}
	s.srv = &http.Server{
		Addr:              ":" + port,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Get("/", s.handleCharts)
	r.Handle("/metrics", s.metrics.Handler())
	return r
}

func (s *Server) ListenAndServe() error {
	s.logger.Info("Starting Dashboard", "addr", s.srv.Addr)
	if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

func (s *Server) handleCharts(w http.ResponseWriter, r *http.Request) {
	items := s.items.LoadItems()
	history := s.history.Load()
	ranked := scheduler.Ranked(items, history)

	// 1. Publishing queue
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Publishing Queue", Subtitle: "pending posts by score"}),
		charts.WithInitializationOpts(opts.Initialization{Theme: types.ThemeWesteros}),
	)
	if len(ranked) > maxBars {
		ranked = ranked[:maxBars]
	}
	var barX []string
	var barY []opts.BarData
	for _, it := range ranked {
		barX = append(barX, it.ID)
		barY = append(barY, opts.BarData{Name: it.Title, Value: it.Score})
	}
	bar.SetXAxis(barX).AddSeries("Score", barY)

	// 2. Progress
	pending := len(scheduler.Candidates(items, history))
	pie := charts.NewPie()
	pie.SetGlobalOptions(charts.WithTitleOpts(opts.Title{Title: "Publishing Progress"}))
	pie.AddSeries("Posts", []opts.PieData{
		{Name: "Posted", Value: len(history.PostedIDs)},
		{Name: "Pending", Value: pending},
	})

	page := components.NewPage()
	page.AddCharts(bar, pie)
	if err := page.Render(w); err != nil {
		s.logger.Error("Dashboard render failed", "err", err)
	}
}
