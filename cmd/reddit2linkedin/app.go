package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/C3MO/reddit2Linkedin/internal/auth"
	"github.com/C3MO/reddit2Linkedin/internal/collector"
	"github.com/C3MO/reddit2Linkedin/internal/config"
	"github.com/C3MO/reddit2Linkedin/internal/dashboard"
	"github.com/C3MO/reddit2Linkedin/internal/domain"
	"github.com/C3MO/reddit2Linkedin/internal/ingest"
	"github.com/C3MO/reddit2Linkedin/internal/linkedin"
	"github.com/C3MO/reddit2Linkedin/internal/metrics"
	"github.com/C3MO/reddit2Linkedin/internal/scheduler"
	"github.com/C3MO/reddit2Linkedin/internal/status"
	"github.com/C3MO/reddit2Linkedin/internal/storage"
	"golang.org/x/sync/errgroup"
)

// app wires the components from one loaded configuration.
type app struct {
	cfg     *config.Config
	logger  *slog.Logger
	items   *storage.Collection
	history *storage.HistoryStore
	tokens  *auth.EnvStore
	metrics *metrics.Recorder
}

func newApp(cfg *config.Config, logger *slog.Logger) *app {
	return &app{
		cfg:     cfg,
		logger:  logger,
		items:   storage.NewCollection(cfg.Storage.CollectionPath, logger),
		history: storage.NewHistoryStore(cfg.Storage.HistoryPath, logger),
		tokens: auth.NewEnvStore(cfg.Storage.EnvFile, domain.Credential{
			AccessToken:  cfg.LinkedIn.AccessToken,
			RefreshToken: cfg.LinkedIn.RefreshToken,
			PersonURN:    cfg.LinkedIn.PersonURN,
		}),
		metrics: metrics.New("reddit2linkedin"),
	}
}

func (a *app) ingestor() (*ingest.Ingestor, error) {
	c, err := collector.NewCollector(a.cfg.Reddit)
	if err != nil {
		return nil, fmt.Errorf("initialize collector: %w", err)
	}
	a.logger.Info("Collector initialized", "mode", a.cfg.Reddit.Mode)
	r := a.cfg.Reddit
	return ingest.New(c, a.items, r.Subreddit, r.FetchLimit, r.Window, a.logger, ingest.WithMetrics(a.metrics)), nil
}

func (a *app) tokenManager(codes auth.CodeProvider) *auth.Manager {
	return auth.NewManager(a.cfg.LinkedIn, a.tokens, codes, a.logger)
}

func (a *app) scheduler(opts ...scheduler.Option) *scheduler.Scheduler {
	opts = append(opts, scheduler.WithMetrics(a.metrics))
	return scheduler.New(
		a.items,
		a.history,
		a.tokenManager(nil), // cached token only, never prompts
		linkedin.NewClient(a.cfg.LinkedIn, a.logger),
		a.cfg.Scheduler.Interval,
		a.logger,
		opts...,
	)
}

func (a *app) fetch(ctx context.Context) error {
	in, err := a.ingestor()
	if err != nil {
		return err
	}
	return in.Run(ctx)
}

func (a *app) post(ctx context.Context) error {
	res := a.scheduler().RunCycle(ctx)
	if res.Outcome == scheduler.OutcomeNoToken {
		return auth.ErrNoToken
	}
	return res.Err
}

func (a *app) schedule(ctx context.Context) error {
	var opts []scheduler.Option
	if in, err := a.ingestor(); err != nil {
		a.logger.Warn("Scheduling without fetching", "err", err)
	} else {
		opts = append(opts, scheduler.WithFetcher(in))
	}
	sched := a.scheduler(opts...)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return sched.Run(gctx) })

	if port := a.cfg.Dashboard.Port; port != "" {
		srv := dashboard.NewServer(port, a.items, a.history, a.metrics, a.logger)
		g.Go(srv.ListenAndServe)
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
	}
	return g.Wait()
}

func (a *app) auth(ctx context.Context, in io.Reader, out io.Writer, code string, force bool) error {
	if err := a.cfg.LinkedIn.Validate(); err != nil {
		return err
	}
	fmt.Fprintf(out, "Client ID: %s\nRedirect URI: %s\n\n", a.cfg.LinkedIn.ClientID, a.cfg.LinkedIn.RedirectURI)

	var codes auth.CodeProvider = &auth.TerminalCodeProvider{In: in, Out: out}
	if code != "" {
		codes = auth.StaticCodeProvider(code)
	}
	m := a.tokenManager(codes)

	var (
		token string
		err   error
	)
	if force {
		token, err = m.Authenticate(ctx)
	} else {
		token, err = m.AccessToken(ctx)
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "LinkedIn authentication successful. Access token: %s...\n", prefix(token, 20))
	urn, err := linkedin.NewClient(a.cfg.LinkedIn, a.logger).ResolveIdentity(ctx, token)
	if err != nil {
		fmt.Fprintln(out, "Could not resolve the LinkedIn identity; set LINKEDIN_PERSON_URN.")
		return nil
	}
	fmt.Fprintf(out, "Posting as %s\n", urn)
	return nil
}

func (a *app) status(w io.Writer) {
	r := status.Build(a.items.LoadItems(), a.history.Load(), a.tokens.Credential().AccessToken != "")
	fmt.Fprint(w, r.Render())
}

func (a *app) next(w io.Writer, n int) {
	if n <= 0 {
		n = 5
	}
	fmt.Fprint(w, status.RenderNext(a.items.LoadItems(), a.history.Load(), n))
}

func (a *app) reset(in io.Reader, out io.Writer) error {
	fmt.Fprint(out, "This will reset all posting history. Are you sure? (yes/no): ")
	answer, _ := bufio.NewReader(in).ReadString('\n')
	if !strings.EqualFold(strings.TrimSpace(answer), "yes") {
		fmt.Fprintln(out, "Operation cancelled.")
		return nil
	}

	err := os.Remove(a.cfg.Storage.HistoryPath)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		fmt.Fprintln(out, "No history file found.")
		return nil
	case err != nil:
		return fmt.Errorf("reset history: %w", err)
	}
	fmt.Fprintln(out, "Posted history reset successfully.")
	return nil
}

func (a *app) dashboard(ctx context.Context) error {
	port := a.cfg.Dashboard.Port
	if port == "" {
		port = "8081"
	}
	srv := dashboard.NewServer(port, a.items, a.history, a.metrics, a.logger)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(srv.ListenAndServe)
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func prefix(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
