package auth

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"
)

// CallbackResult holds the query parameters of the OAuth redirect.
type CallbackResult struct {
	Code  string
	State string
	Error string
}

// CallbackServer captures a single OAuth redirect on a loopback address.
type CallbackServer struct {
	addr    string
	path    string
	timeout time.Duration
	logger  *slog.Logger
}

func NewCallbackServer(addr, path string, timeout time.Duration, logger *slog.Logger) *CallbackServer {
	if path == "" {
		path = "/"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &CallbackServer{addr: addr, path: path, timeout: timeout, logger: logger}
}

// Capture binds the listener, calls onListening (typically to open the
// browser) and waits for the first redirect carrying a code or an error.
// The listener is shut down before Capture returns, whatever the outcome.
func (s *CallbackServer) Capture(ctx context.Context, onListening func()) (CallbackResult, error) {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return CallbackResult{}, fmt.Errorf("callback listener on %s: %w", s.addr, err)
	}

	results := make(chan CallbackResult, 1)
	srv := &http.Server{
		Handler:           s.router(results),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var (
		res     CallbackResult
		waitErr error
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("callback server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		defer func() {
			shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
			defer stop()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				s.logger.Warn("Callback server shutdown", "err", err)
			}
		}()

		s.logger.Info("Waiting for authorization callback", "addr", s.addr, "path", s.path, "timeout", s.timeout.String())
		if onListening != nil {
			onListening()
		}

		select {
		case res = <-results:
			if res.Error != "" {
				waitErr = fmt.Errorf("%w: %s", ErrAuthorizationDenied, res.Error)
			}
		case <-gctx.Done():
			waitErr = fmt.Errorf("%w: no callback within %s", ErrNoCode, s.timeout)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return CallbackResult{}, err
	}
	return res, waitErr
}

func (s *CallbackServer) router(results chan<- CallbackResult) http.Handler {
	var once sync.Once
	r := chi.NewRouter()
	r.Get(s.path, func(w http.ResponseWriter, req *http.Request) {
		q := req.URL.Query()
		res := CallbackResult{Code: q.Get("code"), State: q.Get("state"), Error: q.Get("error")}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		switch {
		case res.Error != "":
			w.WriteHeader(http.StatusBadRequest)
			fmt.Fprintf(w, callbackPage, "Authorization Failed",
				"Error: "+html.EscapeString(res.Error)+"</p><p>You can close this window.")
		case res.Code != "":
			w.WriteHeader(http.StatusOK)
			fmt.Fprintf(w, callbackPage, "Authorization Successful!",
				"You can close this window and return to the terminal.")
		default:
			w.WriteHeader(http.StatusBadRequest)
			fmt.Fprintf(w, callbackPage, "No Authorization Code",
				"No authorization code was found in the callback.")
			return
		}

		once.Do(func() { results <- res })
	})
	return r
}

const callbackPage = `<html>
  <body>
    <h1>%s</h1>
    <p>%s</p>
  </body>
</html>
`
