// Package auth obtains and persists the LinkedIn bearer token using the OAuth
// authorization-code grant.
package auth

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/C3MO/reddit2Linkedin/internal/config"
	"github.com/google/uuid"
	"github.com/pkg/browser"
	"golang.org/x/oauth2"
)

var (
	ErrNoCode              = errors.New("no authorization code received")
	ErrAuthorizationDenied = errors.New("authorization denied")
	ErrStateMismatch       = errors.New("oauth state mismatch")
	ErrNoToken             = errors.New("no LinkedIn access token; run the auth command first")
)

const outOfBandRedirect = "urn:ietf:wg:oauth:2.0:oob"

// Manager produces a bearer token for the LinkedIn API.
type Manager struct {
	oauth           *oauth2.Config
	store           TokenStore
	codes           CodeProvider
	callbackTimeout time.Duration
	openBrowser     func(url string) error
	newState        func() string
	out             io.Writer
	logger          *slog.Logger
}

// ManagerOption customizes a Manager during construction.
type ManagerOption func(*Manager)

// WithBrowserOpener replaces the function that opens the authorization URL.
func WithBrowserOpener(open func(url string) error) ManagerOption {
	return func(m *Manager) { m.openBrowser = open }
}

// WithStateGenerator replaces the per-attempt CSRF state generator.
func WithStateGenerator(gen func() string) ManagerOption {
	return func(m *Manager) { m.newState = gen }
}

// WithOutput redirects operator instructions, stdout by default.
func WithOutput(w io.Writer) ManagerOption {
	return func(m *Manager) { m.out = w }
}

func NewManager(cfg config.LinkedInConfig, store TokenStore, codes CodeProvider, logger *slog.Logger, opts ...ManagerOption) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	m := &Manager{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURI,
			Scopes:       strings.Fields(cfg.Scope),
			Endpoint: oauth2.Endpoint{
				AuthURL:   cfg.AuthURL,
				TokenURL:  cfg.TokenURL,
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
		store:           store,
		codes:           codes,
		callbackTimeout: cfg.CallbackTimeout,
		openBrowser:     browser.OpenURL,
		newState:        uuid.NewString,
		out:             os.Stdout,
		logger:          logger,
	}
	if m.callbackTimeout <= 0 {
		m.callbackTimeout = 300 * time.Second
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// CachedToken returns the persisted access token, or "" when there is none.
func (m *Manager) CachedToken() string {
	return m.store.Credential().AccessToken
}

// AccessToken returns the cached token without validating it, falling back
// to the interactive authorization flow.
func (m *Manager) AccessToken(ctx context.Context) (string, error) {
	if tok := m.CachedToken(); tok != "" {
		return tok, nil
	}
	return m.Authenticate(ctx)
}

// Authenticate runs the authorization-code flow and persists the new token.
func (m *Manager) Authenticate(ctx context.Context) (string, error) {
	state := m.newState()
	authURL := m.oauth.AuthCodeURL(state)

	code, err := m.obtainCode(ctx, authURL, state)
	if err != nil {
		m.logger.Error("LinkedIn authorization failed", "err", err)
		return "", err
	}

	tok, err := m.oauth.Exchange(ctx, code)
	if err != nil {
		m.logger.Error("LinkedIn token exchange failed", "err", err)
		return "", fmt.Errorf("token exchange: %w", err)
	}

	cred := m.store.Credential()
	cred.AccessToken = tok.AccessToken
	if tok.RefreshToken != "" {
		cred.RefreshToken = tok.RefreshToken
	}
	if err := m.store.Save(cred); err != nil {
		// The token is still usable for this process.
		m.logger.Error("Failed to persist LinkedIn token", "err", err)
	} else {
		m.logger.Info("LinkedIn token saved")
	}
	return tok.AccessToken, nil
}

func (m *Manager) obtainCode(ctx context.Context, authURL, state string) (string, error) {
	redirect := m.oauth.RedirectURL
	if addr, path, ok := loopbackAddr(redirect); ok {
		return m.loopbackCode(ctx, addr, path, authURL, state)
	}

	if redirect == outOfBandRedirect || redirect == "oob" {
		fmt.Fprintf(m.out, "Open this URL, approve access and copy the code shown:\n\n%s\n\n", authURL)
	} else {
		fmt.Fprintf(m.out, "Open this URL and approve access:\n\n%s\n\n", authURL)
		fmt.Fprintf(m.out, "You will be redirected to %s?code=...\nCopy the code parameter (or the whole URL).\n\n", redirect)
	}

	input, err := m.codes.Code(ctx)
	if err != nil {
		return "", err
	}
	code, gotState := parseCodeInput(input)
	if code == "" {
		return "", ErrNoCode
	}
	if gotState != "" && gotState != state {
		return "", ErrStateMismatch
	}
	return code, nil
}

func (m *Manager) loopbackCode(ctx context.Context, addr, path, authURL, state string) (string, error) {
	srv := NewCallbackServer(addr, path, m.callbackTimeout, m.logger)
	res, err := srv.Capture(ctx, func() {
		fmt.Fprintf(m.out, "Opening browser for LinkedIn authorization. If it does not open, visit:\n\n%s\n\n", authURL)
		if err := m.openBrowser(authURL); err != nil {
			m.logger.Warn("Could not open browser", "err", err)
		}
	})
	if err != nil {
		return "", err
	}
	if res.State != state {
		return "", ErrStateMismatch
	}
	return res.Code, nil
}

// loopbackAddr reports the listen address and path of an
// http://localhost:<port>/... (or 127.0.0.1) redirect.
func loopbackAddr(redirect string) (addr, path string, ok bool) {
	u, err := url.Parse(redirect)
	if err != nil || u.Scheme != "http" || u.Port() == "" {
		return "", "", false
	}
	switch u.Hostname() {
	case "localhost", "127.0.0.1":
	default:
		return "", "", false
	}
	path = u.Path
	if path == "" {
		path = "/"
	}
	return u.Host, path, true
}

// parseCodeInput accepts either a bare code or a pasted redirect URL.
func parseCodeInput(input string) (code, state string) {
	input = strings.TrimSpace(input)
	if u, err := url.Parse(input); err == nil && u.Scheme != "" && u.RawQuery != "" {
		q := u.Query()
		return q.Get("code"), q.Get("state")
	}
	return input, ""
}
