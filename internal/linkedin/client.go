// Package linkedin resolves the member identity and creates shares through
// the LinkedIn REST API.
package linkedin

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/C3MO/reddit2Linkedin/internal/config"
	"golang.org/x/oauth2"
)

const personURNPrefix = "urn:li:person:"

// ErrNoIdentity means neither the profile endpoint nor the configuration
// yielded a person URN.
var ErrNoIdentity = errors.New("no LinkedIn person URN; set LINKEDIN_PERSON_URN or check the token scopes")

// StatusError is returned when LinkedIn answers with an unexpected status.
type StatusError struct {
	Op   string
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("linkedin %s: status %d: %s", e.Op, e.Code, e.Body)
}

// Client talks to the LinkedIn API on behalf of one member.
type Client struct {
	baseURL     string
	httpClient  *http.Client
	fallbackURN string
	logger      *slog.Logger
}

func NewClient(cfg config.LinkedInConfig, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL:     strings.TrimRight(cfg.APIBaseURL, "/"),
		httpClient:  &http.Client{Timeout: 30 * time.Second},
		fallbackURN: cfg.PersonURN,
		logger:      logger,
	}
}

// bearer returns an HTTP client that sends token as a bearer credential.
func (c *Client) bearer(ctx context.Context, token string) *http.Client {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
	client := oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"}))
	client.Timeout = c.httpClient.Timeout
	return client
}

type userInfo struct {
	Sub string `json:"sub"`
	ID  string `json:"id"`
}

// ResolveIdentity asks the profile endpoint for the member id. When that
// fails the configured URN is used instead.
func (c *Client) ResolveIdentity(ctx context.Context, token string) (string, error) {
	urn, err := c.fetchIdentity(ctx, token)
	if err == nil {
		return urn, nil
	}
	c.logger.Warn("Profile lookup failed, using configured person URN", "err", err)

	if urn := NormalizeURN(c.fallbackURN); urn != "" {
		return urn, nil
	}
	return "", ErrNoIdentity
}

func (c *Client) fetchIdentity(ctx context.Context, token string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v2/userinfo", nil)
	if err != nil {
		return "", err
	}

	resp, err := c.bearer(ctx, token).Do(req)
	if err != nil {
		return "", fmt.Errorf("profile request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", &StatusError{Op: "userinfo", Code: resp.StatusCode, Body: readSnippet(resp.Body)}
	}

	var info userInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return "", fmt.Errorf("decode profile: %w", err)
	}
	id := info.Sub
	if id == "" {
		id = info.ID
	}
	if id == "" {
		return "", errors.New("profile response has no member id")
	}
	return NormalizeURN(id), nil
}

// NormalizeURN prefixes a bare member id with urn:li:person:.
func NormalizeURN(v string) string {
	v = strings.TrimSpace(v)
	if v == "" || strings.HasPrefix(v, personURNPrefix) {
		return v
	}
	return personURNPrefix + v
}

type shareRequest struct {
	Author          string          `json:"author"`
	LifecycleState  string          `json:"lifecycleState"`
	SpecificContent specificContent `json:"specificContent"`
	Visibility      visibility      `json:"visibility"`
}

type specificContent struct {
	ShareContent shareContent `json:"com.linkedin.ugc.ShareContent"`
}

type shareContent struct {
	ShareCommentary    text         `json:"shareCommentary"`
	ShareMediaCategory string       `json:"shareMediaCategory"`
	Media              []shareMedia `json:"media"`
}

type shareMedia struct {
	Status      string `json:"status"`
	OriginalURL string `json:"originalUrl"`
	Title       text   `json:"title"`
}

type text struct {
	Text string `json:"text"`
}

type visibility struct {
	MemberNetwork string `json:"com.linkedin.ugc.MemberNetworkVisibility"`
}

// ShareText is the visible commentary of a share.
func ShareText(title, link string) string {
	return fmt.Sprintf("%s\n\nRead more: %s", title, link)
}

// Publish shares link as a public article post. Anything but 201 Created is
// returned as a *StatusError; the call is never retried here.
func (c *Client) Publish(ctx context.Context, token, title, link string) error {
	author, err := c.ResolveIdentity(ctx, token)
	if err != nil {
		return err
	}

	payload, err := json.Marshal(shareRequest{
		Author:         author,
		LifecycleState: "PUBLISHED",
		SpecificContent: specificContent{ShareContent: shareContent{
			ShareCommentary:    text{Text: ShareText(title, link)},
			ShareMediaCategory: "ARTICLE",
			Media: []shareMedia{{
				Status:      "READY",
				OriginalURL: link,
				Title:       text{Text: title},
			}},
		}},
		Visibility: visibility{MemberNetwork: "PUBLIC"},
	})
	if err != nil {
		return fmt.Errorf("encode share: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v2/ugcPosts", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Restli-Protocol-Version", "2.0.0")

	resp, err := c.bearer(ctx, token).Do(req)
	if err != nil {
		return fmt.Errorf("share request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return &StatusError{Op: "share", Code: resp.StatusCode, Body: readSnippet(resp.Body)}
	}

	c.logger.Info("Shared on LinkedIn", "share", resp.Header.Get("X-RestLi-Id"), "author", author)
	return nil
}

func readSnippet(r io.Reader) string {
	b, _ := io.ReadAll(io.LimitReader(r, 2048))
	return strings.TrimSpace(string(b))
}
