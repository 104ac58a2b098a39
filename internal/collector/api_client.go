package collector

import (
	"context"
	"fmt"
	"time"

	"github.com/C3MO/reddit2Linkedin/internal/domain"
	"github.com/loganintech/go-reddit/v2/reddit"
	"golang.org/x/time/rate"
)

type APIClient struct {
	client  *reddit.Client
	limiter *rate.Limiter
}

// NewAPIClient builds an OAuth client. Without a username the app only reads
// public listings, so the read-only client is used instead of the password grant.
func NewAPIClient(id, secret, user, pass, userAgent string) (*APIClient, error) {
	var (
		client *reddit.Client
		err    error
	)
	if user == "" {
		client, err = reddit.NewReadonlyClient(reddit.WithUserAgent(userAgent))
	} else {
		creds := reddit.Credentials{ID: id, Secret: secret, Username: user, Password: pass}
		client, err = reddit.NewClient(creds, reddit.WithUserAgent(userAgent))
	}
	if err != nil {
		return nil, err
	}

	// API Rate Limit: ~60 reqs/min (safe buffer)
	limiter := rate.NewLimiter(rate.Every(1*time.Second), 1)

	return &APIClient{client: client, limiter: limiter}, nil
}

func (ac *APIClient) FetchNewPosts(ctx context.Context, sub string, limit int) ([]domain.Item, error) {
	if err := ac.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	posts, _, err := ac.client.Subreddit.NewPosts(ctx, sub, &reddit.ListOptions{Limit: limit})
	if err != nil {
		return nil, fmt.Errorf("authenticated api error: %w", err)
	}

	result := make([]domain.Item, 0, len(posts))
	for _, p := range posts {
		var created time.Time
		if p.Created != nil {
			created = p.Created.Time.UTC()
		}
		result = append(result, domain.Item{
			ID:           p.ID,
			Title:        p.Title,
			Author:       p.Author,
			URL:          p.URL,
			Score:        p.Score,
			CommentCount: p.NumberOfComments,
			CreatedAt:    created,
			Body:         p.Body,
		})
	}
	return result, nil
}
