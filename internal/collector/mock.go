package collector

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/C3MO/reddit2Linkedin/internal/domain"
)

// MockClient implements domain.Collector but returns fake data
type MockClient struct {
	now func() time.Time
}

func NewMockClient() *MockClient {
	return &MockClient{now: time.Now}
}

func (mc *MockClient) FetchNewPosts(ctx context.Context, sub string, limit int) ([]domain.Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	now := mc.now().UTC()
	posts := make([]domain.Item, 0, limit)
	for i := 0; i < limit; i++ {
		// Newest first, one every 20 minutes, so part of a large batch
		// falls outside a 24h window like a real listing would.
		posts = append(posts, domain.Item{
			ID:           fmt.Sprintf("mock_%s_%d", sub, i),
			Title:        fmt.Sprintf("[%s] Simulated tech story #%d", sub, i),
			Author:       "simulated_user",
			URL:          fmt.Sprintf("https://example.com/%s/%d", sub, i),
			Score:        rand.Intn(500),
			CommentCount: rand.Intn(50),
			CreatedAt:    now.Add(-time.Duration(i) * 20 * time.Minute),
		})
	}
	return posts, nil
}
