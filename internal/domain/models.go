package domain

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"time"
)

// Item is one subreddit post as stored in the collection file
type Item struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Author       string    `json:"author"`
	Score        int       `json:"score"`
	URL          string    `json:"url"`
	CreatedAt    time.Time `json:"created_at"`
	CommentCount int       `json:"comment_count"`
	Body         string    `json:"body"`
}

// Collector defines the interface for data fetching
type Collector interface {
	FetchNewPosts(ctx context.Context, subreddit string, limit int) ([]Item, error)
}

// PublishHistory records which items were already shared to LinkedIn.
type PublishHistory struct {
	PostedIDs  []string   `json:"posted_ids"`
	LastPosted *time.Time `json:"last_posted"`
}

// IsPosted reports whether id was already published.
func (h *PublishHistory) IsPosted(id string) bool {
	return slices.Contains(h.PostedIDs, id)
}

// MarkPosted records id as published at now. The id is only appended once.
func (h *PublishHistory) MarkPosted(id string, now time.Time) {
	if !h.IsPosted(id) {
		h.PostedIDs = append(h.PostedIDs, id)
	}
	t := now.UTC()
	h.LastPosted = &t
}

// legacyTimestamp is the timezone-less isoformat() layout of older history files.
const legacyTimestamp = "2006-01-02T15:04:05.999999"

func (h *PublishHistory) UnmarshalJSON(data []byte) error {
	var raw struct {
		PostedIDs  []string `json:"posted_ids"`
		LastPosted *string  `json:"last_posted"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	h.PostedIDs = raw.PostedIDs
	h.LastPosted = nil
	if raw.LastPosted == nil || *raw.LastPosted == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339Nano, *raw.LastPosted)
	if err != nil {
		t, err = time.ParseInLocation(legacyTimestamp, *raw.LastPosted, time.UTC)
		if err != nil {
			return fmt.Errorf("invalid last_posted %q: %w", *raw.LastPosted, err)
		}
	}
	h.LastPosted = &t
	return nil
}

// Credential is the LinkedIn bearer credential persisted between runs
type Credential struct {
	AccessToken  string
	RefreshToken string
	PersonURN    string
}
