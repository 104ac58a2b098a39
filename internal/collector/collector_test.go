package collector

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/C3MO/reddit2Linkedin/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublicClient_FetchNewPosts(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/r/technews/new.json", r.URL.Path)
		assert.Equal(t, "100", r.URL.Query().Get("limit"))
		assert.Equal(t, "test-agent", r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":{"children":[
			{"data":{"id":"abc","title":"Chips","author":"alice","url":"https://example.com/chips",
			 "score":42,"num_comments":7,"created_utc":1714557600.0,"selftext":"body text"}}
		]}}`))
	}))
	defer server.Close()

	client, err := NewPublicClient("test-agent")
	require.NoError(t, err)
	client.baseURL = server.URL

	posts, err := client.FetchNewPosts(context.Background(), "technews", 100)
	require.NoError(t, err)
	require.Len(t, posts, 1)

	p := posts[0]
	assert.Equal(t, "abc", p.ID)
	assert.Equal(t, "alice", p.Author)
	assert.Equal(t, 42, p.Score)
	assert.Equal(t, 7, p.CommentCount)
	assert.Equal(t, "body text", p.Body)
	assert.True(t, time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC).Equal(p.CreatedAt))
}

func TestPublicClient_FetchNewPosts_Status(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client, err := NewPublicClient("test-agent")
	require.NoError(t, err)
	client.baseURL = server.URL

	posts, err := client.FetchNewPosts(context.Background(), "technews", 10)
	assert.Nil(t, posts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestMockClient_FetchNewPosts(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	mc := &MockClient{now: func() time.Time { return now }}

	posts, err := mc.FetchNewPosts(context.Background(), "technews", 3)
	require.NoError(t, err)
	require.Len(t, posts, 3)
	assert.Equal(t, "mock_technews_0", posts[0].ID)
	assert.True(t, posts[0].CreatedAt.Equal(now))
	assert.True(t, posts[2].CreatedAt.Equal(now.Add(-40*time.Minute)))
}

func TestNewCollector(t *testing.T) {
	c, err := NewCollector(config.RedditConfig{Mode: "mock"})
	require.NoError(t, err)
	assert.IsType(t, &MockClient{}, c)

	_, err = NewCollector(config.RedditConfig{Mode: "public"})
	assert.ErrorContains(t, err, "REDDIT_USER_AGENT")

	_, err = NewCollector(config.RedditConfig{Mode: "carrier-pigeon"})
	assert.ErrorContains(t, err, "unknown COLLECTOR_MODE")
}
