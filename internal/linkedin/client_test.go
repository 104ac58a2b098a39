package linkedin

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/C3MO/reddit2Linkedin/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAPI struct {
	userinfoStatus int
	userinfoBody   string
	shareStatus    int
	shares         []map[string]any
}

func (f *fakeAPI) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/v2/userinfo", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		w.WriteHeader(f.userinfoStatus)
		w.Write([]byte(f.userinfoBody))
	})
	mux.HandleFunc("/v2/ugcPosts", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.Equal(t, "2.0.0", r.Header.Get("X-Restli-Protocol-Version"))
		var body map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		f.shares = append(f.shares, body)
		w.Header().Set("X-RestLi-Id", "urn:li:share:1")
		w.WriteHeader(f.shareStatus)
		w.Write([]byte(`{"message":"nope"}`))
	})
	return mux
}

func newTestClient(t *testing.T, api *fakeAPI, fallback string) *Client {
	srv := httptest.NewServer(api.handler(t))
	t.Cleanup(srv.Close)
	return NewClient(config.LinkedInConfig{APIBaseURL: srv.URL + "/", PersonURN: fallback}, nil)
}

func TestClient_ResolveIdentity(t *testing.T) {
	tests := []struct {
		name     string
		api      fakeAPI
		fallback string
		want     string
		wantErr  error
	}{
		{
			name: "userinfo sub",
			api:  fakeAPI{userinfoStatus: http.StatusOK, userinfoBody: `{"sub":"abc123"}`},
			want: "urn:li:person:abc123",
		},
		{
			name: "legacy id field",
			api:  fakeAPI{userinfoStatus: http.StatusOK, userinfoBody: `{"id":"legacy"}`},
			want: "urn:li:person:legacy",
		},
		{
			name:     "lookup fails, bare fallback is normalized",
			api:      fakeAPI{userinfoStatus: http.StatusForbidden},
			fallback: "xyz",
			want:     "urn:li:person:xyz",
		},
		{
			name:     "lookup fails, full fallback kept",
			api:      fakeAPI{userinfoStatus: http.StatusUnauthorized},
			fallback: "urn:li:person:xyz",
			want:     "urn:li:person:xyz",
		},
		{
			name:    "no identity anywhere",
			api:     fakeAPI{userinfoStatus: http.StatusUnauthorized},
			wantErr: ErrNoIdentity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, &tt.api, tt.fallback)
			got, err := c.ResolveIdentity(context.Background(), "tok")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClient_Publish(t *testing.T) {
	api := &fakeAPI{userinfoStatus: http.StatusOK, userinfoBody: `{"sub":"abc"}`, shareStatus: http.StatusCreated}
	c := newTestClient(t, api, "")

	err := c.Publish(context.Background(), "tok", "New chip announced", "https://example.com/chip")
	require.NoError(t, err)
	require.Len(t, api.shares, 1)

	want := `{
		"author": "urn:li:person:abc",
		"lifecycleState": "PUBLISHED",
		"specificContent": {
			"com.linkedin.ugc.ShareContent": {
				"shareCommentary": {"text": "New chip announced\n\nRead more: https://example.com/chip"},
				"shareMediaCategory": "ARTICLE",
				"media": [{"status": "READY", "originalUrl": "https://example.com/chip", "title": {"text": "New chip announced"}}]
			}
		},
		"visibility": {"com.linkedin.ugc.MemberNetworkVisibility": "PUBLIC"}
	}`
	got, err := json.Marshal(api.shares[0])
	require.NoError(t, err)
	assert.JSONEq(t, want, string(got))
}

func TestClient_Publish_NonCreatedIsStatusError(t *testing.T) {
	for _, status := range []int{http.StatusOK, http.StatusUnauthorized, http.StatusUnprocessableEntity} {
		api := &fakeAPI{userinfoStatus: http.StatusOK, userinfoBody: `{"sub":"abc"}`, shareStatus: status}
		c := newTestClient(t, api, "")

		err := c.Publish(context.Background(), "tok", "t", "https://example.com")
		var se *StatusError
		require.ErrorAs(t, err, &se)
		assert.Equal(t, status, se.Code)
		assert.Equal(t, `{"message":"nope"}`, se.Body)
		assert.Len(t, api.shares, 1, "sent once, no retry")
	}
}

func TestClient_Publish_NoIdentityAborts(t *testing.T) {
	api := &fakeAPI{userinfoStatus: http.StatusUnauthorized, shareStatus: http.StatusCreated}
	c := newTestClient(t, api, "")

	err := c.Publish(context.Background(), "tok", "t", "https://example.com")
	assert.ErrorIs(t, err, ErrNoIdentity)
	assert.Empty(t, api.shares)
}

func TestNormalizeURN(t *testing.T) {
	assert.Equal(t, "", NormalizeURN("  "))
	assert.Equal(t, "urn:li:person:a", NormalizeURN("a"))
	assert.Equal(t, "urn:li:person:a", NormalizeURN("urn:li:person:a"))
}
