package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("POST_INTERVAL", "")
	t.Setenv("REDDIT_SUBREDDIT", "")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "technews", cfg.Reddit.Subreddit)
	assert.Equal(t, 100, cfg.Reddit.FetchLimit)
	assert.Equal(t, 24*time.Hour, cfg.Reddit.Window)
	assert.Equal(t, 3*time.Hour, cfg.Scheduler.Interval)
	assert.Equal(t, 300*time.Second, cfg.LinkedIn.CallbackTimeout)
	assert.Equal(t, "data/posted_history.json", cfg.Storage.HistoryPath)
}

func TestLoad_ReadsEnvFile(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), ".env")
	content := "LINKEDIN_CLIENT_ID=cid\nPOST_INTERVAL=90m\nREDDIT_FETCH_LIMIT=notanumber\n"
	require.NoError(t, os.WriteFile(envFile, []byte(content), 0o600))

	// godotenv.Load never overrides variables that are already set, so clear
	// them through t.Setenv first and unset them for the load itself.
	for _, key := range []string{"LINKEDIN_CLIENT_ID", "POST_INTERVAL", "REDDIT_FETCH_LIMIT"} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}

	cfg, err := Load(envFile)
	require.NoError(t, err)

	assert.Equal(t, "cid", cfg.LinkedIn.ClientID)
	assert.Equal(t, 90*time.Minute, cfg.Scheduler.Interval)
	assert.Equal(t, 100, cfg.Reddit.FetchLimit, "invalid ints fall back to the default")
	assert.Equal(t, envFile, cfg.Storage.EnvFile)
}

func TestLoad_NonPositiveValuesFallBack(t *testing.T) {
	t.Setenv("REDDIT_FETCH_LIMIT", "-5")
	t.Setenv("REDDIT_WINDOW", "0s")
	t.Setenv("POST_INTERVAL", "-1h")
	t.Setenv("LINKEDIN_CALLBACK_TIMEOUT", "0")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, 100, cfg.Reddit.FetchLimit)
	assert.Equal(t, 24*time.Hour, cfg.Reddit.Window)
	assert.Equal(t, 3*time.Hour, cfg.Scheduler.Interval)
	assert.Equal(t, 300*time.Second, cfg.LinkedIn.CallbackTimeout)
}

func TestLinkedInConfig_Validate(t *testing.T) {
	valid := LinkedInConfig{
		ClientID:     "cid",
		ClientSecret: "secret",
		RedirectURI:  "http://localhost:8080/callback",
		Scope:        "w_member_social",
		AuthURL:      "https://www.linkedin.com/oauth/v2/authorization",
		TokenURL:     "https://www.linkedin.com/oauth/v2/accessToken",
		APIBaseURL:   "https://api.linkedin.com",
	}

	tests := []struct {
		name    string
		mutate  func(c *LinkedInConfig)
		wantErr string
	}{
		{name: "loopback redirect", mutate: func(c *LinkedInConfig) {}},
		{name: "hosted redirect", mutate: func(c *LinkedInConfig) { c.RedirectURI = "https://bot.example.com/linkedin" }},
		{name: "urn oob redirect", mutate: func(c *LinkedInConfig) { c.RedirectURI = "urn:ietf:wg:oauth:2.0:oob" }},
		{name: "bare oob redirect", mutate: func(c *LinkedInConfig) { c.RedirectURI = "oob" }},
		{name: "garbage redirect", mutate: func(c *LinkedInConfig) { c.RedirectURI = "not a redirect" }, wantErr: "RedirectURI"},
		{name: "missing secret", mutate: func(c *LinkedInConfig) { c.ClientSecret = "" }, wantErr: "ClientSecret"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid
			tt.mutate(&c)
			err := c.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
