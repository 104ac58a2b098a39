package collector

import (
	"fmt"

	"github.com/C3MO/reddit2Linkedin/internal/config"
	"github.com/C3MO/reddit2Linkedin/internal/domain"
)

// NewCollector selects the correct implementation based on the mode
func NewCollector(cfg config.RedditConfig) (domain.Collector, error) {
	switch cfg.Mode {
	case "api":
		if cfg.UserAgent == "" {
			return nil, fmt.Errorf("REDDIT_USER_AGENT is required for api mode")
		}
		return NewAPIClient(cfg.ClientID, cfg.ClientSecret, cfg.Username, cfg.Password, cfg.UserAgent)
	case "public":
		if cfg.UserAgent == "" {
			return nil, fmt.Errorf("REDDIT_USER_AGENT is required for public mode")
		}
		return NewPublicClient(cfg.UserAgent)
	case "mock":
		return NewMockClient(), nil
	default:
		return nil, fmt.Errorf("unknown COLLECTOR_MODE: %s (use 'api', 'public', or 'mock')", cfg.Mode)
	}
}
