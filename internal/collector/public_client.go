package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"time"

	"github.com/C3MO/reddit2Linkedin/internal/domain"
	"golang.org/x/time/rate"
)

const defaultPublicBaseURL = "https://www.reddit.com"

type PublicClient struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	userAgent  string
	baseURL    string
}

type redditJSONResponse struct {
	Data struct {
		Children []struct {
			Data struct {
				ID          string  `json:"id"`
				Title       string  `json:"title"`
				Author      string  `json:"author"`
				URL         string  `json:"url"`
				Score       int     `json:"score"`
				NumComments int     `json:"num_comments"`
				CreatedUTC  float64 `json:"created_utc"`
				Selftext    string  `json:"selftext"`
			} `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

func NewPublicClient(userAgent string) (*PublicClient, error) {
	return &PublicClient{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		// Public JSON Limit: 1 req / 2 seconds (Stricter)
		limiter:   rate.NewLimiter(rate.Every(2*time.Second), 1),
		userAgent: userAgent,
		baseURL:   defaultPublicBaseURL,
	}, nil
}

func (pc *PublicClient) FetchNewPosts(ctx context.Context, sub string, limit int) ([]domain.Item, error) {
	if err := pc.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/r/%s/new.json?limit=%d", pc.baseURL, sub, limit)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", pc.userAgent)

	resp, err := pc.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("reddit public access status: %d", resp.StatusCode)
	}

	var rResp redditJSONResponse
	if err := json.NewDecoder(resp.Body).Decode(&rResp); err != nil {
		return nil, err
	}

	posts := make([]domain.Item, 0, len(rResp.Data.Children))
	for _, child := range rResp.Data.Children {
		d := child.Data
		posts = append(posts, domain.Item{
			ID:           d.ID,
			Title:        d.Title,
			Author:       d.Author,
			URL:          d.URL,
			Score:        d.Score,
			CommentCount: d.NumComments,
			CreatedAt:    unixToTime(d.CreatedUTC),
			Body:         d.Selftext,
		})
	}
	return posts, nil
}

func unixToTime(sec float64) time.Time {
	whole, frac := math.Modf(sec)
	return time.Unix(int64(whole), int64(frac*1e9)).UTC()
}
