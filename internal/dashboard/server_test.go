package dashboard

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/C3MO/reddit2Linkedin/internal/domain"
	"github.com/C3MO/reddit2Linkedin/internal/metrics"
	"github.com/stretchr/testify/assert"
)

type staticItems []domain.Item

func (s staticItems) LoadItems() []domain.Item { return s }

type staticHistory domain.PublishHistory

func (s staticHistory) Load() domain.PublishHistory { return domain.PublishHistory(s) }

func TestServer_Charts(t *testing.T) {
	items := staticItems{{ID: "abc", Title: "A", Score: 5}, {ID: "def", Title: "D", Score: 7}}
	s := NewServer("0", items, staticHistory{PostedIDs: []string{"abc"}}, nil, nil)

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Publishing Queue")
	assert.Contains(t, body, "Publishing Progress")
	assert.Contains(t, body, "def")
	assert.Contains(t, body, "westeros", "queue chart uses the westeros theme")
}

func TestServer_Metrics(t *testing.T) {
	rec := metrics.New("r2l")
	rec.Cycle("idle")
	s := NewServer("0", staticItems{}, staticHistory{}, rec, nil)

	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "r2l_publish_cycles_total")
}
