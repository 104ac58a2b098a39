package storage

import (
	"encoding/json"
	"errors"
	"io/fs"
	"log/slog"
	"os"

	"github.com/C3MO/reddit2Linkedin/internal/domain"
)

// HistoryStore persists the set of item ids already published.
type HistoryStore struct {
	FilePath string
	Logger   *slog.Logger
}

func NewHistoryStore(path string, logger *slog.Logger) *HistoryStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &HistoryStore{FilePath: path, Logger: logger}
}

// Load never fails: a missing or malformed file yields an empty history.
func (s *HistoryStore) Load() domain.PublishHistory {
	data, err := os.ReadFile(s.FilePath)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.Logger.Warn("Publish history unreadable, starting empty", "path", s.FilePath, "err", err)
		}
		return domain.PublishHistory{PostedIDs: []string{}}
	}

	var h domain.PublishHistory
	if err := json.Unmarshal(data, &h); err != nil {
		s.Logger.Warn("Publish history malformed, starting empty", "path", s.FilePath, "err", err)
		return domain.PublishHistory{PostedIDs: []string{}}
	}
	if h.PostedIDs == nil {
		h.PostedIDs = []string{}
	}
	return h
}

func (s *HistoryStore) Save(h domain.PublishHistory) error {
	if h.PostedIDs == nil {
		h.PostedIDs = []string{}
	}
	return writeJSON(s.FilePath, h)
}

