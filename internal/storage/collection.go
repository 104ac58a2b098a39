package storage

import (
	"encoding/json"
	"errors"
	"io/fs"
	"log/slog"
	"os"

	"github.com/C3MO/reddit2Linkedin/internal/domain"
)

// Collection is the item file written by the ingestor and read by the scheduler.
type Collection struct {
	FilePath string
	Logger   *slog.Logger
}

func NewCollection(path string, logger *slog.Logger) *Collection {
	if logger == nil {
		logger = slog.Default()
	}
	return &Collection{FilePath: path, Logger: logger}
}

// LoadItems returns the stored items in file order. A missing or unreadable
// file counts as an empty collection.
func (c *Collection) LoadItems() []domain.Item {
	data, err := os.ReadFile(c.FilePath)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			c.Logger.Warn("Item collection unreadable, treating as empty", "path", c.FilePath, "err", err)
		}
		return nil
	}

	var items []domain.Item
	if err := json.Unmarshal(data, &items); err != nil {
		c.Logger.Warn("Item collection malformed, treating as empty", "path", c.FilePath, "err", err)
		return nil
	}
	return items
}

// SaveItems replaces the whole collection.
func (c *Collection) SaveItems(items []domain.Item) error {
	if items == nil {
		items = []domain.Item{}
	}
	return writeJSON(c.FilePath, items)
}
