package scheduler

import (
	"sort"

	"github.com/C3MO/reddit2Linkedin/internal/domain"
)

// Candidates returns the items not yet published, in collection order.
func Candidates(items []domain.Item, h domain.PublishHistory) []domain.Item {
	posted := make(map[string]struct{}, len(h.PostedIDs))
	for _, id := range h.PostedIDs {
		posted[id] = struct{}{}
	}

	out := make([]domain.Item, 0, len(items))
	for _, it := range items {
		if _, ok := posted[it.ID]; !ok {
			out = append(out, it)
		}
	}
	return out
}

// Ranked returns the candidates in publish order: highest score first, equal
// scores keep their collection order.
func Ranked(items []domain.Item, h domain.PublishHistory) []domain.Item {
	c := Candidates(items, h)
	sort.SliceStable(c, func(i, j int) bool { return c[i].Score > c[j].Score })
	return c
}

// SelectNext picks the item the next cycle would publish.
func SelectNext(items []domain.Item, h domain.PublishHistory) (domain.Item, bool) {
	c := Ranked(items, h)
	if len(c) == 0 {
		return domain.Item{}, false
	}
	return c[0], true
}
