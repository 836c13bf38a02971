package study

import (
	"context"
	"sort"
	"strings"

	"github.com/example/flashcards/pkg/models"
)

// CardSearcher is implemented by card stores that can search on their own
type CardSearcher interface {
	SearchCards(ctx context.Context, pattern string) ([]models.Card, error)
}

// SearchCards returns the cards whose word or definition contains pattern,
// ignoring case, ordered by word. Stores without their own search are
// scanned in memory.
func SearchCards(ctx context.Context, cards CardStore, pattern string) ([]models.Card, error) {
	if searcher, ok := cards.(CardSearcher); ok {
		found, err := searcher.SearchCards(ctx, pattern)
		if err != nil {
			return nil, storeError("search cards", err)
		}
		return found, nil
	}

	all, err := cards.GetAll(ctx)
	if err != nil {
		return nil, storeError("load cards", err)
	}
	needle := strings.ToLower(pattern)
	found := make([]models.Card, 0)
	for _, c := range all {
		if strings.Contains(strings.ToLower(c.Word), needle) || strings.Contains(strings.ToLower(c.Definition), needle) {
			found = append(found, c)
		}
	}
	sort.SliceStable(found, func(i, j int) bool { return found[i].Word < found[j].Word })
	return found, nil
}
