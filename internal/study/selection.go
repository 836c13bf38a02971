package study

import (
	"sort"

	"github.com/example/flashcards/pkg/models"
)

// SelectActiveSet derives the ordered cards to study.
//
// With a playlist filter the result follows the playlist order exactly:
// ids that no longer resolve are skipped and repeated ids are repeated.
// Without a filter every card is returned sorted by due date, with
// undated cards last and store order kept among equal dates.
func SelectActiveSet(all []models.Card, filter *models.Playlist) []models.Card {
	if filter != nil {
		byID := make(map[string]int, len(all))
		for i, c := range all {
			if _, seen := byID[c.ID]; !seen {
				byID[c.ID] = i
			}
		}
		active := make([]models.Card, 0, len(filter.Cards))
		for _, id := range filter.Cards {
			if i, ok := byID[id]; ok {
				active = append(active, all[i])
			}
		}
		return active
	}

	active := make([]models.Card, len(all))
	copy(active, all)
	sort.SliceStable(active, func(i, j int) bool {
		a, aok := active[i].Progress.Due()
		b, bok := active[j].Progress.Due()
		switch {
		case aok && bok:
			return a.Before(b)
		case aok:
			return true
		default:
			return false
		}
	})
	return active
}
