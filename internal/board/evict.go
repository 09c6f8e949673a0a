package board

import (
	"sort"

	"github.com/mesh-intelligence/boardstore/internal/coerce"
	"github.com/mesh-intelligence/boardstore/pkg/types"
)

// evict removes the oldest items until items holds at most maxCount entries
// and returns the removed ids. Items are ordered by time, with a missing or
// non-numeric time counting as 0, and ties broken by id.
func evict(items types.Board, maxCount int) []string {
	surplus := len(items) - maxCount
	if surplus <= 0 {
		return nil
	}

	ids := make([]string, 0, len(items))
	for id := range items {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		ti, tj := itemTime(items[ids[i]]), itemTime(items[ids[j]])
		if ti != tj {
			return ti < tj
		}
		return ids[i] < ids[j]
	})

	removed := ids[:surplus]
	for _, id := range removed {
		delete(items, id)
	}
	return removed
}

func itemTime(it types.Item) float64 {
	if it == nil {
		return 0
	}
	t, ok := coerce.Number(it[types.FieldTime])
	if !ok {
		return 0
	}
	return t
}
