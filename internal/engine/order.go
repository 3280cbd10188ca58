package engine

import (
	"slices"

	"garden/internal/storage"
)

// SortForDisplay returns tasks in display order: incomplete before completed, then
// priority descending, then newest first. The input slice is not modified.
func SortForDisplay(tasks []storage.Task) []storage.Task {
	out := slices.Clone(tasks)
	slices.SortStableFunc(out, func(a, b storage.Task) int {
		if a.Completed != b.Completed {
			if a.Completed {
				return 1
			}
			return -1
		}
		ra, rb := Priority(a.Priority).Rank(), Priority(b.Priority).Rank()
		if ra != rb {
			return rb - ra
		}
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return out
}
