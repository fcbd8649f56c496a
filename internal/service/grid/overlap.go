package grid

import (
	"sort"

	"github.com/crossings/gridlight/internal/domain"
)

// Overlapping returns the blocks whose half-open [start,end) window
// strictly overlaps [startMin,endMin): a block matches iff
// startMin < blockEnd AND endMin > blockStart. Touching windows
// (endMin == blockStart or startMin == blockEnd) never match.
// The result is ordered by block start time.
func Overlapping(blocks []domain.LanguageBlock, startMin, endMin int) []domain.LanguageBlock {
	var out []domain.LanguageBlock
	for _, b := range blocks {
		if startMin < b.EndMinutes() && endMin > b.StartMinutes() {
			out = append(out, b)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].StartMinutes() < out[j].StartMinutes()
	})
	return out
}
