// Package ranking implements the dense competition (1224) ranking applied to
// every comparison pool: entries with equal completion times share a rank,
// and the next distinct time skips ahead by the size of the tie group.
package ranking

import "sort"

// Entry is any timed row that can receive a rank and a points value.
// Both submissions and league runs satisfy it.
type Entry interface {
	TimeMillis() int
	SetResult(rank, points int)
}

// Apply ranks the full membership of one scope in place.
// Entries are sorted ascending by completion time (stable, so tied entries
// keep their input order), ranks are assigned 1224-style, and points are
// derived as n - rank + 1 so last place is worth 1 and first place n.
//
// Apply must always be handed the scope's entire live membership. Re-ranking
// is total and idempotent; it is never a delta patch on a previous ranking.
func Apply[E Entry](entries []E) {
	if len(entries) == 0 {
		return
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].TimeMillis() < entries[j].TimeMillis()
	})

	total := len(entries)
	prevTime := -1
	prevRank := 0
	tieRun := 1

	for _, entry := range entries {
		t := entry.TimeMillis()

		var rank int
		if prevRank > 0 && t == prevTime {
			rank = prevRank
			tieRun++
		} else {
			rank = prevRank + tieRun
			prevRank = rank
			prevTime = t
			tieRun = 1
		}

		entry.SetResult(rank, total-rank+1)
	}
}
