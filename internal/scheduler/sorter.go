package scheduler

import (
	"sort"

	"github.com/alexanderramin/callsheet/internal/domain"
)

// SortByOrder returns a copy of entries sorted by the container ordering rules:
// 1. Order: ascending
// 2. Entry ID: lexical ascending (tie-break only, never a real ordering)
func SortByOrder(entries []domain.Entry) []domain.Entry {
	out := make([]domain.Entry, len(entries))
	copy(out, entries)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Order != b.Order {
			return a.Order < b.Order
		}
		return a.ID < b.ID
	})
	return out
}

// sortRows orders projected rows chronologically:
// 1. Resolved start: earliest first
// 2. Order within the container
// 3. Track order (shared rows first)
// 4. Entry ID: lexical ascending
func sortRows(rows []Row) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.StartMin != b.StartMin {
			return a.StartMin < b.StartMin
		}
		if a.Entry.Order != b.Entry.Order {
			return a.Entry.Order < b.Entry.Order
		}
		if a.trackRank != b.trackRank {
			return a.trackRank < b.trackRank
		}
		return a.Entry.ID < b.Entry.ID
	})
}

// sortByInput restores the caller's original entry order.
func sortByInput(rows []Row) {
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].inputIdx < rows[j].inputIdx
	})
}

func indexOf(seq []domain.Entry, id string) int {
	for i, e := range seq {
		if e.ID == id {
			return i
		}
	}
	return -1
}
