package model

import (
	"slices"
	"time"
)

// DueSoonDays is the horizon inside which the due date outranks priority.
const DueSoonDays = 10

type Schedulable interface {
	Due() *time.Time
	Importance() Priority
}

func daysUntil(due *time.Time, now time.Time) int {
	if due == nil {
		return DueSoonDays
	}
	return int(due.Sub(now).Hours() / 24)
}

// CompareDueAndPriority orders items due within DueSoonDays first, earliest
// first, and everything else by priority from High to Low.
func CompareDueAndPriority(a, b Schedulable, now time.Time) int {
	aDays := daysUntil(a.Due(), now)
	bDays := daysUntil(b.Due(), now)

	switch {
	case aDays < DueSoonDays && aDays < bDays:
		return -1
	case bDays < DueSoonDays && bDays < aDays:
		return 1
	}
	return b.Importance().rank() - a.Importance().rank()
}

func SortByDueAndPriority[S ~[]E, E Schedulable](items S, now time.Time) {
	slices.SortStableFunc(items, func(a, b E) int {
		return CompareDueAndPriority(a, b, now)
	})
}
