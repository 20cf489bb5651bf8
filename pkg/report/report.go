// Package report turns an aggregated task set into a presentation-ready
// summary: a stable due-date ordering, status and priority histograms, and
// overdue/upcoming time buckets.
package report

import (
	"sort"
	"time"

	"github.com/harrisonrobin/cuppa/pkg/clickup"
)

// Bucket widths relative to "now".
const (
	weekWindow  = 7 * 24 * time.Hour
	monthWindow = 30 * 24 * time.Hour
)

// Report is the summarized view of a task set.
type Report struct {
	// Tasks sorted by ascending due date; tasks without one come last,
	// keeping their relative input order.
	Tasks []clickup.Task

	Total    int
	ByStatus map[string]int
	// ByPriority counts ordinals 1-4; key 0 counts tasks with no priority.
	ByPriority map[int]int

	Overdue      int
	DueThisWeek  int
	DueThisMonth int
}

// Summarize builds a Report from a task set. The input slice is not
// modified; buckets are evaluated against now in strict overdue → week →
// month order, so each task lands in at most one.
func Summarize(tasks []clickup.Task, now time.Time) *Report {
	sorted := make([]clickup.Task, len(tasks))
	copy(sorted, tasks)

	sort.SliceStable(sorted, func(i, j int) bool {
		di, iHas := sorted[i].Due()
		dj, jHas := sorted[j].Due()
		if !iHas {
			return false
		}
		if !jHas {
			return true
		}
		return di.Before(dj)
	})

	r := &Report{
		Tasks:      sorted,
		Total:      len(sorted),
		ByStatus:   make(map[string]int),
		ByPriority: make(map[int]int),
	}

	for i := range sorted {
		t := &sorted[i]
		r.ByStatus[t.StatusLabel()]++
		r.ByPriority[t.PriorityValue()]++

		due, has := t.Due()
		if !has {
			continue
		}
		delta := due.Sub(now)
		switch {
		case delta <= 0:
			r.Overdue++
		case delta <= weekWindow:
			r.DueThisWeek++
		case delta <= monthWindow:
			r.DueThisMonth++
		}
	}

	return r
}

// IsOverdue reports whether a task's due date has passed at now. A task
// due exactly now counts as overdue, matching the Summarize buckets.
func IsOverdue(t *clickup.Task, now time.Time) bool {
	due, has := t.Due()
	if !has {
		return false
	}
	return !due.After(now)
}
