// Package tally counts the ENQUEUE events of a crawler log in a single pass.
package tally

import (
	"errors"

	"github.com/JakeFAU/enqueue-tally/internal/logline"
)

// ErrNoThreads is returned by Average when no thread id was tallied.
var ErrNoThreads = errors.New("no thread ids tallied")

// ThreadCount is a tally entry.
type ThreadCount struct {
	ThreadID string
	Count    int
}

// Duplicate lists the threads that enqueued an already seen path, in order of
// occurrence, starting from the second enqueue.
type Duplicate struct {
	Path    string
	Threads []string
}

// ThreadActions counts every action a thread logged.
type ThreadActions struct {
	ThreadID string
	Counts   map[string]int
}

// LineStats counts lines by classification outcome.
type LineStats struct {
	Read     int
	Outcomes map[logline.Outcome]int
}

// Result holds the aggregates of one pass. The zero value is not usable; call
// NewResult.
type Result struct {
	// Total is the number of tracked actions, equal to the sum of all counts.
	Total int
	// Lines describes how the input lines were classified.
	Lines LineStats

	tracked string

	counts map[string]int
	order  []string

	seen map[string]struct{}

	dupes     map[string][]string
	dupeOrder []string

	actions     map[string]map[string]int
	actionOrder []string
}

// NewResult returns an empty Result that tallies records whose action equals
// tracked.
func NewResult(tracked string) *Result {
	if tracked == "" {
		tracked = logline.ActionEnqueue
	}
	return &Result{
		Lines:   LineStats{Outcomes: make(map[logline.Outcome]int)},
		tracked: tracked,
		counts:  make(map[string]int),
		seen:    make(map[string]struct{}),
		dupes:   make(map[string][]string),
		actions: make(map[string]map[string]int),
	}
}

// TrackedAction returns the action this result tallies.
func (r *Result) TrackedAction() string {
	return r.tracked
}

// Add folds a record into the result. It reports whether the record was
// tallied and, if so, whether its path had been seen before.
func (r *Result) Add(rec logline.Record) (tallied, duplicate bool) {
	perThread, ok := r.actions[rec.ThreadID]
	if !ok {
		perThread = make(map[string]int)
		r.actions[rec.ThreadID] = perThread
		r.actionOrder = append(r.actionOrder, rec.ThreadID)
	}
	perThread[rec.Action]++

	if rec.Action != r.tracked {
		return false, false
	}

	if _, ok := r.counts[rec.ThreadID]; !ok {
		r.order = append(r.order, rec.ThreadID)
	}
	r.counts[rec.ThreadID]++
	r.Total++

	if _, ok := r.seen[rec.Path]; ok {
		if _, listed := r.dupes[rec.Path]; !listed {
			r.dupeOrder = append(r.dupeOrder, rec.Path)
		}
		r.dupes[rec.Path] = append(r.dupes[rec.Path], rec.ThreadID)
		duplicate = true
	}
	r.seen[rec.Path] = struct{}{}
	return true, duplicate
}

// Count returns the tally of a thread id, zero if it never enqueued.
func (r *Result) Count(threadID string) int {
	return r.counts[threadID]
}

// Threads returns the tally in first-insertion order.
func (r *Result) Threads() []ThreadCount {
	out := make([]ThreadCount, 0, len(r.order))
	for _, tid := range r.order {
		out = append(out, ThreadCount{ThreadID: tid, Count: r.counts[tid]})
	}
	return out
}

// Seen reports whether path has been enqueued.
func (r *Result) Seen(path string) bool {
	_, ok := r.seen[path]
	return ok
}

// SeenCount returns the number of distinct enqueued paths.
func (r *Result) SeenCount() int {
	return len(r.seen)
}

// Duplicates returns the repeated paths in order of their first repeat.
func (r *Result) Duplicates() []Duplicate {
	out := make([]Duplicate, 0, len(r.dupeOrder))
	for _, path := range r.dupeOrder {
		out = append(out, Duplicate{
			Path:    path,
			Threads: append([]string(nil), r.dupes[path]...),
		})
	}
	return out
}

// DuplicatePaths returns only the keys of Duplicates.
func (r *Result) DuplicatePaths() []string {
	return append([]string(nil), r.dupeOrder...)
}

// Average returns Total divided by the number of distinct thread ids.
func (r *Result) Average() (float64, error) {
	if len(r.order) == 0 {
		return 0, ErrNoThreads
	}
	return float64(r.Total) / float64(len(r.order)), nil
}

// Actions returns the per-thread action breakdown in first-insertion order.
func (r *Result) Actions() []ThreadActions {
	out := make([]ThreadActions, 0, len(r.actionOrder))
	for _, tid := range r.actionOrder {
		counts := make(map[string]int, len(r.actions[tid]))
		for action, n := range r.actions[tid] {
			counts[action] = n
		}
		out = append(out, ThreadActions{ThreadID: tid, Counts: counts})
	}
	return out
}
