// Package view holds the pure computations behind the task list, dashboard,
// calendar and report screens. Nothing here touches storage or reads the
// clock; callers pass "now" in.
package view

import (
	"slices"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/BuzzLyutic/task-tracker/internal/model"
)

// FilterByStatus returns the tasks matching filter, in input order.
// FilterAll returns a copy of every task.
func FilterByStatus(tasks []model.Task, filter model.StatusFilter) []model.Task {
	if filter == model.FilterAll || filter == "" {
		return slices.Clone(tasks)
	}
	out := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		if string(t.Status) == string(filter) {
			out = append(out, t)
		}
	}
	return out
}

// Sort returns a stably sorted copy of tasks. Unknown options keep input order.
func Sort(tasks []model.Task, by model.SortOption) []model.Task {
	out := slices.Clone(tasks)
	switch by {
	case model.SortByDate:
		slices.SortStableFunc(out, func(a, b model.Task) int {
			return a.DueDate.Compare(b.DueDate.Time)
		})
	case model.SortByName:
		c := collate.New(language.English)
		slices.SortStableFunc(out, func(a, b model.Task) int {
			return c.CompareString(a.Title, b.Title)
		})
	case model.SortByPriority:
		slices.SortStableFunc(out, func(a, b model.Task) int {
			return b.Priority.Rank() - a.Priority.Rank()
		})
	}
	return out
}

// IsOverdue reports whether t was due before now and is not done.
func IsOverdue(t model.Task, now time.Time) bool {
	return t.Status != model.StatusDone && t.DueDate.Before(now)
}

// Recent returns up to n tasks, newest created first.
func Recent(tasks []model.Task, n int) []model.Task {
	out := slices.Clone(tasks)
	slices.SortStableFunc(out, func(a, b model.Task) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	if n >= 0 && len(out) > n {
		out = out[:n]
	}
	return out
}
