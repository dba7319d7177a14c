package view

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BuzzLyutic/task-tracker/internal/model"
)

func task(id, title string, due model.Date, status model.Status, priority model.Priority) model.Task {
	return model.Task{ID: id, Title: title, DueDate: due, Status: status, Priority: priority}
}

func titles(tasks []model.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.Title
	}
	return out
}

func TestFilterByStatus(t *testing.T) {
	due := model.NewDate(2024, 1, 1)
	tasks := []model.Task{
		task("1", "one", due, model.StatusPending, model.PriorityLow),
		task("2", "two", due, model.StatusDone, model.PriorityLow),
		task("3", "three", due, model.StatusInProgress, model.PriorityLow),
		task("4", "four", due, model.StatusDone, model.PriorityLow),
	}

	tests := []struct {
		name   string
		filter model.StatusFilter
		want   []string
	}{
		{name: "done keeps order", filter: model.StatusFilter(model.StatusDone), want: []string{"two", "four"}},
		{name: "pending", filter: model.StatusFilter(model.StatusPending), want: []string{"one"}},
		{name: "in progress", filter: model.StatusFilter(model.StatusInProgress), want: []string{"three"}},
		{name: "all", filter: model.FilterAll, want: []string{"one", "two", "three", "four"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, titles(FilterByStatus(tasks, tt.filter)))
		})
	}
}

func TestFilterByStatus_DoesNotAliasInput(t *testing.T) {
	tasks := []model.Task{task("1", "one", model.Date{}, model.StatusPending, model.PriorityLow)}
	out := FilterByStatus(tasks, model.FilterAll)
	out[0].Title = "changed"
	assert.Equal(t, "one", tasks[0].Title)
}

func TestSort(t *testing.T) {
	t.Run("date is stable", func(t *testing.T) {
		tasks := []model.Task{
			task("b", "B", model.NewDate(2024, 1, 5), model.StatusPending, model.PriorityLow),
			task("a", "A", model.NewDate(2024, 1, 1), model.StatusPending, model.PriorityLow),
			task("c", "C", model.NewDate(2024, 1, 1), model.StatusPending, model.PriorityLow),
		}
		assert.Equal(t, []string{"A", "C", "B"}, titles(Sort(tasks, model.SortByDate)))
		assert.Equal(t, []string{"B", "A", "C"}, titles(tasks), "input must not be reordered")
	})

	t.Run("priority descending", func(t *testing.T) {
		due := model.NewDate(2024, 1, 1)
		tasks := []model.Task{
			task("1", "low", due, model.StatusPending, model.PriorityLow),
			task("2", "high", due, model.StatusPending, model.PriorityHigh),
			task("3", "medium", due, model.StatusPending, model.PriorityMedium),
		}
		assert.Equal(t, []string{"high", "medium", "low"}, titles(Sort(tasks, model.SortByPriority)))
	})

	t.Run("unknown priority sorts last", func(t *testing.T) {
		due := model.NewDate(2024, 1, 1)
		tasks := []model.Task{
			task("1", "none", due, model.StatusPending, ""),
			task("2", "low", due, model.StatusPending, model.PriorityLow),
			task("3", "high", due, model.StatusPending, model.PriorityHigh),
			task("4", "low too", due, model.StatusPending, model.PriorityLow),
		}
		assert.Equal(t, []string{"high", "low", "low too", "none"}, titles(Sort(tasks, model.SortByPriority)))
	})

	t.Run("name is locale aware", func(t *testing.T) {
		due := model.NewDate(2024, 1, 1)
		tasks := []model.Task{
			task("1", "banana", due, model.StatusPending, model.PriorityLow),
			task("2", "Apple", due, model.StatusPending, model.PriorityLow),
			task("3", "cherry", due, model.StatusPending, model.PriorityLow),
			task("4", "apricot", due, model.StatusPending, model.PriorityLow),
		}
		assert.Equal(t, []string{"Apple", "apricot", "banana", "cherry"}, titles(Sort(tasks, model.SortByName)))
	})

	t.Run("unknown option keeps order", func(t *testing.T) {
		due := model.NewDate(2024, 1, 1)
		tasks := []model.Task{
			task("1", "z", due, model.StatusPending, model.PriorityLow),
			task("2", "a", due, model.StatusPending, model.PriorityHigh),
		}
		assert.Equal(t, []string{"z", "a"}, titles(Sort(tasks, "bogus")))
	})
}

func TestIsOverdue(t *testing.T) {
	now := time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)
	yesterday := model.DateOf(now.AddDate(0, 0, -1))
	tomorrow := model.DateOf(now.AddDate(0, 0, 1))

	assert.True(t, IsOverdue(task("1", "t", yesterday, model.StatusPending, model.PriorityLow), now))
	assert.True(t, IsOverdue(task("1", "t", yesterday, model.StatusInProgress, model.PriorityLow), now))
	assert.False(t, IsOverdue(task("1", "t", yesterday, model.StatusDone, model.PriorityLow), now))
	assert.False(t, IsOverdue(task("1", "t", tomorrow, model.StatusPending, model.PriorityLow), now))
}

func TestComputeStats(t *testing.T) {
	now := time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)

	t.Run("empty", func(t *testing.T) {
		s := ComputeStats(nil, now)
		assert.Equal(t, Stats{}, s)
		assert.Zero(t, s.CompletionRate)
	})

	t.Run("mixed", func(t *testing.T) {
		past := model.NewDate(2024, 6, 1)
		future := model.NewDate(2024, 7, 1)
		tasks := []model.Task{
			task("1", "a", past, model.StatusPending, model.PriorityHigh),
			task("2", "b", past, model.StatusDone, model.PriorityHigh),
			task("3", "c", future, model.StatusInProgress, model.PriorityMedium),
			task("4", "d", past, model.StatusInProgress, model.PriorityLow),
		}

		s := ComputeStats(tasks, now)
		assert.Equal(t, Stats{
			Total:          4,
			Pending:        1,
			InProgress:     2,
			Done:           1,
			HighPriority:   2,
			MediumPriority: 1,
			LowPriority:    1,
			CompletionRate: 25,
			OverdueCount:   2,
		}, s)

		share := s.PriorityShare()
		assert.InDelta(t, 50, share.High, 0.001)
		assert.InDelta(t, 25, share.Medium, 0.001)
		assert.InDelta(t, 25, share.Low, 0.001)
	})

	t.Run("empty share", func(t *testing.T) {
		assert.Equal(t, PriorityShare{}, Stats{}.PriorityShare())
	})
}

func TestRecent(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	var tasks []model.Task
	for i := 0; i < 7; i++ {
		tasks = append(tasks, model.Task{ID: string(rune('a' + i)), CreatedAt: base.Add(time.Duration(i) * time.Hour)})
	}

	recent := Recent(tasks, 5)
	require.Len(t, recent, 5)
	assert.Equal(t, "g", recent[0].ID)
	assert.Equal(t, "c", recent[4].ID)

	assert.Len(t, Recent(tasks[:2], 5), 2)
}

func TestCalendar(t *testing.T) {
	tasks := []model.Task{
		task("1", "low on 15th", model.NewDate(2024, 1, 15), model.StatusPending, model.PriorityLow),
		task("2", "high on 15th", model.NewDate(2024, 1, 15), model.StatusPending, model.PriorityHigh),
		task("3", "first", model.NewDate(2024, 1, 1), model.StatusDone, model.PriorityMedium),
		task("4", "february", model.NewDate(2024, 2, 1), model.StatusPending, model.PriorityHigh),
		task("5", "last year", model.NewDate(2023, 1, 15), model.StatusPending, model.PriorityHigh),
	}

	cal := Calendar(tasks, 2024, time.January)
	require.Len(t, cal.Days, 31)
	assert.Equal(t, 1, cal.LeadingBlanks, "2024-01-01 was a Monday")
	assert.Equal(t, "2024-01-01", cal.Days[0].Date.String())
	assert.Equal(t, []string{"first"}, titles(cal.Days[0].Tasks))
	assert.Equal(t, []string{"high on 15th", "low on 15th"}, titles(cal.Days[14].Tasks))
	assert.Empty(t, cal.Days[30].Tasks)

	feb := Calendar(tasks, 2024, time.February)
	assert.Len(t, feb.Days, 29, "leap year")
	assert.Equal(t, 4, feb.LeadingBlanks)
}
