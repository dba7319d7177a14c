package view

import (
	"time"

	"github.com/BuzzLyutic/task-tracker/internal/model"
)

type CalendarDay struct {
	Date  model.Date   `json:"date"`
	Tasks []model.Task `json:"tasks"`
}

// CalendarMonth is a Sunday-first month grid. LeadingBlanks is the number of
// empty cells before day 1.
type CalendarMonth struct {
	Year          int           `json:"year"`
	Month         time.Month    `json:"month"`
	LeadingBlanks int           `json:"leadingBlanks"`
	Days          []CalendarDay `json:"days"`
}

// Calendar places every task due in the given month on its day, highest
// priority first.
func Calendar(tasks []model.Task, year int, month time.Month) CalendarMonth {
	first := model.NewDate(year, month, 1)
	daysIn := first.AddDate(0, 1, -1).Day()

	cal := CalendarMonth{
		Year:          year,
		Month:         month,
		LeadingBlanks: int(first.Weekday()),
		Days:          make([]CalendarDay, daysIn),
	}
	for i := range cal.Days {
		cal.Days[i] = CalendarDay{Date: model.NewDate(year, month, i+1), Tasks: []model.Task{}}
	}
	for _, t := range Sort(tasks, model.SortByPriority) {
		y, m, d := t.DueDate.Date()
		if y != year || m != month {
			continue
		}
		cal.Days[d-1].Tasks = append(cal.Days[d-1].Tasks, t)
	}
	return cal
}
