package view

import (
	"time"

	"github.com/BuzzLyutic/task-tracker/internal/model"
)

type Stats struct {
	Total          int     `json:"total" yaml:"total"`
	Pending        int     `json:"pending" yaml:"pending"`
	InProgress     int     `json:"inProgress" yaml:"inProgress"`
	Done           int     `json:"done" yaml:"done"`
	HighPriority   int     `json:"highPriority" yaml:"highPriority"`
	MediumPriority int     `json:"mediumPriority" yaml:"mediumPriority"`
	LowPriority    int     `json:"lowPriority" yaml:"lowPriority"`
	CompletionRate float64 `json:"completionRate" yaml:"completionRate"`
	OverdueCount   int     `json:"overdueCount" yaml:"overdueCount"`
}

// ComputeStats aggregates a snapshot. CompletionRate is a percentage and is
// 0 for an empty snapshot.
func ComputeStats(tasks []model.Task, now time.Time) Stats {
	var s Stats
	s.Total = len(tasks)
	for _, t := range tasks {
		switch t.Status {
		case model.StatusPending:
			s.Pending++
		case model.StatusInProgress:
			s.InProgress++
		case model.StatusDone:
			s.Done++
		}
		switch t.Priority {
		case model.PriorityHigh:
			s.HighPriority++
		case model.PriorityMedium:
			s.MediumPriority++
		case model.PriorityLow:
			s.LowPriority++
		}
		if IsOverdue(t, now) {
			s.OverdueCount++
		}
	}
	s.CompletionRate = percent(s.Done, s.Total)
	return s
}

// PriorityShare is the share of each priority in percent, for the report bars.
type PriorityShare struct {
	High   float64 `json:"high" yaml:"high"`
	Medium float64 `json:"medium" yaml:"medium"`
	Low    float64 `json:"low" yaml:"low"`
}

func (s Stats) PriorityShare() PriorityShare {
	return PriorityShare{
		High:   percent(s.HighPriority, s.Total),
		Medium: percent(s.MediumPriority, s.Total),
		Low:    percent(s.LowPriority, s.Total),
	}
}

func percent(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) / float64(total) * 100
}
