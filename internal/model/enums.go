package model

import (
	"encoding/json"
	"fmt"
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in-progress"
	StatusDone       Status = "done"
)

var Statuses = []Status{StatusPending, StatusInProgress, StatusDone}

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusDone:
		return true
	}
	return false
}

func ParseStatus(v string) (Status, error) {
	s := Status(v)
	if !s.Valid() {
		return "", fmt.Errorf("unknown status %q", v)
	}
	return s, nil
}

func (s *Status) UnmarshalJSON(b []byte) error {
	var v string
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	parsed, err := ParseStatus(v)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

var Priorities = []Priority{PriorityHigh, PriorityMedium, PriorityLow}

func (p Priority) Valid() bool {
	return p.Rank() > 0
}

// Rank orders priorities for sorting. Unknown values rank 0.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	}
	return 0
}

func ParsePriority(v string) (Priority, error) {
	p := Priority(v)
	if !p.Valid() {
		return "", fmt.Errorf("unknown priority %q", v)
	}
	return p, nil
}

func (p *Priority) UnmarshalJSON(b []byte) error {
	var v string
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	parsed, err := ParsePriority(v)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// StatusFilter is either FilterAll or one of the statuses.
type StatusFilter string

const FilterAll StatusFilter = "all"

func ParseStatusFilter(v string) (StatusFilter, error) {
	if v == "" || v == string(FilterAll) {
		return FilterAll, nil
	}
	s, err := ParseStatus(v)
	if err != nil {
		return "", err
	}
	return StatusFilter(s), nil
}

type SortOption string

const (
	SortByDate     SortOption = "date"
	SortByName     SortOption = "name"
	SortByPriority SortOption = "priority"
)

func ParseSortOption(v string) (SortOption, error) {
	switch o := SortOption(v); o {
	case "":
		return SortByDate, nil
	case SortByDate, SortByName, SortByPriority:
		return o, nil
	}
	return "", fmt.Errorf("unknown sort option %q", v)
}
