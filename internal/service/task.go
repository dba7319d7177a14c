package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/BuzzLyutic/task-tracker/internal/model"
	"github.com/BuzzLyutic/task-tracker/internal/report"
	"github.com/BuzzLyutic/task-tracker/internal/view"
)

var (
	ErrValidation = errors.New("validation error")
)

// RecentLimit is how many tasks the dashboard shows.
const RecentLimit = 5

// TaskStore is the storage contract the service needs; *store.TaskStore
// implements it.
type TaskStore interface {
	List(ctx context.Context) ([]model.Task, error)
	Get(ctx context.Context, id string) (model.Task, error)
	Create(ctx context.Context, in model.TaskInput) (model.Task, error)
	Update(ctx context.Context, id string, patch model.TaskPatch) (model.Task, error)
	Delete(ctx context.Context, id string) error
	Search(ctx context.Context, query string) ([]model.Task, error)
	Clear(ctx context.Context) error
}

type TaskService struct {
	store TaskStore
	now   func() time.Time
}

func NewTaskService(store TaskStore) *TaskService {
	return &TaskService{
		store: store,
		now:   time.Now,
	}
}

// WithClock replaces the clock used for overdue and report computations.
func (s *TaskService) WithClock(now func() time.Time) *TaskService {
	s.now = now
	return s
}

func (s *TaskService) Create(ctx context.Context, in model.TaskInput) (model.Task, error) {
	in.Title = strings.TrimSpace(in.Title)
	if err := s.validate(in); err != nil { // Валидация до обращения к хранилищу
		return model.Task{}, err
	}
	return s.store.Create(ctx, in)
}

func (s *TaskService) Get(ctx context.Context, id string) (model.Task, error) {
	return s.store.Get(ctx, id)
}

// List searches (when filter.Query is set), then filters by status, then sorts.
func (s *TaskService) List(ctx context.Context, filter model.TaskFilter) ([]model.Task, error) {
	var (
		tasks []model.Task
		err   error
	)
	if strings.TrimSpace(filter.Query) != "" {
		tasks, err = s.store.Search(ctx, filter.Query)
	} else {
		tasks, err = s.store.List(ctx)
	}
	if err != nil {
		return nil, err
	}
	tasks = view.FilterByStatus(tasks, filter.Status)
	return view.Sort(tasks, filter.Sort), nil
}

func (s *TaskService) Update(ctx context.Context, id string, patch model.TaskPatch) (model.Task, error) {
	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		patch.Title = &title
	}
	if err := s.validatePatch(patch); err != nil {
		return model.Task{}, err
	}
	return s.store.Update(ctx, id, patch)
}

func (s *TaskService) SetStatus(ctx context.Context, id string, status model.Status) (model.Task, error) {
	return s.Update(ctx, id, model.TaskPatch{Status: &status})
}

func (s *TaskService) Delete(ctx context.Context, id string) error {
	return s.store.Delete(ctx, id)
}

func (s *TaskService) Clear(ctx context.Context) error {
	return s.store.Clear(ctx)
}

func (s *TaskService) GetStats(ctx context.Context) (view.Stats, error) {
	tasks, err := s.store.List(ctx)
	if err != nil {
		return view.Stats{}, err
	}
	return view.ComputeStats(tasks, s.now()), nil
}

type Dashboard struct {
	Stats  view.Stats   `json:"stats"`
	Recent []model.Task `json:"recent"`
}

func (s *TaskService) Dashboard(ctx context.Context) (Dashboard, error) {
	tasks, err := s.store.List(ctx)
	if err != nil {
		return Dashboard{}, err
	}
	return Dashboard{
		Stats:  view.ComputeStats(tasks, s.now()),
		Recent: view.Recent(tasks, RecentLimit),
	}, nil
}

func (s *TaskService) Calendar(ctx context.Context, year int, month time.Month) (view.CalendarMonth, error) {
	if month < time.January || month > time.December {
		return view.CalendarMonth{}, fmt.Errorf("%w: month %d out of range", ErrValidation, month)
	}
	tasks, err := s.store.List(ctx)
	if err != nil {
		return view.CalendarMonth{}, err
	}
	return view.Calendar(tasks, year, month), nil
}

func (s *TaskService) Report(ctx context.Context) (report.Report, error) {
	tasks, err := s.store.List(ctx)
	if err != nil {
		return report.Report{}, err
	}
	return report.Build(tasks, s.now()), nil
}

func (s *TaskService) validate(in model.TaskInput) error {
	if strings.TrimSpace(in.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrValidation)
	}
	if in.DueDate.IsZero() {
		return fmt.Errorf("%w: dueDate is required", ErrValidation)
	}
	if !in.Status.Valid() {
		return fmt.Errorf("%w: status must be one of pending, in-progress, done", ErrValidation)
	}
	if !in.Priority.Valid() {
		return fmt.Errorf("%w: priority must be one of low, medium, high", ErrValidation)
	}
	return nil
}

func (s *TaskService) validatePatch(p model.TaskPatch) error {
	if p.IsEmpty() {
		return fmt.Errorf("%w: nothing to update", ErrValidation)
	}
	if p.Title != nil && strings.TrimSpace(*p.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrValidation)
	}
	if p.DueDate != nil && p.DueDate.IsZero() {
		return fmt.Errorf("%w: dueDate is required", ErrValidation)
	}
	if p.Status != nil && !p.Status.Valid() {
		return fmt.Errorf("%w: status must be one of pending, in-progress, done", ErrValidation)
	}
	if p.Priority != nil && !p.Priority.Valid() {
		return fmt.Errorf("%w: priority must be one of low, medium, high", ErrValidation)
	}
	return nil
}
