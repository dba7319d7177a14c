package store

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/BuzzLyutic/task-tracker/internal/model"
	"github.com/BuzzLyutic/task-tracker/internal/repo"
)

var (
	// ErrNotFound is returned when no task has the requested id.
	ErrNotFound = errors.New("task not found")
	// ErrInvalidArgument rejects a status or priority the collection could
	// not read back.
	ErrInvalidArgument = errors.New("invalid argument")
)

// TaskStore is the single source of truth for tasks. Every mutation loads
// the whole collection, changes it and writes it back before returning.
// Mutations are serialized per store.
type TaskStore struct {
	repo    repo.CollectionRepository
	logger  *zap.Logger
	now     func() time.Time
	newID   func() string
	latency time.Duration

	mu sync.Mutex
}

// Option configures a TaskStore.
type Option func(*TaskStore)

// WithLogger sets the store logger; the default discards.
func WithLogger(logger *zap.Logger) Option {
	return func(s *TaskStore) { s.logger = logger }
}

// WithClock replaces the clock used for createdAt and updatedAt.
func WithClock(now func() time.Time) Option {
	return func(s *TaskStore) { s.now = now }
}

// WithIDGenerator replaces NewID.
func WithIDGenerator(newID func() string) Option {
	return func(s *TaskStore) { s.newID = newID }
}

// WithLatency delays every operation, simulating a remote backend.
func WithLatency(d time.Duration) Option {
	return func(s *TaskStore) { s.latency = d }
}

// New returns a store over r.
func New(r repo.CollectionRepository, opts ...Option) *TaskStore {
	s := &TaskStore{
		repo:   r,
		logger: zap.NewNop(),
		now:    func() time.Time { return time.Now().UTC() },
		newID:  NewID,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewID returns a UUIDv7: millisecond timestamp followed by random bits.
func NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

func (s *TaskStore) List(ctx context.Context) ([]model.Task, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read(context.WithoutCancel(ctx)), nil
}

func (s *TaskStore) Get(ctx context.Context, id string) (model.Task, error) {
	if err := s.wait(ctx); err != nil {
		return model.Task{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tasks := s.read(context.WithoutCancel(ctx))
	i := indexOf(tasks, id)
	if i < 0 {
		return model.Task{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return tasks[i], nil
}

func (s *TaskStore) Create(ctx context.Context, in model.TaskInput) (model.Task, error) {
	if err := s.wait(ctx); err != nil {
		return model.Task{}, err
	}
	if err := checkEnums(in.Status, in.Priority); err != nil {
		return model.Task{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	ctx = context.WithoutCancel(ctx)

	tasks, err := s.load(ctx)
	if err != nil {
		return model.Task{}, err
	}
	t := model.Task{
		ID:          s.newID(),
		Title:       in.Title,
		Description: in.Description,
		DueDate:     in.DueDate,
		Status:      in.Status,
		Priority:    in.Priority,
		CreatedAt:   s.now(),
	}
	tasks = append(tasks, t)
	if err := s.persist(ctx, tasks); err != nil {
		return model.Task{}, err
	}
	s.logger.Debug("task created", zap.String("id", t.ID))
	return t, nil
}

func (s *TaskStore) Update(ctx context.Context, id string, patch model.TaskPatch) (model.Task, error) {
	if err := s.wait(ctx); err != nil {
		return model.Task{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	ctx = context.WithoutCancel(ctx)

	tasks, err := s.load(ctx)
	if err != nil {
		return model.Task{}, err
	}
	i := indexOf(tasks, id)
	if i < 0 {
		return model.Task{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	t := tasks[i]
	patch.Apply(&t)
	if err := checkEnums(t.Status, t.Priority); err != nil {
		return model.Task{}, err
	}
	ts := s.now()
	if ts.Before(t.CreatedAt) {
		ts = t.CreatedAt
	}
	t.UpdatedAt = &ts
	tasks[i] = t

	if err := s.persist(ctx, tasks); err != nil {
		return model.Task{}, err
	}
	s.logger.Debug("task updated", zap.String("id", id))
	return t, nil
}

// Delete is idempotent: an unknown id is not an error.
func (s *TaskStore) Delete(ctx context.Context, id string) error {
	if err := s.wait(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	ctx = context.WithoutCancel(ctx)

	tasks, err := s.load(ctx)
	if err != nil {
		return err
	}
	kept := slices.DeleteFunc(tasks, func(t model.Task) bool { return t.ID == id })
	if len(kept) == len(tasks) {
		return nil
	}
	if err := s.persist(ctx, kept); err != nil {
		return err
	}
	s.logger.Debug("task deleted", zap.String("id", id))
	return nil
}

// Search matches query case-insensitively against title and description.
// A blank query returns the whole collection.
func (s *TaskStore) Search(ctx context.Context, query string) ([]model.Task, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tasks := s.read(context.WithoutCancel(ctx))
	if strings.TrimSpace(query) == "" {
		return tasks, nil
	}
	q := strings.ToLower(query)
	found := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		if strings.Contains(strings.ToLower(t.Title), q) ||
			(t.Description != "" && strings.Contains(strings.ToLower(t.Description), q)) {
			found = append(found, t)
		}
	}
	return found, nil
}

func (s *TaskStore) Clear(ctx context.Context) error {
	if err := s.wait(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.persist(context.WithoutCancel(ctx), []model.Task{}); err != nil {
		return err
	}
	s.logger.Info("task collection cleared")
	return nil
}

// read serves List, Get and Search: any unreadable collection reads as empty.
func (s *TaskStore) read(ctx context.Context) []model.Task {
	tasks, err := s.repo.Load(ctx)
	if err != nil {
		s.logger.Warn("task collection unreadable, treating as empty", zap.Error(err))
		return []model.Task{}
	}
	return tasks
}

// load serves mutations. Only a corrupt collection reads as empty; any other
// error is returned so nothing is written over it.
func (s *TaskStore) load(ctx context.Context) ([]model.Task, error) {
	tasks, err := s.repo.Load(ctx)
	if errors.Is(err, repo.ErrCorrupt) {
		s.logger.Warn("task collection corrupt, starting empty", zap.Error(err))
		return []model.Task{}, nil
	}
	if err != nil {
		s.logger.Error("failed to load tasks", zap.Error(err))
		return nil, fmt.Errorf("load tasks: %w", err)
	}
	return tasks, nil
}

func (s *TaskStore) persist(ctx context.Context, tasks []model.Task) error {
	if err := s.repo.Save(ctx, tasks); err != nil {
		s.logger.Error("failed to persist tasks", zap.Int("count", len(tasks)), zap.Error(err))
		return fmt.Errorf("persist tasks: %w", err)
	}
	return nil
}

func (s *TaskStore) wait(ctx context.Context) error {
	if s.latency <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(s.latency)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func checkEnums(status model.Status, priority model.Priority) error {
	if !status.Valid() {
		return fmt.Errorf("%w: status %q", ErrInvalidArgument, status)
	}
	if !priority.Valid() {
		return fmt.Errorf("%w: priority %q", ErrInvalidArgument, priority)
	}
	return nil
}

func indexOf(tasks []model.Task, id string) int {
	return slices.IndexFunc(tasks, func(t model.Task) bool { return t.ID == id })
}
