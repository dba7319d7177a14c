package repo

import (
	"context"

	"github.com/BuzzLyutic/task-tracker/internal/model"
)

// StorageKey identifies the serialized task collection in every backend.
const StorageKey = "task_tracker_tasks_v2"

// CollectionRepository loads and saves the whole task collection at once.
// Load returns an empty slice and no error when nothing was saved yet.
type CollectionRepository interface {
	Load(ctx context.Context) ([]model.Task, error)
	Save(ctx context.Context, tasks []model.Task) error
	Close() error
}
