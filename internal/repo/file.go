package repo

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BuzzLyutic/task-tracker/internal/model"
)

// FileRepo stores the collection as a JSON document in a data directory.
type FileRepo struct {
	path string
}

func NewFileRepo(dir string) (*FileRepo, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &FileRepo{path: filepath.Join(dir, StorageKey+".json")}, nil
}

func (r *FileRepo) Path() string { return r.path }

func (r *FileRepo) Load(ctx context.Context) ([]model.Task, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []model.Task{}, nil
		}
		return nil, err
	}
	return decode(data)
}

// Save replaces the document through a temp file and rename.
func (r *FileRepo) Save(ctx context.Context, tasks []model.Task) error {
	data, err := encode(tasks)
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(r.path), StorageKey+"-*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), r.path)
}

func (r *FileRepo) Close() error { return nil }
