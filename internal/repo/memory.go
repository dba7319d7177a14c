package repo

import (
	"context"
	"sync"

	"github.com/BuzzLyutic/task-tracker/internal/model"
)

// MemoryRepo keeps the serialized collection in memory. Used by tests and
// by STORAGE_BACKEND=memory.
type MemoryRepo struct {
	mu   sync.Mutex
	data []byte
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{}
}

// NewMemoryRepoWithData seeds the repo with raw stored bytes.
func NewMemoryRepoWithData(data []byte) *MemoryRepo {
	return &MemoryRepo{data: append([]byte(nil), data...)}
}

func (r *MemoryRepo) Load(ctx context.Context) ([]model.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return decode(r.data)
}

func (r *MemoryRepo) Save(ctx context.Context, tasks []model.Task) error {
	data, err := encode(tasks)
	if err != nil {
		return err
	}
	r.mu.Lock()
	r.data = data
	r.mu.Unlock()
	return nil
}

// Raw returns a copy of the stored bytes.
func (r *MemoryRepo) Raw() []byte {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]byte(nil), r.data...)
}

func (r *MemoryRepo) Close() error { return nil }
