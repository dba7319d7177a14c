package repo

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/BuzzLyutic/task-tracker/internal/model"
)

var ErrCorrupt = errors.New("corrupt task collection")

func encode(tasks []model.Task) ([]byte, error) {
	if tasks == nil {
		tasks = []model.Task{}
	}
	return json.Marshal(tasks)
}

func decode(data []byte) ([]model.Task, error) {
	if len(data) == 0 {
		return []model.Task{}, nil
	}
	var tasks []model.Task
	if err := json.Unmarshal(data, &tasks); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if tasks == nil {
		tasks = []model.Task{}
	}
	return tasks, nil
}
