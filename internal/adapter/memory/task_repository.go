// Package memory keeps tasks in process. It backs the router-level tests and
// STORE_DRIVER=memory for local runs without a database.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"taskmanager/internal/core/domain"
	"taskmanager/internal/core/ports"
)

type entry struct {
	task domain.Task
	seq  uint64
}

type TaskRepository struct {
	mu    sync.RWMutex
	tasks map[string]entry
	seq   uint64
	newID func() (uuid.UUID, error)
}

var _ ports.TaskRepository = (*TaskRepository)(nil)

func NewTaskRepository() *TaskRepository {
	return &TaskRepository{tasks: make(map[string]entry), newID: uuid.NewV7}
}

func (r *TaskRepository) ListTasks(_ context.Context, ownerID string, filter domain.TaskFilter) ([]domain.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := make([]entry, 0)
	for _, e := range r.tasks {
		if e.task.OwnerID != ownerID || !filter.Match(e.task) {
			continue
		}
		entries = append(entries, e)
	}

	sort.Slice(entries, func(i, j int) bool {
		if !entries[i].task.CreatedAt.Equal(entries[j].task.CreatedAt) {
			return entries[i].task.CreatedAt.After(entries[j].task.CreatedAt)
		}
		return entries[i].seq > entries[j].seq
	})

	tasks := make([]domain.Task, 0, len(entries))
	for _, e := range entries {
		tasks = append(tasks, cloneTask(e.task))
	}
	return tasks, nil
}

func (r *TaskRepository) GetTask(_ context.Context, ownerID, taskID string) (domain.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.tasks[taskID]
	if !ok || e.task.OwnerID != ownerID {
		return domain.Task{}, domain.ErrTaskNotFound
	}
	return cloneTask(e.task), nil
}

func (r *TaskRepository) CreateTask(_ context.Context, task domain.Task) (domain.Task, error) {
	id, err := r.newID()
	if err != nil {
		return domain.Task{}, fmt.Errorf("generate task id: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.seq++
	task.ID = id.String()
	r.tasks[task.ID] = entry{task: cloneTask(task), seq: r.seq}
	return cloneTask(task), nil
}

func (r *TaskRepository) UpdateTask(_ context.Context, ownerID, taskID string, input domain.UpdateTaskInput, updatedAt time.Time) (domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.tasks[taskID]
	if !ok || e.task.OwnerID != ownerID {
		return domain.Task{}, domain.ErrTaskNotFound
	}

	input.Apply(&e.task)
	e.task.UpdatedAt = updatedAt
	r.tasks[taskID] = e
	return cloneTask(e.task), nil
}

func (r *TaskRepository) DeleteTask(_ context.Context, ownerID, taskID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.tasks[taskID]
	if !ok || e.task.OwnerID != ownerID {
		return domain.ErrTaskNotFound
	}
	delete(r.tasks, taskID)
	return nil
}

func (r *TaskRepository) Ping(context.Context) error {
	return nil
}

func cloneTask(task domain.Task) domain.Task {
	if task.Description != nil {
		value := *task.Description
		task.Description = &value
	}
	return task
}
