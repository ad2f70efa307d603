package service

import (
	"context"
	"time"

	"taskmanager/internal/core/domain"
	"taskmanager/internal/core/ports"
)

type TaskService struct {
	taskRepository ports.TaskRepository
	now            func() time.Time
}

type Option func(*TaskService)

// WithClock overrides the clock used for creation and update timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *TaskService) {
		s.now = now
	}
}

func NewTaskService(taskRepository ports.TaskRepository, opts ...Option) *TaskService {
	s := &TaskService{taskRepository: taskRepository, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *TaskService) ListTasks(ctx context.Context, ownerID string, filter domain.TaskFilter) ([]domain.Task, error) {
	return s.taskRepository.ListTasks(ctx, ownerID, filter)
}

func (s *TaskService) CreateTask(ctx context.Context, ownerID string, input domain.CreateTaskInput) (domain.Task, error) {
	now := s.timestamp()
	return s.taskRepository.CreateTask(ctx, domain.Task{
		Title:       input.Title,
		Description: input.Description,
		Completed:   false,
		OwnerID:     ownerID,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
}

func (s *TaskService) UpdateTask(ctx context.Context, ownerID, taskID string, input domain.UpdateTaskInput) (domain.Task, error) {
	if input.IsEmpty() {
		return s.taskRepository.GetTask(ctx, ownerID, taskID)
	}
	return s.taskRepository.UpdateTask(ctx, ownerID, taskID, input, s.timestamp())
}

func (s *TaskService) DeleteTask(ctx context.Context, ownerID, taskID string) error {
	return s.taskRepository.DeleteTask(ctx, ownerID, taskID)
}

func (s *TaskService) TaskStats(ctx context.Context, ownerID string) (domain.TaskStats, error) {
	tasks, err := s.taskRepository.ListTasks(ctx, ownerID, domain.TaskFilter{Status: domain.TaskStatusAll})
	if err != nil {
		return domain.TaskStats{}, err
	}
	return domain.NewTaskStats(tasks), nil
}

// Stores keep millisecond precision, so the returned task must match what a
// later read gives back.
func (s *TaskService) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Millisecond)
}

var _ ports.TaskService = (*TaskService)(nil)
