package ports

import (
	"context"
	"time"

	"taskmanager/internal/core/domain"
)

type TaskRepository interface {
	ListTasks(ctx context.Context, ownerID string, filter domain.TaskFilter) ([]domain.Task, error)
	GetTask(ctx context.Context, ownerID, taskID string) (domain.Task, error)
	CreateTask(ctx context.Context, task domain.Task) (domain.Task, error)
	UpdateTask(ctx context.Context, ownerID, taskID string, input domain.UpdateTaskInput, updatedAt time.Time) (domain.Task, error)
	DeleteTask(ctx context.Context, ownerID, taskID string) error
	HealthChecker
}

type HealthChecker interface {
	Ping(ctx context.Context) error
}

type TaskService interface {
	ListTasks(ctx context.Context, ownerID string, filter domain.TaskFilter) ([]domain.Task, error)
	CreateTask(ctx context.Context, ownerID string, input domain.CreateTaskInput) (domain.Task, error)
	UpdateTask(ctx context.Context, ownerID, taskID string, input domain.UpdateTaskInput) (domain.Task, error)
	DeleteTask(ctx context.Context, ownerID, taskID string) error
	TaskStats(ctx context.Context, ownerID string) (domain.TaskStats, error)
}

type IdentityResolver interface {
	ResolveIdentity(ctx context.Context, token string) (domain.Identity, error)
}
