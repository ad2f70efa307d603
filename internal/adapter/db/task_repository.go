package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"taskmanager/internal/core/domain"
	"taskmanager/internal/core/ports"
)

const (
	taskColumns = `id, owner_id, title, description, completed, created_at, updated_at`

	getTaskQuery = `SELECT ` + taskColumns + ` FROM tasks WHERE id = ? AND owner_id = ?`

	insertTaskQuery = `
INSERT INTO tasks (id, owner_id, title, description, completed, created_at, updated_at)
VALUES (:id, :owner_id, :title, :description, :completed, :created_at, :updated_at)`

	deleteTaskQuery = `DELETE FROM tasks WHERE id = ? AND owner_id = ?`
)

type TaskRepository struct {
	db *sqlx.DB
}

type taskRow struct {
	ID          string         `db:"id"`
	OwnerID     string         `db:"owner_id"`
	Title       string         `db:"title"`
	Description sql.NullString `db:"description"`
	Completed   bool           `db:"completed"`
	CreatedAt   time.Time      `db:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at"`
}

var _ ports.TaskRepository = (*TaskRepository)(nil)

func NewTaskRepository(db *sqlx.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) ListTasks(ctx context.Context, ownerID string, filter domain.TaskFilter) ([]domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE owner_id = ?`
	args := []interface{}{ownerID}
	if completed := filter.Completed(); completed != nil {
		query += ` AND completed = ?`
		args = append(args, *completed)
	}
	query += ` ORDER BY created_at DESC, id DESC`

	var rows []taskRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}

	tasks := make([]domain.Task, 0, len(rows))
	for _, row := range rows {
		tasks = append(tasks, mapTaskRowToDomainTask(row))
	}

	return tasks, nil
}

func (r *TaskRepository) GetTask(ctx context.Context, ownerID, taskID string) (domain.Task, error) {
	return getTask(ctx, r.db, ownerID, taskID)
}

func (r *TaskRepository) CreateTask(ctx context.Context, task domain.Task) (domain.Task, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return domain.Task{}, fmt.Errorf("generate task id: %w", err)
	}
	task.ID = id.String()

	if _, err := r.db.NamedExecContext(ctx, insertTaskQuery, mapDomainTaskToTaskRow(task)); err != nil {
		return domain.Task{}, fmt.Errorf("insert task: %w", err)
	}

	return task, nil
}

func (r *TaskRepository) UpdateTask(ctx context.Context, ownerID, taskID string, input domain.UpdateTaskInput, updatedAt time.Time) (domain.Task, error) {
	if _, err := uuid.Parse(taskID); err != nil {
		return domain.Task{}, domain.ErrTaskNotFound
	}

	sets := []string{"updated_at = ?"}
	args := []interface{}{updatedAt}
	if input.Title != nil {
		sets = append(sets, "title = ?")
		args = append(args, *input.Title)
	}
	if input.DescriptionSet {
		sets = append(sets, "description = ?")
		args = append(args, toNullString(input.Description))
	}
	if input.Completed != nil {
		sets = append(sets, "completed = ?")
		args = append(args, *input.Completed)
	}
	args = append(args, taskID, ownerID)

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return domain.Task{}, fmt.Errorf("begin update task: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `UPDATE tasks SET ` + strings.Join(sets, ", ") + ` WHERE id = ? AND owner_id = ?`
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return domain.Task{}, fmt.Errorf("update task: %w", err)
	}

	// RowsAffected is zero for a matching row whose values did not change, so
	// existence is decided by the re-select.
	task, err := getTask(ctx, tx, ownerID, taskID)
	if err != nil {
		return domain.Task{}, err
	}

	if err := tx.Commit(); err != nil {
		return domain.Task{}, fmt.Errorf("commit update task: %w", err)
	}

	return task, nil
}

func (r *TaskRepository) DeleteTask(ctx context.Context, ownerID, taskID string) error {
	if _, err := uuid.Parse(taskID); err != nil {
		return domain.ErrTaskNotFound
	}

	result, err := r.db.ExecContext(ctx, deleteTaskQuery, taskID, ownerID)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if affected == 0 {
		return domain.ErrTaskNotFound
	}

	return nil
}

func (r *TaskRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func getTask(ctx context.Context, q sqlx.QueryerContext, ownerID, taskID string) (domain.Task, error) {
	if _, err := uuid.Parse(taskID); err != nil {
		return domain.Task{}, domain.ErrTaskNotFound
	}

	var row taskRow
	if err := sqlx.GetContext(ctx, q, &row, getTaskQuery, taskID, ownerID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Task{}, domain.ErrTaskNotFound
		}
		return domain.Task{}, fmt.Errorf("get task: %w", err)
	}

	return mapTaskRowToDomainTask(row), nil
}

func mapTaskRowToDomainTask(row taskRow) domain.Task {
	task := domain.Task{
		ID:        row.ID,
		OwnerID:   row.OwnerID,
		Title:     row.Title,
		Completed: row.Completed,
		CreatedAt: row.CreatedAt.UTC(),
		UpdatedAt: row.UpdatedAt.UTC(),
	}

	if row.Description.Valid {
		value := row.Description.String
		task.Description = &value
	}

	return task
}

func mapDomainTaskToTaskRow(task domain.Task) taskRow {
	return taskRow{
		ID:          task.ID,
		OwnerID:     task.OwnerID,
		Title:       task.Title,
		Description: toNullString(task.Description),
		Completed:   task.Completed,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
}

func toNullString(value *string) sql.NullString {
	if value == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *value, Valid: true}
}
