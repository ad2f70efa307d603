package domain

import "time"

type Task struct {
	ID          string
	Title       string
	Description *string
	Completed   bool
	OwnerID     string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type CreateTaskInput struct {
	Title       string
	Description *string
}

// UpdateTaskInput only carries the fields a caller sent. DescriptionSet
// distinguishes an explicit null (clear the description) from an omitted field.
type UpdateTaskInput struct {
	Title          *string
	Description    *string
	DescriptionSet bool
	Completed      *bool
}

func (in UpdateTaskInput) IsEmpty() bool {
	return in.Title == nil && !in.DescriptionSet && in.Completed == nil
}

// Apply copies the present fields onto task.
func (in UpdateTaskInput) Apply(task *Task) {
	if in.Title != nil {
		task.Title = *in.Title
	}
	if in.DescriptionSet {
		if in.Description == nil {
			task.Description = nil
		} else {
			value := *in.Description
			task.Description = &value
		}
	}
	if in.Completed != nil {
		task.Completed = *in.Completed
	}
}

type TaskStatusFilter string

const (
	TaskStatusAll        TaskStatusFilter = "all"
	TaskStatusCompleted  TaskStatusFilter = "completed"
	TaskStatusIncomplete TaskStatusFilter = "incomplete"
)

type TaskFilter struct {
	Status TaskStatusFilter
}

// ParseTaskStatusFilter maps the public query value to a filter. An empty
// value means all tasks.
func ParseTaskStatusFilter(value string) (TaskStatusFilter, error) {
	switch TaskStatusFilter(value) {
	case "", TaskStatusAll:
		return TaskStatusAll, nil
	case TaskStatusCompleted:
		return TaskStatusCompleted, nil
	case TaskStatusIncomplete:
		return TaskStatusIncomplete, nil
	default:
		return "", ErrInvalidTaskFilter
	}
}

// Completed returns the completion value to filter on, or nil when the filter
// keeps every task.
func (f TaskFilter) Completed() *bool {
	var value bool
	switch f.Status {
	case TaskStatusCompleted:
		value = true
	case TaskStatusIncomplete:
		value = false
	default:
		return nil
	}
	return &value
}

func (f TaskFilter) Match(task Task) bool {
	completed := f.Completed()
	return completed == nil || *completed == task.Completed
}

type TaskStats struct {
	Total     int
	Completed int
	Remaining int
}

func NewTaskStats(tasks []Task) TaskStats {
	stats := TaskStats{Total: len(tasks)}
	for _, task := range tasks {
		if task.Completed {
			stats.Completed++
		}
	}
	stats.Remaining = stats.Total - stats.Completed
	return stats
}
