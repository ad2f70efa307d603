package mapper

import (
	"time"

	"taskmanager/internal/adapter/http/dto"
	"taskmanager/internal/core/domain"
)

const timeLayout = "2006-01-02T15:04:05.000Z07:00"

func ToTaskItems(tasks []domain.Task) []dto.TaskItem {
	items := make([]dto.TaskItem, 0, len(tasks))
	for _, task := range tasks {
		items = append(items, ToTaskItem(task))
	}
	return items
}

func ToTaskItem(task domain.Task) dto.TaskItem {
	item := dto.TaskItem{
		ID:        task.ID,
		Title:     task.Title,
		Completed: task.Completed,
		User:      task.OwnerID,
		CreatedAt: task.CreatedAt.UTC().Format(timeLayout),
		UpdatedAt: task.UpdatedAt.UTC().Format(timeLayout),
	}

	if task.Description != nil {
		value := *task.Description
		item.Description = &value
	}

	return item
}

func ToTaskStats(stats domain.TaskStats) dto.TaskStats {
	return dto.TaskStats{
		Total:     stats.Total,
		Completed: stats.Completed,
		Remaining: stats.Remaining,
	}
}

// ParseTime reads a timestamp produced by ToTaskItem.
func ParseTime(value string) (time.Time, error) {
	return time.Parse(timeLayout, value)
}
