package dto

// TaskItem keeps the field names the dashboard reads (_id, user, createdAt).
type TaskItem struct {
	ID          string  `json:"_id"`
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
	Completed   bool    `json:"completed"`
	User        string  `json:"user"`
	CreatedAt   string  `json:"createdAt"`
	UpdatedAt   string  `json:"updatedAt"`
}

type TaskStats struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
	Remaining int `json:"remaining"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type CreateTaskRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description" binding:"omitempty,max=65535"`
}

type UpdateTaskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description" binding:"omitempty,max=65535"`
	Completed   *bool   `json:"completed"`
}
