package models

import "time"

const MinTaskTitleLen = 3

type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Status      Status     `json:"status"`
	AssignedTo  string     `json:"assignedTo"`
	ProjectID   string     `json:"projectId"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

type TaskStats struct {
	Assigned  int64 `json:"assigned"`
	Completed int64 `json:"completed"`
	Pending   int64 `json:"pending"`
}
