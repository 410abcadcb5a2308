package models

import "time"

// Defaults applied when a task is created or updated without these fields.
const (
	TaskDefaultPriority = "medium"
	TaskDefaultCategory = "work"
	TaskDefaultStatus   = "todo"
)

type Task struct {
	ID          int       `json:"id"`
	UserID      int       `json:"user_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	DueDate     *string   `json:"due_date"`
	DueTime     *string   `json:"due_time"`
	Priority    string    `json:"priority"`
	Category    string    `json:"category"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
