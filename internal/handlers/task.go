package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/crucial707/web-planner/internal/middleware"
	"github.com/crucial707/web-planner/internal/models"
	"github.com/crucial707/web-planner/internal/repo"
)

// ==========================
// Task Handler
// ==========================

// TaskHandler serves /tasks. Routes run behind the session middleware, so the
// authenticated user id is always present in the request context.
type TaskHandler struct {
	Repo *repo.TaskRepo
}

// taskInput is the strict per-operation schema. Unknown fields are rejected by
// DecodeStrict; omitted optional fields get the documented defaults.
type taskInput struct {
	ID          int    `json:"id"`
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	DueDate     string `json:"due_date" validate:"omitempty,datetime=2006-01-02"`
	DueTime     string `json:"due_time" validate:"omitempty,datetime=15:04"`
	Priority    string `json:"priority" validate:"omitempty,oneof=low medium high"`
	Category    string `json:"category"`
	Status      string `json:"status" validate:"omitempty,oneof=todo in_progress done"`
}

// toModel applies create-time defaults. Update reuses it, which is what makes
// update a full replace: an omitted optional field reverts to its default.
func (in taskInput) toModel() models.Task {
	t := models.Task{
		Title:       in.Title,
		Description: in.Description,
		Priority:    in.Priority,
		Category:    in.Category,
		Status:      in.Status,
	}
	if in.DueDate != "" {
		d := in.DueDate
		t.DueDate = &d
	}
	if in.DueTime != "" {
		tt := in.DueTime
		t.DueTime = &tt
	}
	if t.Priority == "" {
		t.Priority = models.TaskDefaultPriority
	}
	if t.Category == "" {
		t.Category = models.TaskDefaultCategory
	}
	if t.Status == "" {
		t.Status = models.TaskDefaultStatus
	}
	return t
}

// ==========================
// List / Get
// ==========================

// Get serves GET /tasks: the full list, or a single row when ?id= is present.
func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		Fail(w, "Authentication required")
		return
	}

	idStr := r.URL.Query().Get("id")
	if idStr == "" {
		tasks, err := h.Repo.ListByUser(userID)
		if err != nil {
			slog.Error("list tasks failed", "user_id", userID, "error", err)
			Fail(w, ErrMessageStore)
			return
		}
		WriteJSON(w, Envelope{"success": true, "data": tasks})
		return
	}

	id, err := strconv.Atoi(idStr)
	if err != nil {
		Fail(w, "Invalid task ID")
		return
	}

	task, err := h.Repo.GetByID(id, userID)
	if err == repo.ErrNotFound {
		// Same answer whether the id is unknown or owned by someone else.
		Fail(w, "Task not found")
		return
	}
	if err != nil {
		slog.Error("get task failed", "user_id", userID, "task_id", id, "error", err)
		Fail(w, ErrMessageStore)
		return
	}

	WriteJSON(w, Envelope{"success": true, "data": task})
}

// ==========================
// Create
// ==========================
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		Fail(w, "Authentication required")
		return
	}

	var input taskInput
	if err := DecodeStrict(r, &input); err != nil {
		Fail(w, "Invalid JSON data")
		return
	}
	if input.Title == "" {
		Fail(w, "Task title is required")
		return
	}
	if err := validate.Struct(input); err != nil {
		Fail(w, "Invalid task data")
		return
	}

	task, err := h.Repo.Create(userID, input.toModel())
	if err != nil {
		slog.Error("create task failed", "user_id", userID, "error", err)
		Fail(w, ErrMessageStore)
		return
	}

	WriteJSON(w, Envelope{
		"success": true,
		"message": "Task created successfully",
		"task":    task,
	})
}

// ==========================
// Update
// ==========================
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		Fail(w, "Authentication required")
		return
	}

	var input taskInput
	if err := DecodeStrict(r, &input); err != nil {
		Fail(w, "Invalid JSON data")
		return
	}

	// Body id wins; ?id= is the fallback.
	id := input.ID
	if id == 0 {
		if idStr := r.URL.Query().Get("id"); idStr != "" {
			var err error
			if id, err = strconv.Atoi(idStr); err != nil {
				Fail(w, "Invalid task ID")
				return
			}
		}
	}
	if id == 0 {
		Fail(w, "Task ID is required")
		return
	}

	if input.Title == "" {
		Fail(w, "Task title is required")
		return
	}
	if err := validate.Struct(input); err != nil {
		Fail(w, "Invalid task data")
		return
	}

	// Ownership is a precondition, checked before any mutation.
	owned, err := h.Repo.ExistsForUser(id, userID)
	if err != nil {
		slog.Error("task ownership check failed", "user_id", userID, "task_id", id, "error", err)
		Fail(w, ErrMessageStore)
		return
	}
	if !owned {
		Fail(w, "Task not found or access denied")
		return
	}

	task, err := h.Repo.UpdateByID(id, userID, input.toModel())
	if err != nil {
		slog.Error("update task failed", "user_id", userID, "task_id", id, "error", err)
		Fail(w, ErrMessageStore)
		return
	}

	WriteJSON(w, Envelope{
		"success": true,
		"message": "Task updated successfully",
		"task":    task,
	})
}

// ==========================
// Delete
// ==========================
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		Fail(w, "Authentication required")
		return
	}

	idStr := r.URL.Query().Get("id")
	if idStr == "" {
		Fail(w, "Task ID is required")
		return
	}
	id, err := strconv.Atoi(idStr)
	if err != nil {
		Fail(w, "Invalid task ID")
		return
	}

	if err := h.Repo.DeleteByID(id, userID); err != nil {
		slog.Error("delete task failed", "user_id", userID, "task_id", id, "error", err)
		Fail(w, ErrMessageStore)
		return
	}

	// Deleting an absent row still succeeds.
	WriteJSON(w, Envelope{
		"success": true,
		"message": "Task deleted successfully",
	})
}
