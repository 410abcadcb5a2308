package repo

import (
	"database/sql"

	"github.com/crucial707/web-planner/internal/models"
)

// ========================
// REPOSITORY STRUCT
// ========================

// TaskRepo persists tasks. Every statement carries a user_id predicate so a
// caller can never touch another user's rows, even with a valid task id.
type TaskRepo struct {
	DB *sql.DB
}

func NewTaskRepo(db *sql.DB) *TaskRepo {
	return &TaskRepo{DB: db}
}

const taskColumns = `id, user_id, title, description, due_date, due_time, priority, category, status, created_at, updated_at`

func scanTask(row *sql.Row) (models.Task, error) {
	var t models.Task
	err := row.Scan(
		&t.ID,
		&t.UserID,
		&t.Title,
		&t.Description,
		&t.DueDate,
		&t.DueTime,
		&t.Priority,
		&t.Category,
		&t.Status,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	return t, err
}

// ========================
// CREATE TASK
// ========================

func (r *TaskRepo) Create(userID int, t models.Task) (models.Task, error) {
	row := r.DB.QueryRow(
		`INSERT INTO tasks (user_id, title, description, due_date, due_time, priority, category, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING `+taskColumns,
		userID, t.Title, t.Description, t.DueDate, t.DueTime, t.Priority, t.Category, t.Status,
	)
	return scanTask(row)
}

// ========================
// GET TASK BY ID
// ========================

func (r *TaskRepo) GetByID(id, userID int) (models.Task, error) {
	row := r.DB.QueryRow(
		`SELECT `+taskColumns+`
		 FROM tasks
		 WHERE id = $1 AND user_id = $2`,
		id, userID,
	)
	task, err := scanTask(row)
	if err == sql.ErrNoRows {
		return models.Task{}, ErrNotFound
	}
	return task, err
}

// ========================
// OWNERSHIP CHECK
// ========================

// ExistsForUser reports whether the task exists and belongs to the user.
func (r *TaskRepo) ExistsForUser(id, userID int) (bool, error) {
	var found int
	err := r.DB.QueryRow(
		`SELECT id FROM tasks WHERE id = $1 AND user_id = $2`,
		id, userID,
	).Scan(&found)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// ========================
// UPDATE TASK BY ID
// ========================

// UpdateByID overwrites every mutable field (full replace, not a patch).
func (r *TaskRepo) UpdateByID(id, userID int, t models.Task) (models.Task, error) {
	row := r.DB.QueryRow(
		`UPDATE tasks
		 SET title = $1, description = $2, due_date = $3, due_time = $4, priority = $5, category = $6, status = $7, updated_at = now()
		 WHERE id = $8 AND user_id = $9
		 RETURNING `+taskColumns,
		t.Title, t.Description, t.DueDate, t.DueTime, t.Priority, t.Category, t.Status, id, userID,
	)
	task, err := scanTask(row)
	if err == sql.ErrNoRows {
		return models.Task{}, ErrNotFound
	}
	return task, err
}

// ========================
// DELETE TASK BY ID
// ========================

// DeleteByID is idempotent; deleting an absent row is not an error.
func (r *TaskRepo) DeleteByID(id, userID int) error {
	_, err := r.DB.Exec(`DELETE FROM tasks WHERE id = $1 AND user_id = $2`, id, userID)
	return err
}

// ========================
// LIST TASKS
// ========================

func (r *TaskRepo) ListByUser(userID int) ([]models.Task, error) {
	rows, err := r.DB.Query(
		`SELECT `+taskColumns+`
		 FROM tasks
		 WHERE user_id = $1
		 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := []models.Task{}
	for rows.Next() {
		var t models.Task
		if err := rows.Scan(
			&t.ID, &t.UserID, &t.Title, &t.Description, &t.DueDate, &t.DueTime,
			&t.Priority, &t.Category, &t.Status, &t.CreatedAt, &t.UpdatedAt,
		); err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}
