package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/crucial707/web-planner/internal/middleware"
	"github.com/crucial707/web-planner/internal/repo"
)

var taskCols = []string{"id", "user_id", "title", "description", "due_date", "due_time", "priority", "category", "status", "created_at", "updated_at"}

func newTaskHandler(t *testing.T) (*TaskHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return &TaskHandler{Repo: repo.NewTaskRepo(db)}, mock
}

// asUser builds a request carrying the user id the session middleware would
// have resolved.
func asUser(t *testing.T, userID int, method, url string, body interface{}) *http.Request {
	t.Helper()
	var req *http.Request
	if body != nil {
		data, _ := json.Marshal(body)
		req = httptest.NewRequest(method, url, bytes.NewReader(data))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, url, nil)
	}
	ctx := context.WithValue(req.Context(), middleware.UserIDKey, userID)
	return req.WithContext(ctx)
}

func TestTaskHandler_Create_AppliesDefaults(t *testing.T) {
	h, mock := newTaskHandler(t)

	now := time.Now()
	due := "2025-01-10"
	mock.ExpectQuery(`INSERT INTO tasks`).
		WithArgs(1, "Buy milk", "", &due, nil, "medium", "work", "todo").
		WillReturnRows(sqlmock.NewRows(taskCols).
			AddRow(1, 1, "Buy milk", "", due, nil, "medium", "work", "todo", now, now))

	rr := httptest.NewRecorder()
	h.Create(rr, asUser(t, 1, "POST", "/tasks", map[string]string{
		"title":    "Buy milk",
		"due_date": "2025-01-10",
	}))

	out := decodeEnvelope(t, rr)
	if out["success"] != true {
		t.Fatalf("unexpected response: %v", out)
	}
	task := out["task"].(map[string]interface{})
	if task["priority"] != "medium" || task["category"] != "work" || task["status"] != "todo" {
		t.Errorf("defaults not applied: %v", task)
	}
	if task["due_date"] != "2025-01-10" {
		t.Errorf("due date not round-tripped: %v", task["due_date"])
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestTaskHandler_Create_MissingTitle(t *testing.T) {
	h, _ := newTaskHandler(t)

	rr := httptest.NewRecorder()
	h.Create(rr, asUser(t, 1, "POST", "/tasks", map[string]string{"description": "no title"}))

	out := decodeEnvelope(t, rr)
	if out["success"] != false || out["message"] != "Task title is required" {
		t.Errorf("unexpected response: %v", out)
	}
}

func TestTaskHandler_Create_UnknownFieldRejected(t *testing.T) {
	h, _ := newTaskHandler(t)

	rr := httptest.NewRecorder()
	h.Create(rr, asUser(t, 1, "POST", "/tasks", map[string]string{
		"title": "ok",
		"bogus": "field",
	}))

	out := decodeEnvelope(t, rr)
	if out["success"] != false || out["message"] != "Invalid JSON data" {
		t.Errorf("unknown fields must be rejected: %v", out)
	}
}

func TestTaskHandler_Create_BadEnumRejected(t *testing.T) {
	h, _ := newTaskHandler(t)

	rr := httptest.NewRecorder()
	h.Create(rr, asUser(t, 1, "POST", "/tasks", map[string]string{
		"title":    "ok",
		"priority": "urgent",
	}))

	out := decodeEnvelope(t, rr)
	if out["success"] != false || out["message"] != "Invalid task data" {
		t.Errorf("unexpected response: %v", out)
	}
}

func TestTaskHandler_List(t *testing.T) {
	h, mock := newTaskHandler(t)

	now := time.Now()
	mock.ExpectQuery(`FROM tasks\s+WHERE user_id = \$1\s+ORDER BY created_at DESC`).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows(taskCols).
			AddRow(2, 1, "b", "", nil, nil, "medium", "work", "todo", now, now).
			AddRow(1, 1, "a", "", nil, nil, "medium", "work", "todo", now, now))

	rr := httptest.NewRecorder()
	h.Get(rr, asUser(t, 1, "GET", "/tasks", nil))

	out := decodeEnvelope(t, rr)
	data := out["data"].([]interface{})
	if out["success"] != true || len(data) != 2 {
		t.Errorf("unexpected response: %v", out)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestTaskHandler_Get_ForeignRowLooksMissing(t *testing.T) {
	h, mock := newTaskHandler(t)

	// Row 5 exists but belongs to another user; the predicate filters it out
	// and the caller cannot tell the difference from a nonexistent id.
	mock.ExpectQuery(`FROM tasks\s+WHERE id = \$1 AND user_id = \$2`).
		WithArgs(5, 1).
		WillReturnRows(sqlmock.NewRows(taskCols))

	rr := httptest.NewRecorder()
	h.Get(rr, asUser(t, 1, "GET", "/tasks?id=5", nil))

	out := decodeEnvelope(t, rr)
	if out["success"] != false || out["message"] != "Task not found" {
		t.Errorf("unexpected response: %v", out)
	}
}

func TestTaskHandler_Update_OwnershipPrecondition(t *testing.T) {
	h, mock := newTaskHandler(t)

	// Ownership check comes first and fails; no UPDATE must be issued.
	mock.ExpectQuery(`SELECT id FROM tasks WHERE id = \$1 AND user_id = \$2`).
		WithArgs(5, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	rr := httptest.NewRecorder()
	h.Update(rr, asUser(t, 1, "PUT", "/tasks", map[string]interface{}{
		"id":    5,
		"title": "hijack",
	}))

	out := decodeEnvelope(t, rr)
	if out["success"] != false || out["message"] != "Task not found or access denied" {
		t.Errorf("unexpected response: %v", out)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestTaskHandler_Update_FullReplace(t *testing.T) {
	h, mock := newTaskHandler(t)

	now := time.Now()
	mock.ExpectQuery(`SELECT id FROM tasks WHERE id = \$1 AND user_id = \$2`).
		WithArgs(3, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(3))
	// Omitted optional fields revert to the defaults, mirroring create.
	mock.ExpectQuery(`UPDATE tasks`).
		WithArgs("Renamed", "", nil, nil, "medium", "work", "todo", 3, 1).
		WillReturnRows(sqlmock.NewRows(taskCols).
			AddRow(3, 1, "Renamed", "", nil, nil, "medium", "work", "todo", now, now))

	rr := httptest.NewRecorder()
	h.Update(rr, asUser(t, 1, "PUT", "/tasks", map[string]interface{}{
		"id":    3,
		"title": "Renamed",
	}))

	out := decodeEnvelope(t, rr)
	if out["success"] != true || out["message"] != "Task updated successfully" {
		t.Errorf("unexpected response: %v", out)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestTaskHandler_Delete_Idempotent(t *testing.T) {
	h, mock := newTaskHandler(t)

	mock.ExpectExec(`DELETE FROM tasks WHERE id = \$1 AND user_id = \$2`).
		WithArgs(99, 1).
		WillReturnResult(sqlmock.NewResult(0, 0))

	rr := httptest.NewRecorder()
	h.Delete(rr, asUser(t, 1, "DELETE", "/tasks?id=99", nil))

	out := decodeEnvelope(t, rr)
	if out["success"] != true || out["message"] != "Task deleted successfully" {
		t.Errorf("unexpected response: %v", out)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestTaskHandler_Delete_MissingID(t *testing.T) {
	h, _ := newTaskHandler(t)

	rr := httptest.NewRecorder()
	h.Delete(rr, asUser(t, 1, "DELETE", "/tasks", nil))

	out := decodeEnvelope(t, rr)
	if out["success"] != false || out["message"] != "Task ID is required" {
		t.Errorf("unexpected response: %v", out)
	}
}
