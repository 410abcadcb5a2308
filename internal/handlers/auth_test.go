package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/crucial707/web-planner/internal/auth"
	"github.com/crucial707/web-planner/internal/repo"
	"golang.org/x/crypto/bcrypt"
)

func newAuthHandler(t *testing.T) (*AuthHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	svc := auth.NewService(repo.NewUserRepo(db), repo.NewSessionRepo(db), 24*time.Hour)
	return &AuthHandler{
		Auth:    svc,
		Cookies: auth.CookieConfig{Name: "planner_session"},
	}, mock
}

func postJSON(t *testing.T, h *AuthHandler, url string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	data, _ := json.Marshal(body)
	req := httptest.NewRequest("POST", url, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.Dispatch(rr, req)
	return rr
}

func decodeEnvelope(t *testing.T, rr *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	if err := json.NewDecoder(rr.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return out
}

func TestAuthHandler_Register(t *testing.T) {
	h, mock := newAuthHandler(t)

	mock.ExpectQuery(`SELECT id FROM users WHERE username = \$1`).
		WithArgs("demo").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs("demo", sqlmock.AnyArg(), nil).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "email", "created_at"}).
			AddRow(1, "demo", nil, time.Now()))

	rr := postJSON(t, h, "/auth?action=register", map[string]string{
		"username": "demo",
		"password": "demo123",
	})

	if rr.Code != http.StatusOK {
		t.Errorf("status: got %d, want 200", rr.Code)
	}
	out := decodeEnvelope(t, rr)
	if out["success"] != true || out["user_id"] != float64(1) {
		t.Errorf("unexpected response: %v", out)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestAuthHandler_Register_Duplicate(t *testing.T) {
	h, mock := newAuthHandler(t)

	mock.ExpectQuery(`SELECT id FROM users WHERE username = \$1`).
		WithArgs("demo").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))

	rr := postJSON(t, h, "/auth?action=register", map[string]string{
		"username": "demo",
		"password": "demo123",
	})

	// Logical failure still rides a 200 envelope.
	if rr.Code != http.StatusOK {
		t.Errorf("status: got %d, want 200", rr.Code)
	}
	out := decodeEnvelope(t, rr)
	if out["success"] != false || out["message"] != "Username already exists" {
		t.Errorf("unexpected response: %v", out)
	}
}

func TestAuthHandler_Register_MissingFields(t *testing.T) {
	h, _ := newAuthHandler(t)

	rr := postJSON(t, h, "/auth?action=register", map[string]string{"username": "demo"})

	out := decodeEnvelope(t, rr)
	if out["success"] != false || out["message"] != "Username and password are required" {
		t.Errorf("unexpected response: %v", out)
	}
}

func TestAuthHandler_Login_SetsSessionCookie(t *testing.T) {
	h, mock := newAuthHandler(t)

	hash, _ := bcrypt.GenerateFromPassword([]byte("demo123"), bcrypt.MinCost)
	mock.ExpectQuery(`WHERE username = \$1 OR email = \$1`).
		WithArgs("demo").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "password_hash", "email", "created_at"}).
			AddRow(1, "demo", string(hash), nil, time.Now()))
	mock.ExpectQuery(`INSERT INTO sessions`).
		WithArgs(sqlmock.AnyArg(), 1, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "expires_at", "created_at"}).
			AddRow("issued-token", 1, time.Now().Add(24*time.Hour), time.Now()))

	rr := postJSON(t, h, "/auth?action=login", map[string]string{
		"username": "demo",
		"password": "demo123",
	})

	out := decodeEnvelope(t, rr)
	if out["success"] != true || out["session_id"] != "issued-token" {
		t.Errorf("unexpected response: %v", out)
	}
	user, ok := out["user"].(map[string]interface{})
	if !ok || user["username"] != "demo" {
		t.Errorf("unexpected user: %v", out["user"])
	}
	if _, leaked := user["password_hash"]; leaked {
		t.Error("password hash leaked into the response")
	}

	cookies := rr.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != "planner_session" || cookies[0].Value != "issued-token" {
		t.Fatalf("expected session cookie, got %+v", cookies)
	}
	if !cookies[0].HttpOnly {
		t.Error("session cookie must be HttpOnly")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	h, mock := newAuthHandler(t)

	hash, _ := bcrypt.GenerateFromPassword([]byte("correct"), bcrypt.MinCost)
	mock.ExpectQuery(`WHERE username = \$1 OR email = \$1`).
		WithArgs("demo").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "password_hash", "email", "created_at"}).
			AddRow(1, "demo", string(hash), nil, time.Now()))
	mock.ExpectQuery(`WHERE username = \$1 OR email = \$1`).
		WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "password_hash", "email", "created_at"}))

	wrongPass := decodeEnvelope(t, postJSON(t, h, "/auth?action=login", map[string]string{
		"username": "demo", "password": "wrong",
	}))
	noUser := decodeEnvelope(t, postJSON(t, h, "/auth?action=login", map[string]string{
		"username": "ghost", "password": "whatever",
	}))

	// The two failure modes must produce the same message.
	if wrongPass["message"] != "Invalid username or password" {
		t.Errorf("wrong password message: %v", wrongPass["message"])
	}
	if noUser["message"] != wrongPass["message"] {
		t.Errorf("messages differ: %v vs %v", noUser["message"], wrongPass["message"])
	}
}

func TestAuthHandler_Logout(t *testing.T) {
	h, mock := newAuthHandler(t)

	mock.ExpectExec(`DELETE FROM sessions WHERE id = \$1`).
		WithArgs("tok").
		WillReturnResult(sqlmock.NewResult(0, 1))

	req := httptest.NewRequest("POST", "/auth?action=logout", nil)
	req.AddCookie(&http.Cookie{Name: "planner_session", Value: "tok"})
	rr := httptest.NewRecorder()
	h.Dispatch(rr, req)

	out := decodeEnvelope(t, rr)
	if out["success"] != true || out["message"] != "Logged out successfully" {
		t.Errorf("unexpected response: %v", out)
	}
	cookies := rr.Result().Cookies()
	if len(cookies) != 1 || cookies[0].MaxAge >= 0 {
		t.Errorf("expected cookie removal, got %+v", cookies)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestAuthHandler_Logout_WithoutSession(t *testing.T) {
	h, _ := newAuthHandler(t)

	req := httptest.NewRequest("POST", "/auth?action=logout", nil)
	rr := httptest.NewRecorder()
	h.Dispatch(rr, req)

	out := decodeEnvelope(t, rr)
	if out["success"] != true {
		t.Errorf("logout must be idempotent: %v", out)
	}
}

func TestAuthHandler_Check_Unauthenticated(t *testing.T) {
	h, _ := newAuthHandler(t)

	req := httptest.NewRequest("GET", "/auth?action=check", nil)
	rr := httptest.NewRecorder()
	h.Dispatch(rr, req)

	out := decodeEnvelope(t, rr)
	if out["success"] != true || out["authenticated"] != false {
		t.Errorf("unexpected response: %v", out)
	}
}

func TestAuthHandler_Check_Authenticated(t *testing.T) {
	h, mock := newAuthHandler(t)

	mock.ExpectQuery(`FROM sessions\s+WHERE id = \$1 AND expires_at > \$2`).
		WithArgs("live-token", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "expires_at", "created_at"}).
			AddRow("live-token", 1, time.Now().Add(time.Hour), time.Now()))
	mock.ExpectQuery(`FROM users\s+WHERE id = \$1`).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "password_hash", "email", "created_at"}).
			AddRow(1, "demo", "hash", nil, time.Now()))

	req := httptest.NewRequest("GET", "/auth?action=check", nil)
	req.AddCookie(&http.Cookie{Name: "planner_session", Value: "live-token"})
	rr := httptest.NewRecorder()
	h.Dispatch(rr, req)

	out := decodeEnvelope(t, rr)
	if out["success"] != true || out["authenticated"] != true {
		t.Errorf("unexpected response: %v", out)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestAuthHandler_MethodNotAllowed(t *testing.T) {
	h, _ := newAuthHandler(t)

	req := httptest.NewRequest("GET", "/auth?action=login", nil)
	rr := httptest.NewRecorder()
	h.Dispatch(rr, req)

	if rr.Code != http.StatusMethodNotAllowed {
		t.Errorf("status: got %d, want 405", rr.Code)
	}
}

func TestAuthHandler_UnknownAction(t *testing.T) {
	h, _ := newAuthHandler(t)

	req := httptest.NewRequest("POST", "/auth?action=frobnicate", nil)
	rr := httptest.NewRecorder()
	h.Dispatch(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("status: got %d, want 200", rr.Code)
	}
	out := decodeEnvelope(t, rr)
	if out["success"] != false || out["message"] != "Unknown action" {
		t.Errorf("unexpected response: %v", out)
	}
}
