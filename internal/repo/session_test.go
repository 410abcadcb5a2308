package repo

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

var sessionCols = []string{"id", "user_id", "expires_at", "created_at"}

func TestSessionRepo_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	expires := time.Now().Add(24 * time.Hour)
	mock.ExpectQuery(`INSERT INTO sessions`).
		WithArgs("tok-1", 7, expires).
		WillReturnRows(sqlmock.NewRows(sessionCols).AddRow("tok-1", 7, expires, time.Now()))

	repo := NewSessionRepo(db)
	sess, err := repo.Create("tok-1", 7, expires)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if sess.ID != "tok-1" || sess.UserID != 7 {
		t.Errorf("unexpected session: %+v", sess)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestSessionRepo_GetValid_Expired(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	// The expiry predicate is in the statement itself; an expired row behaves
	// exactly like a deleted one.
	now := time.Now()
	mock.ExpectQuery(`FROM sessions\s+WHERE id = \$1 AND expires_at > \$2`).
		WithArgs("dead-token", now).
		WillReturnRows(sqlmock.NewRows(sessionCols))

	repo := NewSessionRepo(db)
	_, err = repo.GetValid("dead-token", now)
	if err != ErrNoSession {
		t.Fatalf("expected ErrNoSession, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestSessionRepo_Delete_MissingRowOK(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectExec(`DELETE FROM sessions WHERE id = \$1`).
		WithArgs("gone").
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := NewSessionRepo(db)
	if err := repo.Delete("gone"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestSessionRepo_DeleteExpired(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	now := time.Now()
	mock.ExpectExec(`DELETE FROM sessions WHERE expires_at <= \$1`).
		WithArgs(now).
		WillReturnResult(sqlmock.NewResult(0, 3))

	repo := NewSessionRepo(db)
	n, err := repo.DeleteExpired(now)
	if err != nil {
		t.Fatalf("DeleteExpired: %v", err)
	}
	if n != 3 {
		t.Errorf("expected 3 deleted, got %d", n)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}
