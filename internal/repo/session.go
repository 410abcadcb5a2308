package repo

import (
	"database/sql"
	"errors"
	"time"

	"github.com/crucial707/web-planner/internal/models"
)

// ErrNoSession is returned when a session id does not resolve to a live session.
var ErrNoSession = errors.New("no session found")

// ==========================
// SessionRepo
// ==========================
type SessionRepo struct {
	DB *sql.DB
}

func NewSessionRepo(db *sql.DB) *SessionRepo {
	return &SessionRepo{DB: db}
}

// ==========================
// Create Session
// ==========================
func (r *SessionRepo) Create(id string, userID int, expiresAt time.Time) (*models.Session, error) {
	query := `
		INSERT INTO sessions (id, user_id, expires_at)
		VALUES ($1, $2, $3)
		RETURNING id, user_id, expires_at, created_at
	`

	sess := &models.Session{}

	err := r.DB.QueryRow(query, id, userID, expiresAt).
		Scan(&sess.ID, &sess.UserID, &sess.ExpiresAt, &sess.CreatedAt)

	if err != nil {
		return nil, err
	}

	return sess, nil
}

// ==========================
// Get Valid Session
// ==========================

// GetValid returns the session only if it exists and has not expired at now.
// Expired rows are left in place; they are indistinguishable from deleted ones
// to the caller.
func (r *SessionRepo) GetValid(id string, now time.Time) (*models.Session, error) {
	query := `
		SELECT id, user_id, expires_at, created_at
		FROM sessions
		WHERE id = $1 AND expires_at > $2
	`

	sess := &models.Session{}

	err := r.DB.QueryRow(query, id, now).
		Scan(&sess.ID, &sess.UserID, &sess.ExpiresAt, &sess.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, err
	}

	return sess, nil
}

// ==========================
// Delete Session
// ==========================

// Delete removes a session by id. Deleting a session that does not exist is
// not an error.
func (r *SessionRepo) Delete(id string) error {
	_, err := r.DB.Exec(`DELETE FROM sessions WHERE id = $1`, id)
	return err
}

// ==========================
// Delete Expired Sessions
// ==========================
func (r *SessionRepo) DeleteExpired(now time.Time) (int64, error) {
	result, err := r.DB.Exec(`DELETE FROM sessions WHERE expires_at <= $1`, now)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
