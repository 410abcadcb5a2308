package repo

import (
	"database/sql"
	"errors"

	"github.com/crucial707/web-planner/internal/models"
)

// ErrNotFound is returned when a row does not exist or is not visible to the
// requesting user. Callers must not be able to tell which.
var ErrNotFound = errors.New("not found")

// ==========================
// UserRepo
// ==========================
type UserRepo struct {
	DB *sql.DB
}

func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{DB: db}
}

// ==========================
// Create User
// ==========================
func (r *UserRepo) Create(username, passwordHash string, email *string) (*models.User, error) {
	query := `
		INSERT INTO users (username, password_hash, email)
		VALUES ($1, $2, $3)
		RETURNING id, username, email, created_at
	`

	user := &models.User{PasswordHash: passwordHash}

	err := r.DB.QueryRow(query, username, passwordHash, email).
		Scan(&user.ID, &user.Username, &user.Email, &user.CreatedAt)

	if err != nil {
		return nil, err
	}

	return user, nil
}

// ==========================
// Username Exists
// ==========================
func (r *UserRepo) UsernameExists(username string) (bool, error) {
	var id int
	err := r.DB.QueryRow(`SELECT id FROM users WHERE username = $1`, username).Scan(&id)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// ==========================
// Get By ID
// ==========================
func (r *UserRepo) GetByID(id int) (*models.User, error) {
	query := `
		SELECT id, username, password_hash, email, created_at
		FROM users
		WHERE id = $1
	`

	user := &models.User{}

	err := r.DB.QueryRow(query, id).
		Scan(&user.ID, &user.Username, &user.PasswordHash, &user.Email, &user.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return user, nil
}

// ==========================
// Get By Identifier (username or email)
// ==========================
func (r *UserRepo) GetByIdentifier(identifier string) (*models.User, error) {
	query := `
		SELECT id, username, password_hash, email, created_at
		FROM users
		WHERE username = $1 OR email = $1
	`

	user := &models.User{}

	err := r.DB.QueryRow(query, identifier).
		Scan(&user.ID, &user.Username, &user.PasswordHash, &user.Email, &user.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return user, nil
}
