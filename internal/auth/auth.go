package auth

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"io"
	"time"

	"github.com/crucial707/web-planner/internal/models"
	"github.com/crucial707/web-planner/internal/repo"
	"github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrDuplicateUsername is returned by Register when the username is taken.
	ErrDuplicateUsername = errors.New("username already exists")

	// ErrInvalidCredentials covers both unknown identifier and wrong password;
	// callers must surface one indistinguishable message for both.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// dummyHash absorbs a bcrypt comparison when the identifier is unknown, so a
// failed login costs roughly the same with or without a matching user.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("web-planner-dummy"), bcrypt.DefaultCost)

// ==========================
// Auth Service
// ==========================

// Service owns the credential and session stores and implements the full
// session lifecycle: register, login, logout, auth check.
type Service struct {
	Users    *repo.UserRepo
	Sessions *repo.SessionRepo

	// TTL is the lifetime of a newly issued session.
	TTL time.Duration
}

func NewService(users *repo.UserRepo, sessions *repo.SessionRepo, ttl time.Duration) *Service {
	return &Service{Users: users, Sessions: sessions, TTL: ttl}
}

// newSessionToken returns 32 random bytes hex-encoded (256 bits of entropy).
func newSessionToken() string {
	b := make([]byte, 32)
	if _, err := io.ReadFull(rand.Reader, b); err != nil {
		panic(err)
	}
	return hex.EncodeToString(b)
}

// ==========================
// Register
// ==========================

// Register creates a user with a bcrypt-hashed password and returns the new id.
// The plaintext password is never stored or logged.
func (s *Service) Register(username, password string, email *string) (int, error) {
	taken, err := s.Users.UsernameExists(username)
	if err != nil {
		return 0, err
	}
	if taken {
		return 0, ErrDuplicateUsername
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return 0, err
	}

	user, err := s.Users.Create(username, string(hash), email)
	if err != nil {
		// Unique violation covers the race between the exists check and the insert.
		if e, ok := err.(*pq.Error); ok && e.Code == "23505" {
			return 0, ErrDuplicateUsername
		}
		return 0, err
	}

	return user.ID, nil
}

// ==========================
// Login
// ==========================

// Login verifies the identifier (username or email) and password, and on
// success issues a fresh session. Prior sessions for the same user stay valid.
func (s *Service) Login(identifier, password string) (*models.User, *models.Session, error) {
	user, err := s.Users.GetByIdentifier(identifier)
	if err == repo.ErrNotFound {
		bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		return nil, nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, nil, ErrInvalidCredentials
	}

	sess, err := s.Sessions.Create(newSessionToken(), user.ID, time.Now().Add(s.TTL))
	if err != nil {
		return nil, nil, err
	}

	return user, sess, nil
}

// ==========================
// Logout
// ==========================

// Logout revokes the session. Unknown or already-deleted tokens succeed too;
// the caller's cookie is cleared regardless.
func (s *Service) Logout(sessionID string) error {
	if sessionID == "" {
		return nil
	}
	return s.Sessions.Delete(sessionID)
}

// ==========================
// CheckAuth
// ==========================

// CheckAuth resolves a session token to a user id. Missing, unknown and
// expired sessions all come back as repo.ErrNoSession.
func (s *Service) CheckAuth(sessionID string) (int, error) {
	if sessionID == "" {
		return 0, repo.ErrNoSession
	}
	sess, err := s.Sessions.GetValid(sessionID, time.Now())
	if err != nil {
		return 0, err
	}
	return sess.UserID, nil
}

// ==========================
// CurrentUser
// ==========================

// CurrentUser returns the public user behind the session, or nil (not an
// error) when the session does not resolve.
func (s *Service) CurrentUser(sessionID string) (*models.User, error) {
	userID, err := s.CheckAuth(sessionID)
	if err == repo.ErrNoSession {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	user, err := s.Users.GetByID(userID)
	if err == repo.ErrNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}
