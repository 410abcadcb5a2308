package config

import (
	"os"
	"path/filepath"
	"strings"
)

const defaultAPIURL = "http://localhost:8080"

// sessionFileName holds the session token issued at login.
const sessionFileName = ".planner_session"

// CookieName must match the API's session cookie name.
const CookieName = "planner_session"

// APIURL returns the base URL for the Web Planner API.
// It can be overridden with the PLANNER_API_URL environment variable.
func APIURL() string {
	if v := os.Getenv("PLANNER_API_URL"); v != "" {
		return v
	}
	return defaultAPIURL
}

func sessionFilePath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, sessionFileName), nil
}

// SaveSession stores the session token for later commands.
func SaveSession(token string) error {
	path, err := sessionFilePath()
	if err != nil {
		return err
	}
	return os.WriteFile(path, []byte(token), 0o600)
}

// LoadSession returns the stored session token, or "" when not logged in.
func LoadSession() string {
	path, err := sessionFilePath()
	if err != nil {
		return ""
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// ClearSession removes the stored session token. Missing file is fine.
func ClearSession() error {
	path, err := sessionFilePath()
	if err != nil {
		return err
	}
	err = os.Remove(path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
