package auth

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/crucial707/web-planner/cmd/cli/config"
	"github.com/crucial707/web-planner/cmd/cli/root"
	"github.com/spf13/cobra"
)

var (
	flagUsername string
	flagPassword string
	flagEmail    string
)

// ==========================
// CLI Command Init
// ==========================
func init() {
	authCmd := &cobra.Command{
		Use:   "auth",
		Short: "Register, login, logout and check the current user",
		Long: `Authenticate against the Web Planner API.
Login stores the session token locally for later task and event commands.`,
	}

	registerCmd := &cobra.Command{
		Use:   "register",
		Short: "Register a new user",
		RunE:  runRegister,
	}
	registerCmd.Flags().StringVar(&flagUsername, "username", "", "username (required)")
	registerCmd.Flags().StringVar(&flagPassword, "password", "", "password (required)")
	registerCmd.Flags().StringVar(&flagEmail, "email", "", "email (optional)")
	registerCmd.MarkFlagRequired("username")
	registerCmd.MarkFlagRequired("password")

	loginCmd := &cobra.Command{
		Use:   "login",
		Short: "Login and store the session token",
		RunE:  runLogin,
	}
	loginCmd.Flags().StringVar(&flagUsername, "username", "", "username or email (required)")
	loginCmd.Flags().StringVar(&flagPassword, "password", "", "password (required)")
	loginCmd.MarkFlagRequired("username")
	loginCmd.MarkFlagRequired("password")

	logoutCmd := &cobra.Command{
		Use:   "logout",
		Short: "Logout and forget the stored session",
		RunE:  runLogout,
	}

	checkCmd := &cobra.Command{
		Use:   "check",
		Short: "Show the currently authenticated user",
		RunE:  runCheck,
	}

	authCmd.AddCommand(registerCmd, loginCmd, logoutCmd, checkCmd)
	root.GetRoot().AddCommand(authCmd)
}

// postAuth sends a JSON body to /auth?action=<action>, attaching the stored
// session cookie when present.
func postAuth(action string, body interface{}) (map[string]interface{}, error) {
	method := http.MethodPost
	if action == "check" {
		method = http.MethodGet
	}

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, config.APIURL()+"/auth?action="+action, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if token := config.LoadSession(); token != "" {
		req.AddCookie(&http.Cookie{Name: config.CookieName, Value: token})
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var out map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	return out, nil
}

func runRegister(cmd *cobra.Command, args []string) error {
	body := map[string]string{"username": flagUsername, "password": flagPassword}
	if flagEmail != "" {
		body["email"] = flagEmail
	}

	out, err := postAuth("register", body)
	if err != nil {
		return err
	}
	if ok, _ := out["success"].(bool); !ok {
		return fmt.Errorf("register failed: %v", out["message"])
	}
	fmt.Printf("Registered user id %v\n", out["user_id"])
	return nil
}

func runLogin(cmd *cobra.Command, args []string) error {
	out, err := postAuth("login", map[string]string{
		"username": flagUsername,
		"password": flagPassword,
	})
	if err != nil {
		return err
	}
	if ok, _ := out["success"].(bool); !ok {
		return fmt.Errorf("login failed: %v", out["message"])
	}

	token, _ := out["session_id"].(string)
	if token == "" {
		return fmt.Errorf("login response had no session id")
	}
	if err := config.SaveSession(token); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	fmt.Println("Login successful")
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	out, err := postAuth("logout", nil)
	if err != nil {
		return err
	}
	if ok, _ := out["success"].(bool); !ok {
		return fmt.Errorf("logout failed: %v", out["message"])
	}
	if err := config.ClearSession(); err != nil {
		return err
	}
	fmt.Println("Logged out")
	return nil
}

func runCheck(cmd *cobra.Command, args []string) error {
	out, err := postAuth("check", nil)
	if err != nil {
		return err
	}
	if authed, _ := out["authenticated"].(bool); !authed {
		fmt.Println("Not authenticated")
		return nil
	}
	user, _ := out["user"].(map[string]interface{})
	fmt.Printf("Authenticated as %v (id %v)\n", user["username"], user["id"])
	return nil
}
