package tasks

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/crucial707/web-planner/cmd/cli/config"
	"github.com/crucial707/web-planner/cmd/cli/output"
	"github.com/crucial707/web-planner/cmd/cli/root"
	"github.com/crucial707/web-planner/internal/models"
	"github.com/spf13/cobra"
)

var (
	flagID          int
	flagTitle       string
	flagDescription string
	flagDueDate     string
	flagDueTime     string
	flagPriority    string
	flagCategory    string
	flagStatus      string
)

// ==========================
// CLI Command Init
// ==========================
func init() {
	tasksCmd := &cobra.Command{
		Use:   "tasks",
		Short: "Manage tasks",
		Long:  "List, create, update and delete tasks. Requires a prior `planner auth login`.",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List your tasks",
		RunE:  runList,
	}

	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a task",
		RunE:  runCreate,
	}
	addFieldFlags(createCmd)
	createCmd.MarkFlagRequired("title")

	updateCmd := &cobra.Command{
		Use:   "update",
		Short: "Update a task (full replace)",
		RunE:  runUpdate,
	}
	updateCmd.Flags().IntVar(&flagID, "id", 0, "task id (required)")
	addFieldFlags(updateCmd)
	updateCmd.MarkFlagRequired("id")
	updateCmd.MarkFlagRequired("title")

	deleteCmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete a task",
		RunE:  runDelete,
	}
	deleteCmd.Flags().IntVar(&flagID, "id", 0, "task id (required)")
	deleteCmd.MarkFlagRequired("id")

	tasksCmd.AddCommand(listCmd, createCmd, updateCmd, deleteCmd)
	root.GetRoot().AddCommand(tasksCmd)
}

func addFieldFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&flagTitle, "title", "", "task title (required)")
	cmd.Flags().StringVar(&flagDescription, "description", "", "description")
	cmd.Flags().StringVar(&flagDueDate, "due-date", "", "due date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&flagDueTime, "due-time", "", "due time (HH:MM)")
	cmd.Flags().StringVar(&flagPriority, "priority", "", "low, medium or high (default medium)")
	cmd.Flags().StringVar(&flagCategory, "category", "", "category (default work)")
	cmd.Flags().StringVar(&flagStatus, "status", "", "todo, in_progress or done (default todo)")
}

// request sends an authenticated request to /tasks and decodes the envelope.
func request(method, query string, body interface{}) (map[string]json.RawMessage, error) {
	token := config.LoadSession()
	if token == "" {
		return nil, fmt.Errorf("not logged in; run `planner auth login` first")
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

	req, err := http.NewRequest(method, config.APIURL()+"/tasks"+query, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(&http.Cookie{Name: config.CookieName, Value: token})

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var out map[string]json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}

	var success bool
	json.Unmarshal(out["success"], &success)
	if !success {
		var message string
		json.Unmarshal(out["message"], &message)
		return nil, fmt.Errorf("request failed: %s", message)
	}
	return out, nil
}

func fieldBody() map[string]interface{} {
	body := map[string]interface{}{"title": flagTitle}
	if flagDescription != "" {
		body["description"] = flagDescription
	}
	if flagDueDate != "" {
		body["due_date"] = flagDueDate
	}
	if flagDueTime != "" {
		body["due_time"] = flagDueTime
	}
	if flagPriority != "" {
		body["priority"] = flagPriority
	}
	if flagCategory != "" {
		body["category"] = flagCategory
	}
	if flagStatus != "" {
		body["status"] = flagStatus
	}
	return body
}

func runList(cmd *cobra.Command, args []string) error {
	out, err := request(http.MethodGet, "", nil)
	if err != nil {
		return err
	}

	var tasks []models.Task
	if err := json.Unmarshal(out["data"], &tasks); err != nil {
		return err
	}

	rows := make([][]interface{}, 0, len(tasks))
	for _, t := range tasks {
		due := ""
		if t.DueDate != nil {
			due = *t.DueDate
		}
		if t.DueTime != nil {
			due += " " + *t.DueTime
		}
		rows = append(rows, []interface{}{t.ID, t.Title, t.Priority, t.Category, t.Status, due})
	}
	output.RenderTable([]string{"ID", "Title", "Priority", "Category", "Status", "Due"}, rows)
	return nil
}

func runCreate(cmd *cobra.Command, args []string) error {
	out, err := request(http.MethodPost, "", fieldBody())
	if err != nil {
		return err
	}

	var task models.Task
	if err := json.Unmarshal(out["task"], &task); err != nil {
		return err
	}
	fmt.Printf("Created task %d: %s\n", task.ID, task.Title)
	return nil
}

func runUpdate(cmd *cobra.Command, args []string) error {
	body := fieldBody()
	body["id"] = flagID

	out, err := request(http.MethodPut, "", body)
	if err != nil {
		return err
	}

	var task models.Task
	if err := json.Unmarshal(out["task"], &task); err != nil {
		return err
	}
	fmt.Printf("Updated task %d: %s\n", task.ID, task.Title)
	return nil
}

func runDelete(cmd *cobra.Command, args []string) error {
	if _, err := request(http.MethodDelete, fmt.Sprintf("?id=%d", flagID), nil); err != nil {
		return err
	}
	fmt.Printf("Deleted task %d\n", flagID)
	return nil
}
