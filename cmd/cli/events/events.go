package events

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
	flagDate        string
	flagTime        string
	flagLocation    string
	flagType        string
)

// ==========================
// CLI Command Init
// ==========================
func init() {
	eventsCmd := &cobra.Command{
		Use:   "events",
		Short: "Manage calendar events",
		Long:  "List, create, update and delete calendar events. Requires a prior `planner auth login`.",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List your events in start order",
		RunE:  runList,
	}

	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create an event",
		RunE:  runCreate,
	}
	addFieldFlags(createCmd)
	createCmd.MarkFlagRequired("title")
	createCmd.MarkFlagRequired("date")

	updateCmd := &cobra.Command{
		Use:   "update",
		Short: "Update an event (full replace)",
		RunE:  runUpdate,
	}
	updateCmd.Flags().IntVar(&flagID, "id", 0, "event id (required)")
	addFieldFlags(updateCmd)
	updateCmd.MarkFlagRequired("id")
	updateCmd.MarkFlagRequired("title")
	updateCmd.MarkFlagRequired("date")

	deleteCmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete an event",
		RunE:  runDelete,
	}
	deleteCmd.Flags().IntVar(&flagID, "id", 0, "event id (required)")
	deleteCmd.MarkFlagRequired("id")

	eventsCmd.AddCommand(listCmd, createCmd, updateCmd, deleteCmd)
	root.GetRoot().AddCommand(eventsCmd)
}

func addFieldFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&flagTitle, "title", "", "event title (required)")
	cmd.Flags().StringVar(&flagDescription, "description", "", "description")
	cmd.Flags().StringVar(&flagDate, "date", "", "event date (YYYY-MM-DD, required)")
	cmd.Flags().StringVar(&flagTime, "time", "", "start time (HH:MM, default 00:00)")
	cmd.Flags().StringVar(&flagLocation, "location", "", "location")
	cmd.Flags().StringVar(&flagType, "type", "", "meeting, deadline, reminder, appointment or personal")
}

// request sends an authenticated request to /events and decodes the envelope.
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

	req, err := http.NewRequest(method, config.APIURL()+"/events"+query, reader)
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
	body := map[string]interface{}{"title": flagTitle, "date": flagDate}
	if flagDescription != "" {
		body["description"] = flagDescription
	}
	if flagTime != "" {
		body["time"] = flagTime
	}
	if flagLocation != "" {
		body["location"] = flagLocation
	}
	if flagType != "" {
		body["type"] = flagType
	}
	return body
}

func runList(cmd *cobra.Command, args []string) error {
	out, err := request(http.MethodGet, "", nil)
	if err != nil {
		return err
	}

	var events []models.Event
	if err := json.Unmarshal(out["data"], &events); err != nil {
		return err
	}

	rows := make([][]interface{}, 0, len(events))
	for _, e := range events {
		rows = append(rows, []interface{}{e.ID, e.Title, e.Date, e.Time, e.Type, e.Location})
	}
	output.RenderTable([]string{"ID", "Title", "Date", "Time", "Type", "Location"}, rows)
	return nil
}

func runCreate(cmd *cobra.Command, args []string) error {
	out, err := request(http.MethodPost, "", fieldBody())
	if err != nil {
		return err
	}

	var event models.Event
	if err := json.Unmarshal(out["event"], &event); err != nil {
		return err
	}
	fmt.Printf("Created event %d: %s on %s\n", event.ID, event.Title, event.Date)
	return nil
}

func runUpdate(cmd *cobra.Command, args []string) error {
	body := fieldBody()
	body["id"] = flagID

	out, err := request(http.MethodPut, "", body)
	if err != nil {
		return err
	}

	var event models.Event
	if err := json.Unmarshal(out["event"], &event); err != nil {
		return err
	}
	fmt.Printf("Updated event %d: %s\n", event.ID, event.Title)
	return nil
}

func runDelete(cmd *cobra.Command, args []string) error {
	if _, err := request(http.MethodDelete, fmt.Sprintf("?id=%d", flagID), nil); err != nil {
		return err
	}
	fmt.Printf("Deleted event %d\n", flagID)
	return nil
}
