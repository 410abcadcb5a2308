package handlers

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/crucial707/web-planner/internal/middleware"
	"github.com/crucial707/web-planner/internal/models"
	"github.com/crucial707/web-planner/internal/repo"
)

// ==========================
// Event Handler
// ==========================

type EventHandler struct {
	Repo *repo.EventRepo
}

type eventInput struct {
	ID          int    `json:"id"`
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	Date        string `json:"date" validate:"required,datetime=2006-01-02"`
	Time        string `json:"time" validate:"omitempty,datetime=15:04"`
	Location    string `json:"location"`
	Type        string `json:"type" validate:"omitempty,oneof=meeting deadline reminder appointment personal"`
}

// toModel builds the stored row: start is the submitted date plus time
// (midnight when omitted), end is always one hour after start, and the color
// is fixed from the submitted type at write time.
func (in eventInput) toModel() (models.Event, error) {
	startStr := in.Date + " 00:00"
	if in.Time != "" {
		startStr = in.Date + " " + in.Time
	}
	start, err := time.Parse("2006-01-02 15:04", startStr)
	if err != nil {
		return models.Event{}, err
	}

	eventType := in.Type
	if eventType == "" {
		eventType = models.DefaultEventType
	}

	return models.Event{
		Title:         in.Title,
		Description:   in.Description,
		StartDatetime: start,
		EndDatetime:   start.Add(time.Hour),
		Location:      in.Location,
		Color:         models.ColorForType(eventType),
	}, nil
}

// ==========================
// List / Get
// ==========================

// Get serves GET /events: the full list in start order, or one row via ?id=.
func (h *EventHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		Fail(w, "Authentication required")
		return
	}

	idStr := r.URL.Query().Get("id")
	if idStr == "" {
		events, err := h.Repo.ListByUser(userID)
		if err != nil {
			slog.Error("list events failed", "user_id", userID, "error", err)
			Fail(w, ErrMessageStore)
			return
		}
		WriteJSON(w, Envelope{"success": true, "data": events})
		return
	}

	id, err := strconv.Atoi(idStr)
	if err != nil {
		Fail(w, "Invalid event ID")
		return
	}

	event, err := h.Repo.GetByID(id, userID)
	if err == repo.ErrNotFound {
		Fail(w, "Event not found")
		return
	}
	if err != nil {
		slog.Error("get event failed", "user_id", userID, "event_id", id, "error", err)
		Fail(w, ErrMessageStore)
		return
	}

	WriteJSON(w, Envelope{"success": true, "data": event})
}

// ==========================
// Create
// ==========================
func (h *EventHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		Fail(w, "Authentication required")
		return
	}

	var input eventInput
	if err := DecodeStrict(r, &input); err != nil {
		Fail(w, "Invalid JSON data")
		return
	}
	if input.Title == "" || input.Date == "" {
		Fail(w, "Event title and date are required")
		return
	}
	if err := validate.Struct(input); err != nil {
		Fail(w, "Invalid event data")
		return
	}

	event, err := input.toModel()
	if err != nil {
		Fail(w, "Invalid event data")
		return
	}

	created, err := h.Repo.Create(userID, event)
	if err != nil {
		slog.Error("create event failed", "user_id", userID, "error", err)
		Fail(w, ErrMessageStore)
		return
	}

	WriteJSON(w, Envelope{
		"success": true,
		"message": "Event created successfully",
		"event":   created,
	})
}

// ==========================
// Update
// ==========================
func (h *EventHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		Fail(w, "Authentication required")
		return
	}

	var input eventInput
	if err := DecodeStrict(r, &input); err != nil {
		Fail(w, "Invalid JSON data")
		return
	}

	id := input.ID
	if id == 0 {
		if idStr := r.URL.Query().Get("id"); idStr != "" {
			var err error
			if id, err = strconv.Atoi(idStr); err != nil {
				Fail(w, "Invalid event ID")
				return
			}
		}
	}
	if id == 0 {
		Fail(w, "Event ID is required")
		return
	}

	if input.Title == "" || input.Date == "" {
		Fail(w, "Event title and date are required")
		return
	}
	if err := validate.Struct(input); err != nil {
		Fail(w, "Invalid event data")
		return
	}

	owned, err := h.Repo.ExistsForUser(id, userID)
	if err != nil {
		slog.Error("event ownership check failed", "user_id", userID, "event_id", id, "error", err)
		Fail(w, ErrMessageStore)
		return
	}
	if !owned {
		Fail(w, "Event not found or access denied")
		return
	}

	event, err := input.toModel()
	if err != nil {
		Fail(w, "Invalid event data")
		return
	}

	updated, err := h.Repo.UpdateByID(id, userID, event)
	if err != nil {
		slog.Error("update event failed", "user_id", userID, "event_id", id, "error", err)
		Fail(w, ErrMessageStore)
		return
	}

	WriteJSON(w, Envelope{
		"success": true,
		"message": "Event updated successfully",
		"event":   updated,
	})
}

// ==========================
// Delete
// ==========================
func (h *EventHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		Fail(w, "Authentication required")
		return
	}

	idStr := r.URL.Query().Get("id")
	if idStr == "" {
		Fail(w, "Event ID is required")
		return
	}
	id, err := strconv.Atoi(idStr)
	if err != nil {
		Fail(w, "Invalid event ID")
		return
	}

	if err := h.Repo.DeleteByID(id, userID); err != nil {
		slog.Error("delete event failed", "user_id", userID, "event_id", id, "error", err)
		Fail(w, ErrMessageStore)
		return
	}

	WriteJSON(w, Envelope{
		"success": true,
		"message": "Event deleted successfully",
	})
}
