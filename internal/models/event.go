package models

import (
	"strings"
	"time"
)

// DefaultEventType is assumed when a client omits the type on create/update.
const DefaultEventType = "meeting"

// EventColors maps an event type to its fixed display color.
var EventColors = map[string]string{
	"meeting":     "#3b82f6",
	"deadline":    "#ef4444",
	"reminder":    "#f59e0b",
	"appointment": "#10b981",
	"personal":    "#8b5cf6",
}

// eventKeywords is checked in order; the first title match wins.
var eventKeywords = []string{"meeting", "deadline", "reminder", "appointment"}

type Event struct {
	ID          int    `json:"id"`
	UserID      int    `json:"user_id"`
	Title       string `json:"title"`
	Description string `json:"description"`

	// Date, Time and Type are derived for display: date/time from the start
	// instant, type from the title. They are never stored.
	Date string `json:"date"`
	Time string `json:"time"`
	Type string `json:"type"`

	Location      string    `json:"location"`
	Color         string    `json:"color"`
	StartDatetime time.Time `json:"start_datetime"`
	EndDatetime   time.Time `json:"end_datetime"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// InferEventType classifies an event by case-insensitive keyword match against
// its title. Pure and deterministic: the same title always yields the same type.
func InferEventType(title string) string {
	lower := strings.ToLower(title)
	for _, kw := range eventKeywords {
		if strings.Contains(lower, kw) {
			return kw
		}
	}
	return "personal"
}

// ColorForType returns the display color for an event type, falling back to
// the default type's color for unknown values.
func ColorForType(eventType string) string {
	if c, ok := EventColors[eventType]; ok {
		return c
	}
	return EventColors[DefaultEventType]
}

// Derive fills the display-only fields from the stored columns.
func (e *Event) Derive() {
	e.Date = e.StartDatetime.Format("2006-01-02")
	e.Time = e.StartDatetime.Format("15:04")
	e.Type = InferEventType(e.Title)
}
