package repo

import (
	"database/sql"

	"github.com/crucial707/web-planner/internal/models"
)

// ========================
// REPOSITORY STRUCT
// ========================

// EventRepo persists calendar events, user-scoped like TaskRepo. The display
// fields (date, time, type) are derived by the model after scanning, never stored.
type EventRepo struct {
	DB *sql.DB
}

func NewEventRepo(db *sql.DB) *EventRepo {
	return &EventRepo{DB: db}
}

const eventColumns = `id, user_id, title, description, start_datetime, end_datetime, location, color, created_at, updated_at`

func scanEvent(row *sql.Row) (models.Event, error) {
	var e models.Event
	err := row.Scan(
		&e.ID,
		&e.UserID,
		&e.Title,
		&e.Description,
		&e.StartDatetime,
		&e.EndDatetime,
		&e.Location,
		&e.Color,
		&e.CreatedAt,
		&e.UpdatedAt,
	)
	if err == nil {
		e.Derive()
	}
	return e, err
}

// ========================
// CREATE EVENT
// ========================

func (r *EventRepo) Create(userID int, e models.Event) (models.Event, error) {
	row := r.DB.QueryRow(
		`INSERT INTO events (user_id, title, description, start_datetime, end_datetime, location, color)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING `+eventColumns,
		userID, e.Title, e.Description, e.StartDatetime, e.EndDatetime, e.Location, e.Color,
	)
	return scanEvent(row)
}

// ========================
// GET EVENT BY ID
// ========================

func (r *EventRepo) GetByID(id, userID int) (models.Event, error) {
	row := r.DB.QueryRow(
		`SELECT `+eventColumns+`
		 FROM events
		 WHERE id = $1 AND user_id = $2`,
		id, userID,
	)
	event, err := scanEvent(row)
	if err == sql.ErrNoRows {
		return models.Event{}, ErrNotFound
	}
	return event, err
}

// ========================
// OWNERSHIP CHECK
// ========================

func (r *EventRepo) ExistsForUser(id, userID int) (bool, error) {
	var found int
	err := r.DB.QueryRow(
		`SELECT id FROM events WHERE id = $1 AND user_id = $2`,
		id, userID,
	).Scan(&found)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// ========================
// UPDATE EVENT BY ID
// ========================

func (r *EventRepo) UpdateByID(id, userID int, e models.Event) (models.Event, error) {
	row := r.DB.QueryRow(
		`UPDATE events
		 SET title = $1, description = $2, start_datetime = $3, end_datetime = $4, location = $5, color = $6, updated_at = now()
		 WHERE id = $7 AND user_id = $8
		 RETURNING `+eventColumns,
		e.Title, e.Description, e.StartDatetime, e.EndDatetime, e.Location, e.Color, id, userID,
	)
	event, err := scanEvent(row)
	if err == sql.ErrNoRows {
		return models.Event{}, ErrNotFound
	}
	return event, err
}

// ========================
// DELETE EVENT BY ID
// ========================

func (r *EventRepo) DeleteByID(id, userID int) error {
	_, err := r.DB.Exec(`DELETE FROM events WHERE id = $1 AND user_id = $2`, id, userID)
	return err
}

// ========================
// LIST EVENTS
// ========================

// ListByUser returns the user's events in start order, the order the calendar
// client renders them in.
func (r *EventRepo) ListByUser(userID int) ([]models.Event, error) {
	rows, err := r.DB.Query(
		`SELECT `+eventColumns+`
		 FROM events
		 WHERE user_id = $1
		 ORDER BY start_datetime ASC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := []models.Event{}
	for rows.Next() {
		var e models.Event
		if err := rows.Scan(
			&e.ID, &e.UserID, &e.Title, &e.Description, &e.StartDatetime, &e.EndDatetime,
			&e.Location, &e.Color, &e.CreatedAt, &e.UpdatedAt,
		); err != nil {
			return nil, err
		}
		e.Derive()
		events = append(events, e)
	}
	return events, rows.Err()
}
