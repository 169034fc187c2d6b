package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"eventregistry/internal/domain"
)

const eventColumns = `event_id, event_name, description, start_date_time, end_date_time,
		location, organizer, max_participants, current_participants, status, created_at, updated_at`

type eventRepository struct {
	DB *sql.DB
}

func NewEventRepository(db *sql.DB) domain.EventRepository {
	return &eventRepository{
		DB: db,
	}
}

func scanEvent(row interface{ Scan(...any) error }) (*domain.Event, error) {
	e := &domain.Event{}
	err := row.Scan(
		&e.ID, &e.Name, &e.Description, &e.StartDateTime, &e.EndDateTime,
		&e.Location, &e.Organizer, &e.MaxParticipants, &e.CurrentParticipants,
		&e.Status, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return e, nil
}

func (r *eventRepository) Create(ctx context.Context, e *domain.Event) error {
	query := `
		INSERT INTO events (event_name, description, start_date_time, end_date_time,
			location, organizer, max_participants, current_participants, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING event_id
	`
	return r.DB.QueryRowContext(ctx, query,
		e.Name, e.Description, e.StartDateTime, e.EndDateTime,
		e.Location, e.Organizer, e.MaxParticipants, e.CurrentParticipants,
		e.Status, e.CreatedAt, e.UpdatedAt,
	).Scan(&e.ID)
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE event_id = $1`
	e, err := scanEvent(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

func (r *eventRepository) List(ctx context.Context) ([]*domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events ORDER BY created_at DESC`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]*domain.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *eventRepository) Update(ctx context.Context, e *domain.Event) error {
	query := `
		UPDATE events
		SET event_name = $1, description = $2, start_date_time = $3, end_date_time = $4,
			location = $5, organizer = $6, max_participants = $7, updated_at = $8
		WHERE event_id = $9
	`
	result, err := r.DB.ExecContext(ctx, query,
		e.Name, e.Description, e.StartDateTime, e.EndDateTime,
		e.Location, e.Organizer, e.MaxParticipants, e.UpdatedAt, e.ID,
	)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *eventRepository) UpdateStatus(ctx context.Context, id string, status domain.EventStatus) (*domain.Event, error) {
	query := `
		UPDATE events SET status = $1, updated_at = NOW()
		WHERE event_id = $2
		RETURNING ` + eventColumns
	e, err := scanEvent(r.DB.QueryRowContext(ctx, query, status, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

// Delete removes the event and its participant rows in a single transaction
// so no orphaned registrations remain.
func (r *eventRepository) Delete(ctx context.Context, id string) (err error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM participants WHERE event_id = $1`, id); err != nil {
		return fmt.Errorf("delete participants: %w", err)
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM events WHERE event_id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		err = domain.ErrNotFound
		return err
	}

	return tx.Commit()
}

func (r *eventRepository) UpdateParticipantCount(ctx context.Context, id string, count int) error {
	// Deliberately not an error when the event is gone.
	query := `UPDATE events SET current_participants = $1, updated_at = NOW() WHERE event_id = $2`
	_, err := r.DB.ExecContext(ctx, query, count, id)
	return err
}

func (r *eventRepository) CountAll(ctx context.Context) (int, error) {
	var count int
	err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM events`).Scan(&count)
	return count, err
}

func (r *eventRepository) CountByStatus(ctx context.Context, status domain.EventStatus) (int, error) {
	var count int
	err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM events WHERE status = $1`, status).Scan(&count)
	return count, err
}

// sortColumns whitelists sortable fields to their column names.
var sortColumns = map[string]string{
	"createdAt":           "created_at",
	"startDateTime":       "start_date_time",
	"endDateTime":         "end_date_time",
	"eventName":           "event_name",
	"maxParticipants":     "max_participants",
	"currentParticipants": "current_participants",
}

func (r *eventRepository) Search(ctx context.Context, c domain.EventSearchCriteria) ([]*domain.Event, int, error) {
	var where []string
	var args []any
	n := 1

	if c.Keyword != "" {
		where = append(where, fmt.Sprintf("(event_name ILIKE $%d OR description ILIKE $%d)", n, n))
		args = append(args, "%"+c.Keyword+"%")
		n++
	}
	if c.Status != "" {
		where = append(where, fmt.Sprintf("status = $%d", n))
		args = append(args, c.Status)
		n++
	}
	if c.Organizer != "" {
		where = append(where, fmt.Sprintf("organizer = $%d", n))
		args = append(args, c.Organizer)
		n++
	}
	if c.Location != "" {
		where = append(where, fmt.Sprintf("location ILIKE $%d", n))
		args = append(args, "%"+c.Location+"%")
		n++
	}
	if c.StartDateFrom != nil {
		where = append(where, fmt.Sprintf("start_date_time >= $%d", n))
		args = append(args, *c.StartDateFrom)
		n++
	}
	if c.StartDateTo != nil {
		where = append(where, fmt.Sprintf("start_date_time <= $%d", n))
		args = append(args, *c.StartDateTo)
		n++
	}
	if c.EndDateFrom != nil {
		where = append(where, fmt.Sprintf("end_date_time >= $%d", n))
		args = append(args, *c.EndDateFrom)
		n++
	}
	if c.EndDateTo != nil {
		where = append(where, fmt.Sprintf("end_date_time <= $%d", n))
		args = append(args, *c.EndDateTo)
		n++
	}

	whereSQL := ""
	if len(where) > 0 {
		whereSQL = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM events` + whereSQL
	if err := r.DB.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count events: %w", err)
	}

	sortCol, ok := sortColumns[c.SortBy]
	if !ok {
		sortCol = "created_at"
	}
	dir := "DESC"
	if strings.EqualFold(c.SortOrder, "asc") {
		dir = "ASC"
	}

	query := fmt.Sprintf(`SELECT `+eventColumns+` FROM events%s ORDER BY %s %s LIMIT $%d OFFSET $%d`,
		whereSQL, sortCol, dir, n, n+1)
	args = append(args, c.Size, c.Page*c.Size)

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("search events: %w", err)
	}
	defer rows.Close()

	events := make([]*domain.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, 0, err
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return events, total, nil
}
