package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"eventregistry/internal/domain"
)

const participantColumns = `participation_id, event_id, participant_name, participant_email,
		participant_phone, registered_at`

type participantRepository struct {
	DB *sql.DB
}

func NewParticipantRepository(db *sql.DB) domain.ParticipantRepository {
	return &participantRepository{
		DB: db,
	}
}

// Register runs the whole duplicate-check, capacity-check, insert, and
// counter-resync sequence in one transaction.
//
// The naive read-then-write version of this is racy: two concurrent
// registrations can both observe a free seat (or no duplicate) before either
// commits, overbooking the event. SELECT ... FOR UPDATE takes a row-level
// lock on the event, so concurrent attempts for the same event serialize on
// that row until commit or rollback. The unique index on
// (event_id, participant_email) backstops the duplicate check.
func (r *participantRepository) Register(ctx context.Context, p *domain.Participant) (err error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var maxParticipants int
	var status domain.EventStatus
	err = tx.QueryRowContext(ctx,
		`SELECT max_participants, status FROM events WHERE event_id = $1 FOR UPDATE`,
		p.EventID,
	).Scan(&maxParticipants, &status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = domain.ErrNotFound
			return err
		}
		return fmt.Errorf("lock event row: %w", err)
	}
	if status != domain.StatusActive {
		err = domain.ErrEventNotActive
		return err
	}

	var duplicates int
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM participants WHERE event_id = $1 AND participant_email = $2`,
		p.EventID, p.Email,
	).Scan(&duplicates)
	if err != nil {
		return fmt.Errorf("check duplicate registration: %w", err)
	}
	if duplicates > 0 {
		err = domain.ErrAlreadyRegistered
		return err
	}

	var registered int
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM participants WHERE event_id = $1`,
		p.EventID,
	).Scan(&registered)
	if err != nil {
		return fmt.Errorf("count participants: %w", err)
	}
	if registered >= maxParticipants {
		err = domain.ErrEventFull
		return err
	}

	err = tx.QueryRowContext(ctx,
		`INSERT INTO participants (event_id, participant_name, participant_email, participant_phone, registered_at)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING participation_id`,
		p.EventID, p.Name, p.Email, p.Phone, p.RegisteredAt,
	).Scan(&p.ID)
	if err != nil {
		if isUniqueViolation(err) {
			err = domain.ErrAlreadyRegistered
			return err
		}
		return fmt.Errorf("insert participant: %w", err)
	}

	// Recompute from the table rather than incrementing so the stored counter
	// self-heals any historical drift.
	if err = r.resyncCount(ctx, tx, p.EventID); err != nil {
		return err
	}

	return tx.Commit()
}

// Cancel deletes the registration and resyncs the event counter in one
// transaction, locking the event row first so it cannot race a registration.
func (r *participantRepository) Cancel(ctx context.Context, participationID string) (err error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var eventID string
	err = tx.QueryRowContext(ctx,
		`SELECT event_id FROM participants WHERE participation_id = $1`,
		participationID,
	).Scan(&eventID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = domain.ErrNotFound
			return err
		}
		return fmt.Errorf("get registration: %w", err)
	}

	var lockedID string
	err = tx.QueryRowContext(ctx,
		`SELECT event_id FROM events WHERE event_id = $1 FOR UPDATE`,
		eventID,
	).Scan(&lockedID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("lock event row: %w", err)
	}

	result, err := tx.ExecContext(ctx,
		`DELETE FROM participants WHERE participation_id = $1`, participationID)
	if err != nil {
		return fmt.Errorf("delete participant: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		err = domain.ErrNotFound
		return err
	}

	if err = r.resyncCount(ctx, tx, eventID); err != nil {
		return err
	}

	return tx.Commit()
}

// resyncCount persists current_participants = COUNT(*) for the event within
// the given transaction. A missing event row (cancelled orphan) is a no-op.
func (r *participantRepository) resyncCount(ctx context.Context, tx *sql.Tx, eventID string) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE events
		 SET current_participants = (SELECT COUNT(*) FROM participants WHERE event_id = $1),
		     updated_at = NOW()
		 WHERE event_id = $1`,
		eventID,
	)
	if err != nil {
		return fmt.Errorf("resync participant count: %w", err)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

func (r *participantRepository) GetByID(ctx context.Context, participationID string) (*domain.Participant, error) {
	query := `SELECT ` + participantColumns + ` FROM participants WHERE participation_id = $1`
	return r.scanOne(r.DB.QueryRowContext(ctx, query, participationID))
}

func (r *participantRepository) GetByEventAndEmail(ctx context.Context, eventID, email string) (*domain.Participant, error) {
	query := `SELECT ` + participantColumns + ` FROM participants WHERE event_id = $1 AND participant_email = $2`
	return r.scanOne(r.DB.QueryRowContext(ctx, query, eventID, email))
}

func (r *participantRepository) scanOne(row *sql.Row) (*domain.Participant, error) {
	p := &domain.Participant{}
	err := row.Scan(&p.ID, &p.EventID, &p.Name, &p.Email, &p.Phone, &p.RegisteredAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *participantRepository) ListByEventID(ctx context.Context, eventID string) ([]*domain.Participant, error) {
	query := `SELECT ` + participantColumns + ` FROM participants WHERE event_id = $1 ORDER BY registered_at`
	return r.list(ctx, query, eventID)
}

func (r *participantRepository) ListByEmail(ctx context.Context, email string) ([]*domain.Participant, error) {
	query := `SELECT ` + participantColumns + ` FROM participants WHERE participant_email = $1 ORDER BY registered_at DESC`
	return r.list(ctx, query, email)
}

func (r *participantRepository) list(ctx context.Context, query string, arg any) ([]*domain.Participant, error) {
	rows, err := r.DB.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	participants := make([]*domain.Participant, 0)
	for rows.Next() {
		p := &domain.Participant{}
		if err := rows.Scan(&p.ID, &p.EventID, &p.Name, &p.Email, &p.Phone, &p.RegisteredAt); err != nil {
			return nil, err
		}
		participants = append(participants, p)
	}
	return participants, rows.Err()
}
