package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/vaultpass/passforge/internal/model"
)

var ErrInvalidLimit = errors.New("limit must be positive")

const eventsSchema = `
	CREATE TABLE IF NOT EXISTS generation_events (
		id                 VARCHAR(21)  NOT NULL PRIMARY KEY,
		length             INT          NOT NULL,
		count              INT          NOT NULL,
		classes            VARCHAR(64)  NOT NULL,
		mode               VARCHAR(32)  NOT NULL,
		exclude_ambiguous  BOOLEAN      NOT NULL DEFAULT FALSE,
		alphabet_size      INT          NOT NULL,
		outcome            VARCHAR(32)  NOT NULL,
		reason             VARCHAR(255) NOT NULL DEFAULT '',
		client_fingerprint CHAR(32)     NOT NULL DEFAULT '',
		created_at         TIMESTAMP(6) NOT NULL DEFAULT CURRENT_TIMESTAMP(6),
		INDEX idx_generation_events_created (created_at),
		INDEX idx_generation_events_outcome (outcome, created_at)
	)`

// EventRepository persists generation audit events.
type EventRepository struct {
	db *sql.DB
}

// NewEventRepository creates a new EventRepository.
func NewEventRepository(db *sql.DB) *EventRepository {
	return &EventRepository{db: db}
}

// Migrate creates the events table if it does not exist.
func (r *EventRepository) Migrate(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, eventsSchema)
	return err
}

// Insert stores an event. Missing IDs and timestamps are filled in on the struct.
func (r *EventRepository) Insert(ctx context.Context, event *model.GenerationEvent) error {
	if event.ID == "" {
		id, err := gonanoid.New()
		if err != nil {
			return err
		}
		event.ID = id
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}

	query := `INSERT INTO generation_events
		(id, length, count, classes, mode, exclude_ambiguous, alphabet_size, outcome, reason, client_fingerprint, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		event.ID,
		event.Length,
		event.Count,
		event.Classes,
		event.Mode,
		event.ExcludeAmbiguous,
		event.AlphabetSize,
		string(event.Outcome),
		event.Reason,
		event.ClientFingerprint,
		event.CreatedAt,
	)
	return err
}

// ListRecent retrieves up to limit events, most recent first.
func (r *EventRepository) ListRecent(ctx context.Context, limit int) ([]model.GenerationEvent, error) {
	if limit <= 0 {
		return nil, ErrInvalidLimit
	}

	query := `SELECT id, length, count, classes, mode, exclude_ambiguous, alphabet_size, outcome, reason, client_fingerprint, created_at
		FROM generation_events ORDER BY created_at DESC LIMIT ?`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []model.GenerationEvent
	for rows.Next() {
		var e model.GenerationEvent
		var outcome string
		if err := rows.Scan(
			&e.ID, &e.Length, &e.Count, &e.Classes, &e.Mode, &e.ExcludeAmbiguous,
			&e.AlphabetSize, &outcome, &e.Reason, &e.ClientFingerprint, &e.CreatedAt,
		); err != nil {
			return nil, err
		}
		e.Outcome = model.Outcome(outcome)
		events = append(events, e)
	}

	return events, rows.Err()
}

// CountByOutcomeSince counts events with the given outcome created after since.
func (r *EventRepository) CountByOutcomeSince(ctx context.Context, outcome model.Outcome, since time.Time) (int, error) {
	query := `SELECT COUNT(*) FROM generation_events WHERE outcome = ? AND created_at > ?`

	var count int
	if err := r.db.QueryRowContext(ctx, query, string(outcome), since).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
