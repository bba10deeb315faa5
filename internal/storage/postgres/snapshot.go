package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/drivecontrol/internal/game/match"
)

// ErrSnapshotNotFound is returned when a match snapshot lookup yields no results.
var ErrSnapshotNotFound = errors.New("match snapshot not found")

// SnapshotRepository persists full match snapshots as JSONB documents, one row
// per match.
type SnapshotRepository struct {
	db *pgxpool.Pool
}

// NewSnapshotRepository creates a SnapshotRepository backed by the given pool.
//
// Precondition: db must be a valid, open connection pool.
func NewSnapshotRepository(db *pgxpool.Pool) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

// SnapshotRecord is one stored match with its timestamps.
type SnapshotRecord struct {
	MatchID   uuid.UUID
	Snapshot  match.Snapshot
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Save upserts the snapshot for a match.
//
// Postcondition: A subsequent Load for the same id returns this snapshot.
func (r *SnapshotRepository) Save(ctx context.Context, matchID uuid.UUID, snap match.Snapshot) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshalling snapshot: %w", err)
	}
	_, err = r.db.Exec(ctx, `
		INSERT INTO match_snapshots (match_id, state)
		VALUES ($1, $2)
		ON CONFLICT (match_id)
		DO UPDATE SET state = EXCLUDED.state, updated_at = now()`,
		matchID, payload,
	)
	if err != nil {
		return fmt.Errorf("saving match snapshot: %w", err)
	}
	return nil
}

// Load fetches a match's snapshot.
//
// Postcondition: Returns ErrSnapshotNotFound when no row exists for id.
func (r *SnapshotRepository) Load(ctx context.Context, matchID uuid.UUID) (*SnapshotRecord, error) {
	var (
		payload []byte
		rec     SnapshotRecord
	)
	err := r.db.QueryRow(ctx, `
		SELECT match_id, state, created_at, updated_at
		FROM match_snapshots
		WHERE match_id = $1`,
		matchID,
	).Scan(&rec.MatchID, &payload, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSnapshotNotFound
		}
		return nil, fmt.Errorf("loading match snapshot: %w", err)
	}
	if err := json.Unmarshal(payload, &rec.Snapshot); err != nil {
		return nil, fmt.Errorf("unmarshalling snapshot: %w", err)
	}
	return &rec, nil
}

// Delete removes a match's snapshot.
//
// Postcondition: Returns ErrSnapshotNotFound when no row existed for id.
func (r *SnapshotRepository) Delete(ctx context.Context, matchID uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM match_snapshots WHERE match_id = $1`, matchID)
	if err != nil {
		return fmt.Errorf("deleting match snapshot: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrSnapshotNotFound
	}
	return nil
}

// List returns the ids of all stored matches, most recently updated first.
func (r *SnapshotRepository) List(ctx context.Context) ([]uuid.UUID, error) {
	rows, err := r.db.Query(ctx, `
		SELECT match_id FROM match_snapshots ORDER BY updated_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing match snapshots: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning match id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating match snapshots: %w", err)
	}
	return ids, nil
}
