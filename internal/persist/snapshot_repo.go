package persist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// Snapshot is one saved observation of the simulation: the change tick it was
// taken at, the live entity count, and the blackboard values.
type Snapshot struct {
	Tick       uint64
	Entities   int
	Blackboard map[string]float64
	TakenAt    time.Time
}

// SnapshotRepo persists world snapshots.
type SnapshotRepo struct {
	pool *pgxpool.Pool
	log  *zap.Logger
}

func NewSnapshotRepo(db *DB) *SnapshotRepo {
	return &SnapshotRepo{pool: db.Pool, log: db.log}
}

func (r *SnapshotRepo) Save(ctx context.Context, snap *Snapshot) error {
	payload, err := json.Marshal(snap.Blackboard)
	if err != nil {
		return fmt.Errorf("encode blackboard: %w", err)
	}

	_, err = r.pool.Exec(ctx,
		`INSERT INTO snapshots (tick, entities, blackboard) VALUES ($1, $2, $3)`,
		int64(snap.Tick), snap.Entities, payload)
	if err != nil {
		return fmt.Errorf("insert snapshot: %w", err)
	}

	r.log.Debug("snapshot saved",
		zap.Uint64("tick", snap.Tick),
		zap.Int("entities", snap.Entities))
	return nil
}

// Latest returns the most recent snapshot, or nil when none exist.
func (r *SnapshotRepo) Latest(ctx context.Context) (*Snapshot, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT tick, entities, blackboard, taken_at
		 FROM snapshots ORDER BY id DESC LIMIT 1`)

	var (
		tick    int64
		snap    Snapshot
		payload []byte
	)
	if err := row.Scan(&tick, &snap.Entities, &payload, &snap.TakenAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select latest snapshot: %w", err)
	}
	snap.Tick = uint64(tick)
	if err := json.Unmarshal(payload, &snap.Blackboard); err != nil {
		return nil, fmt.Errorf("decode blackboard: %w", err)
	}
	return &snap, nil
}
