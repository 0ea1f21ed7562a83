package cart

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"
)

const (
	pingTimeout  = 1 * time.Second
	queryTimeout = 3 * time.Second
)

// PostgresSlot stores the serialized cart in a single row keyed by the slot
// name. Every save rewrites the whole payload; there is no per-line schema.
//
//	CREATE TABLE cart_slots (
//	    key        TEXT PRIMARY KEY,
//	    payload    JSONB NOT NULL,
//	    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
//	);
type PostgresSlot struct {
	db  *sql.DB
	key string
}

func NewPostgresSlot(db *sql.DB, key string) *PostgresSlot {
	if key == "" {
		key = DefaultSlotKey
	}
	return &PostgresSlot{db: db, key: key}
}

func (s *PostgresSlot) Ping(ctx context.Context) error {
	return withTimeout(ctx, pingTimeout, func(ctx context.Context) error {
		return s.db.PingContext(ctx)
	})
}

func (s *PostgresSlot) Load(ctx context.Context) ([]Line, bool, error) {
	var payload []byte

	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		return s.db.QueryRowContext(ctx, `
			SELECT payload
			FROM cart_slots
			WHERE key = $1
		`, s.key).Scan(&payload)
	})

	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var lines []Line
	if err := json.Unmarshal(payload, &lines); err != nil {
		return nil, false, err
	}
	return lines, true, nil
}

func (s *PostgresSlot) Save(ctx context.Context, lines []Line) error {
	b, err := json.Marshal(lines)
	if err != nil {
		return err
	}

	return withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO cart_slots (key, payload, updated_at)
			VALUES ($1, $2, now())
			ON CONFLICT (key) DO UPDATE
			SET payload = EXCLUDED.payload, updated_at = now()
		`, s.key, b)
		return err
	})
}

func (s *PostgresSlot) Clear(ctx context.Context) error {
	return withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		_, err := s.db.ExecContext(ctx, `
			DELETE FROM cart_slots
			WHERE key = $1
		`, s.key)
		return err
	})
}

func withTimeout(parent context.Context, d time.Duration, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(parent, d)
	defer cancel()
	return fn(ctx)
}
