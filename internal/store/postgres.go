package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"github.com/rs/zerolog"

	"github.com/carepath/fieldsched/internal/config"
	"github.com/carepath/fieldsched/internal/entity"
)

// DB wraps a SQL database connection for all Postgres operations.
type DB struct {
	*sql.DB
}

// NewDB opens and pings a Postgres connection.
func NewDB(connString string) (*DB, error) {
	sqldb, err := sql.Open("postgres", connString)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := sqldb.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return &DB{sqldb}, nil
}

// Close closes the underlying connection.
func (db *DB) Close() error { return db.DB.Close() }

// Health checks database connectivity.
func (db *DB) Health(ctx context.Context) error { return db.PingContext(ctx) }

// PostgresScheduleStore persists solved schedules as JSONB rows,
// keyed by request id.
type PostgresScheduleStore struct {
	db *DB
}

// NewPostgresScheduleStore wraps an open DB as a ScheduleStore.
func NewPostgresScheduleStore(db *DB) *PostgresScheduleStore {
	return &PostgresScheduleStore{db: db}
}

const createScheduleTableSQL = `
CREATE TABLE IF NOT EXISTS schedules (
	request_id TEXT PRIMARY KEY,
	business_line TEXT NOT NULL,
	payload JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// EnsureSchema creates the schedules table if it does not yet exist.
func (s *PostgresScheduleStore) EnsureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, createScheduleTableSQL)
	if err != nil {
		return fmt.Errorf("creating schedules table: %w", err)
	}
	return nil
}

func (s *PostgresScheduleStore) Save(ctx context.Context, requestID string, sched *entity.Schedule) error {
	payload, err := json.Marshal(sched)
	if err != nil {
		return fmt.Errorf("marshalling schedule: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO schedules (request_id, business_line, payload)
		VALUES ($1, $2, $3)
		ON CONFLICT (request_id) DO UPDATE SET payload = EXCLUDED.payload`,
		requestID, sched.Metadata.BusinessLine, payload,
	)
	if err != nil {
		return fmt.Errorf("saving schedule %s: %w", requestID, err)
	}
	return nil
}

// NewScheduleStoreFromEnv selects a ScheduleStore backend from
// cfg.DatabaseURL: a PostgresScheduleStore (with its schema ensured)
// when set, otherwise an in-memory MemoryScheduleStore. A Postgres
// connection failure is logged and falls back to memory rather than
// failing startup, consistent with this process's tolerance for a
// missing catalog (see bootstrap.LoadCatalogFromEnv).
func NewScheduleStoreFromEnv(cfg *config.Config, log zerolog.Logger) ScheduleStore {
	if cfg.DatabaseURL == "" {
		return NewMemoryScheduleStore()
	}

	db, err := NewDB(cfg.DatabaseURL)
	if err != nil {
		log.Error().Err(err).Msg("failed to connect to postgres, falling back to in-memory schedule store")
		return NewMemoryScheduleStore()
	}

	pg := NewPostgresScheduleStore(db)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := pg.EnsureSchema(ctx); err != nil {
		log.Error().Err(err).Msg("failed to ensure schedules table, falling back to in-memory schedule store")
		return NewMemoryScheduleStore()
	}

	log.Info().Msg("using postgres schedule store")
	return pg
}

func (s *PostgresScheduleStore) Get(ctx context.Context, requestID string) (*entity.Schedule, error) {
	var payload []byte
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM schedules WHERE request_id = $1`, requestID).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading schedule %s: %w", requestID, err)
	}
	var sched entity.Schedule
	if err := json.Unmarshal(payload, &sched); err != nil {
		return nil, fmt.Errorf("unmarshalling schedule %s: %w", requestID, err)
	}
	return &sched, nil
}
