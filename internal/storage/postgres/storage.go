package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/polkiloo/ashconsole/internal/domain/model"
)

// pool is the subset of pgxpool.Pool used by Storage.
type pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
	Close()
}

// Storage persists one token pair per device in PostgreSQL, so a console
// restarted on another host with the same DEVICE_ID resumes the session.
type Storage struct {
	pool     pool
	deviceID string
	logger   *slog.Logger
}

// New connects to dsn and initializes the schema.
func New(ctx context.Context, dsn, deviceID string, logger *slog.Logger) (*Storage, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	p, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}

	storage := &Storage{pool: p, deviceID: deviceID, logger: logger}
	if err := storage.initSchema(ctx); err != nil {
		p.Close()
		return nil, err
	}

	return storage, nil
}

// Close releases database resources.
func (s *Storage) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

func (s *Storage) initSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS session_tokens (
            device_id TEXT PRIMARY KEY,
            access_token TEXT NOT NULL,
            refresh_token TEXT NOT NULL,
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
	}

	for _, stmt := range statements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}

	return nil
}

// Load returns the device's pair, or an empty pair when none is stored.
func (s *Storage) Load(ctx context.Context) (model.TokenPair, error) {
	var pair model.TokenPair
	err := s.pool.QueryRow(ctx,
		`SELECT access_token, refresh_token FROM session_tokens WHERE device_id = $1`,
		s.deviceID,
	).Scan(&pair.AccessToken, &pair.RefreshToken)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.TokenPair{}, nil
		}
		return model.TokenPair{}, fmt.Errorf("load session: %w", err)
	}
	return pair, nil
}

// Save upserts the device's pair.
func (s *Storage) Save(ctx context.Context, pair model.TokenPair) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO session_tokens (device_id, access_token, refresh_token, updated_at)
         VALUES ($1, $2, $3, NOW())
         ON CONFLICT (device_id) DO UPDATE
         SET access_token = EXCLUDED.access_token,
             refresh_token = EXCLUDED.refresh_token,
             updated_at = NOW()`,
		s.deviceID, pair.AccessToken, pair.RefreshToken,
	)
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Clear deletes the device's pair.
func (s *Storage) Clear(ctx context.Context) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM session_tokens WHERE device_id = $1`, s.deviceID)
	if err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	s.logger.Debug("session row cleared", slog.String("device", s.deviceID), slog.Int64("rows", tag.RowsAffected()))
	return nil
}

// HealthCheck verifies database connectivity.
func (s *Storage) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.pool.Ping(ctx)
}
