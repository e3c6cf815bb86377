// Package sqlite provides a SQLite-backed asset store and processed-log tracker.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"orbMint/internal/model"
	"orbMint/internal/storage"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS assets (
		key        TEXT PRIMARY KEY,
		headers    TEXT NOT NULL,
		body       BLOB NOT NULL,
		updated_at INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS processed_logs (
		block_number INTEGER NOT NULL,
		tx_hash      TEXT NOT NULL,
		log_index    INTEGER NOT NULL,
		created_at   INTEGER NOT NULL,
		PRIMARY KEY (block_number, tx_hash, log_index)
	)`,
}

const upsertAsset = `INSERT INTO assets (key, headers, body, updated_at)
	VALUES (?, ?, ?, ?)
	ON CONFLICT(key) DO UPDATE SET headers = excluded.headers, body = excluded.body, updated_at = excluded.updated_at`

// Store persists assets and processed logs in SQLite.
type Store struct {
	sqlDB *sql.DB
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

// Open opens the database at path and creates the schema.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	for _, stmt := range schema {
		if _, err := sqlDB.Exec(stmt); err != nil {
			_ = sqlDB.Close()
			return nil, fmt.Errorf("create schema: %w", err)
		}
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// StoreAsset inserts or replaces one asset.
func (s *Store) StoreAsset(ctx context.Context, key string, asset model.Asset) error {
	return s.StoreAssets(ctx, []model.KeyedAsset{{Key: key, Asset: asset}})
}

// StoreAssets writes all assets in one transaction.
func (s *Store) StoreAssets(ctx context.Context, assets []model.KeyedAsset) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	now := toMillis(time.Now())
	for _, a := range assets {
		if strings.TrimSpace(a.Key) == "" {
			return fmt.Errorf("asset key is required")
		}
		headers := a.Asset.Headers
		if headers == nil {
			headers = []model.Header{}
		}
		encoded, err := json.Marshal(headers)
		if err != nil {
			return fmt.Errorf("marshal headers: %w", err)
		}
		data := a.Asset.Body
		if data == nil {
			data = []byte{}
		}
		if _, err := tx.ExecContext(ctx, upsertAsset, a.Key, string(encoded), data, now); err != nil {
			return fmt.Errorf("store asset %s: %w", a.Key, err)
		}
	}
	return tx.Commit()
}

// RemoveAsset deletes key. Missing keys are ignored.
func (s *Store) RemoveAsset(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := s.sqlDB.ExecContext(ctx, `DELETE FROM assets WHERE key = ?`, key); err != nil {
		return fmt.Errorf("remove asset %s: %w", key, err)
	}
	return nil
}

// LoadAsset returns storage.ErrNotFound for unknown keys.
func (s *Store) LoadAsset(ctx context.Context, key string) (model.Asset, error) {
	if err := ctx.Err(); err != nil {
		return model.Asset{}, err
	}
	var (
		headers string
		data    []byte
	)
	row := s.sqlDB.QueryRowContext(ctx, `SELECT headers, body FROM assets WHERE key = ?`, key)
	if err := row.Scan(&headers, &data); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Asset{}, storage.ErrNotFound
		}
		return model.Asset{}, fmt.Errorf("load asset %s: %w", key, err)
	}
	var hs []model.Header
	if err := json.Unmarshal([]byte(headers), &hs); err != nil {
		return model.Asset{}, fmt.Errorf("parse headers %s: %w", key, err)
	}
	return model.Asset{Headers: hs, Body: data}, nil
}

// RecordProcessed marks a log as handled.
func (s *Store) RecordProcessed(ctx context.Context, source model.LogSource) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT OR IGNORE INTO processed_logs (block_number, tx_hash, log_index, created_at) VALUES (?, ?, ?, ?)`,
		int64(source.BlockNumber), source.TxHash, int64(source.LogIndex), toMillis(time.Now()),
	)
	if err != nil {
		return fmt.Errorf("record processed: %w", err)
	}
	return nil
}

// IsProcessed reports whether RecordProcessed was called for source.
func (s *Store) IsProcessed(ctx context.Context, source model.LogSource) (bool, error) {
	var count int
	row := s.sqlDB.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM processed_logs WHERE block_number = ? AND tx_hash = ? AND log_index = ?`,
		int64(source.BlockNumber), source.TxHash, int64(source.LogIndex),
	)
	if err := row.Scan(&count); err != nil {
		return false, fmt.Errorf("query processed: %w", err)
	}
	return count > 0, nil
}
