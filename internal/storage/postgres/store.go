// Package postgres stores assets and processed logs in Postgres.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"orbMint/internal/model"
	"orbMint/internal/storage"
)

const schema = `
CREATE TABLE IF NOT EXISTS assets (
	key        TEXT PRIMARY KEY,
	headers    JSONB NOT NULL DEFAULT '[]'::jsonb,
	body       BYTEA NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE TABLE IF NOT EXISTS processed_logs (
	block_number BIGINT NOT NULL,
	tx_hash      TEXT NOT NULL,
	log_index    BIGINT NOT NULL,
	created_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (block_number, tx_hash, log_index)
);
`

const upsertAsset = `
	INSERT INTO assets (key, headers, body, updated_at)
	VALUES ($1, $2, $3, now())
	ON CONFLICT (key)
	DO UPDATE SET headers = EXCLUDED.headers, body = EXCLUDED.body, updated_at = now()
`

// Store provides Postgres persistence for assets and processed logs.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore connects to dsn and creates the schema if missing.
func NewStore(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("pg dsn is required")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// StoreAsset inserts or replaces a single asset.
func (s *Store) StoreAsset(ctx context.Context, key string, asset model.Asset) error {
	headers, err := encodeHeaders(asset.Headers)
	if err != nil {
		return err
	}
	_, err = s.pool.Exec(ctx, upsertAsset, key, headers, body(asset))
	return err
}

// StoreAssets writes all assets in one transaction.
func (s *Store) StoreAssets(ctx context.Context, assets []model.KeyedAsset) error {
	if len(assets) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, a := range assets {
		headers, err := encodeHeaders(a.Asset.Headers)
		if err != nil {
			return err
		}
		batch.Queue(upsertAsset, a.Key, headers, body(a.Asset))
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	br := tx.SendBatch(ctx, batch)
	for range assets {
		if _, err := br.Exec(); err != nil {
			br.Close()
			return err
		}
	}
	if err := br.Close(); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// RemoveAsset deletes key. Missing keys are ignored.
func (s *Store) RemoveAsset(ctx context.Context, key string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM assets WHERE key=$1`, key)
	return err
}

// LoadAsset returns storage.ErrNotFound for unknown keys.
func (s *Store) LoadAsset(ctx context.Context, key string) (model.Asset, error) {
	var (
		headers []byte
		data    []byte
	)
	row := s.pool.QueryRow(ctx, `SELECT headers, body FROM assets WHERE key=$1`, key)
	if err := row.Scan(&headers, &data); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Asset{}, storage.ErrNotFound
		}
		return model.Asset{}, err
	}
	var hs []model.Header
	if err := json.Unmarshal(headers, &hs); err != nil {
		return model.Asset{}, fmt.Errorf("parse headers %s: %w", key, err)
	}
	return model.Asset{Headers: hs, Body: data}, nil
}

// RecordProcessed marks a log as handled.
func (s *Store) RecordProcessed(ctx context.Context, source model.LogSource) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO processed_logs (block_number, tx_hash, log_index)
		VALUES ($1, $2, $3)
		ON CONFLICT DO NOTHING
	`, int64(source.BlockNumber), source.TxHash, int64(source.LogIndex))
	return err
}

// IsProcessed reports whether RecordProcessed was called for source.
func (s *Store) IsProcessed(ctx context.Context, source model.LogSource) (bool, error) {
	var exists bool
	row := s.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM processed_logs WHERE block_number=$1 AND tx_hash=$2 AND log_index=$3
		)
	`, int64(source.BlockNumber), source.TxHash, int64(source.LogIndex))
	if err := row.Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func encodeHeaders(headers []model.Header) ([]byte, error) {
	if headers == nil {
		headers = []model.Header{}
	}
	data, err := json.Marshal(headers)
	if err != nil {
		return nil, fmt.Errorf("marshal headers: %w", err)
	}
	return data, nil
}

func body(asset model.Asset) []byte {
	if asset.Body == nil {
		return []byte{}
	}
	return asset.Body
}
