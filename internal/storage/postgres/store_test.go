package postgres

import (
	"bytes"
	"context"
	"errors"
	"os"
	"testing"

	"orbMint/internal/model"
	"orbMint/internal/storage"
)

func TestEncodeHeadersNeverNull(t *testing.T) {
	data, err := encodeHeaders(nil)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if string(data) != "[]" {
		t.Fatalf("expected empty array, got %s", data)
	}
	if body(model.Asset{}) == nil {
		t.Fatalf("nil body would violate NOT NULL")
	}
}

func TestNewStoreRequiresDSN(t *testing.T) {
	if _, err := NewStore(context.Background(), ""); err == nil {
		t.Fatalf("expected error for empty dsn")
	}
}

// Runs against a live database when ORBMINT_TEST_PG_DSN is set.
func TestStoreAgainstPostgres(t *testing.T) {
	dsn := os.Getenv("ORBMINT_TEST_PG_DSN")
	if dsn == "" {
		t.Skip("ORBMINT_TEST_PG_DSN not set")
	}
	ctx := context.Background()
	store, err := NewStore(ctx, dsn)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	defer store.Close()

	assets := []model.KeyedAsset{
		{Key: "pgtest.png", Asset: model.Asset{Headers: []model.Header{{Name: "Content-Type", Value: "image/png"}}, Body: []byte{1, 2}}},
		{Key: "pgtest", Asset: model.Asset{Body: []byte("{}")}},
	}
	if err := store.StoreAssets(ctx, assets); err != nil {
		t.Fatalf("store assets: %v", err)
	}
	got, err := store.LoadAsset(ctx, "pgtest.png")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !bytes.Equal(got.Body, []byte{1, 2}) || got.Header("content-type") != "image/png" {
		t.Fatalf("unexpected asset %+v", got)
	}
	for _, a := range assets {
		if err := store.RemoveAsset(ctx, a.Key); err != nil {
			t.Fatalf("remove: %v", err)
		}
	}
	if _, err := store.LoadAsset(ctx, "pgtest"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	src := model.LogSource{BlockNumber: 1, TxHash: "0xpgtest", LogIndex: 0}
	if err := store.RecordProcessed(ctx, src); err != nil {
		t.Fatalf("record: %v", err)
	}
	if ok, err := store.IsProcessed(ctx, src); err != nil || !ok {
		t.Fatalf("expected processed: %v %v", ok, err)
	}
}
