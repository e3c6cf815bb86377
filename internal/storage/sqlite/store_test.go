package sqlite

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"

	"orbMint/internal/model"
	"orbMint/internal/storage"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "orbmint.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestStoreAssetsRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	assets := []model.KeyedAsset{
		{Key: "7.png", Asset: model.Asset{Headers: []model.Header{{Name: "Content-Type", Value: "image/png"}}, Body: []byte{0x89, 'P'}}},
		{Key: "7.svg", Asset: model.Asset{Headers: []model.Header{{Name: "Content-Type", Value: "image/svg+xml"}}, Body: []byte("<svg/>")}},
		{Key: "7", Asset: model.Asset{Body: []byte(`{"name":"x"}`)}},
	}
	if err := store.StoreAssets(ctx, assets); err != nil {
		t.Fatalf("store assets: %v", err)
	}

	for _, want := range assets {
		got, err := store.LoadAsset(ctx, want.Key)
		if err != nil {
			t.Fatalf("load %s: %v", want.Key, err)
		}
		if !bytes.Equal(got.Body, want.Asset.Body) {
			t.Fatalf("body mismatch for %s", want.Key)
		}
		if got.Header("Content-Type") != want.Asset.Header("Content-Type") {
			t.Fatalf("header mismatch for %s: %+v", want.Key, got.Headers)
		}
	}

	if err := store.StoreAsset(ctx, "7", model.Asset{Body: []byte("{}")}); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	got, err := store.LoadAsset(ctx, "7")
	if err != nil || string(got.Body) != "{}" {
		t.Fatalf("overwrite not applied: %q %v", got.Body, err)
	}

	if err := store.RemoveAsset(ctx, "7.svg"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := store.RemoveAsset(ctx, "7.svg"); err != nil {
		t.Fatalf("remove missing: %v", err)
	}
	if _, err := store.LoadAsset(ctx, "7.svg"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestStoreAssetsIsAtomic(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	err := store.StoreAssets(ctx, []model.KeyedAsset{
		{Key: "9.png", Asset: model.Asset{Body: []byte{1}}},
		{Key: " ", Asset: model.Asset{Body: []byte{2}}},
	})
	if err == nil {
		t.Fatalf("expected error for blank key")
	}
	if _, err := store.LoadAsset(ctx, "9.png"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("partial write committed: %v", err)
	}
}

func TestProcessedLogs(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	src := model.LogSource{BlockNumber: 12, TxHash: "0xfeed", LogIndex: 3}
	ok, err := store.IsProcessed(ctx, src)
	if err != nil || ok {
		t.Fatalf("fresh store reports processed: %v %v", ok, err)
	}
	if err := store.RecordProcessed(ctx, src); err != nil {
		t.Fatalf("record: %v", err)
	}
	if err := store.RecordProcessed(ctx, src); err != nil {
		t.Fatalf("record twice: %v", err)
	}
	ok, err = store.IsProcessed(ctx, src)
	if err != nil || !ok {
		t.Fatalf("expected processed: %v %v", ok, err)
	}
}
