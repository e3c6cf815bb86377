package storage

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"

	"orbMint/internal/model"
)

func TestFileStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	asset := model.Asset{
		Headers: []model.Header{{Name: "Content-Type", Value: "image/svg+xml"}},
		Body:    []byte("<svg/>"),
	}
	if err := store.StoreAsset(ctx, "42.svg", asset); err != nil {
		t.Fatalf("store: %v", err)
	}

	got, err := store.LoadAsset(ctx, "/42.svg")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !bytes.Equal(got.Body, asset.Body) || got.Header("Content-Type") != "image/svg+xml" {
		t.Fatalf("loaded %+v", got)
	}

	overwrite := model.Asset{Body: []byte("<svg></svg>")}
	if err := store.StoreAsset(ctx, "42.svg", overwrite); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	got, err = store.LoadAsset(ctx, "42.svg")
	if err != nil {
		t.Fatalf("load overwrite: %v", err)
	}
	if !bytes.Equal(got.Body, overwrite.Body) || len(got.Headers) != 0 {
		t.Fatalf("overwrite not applied: %+v", got)
	}

	if err := store.RemoveAsset(ctx, "42.svg"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, err := store.LoadAsset(ctx, "42.svg"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := store.RemoveAsset(ctx, "42.svg"); err != nil {
		t.Fatalf("removing a missing key: %v", err)
	}
}

func TestFileStoreRejectsEscapingKeys(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	for _, key := range []string{"", "..", "../etc/passwd", ".headers/42.json"} {
		if err := store.StoreAsset(context.Background(), key, model.Asset{}); err == nil {
			t.Fatalf("key %q accepted", key)
		}
	}
}

func TestJSONLTrackerPersists(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "state", "processed.jsonl")

	tracker, err := OpenJSONLTracker(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	src := model.LogSource{BlockNumber: 5, TxHash: "0xabc", LogIndex: 1}
	if err := tracker.RecordProcessed(ctx, src); err != nil {
		t.Fatalf("record: %v", err)
	}
	if err := tracker.RecordProcessed(ctx, src); err != nil {
		t.Fatalf("record twice: %v", err)
	}

	reopened, err := OpenJSONLTracker(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	ok, err := reopened.IsProcessed(ctx, src)
	if err != nil || !ok {
		t.Fatalf("expected source to be processed: %v %v", ok, err)
	}
	ok, _ = reopened.IsProcessed(ctx, model.LogSource{BlockNumber: 5, TxHash: "0xabc", LogIndex: 2})
	if ok {
		t.Fatalf("unrecorded source reported as processed")
	}
	if len(reopened.seen) != 1 {
		t.Fatalf("duplicate lines written: %d", len(reopened.seen))
	}
}
