package ictx

import (
	"testing"

	"github.com/ufoscout/ic-tx/cache"
)

func TestDatabaseIsCheaplyShared(t *testing.T) {
	backend := newStubBackend()
	db1 := New[string, string](backend)
	db2 := db1 // copy: must still share the same backend

	tx := db1.Tx()
	_ = tx.Save(NewNewRecord("a", "hello"))
	_ = tx.Commit(ctx)

	rec, err := db2.FetchOne(ctx, "a")
	if err != nil || rec.Data != "hello" {
		t.Fatalf("got rec=%+v err=%v via the copied handle, want to see the write", rec, err)
	}
}

func TestDatabaseWithCacheServesReadsAndInvalidatesOnCommit(t *testing.T) {
	backend := newStubBackend()
	mem := cache.NewInMemory()
	RegisterCacheFactory(InMemoryCache, func() cache.Cache { return mem })
	db := NewWithCache[string, string](backend, InMemoryCache)

	tx := db.Tx()
	_ = tx.Save(NewNewRecord("a", "v0"))
	if err := tx.Commit(ctx); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	rec, err := db.FetchOne(ctx, "a")
	if err != nil || rec.Data != "v0" {
		t.Fatalf("first read: got rec=%+v err=%v", rec, err)
	}

	// The first read populated the cache; mutate and confirm the next read
	// no longer reflects the old value once commit has invalidated the entry.
	if _, ok, _ := mem.Get(ctx, cacheKey("a")); !ok {
		t.Fatalf("first read should have populated the cache")
	}

	update := db.Tx()
	_ = update.Update(RecordOf("a", rec.Version(), "v1"))
	if err := update.Commit(ctx); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	rec, err = db.FetchOne(ctx, "a")
	if err != nil || rec.Data != "v1" {
		t.Fatalf("read after update: got rec=%+v err=%v, want v1 (stale cache not invalidated)", rec, err)
	}
}

func TestDatabaseFetchIfPresentMissing(t *testing.T) {
	db := New[string, string](newStubBackend())

	_, ok, err := db.FetchIfPresent(ctx, "missing")
	if err != nil || ok {
		t.Fatalf("got ok=%v err=%v, want ok=false err=nil", ok, err)
	}
}
