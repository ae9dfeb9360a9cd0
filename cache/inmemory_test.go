package cache

import (
	"context"
	"testing"
	"time"
)

func TestInMemorySetGet(t *testing.T) {
	ctx := context.Background()
	c := NewInMemory()

	if _, ok, err := c.Get(ctx, "k"); err != nil || ok {
		t.Fatalf("got ok=%v err=%v before Set, want ok=false", ok, err)
	}

	if err := c.Set(ctx, "k", "v", 0); err != nil {
		t.Fatalf("Set: %v", err)
	}

	v, ok, err := c.Get(ctx, "k")
	if err != nil || !ok || v != "v" {
		t.Fatalf("got v=%q ok=%v err=%v, want v=v ok=true", v, ok, err)
	}
}

func TestInMemoryExpiration(t *testing.T) {
	ctx := context.Background()
	c := NewInMemory()

	_ = c.Set(ctx, "k", "v", time.Millisecond)
	time.Sleep(5 * time.Millisecond)

	if _, ok, err := c.Get(ctx, "k"); err != nil || ok {
		t.Fatalf("got ok=%v err=%v, want entry to have expired", ok, err)
	}
}

func TestInMemoryDelete(t *testing.T) {
	ctx := context.Background()
	c := NewInMemory()

	_ = c.Set(ctx, "k", "v", 0)
	if err := c.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok, _ := c.Get(ctx, "k"); ok {
		t.Fatalf("key should be gone after Delete")
	}

	// Deleting an absent key is not an error.
	if err := c.Delete(ctx, "missing"); err != nil {
		t.Fatalf("Delete of absent key: %v", err)
	}
}

func TestInMemoryPing(t *testing.T) {
	if err := NewInMemory().Ping(context.Background()); err != nil {
		t.Fatalf("Ping: %v", err)
	}
}
