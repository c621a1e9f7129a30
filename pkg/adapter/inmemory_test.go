package adapter

import (
	"context"
	"testing"

	"github.com/hyp3rd/smartcache/types"
)

func TestInMemoryRoundTrip(t *testing.T) {
	backing := NewInMemory()
	ctx := context.Background()

	doc := types.Document{"_id": "a", "model": "x"}
	if err := backing.Set(ctx, "vehicles", "a", doc); err != nil {
		t.Fatalf("set: %v", err)
	}

	got, err := backing.Get(ctx, "vehicles", "a", nil)
	if err != nil {
		t.Fatalf("get: %v", err)
	}

	if got["model"] != "x" {
		t.Errorf("expected model x, got %v", got["model"])
	}
}

func TestInMemoryDefault(t *testing.T) {
	backing := NewInMemory()
	ctx := context.Background()

	def := types.Document{"_id": "missing"}

	got, err := backing.Get(ctx, "vehicles", "missing", def)
	if err != nil {
		t.Fatalf("get: %v", err)
	}

	if got["_id"] != "missing" {
		t.Errorf("expected default document, got %v", got)
	}
}

func TestInMemoryStoresAreNamespaced(t *testing.T) {
	backing := NewInMemory()
	ctx := context.Background()

	if err := backing.Set(ctx, "vehicles", "a", types.Document{"_id": "a"}); err != nil {
		t.Fatalf("set: %v", err)
	}

	got, err := backing.Get(ctx, "parts", "a", nil)
	if err != nil {
		t.Fatalf("get: %v", err)
	}

	if got != nil {
		t.Errorf("expected key to be invisible in another store, got %v", got)
	}
}

func TestInMemoryCloneOnWriteAndRead(t *testing.T) {
	backing := NewInMemory()
	ctx := context.Background()

	doc := types.Document{"_id": "a", "model": "x"}
	if err := backing.Set(ctx, "vehicles", "a", doc); err != nil {
		t.Fatalf("set: %v", err)
	}

	// Mutating the caller's document must not leak into the store.
	doc["model"] = "mutated"

	got, err := backing.Get(ctx, "vehicles", "a", nil)
	if err != nil {
		t.Fatalf("get: %v", err)
	}

	if got["model"] != "x" {
		t.Errorf("expected stored value to be isolated, got %v", got["model"])
	}

	// Mutating a read result must not leak either.
	got["model"] = "mutated-again"

	again, err := backing.Get(ctx, "vehicles", "a", nil)
	if err != nil {
		t.Fatalf("get: %v", err)
	}

	if again["model"] != "x" {
		t.Errorf("expected reads to be isolated, got %v", again["model"])
	}
}

func TestInMemoryUpdateAndDelete(t *testing.T) {
	backing := NewInMemory()
	ctx := context.Background()

	if err := backing.Set(ctx, "vehicles", "a", types.Document{"_id": "a", "model": "x"}); err != nil {
		t.Fatalf("set: %v", err)
	}

	if err := backing.Update(ctx, "vehicles", "a", types.Document{"_id": "a", "model": "y"}); err != nil {
		t.Fatalf("update: %v", err)
	}

	got, err := backing.Get(ctx, "vehicles", "a", nil)
	if err != nil {
		t.Fatalf("get: %v", err)
	}

	if got["model"] != "y" {
		t.Errorf("expected updated model, got %v", got["model"])
	}

	if err := backing.Delete(ctx, "vehicles", "a"); err != nil {
		t.Fatalf("delete: %v", err)
	}

	got, err = backing.Get(ctx, "vehicles", "a", nil)
	if err != nil {
		t.Fatalf("get: %v", err)
	}

	if got != nil {
		t.Errorf("expected nil after delete, got %v", got)
	}

	// Deleting an absent key is a no-op.
	if err := backing.Delete(ctx, "vehicles", "a"); err != nil {
		t.Fatalf("delete absent: %v", err)
	}
}

func TestInMemoryCount(t *testing.T) {
	backing := NewInMemory()
	ctx := context.Background()

	for _, key := range []string{"a", "b", "c"} {
		if err := backing.Set(ctx, "vehicles", key, types.Document{"_id": key}); err != nil {
			t.Fatalf("set: %v", err)
		}
	}

	if backing.Count() != 3 {
		t.Errorf("expected 3 documents, got %d", backing.Count())
	}

	backing.Clear()

	if backing.Count() != 0 {
		t.Errorf("expected empty store after clear, got %d", backing.Count())
	}
}
