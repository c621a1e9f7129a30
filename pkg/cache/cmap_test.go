package cache

import (
	"fmt"
	"sync"
	"testing"

	"github.com/hyp3rd/smartcache/types"
)

func TestNew(t *testing.T) {
	cmap := New()
	if cmap.Count() != 0 {
		t.Errorf("Expected count 0, got %d", cmap.Count())
	}
}

func TestSetAndGet(t *testing.T) {
	cmap := New()
	key := "test"
	value := types.Document{"_id": "test", "model": "x"}

	cmap.Set(key, value)

	got, exists := cmap.Get(key)
	if !exists {
		t.Error("Expected key to exist")
	}

	if got["model"] != "x" {
		t.Errorf("Expected model x, got %v", got["model"])
	}

	if _, exists = cmap.Get("missing"); exists {
		t.Error("Expected missing key to not exist")
	}
}

func TestHasAndRemove(t *testing.T) {
	cmap := New()
	cmap.Set("a", types.Document{"_id": "a"})

	if !cmap.Has("a") {
		t.Error("Expected key to exist")
	}

	cmap.Remove("a")

	if cmap.Has("a") {
		t.Error("Expected key to be removed")
	}
}

func TestPop(t *testing.T) {
	cmap := New()
	cmap.Set("a", types.Document{"_id": "a"})

	value, ok := cmap.Pop("a")
	if !ok || value["_id"] != "a" {
		t.Errorf("Expected popped document, got %v", value)
	}

	if _, ok = cmap.Pop("a"); ok {
		t.Error("Expected second pop to miss")
	}
}

func TestKeysAndCount(t *testing.T) {
	cmap := New()
	for i := range 100 {
		cmap.Set(fmt.Sprintf("key%d", i), types.Document{"_id": fmt.Sprintf("key%d", i)})
	}

	if cmap.Count() != 100 {
		t.Errorf("Expected count 100, got %d", cmap.Count())
	}

	if len(cmap.Keys()) != 100 {
		t.Errorf("Expected 100 keys, got %d", len(cmap.Keys()))
	}

	cmap.Clear()

	if cmap.Count() != 0 {
		t.Errorf("Expected count 0 after clear, got %d", cmap.Count())
	}
}

func TestConcurrentAccess(t *testing.T) {
	cmap := New()

	var wg sync.WaitGroup

	for i := range 10 {
		wg.Add(1)

		go func(n int) {
			defer wg.Done()

			for j := range 100 {
				key := fmt.Sprintf("key-%d-%d", n, j)
				cmap.Set(key, types.Document{"_id": key})

				if _, ok := cmap.Get(key); !ok {
					t.Errorf("Expected key %s to exist", key)
				}
			}
		}(i)
	}

	wg.Wait()

	if cmap.Count() != 1000 {
		t.Errorf("Expected 1000 entries, got %d", cmap.Count())
	}
}
