package memory

import (
	"context"
	"errors"
	"sort"
	"testing"

	"shares-app-api/core/interfaces"
)

func TestMemoryStore_PutGet(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	if err := store.Put(ctx, "a1/s1.json", []byte(`{"kind":"quote"}`)); err != nil {
		t.Fatalf("Put returned error: %v", err)
	}

	payload, err := store.Get(ctx, "a1/s1.json")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if string(payload) != `{"kind":"quote"}` {
		t.Errorf("Get returned %s", payload)
	}
}

func TestMemoryStore_GetMissing(t *testing.T) {
	store := NewMemoryStore()

	_, err := store.Get(context.Background(), "nope")
	if !errors.Is(err, interfaces.ErrBlobNotFound) {
		t.Errorf("want ErrBlobNotFound, got %v", err)
	}
}

func TestMemoryStore_GetReturnsCopy(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	if err := store.Put(ctx, "a1/s1.json", []byte("original")); err != nil {
		t.Fatalf("Put returned error: %v", err)
	}

	payload, _ := store.Get(ctx, "a1/s1.json")
	payload[0] = 'X'

	again, _ := store.Get(ctx, "a1/s1.json")
	if string(again) != "original" {
		t.Error("mutating a returned payload changed the stored object")
	}
}

func TestMemoryStore_RemoveMany(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	_ = store.Put(ctx, "a1/s1.json", []byte("1"))
	_ = store.Put(ctx, "a1/s2.json", []byte("2"))

	// Absent paths are not an error
	if err := store.RemoveMany(ctx, []string{"a1/s1.json", "a1/missing.json"}); err != nil {
		t.Fatalf("RemoveMany returned error: %v", err)
	}

	if _, err := store.Get(ctx, "a1/s1.json"); !errors.Is(err, interfaces.ErrBlobNotFound) {
		t.Error("removed object still present")
	}
	if _, err := store.Get(ctx, "a1/s2.json"); err != nil {
		t.Errorf("unrelated object removed: %v", err)
	}
}

func TestMemoryStore_List(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	_ = store.Put(ctx, "a1/s1.json", []byte("1"))
	_ = store.Put(ctx, "a1/_index.json", []byte("{}"))
	_ = store.Put(ctx, "_global/s1.json", []byte("{}"))

	paths, err := store.List(ctx, "a1/")
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	sort.Strings(paths)

	want := []string{"a1/_index.json", "a1/s1.json"}
	if len(paths) != len(want) {
		t.Fatalf("List returned %v, want %v", paths, want)
	}
	for i := range want {
		if paths[i] != want[i] {
			t.Errorf("paths[%d] = %s, want %s", i, paths[i], want[i])
		}
	}
}

func TestMemoryStore_ViewCounter(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	for i := int64(1); i <= 3; i++ {
		total, err := store.Increment(ctx, "s1")
		if err != nil {
			t.Fatalf("Increment returned error: %v", err)
		}
		if total != i {
			t.Errorf("Increment returned %d, want %d", total, i)
		}
	}

	total, err := store.Total(ctx, "s1")
	if err != nil {
		t.Fatalf("Total returned error: %v", err)
	}
	if total != 3 {
		t.Errorf("Total = %d, want 3", total)
	}

	if err := store.Remove(ctx, "s1"); err != nil {
		t.Fatalf("Remove returned error: %v", err)
	}
	total, _ = store.Total(ctx, "s1")
	if total != 0 {
		t.Errorf("Total after Remove = %d, want 0", total)
	}
}

func TestMemoryStore_CancelledContext(t *testing.T) {
	store := NewMemoryStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := store.Put(ctx, "a1/s1.json", []byte("1")); err == nil {
		t.Error("Put should fail with cancelled context")
	}
	if _, err := store.Get(ctx, "a1/s1.json"); err == nil {
		t.Error("Get should fail with cancelled context")
	}
}
