package memory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/tailored-agentic-units/cradle/memory"
)

func TestMapStore_SetGet(t *testing.T) {
	ctx := context.Background()
	store := memory.NewMapStore()

	if _, err := store.Get(ctx, "messages"); !errors.Is(err, memory.ErrKeyNotFound) {
		t.Errorf("Get() error = %v, want %v", err, memory.ErrKeyNotFound)
	}

	value := []byte("snapshot")
	if err := store.Set(ctx, "messages", value); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	value[0] = 'X'

	got, err := store.Get(ctx, "messages")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if string(got) != "snapshot" {
		t.Errorf("Get() = %q, want %q (store must copy on write)", got, "snapshot")
	}

	got[0] = 'X'
	if err := store.Set(ctx, "messages", []byte("newer")); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if got, _ := store.Get(ctx, "messages"); string(got) != "newer" {
		t.Errorf("Get() = %q, want %q (Set overwrites)", got, "newer")
	}
}
