package store

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/knotworks/forcemap/pkg/graph"
)

func testRecord(id string) Record {
	return Record{
		ID:        id,
		CreatedAt: time.Now().UTC().Truncate(time.Millisecond),
		Layout: graph.Layout{
			Width:  500,
			Height: 300,
			Nodes:  []graph.Node{{ID: "a", X: 100, Y: 100, Radius: 20}},
		},
	}
}

func TestMemoryStore_PutGet(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	rec := testRecord("abc")

	if err := s.Put(ctx, rec); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	got, err := s.Get(ctx, "abc")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.ID != "abc" || len(got.Layout.Nodes) != 1 {
		t.Errorf("Get() = %+v, want stored record", got)
	}
}

func TestMemoryStore_GetMissing(t *testing.T) {
	s := NewMemoryStore()
	if _, err := s.Get(context.Background(), "nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() = %v, want ErrNotFound", err)
	}
}

func TestMemoryStore_PutReplaces(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	_ = s.Put(ctx, testRecord("x"))
	updated := testRecord("x")
	updated.Layout.Width = 900
	_ = s.Put(ctx, updated)

	got, _ := s.Get(ctx, "x")
	if got.Layout.Width != 900 {
		t.Errorf("Width = %v, want 900 after replace", got.Layout.Width)
	}
}

func TestMemoryStore_Delete(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	_ = s.Put(ctx, testRecord("x"))
	if err := s.Delete(ctx, "x"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := s.Get(ctx, "x"); !errors.Is(err, ErrNotFound) {
		t.Error("record still present after Delete()")
	}
	// Deleting a missing record is fine.
	if err := s.Delete(ctx, "x"); err != nil {
		t.Errorf("Delete() of missing record error = %v", err)
	}
}

func TestMemoryStore_ConcurrentAccess(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := range 10 {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			id := string(rune('a' + n))
			_ = s.Put(ctx, testRecord(id))
			_, _ = s.Get(ctx, id)
		}(i)
	}
	wg.Wait()
}
