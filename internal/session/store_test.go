package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return NewStore(rdb, time.Hour)
}

func TestStoreUnknownSessionStartsFresh(t *testing.T) {
	store := newTestStore(t)

	st, err := store.Get(context.Background(), "nope")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if st.Page != PageList {
		t.Errorf("fresh state page = %q, want list", st.Page)
	}
}

func TestStoreRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	id := uuid.New()

	st := New()
	st.EnterDetail(id)
	st.RecordAnswerCheck(id, true)
	st.ArmDelete(id)

	if err := store.Save(ctx, "sess-1", st); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := store.Get(ctx, "sess-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Page != PageDetail || got.SelectedProblemID != id {
		t.Fatalf("round trip lost page state: %+v", got)
	}
	if !got.ExplanationRevealed[id] || !got.DeleteConfirmPending[id] {
		t.Fatalf("round trip lost transient flags: %+v", got)
	}
}

func TestStoreClear(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	st := New()
	st.EnterDetail(uuid.New())
	_ = store.Save(ctx, "sess-1", st)

	if err := store.Clear(ctx, "sess-1"); err != nil {
		t.Fatalf("Clear: %v", err)
	}

	got, err := store.Get(ctx, "sess-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Page != PageList {
		t.Errorf("cleared session must start over at list, got %q", got.Page)
	}
}
