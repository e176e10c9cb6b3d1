package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/studyinside/quizboard-backend/internal/model"
)

func newTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return NewStore(rdb, 300*time.Second), mr
}

func TestStoreRoundTrip(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	var missed []model.Problem
	if err := s.Get(ctx, "problems", &missed); !errors.Is(err, ErrNotFound) {
		t.Fatalf("cold get: err = %v, want ErrNotFound", err)
	}

	in := []model.Problem{{Title: "a"}, {Title: "b"}}
	if err := s.Set(ctx, "problems", in); err != nil {
		t.Fatalf("Set: %v", err)
	}

	var out []model.Problem
	if err := s.Get(ctx, "problems", &out); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(out) != 2 || out[0].Title != "a" || out[1].Title != "b" {
		t.Fatalf("Get = %v", out)
	}
}

func TestStoreTTLExpiry(t *testing.T) {
	s, mr := newTestStore(t)
	ctx := context.Background()

	if err := s.Set(ctx, "problems", []model.Problem{{Title: "a"}}); err != nil {
		t.Fatalf("Set: %v", err)
	}

	mr.FastForward(301 * time.Second)

	var out []model.Problem
	if err := s.Get(ctx, "problems", &out); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expired get: err = %v, want ErrNotFound", err)
	}
}

func TestStoreInvalidate(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	_ = s.Set(ctx, "problems", []model.Problem{{Title: "a"}})
	_ = s.Set(ctx, "solutions", []model.Solution{{UserName: "A"}})

	if err := s.Invalidate(ctx, "problems", "solutions"); err != nil {
		t.Fatalf("Invalidate: %v", err)
	}

	var ps []model.Problem
	if err := s.Get(ctx, "problems", &ps); !errors.Is(err, ErrNotFound) {
		t.Fatalf("problems after invalidate: err = %v, want ErrNotFound", err)
	}
	var ss []model.Solution
	if err := s.Get(ctx, "solutions", &ss); !errors.Is(err, ErrNotFound) {
		t.Fatalf("solutions after invalidate: err = %v, want ErrNotFound", err)
	}
}

func TestStoreDegradesWithoutRedis(t *testing.T) {
	s := NewStore(nil, time.Minute)
	ctx := context.Background()

	if err := s.Get(ctx, "problems", &[]model.Problem{}); !errors.Is(err, ErrNotAvailable) {
		t.Errorf("Get: err = %v, want ErrNotAvailable", err)
	}
	if err := s.Set(ctx, "problems", nil); err != nil {
		t.Errorf("Set should be a no-op, got %v", err)
	}
	if err := s.Invalidate(ctx, "problems"); err != nil {
		t.Errorf("Invalidate should be a no-op, got %v", err)
	}
}
