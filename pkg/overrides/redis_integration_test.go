//go:build integration

package overrides

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"

	"github.com/matzehuels/depfetch/pkg/dependency"
)

func TestRedisStoreRoundTrip(t *testing.T) {
	addr := os.Getenv("DEPFETCH_REDIS_ADDR")
	if addr == "" {
		t.Skip("DEPFETCH_REDIS_ADDR not set")
	}
	ctx := context.Background()

	store, err := NewRedisStore(ctx, RedisConfig{Addr: addr, Key: "depfetch:test:" + uuid.NewString()}, nil)
	if err != nil {
		t.Fatalf("NewRedisStore() error: %v", err)
	}
	defer store.Close()
	defer store.Clear(ctx)

	repo := dependency.NewRepository("https://r.example/", "r")
	o, _ := dependency.NewOutcome(repo, "https://r.example/a.jar", "https://r.example/a.jar.sha1")
	if err := store.Save(ctx, map[string]*dependency.Outcome{
		"g:a:1":   o,
		"g:bom:1": dependency.NewAggregator(repo),
	}); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	tbl, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if tbl.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", tbl.Len())
	}
	if got, _ := tbl.Get("g:a:1"); *got != *o {
		t.Errorf("g:a:1 = %+v, want %+v", got, o)
	}
}
