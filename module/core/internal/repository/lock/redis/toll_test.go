package redis

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
)

func newGuard(t *testing.T) (*TollGuard, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewTollGuard(client), mr
}

func TestAcquire_SecondCallerBlockedUntilExpiry(t *testing.T) {
	g, mr := newGuard(t)
	ctx := context.Background()

	token, ok, err := g.Acquire(ctx, "veh-1", "z-toll", 30*time.Second)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok || token == "" {
		t.Fatal("expected first acquire to succeed")
	}
	if ttl := mr.TTL(guardKey("veh-1", "z-toll")); ttl != 30*time.Second {
		t.Errorf("expected 30s ttl, got %v", ttl)
	}

	_, ok, err = g.Acquire(ctx, "veh-1", "z-toll", 30*time.Second)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatal("expected second acquire inside the window to fail")
	}

	mr.FastForward(31 * time.Second)

	_, ok, err = g.Acquire(ctx, "veh-1", "z-toll", 30*time.Second)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatal("expected acquire after expiry to succeed")
	}
}

func TestAcquire_PairsAreIndependent(t *testing.T) {
	g, _ := newGuard(t)
	ctx := context.Background()

	for _, pair := range [][2]string{{"veh-1", "z-1"}, {"veh-1", "z-2"}, {"veh-2", "z-1"}} {
		_, ok, err := g.Acquire(ctx, pair[0], pair[1], time.Minute)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !ok {
			t.Errorf("expected %v to be acquired", pair)
		}
	}
}

func TestAcquire_ConcurrentCallersGetOneLease(t *testing.T) {
	g, _ := newGuard(t)
	ctx := context.Background()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		winners int
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, ok, err := g.Acquire(ctx, "veh-1", "z-toll", time.Minute)
			if err != nil {
				t.Errorf("unexpected error: %v", err)
				return
			}
			if ok {
				mu.Lock()
				winners++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if winners != 1 {
		t.Fatalf("expected exactly 1 lease, got %d", winners)
	}
}

func TestRelease(t *testing.T) {
	g, mr := newGuard(t)
	ctx := context.Background()

	token, _, err := g.Acquire(ctx, "veh-1", "z-toll", time.Minute)
	if err != nil {
		t.Fatal(err)
	}

	// a stale token must not drop someone else's lease
	if err := g.Release(ctx, "veh-1", "z-toll", "stale"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !mr.Exists(guardKey("veh-1", "z-toll")) {
		t.Fatal("lease released with wrong token")
	}

	if err := g.Release(ctx, "veh-1", "z-toll", token); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mr.Exists(guardKey("veh-1", "z-toll")) {
		t.Fatal("expected lease to be released")
	}
}

func TestAcquire_RedisDown(t *testing.T) {
	g, mr := newGuard(t)
	mr.Close()

	_, ok, err := g.Acquire(context.Background(), "veh-1", "z-toll", time.Minute)
	if err == nil {
		t.Fatal("expected error")
	}
	if ok {
		t.Fatal("expected ok=false on error")
	}
}
