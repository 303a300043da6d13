package lock

import (
	"context"
	"time"
)

// TollGuard hands out at most one lease per (vehicle, zone) pair at a time.
type TollGuard interface {
	// Acquire returns ok=false when another holder already owns the pair.
	Acquire(ctx context.Context, vehicleID, zoneID string, ttl time.Duration) (token string, ok bool, err error)
	// Release drops the lease only if it is still held under token.
	Release(ctx context.Context, vehicleID, zoneID, token string) error
}
