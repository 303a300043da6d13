package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/nandanugg/geotoll/module/core/internal/repository/lock"
)

var _ lock.TollGuard = (*TollGuard)(nil)

const keyPrefix = "geotoll:toll"

var releaseScript = goredis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type TollGuard struct {
	client *goredis.Client
}

func NewTollGuard(client *goredis.Client) *TollGuard {
	return &TollGuard{client: client}
}

func (g *TollGuard) Acquire(ctx context.Context, vehicleID, zoneID string, ttl time.Duration) (string, bool, error) {
	token := uuid.NewString()
	ok, err := g.client.SetNX(ctx, guardKey(vehicleID, zoneID), token, ttl).Result()
	if err != nil {
		return "", false, fmt.Errorf("toll guard acquire: %w", err)
	}
	if !ok {
		return "", false, nil
	}
	return token, true, nil
}

func (g *TollGuard) Release(ctx context.Context, vehicleID, zoneID, token string) error {
	if err := releaseScript.Run(ctx, g.client, []string{guardKey(vehicleID, zoneID)}, token).Err(); err != nil {
		return fmt.Errorf("toll guard release: %w", err)
	}
	return nil
}

func guardKey(vehicleID, zoneID string) string {
	return fmt.Sprintf("%s:%s:%s", keyPrefix, vehicleID, zoneID)
}
