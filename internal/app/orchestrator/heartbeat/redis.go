package heartbeat

import (
	"context"
	"time"

	"github.com/vestafn/vesta/internal/pkg/naming"
	"github.com/vestafn/vesta/pkg/cache"
)

// redisTracker is a Tracker backed by TTL keys in a shared cache, for
// deployments where more than one orchestrator instance answers liveness
// queries. The key expiration mirrors the in-memory poll interval semantics.
type redisTracker struct {
	cacheClient  cache.CacheClient
	pollInterval time.Duration
}

// NewRedisTracker creates a Tracker backed by the given cache client.
func NewRedisTracker(cacheClient cache.CacheClient) Tracker {
	return &redisTracker{
		cacheClient:  cacheClient,
		pollInterval: PollInterval,
	}
}

// Touch stores the heartbeat time under a key expiring after the poll interval.
func (t *redisTracker) Touch(assemblyFullName string) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	key := naming.CacheHeartbeatKeyName(assemblyFullName)
	if err := t.cacheClient.Client().Set(ctx, key, time.Now().UTC().Format(time.RFC3339Nano), t.pollInterval).Err(); err != nil {
		log.Errorf("failed to store heartbeat in cache: %v", err)
	}
}

// IsLive reports whether the heartbeat key still exists. Expired or never
// written keys mean the host is not live.
func (t *redisTracker) IsLive(assemblyFullName string) bool {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	key := naming.CacheHeartbeatKeyName(assemblyFullName)
	exists, err := t.cacheClient.Client().Exists(ctx, key).Result()
	if err != nil {
		log.Errorf("failed to check heartbeat in cache: %v", err)
		return false
	}
	return exists > 0
}

// LastHeartbeat reads the stored heartbeat time for the given identity.
func (t *redisTracker) LastHeartbeat(assemblyFullName string) (time.Time, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	key := naming.CacheHeartbeatKeyName(assemblyFullName)
	value, err := t.cacheClient.Client().Get(ctx, key).Result()
	if err != nil {
		return time.Time{}, false
	}
	last, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		log.Errorf("failed to parse stored heartbeat time: %v", err)
		return time.Time{}, false
	}
	return last, true
}
