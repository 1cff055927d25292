// pdp/cache/decision_cache.go
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	logger "github.com/skyber-io/privacy-firewall/logging"
	"github.com/skyber-io/privacy-firewall/model"
	helper_util "github.com/skyber-io/privacy-firewall/util/helper"
)

// DecisionCache memoizes combined decisions for a short TTL. It is
// strictly best effort: a broken backend degrades to recomputation,
// never to an error. Concurrent misses on the same key are collapsed
// through singleflight so the pipeline runs once.
type DecisionCache struct {
	client *redis.Client // optional; nil means in-process only
	ttl    time.Duration
	bucket time.Duration

	mu    sync.RWMutex
	local map[string]localEntry

	group  singleflight.Group
	hits   atomic.Uint64
	misses atomic.Uint64
}

type localEntry struct {
	decision  model.AccessDecision
	expiresAt time.Time
}

func NewDecisionCache(client *redis.Client, ttl, bucket time.Duration) *DecisionCache {
	return &DecisionCache{
		client: client,
		ttl:    ttl,
		bucket: bucket,
		local:  make(map[string]localEntry),
	}
}

// Key derives the cache key for a request. The time bucket keeps
// temporally-sensitive answers from outliving their window; the policy
// version keeps stale snapshots from answering after a reload. Every
// field the evaluators read is part of the key, so two requests that
// could decide differently never share an entry.
func (c *DecisionCache) Key(req *model.AccessRequest, policyVersion uint64) string {
	bucket := helper_util.TruncateToBucket(req.Timestamp, c.bucket).Unix()
	var sb strings.Builder
	fmt.Fprintf(&sb, "decision:v%d:%s|%s|%s|%s|%s|%d",
		policyVersion, req.SubjectID, req.ResourceID, req.Action, req.Urgency, req.Situation, bucket)
	if req.EmergencyOverride || req.EmergencyAuthorizationID != "" {
		fmt.Fprintf(&sb, "|e%t:%s", req.EmergencyOverride, req.EmergencyAuthorizationID)
	}
	if req.Window != nil {
		fmt.Fprintf(&sb, "|w%d-%d", req.Window.Start.Unix(), req.Window.End.Unix())
	}
	if req.Grant != nil {
		fmt.Fprintf(&sb, "|g%s:%d-%d", req.Grant.Role, req.Grant.ValidFrom.Unix(), req.Grant.ValidUntil.Unix())
	}
	return sb.String()
}

// GetOrCompute returns the cached decision for key, or runs compute
// once across concurrent callers and caches its result.
func (c *DecisionCache) GetOrCompute(ctx context.Context, key string, compute func() (*model.AccessDecision, error)) (*model.AccessDecision, error) {
	if cached := c.get(ctx, key); cached != nil {
		c.hits.Add(1)
		cached.Cached = true
		return cached, nil
	}
	c.misses.Add(1)

	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		// A sibling flight may have populated the cache already.
		if cached := c.get(ctx, key); cached != nil {
			cached.Cached = true
			return cached, nil
		}
		decision, err := compute()
		if err != nil {
			return nil, err
		}
		c.set(ctx, key, decision)
		return decision, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*model.AccessDecision), nil
}

func (c *DecisionCache) get(ctx context.Context, key string) *model.AccessDecision {
	c.mu.RLock()
	entry, ok := c.local[key]
	c.mu.RUnlock()
	if ok && time.Now().Before(entry.expiresAt) {
		decision := entry.decision
		return &decision
	}

	if c.client == nil {
		return nil
	}

	raw, err := c.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil
	} else if err != nil {
		logger.Warn("Decision cache read failed", zap.Error(err), zap.String("key", key))
		return nil
	}

	var decision model.AccessDecision
	if err := json.Unmarshal([]byte(raw), &decision); err != nil {
		logger.Warn("Decision cache entry corrupt", zap.Error(err), zap.String("key", key))
		return nil
	}
	return &decision
}

func (c *DecisionCache) set(ctx context.Context, key string, decision *model.AccessDecision) {
	c.mu.Lock()
	c.local[key] = localEntry{decision: *decision, expiresAt: time.Now().Add(c.ttl)}
	c.mu.Unlock()

	if c.client == nil {
		return
	}

	raw, err := json.Marshal(decision)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		logger.Warn("Decision cache write failed", zap.Error(err), zap.String("key", key))
	}
}

// Flush drops the in-process entries. Redis entries age out on their
// own; version-prefixed keys make them unreachable after a reload.
func (c *DecisionCache) Flush() {
	c.mu.Lock()
	c.local = make(map[string]localEntry)
	c.mu.Unlock()
}

// Stats reports hit and miss counts since startup.
func (c *DecisionCache) Stats() (hits, misses uint64) {
	return c.hits.Load(), c.misses.Load()
}
