package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"
	"vocab_drill_backend/internal/model"
	"vocab_drill_backend/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const summaryCachePrefix = "session_summary:"

// SummaryCache 会话总结的 Redis 读缓存；总结创建后不再变化，无需失效
type SummaryCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewSummaryCache(client *redis.Client, ttl time.Duration) *SummaryCache {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &SummaryCache{Client: client, TTL: ttl}
}

func (c *SummaryCache) enabled() bool {
	return c != nil && c.Client != nil
}

func (c *SummaryCache) Get(ctx context.Context, sessionID string) (*model.SessionSummary, bool) {
	if !c.enabled() {
		return nil, false
	}
	data, err := c.Client.Get(ctx, summaryCachePrefix+sessionID).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.Log.Warn("Summary cache read failed", zap.String("sessionId", sessionID), zap.Error(err))
		}
		return nil, false
	}
	var s model.SessionSummary
	if err := json.Unmarshal(data, &s); err != nil {
		logger.Log.Warn("Summary cache entry corrupt", zap.String("sessionId", sessionID), zap.Error(err))
		return nil, false
	}
	return &s, true
}

func (c *SummaryCache) Set(ctx context.Context, s *model.SessionSummary) {
	if !c.enabled() {
		return
	}
	data, err := json.Marshal(s)
	if err != nil {
		return
	}
	if err := c.Client.Set(ctx, summaryCachePrefix+s.SessionID, data, c.TTL).Err(); err != nil {
		logger.Log.Warn("Summary cache write failed", zap.String("sessionId", s.SessionID), zap.Error(err))
	}
}
