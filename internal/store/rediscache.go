package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"scout-pipeline/internal/common/logger"
	"scout-pipeline/internal/models"
)

const subscriptionsCacheKey = "webhooks:subscriptions"

// CachedSubscriptionStore is a read-through cache over a
// SubscriptionStore. Dispatch reads the full subscription list on every
// event, so the list is cached in Redis and invalidated on mutation.
// Cache failures degrade to the inner store, never to an error.
type CachedSubscriptionStore struct {
	inner  SubscriptionStore
	client *redis.Client
	ttl    time.Duration
	logger logger.Logger
}

func NewCachedSubscriptionStore(inner SubscriptionStore, client *redis.Client, ttl time.Duration, log logger.Logger) *CachedSubscriptionStore {
	return &CachedSubscriptionStore{
		inner:  inner,
		client: client,
		ttl:    ttl,
		logger: log.WithFields(map[string]interface{}{"component": "subscription-cache"}),
	}
}

func (s *CachedSubscriptionStore) List(ctx context.Context) ([]models.Subscription, error) {
	if val, err := s.client.Get(ctx, subscriptionsCacheKey).Result(); err == nil {
		var subs []models.Subscription
		if err := json.Unmarshal([]byte(val), &subs); err == nil {
			return subs, nil
		}
	}

	subs, err := s.inner.List(ctx)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(subs); err == nil {
		if err := s.client.Set(ctx, subscriptionsCacheKey, data, s.ttl).Err(); err != nil {
			s.logger.Warn("cache write failed", map[string]interface{}{"error": err.Error()})
		}
	}
	return subs, nil
}

func (s *CachedSubscriptionStore) Add(ctx context.Context, sub models.Subscription) error {
	if err := s.inner.Add(ctx, sub); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *CachedSubscriptionStore) Remove(ctx context.Context, url string) error {
	if err := s.inner.Remove(ctx, url); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *CachedSubscriptionStore) invalidate(ctx context.Context) {
	if err := s.client.Del(ctx, subscriptionsCacheKey).Err(); err != nil {
		s.logger.Warn("cache invalidation failed", map[string]interface{}{"error": err.Error()})
	}
}
