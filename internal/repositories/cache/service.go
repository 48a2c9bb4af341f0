// Package cache wraps Redis behind a JSON-marshalling cache service used
// for hot read paths (profiles and group projections).
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"splitbuy/internal/models"

	"github.com/redis/go-redis/v9"
)

type CacheService struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCacheService(client *redis.Client, defaultTTL time.Duration) *CacheService {
	return &CacheService{
		client: client,
		ttl:    defaultTTL,
	}
}

// Base operations
func (s *CacheService) Set(ctx context.Context, key string, value interface{}) error {
	return s.SetWithTTL(ctx, key, value, s.ttl)
}

func (s *CacheService) SetWithTTL(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal cache value: %w", err)
	}
	return s.client.Set(ctx, key, data, ttl).Err()
}

func (s *CacheService) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return false, nil
		}
		return false, fmt.Errorf("failed to get cache value: %w", err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("failed to unmarshal cache value: %w", err)
	}
	return true, nil
}

func (s *CacheService) Delete(ctx context.Context, keys ...string) error {
	return s.client.Del(ctx, keys...).Err()
}

// Key generation
func (s *CacheService) GenerateKey(entityType, keyType string, value interface{}) string {
	return fmt.Sprintf("%s:%s:%v", entityType, keyType, value)
}

// Profile caching
func (s *CacheService) CacheProfile(ctx context.Context, user *models.User) error {
	if user == nil {
		return errors.New("cannot cache nil profile")
	}

	keys := []string{
		s.GenerateKey("profile", "id", user.ID),
		s.GenerateKey("profile", "email", user.Email),
	}
	for _, key := range keys {
		if err := s.Set(ctx, key, user); err != nil {
			return err
		}
	}
	return nil
}

func (s *CacheService) GetProfile(ctx context.Context, userID uint) (*models.User, error) {
	var user models.User
	found, err := s.Get(ctx, s.GenerateKey("profile", "id", userID), &user)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, errors.New("profile not found in cache")
	}
	return &user, nil
}

func (s *CacheService) InvalidateProfile(ctx context.Context, userID uint, email string) error {
	return s.Delete(ctx,
		s.GenerateKey("profile", "id", userID),
		s.GenerateKey("profile", "email", email),
	)
}

// Group caching
func (s *CacheService) CacheGroup(ctx context.Context, group *models.Group) error {
	if group == nil {
		return errors.New("cannot cache nil group")
	}
	return s.SetWithTTL(ctx, s.GenerateKey("group", "id", group.ID), group, 5*time.Minute)
}

func (s *CacheService) GetGroup(ctx context.Context, groupID uint) (*models.Group, error) {
	var group models.Group
	found, err := s.Get(ctx, s.GenerateKey("group", "id", groupID), &group)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, errors.New("group not found in cache")
	}
	return &group, nil
}

func (s *CacheService) InvalidateGroup(ctx context.Context, groupID uint) error {
	return s.Delete(ctx, s.GenerateKey("group", "id", groupID))
}

// FlushAll clears the whole cache, used on startup.
func (s *CacheService) FlushAll(ctx context.Context) error {
	return s.client.FlushAll(ctx).Err()
}

// Close terminates the Redis connection.
func (s *CacheService) Close() error {
	return s.client.Close()
}
