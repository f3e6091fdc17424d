package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"shopTrace/domain"

	"github.com/redis/go-redis/v9"
)

const profileTTL = time.Hour

type ProfileCache struct {
	client *redis.Client
}

func NewProfileCache(client *redis.Client) *ProfileCache {
	return &ProfileCache{
		client: client,
	}
}

func profileKey(sessionID string) string {
	return fmt.Sprintf("behavior:profile:%s", sessionID)
}

// Set stores the freshest profile for a session, replacing any previous one.
func (c *ProfileCache) Set(ctx context.Context, profile domain.UserBehaviorProfile) error {
	jsonData, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("failed to marshal profile: %w", err)
	}

	if err := c.client.Set(ctx, profileKey(profile.SessionID), jsonData, profileTTL).Err(); err != nil {
		return fmt.Errorf("failed to cache profile: %w", err)
	}

	return nil
}

func (c *ProfileCache) Get(ctx context.Context, sessionID string) (domain.UserBehaviorProfile, error) {
	val, err := c.client.Get(ctx, profileKey(sessionID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.UserBehaviorProfile{}, errors.New("profile not cached")
		}
		return domain.UserBehaviorProfile{}, fmt.Errorf("failed to get cached profile: %w", err)
	}

	var profile domain.UserBehaviorProfile
	if err := json.Unmarshal([]byte(val), &profile); err != nil {
		return domain.UserBehaviorProfile{}, fmt.Errorf("failed to unmarshal cached profile: %w", err)
	}

	return profile, nil
}
