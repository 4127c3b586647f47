package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"storefront/business/auth"

	"github.com/redis/go-redis/v9"
)

type TokenRepository struct {
	client *redis.Client
}

func NewTokenRepository(client *redis.Client) *TokenRepository {
	return &TokenRepository{
		client: client,
	}
}

func refreshKey(token string) string {
	return fmt.Sprintf("refresh:%s", token)
}

// Store maps a refresh token to its user until ttl elapses.
func (r *TokenRepository) Store(ctx context.Context, token string, userID uint, ttl time.Duration) error {
	err := r.client.Set(ctx, refreshKey(token), strconv.FormatUint(uint64(userID), 10), ttl).Err()
	if err != nil {
		return fmt.Errorf("failed to store refresh token in Redis: %w", err)
	}

	return nil
}

func (r *TokenRepository) Lookup(ctx context.Context, token string) (uint, error) {
	val, err := r.client.Get(ctx, refreshKey(token)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, auth.ErrRefreshTokenNotFound
		}
		return 0, fmt.Errorf("failed to look up refresh token: %w", err)
	}

	id, err := strconv.ParseUint(val, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("corrupt refresh token entry: %w", err)
	}

	return uint(id), nil
}

func (r *TokenRepository) Delete(ctx context.Context, token string) error {
	if err := r.client.Del(ctx, refreshKey(token)).Err(); err != nil {
		return fmt.Errorf("failed to delete refresh token: %w", err)
	}

	return nil
}
