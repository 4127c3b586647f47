package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"storefront/domain"
	"storefront/pkg/apperror"

	"github.com/redis/go-redis/v9"
)

var ErrSessionNotFound = fmt.Errorf("checkout session %w", apperror.ErrNotFound)

// CheckoutSessionRepository keeps pending checkouts between provider order
// creation and capture.
type CheckoutSessionRepository struct {
	client *redis.Client
}

func NewCheckoutSessionRepository(client *redis.Client) *CheckoutSessionRepository {
	return &CheckoutSessionRepository{
		client: client,
	}
}

func sessionKey(providerOrderID string) string {
	return fmt.Sprintf("checkout:%s", providerOrderID)
}

func (r *CheckoutSessionRepository) Save(ctx context.Context, session domain.CheckoutSession, ttl time.Duration) error {
	jsonData, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal checkout session: %w", err)
	}

	if err := r.client.Set(ctx, sessionKey(session.ProviderOrderID), jsonData, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store checkout session in Redis: %w", err)
	}

	return nil
}

func (r *CheckoutSessionRepository) Get(ctx context.Context, providerOrderID string) (domain.CheckoutSession, error) {
	val, err := r.client.Get(ctx, sessionKey(providerOrderID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.CheckoutSession{}, ErrSessionNotFound
		}
		return domain.CheckoutSession{}, fmt.Errorf("failed to get checkout session from Redis: %w", err)
	}

	var session domain.CheckoutSession
	if err := json.Unmarshal(val, &session); err != nil {
		return domain.CheckoutSession{}, fmt.Errorf("failed to unmarshal checkout session: %w", err)
	}

	return session, nil
}

func (r *CheckoutSessionRepository) Delete(ctx context.Context, providerOrderID string) error {
	if err := r.client.Del(ctx, sessionKey(providerOrderID)).Err(); err != nil {
		return fmt.Errorf("failed to delete checkout session: %w", err)
	}

	return nil
}
