package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"shopBackend/domain"

	"github.com/redis/go-redis/v9"
)

// SessionRepository keeps the tokens issued at login so they can be
// revoked before they expire.
type SessionRepository struct {
	client *redis.Client
}

func NewSessionRepository(client *redis.Client) *SessionRepository {
	return &SessionRepository{
		client: client,
	}
}

func userKey(userID string) string {
	return fmt.Sprintf("session:user:%s", userID)
}

func lookupKey(token string) string {
	return fmt.Sprintf("session:token:%s", token)
}

func (r *SessionRepository) StoreToken(ctx context.Context, data domain.Session, ttl time.Duration) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal session data: %w", err)
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, userKey(data.UserID), jsonData, ttl)
	// reverse lookup token -> user_id for quick validation
	pipe.Set(ctx, lookupKey(data.Token), data.UserID, ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to store session in Redis: %w", err)
	}

	return nil
}

// ValidateToken returns the user id the token was issued to
func (r *SessionRepository) ValidateToken(ctx context.Context, token string) (string, error) {
	userID, err := r.client.Get(ctx, lookupKey(token)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", errors.New("token not found or expired")
		}
		return "", fmt.Errorf("failed to validate token: %w", err)
	}

	return userID, nil
}

func (r *SessionRepository) RevokeToken(ctx context.Context, userID, token string) error {
	if err := r.client.Del(ctx, lookupKey(token), userKey(userID)).Err(); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}

	return nil
}
