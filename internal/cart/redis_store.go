package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/01072k1anhCong2/kinhkong/internal/domain"
	"github.com/redis/go-redis/v9"
)

// Carts of inactive sessions expire eventually, matching the retention we
// had on the old cart collection.
const cartTTL = 90 * 24 * time.Hour

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{
		client: client,
		ttl:    cartTTL,
	}
}

type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// Load reads the serialized lines for a session. A missing key or a payload
// that no longer parses both yield an empty cart; corruption is logged and
// discarded on the next Save.
func (s RedisStore) Load(ctx context.Context, sessionID string) ([]domain.CartLine, error) {
	data, err := s.client.Get(ctx, storeKey(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var lines []domain.CartLine
	if err := json.Unmarshal(data, &lines); err != nil {
		log.Printf("discarding corrupted cart for session %s: %v", sessionID, err)
		return nil, nil
	}

	return lines, nil
}

func (s RedisStore) Save(ctx context.Context, sessionID string, lines []domain.CartLine) error {
	data, err := json.Marshal(lines)
	if err != nil {
		return fmt.Errorf("marshal cart failed: %w", err)
	}

	if err := s.client.Set(ctx, storeKey(sessionID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (s RedisStore) Delete(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, storeKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func storeKey(sessionID string) string {
	return fmt.Sprintf("cart:%s", sessionID)
}
