package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"quiz-client/internal/client"
)

// HistoryStore keeps per-user quiz result history in Redis as a capped
// list: LPUSH onto quiz:history:{username}, trimmed to limit entries,
// refreshed to ttl on every write.
type HistoryStore struct {
	client *redis.Client
	ttl    time.Duration
	limit  int64
}

func NewHistoryStore(client *redis.Client, ttl time.Duration, limit int) *HistoryStore {
	return &HistoryStore{client: client, ttl: ttl, limit: int64(limit)}
}

// Record pushes a finished-quiz result onto the user's history list.
func (s *HistoryStore) Record(ctx context.Context, result client.QuizResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}

	key := s.key(result.Username)
	pipe := s.client.Pipeline()
	pipe.LPush(ctx, key, data)
	if s.limit > 0 {
		pipe.LTrim(ctx, key, 0, s.limit-1)
	}
	if s.ttl > 0 {
		pipe.Expire(ctx, key, s.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("record result: %w", err)
	}
	return nil
}

// Results returns up to limit results for username, newest first.
func (s *HistoryStore) Results(ctx context.Context, username string, limit int) ([]client.QuizResult, error) {
	stop := int64(limit) - 1
	if limit <= 0 {
		stop = -1
	}
	raw, err := s.client.LRange(ctx, s.key(username), 0, stop).Result()
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}

	results := make([]client.QuizResult, 0, len(raw))
	for _, item := range raw {
		var result client.QuizResult
		if err := json.Unmarshal([]byte(item), &result); err != nil {
			return nil, fmt.Errorf("unmarshal history entry: %w", err)
		}
		results = append(results, result)
	}
	return results, nil
}

func (s *HistoryStore) key(username string) string {
	return "quiz:history:" + username
}
