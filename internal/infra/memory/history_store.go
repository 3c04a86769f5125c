package memory

import (
	"context"
	"sync"

	"quiz-client/internal/client"
)

// HistoryStore keeps quiz results in memory, newest first. It is the
// fallback Recorder when neither Redis nor Postgres is configured;
// results only live as long as the process.
type HistoryStore struct {
	limit int

	mu      sync.RWMutex
	results []client.QuizResult
}

func NewHistoryStore(limit int) *HistoryStore {
	return &HistoryStore{limit: limit}
}

// Record prepends a result, trimming to the configured limit.
func (s *HistoryStore) Record(_ context.Context, result client.QuizResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results = append([]client.QuizResult{result}, s.results...)
	if s.limit > 0 && len(s.results) > s.limit {
		s.results = s.results[:s.limit]
	}
	return nil
}

// Results returns up to limit results for username, newest first.
func (s *HistoryStore) Results(_ context.Context, username string, limit int) ([]client.QuizResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]client.QuizResult, 0, limit)
	for _, result := range s.results {
		if result.Username != username {
			continue
		}
		out = append(out, result)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}
