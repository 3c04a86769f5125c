package redis

import (
	"context"
	"fmt"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"quiz-client/internal/client"
	"quiz-client/internal/protocol"
)

func TestHistoryStoreRoundTrip(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	store := NewHistoryStore(newClient(mr), time.Hour, 10)
	ctx := context.Background()

	result := client.QuizResult{
		SessionID: "session-1",
		QuizID:    "42",
		Username:  "alice",
		Score:     3,
		Leaderboard: []protocol.LeaderboardEntry{
			{Username: "alice", Score: 3},
			{Username: "bob", Score: 1},
		},
		FinishedAt: time.Now().UTC().Truncate(time.Second),
	}
	if err := store.Record(ctx, result); err != nil {
		t.Fatalf("record: %v", err)
	}
	if !mr.Exists("quiz:history:alice") {
		t.Fatalf("expected history key to be set")
	}

	results, err := store.Results(ctx, "alice", 10)
	if err != nil {
		t.Fatalf("results: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	got := results[0]
	if got.QuizID != "42" || got.Score != 3 || len(got.Leaderboard) != 2 {
		t.Fatalf("unexpected result %+v", got)
	}
	if got.Leaderboard[0].Username != "alice" {
		t.Fatalf("expected leaderboard order preserved, got %v", got.Leaderboard)
	}
}

func TestHistoryStoreTrimsToLimit(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	store := NewHistoryStore(newClient(mr), time.Hour, 2)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		err := store.Record(ctx, client.QuizResult{
			SessionID: fmt.Sprintf("s%d", i),
			Username:  "alice",
			Score:     i,
		})
		if err != nil {
			t.Fatalf("record %d: %v", i, err)
		}
	}

	results, err := store.Results(ctx, "alice", 10)
	if err != nil {
		t.Fatalf("results: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected list trimmed to 2, got %d", len(results))
	}
	if results[0].SessionID != "s4" {
		t.Fatalf("expected newest first, got %v", results)
	}
}

func TestHistoryStoreEmptyForUnknownUser(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	store := NewHistoryStore(newClient(mr), time.Hour, 10)
	results, err := store.Results(context.Background(), "nobody", 10)
	if err != nil {
		t.Fatalf("results: %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("expected no results, got %d", len(results))
	}
}

func newClient(mr *miniredis.Miniredis) *redis.Client {
	return redis.NewClient(&redis.Options{Addr: mr.Addr()})
}
