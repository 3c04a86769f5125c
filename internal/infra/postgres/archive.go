package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"

	"quiz-client/internal/client"
)

// Archive writes finished-quiz results to Postgres for durable
// record-keeping across runs.
type Archive struct {
	pool *pgxpool.Pool
}

func NewArchive(pool *pgxpool.Pool) *Archive {
	return &Archive{pool: pool}
}

// Record inserts one result row; the session id is the primary key, so
// a retried write is a no-op.
func (a *Archive) Record(ctx context.Context, result client.QuizResult) error {
	board, err := json.Marshal(result.Leaderboard)
	if err != nil {
		return fmt.Errorf("marshal leaderboard: %w", err)
	}
	_, err = a.pool.Exec(ctx,
		`INSERT INTO quiz_results (id, quiz_id, username, score, leaderboard, finished_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (id) DO NOTHING`,
		result.SessionID, result.QuizID, result.Username, result.Score, board, result.FinishedAt)
	if err != nil {
		return fmt.Errorf("archive result: %w", err)
	}
	return nil
}

// Recent returns up to limit archived results for username, newest
// first.
func (a *Archive) Recent(ctx context.Context, username string, limit int) ([]client.QuizResult, error) {
	rows, err := a.pool.Query(ctx,
		`SELECT id, quiz_id, username, score, leaderboard, finished_at
		 FROM quiz_results WHERE username=$1
		 ORDER BY finished_at DESC LIMIT $2`,
		username, limit)
	if err != nil {
		return nil, fmt.Errorf("load archive: %w", err)
	}
	defer rows.Close()

	var results []client.QuizResult
	for rows.Next() {
		var result client.QuizResult
		var board []byte
		if err := rows.Scan(&result.SessionID, &result.QuizID, &result.Username, &result.Score, &board, &result.FinishedAt); err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		if err := json.Unmarshal(board, &result.Leaderboard); err != nil {
			return nil, fmt.Errorf("unmarshal leaderboard: %w", err)
		}
		results = append(results, result)
	}
	return results, rows.Err()
}
