package client

import (
	"context"
	"encoding/json"
	"time"

	"quiz-client/internal/protocol"
)

// Transport is the bidirectional event socket the client talks through.
// Connection management (dial, reconnect, backoff) belongs to the
// implementation; the client only emits and subscribes.
type Transport interface {
	Emit(event string, args ...any) error
	On(event string, handler func(args []json.RawMessage))
	Off(event string)
}

// Prompter sources identifiers and answers from the operator. A
// terminal prompt and a form submission are both valid implementations.
type Prompter interface {
	// QuizID asks for the next quiz to join. Returning the quit
	// sentinel (or an error, e.g. closed stdin) ends the session.
	QuizID() (string, error)
	// Answer asks for a 1-based answer choice for the active question.
	Answer() (int, error)
}

// Display renders quiz progress for the operator.
type Display interface {
	QuizStarting()
	Question(content string)
	TimeUp(index int)
	Tick(remaining int)
	Leaderboard(entries []protocol.LeaderboardEntry)
	CorrectAnswer(displayIndex, score int)
	ScoreUpdated(username string)
	QuizEnded()
	Error(message string)
}

// QuizResult is the finished-quiz record handed to a Recorder.
type QuizResult struct {
	SessionID   string                      `json:"session_id"`
	QuizID      string                      `json:"quiz_id"`
	Username    string                      `json:"username"`
	Score       int                         `json:"score"`
	Leaderboard []protocol.LeaderboardEntry `json:"leaderboard"`
	FinishedAt  time.Time                   `json:"finished_at"`
}

// Recorder persists finished-quiz results (in-memory, Redis, Postgres).
type Recorder interface {
	Record(ctx context.Context, result QuizResult) error
}
