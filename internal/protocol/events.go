package protocol

import (
	"encoding/json"
	"time"
)

// Event names are the wire contract shared with the quiz server and
// must match it byte for byte.
const (
	// outbound (client -> server)
	JoinQuiz       = "join_quiz"
	AnswerQuestion = "answer_question"
	// inbound (server -> client)
	AnswerChecked   = "answer_checked"
	QuestionStarted = "question_started"
	ScoreUpdated    = "score_updated"
	QuizEnded       = "quiz_ended"
	QuizData        = "quiz_data"
	QuizError       = "quiz_error"
)

// JoinQuizErrorType prefixes quiz_error messages that mean the join
// itself failed and the client should ask for another quiz id.
const JoinQuizErrorType = "JoinQuizError"

// DefaultQuestionTime is the server's per-question budget. The value is
// advisory on the client side; the authoritative end of a question is
// the next question_started push.
const DefaultQuestionTime = 10 * time.Second

// Quiz is the full quiz payload delivered once on quiz_data.
type Quiz struct {
	ID        json.Number `json:"id"`
	Questions []Question  `json:"questions"`
}

// Question carries opaque content; its identity is its position in the
// quiz's question slice.
type Question struct {
	Content string `json:"content"`
}

// LeaderboardEntry is one row of a server-pushed leaderboard. Rows
// arrive already ranked; the client must preserve their order.
type LeaderboardEntry struct {
	Username string `json:"username"`
	Score    int    `json:"score"`
}

// AnswerPayload is the answer_question body. It travels as a serialized
// JSON string, not as a bare object, matching the server's decoder.
type AnswerPayload struct {
	QuizID        json.Number `json:"quiz_id"`
	QuestionIndex int         `json:"question_index"`
	AnswerIndex   int         `json:"answer_index"`
}

// Encode renders the payload in the string form the server expects.
func (p AnswerPayload) Encode() (string, error) {
	b, err := json.Marshal(p)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
