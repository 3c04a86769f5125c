package client

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"quiz-client/internal/protocol"
)

// QuitSentinel is the reserved quiz id that ends the session instead of
// joining.
const QuitSentinel = "quit"

// State is the client's position in the join -> play -> end cycle.
type State int

const (
	StateIdle State = iota
	StateJoining
	StateQuizLoaded
	StateQuestionActive
	StateQuizEnded
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateJoining:
		return "joining"
	case StateQuizLoaded:
		return "quiz_loaded"
	case StateQuestionActive:
		return "question_active"
	case StateQuizEnded:
		return "quiz_ended"
	default:
		return "unknown"
	}
}

const recordTimeout = 5 * time.Second

// Client drives one participant's quiz session: it binds inbound
// protocol events to state transitions and emits join and answer events
// back through the transport. All inbound events are processed in
// delivery order on the transport's dispatch goroutine; no handler is
// ever fatal, malformed or out-of-order events are reported and
// dropped.
type Client struct {
	transport Transport
	prompter  Prompter
	display   Display
	recorder  Recorder
	clock     clockwork.Clock
	log       zerolog.Logger

	questionSeconds int

	mu         sync.Mutex
	state      State
	session    *Session
	board      *Leaderboard
	countdown  *Countdown
	subscribed []string

	done     chan struct{}
	quitOnce sync.Once
}

// Option configures a Client.
type Option func(*Client)

// WithClock substitutes the wall clock, used by tests.
func WithClock(clock clockwork.Clock) Option {
	return func(c *Client) { c.clock = clock }
}

// WithRecorder persists a QuizResult after every quiz_ended.
func WithRecorder(recorder Recorder) Option {
	return func(c *Client) { c.recorder = recorder }
}

// WithQuestionTime overrides the per-question countdown duration.
func WithQuestionTime(d time.Duration) Option {
	return func(c *Client) {
		if secs := int(d / time.Second); secs > 0 {
			c.questionSeconds = secs
		}
	}
}

// WithLogger attaches a structured logger.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) { c.log = log }
}

// New builds a client for one participant. Call Start to subscribe to
// protocol events and Close to tear the subscriptions down again.
func New(transport Transport, prompter Prompter, display Display, username string, opts ...Option) *Client {
	c := &Client{
		transport:       transport,
		prompter:        prompter,
		display:         display,
		clock:           clockwork.NewRealClock(),
		log:             zerolog.Nop(),
		questionSeconds: int(protocol.DefaultQuestionTime / time.Second),
		state:           StateIdle,
		session:         newSession(username),
		board:           &Leaderboard{},
		done:            make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.countdown = NewCountdown(c.clock, func(remaining int) {
		c.mu.Lock()
		c.session.TimeLeft = remaining
		c.mu.Unlock()
		c.display.Tick(remaining)
	})
	return c
}

// Start subscribes the protocol event handlers.
func (c *Client) Start() {
	handlers := map[string]func([]json.RawMessage){
		protocol.QuizData:        c.onQuizData,
		protocol.QuizError:       c.onQuizError,
		protocol.QuestionStarted: c.onQuestionStarted,
		protocol.ScoreUpdated:    c.onScoreUpdated,
		protocol.AnswerChecked:   c.onAnswerChecked,
		protocol.QuizEnded:       c.onQuizEnded,
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for event, handler := range handlers {
		c.transport.On(event, handler)
		c.subscribed = append(c.subscribed, event)
	}
}

// Close unsubscribes every handler registered by Start, exactly once
// per subscription, stops the countdown and releases Done waiters.
func (c *Client) Close() {
	c.mu.Lock()
	subscribed := c.subscribed
	c.subscribed = nil
	c.mu.Unlock()

	for _, event := range subscribed {
		c.transport.Off(event)
	}
	c.countdown.Cancel()
	c.quit()
}

// Done is closed when the operator quits or the client is closed.
func (c *Client) Done() <-chan struct{} { return c.done }

func (c *Client) quit() {
	c.quitOnce.Do(func() { close(c.done) })
}

// Join emits a join request for quizID. The id is coerced to a number
// when it looks like one, matching what most deployments expect, and is
// otherwise sent verbatim.
func (c *Client) Join(quizID string) error {
	c.mu.Lock()
	c.session.ID = uuid.NewString()
	c.session.LastError = ""
	c.state = StateJoining
	username := c.session.Username
	c.mu.Unlock()

	c.log.Debug().Str("quiz_id", quizID).Msg("joining quiz")
	return c.transport.Emit(protocol.JoinQuiz, username, coerceQuizID(quizID))
}

// SubmitAnswer builds an answer submission for the active question from
// the operator's 1-based choice and emits it. The client keeps no local
// guard against re-submission; the server is authoritative.
func (c *Client) SubmitAnswer(choice int) error {
	c.mu.Lock()
	if c.state != StateQuestionActive || c.session.Quiz == nil {
		c.mu.Unlock()
		return ErrNoActiveQuestion
	}
	payload := protocol.AnswerPayload{
		QuizID:        c.session.Quiz.ID,
		QuestionIndex: c.session.QuestionIndex,
		AnswerIndex:   choice - 1,
	}
	c.mu.Unlock()

	encoded, err := payload.Encode()
	if err != nil {
		return fmt.Errorf("encode answer: %w", err)
	}
	return c.transport.Emit(protocol.AnswerQuestion, encoded)
}

// State reports the current lifecycle state.
func (c *Client) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// QuestionIndex is the active question index, or -1.
func (c *Client) QuestionIndex() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session.QuestionIndex
}

// TimeRemaining is the advisory seconds left for the active question.
func (c *Client) TimeRemaining() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session.TimeLeft
}

// Scoreboard returns the latest leaderboard snapshot in server order.
func (c *Client) Scoreboard() []protocol.LeaderboardEntry {
	return c.board.Entries()
}

// LastError returns the most recent quiz_error message, if any.
func (c *Client) LastError() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session.LastError
}

func (c *Client) onQuizData(args []json.RawMessage) {
	var quiz protocol.Quiz
	if err := decodeArgs(args, &quiz); err != nil {
		c.fault(protocol.QuizData, err)
		return
	}

	c.mu.Lock()
	c.session.Quiz = &quiz
	c.session.QuestionIndex = -1
	c.session.TimeLeft = 0
	c.state = StateQuizLoaded
	c.mu.Unlock()
	c.countdown.Cancel()

	c.log.Info().Str("quiz_id", quiz.ID.String()).Int("questions", len(quiz.Questions)).Msg("quiz data received")
	c.display.QuizStarting()
}

func (c *Client) onQuizError(args []json.RawMessage) {
	var message string
	if err := decodeArgs(args, &message); err != nil {
		c.fault(protocol.QuizError, err)
		return
	}

	c.mu.Lock()
	c.session.LastError = message
	c.mu.Unlock()
	c.display.Error(message)

	if strings.HasPrefix(message, protocol.JoinQuizErrorType) {
		c.promptRejoin()
	}
}

func (c *Client) onQuestionStarted(args []json.RawMessage) {
	var index int
	var board []protocol.LeaderboardEntry
	if err := decodeArgs(args, &index, &board); err != nil {
		c.fault(protocol.QuestionStarted, err)
		return
	}

	c.mu.Lock()
	if c.session.Quiz == nil {
		c.mu.Unlock()
		c.fault(protocol.QuestionStarted, ErrNoQuizLoaded)
		return
	}
	if index < 0 || index >= len(c.session.Quiz.Questions) {
		c.mu.Unlock()
		c.fault(protocol.QuestionStarted, fmt.Errorf("question index %d out of range", index))
		return
	}
	c.session.QuestionIndex = index
	c.session.TimeLeft = c.questionSeconds
	c.state = StateQuestionActive
	content := c.session.Quiz.Questions[index].Content
	c.mu.Unlock()

	// The server sends no separate end-of-question event: a start with
	// index > 0 doubles as the previous question's end.
	if index > 0 {
		c.display.TimeUp(index)
	}
	c.board.Replace(board)
	c.countdown.Start(c.questionSeconds)
	c.display.Question(content)
	c.promptAnswer()
}

func (c *Client) onScoreUpdated(args []json.RawMessage) {
	var username string
	var board []protocol.LeaderboardEntry
	if err := decodeArgs(args, &username, &board); err != nil {
		c.fault(protocol.ScoreUpdated, err)
		return
	}

	c.board.Replace(board)
	c.display.ScoreUpdated(username)
	c.display.Leaderboard(c.board.Entries())
}

func (c *Client) onAnswerChecked(args []json.RawMessage) {
	var correctIndex, newScore int
	if err := decodeArgs(args, &correctIndex, &newScore); err != nil {
		c.fault(protocol.AnswerChecked, err)
		return
	}

	c.mu.Lock()
	c.session.Score = newScore
	c.mu.Unlock()
	c.display.CorrectAnswer(correctIndex+1, newScore)
}

func (c *Client) onQuizEnded(args []json.RawMessage) {
	var board []protocol.LeaderboardEntry
	if err := decodeArgs(args, &board); err != nil {
		c.fault(protocol.QuizEnded, err)
		return
	}

	c.board.Replace(board)
	c.display.QuizEnded()
	c.display.Leaderboard(c.board.Entries())
	c.recordResult(board)

	c.mu.Lock()
	c.session.Quiz = nil
	c.session.QuestionIndex = -1
	c.session.TimeLeft = 0
	c.state = StateQuizEnded
	c.mu.Unlock()
	c.countdown.Cancel()

	c.promptRejoin()
}

// promptAnswer solicits and submits an answer for the active question.
// In the terminal variant this intentionally blocks the dispatch
// goroutine; the server paces one question at a time, so no event the
// client must act on can arrive while it waits.
func (c *Client) promptAnswer() {
	choice, err := c.prompter.Answer()
	if err != nil {
		c.log.Debug().Err(err).Msg("no answer collected")
		return
	}
	if err := c.SubmitAnswer(choice); err != nil {
		c.log.Warn().Err(err).Msg("answer not submitted")
	}
}

// promptRejoin asks the operator for the next quiz id. The quit
// sentinel (or a closed input) ends the session cleanly; anything else
// re-emits join_quiz. Retries are operator-paced and unbounded.
func (c *Client) promptRejoin() {
	quizID, err := c.prompter.QuizID()
	if err != nil || quizID == QuitSentinel {
		c.quit()
		return
	}
	if err := c.Join(quizID); err != nil {
		c.log.Error().Err(err).Msg("join emit failed")
	}
}

func (c *Client) recordResult(board []protocol.LeaderboardEntry) {
	if c.recorder == nil {
		return
	}

	c.mu.Lock()
	result := QuizResult{
		SessionID:   c.session.ID,
		Username:    c.session.Username,
		Score:       c.session.Score,
		Leaderboard: board,
		FinishedAt:  c.clock.Now(),
	}
	if c.session.Quiz != nil {
		result.QuizID = c.session.Quiz.ID.String()
	}
	c.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
	defer cancel()
	if err := c.recorder.Record(ctx, result); err != nil {
		c.log.Warn().Err(err).Str("quiz_id", result.QuizID).Msg("result not recorded")
	}
}

// fault reports a malformed or out-of-order event and drops it. Local
// faults never escape the handler; the state machine stays in its prior
// consistent state.
func (c *Client) fault(event string, err error) {
	c.log.Warn().Err(err).Str("event", event).Str("state", c.State().String()).Msg("protocol event dropped")
	c.display.Error(err.Error())
}

// decodeArgs unmarshals positional event arguments into targets.
// Trailing arguments the server omitted are left at their zero value.
func decodeArgs(args []json.RawMessage, targets ...any) error {
	for i, target := range targets {
		if i >= len(args) {
			return nil
		}
		if len(args[i]) == 0 {
			continue
		}
		if err := json.Unmarshal(args[i], target); err != nil {
			return fmt.Errorf("argument %d: %w", i, err)
		}
	}
	return nil
}

func coerceQuizID(raw string) any {
	if n, err := strconv.Atoi(strings.TrimSpace(raw)); err == nil {
		return n
	}
	return raw
}
