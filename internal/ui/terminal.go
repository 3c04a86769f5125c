// Package ui is the terminal shell around the quiz client: it prompts
// the operator for identifiers and answers and prints quiz progress.
package ui

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"quiz-client/internal/protocol"
)

// Terminal implements both the client's Prompter and Display over a
// line-oriented reader and writer (normally stdin/stdout).
type Terminal struct {
	in  *bufio.Scanner
	out io.Writer
}

func NewTerminal(in io.Reader, out io.Writer) *Terminal {
	return &Terminal{in: bufio.NewScanner(in), out: out}
}

func (t *Terminal) prompt(label string) (string, error) {
	fmt.Fprint(t.out, label)
	if !t.in.Scan() {
		if err := t.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimSpace(t.in.Text()), nil
}

// Username asks for the participant name once at startup.
func (t *Terminal) Username() (string, error) {
	return t.prompt("Enter username: ")
}

// QuizID asks for the next quiz to join.
func (t *Terminal) QuizID() (string, error) {
	return t.prompt("Enter quiz ID: ")
}

// Answer asks for a 1-based choice, re-prompting until the operator
// types a number.
func (t *Terminal) Answer() (int, error) {
	for {
		raw, err := t.prompt("Your answer: ")
		if err != nil {
			return 0, err
		}
		if n, err := strconv.Atoi(raw); err == nil {
			return n, nil
		}
		fmt.Fprintln(t.out, "Please enter the answer number.")
	}
}

func (t *Terminal) QuizStarting() {
	fmt.Fprintln(t.out, "The quiz is starting...")
}

func (t *Terminal) Question(content string) {
	fmt.Fprintln(t.out, content)
}

func (t *Terminal) TimeUp(index int) {
	fmt.Fprintf(t.out, "The time for question %d is up!\n\n", index)
}

// Tick is a no-op on the terminal: the answer prompt owns the line, and
// the countdown is advisory. Graphical shells render it instead.
func (t *Terminal) Tick(remaining int) {}

func (t *Terminal) Leaderboard(entries []protocol.LeaderboardEntry) {
	if len(entries) == 0 {
		return
	}
	fmt.Fprintln(t.out, "===== LEADERBOARD =====")
	for i, entry := range entries {
		fmt.Fprintf(t.out, "%d. %s: %d\n", i+1, entry.Username, entry.Score)
	}
	fmt.Fprintln(t.out)
}

func (t *Terminal) CorrectAnswer(displayIndex, score int) {
	fmt.Fprintln(t.out, "Correct answer is:", displayIndex)
	fmt.Fprintln(t.out, "Your current score is:", score)
	fmt.Fprintln(t.out)
}

func (t *Terminal) ScoreUpdated(username string) {
	fmt.Fprintf(t.out, "User %s answered correctly!\n", username)
}

func (t *Terminal) QuizEnded() {
	fmt.Fprintln(t.out, "The quiz has ended.")
}

func (t *Terminal) Error(message string) {
	fmt.Fprintln(t.out, message)
}
