package ui

import (
	"bytes"
	"strings"
	"testing"

	"quiz-client/internal/protocol"
)

func TestAnswerRepromptsUntilNumeric(t *testing.T) {
	var out bytes.Buffer
	term := NewTerminal(strings.NewReader("abc\n2\n"), &out)

	answer, err := term.Answer()
	if err != nil {
		t.Fatalf("answer: %v", err)
	}
	if answer != 2 {
		t.Fatalf("expected 2, got %d", answer)
	}
	if !strings.Contains(out.String(), "Please enter the answer number.") {
		t.Fatalf("expected a reprompt, got %q", out.String())
	}
}

func TestLeaderboardPrintsRanks(t *testing.T) {
	var out bytes.Buffer
	term := NewTerminal(strings.NewReader(""), &out)

	term.Leaderboard([]protocol.LeaderboardEntry{
		{Username: "bob", Score: 2},
		{Username: "alice", Score: 1},
	})

	got := out.String()
	if !strings.Contains(got, "1. bob: 2") || !strings.Contains(got, "2. alice: 1") {
		t.Fatalf("unexpected leaderboard output: %q", got)
	}
}

func TestLeaderboardSkipsEmptyBoard(t *testing.T) {
	var out bytes.Buffer
	term := NewTerminal(strings.NewReader(""), &out)

	term.Leaderboard(nil)
	if out.Len() != 0 {
		t.Fatalf("expected no output for empty leaderboard, got %q", out.String())
	}
}

func TestPromptTrimsInput(t *testing.T) {
	var out bytes.Buffer
	term := NewTerminal(strings.NewReader("  alice  \n"), &out)

	name, err := term.Username()
	if err != nil {
		t.Fatalf("username: %v", err)
	}
	if name != "alice" {
		t.Fatalf("expected trimmed name, got %q", name)
	}
}
