package client

import (
	"sync"

	"quiz-client/internal/protocol"
)

// Session is the client's view of one quiz lifecycle, from join to end.
// It is owned by a single Client and mutated only under the client's
// lock.
type Session struct {
	// ID identifies one join attempt; regenerated on every Join.
	ID       string
	Username string
	// Quiz is nil until quiz_data arrives and again after quiz_ended.
	Quiz *protocol.Quiz
	// QuestionIndex is -1 while no question is active.
	QuestionIndex int
	// TimeLeft is the advisory countdown for the active question, in
	// seconds.
	TimeLeft int
	// Score is the running score as last reported by answer_checked.
	Score     int
	LastError string
}

func newSession(username string) *Session {
	return &Session{Username: username, QuestionIndex: -1}
}

// Leaderboard holds the most recent server-pushed ranking. It is
// replaced wholesale on every push; rank is defined by server order, so
// entries are never sorted or merged locally.
type Leaderboard struct {
	mu      sync.RWMutex
	entries []protocol.LeaderboardEntry
}

// Replace swaps in a fresh snapshot.
func (l *Leaderboard) Replace(entries []protocol.LeaderboardEntry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = entries
}

// Entries returns a copy of the current snapshot in server order.
func (l *Leaderboard) Entries() []protocol.LeaderboardEntry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]protocol.LeaderboardEntry, len(l.entries))
	copy(out, l.entries)
	return out
}
