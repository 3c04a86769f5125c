package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"quiz-client/internal/protocol"
)

func TestSocketRoundTrip(t *testing.T) {
	joins := make(chan frame, 1)
	upgrader := websocket.Upgrader{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		defer conn.Close()

		var f frame
		if err := conn.ReadJSON(&f); err != nil {
			t.Errorf("server read: %v", err)
			return
		}
		joins <- f

		quiz := map[string]any{
			"id":        42,
			"questions": []map[string]any{{"content": "2+2?"}},
		}
		reply := map[string]any{"event": protocol.QuizData, "args": []any{quiz}}
		if err := conn.WriteJSON(reply); err != nil {
			t.Errorf("server write: %v", err)
		}
		// Hold the connection open until the client is done reading.
		_, _, _ = conn.ReadMessage()
	}))
	defer server.Close()

	socket, err := Dial(context.Background(), "ws"+server.URL[len("http"):])
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer socket.Close()

	quizzes := make(chan protocol.Quiz, 1)
	socket.On(protocol.QuizData, func(args []json.RawMessage) {
		var quiz protocol.Quiz
		if err := json.Unmarshal(args[0], &quiz); err != nil {
			t.Errorf("decode quiz: %v", err)
			return
		}
		quizzes <- quiz
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	listenDone := make(chan error, 1)
	go func() { listenDone <- socket.Listen(ctx) }()

	if err := socket.Emit(protocol.JoinQuiz, "alice", 42); err != nil {
		t.Fatalf("emit: %v", err)
	}

	select {
	case f := <-joins:
		if f.Event != protocol.JoinQuiz {
			t.Fatalf("expected join_quiz frame, got %s", f.Event)
		}
		if len(f.Args) != 2 || string(f.Args[0]) != `"alice"` || string(f.Args[1]) != "42" {
			t.Fatalf("unexpected join args: %v", f.Args)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("timed out waiting for join frame")
	}

	select {
	case quiz := <-quizzes:
		if quiz.ID.String() != "42" || len(quiz.Questions) != 1 {
			t.Fatalf("unexpected quiz payload: %+v", quiz)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("timed out waiting for quiz_data")
	}
}

func TestSocketOffRemovesHandler(t *testing.T) {
	socket := NewSocket(nil)

	called := false
	socket.On("ping", func(args []json.RawMessage) { called = true })
	socket.Off("ping")

	socket.mu.RLock()
	handler := socket.handlers["ping"]
	socket.mu.RUnlock()
	if handler != nil {
		t.Fatalf("expected handler removed")
	}
	if called {
		t.Fatalf("handler must not have run")
	}
}

func TestListenStopsOnContextCancel(t *testing.T) {
	upgrader := websocket.Upgrader{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		_, _, _ = conn.ReadMessage()
	}))
	defer server.Close()

	socket, err := Dial(context.Background(), "ws"+server.URL[len("http"):])
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer socket.Close()

	ctx, cancel := context.WithCancel(context.Background())
	listenDone := make(chan error, 1)
	go func() { listenDone <- socket.Listen(ctx) }()

	cancel()
	select {
	case err := <-listenDone:
		if err != context.Canceled {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("listen did not stop on cancel")
	}
}
