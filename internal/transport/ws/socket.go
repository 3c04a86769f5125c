// Package ws adapts a gorilla websocket connection into the named-event
// socket the quiz client expects. Frames are JSON objects carrying an
// event name and positional arguments.
package ws

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

type frame struct {
	Event string            `json:"event"`
	Args  []json.RawMessage `json:"args"`
}

// Socket is a bidirectional event channel over one websocket
// connection. Writes are serialized; reads happen on the Listen
// goroutine, which dispatches handlers in delivery order.
type Socket struct {
	conn *websocket.Conn
	log  zerolog.Logger

	writeMu sync.Mutex

	mu       sync.RWMutex
	handlers map[string]func(args []json.RawMessage)
}

// Dial connects to a quiz server websocket endpoint.
func Dial(ctx context.Context, url string) (*Socket, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", url, err)
	}
	return NewSocket(conn), nil
}

// NewSocket wraps an already-established connection.
func NewSocket(conn *websocket.Conn) *Socket {
	return &Socket{
		conn:     conn,
		log:      zerolog.Nop(),
		handlers: make(map[string]func(args []json.RawMessage)),
	}
}

// WithLogger attaches a structured logger and returns the socket.
func (s *Socket) WithLogger(log zerolog.Logger) *Socket {
	s.log = log
	return s
}

// Emit sends a named event with positional arguments.
func (s *Socket) Emit(event string, args ...any) error {
	raw := make([]json.RawMessage, 0, len(args))
	for _, arg := range args {
		b, err := json.Marshal(arg)
		if err != nil {
			return fmt.Errorf("encode %s argument: %w", event, err)
		}
		raw = append(raw, b)
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if err := s.conn.WriteJSON(frame{Event: event, Args: raw}); err != nil {
		return fmt.Errorf("emit %s: %w", event, err)
	}
	return nil
}

// On registers the handler for a named event, replacing any previous
// one.
func (s *Socket) On(event string, handler func(args []json.RawMessage)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers[event] = handler
}

// Off removes the handler for a named event.
func (s *Socket) Off(event string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.handlers, event)
}

// Listen reads frames until the connection closes or ctx is cancelled.
// Handlers run on this goroutine, so events are never reordered. A
// server-initiated close returns nil; cancellation returns ctx's error.
func (s *Socket) Listen(ctx context.Context) error {
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = s.conn.Close()
		case <-done:
		}
	}()

	for {
		var f frame
		if err := s.conn.ReadJSON(&f); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.log.Info().Msg("server closed the connection")
				return nil
			}
			return fmt.Errorf("read frame: %w", err)
		}

		s.mu.RLock()
		handler := s.handlers[f.Event]
		s.mu.RUnlock()
		if handler == nil {
			s.log.Debug().Str("event", f.Event).Msg("no handler for event")
			continue
		}
		handler(f.Args)
	}
}

// Close tears the underlying connection down.
func (s *Socket) Close() error {
	return s.conn.Close()
}
