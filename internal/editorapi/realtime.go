package editorapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/net/websocket"

	"agentflow/internal/logging"
)

// SubscriptionState is the lifecycle position of a Subscription.
type SubscriptionState int32

const (
	StateConnecting SubscriptionState = iota
	StateOpen
	StateClosed
)

func (s SubscriptionState) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateOpen:
		return "open"
	default:
		return "closed"
	}
}

// EventHandler receives each decoded inbound message, one at a time and in
// arrival order, on the subscription's read goroutine.
type EventHandler func(Event)

// Subscription is a live real-time channel for one project. It never
// reconnects; once closed it stays closed.
type Subscription struct {
	url    string
	logger *slog.Logger
	cancel context.CancelFunc
	done   chan struct{}
	state  atomic.Int32

	mu   sync.Mutex
	conn *websocket.Conn
}

// WebSocketURL returns the real-time endpoint for a project. The scheme comes
// from replacing the first "http" in the base URL with "ws", so https becomes
// wss.
func (c *Client) WebSocketURL(id ProjectID) string {
	return strings.Replace(c.baseURL, "http", "ws", 1) + "/api/editor/ws/" + escapeID(string(id))
}

// Connect opens the project's real-time channel and returns immediately with
// the subscription in the connecting state. onEvent is called for every
// message that decodes as JSON. Dial failures, read failures and malformed
// messages are logged and never reach onEvent or the caller. Cancelling ctx or
// calling Close tears the connection down.
func (c *Client) Connect(ctx context.Context, id ProjectID, onEvent EventHandler) *Subscription {
	ctx, cancel := context.WithCancel(ctx)
	sub := &Subscription{
		url:    c.WebSocketURL(id),
		logger: c.logger.With(logging.String(logging.FieldProjectID, string(id))),
		cancel: cancel,
		done:   make(chan struct{}),
	}
	sub.state.Store(int32(StateConnecting))
	go sub.run(ctx, c.dial, c.baseURL, c.userAgent, onEvent)
	return sub
}

// URL is the address the subscription dials.
func (s *Subscription) URL() string {
	return s.url
}

// State reports the current lifecycle state.
func (s *Subscription) State() SubscriptionState {
	return SubscriptionState(s.state.Load())
}

// Done is closed once the read loop has exited and no further events will be
// delivered.
func (s *Subscription) Done() <-chan struct{} {
	return s.done
}

// Close shuts the channel down, aborting a dial still in flight. It is safe to
// call more than once.
func (s *Subscription) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancel()
	s.state.Store(int32(StateClosed))
	return nil
}

// Send writes v as one JSON text frame. A deadline on ctx bounds the write.
func (s *Subscription) Send(ctx context.Context, v any) error {
	s.mu.Lock()
	conn := s.conn
	open := s.State() == StateOpen
	s.mu.Unlock()
	if conn == nil || !open {
		return ErrNotConnected
	}
	if deadline, ok := ctx.Deadline(); ok {
		if err := conn.SetWriteDeadline(deadline); err != nil {
			return err
		}
		defer conn.SetWriteDeadline(time.Time{}) //nolint:errcheck
	}
	return websocket.JSON.Send(conn, v)
}

func (s *Subscription) attach(ctx context.Context, conn *websocket.Conn) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ctx.Err() != nil {
		return false
	}
	s.conn = conn
	s.state.Store(int32(StateOpen))
	return true
}

func (s *Subscription) run(ctx context.Context, dial Dialer, origin, userAgent string, onEvent EventHandler) {
	defer close(s.done)
	defer s.state.Store(int32(StateClosed))

	cfg, err := websocket.NewConfig(s.url, origin)
	if err != nil {
		s.logger.Error("websocket error", logging.String("url", s.url), logging.Error(err))
		return
	}
	if userAgent != "" {
		cfg.Header.Set("User-Agent", userAgent)
	}

	conn, err := dial(ctx, cfg)
	if err != nil {
		if ctx.Err() == nil {
			s.logger.Error("websocket error", logging.String("url", s.url), logging.Error(err))
		}
		return
	}
	if !s.attach(ctx, conn) {
		_ = conn.Close()
		return
	}
	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer func() {
		if stop() {
			_ = conn.Close()
		}
	}()

	s.logger.Debug("websocket connected", logging.String("url", s.url))
	for {
		var frame []byte
		if err := websocket.Message.Receive(conn, &frame); err != nil {
			switch {
			case ctx.Err() != nil:
			case errors.Is(err, io.EOF):
				s.logger.Debug("websocket closed by server", logging.String("url", s.url))
			default:
				s.logger.Error("websocket error", logging.String("url", s.url), logging.Error(err))
			}
			return
		}
		if !json.Valid(frame) {
			s.logger.Warn("websocket message discarded",
				logging.String("url", s.url),
				logging.String(logging.FieldErrorHint, "message was not valid JSON"),
				logging.Int("bytes", len(frame)),
			)
			continue
		}
		var event Event
		_ = json.Unmarshal(frame, &event)
		if onEvent != nil {
			onEvent(event)
		}
	}
}
