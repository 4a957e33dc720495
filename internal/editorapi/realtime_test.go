package editorapi_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"golang.org/x/net/websocket"

	"agentflow/internal/editorapi"
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func newCaptureLogger() (*slog.Logger, *syncBuffer) {
	buf := &syncBuffer{}
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})), buf
}

func waitDone(t *testing.T, sub *editorapi.Subscription) {
	t.Helper()
	select {
	case <-sub.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("subscription did not finish")
	}
}

func TestWebSocketURLReplacesFirstHTTP(t *testing.T) {
	cases := map[string]string{
		"http://h":          "ws://h/api/editor/ws/7",
		"https://h":         "wss://h/api/editor/ws/7",
		"http://http.local": "ws://http.local/api/editor/ws/7",
	}
	for base, want := range cases {
		if got := editorapi.New(base).WebSocketURL("7"); got != want {
			t.Errorf("base %q: got %q want %q", base, got, want)
		}
	}
}

func TestConnectDeliversDecodedEventsInOrder(t *testing.T) {
	paths := make(chan string, 1)
	server := httptest.NewServer(websocket.Handler(func(ws *websocket.Conn) {
		paths <- ws.Request().URL.Path
		_ = websocket.Message.Send(ws, `{"type":"render_progress","render_id":"r1","progress":25}`)
		_ = websocket.Message.Send(ws, `not json`)
		_ = websocket.Message.Send(ws, `{"type":"render_complete","render_id":"r1","status":"completed","progress":100}`)
		var discard string
		for websocket.Message.Receive(ws, &discard) == nil {
		}
	}))
	t.Cleanup(server.Close)

	logger, logs := newCaptureLogger()
	client := editorapi.New(server.URL, editorapi.WithLogger(logger))

	events := make(chan editorapi.Event, 4)
	sub := client.Connect(context.Background(), "p1", func(e editorapi.Event) { events <- e })
	if sub.URL() != strings.Replace(server.URL, "http", "ws", 1)+"/api/editor/ws/p1" {
		t.Fatalf("unexpected subscription url %q", sub.URL())
	}

	var received []editorapi.Event
	for len(received) < 2 {
		select {
		case e := <-events:
			received = append(received, e)
		case <-time.After(5 * time.Second):
			t.Fatalf("timed out waiting for events, got %d", len(received))
		}
	}
	if sub.State() != editorapi.StateOpen {
		t.Fatalf("expected open subscription, got %s", sub.State())
	}
	if err := sub.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	waitDone(t, sub)

	if received[0].Type != "render_progress" || received[0].Progress != 25 {
		t.Fatalf("unexpected first event %+v", received[0])
	}
	if received[1].Type != "render_complete" || received[1].Status != "completed" || received[1].RenderID != "r1" {
		t.Fatalf("unexpected second event %+v", received[1])
	}
	if string(received[1].Raw) != `{"type":"render_complete","render_id":"r1","status":"completed","progress":100}` {
		t.Fatalf("expected verbatim raw event, got %s", received[1].Raw)
	}
	if got := <-paths; got != "/api/editor/ws/p1" {
		t.Fatalf("unexpected socket path %q", got)
	}
	if !strings.Contains(logs.String(), "websocket message discarded") {
		t.Fatalf("expected malformed frame to be logged, logs: %s", logs.String())
	}
	if sub.State() != editorapi.StateClosed {
		t.Fatalf("expected closed state, got %s", sub.State())
	}
}

func TestConnectDeliversEveryValidJSONFrame(t *testing.T) {
	frames := []string{`"ping"`, `[1,2]`, `not json`, `{"type":"progress","progress":"50"}`, `{"type":"ok"}`}
	server := httptest.NewServer(websocket.Handler(func(ws *websocket.Conn) {
		for _, frame := range frames {
			_ = websocket.Message.Send(ws, frame)
		}
		var discard string
		for websocket.Message.Receive(ws, &discard) == nil {
		}
	}))
	t.Cleanup(server.Close)

	logger, logs := newCaptureLogger()
	client := editorapi.New(server.URL, editorapi.WithLogger(logger))

	events := make(chan editorapi.Event, len(frames))
	sub := client.Connect(context.Background(), "p1", func(e editorapi.Event) { events <- e })
	t.Cleanup(func() { _ = sub.Close() })

	want := []string{`"ping"`, `[1,2]`, `{"type":"progress","progress":"50"}`, `{"type":"ok"}`}
	var received []editorapi.Event
	for len(received) < len(want) {
		select {
		case e := <-events:
			received = append(received, e)
		case <-time.After(5 * time.Second):
			t.Fatalf("timed out waiting for events, got %d", len(received))
		}
	}
	for i, raw := range want {
		if string(received[i].Raw) != raw {
			t.Fatalf("event %d: got raw %s want %s", i, received[i].Raw, raw)
		}
	}
	if received[0].Type != "" || received[1].Type != "" {
		t.Fatalf("non-object frames must leave typed fields empty: %+v %+v", received[0], received[1])
	}
	if received[2].Type != "progress" || received[2].Progress != 50 {
		t.Fatalf("unexpected progress event %+v", received[2])
	}
	if received[3].Type != "ok" {
		t.Fatalf("unexpected last event %+v", received[3])
	}
	if got := strings.Count(logs.String(), "websocket message discarded"); got != 1 {
		t.Fatalf("expected exactly one discarded frame, got %d, logs: %s", got, logs.String())
	}
}

func TestConnectErrorIsLoggedNotDelivered(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no socket here", http.StatusNotFound)
	}))
	t.Cleanup(server.Close)

	logger, logs := newCaptureLogger()
	client := editorapi.New(server.URL, editorapi.WithLogger(logger))

	called := make(chan struct{}, 1)
	sub := client.Connect(context.Background(), "p1", func(editorapi.Event) { called <- struct{}{} })
	waitDone(t, sub)

	select {
	case <-called:
		t.Fatal("callback must not run when the connection fails")
	default:
	}
	if sub.State() != editorapi.StateClosed {
		t.Fatalf("expected closed state, got %s", sub.State())
	}
	if !strings.Contains(logs.String(), "websocket error") {
		t.Fatalf("expected connection error to be logged, logs: %s", logs.String())
	}
	if err := sub.Send(context.Background(), map[string]string{"type": "ping"}); !errors.Is(err, editorapi.ErrNotConnected) {
		t.Fatalf("expected ErrNotConnected, got %v", err)
	}
}

func TestConnectUsesInjectedDialer(t *testing.T) {
	errDial := errors.New("dial refused")
	var dialed string
	logger, logs := newCaptureLogger()
	client := editorapi.New("https://editor.test",
		editorapi.WithLogger(logger),
		editorapi.WithDialer(func(_ context.Context, cfg *websocket.Config) (*websocket.Conn, error) {
			dialed = cfg.Location.String()
			return nil, errDial
		}),
	)

	sub := client.Connect(context.Background(), "9", nil)
	waitDone(t, sub)

	if dialed != "wss://editor.test/api/editor/ws/9" {
		t.Fatalf("unexpected dial target %q", dialed)
	}
	if !strings.Contains(logs.String(), "dial refused") {
		t.Fatalf("expected dial error in logs, got %s", logs.String())
	}
}

func TestCloseAbortsPendingDialQuietly(t *testing.T) {
	dialing := make(chan struct{})
	logger, logs := newCaptureLogger()
	client := editorapi.New("http://editor.test",
		editorapi.WithLogger(logger),
		editorapi.WithDialer(func(ctx context.Context, _ *websocket.Config) (*websocket.Conn, error) {
			close(dialing)
			<-ctx.Done()
			return nil, ctx.Err()
		}),
	)

	sub := client.Connect(context.Background(), "1", nil)
	if sub.State() == editorapi.StateOpen {
		t.Fatal("subscription must not be open before dialing completes")
	}
	<-dialing
	_ = sub.Close()
	_ = sub.Close()
	waitDone(t, sub)

	if strings.Contains(logs.String(), "websocket error") {
		t.Fatalf("cancelled dial must not be reported as an error, logs: %s", logs.String())
	}
}

func TestSubscriptionSendReachesServer(t *testing.T) {
	received := make(chan string, 1)
	server := httptest.NewServer(websocket.Handler(func(ws *websocket.Conn) {
		_ = websocket.Message.Send(ws, `{"type":"hello"}`)
		var msg string
		if err := websocket.Message.Receive(ws, &msg); err == nil {
			received <- msg
		}
		for websocket.Message.Receive(ws, &msg) == nil {
		}
	}))
	t.Cleanup(server.Close)

	logger, _ := newCaptureLogger()
	client := editorapi.New(server.URL, editorapi.WithLogger(logger))

	hello := make(chan struct{}, 1)
	sub := client.Connect(context.Background(), "p1", func(e editorapi.Event) {
		if e.Type == "hello" {
			hello <- struct{}{}
		}
	})
	t.Cleanup(func() { _ = sub.Close() })

	select {
	case <-hello:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for hello")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := sub.Send(ctx, map[string]string{"type": "subscribe"}); err != nil {
		t.Fatalf("Send: %v", err)
	}

	select {
	case msg := <-received:
		if strings.TrimSpace(msg) != `{"type":"subscribe"}` {
			t.Fatalf("unexpected frame %q", msg)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not receive frame")
	}
}

func TestCancellingContextClosesSubscription(t *testing.T) {
	server := httptest.NewServer(websocket.Handler(func(ws *websocket.Conn) {
		_ = websocket.Message.Send(ws, `{"type":"hello"}`)
		var msg string
		for websocket.Message.Receive(ws, &msg) == nil {
		}
	}))
	t.Cleanup(server.Close)

	logger, logs := newCaptureLogger()
	client := editorapi.New(server.URL, editorapi.WithLogger(logger))

	ctx, cancel := context.WithCancel(context.Background())
	hello := make(chan struct{}, 1)
	sub := client.Connect(ctx, "p1", func(editorapi.Event) { hello <- struct{}{} })

	select {
	case <-hello:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for hello")
	}
	cancel()
	waitDone(t, sub)

	if strings.Contains(logs.String(), "websocket error") {
		t.Fatalf("cancellation must not be logged as an error, logs: %s", logs.String())
	}
}
