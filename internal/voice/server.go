package voice

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/sukanya1426/Voice-Agent/internal/domain"
)

// Protocol message types. The platform opens a websocket per call,
// sends a start event, then exchanges verbs and speech events until
// either side hangs up.
const (
	// platform -> application
	msgStart   = "start"
	msgSpeech  = "speech"
	msgSilence = "silence"
	msgError   = "error"
	msgHangup  = "hangup"

	// application -> platform
	msgAnswer = "answer"
	msgSay    = "say"
	msgGather = "gather"
)

// startDeadline bounds the wait for the start event after upgrade.
const startDeadline = 10 * time.Second

type message struct {
	Type          string            `json:"type"`
	Text          string            `json:"text,omitempty"`
	Reason        string            `json:"reason,omitempty"`
	TimeoutMs     int               `json:"timeout_ms,omitempty"`
	MaxSilenceMs  int               `json:"max_silence_ms,omitempty"`
	SessionRef    string            `json:"session_ref,omitempty"`
	CallerNumber  string            `json:"caller_number,omitempty"`
	IngressNumber string            `json:"ingress_number,omitempty"`
	Metadata      map[string]string `json:"metadata,omitempty"`
}

// Server accepts voice-application connections from the telephony
// platform and hands each call to the configured handler.
type Server struct {
	handler Handler
}

// NewServer creates a voice-application server.
func NewServer(handler Handler) *Server {
	return &Server{handler: handler}
}

// ServeHTTP implements http.Handler for the websocket upgrade.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ws, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		slog.Error("Failed to accept voice connection", "error", err, "remote", r.RemoteAddr)
		return
	}
	defer func() {
		if closeErr := ws.Close(websocket.StatusNormalClosure, "call ended"); closeErr != nil {
			slog.Debug("Voice connection close", "error", closeErr)
		}
	}()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	info, err := readStart(ctx, ws)
	if err != nil {
		slog.Error("Voice connection rejected", "error", err, "remote", r.RemoteAddr)
		return
	}

	call := &wsCall{conn: ws, events: make(chan message, 16)}
	go call.readPump(ctx, cancel)

	slog.Info("New call",
		"session_ref", info.SessionRef,
		"caller", info.CallerNumber,
		"ingress", info.IngressNumber)

	s.handler(ctx, info, call)
}

func readStart(ctx context.Context, ws *websocket.Conn) (*domain.CallInfo, error) {
	ctx, cancel := context.WithTimeout(ctx, startDeadline)
	defer cancel()

	var m message
	if err := wsjson.Read(ctx, ws, &m); err != nil {
		return nil, fmt.Errorf("read start event: %w", err)
	}
	if m.Type != msgStart {
		return nil, fmt.Errorf("expected start event, got %q", m.Type)
	}
	if m.SessionRef == "" {
		return nil, fmt.Errorf("start event missing session_ref")
	}
	return &domain.CallInfo{
		SessionRef:    m.SessionRef,
		CallerNumber:  m.CallerNumber,
		IngressNumber: m.IngressNumber,
		Metadata:      m.Metadata,
	}, nil
}

// wsCall implements Call over one websocket connection. Verbs are only
// invoked from the owning session goroutine; the write mutex protects
// against the final hangup racing a pump-triggered close.
type wsCall struct {
	conn    *websocket.Conn
	events  chan message
	writeMu sync.Mutex
}

// readPump forwards platform events to the gather channel and cancels
// the call context on hangup or connection loss. Events arriving while
// no gather is pending are dropped so the pump never stalls.
func (c *wsCall) readPump(ctx context.Context, cancel context.CancelFunc) {
	defer cancel()

	for {
		var m message
		if err := wsjson.Read(ctx, c.conn, &m); err != nil {
			slog.Debug("Voice read pump stopped", "error", err)
			return
		}
		switch m.Type {
		case msgSpeech, msgSilence, msgError:
			select {
			case c.events <- m:
			default:
			}
		case msgHangup:
			return
		default:
			slog.Debug("Ignoring unexpected voice event", "type", m.Type)
		}
	}
}

func (c *wsCall) write(ctx context.Context, m message) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if err := wsjson.Write(ctx, c.conn, m); err != nil {
		return fmt.Errorf("send %s: %w", m.Type, err)
	}
	return nil
}

// Answer answers the call.
func (c *wsCall) Answer(ctx context.Context) error {
	return c.write(ctx, message{Type: msgAnswer})
}

// Say speaks the given text to the caller.
func (c *wsCall) Say(ctx context.Context, text string) error {
	return c.write(ctx, message{Type: msgSay, Text: text})
}

// Gather requests one speech capture and blocks until speech, the
// silence window, the hard timeout, or a recognition failure.
func (c *wsCall) Gather(ctx context.Context, opts GatherOptions) (GatherResult, error) {
	req := message{
		Type:         msgGather,
		TimeoutMs:    int(opts.Timeout / time.Millisecond),
		MaxSilenceMs: int(opts.MaxSilence / time.Millisecond),
	}
	if err := c.write(ctx, req); err != nil {
		return GatherResult{}, err
	}

	timer := time.NewTimer(opts.Timeout)
	defer timer.Stop()

	select {
	case m := <-c.events:
		switch m.Type {
		case msgSpeech:
			if strings.TrimSpace(m.Text) == "" {
				return GatherResult{Kind: GatherSilence}, nil
			}
			return GatherResult{Kind: GatherRecognized, Speech: m.Text}, nil
		case msgSilence:
			return GatherResult{Kind: GatherSilence}, nil
		default:
			return GatherResult{Kind: GatherFailed, Reason: m.Reason}, nil
		}
	case <-timer.C:
		return GatherResult{Kind: GatherTimedOut}, nil
	case <-ctx.Done():
		return GatherResult{}, ctx.Err()
	}
}

// Hangup releases the call. Safe to invoke after the connection is
// already gone; the resulting write error is returned for logging.
func (c *wsCall) Hangup(ctx context.Context) error {
	return c.write(ctx, message{Type: msgHangup})
}
