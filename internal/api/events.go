package api

import (
	"log/slog"
	"net/http"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/sukanya1426/Voice-Agent/internal/events"
)

// EventsHandler streams live call events to monitoring clients over a
// websocket.
type EventsHandler struct {
	bus *events.Bus
}

// NewEventsHandler creates the call-event feed handler.
func NewEventsHandler(bus *events.Bus) *EventsHandler {
	return &EventsHandler{bus: bus}
}

// ServeHTTP implements http.Handler for the websocket upgrade.
func (h *EventsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ws, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		slog.Error("Failed to accept event feed connection", "error", err, "remote", r.RemoteAddr)
		return
	}
	defer func() {
		if closeErr := ws.Close(websocket.StatusNormalClosure, "feed closed"); closeErr != nil {
			slog.Debug("Event feed close", "error", closeErr)
		}
	}()

	feed, cancel := h.bus.Subscribe()
	defer cancel()

	ctx := r.Context()
	slog.Info("Event feed subscriber connected", "remote", r.RemoteAddr)

	for {
		select {
		case ev, ok := <-feed:
			if !ok {
				return
			}
			if err := wsjson.Write(ctx, ws, ev); err != nil {
				slog.Debug("Event feed write failed", "error", err)
				return
			}
		case <-ctx.Done():
			return
		}
	}
}
