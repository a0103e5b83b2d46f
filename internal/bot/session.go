package bot

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/sukanya1426/Voice-Agent/internal/domain"
	"github.com/sukanya1426/Voice-Agent/internal/events"
	"github.com/sukanya1426/Voice-Agent/internal/store"
	"github.com/sukanya1426/Voice-Agent/internal/voice"
)

// Silence policy: a session tolerates maxSilence consecutive
// non-productive gathers before saying goodbye. The gather timeout and
// silence window are independent of each other.
const (
	maxSilence    = 3
	gatherTimeout = 10 * time.Second
	silenceWindow = 3 * time.Second
)

// State of a call session.
type State int

const (
	StateListening State = iota
	StateTerminated
)

// DomainHandler consumes one utterance classified as a domain task and
// speaks whatever responses the task requires, including follow-up
// gathers.
type DomainHandler interface {
	Handle(ctx context.Context, call voice.Call, utterance string) error
}

// Session drives one phone call from greeting to teardown. It owns the
// session's transcript entry and is the only writer to it.
type Session struct {
	info    *domain.CallInfo
	variant Variant
	router  Router
	handler DomainHandler

	responder   *Responder
	transcripts store.TranscriptStore
	feed        *events.Bus

	state        State
	silenceCount int
	failureCount int

	cleanupOnce sync.Once
}

// NewSession creates the session for one call.
func NewSession(info *domain.CallInfo, variant Variant, handler DomainHandler, responder *Responder, transcripts store.TranscriptStore, feed *events.Bus) *Session {
	return &Session{
		info:        info,
		variant:     variant,
		router:      NewRouter(variant.DomainKeywords),
		handler:     handler,
		responder:   responder,
		transcripts: transcripts,
		feed:        feed,
		state:       StateListening,
	}
}

// State returns the session's current state.
func (s *Session) State() State {
	return s.state
}

// Run answers the call and drives the conversation loop until a
// termination utterance, an exhausted silence budget, cancellation or a
// session-fatal error. Teardown runs exactly once on every exit path.
func (s *Session) Run(ctx context.Context, call voice.Call) {
	defer s.cleanup(call)

	s.publish(events.CallStarted, "")

	if err := call.Answer(ctx); err != nil {
		slog.Error("Failed to answer call", "session_ref", s.info.SessionRef, "error", err)
		s.state = StateTerminated
		return
	}
	if err := call.Say(ctx, s.variant.Greeting); err != nil {
		slog.Error("Failed to speak greeting", "session_ref", s.info.SessionRef, "error", err)
		s.state = StateTerminated
		return
	}

	for s.state == StateListening {
		if ctx.Err() != nil {
			s.state = StateTerminated
			return
		}
		if err := s.step(ctx, call); err != nil {
			// Session-fatal: apologize, terminate, still clean up.
			slog.Error("Call loop error", "session_ref", s.info.SessionRef, "error", err)
			if ctx.Err() == nil {
				if sayErr := call.Say(ctx, s.variant.FatalApology); sayErr != nil {
					slog.Debug("Failed to speak fatal apology", "error", sayErr)
				}
			}
			s.state = StateTerminated
		}
	}
}

// step runs one iteration of the conversation loop.
func (s *Session) step(ctx context.Context, call voice.Call) error {
	result, err := call.Gather(ctx, voice.GatherOptions{
		Timeout:    gatherTimeout,
		MaxSilence: silenceWindow,
	})
	if err != nil {
		return err
	}

	switch result.Kind {
	case voice.GatherRecognized:
		return s.handleUtterance(ctx, call, result.Speech)
	case voice.GatherFailed:
		s.failureCount++
		slog.Warn("Gather failed",
			"session_ref", s.info.SessionRef,
			"reason", result.Reason,
			"failures", s.failureCount)
		return s.handleSilence(ctx, call, true)
	default: // GatherSilence, GatherTimedOut
		return s.handleSilence(ctx, call, false)
	}
}

func (s *Session) handleUtterance(ctx context.Context, call voice.Call, speech string) error {
	s.silenceCount = 0
	slog.Info("Caller said", "session_ref", s.info.SessionRef, "speech", speech)
	s.publish(events.CallerUtterance, speech)

	intent := s.router.Classify(speech)
	switch intent {
	case IntentTerminate:
		s.publish(events.CallEnding, "caller said goodbye")
		if err := call.Say(ctx, s.variant.Farewell); err != nil {
			return err
		}
		s.state = StateTerminated
		return nil
	case IntentDomainTask:
		return s.handler.Handle(ctx, call, speech)
	default:
		reply := s.responder.Respond(ctx, s.info.SessionRef, speech)
		slog.Info("Assistant reply", "session_ref", s.info.SessionRef, "reply", reply)
		s.publish(events.AssistantReply, reply)
		return call.Say(ctx, reply)
	}
}

// handleSilence consumes one unit of the silence budget. Reminders
// escalate: a gentle nudge first, a direct check second, nothing more
// before the farewell.
func (s *Session) handleSilence(ctx context.Context, call voice.Call, failed bool) error {
	s.silenceCount++
	slog.Info("Silence detected",
		"session_ref", s.info.SessionRef,
		"count", s.silenceCount,
		"max", maxSilence)
	s.publish(events.SilenceDetected, "")

	if s.silenceCount >= maxSilence {
		s.publish(events.CallEnding, "silence budget exhausted")
		if err := call.Say(ctx, s.variant.SilenceFarewell); err != nil {
			return err
		}
		s.state = StateTerminated
		return nil
	}

	if failed {
		return call.Say(ctx, "I didn't catch that. Could you please repeat?")
	}
	switch s.silenceCount {
	case 1:
		return call.Say(ctx, "I'm still here. How else can I help you?")
	case 2:
		return call.Say(ctx, "Are you still there? Please let me know how I can assist you.")
	}
	return nil
}

// cleanup purges the transcript and releases the call. Idempotent: the
// loop exit and an external cancellation may both reach it.
func (s *Session) cleanup(call voice.Call) {
	s.cleanupOnce.Do(func() {
		s.state = StateTerminated

		// The call context may already be cancelled; teardown gets its
		// own deadline.
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.transcripts.Delete(ctx, s.info.SessionRef)
		if err := call.Hangup(ctx); err != nil {
			slog.Debug("Hangup after call end", "session_ref", s.info.SessionRef, "error", err)
		}
		s.publish(events.CallEnded, "")
		slog.Info("Call ended",
			"session_ref", s.info.SessionRef,
			"silence_count", s.silenceCount,
			"gather_failures", s.failureCount)
	})
}

func (s *Session) publish(kind events.Kind, detail string) {
	if s.feed == nil {
		return
	}
	s.feed.Publish(events.CallEvent{
		SessionRef: s.info.SessionRef,
		Kind:       kind,
		Detail:     detail,
		At:         time.Now(),
	})
}
