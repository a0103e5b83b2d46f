package bot

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/sukanya1426/Voice-Agent/internal/domain"
	"github.com/sukanya1426/Voice-Agent/internal/store"
	"github.com/sukanya1426/Voice-Agent/internal/voice"
)

// scriptedCall plays back a fixed sequence of gather outcomes and
// records everything spoken. Shared by the session and handler tests.
type scriptedCall struct {
	gathers    []voice.GatherResult
	gatherErrs []error
	gatherIdx  int

	answered bool
	said     []string
	hangups  int

	sayErr error
}

func (c *scriptedCall) Answer(context.Context) error { c.answered = true; return nil }

func (c *scriptedCall) Say(_ context.Context, text string) error {
	if c.sayErr != nil {
		return c.sayErr
	}
	c.said = append(c.said, text)
	return nil
}

func (c *scriptedCall) Gather(context.Context, voice.GatherOptions) (voice.GatherResult, error) {
	if c.gatherIdx < len(c.gatherErrs) && c.gatherErrs[c.gatherIdx] != nil {
		err := c.gatherErrs[c.gatherIdx]
		c.gatherIdx++
		return voice.GatherResult{}, err
	}
	if c.gatherIdx >= len(c.gathers) {
		return voice.GatherResult{Kind: voice.GatherTimedOut}, nil
	}
	r := c.gathers[c.gatherIdx]
	c.gatherIdx++
	return r, nil
}

func (c *scriptedCall) Hangup(context.Context) error { c.hangups++; return nil }

func (c *scriptedCall) saidContaining(sub string) int {
	n := 0
	for _, s := range c.said {
		if strings.Contains(s, sub) {
			n++
		}
	}
	return n
}

// fixedCompleter returns a canned reply or error.
type fixedCompleter struct {
	reply string
	err   error
	calls int
	last  domain.Transcript
}

func (f *fixedCompleter) Complete(_ context.Context, transcript domain.Transcript) (string, error) {
	f.calls++
	f.last = transcript
	return f.reply, f.err
}

func speech(text string) voice.GatherResult {
	return voice.GatherResult{Kind: voice.GatherRecognized, Speech: text}
}

func silence() voice.GatherResult {
	return voice.GatherResult{Kind: voice.GatherSilence}
}

func newTestSession(t *testing.T, completer Completer) (*Session, *store.MemoryStore) {
	t.Helper()
	transcripts := store.NewMemory()
	variant := RestaurantVariant()
	responder := NewResponder(completer, transcripts, variant.SystemPrompt)
	checker := &fakeChecker{result: AvailabilityResult{Available: true, Message: "Confirmed."}}
	sess := NewSession(
		&domain.CallInfo{SessionRef: "call-1", CallerNumber: "+15550001111", IngressNumber: "+15550002222"},
		variant,
		NewReservationFlow(checker),
		responder,
		transcripts,
		nil,
	)
	return sess, transcripts
}

func TestSessionTerminatesOnGoodbye(t *testing.T) {
	call := &scriptedCall{gathers: []voice.GatherResult{speech("Goodbye now")}}
	sess, _ := newTestSession(t, &fixedCompleter{reply: "hi"})

	sess.Run(context.Background(), call)

	if !call.answered {
		t.Error("call was never answered")
	}
	if sess.State() != StateTerminated {
		t.Error("session should be terminated")
	}
	if got := call.saidContaining("Have a wonderful day"); got != 1 {
		t.Errorf("expected exactly one farewell, got %d", got)
	}
	if call.hangups != 1 {
		t.Errorf("expected exactly one hangup, got %d", call.hangups)
	}
}

func TestSessionSilenceBudget(t *testing.T) {
	call := &scriptedCall{gathers: []voice.GatherResult{silence(), silence(), silence()}}
	sess, transcripts := newTestSession(t, &fixedCompleter{reply: "hi"})

	sess.Run(context.Background(), call)

	if sess.State() != StateTerminated {
		t.Fatal("session should be terminated after exhausting the silence budget")
	}
	// Greeting, two escalating reminders, silence farewell.
	want := []string{
		"Thank you for calling The Salusbury! How can I help you today?",
		"I'm still here. How else can I help you?",
		"Are you still there? Please let me know how I can assist you.",
		"Thank you for calling The Salusbury. Goodbye!",
	}
	if len(call.said) != len(want) {
		t.Fatalf("expected %d spoken lines, got %d: %q", len(want), len(call.said), call.said)
	}
	for i := range want {
		if call.said[i] != want[i] {
			t.Errorf("line %d: got %q, want %q", i, call.said[i], want[i])
		}
	}
	if transcripts.Len() != 0 {
		t.Error("transcript should be purged on teardown")
	}
	if call.hangups != 1 {
		t.Errorf("expected exactly one hangup, got %d", call.hangups)
	}
}

func TestSessionSilenceCountResetsOnSpeech(t *testing.T) {
	call := &scriptedCall{gathers: []voice.GatherResult{
		silence(),
		silence(),
		speech("hello there"),
		silence(),
		silence(),
		silence(),
	}}
	sess, _ := newTestSession(t, &fixedCompleter{reply: "Hello! How can I help?"})

	sess.Run(context.Background(), call)

	// The reset means both reminder tiers are spoken twice before the
	// farewell ends the call.
	if got := call.saidContaining("I'm still here"); got != 2 {
		t.Errorf("expected gentle reminder twice, got %d", got)
	}
	if got := call.saidContaining("Are you still there?"); got != 2 {
		t.Errorf("expected direct check twice, got %d", got)
	}
	if got := call.saidContaining("Goodbye!"); got != 1 {
		t.Errorf("expected one silence farewell, got %d", got)
	}
}

func TestSessionGatherFailureSharesBudget(t *testing.T) {
	call := &scriptedCall{gathers: []voice.GatherResult{
		{Kind: voice.GatherFailed, Reason: "asr error"},
		silence(),
		silence(),
	}}
	sess, _ := newTestSession(t, &fixedCompleter{reply: "hi"})

	sess.Run(context.Background(), call)

	if sess.State() != StateTerminated {
		t.Fatal("session should terminate after three non-productive gathers")
	}
	if got := call.saidContaining("I didn't catch that"); got != 1 {
		t.Errorf("expected one repeat prompt for the failure, got %d", got)
	}
	if sess.failureCount != 1 {
		t.Errorf("expected failure counter 1, got %d", sess.failureCount)
	}
}

func TestSessionDispatchesDomainTask(t *testing.T) {
	call := &scriptedCall{gathers: []voice.GatherResult{
		speech("I want to book a table for 4 people tomorrow at 7pm"),
		speech("goodbye"),
	}}
	sess, _ := newTestSession(t, &fixedCompleter{reply: "hi"})

	sess.Run(context.Background(), call)

	if got := call.saidContaining("Let me check availability for 4 people on tomorrow at 7pm"); got != 1 {
		t.Errorf("expected availability confirmation, got said=%q", call.said)
	}
	if got := call.saidContaining("Confirmed."); got != 1 {
		t.Errorf("expected checker message spoken verbatim, got %d", got)
	}
}

func TestSessionGeneralChatGoesToResponder(t *testing.T) {
	completer := &fixedCompleter{reply: "We open at noon."}
	call := &scriptedCall{gathers: []voice.GatherResult{
		speech("what time do you open"),
		speech("bye"),
	}}
	sess, _ := newTestSession(t, completer)

	sess.Run(context.Background(), call)

	if completer.calls != 1 {
		t.Fatalf("expected one completion call, got %d", completer.calls)
	}
	if got := call.saidContaining("We open at noon."); got != 1 {
		t.Errorf("expected assistant reply spoken, got %d", got)
	}
}

func TestSessionFatalErrorStillCleansUp(t *testing.T) {
	call := &scriptedCall{
		gatherErrs: []error{errors.New("transport exploded")},
	}
	sess, transcripts := newTestSession(t, &fixedCompleter{reply: "hi"})
	transcripts.Put(context.Background(), "call-1", domain.Transcript{{Role: domain.RoleUser, Content: "hi"}})

	sess.Run(context.Background(), call)

	if sess.State() != StateTerminated {
		t.Error("session should be terminated after a fatal error")
	}
	if got := call.saidContaining("I apologize for the technical difficulty"); got != 1 {
		t.Errorf("expected fatal apology, got %d", got)
	}
	if transcripts.Len() != 0 {
		t.Error("transcript should be purged even on the fatal path")
	}
	if call.hangups != 1 {
		t.Errorf("expected exactly one hangup, got %d", call.hangups)
	}
}

func TestSessionCancellationRunsCleanupOnce(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	call := &scriptedCall{}
	sess, transcripts := newTestSession(t, &fixedCompleter{reply: "hi"})
	transcripts.Put(context.Background(), "call-1", domain.Transcript{{Role: domain.RoleUser, Content: "hi"}})

	sess.Run(ctx, call)

	// A second cleanup from another exit path must be a no-op.
	sess.cleanup(call)

	if call.hangups != 1 {
		t.Errorf("cleanup must be idempotent, got %d hangups", call.hangups)
	}
	if transcripts.Len() != 0 {
		t.Error("transcript should be purged on cancellation")
	}
	if sess.State() != StateTerminated {
		t.Error("cancelled session should be terminated")
	}
}
