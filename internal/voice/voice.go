// Package voice defines the telephony boundary: the verbs a call
// exposes to the application and the transport that delivers calls.
package voice

import (
	"context"
	"time"

	"github.com/sukanya1426/Voice-Agent/internal/domain"
)

// GatherKind discriminates the outcome of a speech gather.
type GatherKind int

const (
	// GatherRecognized means the caller produced speech.
	GatherRecognized GatherKind = iota
	// GatherTimedOut means the hard gather timeout elapsed.
	GatherTimedOut
	// GatherSilence means the silence window elapsed without speech.
	GatherSilence
	// GatherFailed means recognition or transport failed.
	GatherFailed
)

func (k GatherKind) String() string {
	switch k {
	case GatherRecognized:
		return "recognized"
	case GatherTimedOut:
		return "timed_out"
	case GatherSilence:
		return "silence"
	case GatherFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// GatherResult is the outcome of one gather attempt.
type GatherResult struct {
	Kind   GatherKind
	Speech string // set when Kind == GatherRecognized
	Reason string // set when Kind == GatherFailed
}

// GatherOptions control one gather attempt. Timeout is the hard limit
// on the whole attempt; MaxSilence is the window of caller silence the
// platform tolerates before giving up.
type GatherOptions struct {
	Timeout    time.Duration
	MaxSilence time.Duration
}

// Call is one live phone call. All verbs block until the platform
// acknowledges or the context is cancelled. A cancelled context means
// the underlying call is gone.
type Call interface {
	Answer(ctx context.Context) error
	Say(ctx context.Context, text string) error
	Gather(ctx context.Context, opts GatherOptions) (GatherResult, error)
	Hangup(ctx context.Context) error
}

// Handler is invoked once per inbound call, on its own goroutine. The
// context is cancelled when the platform drops the connection.
type Handler func(ctx context.Context, info *domain.CallInfo, call Call)
