// Package store provides transcript persistence for active sessions.
package store

import (
	"context"

	"github.com/sukanya1426/Voice-Agent/internal/domain"
)

// TranscriptStore keeps the conversation transcript for each live
// session, keyed by session ref. Each entry has exactly one writer: the
// session that owns it.
type TranscriptStore interface {
	// Get retrieves the transcript for a session. The second return is
	// false if no transcript exists.
	Get(ctx context.Context, sessionRef string) (domain.Transcript, bool)

	// Put replaces the transcript for a session, creating it if needed.
	Put(ctx context.Context, sessionRef string, transcript domain.Transcript)

	// Delete removes the transcript for a session. Deleting an absent
	// entry is a no-op.
	Delete(ctx context.Context, sessionRef string)

	// Len returns the number of stored transcripts.
	Len() int
}
