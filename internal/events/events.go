// Package events provides an in-process feed of call lifecycle events.
package events

import (
	"sync"
	"time"
)

// Kind identifies a call event.
type Kind string

const (
	CallStarted     Kind = "call_started"
	CallerUtterance Kind = "caller_utterance"
	AssistantReply  Kind = "assistant_reply"
	SilenceDetected Kind = "silence_detected"
	CallEnding      Kind = "call_ending"
	CallEnded       Kind = "call_ended"
)

// CallEvent is one entry in the feed.
type CallEvent struct {
	SessionRef string    `json:"session_ref"`
	Kind       Kind      `json:"kind"`
	Detail     string    `json:"detail,omitempty"`
	At         time.Time `json:"at"`
}

// Bus fans call events out to subscribers. Publishing never blocks; a
// subscriber that falls behind loses events rather than stalling a
// live call.
type Bus struct {
	mu   sync.Mutex
	subs map[chan CallEvent]struct{}
}

// NewBus creates an empty event bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[chan CallEvent]struct{})}
}

// Subscribe registers a new subscriber. The returned cancel function
// removes it and closes the channel.
func (b *Bus) Subscribe() (<-chan CallEvent, func()) {
	ch := make(chan CallEvent, 64)

	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()

	cancel := func() {
		b.mu.Lock()
		if _, ok := b.subs[ch]; ok {
			delete(b.subs, ch)
			close(ch)
		}
		b.mu.Unlock()
	}
	return ch, cancel
}

// Publish delivers the event to every subscriber with room for it.
func (b *Bus) Publish(ev CallEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for ch := range b.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}
