// Package bot implements the voice-call conversation loop: intent
// routing, the domain task handlers, the chat responder and the
// per-call session state machine.
package bot

import "strings"

// Intent is the classification of one caller utterance.
type Intent int

const (
	// IntentGeneralChat routes the utterance to the chat responder.
	IntentGeneralChat Intent = iota
	// IntentTerminate ends the call.
	IntentTerminate
	// IntentDomainTask routes the utterance to the variant's domain handler.
	IntentDomainTask
)

func (i Intent) String() string {
	switch i {
	case IntentTerminate:
		return "terminate"
	case IntentDomainTask:
		return "domain_task"
	default:
		return "general_chat"
	}
}

// Termination phrases end the call regardless of anything else in the
// utterance, so they are checked first.
var terminationKeywords = []string{"goodbye", "thank you", "bye"}

// Router classifies utterances with ordered, case-insensitive substring
// rules. It is deterministic; the keyword set for domain tasks depends
// on the deployed variant.
type Router struct {
	domainKeywords []string
}

// NewRouter creates a router with the variant's domain keyword set.
func NewRouter(domainKeywords []string) Router {
	return Router{domainKeywords: domainKeywords}
}

// Classify returns the intent of the utterance. First match wins:
// termination, then domain keywords, then general chat.
func (r Router) Classify(utterance string) Intent {
	lower := strings.ToLower(utterance)

	for _, kw := range terminationKeywords {
		if strings.Contains(lower, kw) {
			return IntentTerminate
		}
	}
	for _, kw := range r.domainKeywords {
		if strings.Contains(lower, kw) {
			return IntentDomainTask
		}
	}
	return IntentGeneralChat
}
