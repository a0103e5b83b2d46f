// Package domain holds the core data types shared across the voice agent.
package domain

// Role identifies who produced a transcript turn.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is a single entry in a conversation transcript.
type Turn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Transcript is the ordered chat history for one session. The first
// entry, when present, is the single system turn; user and assistant
// turns alternate after it.
type Transcript []Turn
