package bot

import (
	"context"
	"fmt"
	"log/slog"

	openai "github.com/sashabaranov/go-openai"

	"github.com/sukanya1426/Voice-Agent/internal/config"
	"github.com/sukanya1426/Voice-Agent/internal/domain"
	"github.com/sukanya1426/Voice-Agent/internal/store"
)

const chatApology = "I apologize, I'm having technical difficulties. Please try again or call us back."

// Completer sends one transcript to the chat-completion service and
// returns the assistant's reply.
type Completer interface {
	Complete(ctx context.Context, transcript domain.Transcript) (string, error)
}

// OpenAICompleter implements Completer against OpenAI or any
// OpenAI-compatible endpoint (the production deployment uses Cerebras
// through a base URL override).
type OpenAICompleter struct {
	client      *openai.Client
	model       string
	maxTokens   int
	temperature float32
}

// NewOpenAICompleter creates a completer from chat configuration.
func NewOpenAICompleter(cfg config.ChatConfig) *OpenAICompleter {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}
	return &OpenAICompleter{
		client:      openai.NewClientWithConfig(clientConfig),
		model:       cfg.Model,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
	}
}

// Complete sends the full transcript and returns the assistant reply.
func (c *OpenAICompleter) Complete(ctx context.Context, transcript domain.Transcript) (string, error) {
	messages := make([]openai.ChatCompletionMessage, 0, len(transcript))
	for _, turn := range transcript {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    string(turn.Role),
			Content: turn.Content,
		})
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    messages,
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

// Responder maintains per-session transcripts and answers general chat
// through the completion service.
type Responder struct {
	completer    Completer
	transcripts  store.TranscriptStore
	systemPrompt func() string
}

// NewResponder creates a responder. systemPrompt is evaluated lazily on
// each session's first turn so it can embed the current time.
func NewResponder(completer Completer, transcripts store.TranscriptStore, systemPrompt func() string) *Responder {
	return &Responder{
		completer:    completer,
		transcripts:  transcripts,
		systemPrompt: systemPrompt,
	}
}

// Respond appends the utterance to the session transcript, obtains a
// completion and persists the assistant turn. On upstream failure the
// transcript is left exactly as it was and a fixed apology is returned.
func (r *Responder) Respond(ctx context.Context, sessionRef, utterance string) string {
	transcript, ok := r.transcripts.Get(ctx, sessionRef)
	if !ok || len(transcript) == 0 {
		transcript = domain.Transcript{{Role: domain.RoleSystem, Content: r.systemPrompt()}}
	}

	attempt := append(transcript, domain.Turn{Role: domain.RoleUser, Content: utterance})

	reply, err := r.completer.Complete(ctx, attempt)
	if err != nil {
		slog.Error("Chat completion failed", "session_ref", sessionRef, "error", err)
		return chatApology
	}

	attempt = append(attempt, domain.Turn{Role: domain.RoleAssistant, Content: reply})
	r.transcripts.Put(ctx, sessionRef, attempt)
	return reply
}
