// Package llm provides unified LLM provider adapters and the fallback router.
package llm

import (
	"context"
)

// Provider is the unified interface for all LLM backends.
// Implementations: GeminiProvider, AnthropicProvider, DeepSeekProvider, OpenAIProvider
type Provider interface {
	// Identity
	Name() string     // Provider instance name (e.g., "gemini", "claude")
	Type() string     // Provider type (e.g., "gemini", "anthropic", "openai")
	Model() string    // Configured model name
	CostTier() string // "FREE", "LOW", "MEDIUM", "PAID"

	// Availability. False when no credential is configured; the router skips
	// unavailable providers without counting a failed attempt.
	IsAvailable() bool

	// Invoke sends one chat turn and returns the response text.
	// The adapter translates history into the provider's role/alternation
	// rules, enforces its configured wall-clock timeout, and extracts plain
	// text. It never retries internally; retries belong to the router.
	Invoke(ctx context.Context, userMessage, systemPrompt string, history []Message, opts *InvokeOptions) (string, error)
}

// Message represents a conversation message (provider-agnostic).
type Message struct {
	Role    string `json:"role"` // "user" or "assistant"
	Content string `json:"content"`
}

// InvokeOptions contains optional parameters for Invoke.
type InvokeOptions struct {
	// Temperature overrides the provider's default sampling temperature.
	Temperature *float64

	// JSONMode requests structured JSON output from providers that support
	// a response-format hint. Providers without the hint ignore it; callers
	// still run responses through the repair parser.
	JSONMode bool
}

// RoleUser and RoleAssistant are the only roles the core deals in.
// System content travels separately as the systemPrompt argument.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// mergeConsecutiveRoles collapses runs of same-role messages by concatenating
// their content with a newline separator. Providers with strict user/assistant
// alternation (Anthropic) require this; merging keeps content, dropping loses it.
func mergeConsecutiveRoles(history []Message) []Message {
	if len(history) == 0 {
		return nil
	}
	merged := make([]Message, 0, len(history))
	for _, msg := range history {
		if n := len(merged); n > 0 && merged[n-1].Role == msg.Role {
			merged[n-1].Content += "\n" + msg.Content
			continue
		}
		merged = append(merged, msg)
	}
	return merged
}
