package llm

import (
	"context"
	"errors"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	. "github.com/puentesglobales/careermastery/internal/logging"
)

// AnthropicProvider implements the Provider interface for Anthropic's Claude
// API. Routed to for the phases that need deep reasoning: situational
// questions, pressure rounds, closings and final reports.
type AnthropicProvider struct {
	name     string
	client   *anthropic.Client
	model    string
	timeout  time.Duration
	costTier string
	apiKey   string
}

// NewAnthropicProvider creates a Claude provider from its static descriptor.
// A missing API key is not an error here: the provider is built unavailable
// and the router skips it.
func NewAnthropicProvider(name string, cfg ProviderConfig) *AnthropicProvider {
	p := &AnthropicProvider{
		name:     name,
		model:    cfg.Model,
		timeout:  cfg.Timeout,
		costTier: cfg.CostTier,
		apiKey:   cfg.APIKey,
	}
	if cfg.APIKey != "" {
		opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
		if cfg.BaseURL != "" {
			opts = append(opts, option.WithBaseURL(cfg.BaseURL))
		}
		client := anthropic.NewClient(opts...)
		p.client = &client
	}
	return p
}

func (p *AnthropicProvider) Name() string     { return p.name }
func (p *AnthropicProvider) Type() string     { return "anthropic" }
func (p *AnthropicProvider) Model() string    { return p.model }
func (p *AnthropicProvider) CostTier() string { return p.costTier }

// IsAvailable returns true if an API key is configured.
func (p *AnthropicProvider) IsAvailable() bool {
	return p != nil && p.apiKey != ""
}

// Invoke sends one non-streaming chat turn to the Claude API.
func (p *AnthropicProvider) Invoke(ctx context.Context, userMessage, systemPrompt string, history []Message, opts *InvokeOptions) (string, error) {
	if !p.IsAvailable() {
		return "", &UnavailableError{Provider: p.name, Reason: "no API key"}
	}

	start := time.Now()

	full := make([]Message, 0, len(history)+1)
	full = append(full, history...)
	full = append(full, Message{Role: RoleUser, Content: userMessage})
	messages := formatHistoryForAnthropic(mergeConsecutiveRoles(full))

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(p.model),
		MaxTokens: 2048,
		Messages:  messages,
	}
	if systemPrompt != "" {
		params.System = []anthropic.TextBlockParam{{Text: systemPrompt}}
	}
	if opts != nil && opts.Temperature != nil {
		params.Temperature = anthropic.Float(*opts.Temperature)
	} else {
		params.Temperature = anthropic.Float(0.7)
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	L_debug("anthropic: sending request", "model", p.model, "messages", len(messages))

	msg, err := p.client.Messages.New(ctx, params)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || ctx.Err() == context.DeadlineExceeded {
			return "", &TimeoutError{Provider: p.name, Budget: p.timeout}
		}
		return "", &ProviderError{Provider: p.name, Err: err}
	}

	var text string
	for _, block := range msg.Content {
		switch variant := block.AsAny().(type) {
		case anthropic.TextBlock:
			text += variant.Text
		}
	}

	L_debug("anthropic: request completed", "duration", time.Since(start).Round(time.Millisecond), "responseChars", len(text))
	return text, nil
}

// formatHistoryForAnthropic enforces the Messages API alternation rules:
// the conversation must start with a user turn and strictly alternate.
// Consecutive same-role messages have already been merged by the caller;
// a leading assistant message gets a neutral user stub in front of it.
func formatHistoryForAnthropic(history []Message) []anthropic.MessageParam {
	result := make([]anthropic.MessageParam, 0, len(history)+1)

	if len(history) > 0 && history[0].Role != RoleUser {
		result = append(result, anthropic.NewUserMessage(anthropic.NewTextBlock("[Session start]")))
	}
	for _, msg := range history {
		if msg.Role == RoleUser {
			result = append(result, anthropic.NewUserMessage(anthropic.NewTextBlock(msg.Content)))
		} else {
			result = append(result, anthropic.NewAssistantMessage(anthropic.NewTextBlock(msg.Content)))
		}
	}
	return result
}
