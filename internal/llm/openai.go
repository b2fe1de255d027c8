package llm

import (
	"context"
	"errors"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	. "github.com/puentesglobales/careermastery/internal/logging"
)

// OpenAIProvider implements the Provider interface for the OpenAI chat
// completions API and any compatible service reachable via BaseURL.
// DeepSeek reuses this adapter with its own endpoint, see NewDeepSeekProvider.
type OpenAIProvider struct {
	name        string
	client      *openai.Client
	model       string
	timeout     time.Duration
	costTier    string
	apiKey      string
	maxTokens   int
	defaultTemp float64
}

// NewOpenAIProvider creates an OpenAI-compatible provider from its static
// descriptor. Without an API key the provider is built unavailable and the
// router skips it.
func NewOpenAIProvider(name string, cfg ProviderConfig) *OpenAIProvider {
	p := &OpenAIProvider{
		name:        name,
		model:       cfg.Model,
		timeout:     cfg.Timeout,
		costTier:    cfg.CostTier,
		apiKey:      cfg.APIKey,
		maxTokens:   1000,
		defaultTemp: 0.7,
	}
	if cfg.APIKey != "" {
		config := openai.DefaultConfig(cfg.APIKey)
		if cfg.BaseURL != "" {
			baseURL := strings.TrimSuffix(cfg.BaseURL, "/")
			if !strings.HasSuffix(baseURL, "/v1") {
				baseURL += "/v1"
			}
			config.BaseURL = baseURL
		}
		p.client = openai.NewClientWithConfig(config)
	}
	return p
}

// NewDeepSeekProvider creates a DeepSeek provider on the OpenAI-compatible
// adapter. DeepSeek recommends temperature 1.0 for general conversation.
func NewDeepSeekProvider(name string, cfg ProviderConfig) *OpenAIProvider {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.deepseek.com"
	}
	p := NewOpenAIProvider(name, cfg)
	p.defaultTemp = 1.0
	return p
}

func (p *OpenAIProvider) Name() string     { return p.name }
func (p *OpenAIProvider) Type() string     { return "openai" }
func (p *OpenAIProvider) Model() string    { return p.model }
func (p *OpenAIProvider) CostTier() string { return p.costTier }

// IsAvailable returns true if an API key is configured.
func (p *OpenAIProvider) IsAvailable() bool {
	return p != nil && p.apiKey != ""
}

// Invoke sends one chat completion request under the configured timeout.
func (p *OpenAIProvider) Invoke(ctx context.Context, userMessage, systemPrompt string, history []Message, opts *InvokeOptions) (string, error) {
	if !p.IsAvailable() {
		return "", &UnavailableError{Provider: p.name, Reason: "no API key"}
	}

	start := time.Now()

	messages := make([]openai.ChatCompletionMessage, 0, len(history)+2)
	if systemPrompt != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: systemPrompt,
		})
	}
	for _, msg := range history {
		role := openai.ChatMessageRoleAssistant
		if msg.Role == RoleUser {
			role = openai.ChatMessageRoleUser
		}
		messages = append(messages, openai.ChatCompletionMessage{Role: role, Content: msg.Content})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: userMessage,
	})

	temp := p.defaultTemp
	if opts != nil && opts.Temperature != nil {
		temp = *opts.Temperature
	}

	req := openai.ChatCompletionRequest{
		Model:       p.model,
		Messages:    messages,
		MaxTokens:   p.maxTokens,
		Temperature: float32(temp),
	}
	if opts != nil && opts.JSONMode {
		req.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	L_debug("openai: sending request", "provider", p.name, "model", p.model, "messages", len(messages))

	resp, err := p.client.CreateChatCompletion(ctx, req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || ctx.Err() == context.DeadlineExceeded {
			return "", &TimeoutError{Provider: p.name, Budget: p.timeout}
		}
		return "", &ProviderError{Provider: p.name, Err: err}
	}
	if len(resp.Choices) == 0 {
		return "", &ProviderError{Provider: p.name, Err: errors.New("no choices in response")}
	}

	text := resp.Choices[0].Message.Content
	L_debug("openai: request completed", "provider", p.name, "duration", time.Since(start).Round(time.Millisecond), "responseChars", len(text))
	return text, nil
}
