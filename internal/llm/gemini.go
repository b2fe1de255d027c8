package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	. "github.com/puentesglobales/careermastery/internal/logging"
)

// GeminiProvider implements the Provider interface for Google's Generative
// Language API (gemini-1.5-flash and friends). The primary provider for the
// cheap conversational phases: free tier, fast, good enough for rapport.
type GeminiProvider struct {
	name     string
	apiKey   string
	model    string
	timeout  time.Duration
	costTier string
	client   *http.Client
}

const geminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// Gemini wire types. The API has no Go SDK worth carrying; the payload is
// small enough to model directly.
type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"` // "user" or "model"
	Parts []geminiPart `json:"parts"`
}

type geminiGenerationConfig struct {
	MaxOutputTokens  int      `json:"maxOutputTokens,omitempty"`
	Temperature      *float64 `json:"temperature,omitempty"`
	ResponseMimeType string   `json:"responseMimeType,omitempty"`
}

type geminiRequest struct {
	Contents          []geminiContent         `json:"contents"`
	SystemInstruction *geminiContent          `json:"systemInstruction,omitempty"`
	GenerationConfig  *geminiGenerationConfig `json:"generationConfig,omitempty"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// NewGeminiProvider creates a Gemini provider from its static descriptor.
func NewGeminiProvider(name string, cfg ProviderConfig) *GeminiProvider {
	return &GeminiProvider{
		name:     name,
		apiKey:   cfg.APIKey,
		model:    cfg.Model,
		timeout:  cfg.Timeout,
		costTier: cfg.CostTier,
		client:   &http.Client{},
	}
}

func (p *GeminiProvider) Name() string     { return p.name }
func (p *GeminiProvider) Type() string     { return "gemini" }
func (p *GeminiProvider) Model() string    { return p.model }
func (p *GeminiProvider) CostTier() string { return p.costTier }

// IsAvailable returns true if an API key is configured.
func (p *GeminiProvider) IsAvailable() bool {
	return p != nil && p.apiKey != ""
}

// Invoke sends one chat turn to the Gemini API under the configured timeout.
func (p *GeminiProvider) Invoke(ctx context.Context, userMessage, systemPrompt string, history []Message, opts *InvokeOptions) (string, error) {
	if !p.IsAvailable() {
		return "", &UnavailableError{Provider: p.name, Reason: "no API key"}
	}

	start := time.Now()

	contents := formatHistoryForGemini(history)
	contents = append(contents, geminiContent{
		Role:  "user",
		Parts: []geminiPart{{Text: userMessage}},
	})

	genCfg := &geminiGenerationConfig{MaxOutputTokens: 2048}
	if opts != nil {
		if opts.Temperature != nil {
			genCfg.Temperature = opts.Temperature
		}
		if opts.JSONMode {
			genCfg.ResponseMimeType = "application/json"
		}
	}
	if genCfg.Temperature == nil {
		t := 0.7
		genCfg.Temperature = &t
	}

	reqBody := geminiRequest{
		Contents:         contents,
		GenerationConfig: genCfg,
	}
	if systemPrompt != "" {
		reqBody.SystemInstruction = &geminiContent{Parts: []geminiPart{{Text: systemPrompt}}}
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", geminiBaseURL, p.model, p.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonData))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	L_debug("gemini: sending request", "model", p.model, "contents", len(contents), "jsonMode", genCfg.ResponseMimeType != "")

	resp, err := p.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || ctx.Err() == context.DeadlineExceeded {
			return "", &TimeoutError{Provider: p.name, Budget: p.timeout}
		}
		return "", &ProviderError{Provider: p.name, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", &ProviderError{
			Provider: p.name,
			Err:      fmt.Errorf("status %d: %s", resp.StatusCode, string(body)),
		}
	}

	var result geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", &ProviderError{Provider: p.name, Err: fmt.Errorf("decode response: %w", err)}
	}
	if result.Error != nil {
		return "", &ProviderError{Provider: p.name, Err: fmt.Errorf("%s: %s", result.Error.Status, result.Error.Message)}
	}
	if len(result.Candidates) == 0 || len(result.Candidates[0].Content.Parts) == 0 {
		return "", &ProviderError{Provider: p.name, Err: errors.New("no candidates in response")}
	}

	text := result.Candidates[0].Content.Parts[0].Text
	L_debug("gemini: request completed", "duration", time.Since(start).Round(time.Millisecond), "responseChars", len(text))
	return text, nil
}

// formatHistoryForGemini converts history to Gemini's role rules: roles are
// "user"/"model", repeated roles are dropped (first wins), and the first
// entry must be "user".
func formatHistoryForGemini(history []Message) []geminiContent {
	formatted := make([]geminiContent, 0, len(history))
	lastRole := ""

	for _, msg := range history {
		role := "model"
		if msg.Role == RoleUser {
			role = "user"
		}
		if role == lastRole {
			continue
		}
		formatted = append(formatted, geminiContent{
			Role:  role,
			Parts: []geminiPart{{Text: msg.Content}},
		})
		lastRole = role
	}

	if len(formatted) > 0 && formatted[0].Role != "user" {
		formatted = formatted[1:]
	}
	return formatted
}
