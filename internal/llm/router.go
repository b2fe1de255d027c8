package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	. "github.com/puentesglobales/careermastery/internal/logging"
)

// RouteRequest is one logical request into the router.
type RouteRequest struct {
	Prompt           string         `json:"prompt"`
	SystemPrompt     string         `json:"systemPrompt"`
	History          []Message      `json:"history"`
	Phase            Phase          `json:"phase"`
	ProviderOverride string         `json:"providerOverride,omitempty"` // "auto" or explicit provider name
	Options          *InvokeOptions `json:"options,omitempty"`
}

// RouteResponse is the result of a successful routed call.
type RouteResponse struct {
	Text         string `json:"text"`
	ProviderUsed string `json:"providerUsed"`
	CostTier     string `json:"costTier"`
}

// Router walks an ordered provider chain until one adapter succeeds.
// Selection is a static lookup (phase -> primary, then the fixed fallback
// order), never adaptive: behavior stays deterministic and testable.
type Router struct {
	cfg       RouterConfig
	providers map[string]Provider
}

// NewRouter builds every configured provider adapter and validates the
// routing policy. Unknown phase or provider names fail here, not at lookup.
func NewRouter(cfg RouterConfig) (*Router, error) {
	if err := cfg.normalize(); err != nil {
		return nil, err
	}

	providers := make(map[string]Provider, len(cfg.Providers))
	for name, pc := range cfg.Providers {
		p, err := buildProvider(name, pc)
		if err != nil {
			return nil, fmt.Errorf("provider %s: %w", name, err)
		}
		providers[name] = p
	}

	r := &Router{cfg: cfg, providers: providers}

	configured := 0
	for _, p := range providers {
		if p.IsAvailable() {
			configured++
		} else {
			L_warn("router: provider has no credential, fallback disabled", "provider", p.Name())
		}
	}
	L_info("router: created", "providers", len(providers), "configured", configured, "fallbackOrder", cfg.FallbackOrder)

	return r, nil
}

// buildProvider constructs the adapter for one provider config.
func buildProvider(name string, cfg ProviderConfig) (Provider, error) {
	switch cfg.Type {
	case "gemini":
		return NewGeminiProvider(name, cfg), nil
	case "anthropic":
		return NewAnthropicProvider(name, cfg), nil
	case "openai":
		return NewOpenAIProvider(name, cfg), nil
	case "deepseek":
		return NewDeepSeekProvider(name, cfg), nil
	default:
		return nil, fmt.Errorf("unknown provider type: %s", cfg.Type)
	}
}

// chainFor computes the ordered candidate list for a request: the primary
// first, then the rest of the fixed fallback order with the primary removed.
// Every configured provider appears exactly once.
func (r *Router) chainFor(phase Phase, override string) []string {
	primary := r.primaryFor(phase, override)

	chain := make([]string, 0, len(r.cfg.FallbackOrder))
	chain = append(chain, primary)
	for _, name := range r.cfg.FallbackOrder {
		if name != primary {
			chain = append(chain, name)
		}
	}
	return chain
}

// primaryFor resolves the primary provider: explicit override wins, then the
// phase routing table, then the DEFAULT entry.
func (r *Router) primaryFor(phase Phase, override string) string {
	if override != "" && override != "auto" {
		if _, ok := r.providers[override]; ok {
			return override
		}
		L_warn("router: override names unknown provider, using phase routing", "override", override)
	}
	if name, ok := r.cfg.PhaseRouting[phase]; ok {
		return name
	}
	return r.cfg.PhaseRouting[PhaseDefault]
}

// Route walks the candidate chain for req until one provider returns a
// non-empty response or every candidate is exhausted. Providers are attempted
// strictly in order, never concurrently; unconfigured providers are skipped
// without counting as failed attempts.
func (r *Router) Route(ctx context.Context, req RouteRequest) (*RouteResponse, error) {
	phase := req.Phase
	if phase == "" {
		phase = PhaseDefault
	}

	chain := r.chainFor(phase, req.ProviderOverride)

	var tried []string
	var lastErr error

	for _, name := range chain {
		p := r.providers[name]
		pc := r.cfg.Providers[name]

		if !p.IsAvailable() {
			L_debug("router: provider unconfigured, skipping", "provider", name, "phase", phase)
			continue
		}

		attempts := 1 + pc.MaxRetries
		tried = append(tried, name)

		for attempt := 1; attempt <= attempts; attempt++ {
			start := time.Now()
			text, err := p.Invoke(ctx, req.Prompt, req.SystemPrompt, req.History, req.Options)

			if err == nil && text != "" {
				elapsed := time.Since(start)
				L_info("router: response generated",
					"provider", name,
					"model", p.Model(),
					"costTier", p.CostTier(),
					"elapsed", elapsed.Round(time.Millisecond),
					"phase", phase)
				return &RouteResponse{
					Text:         text,
					ProviderUsed: name,
					CostTier:     p.CostTier(),
				}, nil
			}

			var unavail *UnavailableError
			if errors.As(err, &unavail) {
				// Credential disappeared between IsAvailable and Invoke;
				// treat like an unconfigured provider, not a failure.
				L_debug("router: provider reported unavailable", "provider", name)
				tried = tried[:len(tried)-1]
				break
			}

			if err == nil {
				err = &ProviderError{Provider: name, Err: errors.New("empty response")}
			}
			lastErr = err
			L_warn("router: attempt failed",
				"provider", name,
				"attempt", fmt.Sprintf("%d/%d", attempt, attempts),
				"phase", phase,
				"error", err)

			if attempt < attempts {
				if sleepErr := sleepCtx(ctx, r.cfg.RetryDelay); sleepErr != nil {
					return nil, sleepErr
				}
			}
		}
	}

	return nil, &ExhaustedError{Phase: string(phase), Tried: tried, LastErr: lastErr}
}

// sleepCtx pauses for d unless ctx is cancelled first.
func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Providers returns the names of all configured providers, in fallback order.
func (r *Router) Providers() []string {
	names := make([]string, 0, len(r.cfg.FallbackOrder))
	names = append(names, r.cfg.FallbackOrder...)
	return names
}
