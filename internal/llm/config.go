package llm

import (
	"fmt"
	"time"
)

// Phase identifies a conversational phase of the interview simulator.
// Routing is phase-aware: phases with deeper reasoning requirements are
// mapped to stronger (costlier) providers.
type Phase string

const (
	PhaseIcebreaker  Phase = "ICEBREAKER"
	PhaseCVDeepDive  Phase = "CV_DEEP_DIVE"
	PhaseSituational Phase = "SITUATIONAL"
	PhasePressure    Phase = "PRESSURE"
	PhaseClosing     Phase = "CLOSING"
	PhaseFinalReport Phase = "FINAL_REPORT"
	PhaseDefault     Phase = "DEFAULT"
)

// KnownPhases lists every phase the routing policy may key on.
var KnownPhases = []Phase{
	PhaseIcebreaker, PhaseCVDeepDive, PhaseSituational,
	PhasePressure, PhaseClosing, PhaseFinalReport, PhaseDefault,
}

// ValidPhase reports whether p is a known phase name.
func ValidPhase(p Phase) bool {
	for _, k := range KnownPhases {
		if p == k {
			return true
		}
	}
	return false
}

// Cost tiers, for the per-request audit log.
const (
	CostTierFree   = "FREE"
	CostTierLow    = "LOW"
	CostTierMedium = "MEDIUM"
	CostTierPaid   = "PAID"
)

// ProviderConfig is the static descriptor for one provider instance.
// Immutable for the process lifetime.
type ProviderConfig struct {
	Type       string        `json:"type"`       // "gemini", "anthropic", "openai", "deepseek"
	APIKey     string        `json:"apiKey"`     // Empty = unconfigured (router skips)
	BaseURL    string        `json:"baseURL"`    // For OpenAI-compatible endpoints
	Model      string        `json:"model"`      // Model ID sent on the wire
	Timeout    time.Duration `json:"-"`          // Hard wall-clock budget per call
	TimeoutMS  int           `json:"timeoutMs"`  // JSON form of Timeout
	MaxRetries int           `json:"maxRetries"` // Extra attempts after the first
	CostTier   string        `json:"costTier"`
}

// RouterConfig is the configuration for the fallback chain router.
type RouterConfig struct {
	Providers     map[string]ProviderConfig `json:"providers"`
	PhaseRouting  map[Phase]string          `json:"phaseRouting"`  // phase -> primary provider name
	FallbackOrder []string                  `json:"fallbackOrder"` // fixed total order
	RetryDelay    time.Duration             `json:"-"`             // pause between retries of one provider
}

// DefaultRouterConfig mirrors the production routing policy: Gemini for the
// fast/free phases, Claude for phases that need structured reasoning, with
// DeepSeek and GPT-4o-mini as the cheap and guaranteed fallbacks.
func DefaultRouterConfig() RouterConfig {
	return RouterConfig{
		Providers: map[string]ProviderConfig{
			"gemini":   {Type: "gemini", Model: "gemini-1.5-flash", Timeout: 15 * time.Second, MaxRetries: 1, CostTier: CostTierFree},
			"claude":   {Type: "anthropic", Model: "claude-3-5-sonnet-20241022", Timeout: 20 * time.Second, MaxRetries: 1, CostTier: CostTierMedium},
			"deepseek": {Type: "deepseek", Model: "deepseek-chat", Timeout: 15 * time.Second, MaxRetries: 0, CostTier: CostTierLow},
			"openai":   {Type: "openai", Model: "gpt-4o-mini", Timeout: 20 * time.Second, MaxRetries: 0, CostTier: CostTierPaid},
		},
		PhaseRouting: map[Phase]string{
			PhaseIcebreaker:  "gemini", // fast, free, sufficient for rapport
			PhaseCVDeepDive:  "gemini",
			PhaseSituational: "claude", // best reasoning for STAR analysis
			PhasePressure:    "claude",
			PhaseClosing:     "claude",
			PhaseFinalReport: "claude",
			PhaseDefault:     "gemini",
		},
		FallbackOrder: []string{"gemini", "claude", "deepseek", "openai"},
		RetryDelay:    500 * time.Millisecond,
	}
}

// normalize fills derived fields and validates cross-references so that bad
// phase or provider names fail at construction time, not at lookup time.
func (c *RouterConfig) normalize() error {
	if c.RetryDelay == 0 {
		c.RetryDelay = 500 * time.Millisecond
	}
	for name, pc := range c.Providers {
		if pc.Timeout == 0 && pc.TimeoutMS > 0 {
			pc.Timeout = time.Duration(pc.TimeoutMS) * time.Millisecond
		}
		if pc.Timeout == 0 {
			pc.Timeout = 15 * time.Second
		}
		if pc.Model == "" {
			return fmt.Errorf("provider %s: model is required", name)
		}
		c.Providers[name] = pc
	}
	if len(c.FallbackOrder) == 0 {
		return fmt.Errorf("fallback order is empty")
	}
	seen := make(map[string]bool, len(c.FallbackOrder))
	for _, name := range c.FallbackOrder {
		if _, ok := c.Providers[name]; !ok {
			return fmt.Errorf("fallback order references unknown provider %q", name)
		}
		if seen[name] {
			return fmt.Errorf("fallback order lists provider %q twice", name)
		}
		seen[name] = true
	}
	for phase, name := range c.PhaseRouting {
		if !ValidPhase(phase) {
			return fmt.Errorf("phase routing references unknown phase %q", phase)
		}
		if _, ok := c.Providers[name]; !ok {
			return fmt.Errorf("phase %s routes to unknown provider %q", phase, name)
		}
	}
	if _, ok := c.PhaseRouting[PhaseDefault]; !ok {
		return fmt.Errorf("phase routing must define a DEFAULT entry")
	}
	return nil
}
