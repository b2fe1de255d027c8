package llm

import (
	"context"
	"errors"
	"testing"
	"time"
)

// fakeProvider is a scripted Provider for router tests. Each Invoke pops the
// next result from the script; an exhausted script repeats the last entry.
type fakeProvider struct {
	name      string
	available bool
	costTier  string
	script    []fakeResult
	calls     int
}

type fakeResult struct {
	text string
	err  error
}

func (f *fakeProvider) Name() string      { return f.name }
func (f *fakeProvider) Type() string      { return "fake" }
func (f *fakeProvider) Model() string     { return "fake-model" }
func (f *fakeProvider) CostTier() string  { return f.costTier }
func (f *fakeProvider) IsAvailable() bool { return f.available }

func (f *fakeProvider) Invoke(ctx context.Context, userMessage, systemPrompt string, history []Message, opts *InvokeOptions) (string, error) {
	idx := f.calls
	if idx >= len(f.script) {
		idx = len(f.script) - 1
	}
	f.calls++
	r := f.script[idx]
	return r.text, r.err
}

// testRouter builds a router around scripted fakes, bypassing real adapters.
func testRouter(t *testing.T, fakes ...*fakeProvider) *Router {
	t.Helper()

	cfg := DefaultRouterConfig()
	cfg.RetryDelay = time.Millisecond // keep tests fast

	providers := make(map[string]Provider, len(fakes))
	for _, f := range fakes {
		if _, ok := cfg.Providers[f.name]; !ok {
			t.Fatalf("fake %q not in default config", f.name)
		}
		providers[f.name] = f
	}
	for name := range cfg.Providers {
		if _, ok := providers[name]; !ok {
			providers[name] = &fakeProvider{name: name, available: false}
		}
	}
	if err := cfg.normalize(); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	return &Router{cfg: cfg, providers: providers}
}

func TestChainPrimaryFirstNoDuplicates(t *testing.T) {
	r := testRouter(t)

	cases := []struct {
		phase   Phase
		primary string
	}{
		{PhaseIcebreaker, "gemini"},
		{PhaseCVDeepDive, "gemini"},
		{PhaseSituational, "claude"},
		{PhasePressure, "claude"},
		{PhaseClosing, "claude"},
		{PhaseFinalReport, "claude"},
		{PhaseDefault, "gemini"},
	}
	for _, tc := range cases {
		chain := r.chainFor(tc.phase, "")
		if chain[0] != tc.primary {
			t.Errorf("phase %s: primary = %s, want %s", tc.phase, chain[0], tc.primary)
		}
		if len(chain) != 4 {
			t.Errorf("phase %s: chain length = %d, want 4", tc.phase, len(chain))
		}
		seen := make(map[string]bool)
		for _, name := range chain {
			if seen[name] {
				t.Errorf("phase %s: provider %s appears twice in chain %v", tc.phase, name, chain)
			}
			seen[name] = true
		}
	}
}

func TestChainOverrideWins(t *testing.T) {
	r := testRouter(t)

	chain := r.chainFor(PhaseIcebreaker, "deepseek")
	if chain[0] != "deepseek" {
		t.Errorf("override primary = %s, want deepseek", chain[0])
	}

	// "auto" and unknown overrides fall back to phase routing.
	for _, override := range []string{"auto", "", "mistral"} {
		chain = r.chainFor(PhaseIcebreaker, override)
		if chain[0] != "gemini" {
			t.Errorf("override %q: primary = %s, want gemini", override, chain[0])
		}
	}
}

func TestUnknownPhaseUsesDefault(t *testing.T) {
	r := testRouter(t)
	chain := r.chainFor(Phase("WARMUP"), "")
	if chain[0] != "gemini" {
		t.Errorf("unknown phase primary = %s, want gemini (DEFAULT)", chain[0])
	}
}

func TestRouteFirstProviderSucceeds(t *testing.T) {
	gemini := &fakeProvider{name: "gemini", available: true, costTier: CostTierFree,
		script: []fakeResult{{text: "hello"}}}
	claude := &fakeProvider{name: "claude", available: true, costTier: CostTierMedium,
		script: []fakeResult{{text: "unreached"}}}

	r := testRouter(t, gemini, claude)

	resp, err := r.Route(context.Background(), RouteRequest{Prompt: "hi", Phase: PhaseIcebreaker})
	if err != nil {
		t.Fatalf("Route: %v", err)
	}
	if resp.ProviderUsed != "gemini" || resp.Text != "hello" || resp.CostTier != CostTierFree {
		t.Errorf("unexpected response: %+v", resp)
	}
	if claude.calls != 0 {
		t.Errorf("claude invoked %d times, want 0", claude.calls)
	}
}

func TestRouteRetryThenFallback(t *testing.T) {
	// Primary times out on both attempts (maxRetries=1 means 2 attempts),
	// then the chain falls through to claude.
	timeoutErr := &TimeoutError{Provider: "gemini", Budget: 15 * time.Second}
	gemini := &fakeProvider{name: "gemini", available: true, costTier: CostTierFree,
		script: []fakeResult{{err: timeoutErr}, {err: timeoutErr}}}
	claude := &fakeProvider{name: "claude", available: true, costTier: CostTierMedium,
		script: []fakeResult{{text: "rescued"}}}

	r := testRouter(t, gemini, claude)

	resp, err := r.Route(context.Background(), RouteRequest{Prompt: "hi", Phase: PhaseIcebreaker})
	if err != nil {
		t.Fatalf("Route: %v", err)
	}
	if gemini.calls != 2 {
		t.Errorf("gemini invoked %d times, want 2", gemini.calls)
	}
	if resp.ProviderUsed != "claude" || resp.Text != "rescued" {
		t.Errorf("unexpected response: %+v", resp)
	}
}

func TestRouteSkipsUnconfigured(t *testing.T) {
	// Only openai has a credential; the three providers ahead of it in the
	// chain are skipped silently and never show up in Tried on failure.
	openai := &fakeProvider{name: "openai", available: true, costTier: CostTierPaid,
		script: []fakeResult{{text: "last resort"}}}

	r := testRouter(t, openai)

	resp, err := r.Route(context.Background(), RouteRequest{Prompt: "hi", Phase: PhaseSituational})
	if err != nil {
		t.Fatalf("Route: %v", err)
	}
	if resp.ProviderUsed != "openai" {
		t.Errorf("provider = %s, want openai", resp.ProviderUsed)
	}
}

func TestRouteAllExhausted(t *testing.T) {
	boom := &ProviderError{Provider: "x", Err: errors.New("boom")}
	gemini := &fakeProvider{name: "gemini", available: true, script: []fakeResult{{err: boom}}}
	claude := &fakeProvider{name: "claude", available: true, script: []fakeResult{{err: boom}}}
	deepseek := &fakeProvider{name: "deepseek", available: true, script: []fakeResult{{err: boom}}}
	openai := &fakeProvider{name: "openai", available: true, script: []fakeResult{{err: boom}}}

	r := testRouter(t, gemini, claude, deepseek, openai)

	_, err := r.Route(context.Background(), RouteRequest{Prompt: "hi", Phase: PhasePressure})
	var exhausted *ExhaustedError
	if !errors.As(err, &exhausted) {
		t.Fatalf("error = %v, want *ExhaustedError", err)
	}
	if len(exhausted.Tried) != 4 {
		t.Errorf("tried %v, want all 4 providers", exhausted.Tried)
	}
	if exhausted.Tried[0] != "claude" {
		t.Errorf("first tried = %s, want claude (PRESSURE primary)", exhausted.Tried[0])
	}
	if !errors.Is(err, boom) {
		t.Errorf("ExhaustedError should wrap the last provider error")
	}
	// gemini has maxRetries=1 (2 attempts), claude 2, deepseek 1, openai 1.
	if gemini.calls != 2 || claude.calls != 2 || deepseek.calls != 1 || openai.calls != 1 {
		t.Errorf("attempt counts = %d/%d/%d/%d, want 2/2/1/1",
			gemini.calls, claude.calls, deepseek.calls, openai.calls)
	}
}

func TestRouteNoneConfigured(t *testing.T) {
	r := testRouter(t)

	_, err := r.Route(context.Background(), RouteRequest{Prompt: "hi", Phase: PhaseIcebreaker})
	var exhausted *ExhaustedError
	if !errors.As(err, &exhausted) {
		t.Fatalf("error = %v, want *ExhaustedError", err)
	}
	if len(exhausted.Tried) != 0 {
		t.Errorf("tried = %v, want empty (all unconfigured)", exhausted.Tried)
	}
}

func TestRouteEmptyResponseIsFailure(t *testing.T) {
	gemini := &fakeProvider{name: "gemini", available: true,
		script: []fakeResult{{text: ""}, {text: ""}}}
	claude := &fakeProvider{name: "claude", available: true, costTier: CostTierMedium,
		script: []fakeResult{{text: "non-empty"}}}

	r := testRouter(t, gemini, claude)

	resp, err := r.Route(context.Background(), RouteRequest{Prompt: "hi", Phase: PhaseIcebreaker})
	if err != nil {
		t.Fatalf("Route: %v", err)
	}
	if resp.ProviderUsed != "claude" {
		t.Errorf("provider = %s, want claude after empty gemini responses", resp.ProviderUsed)
	}
}

func TestMergeConsecutiveRoles(t *testing.T) {
	in := []Message{
		{Role: RoleUser, Content: "a"},
		{Role: RoleUser, Content: "b"},
		{Role: RoleAssistant, Content: "c"},
		{Role: RoleAssistant, Content: "d"},
		{Role: RoleUser, Content: "e"},
	}
	out := mergeConsecutiveRoles(in)
	if len(out) != 3 {
		t.Fatalf("merged length = %d, want 3", len(out))
	}
	if out[0].Content != "a\nb" || out[1].Content != "c\nd" || out[2].Content != "e" {
		t.Errorf("unexpected merge result: %+v", out)
	}
}

func TestConfigValidation(t *testing.T) {
	cfg := DefaultRouterConfig()
	cfg.FallbackOrder = []string{"gemini", "mistral"}
	if err := cfg.normalize(); err == nil {
		t.Error("expected error for unknown provider in fallback order")
	}

	cfg = DefaultRouterConfig()
	cfg.PhaseRouting[Phase("WARMUP")] = "gemini"
	if err := cfg.normalize(); err == nil {
		t.Error("expected error for unknown phase in routing table")
	}

	cfg = DefaultRouterConfig()
	delete(cfg.PhaseRouting, PhaseDefault)
	if err := cfg.normalize(); err == nil {
		t.Error("expected error for missing DEFAULT routing entry")
	}

	cfg = DefaultRouterConfig()
	cfg.FallbackOrder = []string{"gemini", "gemini"}
	if err := cfg.normalize(); err == nil {
		t.Error("expected error for duplicate in fallback order")
	}
}

func TestGeminiHistoryRoleRules(t *testing.T) {
	in := []Message{
		{Role: RoleAssistant, Content: "lead"},
		{Role: RoleUser, Content: "a"},
		{Role: RoleUser, Content: "dropped"},
		{Role: RoleAssistant, Content: "b"},
	}
	out := formatHistoryForGemini(in)
	if len(out) != 2 {
		t.Fatalf("formatted length = %d, want 2 (leading model dropped, repeat dropped)", len(out))
	}
	if out[0].Role != "user" || out[0].Parts[0].Text != "a" {
		t.Errorf("first entry = %+v, want user/a", out[0])
	}
	if out[1].Role != "model" || out[1].Parts[0].Text != "b" {
		t.Errorf("second entry = %+v, want model/b", out[1])
	}
}
