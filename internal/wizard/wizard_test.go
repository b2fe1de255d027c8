package wizard

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/puentesglobales/careermastery/internal/llm"
)

type fakeRouter struct {
	lastReq llm.RouteRequest
	resp    *llm.RouteResponse
	err     error
}

func (f *fakeRouter) Route(ctx context.Context, req llm.RouteRequest) (*llm.RouteResponse, error) {
	f.lastReq = req
	return f.resp, f.err
}

func TestProcessStepDispatch(t *testing.T) {
	router := &fakeRouter{resp: &llm.RouteResponse{Text: `{"detectedRole": "Backend Engineer"}`, ProviderUsed: "gemini"}}
	e := NewEngine(router)

	result, err := e.ProcessStep(context.Background(), StepAnalyzeJob, StepData{JobDescription: "Buscamos backend engineer"})
	if err != nil {
		t.Fatalf("ProcessStep: %v", err)
	}
	if result["detectedRole"] != "Backend Engineer" {
		t.Errorf("unexpected result: %v", result)
	}
	if !strings.Contains(router.lastReq.Prompt, "Headhunter Senior") {
		t.Error("step 1 must use the job-DNA prompt")
	}
	if router.lastReq.Options == nil || !router.lastReq.Options.JSONMode {
		t.Error("wizard steps request JSON mode")
	}
}

func TestProcessStepGapUsesBothDocuments(t *testing.T) {
	router := &fakeRouter{resp: &llm.RouteResponse{Text: `{"matchScore": 62}`, ProviderUsed: "gemini"}}
	e := NewEngine(router)

	profile := json.RawMessage(`{"role": "dev"}`)
	jd := json.RawMessage(`{"detectedRole": "senior dev"}`)
	if _, err := e.ProcessStep(context.Background(), StepDetectGap, StepData{CurrentProfile: profile, JDAnalysis: jd}); err != nil {
		t.Fatalf("ProcessStep: %v", err)
	}
	if !strings.Contains(router.lastReq.Prompt, `{"role": "dev"}`) || !strings.Contains(router.lastReq.Prompt, `senior dev`) {
		t.Error("gap prompt must embed both profile and JD analysis")
	}
}

func TestProcessStepDraftingUsesDeepPhase(t *testing.T) {
	router := &fakeRouter{resp: &llm.RouteResponse{Text: `{"summary": "ok"}`, ProviderUsed: "claude"}}
	e := NewEngine(router)

	for _, step := range []int{StepImpactStatements, StepFinalCV} {
		if _, err := e.ProcessStep(context.Background(), step, StepData{}); err != nil {
			t.Fatalf("step %d: %v", step, err)
		}
		if router.lastReq.Phase != llm.PhaseFinalReport {
			t.Errorf("step %d phase = %s, want FINAL_REPORT", step, router.lastReq.Phase)
		}
	}

	if _, err := e.ProcessStep(context.Background(), StepExtractRaw, StepData{RawExperienceText: "trabajé en..."}); err != nil {
		t.Fatalf("step 3: %v", err)
	}
	if router.lastReq.Phase != llm.PhaseCVDeepDive {
		t.Errorf("step 3 phase = %s, want CV_DEEP_DIVE", router.lastReq.Phase)
	}
}

func TestProcessStepInvalid(t *testing.T) {
	e := NewEngine(&fakeRouter{})
	if _, err := e.ProcessStep(context.Background(), 9, StepData{}); err == nil {
		t.Error("expected error for unknown step")
	}
}

func TestProcessStepRepairsFences(t *testing.T) {
	router := &fakeRouter{resp: &llm.RouteResponse{Text: "```json\n{\"experiences\": []}\n```", ProviderUsed: "gemini"}}
	e := NewEngine(router)

	result, err := e.ProcessStep(context.Background(), StepExtractRaw, StepData{RawExperienceText: "relato"})
	if err != nil {
		t.Fatalf("ProcessStep: %v", err)
	}
	if _, ok := result["experiences"]; !ok {
		t.Errorf("unexpected result: %v", result)
	}
}
