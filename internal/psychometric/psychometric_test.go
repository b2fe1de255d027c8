package psychometric

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/puentesglobales/careermastery/internal/llm"
)

type fakeRouter struct {
	lastReq llm.RouteRequest
	resp    *llm.RouteResponse
	err     error
	calls   int
}

func (f *fakeRouter) Route(_ context.Context, req llm.RouteRequest) (*llm.RouteResponse, error) {
	f.calls++
	f.lastReq = req
	if f.err != nil {
		return nil, f.err
	}
	return f.resp, nil
}

func fixedClock() time.Time {
	return time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
}

func TestInitializeAssessment(t *testing.T) {
	router := &fakeRouter{resp: &llm.RouteResponse{
		Text: `{"role_profile":{"resilience":0.9,"lie_control":1.0},
			"questions":[{"id":"q1","text":"Prefiero entregar con antelación.","trait":"resilience","direction":"positive"}]}`,
		ProviderUsed: "gemini",
	}}
	eng := NewEngine(router, fixedClock)

	a, err := eng.InitializeAssessment(context.Background(), "CV de prueba", "Backend Engineer")
	if err != nil {
		t.Fatalf("InitializeAssessment: %v", err)
	}
	if len(a.Questions) != 1 || a.Questions[0].ID != "q1" {
		t.Fatalf("questions = %+v", a.Questions)
	}
	if a.RoleProfile["resilience"] != 0.9 {
		t.Errorf("role profile = %v", a.RoleProfile)
	}
	if router.lastReq.Options == nil || !router.lastReq.Options.JSONMode {
		t.Error("expected JSON mode")
	}
	if router.lastReq.Options.Temperature == nil || *router.lastReq.Options.Temperature != 0.1 {
		t.Errorf("temperature = %v", router.lastReq.Options.Temperature)
	}
	if !strings.Contains(router.lastReq.Prompt, "Backend Engineer") {
		t.Error("prompt missing job title")
	}
	if !strings.Contains(router.lastReq.Prompt, "Lie Control Questions") {
		t.Error("prompt missing lie control instruction")
	}
}

func TestInitializeAssessmentClipsCV(t *testing.T) {
	router := &fakeRouter{resp: &llm.RouteResponse{Text: `{"role_profile":{},"questions":[]}`}}
	eng := NewEngine(router, fixedClock)

	long := strings.Repeat("x", 5000)
	if _, err := eng.InitializeAssessment(context.Background(), long, "Rol"); err != nil {
		t.Fatalf("InitializeAssessment: %v", err)
	}
	if strings.Contains(router.lastReq.Prompt, strings.Repeat("x", 1001)) {
		t.Error("CV not clipped to 1000 chars")
	}
}

func TestCalculateResultsPositiveOnly(t *testing.T) {
	eng := NewEngine(&fakeRouter{}, fixedClock)
	profile := map[string]float64{"grit": 1.0}
	resp := []Response{
		{Trait: "grit", Direction: DirectionPositive, Value: 5},
		{Trait: "grit", Direction: DirectionPositive, Value: 5},
	}

	r := eng.CalculateResults(resp, profile)
	if r.FitScore != 100 {
		t.Errorf("fit = %d, want 100", r.FitScore)
	}
	if r.LieScore != 0 || !r.IsHonest {
		t.Errorf("lie = %d honest = %v", r.LieScore, r.IsHonest)
	}
	if !r.Timestamp.Equal(fixedClock()) {
		t.Errorf("timestamp = %v", r.Timestamp)
	}
}

func TestCalculateResultsReverseInversion(t *testing.T) {
	eng := NewEngine(&fakeRouter{}, fixedClock)
	profile := map[string]float64{"grit": 1.0}

	// A reverse item answered 1 counts as 5.
	r := eng.CalculateResults([]Response{
		{Trait: "grit", Direction: DirectionReverse, Value: 1},
	}, profile)
	if r.FitScore != 100 {
		t.Errorf("fit = %d, want 100", r.FitScore)
	}

	// And answered 5 counts as 1.
	r = eng.CalculateResults([]Response{
		{Trait: "grit", Direction: DirectionReverse, Value: 5},
	}, profile)
	if r.FitScore != 20 {
		t.Errorf("fit = %d, want 20", r.FitScore)
	}
}

func TestCalculateResultsWeights(t *testing.T) {
	eng := NewEngine(&fakeRouter{}, fixedClock)
	profile := map[string]float64{"grit": 0.8, "empathy": 0.2}
	resp := []Response{
		{Trait: "grit", Direction: DirectionPositive, Value: 5},
		{Trait: "empathy", Direction: DirectionPositive, Value: 1},
	}

	// (5*0.8 + 1*0.2) / (5*(0.8+0.2)) * 100 = 84
	r := eng.CalculateResults(resp, profile)
	if r.FitScore != 84 {
		t.Errorf("fit = %d, want 84", r.FitScore)
	}
}

func TestCalculateResultsUnknownTraitWeightsOne(t *testing.T) {
	eng := NewEngine(&fakeRouter{}, fixedClock)
	r := eng.CalculateResults([]Response{
		{Trait: "surprise", Direction: DirectionPositive, Value: 4},
	}, map[string]float64{"grit": 0.5})
	// 4*1 / (5*1) * 100 = 80
	if r.FitScore != 80 {
		t.Errorf("fit = %d, want 80", r.FitScore)
	}
}

func TestCalculateResultsLieBoundary(t *testing.T) {
	eng := NewEngine(&fakeRouter{}, fixedClock)
	profile := map[string]float64{"grit": 1.0, "lie_control": 1.0}

	// One lie item at 2: 2/5*100 = 40 -> honest.
	r := eng.CalculateResults([]Response{
		{Trait: TraitLieControl, Direction: DirectionPositive, Value: 2},
	}, profile)
	if r.LieScore != 40 || !r.IsHonest {
		t.Errorf("lie = %d honest = %v, want 40/true", r.LieScore, r.IsHonest)
	}

	// Exactly 50 is already dishonest.
	r = eng.CalculateResults([]Response{
		{Trait: TraitLieControl, Direction: DirectionPositive, Value: 2},
		{Trait: TraitLieControl, Direction: DirectionPositive, Value: 3},
	}, profile)
	if r.LieScore != 50 || r.IsHonest {
		t.Errorf("lie = %d honest = %v, want 50/false", r.LieScore, r.IsHonest)
	}
}

func TestCalculateResultsLieControlExcludedFromFit(t *testing.T) {
	eng := NewEngine(&fakeRouter{}, fixedClock)
	profile := map[string]float64{"grit": 1.0, "lie_control": 1.0}
	r := eng.CalculateResults([]Response{
		{Trait: "grit", Direction: DirectionPositive, Value: 3},
		{Trait: TraitLieControl, Direction: DirectionPositive, Value: 5},
	}, profile)
	// Fit uses only the grit answer: 3/5*100 = 60.
	if r.FitScore != 60 {
		t.Errorf("fit = %d, want 60", r.FitScore)
	}
	if len(r.Traits) != 1 || r.Traits[0] != "grit" {
		t.Errorf("traits = %v", r.Traits)
	}
}

func TestCalculateResultsEmpty(t *testing.T) {
	eng := NewEngine(&fakeRouter{}, fixedClock)
	r := eng.CalculateResults(nil, map[string]float64{})
	if r.FitScore != 0 || r.LieScore != 0 || !r.IsHonest {
		t.Errorf("empty results = %+v", r)
	}
}

func TestGenerateFinalReport(t *testing.T) {
	router := &fakeRouter{resp: &llm.RouteResponse{
		Text: "```json\n" + `{"status":"Entrevistar con cautela","verdict_summary":"Bien.","critical_strength":"Resiliencia.","hidden_risk":"Presión.","interview_killer":"¿Cuándo fallaste?"}` + "\n```",
	}}
	eng := NewEngine(router, fixedClock)

	results := Results{FitScore: 65, LieScore: 30, IsHonest: true, Traits: []string{"grit", "empathy"}}
	rep, err := eng.GenerateFinalReport(context.Background(), "CV", "Rol", results)
	if err != nil {
		t.Fatalf("GenerateFinalReport: %v", err)
	}
	if rep.Status != "Entrevistar con cautela" {
		t.Errorf("status = %q", rep.Status)
	}
	if router.lastReq.Phase != llm.PhaseFinalReport {
		t.Errorf("phase = %q", router.lastReq.Phase)
	}
	if !strings.Contains(router.lastReq.Prompt, "Fit: 65%") {
		t.Error("prompt missing fit score")
	}
	if !strings.Contains(router.lastReq.Prompt, "grit, empathy") {
		t.Error("prompt missing traits")
	}
}

func TestGenerateFinalReportRouterError(t *testing.T) {
	router := &fakeRouter{err: errors.New("down")}
	eng := NewEngine(router, fixedClock)
	if _, err := eng.GenerateFinalReport(context.Background(), "CV", "Rol", Results{}); err == nil {
		t.Fatal("expected error")
	}
}
