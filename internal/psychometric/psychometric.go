// Package psychometric implements the adaptive pre-hire assessment: a
// generated Likert questionnaire, stateless score arithmetic with social
// desirability control, and the hiring recommendation report.
package psychometric

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/puentesglobales/careermastery/internal/jsonrepair"
	"github.com/puentesglobales/careermastery/internal/llm"
	. "github.com/puentesglobales/careermastery/internal/logging"
)

// Router is the slice of the fallback router this package consumes.
type Router interface {
	Route(ctx context.Context, req llm.RouteRequest) (*llm.RouteResponse, error)
}

// TraitLieControl is the reserved trait for social desirability questions.
const TraitLieControl = "lie_control"

// Question directions.
const (
	DirectionPositive = "positive"
	DirectionReverse  = "reverse"
)

// Question is one Likert item (1 totally disagree .. 5 totally agree).
type Question struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Trait     string `json:"trait"`
	Direction string `json:"direction"`
}

// Assessment is the generated questionnaire plus the per-trait weights of
// the role profile.
type Assessment struct {
	RoleProfile map[string]float64 `json:"role_profile"`
	Questions   []Question         `json:"questions"`
}

// Response is one answered item.
type Response struct {
	Trait     string `json:"trait"`
	Direction string `json:"direction"`
	Value     int    `json:"value"` // 1..5
}

// Results is the arithmetic outcome of a completed questionnaire.
type Results struct {
	FitScore  int       `json:"fit_score"`
	LieScore  int       `json:"lie_score"`
	IsHonest  bool      `json:"is_honest"`
	Traits    []string  `json:"traits"`
	Timestamp time.Time `json:"timestamp"`
}

// Report is the final hiring recommendation.
type Report struct {
	Status           string `json:"status"` // Contratar | Entrevistar con cautela | Descartar
	VerdictSummary   string `json:"verdict_summary"`
	CriticalStrength string `json:"critical_strength"`
	HiddenRisk       string `json:"hidden_risk"`
	InterviewKiller  string `json:"interview_killer"`
}

// Engine runs the assessment pipeline. The generation steps go through the
// router; scoring is pure math and needs no provider.
type Engine struct {
	router Router
	clock  func() time.Time
}

func NewEngine(router Router, clock func() time.Time) *Engine {
	if clock == nil {
		clock = time.Now
	}
	return &Engine{router: router, clock: clock}
}

// InitializeAssessment builds a role-adapted questionnaire from the CV and
// the target job: five critical traits, fifteen subtle Likert items and
// three lie-control questions.
func (e *Engine) InitializeAssessment(ctx context.Context, cvText, jobTitle string) (*Assessment, error) {
	prompt := fmt.Sprintf(`**IDENTIDAD:** Reclutador Senior y Psicólogo Organizacional de Puentes Globales.
**CONTEXTO:** Analiza el CV del candidato (%s) y la vacante (%s).

**TAREA:**
1. Identifica los 5 rasgos de personalidad/comportamiento más críticos para tener éxito en este rol específico.
2. Crea un test psicométrico adaptativo de 15 preguntas tipo Likert (1: Totalmente en desacuerdo, 5: Totalmente de acuerdo).
3. Las preguntas deben ser sutiles, no directas (ej: en lugar de "¿Eres puntual?", usar "Prefiero entregar mis tareas con antelación aunque no sean perfectas").
4. Incluye 3 "Lie Control Questions" para detectar deseabilidad social (intentar parecer mejor de lo que uno es).

**FORMATO JSON REQUERIDO:**
{
  "role_profile": { "trait_name": decimal_weight_from_0_to_1 },
  "questions": [
    {
      "id": "q1",
      "text": "Escribe aquí la pregunta en español profesional...",
      "trait": "trait_name_matching_profile",
      "direction": "positive" | "reverse"
    }
  ]
}`, clip(cvText, 1000), jobTitle)

	temp := 0.1 // deterministic question generation
	resp, err := e.router.Route(ctx, llm.RouteRequest{
		Prompt:  prompt,
		Phase:   llm.PhaseDefault,
		Options: &llm.InvokeOptions{JSONMode: true, Temperature: &temp},
	})
	if err != nil {
		return nil, fmt.Errorf("initialize assessment: %w", err)
	}

	var assessment Assessment
	if err := jsonrepair.Unmarshal(resp.Text, &assessment); err != nil {
		return nil, fmt.Errorf("initialize assessment: %w", err)
	}
	L_info("psychometric: assessment initialized", "traits", len(assessment.RoleProfile), "questions", len(assessment.Questions), "provider", resp.ProviderUsed)
	return &assessment, nil
}

// CalculateResults scores the answered questionnaire. Pure and stateless:
// reverse items flip on the Likert scale (6 - value), trait items accumulate
// weighted by the role profile, lie-control items accumulate separately.
// A lie score of 50 or over flags social desirability.
func (e *Engine) CalculateResults(responses []Response, profile map[string]float64) Results {
	var totalScore, weightSum float64
	var liePoints, lieCount int

	traits := make([]string, 0, len(profile))
	for t := range profile {
		if t != TraitLieControl {
			traits = append(traits, t)
		}
	}

	for _, res := range responses {
		value := res.Value
		if res.Direction == DirectionReverse {
			value = 6 - value
		}

		if res.Trait == TraitLieControl {
			liePoints += value
			lieCount++
			continue
		}

		weight, ok := profile[res.Trait]
		if !ok {
			weight = 1
		}
		totalScore += float64(value) * weight
		weightSum += weight
	}

	fitScore := 0
	if weightSum > 0 {
		fitScore = int(math.Round(totalScore / (5 * weightSum) * 100))
	}
	lieScore := 0
	if lieCount > 0 {
		lieScore = int(math.Round(float64(liePoints) / float64(5*lieCount) * 100))
	}

	return Results{
		FitScore:  fitScore,
		LieScore:  lieScore,
		IsHonest:  lieScore < 50,
		Traits:    traits,
		Timestamp: e.clock(),
	}
}

// GenerateFinalReport crosses the CV with the psychometric outcome into a
// blunt hiring recommendation.
func (e *Engine) GenerateFinalReport(ctx context.Context, cvText, jobTitle string, results Results) (*Report, error) {
	prompt := fmt.Sprintf(`**IDENTITY:**
Eres el "Senior Talent Strategist" de Puentes Globales. Tu especialidad es leer entre líneas y predecir el éxito a largo plazo de un candidato.

**INPUT DATA:**
- CANDIDATO (CV): %s
- PUESTO: %s
- RESULTADOS PSICOMÉTRICOS: Fit: %d%%, Honestidad: %d%%
- RASGOS EVALUADOS: %s

**TASK:**
Genera un reporte de recomendación de contratación que sea directo, honesto y sin rodeos.

**CONSTRAINTS:**
- Si el Fit Score es < 60%%, sé muy estricto en el descarte.
- Si el Lie Score es > 50%%, menciona que el candidato intentó manipular el test.
- Idioma: Español profesional.
- FORMATO: JSON puro.

**EXPECTED JSON STRUCTURE:**
{
  "status": "Contratar" | "Entrevistar con cautela" | "Descartar",
  "verdict_summary": "Explicación de 2 frases sobre la relación experiencia-personalidad.",
  "critical_strength": "El rasgo más potente que aporta al equipo.",
  "hidden_risk": "Qué podría fallar si se le presiona demasiado.",
  "interview_killer": "Una pregunta específica y punzante para validar debilidades."
}`, cvText, jobTitle, results.FitScore, results.LieScore, strings.Join(results.Traits, ", "))

	resp, err := e.router.Route(ctx, llm.RouteRequest{
		Prompt:  prompt,
		Phase:   llm.PhaseFinalReport,
		Options: &llm.InvokeOptions{JSONMode: true},
	})
	if err != nil {
		return nil, fmt.Errorf("psychometric report: %w", err)
	}

	var report Report
	if err := jsonrepair.Unmarshal(resp.Text, &report); err != nil {
		return nil, fmt.Errorf("psychometric report: %w", err)
	}
	return &report, nil
}

func clip(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
