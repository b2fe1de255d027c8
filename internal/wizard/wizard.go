// Package wizard is the step pipeline behind the CV builder: job-description
// analysis, gap detection, raw experience extraction, impact statement
// drafting and the final ATS-ready CV.
package wizard

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/puentesglobales/careermastery/internal/jsonrepair"
	"github.com/puentesglobales/careermastery/internal/llm"
	. "github.com/puentesglobales/careermastery/internal/logging"
)

// Router is the slice of the fallback router this package consumes.
type Router interface {
	Route(ctx context.Context, req llm.RouteRequest) (*llm.RouteResponse, error)
}

// Steps of the pipeline.
const (
	StepAnalyzeJob       = 1
	StepDetectGap        = 2
	StepExtractRaw       = 3
	StepImpactStatements = 4
	StepFinalCV          = 5
)

// StepData carries the inputs for whichever step runs; each step reads the
// fields it needs and ignores the rest.
type StepData struct {
	JobDescription       string          `json:"jobDescription,omitempty"`
	CurrentProfile       json.RawMessage `json:"currentProfile,omitempty"`
	JDAnalysis           json.RawMessage `json:"jdAnalysis,omitempty"`
	RawExperienceText    string          `json:"rawExperienceText,omitempty"`
	StructuredExperience json.RawMessage `json:"structuredExperience,omitempty"`
	Accomplishments      json.RawMessage `json:"accomplishments,omitempty"`
	FullData             json.RawMessage `json:"fullData,omitempty"`
}

// Engine orchestrates the wizard steps; each step is one provider call
// returning a JSON document the frontend consumes directly.
type Engine struct {
	router Router
}

func NewEngine(router Router) *Engine {
	return &Engine{router: router}
}

// ProcessStep dispatches to the pipeline stage for step (1..5). The result
// is the repaired JSON document from the provider, opaque to this layer.
func (e *Engine) ProcessStep(ctx context.Context, step int, data StepData) (map[string]interface{}, error) {
	L_info("wizard: processing step", "step", step)

	var prompt string
	phase := llm.PhaseCVDeepDive
	switch step {
	case StepAnalyzeJob:
		prompt = analyzeJobPrompt(data.JobDescription)
	case StepDetectGap:
		prompt = detectGapPrompt(data.CurrentProfile, data.JDAnalysis)
	case StepExtractRaw:
		prompt = extractRawPrompt(data.RawExperienceText)
	case StepImpactStatements:
		prompt = impactPrompt(data.StructuredExperience, data.Accomplishments)
		phase = llm.PhaseFinalReport // drafting quality matters most here
	case StepFinalCV:
		prompt = finalCVPrompt(data.FullData)
		phase = llm.PhaseFinalReport
	default:
		return nil, fmt.Errorf("invalid wizard step %d", step)
	}

	resp, err := e.router.Route(ctx, llm.RouteRequest{
		Prompt:  prompt,
		Phase:   phase,
		Options: &llm.InvokeOptions{JSONMode: true},
	})
	if err != nil {
		return nil, fmt.Errorf("wizard step %d: %w", step, err)
	}

	var result map[string]interface{}
	if err := jsonrepair.Unmarshal(resp.Text, &result); err != nil {
		return nil, fmt.Errorf("wizard step %d: %w", step, err)
	}
	return result, nil
}

func analyzeJobPrompt(jd string) string {
	return fmt.Sprintf(`Actúa como un Headhunter Senior. Analiza esta Job Description (JD) y extrae su ADN técnico y cultural.

JD: "%s"

Devuelve un JSON con esta estructura:
{
    "detectedRole": "Título profesional exacto",
    "seniorityLevel": "Junior/Mid/Senior/Lead",
    "criticalSkills": ["Top 5 skills técnicas"],
    "softSkills": ["Top 3 habilidades humanas"],
    "redFlags": ["Cosas que el candidato NO debe decir/hacer para este puesto"],
    "idealPersona": "Descripción breve del candidato perfecto para este jefe"
}`, clip(jd, 4000))
}

func detectGapPrompt(profile, jdAnalysis json.RawMessage) string {
	return fmt.Sprintf(`Compara el perfil del usuario con los requisitos de la vacante.

PERFIL ACTUAL: %s
REQUISITOS VACANTE: %s

Identifica las brechas críticas que impedirían la contratación y los superpoderes que lo destacan.
Devuelve JSON:
{
    "gapAnalysis": "Explicación de lo que falta para llegar al nivel exigido",
    "superpower": "La ventaja injusta de este candidato",
    "matchScore": 0-100,
    "tacticalAdvice": "Consejo breve para 'vender' las debilidades como oportunidades"
}`, rawOrEmpty(profile), rawOrEmpty(jdAnalysis))
}

func extractRawPrompt(story string) string {
	return fmt.Sprintf(`**ROL:** Analista de Trayectoria Profesional.
**TAREA:** Convierte el relato informal del usuario en una cronología de experiencia estructurada.
**OBJETIVO:** Extraer hechos, tecnologías usadas y responsabilidades sin adornos, para luego convertirlos en logros.

RELATO: "%s"

**REGLAS:**
- Si no menciona fechas, usa "Fecha no proporcionada".
- Identifica las herramientas/lenguajes mencionados.

Devuelve JSON:
{
    "experiences": [
        { "company": "Nombre", "role": "Cargo", "duration": "Periodo", "mainTasks": ["Tarea 1", "Tarea 2"], "tools": ["Tool1", "Tool2"] }
    ]
}`, story)
}

func impactPrompt(structured, accomplishments json.RawMessage) string {
	return fmt.Sprintf(`**ROL:** Estratega de Branding Personal.
**TAREA:** Transforma tareas y hitos en "Impact Statements" de alto rendimiento (STAR).

DATOS ESTRUCTURADOS: %s
LOGROS VERBALIZADOS: %s

**REGLAS DE ORO:**
1. Fórmula: [Verbo de Acción fuerte] + [Métrica/Resultado] + [Contexto/Herramienta].
2. Ej: "Optimicé el pipeline de CI/CD reduciendo fallos en un 30%% usando GitHub Actions".
3. No uses "Ayude a" o "Fui parte de". Sé protagonista.

Devuelve JSON:
{
    "impactExperiences": [
        { "role": "", "company": "", "bullets": ["Bullet de impacto 1", "Bullet de impacto 2"] }
    ]
}`, rawOrEmpty(structured), rawOrEmpty(accomplishments))
}

func finalCVPrompt(fullData json.RawMessage) string {
	return fmt.Sprintf(`Actúa como un Redactor de CVs para cargos de alto nivel.
Genera la versión final del CV optimizada para ATS y humanos.

DATA: %s

Devuelve JSON:
{
    "summary": "Perfil profesional de alto impacto",
    "experience": [],
    "skills": { "technical": [], "behavioral": [] },
    "atsOptimizationNote": "Por qué este CV pasará los filtros"
}`, rawOrEmpty(fullData))
}

func rawOrEmpty(raw json.RawMessage) string {
	if len(raw) == 0 {
		return "{}"
	}
	return string(raw)
}

func clip(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
