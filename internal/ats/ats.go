// Package ats provides CV analysis, rewriting and generation against a
// target job description, scored the way applicant tracking systems do.
package ats

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/puentesglobales/careermastery/internal/jsonrepair"
	"github.com/puentesglobales/careermastery/internal/llm"
	. "github.com/puentesglobales/careermastery/internal/logging"
)

const (
	minCVChars   = 50
	inputCapCV   = 4000
	inputCapJob  = 4000
	scheduleURL  = "https://calendly.com/puentesglobales/agendar"
	analysisTemp = 0.2 // factual scoring wants low variance
)

// Router is the slice of the fallback router this package consumes.
type Router interface {
	Route(ctx context.Context, req llm.RouteRequest) (*llm.RouteResponse, error)
}

// HardSkillsAnalysis is the keyword gap breakdown.
type HardSkillsAnalysis struct {
	MatchedKeywords []string `json:"matched_keywords"`
	MissingKeywords []string `json:"missing_keywords"`
	IsLocked        bool     `json:"is_locked"`
}

// Analysis is the user-facing CV evaluation with the conversion funnel
// applied on top of the raw model output.
type Analysis struct {
	Score              int                `json:"score"`
	MatchLevel         string             `json:"match_level"`
	Summary            string             `json:"summary"`
	HardSkillsAnalysis HardSkillsAnalysis `json:"hard_skills_analysis"`
	ImprovementPlan    []string           `json:"improvement_plan"`
	CTAURL             string             `json:"cta_url"`
	CTAType            string             `json:"cta_type"`
	CTAMessage         string             `json:"cta_message"`
}

// rawAnalysis matches the model's output contract before funnel shaping.
type rawAnalysis struct {
	Score              int      `json:"score"`
	MatchLevel         string   `json:"match_level"`
	Summary            string   `json:"summary"`
	HardSkillsAnalysis struct {
		MatchedKeywords []string `json:"matched_keywords"`
		MissingKeywords []string `json:"missing_keywords"`
	} `json:"hard_skills_analysis"`
	ImprovementPlan []string `json:"improvement_plan"`
}

// Service runs ATS operations through the fallback router.
type Service struct {
	router Router
}

func NewService(router Router) *Service {
	return &Service{router: router}
}

// AnalyzeCV scores cvText against jobDescription and shapes the result for
// the conversion funnel: real gaps are shown, the strategy call is offered
// as the fix for scores below the thresholds.
func (s *Service) AnalyzeCV(ctx context.Context, cvText, jobDescription, lang string) (*Analysis, error) {
	if len(cvText) < minCVChars {
		return nil, fmt.Errorf("cv text too short: %d chars", len(cvText))
	}

	isES := lang != "en"
	systemPrompt := analysisSystemPromptEN
	if isES {
		systemPrompt = analysisSystemPromptES
	}

	userPrompt := ""
	if isES {
		userPrompt = "[CRÍTICO: RESPONDE SIEMPRE EN ESPAÑOL. El resumen, las keywords y el plan deben estar en español.]\n"
	}
	userPrompt += fmt.Sprintf("**JOB DESCRIPTION:**\n%s\n\n**CANDIDATE CV:**\n%s",
		clip(jobDescription, inputCapJob), clip(cvText, inputCapCV))

	temp := analysisTemp
	resp, err := s.router.Route(ctx, llm.RouteRequest{
		Prompt:           userPrompt,
		SystemPrompt:     systemPrompt,
		Phase:            llm.PhaseFinalReport, // deep-analysis routing tier
		ProviderOverride: "auto",
		Options:          &llm.InvokeOptions{JSONMode: true, Temperature: &temp},
	})
	if err != nil {
		return nil, fmt.Errorf("analyze cv: %w", err)
	}

	var raw rawAnalysis
	if err := jsonrepair.Unmarshal(resp.Text, &raw); err != nil {
		return nil, fmt.Errorf("analyze cv: %w", err)
	}

	L_info("ats: cv analyzed", "score", raw.Score, "provider", resp.ProviderUsed, "missingKeywords", len(raw.HardSkillsAnalysis.MissingKeywords))
	return funnel(raw), nil
}

// funnel converts the raw ATS verdict into the product's presentation:
// encouraging match levels, the call-to-action appended below 85, and an
// extra plan step below 80.
func funnel(raw rawAnalysis) *Analysis {
	matchLevel := "Potencial en Desarrollo"
	if raw.Score >= 50 {
		matchLevel = "Alta Probabilidad"
	}

	summary := raw.Summary
	if summary == "" {
		summary = "Análisis completado."
	}
	if raw.Score < 85 {
		summary += "\n\n💡 RECOMENDACIÓN: Para corregir estas brechas de inmediato, te sugerimos agendar una sesión estratégica gratuita."
	}

	plan := raw.ImprovementPlan
	if len(plan) == 0 {
		plan = []string{
			"🚀 Optimiza tus logros con métricas.",
			"🎯 Nivela tus keywords con la vacante.",
		}
	}
	if raw.Score < 80 {
		plan = append(plan, "📅 Agenda una llamada estratégica gratuita inmediata para resolver el nivel requerido y mejorar tu perfil.")
	}

	matched := raw.HardSkillsAnalysis.MatchedKeywords
	if matched == nil {
		matched = []string{}
	}
	missing := raw.HardSkillsAnalysis.MissingKeywords
	if missing == nil {
		missing = []string{}
	}

	return &Analysis{
		Score:      raw.Score,
		MatchLevel: matchLevel,
		Summary:    summary,
		HardSkillsAnalysis: HardSkillsAnalysis{
			MatchedKeywords: matched,
			MissingKeywords: missing,
		},
		ImprovementPlan: plan,
		CTAURL:          scheduleURL,
		CTAType:         "SCHEDULE_CALL",
		CTAMessage:      "Haz que este CV sea IRRESTISTIBLE. Agenda tu llamada estratégica ahora.",
	}
}

// Improvement is one rewritten bullet point.
type Improvement struct {
	Original string `json:"original"`
	Improved string `json:"improved"`
}

// Rewrite is the STAR-method rewrite result.
type Rewrite struct {
	Improvements  []Improvement `json:"improvements"`
	GeneralAdvice string        `json:"general_advice"`
}

// RewriteCV rewrites the weakest experience bullet points using the STAR
// method (Situation, Task, Action, Result).
func (s *Service) RewriteCV(ctx context.Context, cvText string) (*Rewrite, error) {
	if cvText == "" {
		return nil, fmt.Errorf("no cv text to rewrite")
	}

	prompt := fmt.Sprintf(`Role: Expert CV Writer and Career Coach.
Task: Rewrite weak bullet points in the provided CV using the STAR Method (Situation, Task, Action, Result).

Input CV:
"%s"

Instructions:
1. Identify the 3-5 weakest or most vague experience bullet points.
2. Rewrite them to be quantifiable and impact-driven.
3. Keep the tone professional and executive.

Output JSON only:
{
    "improvements": [
        {
            "original": "Responsible for sales in the region.",
            "improved": "Spearheaded regional sales strategy, driving a 20%% revenue increase YoY."
        }
    ],
    "general_advice": "Brief summary of changes made."
}`, clip(cvText, inputCapCV))

	resp, err := s.router.Route(ctx, llm.RouteRequest{
		Prompt:       prompt,
		SystemPrompt: "You are a STAR Method CV rewriter. Output JSON only.",
		Phase:        llm.PhaseCVDeepDive,
		Options:      &llm.InvokeOptions{JSONMode: true},
	})
	if err != nil {
		return nil, fmt.Errorf("rewrite cv: %w", err)
	}

	var rewrite Rewrite
	if err := jsonrepair.Unmarshal(resp.Text, &rewrite); err != nil {
		return nil, fmt.Errorf("rewrite cv: %w", err)
	}
	L_info("ats: cv rewritten", "improvements", len(rewrite.Improvements), "provider", resp.ProviderUsed)
	return &rewrite, nil
}

// GenerateInput describes the candidate for CV generation.
type GenerateInput struct {
	Role     string                 `json:"role"`
	Market   string                 `json:"market"` // "USA", "Europe", "LatAm", ...
	Industry string                 `json:"industry"`
	RawData  map[string]interface{} `json:"rawData"`
}

// GeneratedCV is the drafted CV content.
type GeneratedCV struct {
	Personal struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Phone    string `json:"phone"`
		Location string `json:"location"`
		Summary  string `json:"summary"`
	} `json:"personal"`
	Experience []struct {
		ID          int    `json:"id"`
		Role        string `json:"role"`
		Company     string `json:"company"`
		Date        string `json:"date"`
		Description string `json:"description"`
	} `json:"experience"`
	Education []struct {
		ID     int    `json:"id"`
		Degree string `json:"degree"`
		School string `json:"school"`
		Date   string `json:"date"`
	} `json:"education"`
}

// GenerateCV drafts CV content adapted to the target market's conventions.
// US resumes strip personal data and lead with impact; Europe/LatAm CVs
// keep languages and a fuller structure.
func (s *Service) GenerateCV(ctx context.Context, in GenerateInput) (*GeneratedCV, error) {
	marketRules := `REGLAS EUROPE/LATAM:
1. Philosophy: "Competence + Responsibility". Show technical solidity and soft skills.
2. Format: Clear and professional structure.
3. Personal: Include languages with levels (A1-C2).`
	if in.Market == "USA" {
		marketRules = `REGLAS USA:
1. Philosophy: "Action + Impact". Do not say what you did, say what you ACHIEVED.
2. Format: Extreme brevity. Bullet points starting with strong action verbs.
3. NO PERSONAL DATA: No photo, age, marital status, or religion.
4. Metrics: Quantify results where possible.`
	}

	market := in.Market
	if market == "" {
		market = "Global"
	}

	systemPrompt := fmt.Sprintf(`**IDENTITY:**
You are an expert Resume Writer & Career Strategist with 15 years of experience in Fortune 500 recruiting.

**OBJECTIVE:**
Draft a high-impact, professional CV content based on the user's provided data.

**MARKET CONTEXT: %s**
%s

**OUTPUT FORMAT (JSON ONLY):**
Return a JSON object with "personal" (name, email, phone, location, summary),
"experience" (id, role, company, date, description with bullet points) and
"education" (id, degree, school, date).`, market, marketRules)

	rawData, _ := json.Marshal(in.RawData)
	userPrompt := fmt.Sprintf(`**USER PROFILE:**
Target Role: %s
Industry: %s
Raw Input / Context: %s

Please generate the CV content now.`, in.Role, in.Industry, rawData)

	resp, err := s.router.Route(ctx, llm.RouteRequest{
		Prompt:       userPrompt,
		SystemPrompt: systemPrompt,
		Phase:        llm.PhaseFinalReport,
		Options:      &llm.InvokeOptions{JSONMode: true},
	})
	if err != nil {
		return nil, fmt.Errorf("generate cv: %w", err)
	}

	var cv GeneratedCV
	if err := jsonrepair.Unmarshal(resp.Text, &cv); err != nil {
		return nil, fmt.Errorf("generate cv: %w", err)
	}
	L_info("ats: cv generated", "market", market, "provider", resp.ProviderUsed)
	return &cv, nil
}

func clip(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

// System prompts for AnalyzeCV. The scoring rubric and thresholds are the
// product's ATS contract.
const analysisSystemPromptES = `**IDENTIDAD:**
Eres un **ATS (Sistema de Seguimiento de Candidatos)**. Realiza una evaluación técnica estricta.

**SCORING:**
- Hard Skills (40%), Experiencia (25%), Idiomas (10%), Educación (10%), Soft (10%), Formato (5%).

**UMBRALES:**
0-59: Rechazado | 60-79: Preseleccionado | 80-100: Aceptado.

**IMPORTANTE:** Tu análisis, sumario y plan de mejora deben estar 100% en ESPAÑOL.

**SALIDA (JSON ÚNICAMENTE):**
{
    "score": Integer,
    "match_level": "Aceptado" | "Preseleccionado" | "Rechazado",
    "summary": "Justificación técnica en ESPAÑOL.",
    "hard_skills_analysis": { "missing_keywords": [], "matched_keywords": [] },
    "improvement_plan": ["Paso 1 en ESPAÑOL", "Paso 2..."]
}`

const analysisSystemPromptEN = `**IDENTITY:**
You are a **Production-Grade ATS**. Perform a strict evaluation.

**OUTPUT FORMAT (JSON ONLY):**
{
    "score": Integer,
    "match_level": "Aceptado" | "Preseleccionado" | "Rechazado",
    "summary": "Technical justification.",
    "hard_skills_analysis": { "missing_keywords": [], "matched_keywords": [] },
    "improvement_plan": []
}`
