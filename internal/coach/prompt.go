package coach

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/puentesglobales/careermastery/internal/llm"
	"github.com/puentesglobales/careermastery/internal/session"
)

func normalizeLang(lang string) string {
	if strings.HasPrefix(strings.ToLower(lang), "es") {
		return "es"
	}
	return "en"
}

// PromptInput carries everything the three prompt layers need.
type PromptInput struct {
	CVText         string
	JobDescription string
	Mode           string // ALLY, TECHNICAL, STRESS
	Lang           string
	Level          string // CEFR level, e.g. "B2"
	Session        *session.Session
}

// BuildSystemPrompt assembles the full system prompt from its three layers:
// constitution (who Alex is), session context (CV, job, phase, memory) and
// output instructions (language rule, JSON contract).
func BuildSystemPrompt(in PromptInput) string {
	return buildConstitutionLayer(in.Mode, in.Lang) + "\n\n" +
		buildContextLayer(in) + "\n\n" +
		buildOutputLayer(in.Lang)
}

// Layer 1: identity, tone, laws and limits. Not modifiable per request.
func buildConstitutionLayer(mode, lang string) string {
	l := normalizeLang(lang)

	tone := modeTone[mode]
	if tone == nil {
		tone = modeTone[ModeAlly]
	}

	return strings.TrimSpace(fmt.Sprintf(`
=== CONSTITUCIÓN DE ALEX (NO MODIFICABLE) ===

%s

%s

%s

LEYES FUNDAMENTALES:
%s

%s

=== FIN CONSTITUCIÓN ===
`, identityStatement[l], baseTone[l], tone[l], strings.Join(laws[l], "\n"), limits[l]))
}

// Layer 2: per-session context. CV and job description are bounded; the
// sliding-window summary and score trend come from the session state.
func buildContextLayer(in PromptInput) string {
	l := normalizeLang(in.Lang)
	isES := l == "es"

	phase := llm.PhaseIcebreaker
	turn := 0
	if in.Session != nil {
		phase = in.Session.CurrentPhase
		turn = in.Session.TurnCount
	}
	info, ok := phaseTable[phase]
	if !ok {
		info = phaseTable[llm.PhaseIcebreaker]
	}
	phaseName, phaseDesc := info.NameEN, info.DescEN
	if isES {
		phaseName, phaseDesc = info.NameES, info.DescES
	}

	var extras []string
	if in.Session != nil {
		if summary := in.Session.MessagesSummary; summary != "" {
			if isES {
				extras = append(extras, "RESUMEN DE LA CONVERSACIÓN HASTA AHORA:\n"+summary)
			} else {
				extras = append(extras, "CONVERSATION SUMMARY SO FAR:\n"+summary)
			}
		}
		if len(in.Session.Topics) > 0 {
			if isES {
				extras = append(extras, "TEMAS YA CUBIERTOS (NO repetir): "+strings.Join(in.Session.Topics, ", "))
			} else {
				extras = append(extras, "TOPICS ALREADY COVERED (DO NOT repeat): "+strings.Join(in.Session.Topics, ", "))
			}
		}
		if trend := scoreTrend(in.Session, isES); trend != "" {
			extras = append(extras, trend)
		}
	}

	return strings.TrimSpace(fmt.Sprintf(`
=== CONTEXTO DE SESIÓN ===

MODO: %s
FASE ACTUAL: %s — %s
TURNO: %d

CV DEL CANDIDATO:
%s

VACANTE OBJETIVO:
%s

%s

=== FIN CONTEXTO ===
`, in.Mode, phaseName, phaseDesc, turn, SummarizeCV(in.CVText), clip(in.JobDescription, 1500), strings.Join(extras, "\n")))
}

// Layer 3: output contract. The language rule is aggressive on purpose;
// smaller models drift into English without it.
func buildOutputLayer(lang string) string {
	l := normalizeLang(lang)

	var langRule string
	if l == "es" {
		langRule = `**REGLA DE ORO: HABLA 100% EN ESPAÑOL.**
- Tienes PROHIBIDO hablar en inglés.
- Si respondes en inglés, fallarás la tarea.
- TODO tu diálogo, feedback y análisis debe ser en ESPAÑOL.`
	} else {
		langRule = `**GOLDEN RULE: SPEAK 100% IN ENGLISH.**
- You are FORBIDDEN from speaking in other languages.
- ALL your dialogue, feedback and analysis must be in ENGLISH.`
	}

	return strings.TrimSpace(fmt.Sprintf(`
=== INSTRUCCIONES DE OUTPUT ===

%s

%s

REGLAS CRÍTICAS DE OUTPUT:
- Devuelve SOLO JSON válido. Sin texto antes ni después.
- NO uses markdown code blocks. Solo JSON puro.
- El campo "dialogue" debe tener MÁXIMO 2-3 oraciones naturales.
- El campo "stage" debe reflejar la fase actual de la entrevista.

=== FIN INSTRUCCIONES ===
`, langRule, responseFormat[l]))
}

func scoreTrend(s *session.Session, isES bool) string {
	if len(s.Scores) == 0 {
		return ""
	}
	parts := make([]string, len(s.Scores))
	for i, sc := range s.Scores {
		parts[i] = fmt.Sprintf("%d", sc.Score)
	}
	last := s.Scores[len(s.Scores)-1].Score
	if isES {
		return fmt.Sprintf("TENDENCIA DE SCORES: %s (último: %d%%)", strings.Join(parts, " → "), last)
	}
	return fmt.Sprintf("SCORE TREND: %s (latest: %d%%)", strings.Join(parts, " → "), last)
}

func clip(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

// cvHeaderPatterns recognize section headers across Spanish and English CVs.
var cvHeaderPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:experiencia|experience|trabajo|work|empleo)`),
	regexp.MustCompile(`(?i)(?:educación|education|formación|studies)`),
	regexp.MustCompile(`(?i)(?:habilidades|skills|competencias|abilities)`),
	regexp.MustCompile(`(?i)(?:logros|achievements|accomplishments)`),
	regexp.MustCompile(`(?i)(?:certificaciones|certifications)`),
	regexp.MustCompile(`(?i)(?:idiomas|languages)`),
}

const (
	cvPassThroughChars = 2000
	cvSummaryMaxChars  = 3000
)

// SummarizeCV extracts key CV sections by header rather than blind
// truncation. Short CVs pass through untouched.
func SummarizeCV(cvText string) string {
	if cvText == "" {
		return "(No CV provided)"
	}
	if len(cvText) <= cvPassThroughChars {
		return cvText
	}

	var sections []string
	var current strings.Builder
	charCount := 0

	for _, line := range strings.Split(cvText, "\n") {
		if charCount > cvSummaryMaxChars {
			break
		}
		isHeader := false
		for _, p := range cvHeaderPatterns {
			if p.MatchString(line) {
				isHeader = true
				break
			}
		}
		if isHeader {
			if current.Len() > 0 {
				sections = append(sections, current.String())
				current.Reset()
			}
		}
		current.WriteString(line)
		current.WriteString("\n")
		charCount += len(line)
	}
	if current.Len() > 0 {
		sections = append(sections, current.String())
	}

	return clip(strings.Join(sections, "\n---\n"), cvSummaryMaxChars)
}
