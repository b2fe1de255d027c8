// Package coach implements the interview simulator: edge-case screening,
// sliding-window memory, three-layer prompting, phase-aware provider routing
// and final report generation.
package coach

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/puentesglobales/careermastery/internal/edgecase"
	"github.com/puentesglobales/careermastery/internal/jsonrepair"
	"github.com/puentesglobales/careermastery/internal/llm"
	. "github.com/puentesglobales/careermastery/internal/logging"
	"github.com/puentesglobales/careermastery/internal/memory"
	"github.com/puentesglobales/careermastery/internal/session"
)

// EdgeCaseProvider is the provider label reported when a turn was answered
// by the pre-filter without any network call.
const EdgeCaseProvider = "edge_case_handler"

// errorRecoveryProvider labels turns answered by a canned recovery message.
const errorRecoveryProvider = "error_recovery"

// LanguageFeedback is the optional CEFR-level coaching block.
type LanguageFeedback struct {
	LevelCheck string `json:"level_check"`
	Correction string `json:"correction"`
	StyleTip   string `json:"style_tip"`
}

// Reply is one interview turn's outcome, whatever path produced it.
type Reply struct {
	Dialogue         string             `json:"dialogue"`
	Feedback         *edgecase.Feedback `json:"feedback"`
	LanguageFeedback *LanguageFeedback  `json:"language_feedback"`
	Stage            string             `json:"stage"`
	EmotionDetected  string             `json:"emotion_detected"`
	Provider         string             `json:"provider,omitempty"`
	Action           string             `json:"action,omitempty"`
}

// Request is one interview turn's input.
type Request struct {
	UserID         string        `json:"userId"`
	History        []llm.Message `json:"history"` // full transcript, last entry is the current user message
	CVText         string        `json:"cvText"`
	JobDescription string        `json:"jobDescription"`
	Mode           string        `json:"mode"`  // ALLY, TECHNICAL, STRESS
	Lang           string        `json:"lang"`  // "es" or "en"
	Level          string        `json:"level"` // CEFR level
}

// Router is the slice of the fallback router the coach consumes.
type Router interface {
	Route(ctx context.Context, req llm.RouteRequest) (*llm.RouteResponse, error)
}

// Coach orchestrates interview turns over the router and session store.
type Coach struct {
	router Router
	store  session.Store
	clock  func() time.Time
}

// New creates a Coach. clock defaults to time.Now.
func New(router Router, store session.Store, clock func() time.Time) *Coach {
	if clock == nil {
		clock = time.Now
	}
	return &Coach{router: router, store: store, clock: clock}
}

// GetInterviewResponse runs one full interview turn: edge-case screening,
// session/phase bookkeeping, memory windowing, prompting, routing, parsing
// and score tracking. Per the guaranteed-response law it only errors on
// context cancellation; provider failures degrade to a recovery reply.
func (c *Coach) GetInterviewResponse(ctx context.Context, req Request) (*Reply, error) {
	lang := normalizeLang(req.Lang)
	mode := req.Mode
	if mode == "" {
		mode = ModeAlly
	}

	now := c.clock()
	sess := c.store.GetOrCreate(req.UserID)
	sess.Language = lang

	var lastUserMessage string
	if len(req.History) > 0 {
		lastUserMessage = req.History[len(req.History)-1].Content
	}

	// Sessions are ephemeral; a fresh one adopts the client-held transcript
	// so the window survives a server restart.
	if len(sess.History) == 0 && len(req.History) > 1 {
		for _, m := range req.History[:len(req.History)-1] {
			sess.AppendMessage(m.Role, m.Content, now)
		}
	}
	if lastUserMessage != "" {
		sess.AppendMessage(llm.RoleUser, lastUserMessage, now)
	}

	// Edge cases answer without touching a provider. The turn still counts
	// and scored categories feed the final report.
	if lastUserMessage != "" {
		if ec := edgecase.Classify(lastUserMessage, lang); ec != nil {
			sess.AdvanceTurn()
			sess.AppendMessage(llm.RoleAssistant, ec.Dialogue, now)
			if ec.Feedback != nil {
				sess.RecordScore(ec.Feedback.Score)
			}
			stage := ec.Stage
			if stage == "" {
				stage = string(sess.CurrentPhase)
			}
			L_info("coach: turn handled by edge-case filter", "category", ec.Category, "userId", req.UserID, "turn", sess.TurnCount)
			return &Reply{
				Dialogue:        ec.Dialogue,
				Feedback:        ec.Feedback,
				Stage:           stage,
				EmotionDetected: ec.EmotionDetected,
				Provider:        EdgeCaseProvider,
				Action:          ec.Action,
			}, nil
		}
	}

	sess.AdvanceTurn()
	c.store.Touch(req.UserID)

	recent, summary := memory.Window(sess.LLMHistory(), memory.DefaultKeep, lang)
	if summary != "" {
		sess.MessagesSummary = summary
	}

	systemPrompt := BuildSystemPrompt(PromptInput{
		CVText:         req.CVText,
		JobDescription: req.JobDescription,
		Mode:           mode,
		Lang:           lang,
		Level:          req.Level,
		Session:        sess,
	})

	userMessage := lastUserMessage
	if userMessage == "" {
		if lang == "es" {
			userMessage = "Hola"
		} else {
			userMessage = "Hello"
		}
	}
	// Smaller models drift out of Spanish without an inline reminder.
	if lang == "es" {
		userMessage = "[CRÍTICO: RESPONDE EN ESPAÑOL] " + userMessage
	}

	// The current message travels as the prompt, not as history.
	historyForRouter := recent
	if lastUserMessage != "" && len(historyForRouter) > 0 {
		historyForRouter = historyForRouter[:len(historyForRouter)-1]
	}

	resp, err := c.router.Route(ctx, llm.RouteRequest{
		Prompt:       userMessage,
		SystemPrompt: systemPrompt,
		History:      historyForRouter,
		Phase:        sess.CurrentPhase,
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		var exhausted *llm.ExhaustedError
		msgKey := "ai_error"
		if errors.As(err, &exhausted) {
			msgKey = "all_providers_failed"
		}
		L_error("coach: interview turn failed", "userId", req.UserID, "turn", sess.TurnCount, "error", err)
		dialogue := RecoveryMessage(lang, msgKey)
		sess.AppendMessage(llm.RoleAssistant, dialogue, now)
		return &Reply{
			Dialogue:        dialogue,
			Stage:           string(sess.CurrentPhase),
			EmotionDetected: "neutral",
			Provider:        errorRecoveryProvider,
		}, nil
	}
	sess.RecordProvider(resp.ProviderUsed)

	reply := parseReply(resp.Text)
	reply.Provider = resp.ProviderUsed
	if reply.Stage == "" {
		reply.Stage = string(sess.CurrentPhase)
	}
	sess.AppendMessage(llm.RoleAssistant, reply.Dialogue, now)

	if reply.Feedback != nil {
		sess.RecordScore(reply.Feedback.Score)
	}

	// Non-blocking too-long overlay: the candidate still got a real answer,
	// plus the canned synthesis nudge.
	if lastUserMessage != "" && edgecase.IsTooLong(lastUserMessage) && reply.Feedback != nil {
		if overlay := edgecase.TooLongFeedback(lang); overlay.Feedback != nil {
			reply.Feedback.Suggestion = strings.TrimSpace(reply.Feedback.Suggestion + " " + overlay.Feedback.Suggestion)
		}
	}

	return reply, nil
}

// parseReply decodes the provider's JSON contract, repairing damaged output.
// A response that is not JSON at all becomes a plain dialogue line rather
// than a discarded turn.
func parseReply(raw string) *Reply {
	var reply Reply
	if err := jsonrepair.Unmarshal(raw, &reply); err != nil || reply.Dialogue == "" {
		L_warn("coach: reply is not structured, using raw text as dialogue", "rawChars", len(raw))
		dialogue := strings.TrimSpace(raw)
		if len(dialogue) > 500 {
			dialogue = dialogue[:500]
		}
		return &Reply{
			Dialogue:        dialogue,
			Stage:           "RECOVERY",
			EmotionDetected: "neutral",
		}
	}
	return &reply
}

// FinalReport is the end-of-session assessment.
type FinalReport struct {
	OverallScore       int      `json:"overall_score"`
	Strengths          []string `json:"strengths"`
	Weaknesses         []string `json:"weaknesses"`
	Recommendations    []string `json:"recommendations"`
	InterviewReadiness string   `json:"interview_readiness"` // READY | NEEDS_WORK | NOT_READY
	Summary            string   `json:"summary"`
}

// GenerateFinalReport produces the session assessment via the FINAL_REPORT
// routing phase. On provider failure it degrades to an arithmetic report
// from the recorded scores instead of erroring.
func (c *Coach) GenerateFinalReport(ctx context.Context, userID, cvText, jobDescription, lang string) (*FinalReport, error) {
	sess := c.store.Get(userID)
	if sess == nil || len(sess.Scores) == 0 {
		return nil, fmt.Errorf("no session data available for user %s", userID)
	}
	lang = normalizeLang(lang)

	avg := int(sess.AverageScore() + 0.5)
	prompt := reportPrompt(sess, cvText, jobDescription, lang, avg)

	resp, err := c.router.Route(ctx, llm.RouteRequest{
		Prompt:       prompt,
		SystemPrompt: "You are an expert career coach generating a final assessment report. Respond ONLY with valid JSON.",
		Phase:        llm.PhaseFinalReport,
		Options:      &llm.InvokeOptions{JSONMode: true},
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		L_error("coach: final report generation failed, using arithmetic fallback", "userId", userID, "error", err)
		return arithmeticReport(sess, lang, avg), nil
	}

	var report FinalReport
	if jrErr := jsonrepair.Unmarshal(resp.Text, &report); jrErr != nil {
		L_warn("coach: final report not parseable, using arithmetic fallback", "userId", userID, "error", jrErr)
		return arithmeticReport(sess, lang, avg), nil
	}
	sess.Status = session.StatusCompleted
	return &report, nil
}

func reportPrompt(sess *session.Session, cvText, jobDescription, lang string, avg int) string {
	scores, _ := json.Marshal(sess.Scores)
	topics := strings.Join(sess.Topics, ", ")

	if lang == "es" {
		if topics == "" {
			topics = "Varios"
		}
		return fmt.Sprintf(`Genera un reporte final de entrevista basado en estos datos:
- Score promedio: %d%%
- Scores por turno: %s
- Temas cubiertos: %s
- CV del candidato: %s
- Vacante: %s

Genera un JSON con:
{
    "overall_score": number,
    "strengths": ["...", "..."],
    "weaknesses": ["...", "..."],
    "recommendations": ["...", "..."],
    "interview_readiness": "READY | NEEDS_WORK | NOT_READY",
    "summary": "Párrafo resumen"
}`, avg, scores, topics, clip(cvText, 1000), clip(jobDescription, 500))
	}

	if topics == "" {
		topics = "Various"
	}
	return fmt.Sprintf(`Generate a final interview report based on this data:
- Average score: %d%%
- Per-turn scores: %s
- Topics covered: %s
- Candidate CV: %s
- Job: %s

Generate a JSON with:
{
    "overall_score": number,
    "strengths": ["...", "..."],
    "weaknesses": ["...", "..."],
    "recommendations": ["...", "..."],
    "interview_readiness": "READY | NEEDS_WORK | NOT_READY",
    "summary": "Summary paragraph"
}`, avg, scores, topics, clip(cvText, 1000), clip(jobDescription, 500))
}

// arithmeticReport is the no-provider degradation path: a report computed
// purely from recorded scores.
func arithmeticReport(sess *session.Session, lang string, avg int) *FinalReport {
	readiness := "NEEDS_WORK"
	if avg >= 70 {
		readiness = "READY"
	}
	summary := fmt.Sprintf("Session completed with average score of %d%%.", avg)
	if lang == "es" {
		summary = fmt.Sprintf("Sesión completada con score promedio de %d%%.", avg)
	}
	return &FinalReport{
		OverallScore:       avg,
		Strengths:          []string{"Session completed"},
		Weaknesses:         []string{"Report generation failed"},
		Recommendations:    []string{"Try again"},
		InterviewReadiness: readiness,
		Summary:            summary,
	}
}
