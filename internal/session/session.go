// Package session provides in-memory interview session storage with
// phase progression and timeout-based eviction.
package session

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/puentesglobales/careermastery/internal/llm"
)

// Session statuses. Sessions are created active and only ever leave the
// store by the sweep marking them abandoned.
const (
	StatusActive    = "active"
	StatusCompleted = "completed"
	StatusAbandoned = "abandoned"
)

// TurnScore is the per-answer evaluation recorded during the interview,
// kept for the final report.
type TurnScore struct {
	Turn  int `json:"turn"`
	Score int `json:"score"` // 1..10
}

// Message is one transcript entry. Role and Content mirror llm.Message;
// the ID and timestamp exist for the transcript and report, not the wire.
type Message struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Session is one user's interview state. Mutated only between provider
// calls by the single logical request for that user; concurrent multi-tab
// use is last-write-wins by design of the product, not the store.
type Session struct {
	ID              string      `json:"id"`
	UserID          string      `json:"userId"`
	Status          string      `json:"status"`
	Language        string      `json:"language"` // "es" or "en"
	TargetRole      string      `json:"targetRole"`
	CVSummary       string      `json:"cvSummary"`
	CurrentPhase    llm.Phase   `json:"currentPhase"`
	TurnCount       int         `json:"turnCount"`
	History         []Message   `json:"history"`
	Scores          []TurnScore `json:"scores"`
	Topics          []string    `json:"topicsCovered"`
	MessagesSummary string      `json:"messagesSummary,omitempty"`
	ProvidersUsed   []string    `json:"providersUsed"`
	CreatedAt       time.Time   `json:"createdAt"`
	LastActivity    time.Time   `json:"lastActivity"`
}

// newSessionID builds the session identity from its owner and creation time.
func newSessionID(userID string, now time.Time) string {
	return fmt.Sprintf("%s_%d", userID, now.UnixMilli())
}

// AppendMessage records one transcript entry and returns its generated ID.
func (s *Session) AppendMessage(role, content string, now time.Time) string {
	id := uuid.NewString()
	s.History = append(s.History, Message{
		ID:        id,
		Role:      role,
		Content:   content,
		Timestamp: now,
	})
	return id
}

// LLMHistory converts the transcript to the provider-agnostic wire form.
func (s *Session) LLMHistory() []llm.Message {
	out := make([]llm.Message, len(s.History))
	for i, m := range s.History {
		out[i] = llm.Message{Role: m.Role, Content: m.Content}
	}
	return out
}

// RecordScore appends one turn evaluation.
func (s *Session) RecordScore(score int) {
	s.Scores = append(s.Scores, TurnScore{Turn: s.TurnCount, Score: score})
}

// RecordProvider tracks which providers served this session, deduplicated,
// for the cost section of the final report.
func (s *Session) RecordProvider(name string) {
	for _, p := range s.ProvidersUsed {
		if p == name {
			return
		}
	}
	s.ProvidersUsed = append(s.ProvidersUsed, name)
}

// AverageScore returns the mean of recorded scores, 0 when none.
func (s *Session) AverageScore() float64 {
	if len(s.Scores) == 0 {
		return 0
	}
	total := 0
	for _, sc := range s.Scores {
		total += sc.Score
	}
	return float64(total) / float64(len(s.Scores))
}

// PhaseForTurn maps a turn counter to its interview phase. Total over all
// non-negative turn counts and monotonic in turn order.
func PhaseForTurn(turn int) llm.Phase {
	switch {
	case turn <= 2:
		return llm.PhaseIcebreaker
	case turn <= 5:
		return llm.PhaseCVDeepDive
	case turn <= 8:
		return llm.PhaseSituational
	case turn <= 11:
		return llm.PhasePressure
	default:
		return llm.PhaseClosing
	}
}

// AdvanceTurn increments the turn counter and recomputes the phase.
// Called synchronously before any provider call, so turn numbering is
// strictly increasing per session.
func (s *Session) AdvanceTurn() {
	s.TurnCount++
	s.CurrentPhase = PhaseForTurn(s.TurnCount)
}
