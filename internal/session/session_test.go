package session

import (
	"testing"
	"time"

	"github.com/puentesglobales/careermastery/internal/llm"
)

func TestPhaseForTurnThresholds(t *testing.T) {
	cases := []struct {
		turn int
		want llm.Phase
	}{
		{0, llm.PhaseIcebreaker},
		{1, llm.PhaseIcebreaker},
		{2, llm.PhaseIcebreaker},
		{3, llm.PhaseCVDeepDive},
		{4, llm.PhaseCVDeepDive},
		{5, llm.PhaseCVDeepDive},
		{6, llm.PhaseSituational},
		{7, llm.PhaseSituational},
		{8, llm.PhaseSituational},
		{9, llm.PhasePressure},
		{10, llm.PhasePressure},
		{11, llm.PhasePressure},
		{12, llm.PhaseClosing},
		{13, llm.PhaseClosing},
		{100, llm.PhaseClosing},
	}
	for _, tc := range cases {
		if got := PhaseForTurn(tc.turn); got != tc.want {
			t.Errorf("PhaseForTurn(%d) = %s, want %s", tc.turn, got, tc.want)
		}
	}
}

func TestPhaseForTurnMonotonic(t *testing.T) {
	order := map[llm.Phase]int{
		llm.PhaseIcebreaker:  0,
		llm.PhaseCVDeepDive:  1,
		llm.PhaseSituational: 2,
		llm.PhasePressure:    3,
		llm.PhaseClosing:     4,
	}
	prev := -1
	for turn := 0; turn <= 50; turn++ {
		rank, ok := order[PhaseForTurn(turn)]
		if !ok {
			t.Fatalf("PhaseForTurn(%d) returned unknown phase", turn)
		}
		if rank < prev {
			t.Errorf("phase rank regressed at turn %d", turn)
		}
		prev = rank
	}
}

func TestAdvanceTurnProgression(t *testing.T) {
	s := &Session{CurrentPhase: PhaseForTurn(0)}

	want := []llm.Phase{
		llm.PhaseIcebreaker, llm.PhaseIcebreaker,
		llm.PhaseCVDeepDive, llm.PhaseCVDeepDive, llm.PhaseCVDeepDive,
		llm.PhaseSituational, llm.PhaseSituational, llm.PhaseSituational,
		llm.PhasePressure, llm.PhasePressure, llm.PhasePressure,
		llm.PhaseClosing, llm.PhaseClosing,
	}
	for i, phase := range want {
		s.AdvanceTurn()
		if s.TurnCount != i+1 {
			t.Fatalf("turn count = %d after %d advances", s.TurnCount, i+1)
		}
		if s.CurrentPhase != phase {
			t.Errorf("turn %d: phase = %s, want %s", s.TurnCount, s.CurrentPhase, phase)
		}
	}
}

func TestGetOrCreateIdempotent(t *testing.T) {
	store := NewMemoryStore(DefaultTimeout, nil)

	first := store.GetOrCreate("user-1")
	second := store.GetOrCreate("user-1")
	if first != second {
		t.Error("GetOrCreate returned different sessions for the same user")
	}
	if first.ID != second.ID {
		t.Errorf("session IDs differ: %s vs %s", first.ID, second.ID)
	}
	if store.Len() != 1 {
		t.Errorf("store len = %d, want 1", store.Len())
	}
}

func TestGetOrCreateSeparateUsers(t *testing.T) {
	store := NewMemoryStore(DefaultTimeout, nil)
	a := store.GetOrCreate("user-a")
	b := store.GetOrCreate("user-b")
	if a.ID == b.ID {
		t.Error("sessions for different users share an ID")
	}
	if store.Len() != 2 {
		t.Errorf("store len = %d, want 2", store.Len())
	}
}

func TestSweepEvictsIdleSessions(t *testing.T) {
	clock := time.Date(2024, 11, 1, 9, 0, 0, 0, time.UTC)
	store := NewMemoryStore(30*time.Minute, func() time.Time { return clock })

	sess := store.GetOrCreate("idle-user")
	store.GetOrCreate("fresh-user")

	// First user goes idle past the timeout; second stays active.
	clock = clock.Add(31 * time.Minute)
	store.Touch("fresh-user")

	evicted := store.Sweep()
	if evicted != 1 {
		t.Fatalf("Sweep evicted %d, want 1", evicted)
	}
	if sess.Status != StatusAbandoned {
		t.Errorf("evicted session status = %s, want %s", sess.Status, StatusAbandoned)
	}
	if store.Get("idle-user") != nil {
		t.Error("idle session still in the index after sweep")
	}
	if store.Get("fresh-user") == nil {
		t.Error("fresh session lost by sweep")
	}
}

func TestSweepReissuesNewSessionAfterEviction(t *testing.T) {
	clock := time.Date(2024, 11, 1, 9, 0, 0, 0, time.UTC)
	store := NewMemoryStore(30*time.Minute, func() time.Time { return clock })

	first := store.GetOrCreate("user-1")
	clock = clock.Add(time.Hour)
	store.Sweep()

	second := store.GetOrCreate("user-1")
	if first.ID == second.ID {
		t.Error("expected a fresh session identity after eviction")
	}
	if second.Status != StatusActive {
		t.Errorf("new session status = %s, want %s", second.Status, StatusActive)
	}
}

func TestAppendMessageAndLLMHistory(t *testing.T) {
	now := time.Date(2024, 11, 1, 9, 0, 0, 0, time.UTC)
	s := &Session{}
	id1 := s.AppendMessage(llm.RoleUser, "hola", now)
	id2 := s.AppendMessage(llm.RoleAssistant, "buenos días", now)
	if id1 == "" || id1 == id2 {
		t.Error("message IDs should be unique and non-empty")
	}

	hist := s.LLMHistory()
	if len(hist) != 2 {
		t.Fatalf("history length = %d, want 2", len(hist))
	}
	if hist[0].Role != llm.RoleUser || hist[0].Content != "hola" {
		t.Errorf("unexpected first entry: %+v", hist[0])
	}
}

func TestAverageScore(t *testing.T) {
	s := &Session{}
	if s.AverageScore() != 0 {
		t.Error("empty session should average 0")
	}
	s.RecordScore(6)
	s.AdvanceTurn()
	s.RecordScore(8)
	if avg := s.AverageScore(); avg != 7 {
		t.Errorf("average = %v, want 7", avg)
	}
}

func TestRecordProviderDeduplicates(t *testing.T) {
	s := &Session{}
	s.RecordProvider("gemini")
	s.RecordProvider("claude")
	s.RecordProvider("gemini")
	if len(s.ProvidersUsed) != 2 {
		t.Errorf("providersUsed = %v, want 2 unique entries", s.ProvidersUsed)
	}
}
