package jsonrepair

import (
	"errors"
	"testing"
)

type scorePayload struct {
	Score    int    `json:"score"`
	Feedback string `json:"feedback"`
}

func TestUnmarshalStrict(t *testing.T) {
	var p scorePayload
	if err := Unmarshal(`{"score": 8, "feedback": "solid"}`, &p); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if p.Score != 8 || p.Feedback != "solid" {
		t.Errorf("unexpected payload: %+v", p)
	}
}

func TestUnmarshalFencedWithLanguageTag(t *testing.T) {
	raw := "Here is the evaluation:\n```json\n{\"score\": 6, \"feedback\": \"ok\"}\n```\nLet me know if you need more."
	var p scorePayload
	if err := Unmarshal(raw, &p); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if p.Score != 6 {
		t.Errorf("score = %d, want 6", p.Score)
	}
}

func TestUnmarshalBareFence(t *testing.T) {
	raw := "```\n{\"score\": 4, \"feedback\": \"weak\"}\n```"
	var p scorePayload
	if err := Unmarshal(raw, &p); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if p.Score != 4 {
		t.Errorf("score = %d, want 4", p.Score)
	}
}

func TestUnmarshalBraceSubstring(t *testing.T) {
	raw := `Sure! The result is {"score": 9, "feedback": "great"} as requested.`
	var p scorePayload
	if err := Unmarshal(raw, &p); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if p.Score != 9 || p.Feedback != "great" {
		t.Errorf("unexpected payload: %+v", p)
	}
}

func TestUnmarshalNestedBraces(t *testing.T) {
	raw := `Analysis: {"score": 7, "feedback": "detail", "extra": {"depth": 2}} done.`
	var out map[string]interface{}
	if err := Unmarshal(raw, &out); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if out["score"].(float64) != 7 {
		t.Errorf("score = %v, want 7", out["score"])
	}
}

func TestUnmarshalFailureReturnsParseError(t *testing.T) {
	var p scorePayload
	err := Unmarshal("I could not produce the report, sorry.", &p)
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("error = %v, want *ParseError", err)
	}
	if parseErr.Raw == "" {
		t.Error("ParseError should preserve the raw text")
	}
}

func TestUnmarshalTruncatedJSONFails(t *testing.T) {
	var p scorePayload
	err := Unmarshal(`{"score": 8, "feedback": "cut off`, &p)
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("error = %v, want *ParseError for truncated JSON", err)
	}
}
