// Package jsonrepair extracts structured JSON from LLM responses that may be
// wrapped in prose or markdown fences. Models asked for JSON frequently
// return "Here is the analysis:\n```json\n{...}\n```" instead of bare JSON.
package jsonrepair

import (
	"encoding/json"
	"fmt"
	"strings"

	. "github.com/puentesglobales/careermastery/internal/logging"
)

// ParseError is returned when every repair stage failed. Callers decide the
// degradation path (retry, arithmetic fallback, canned response); the raw
// text is preserved for the error log.
type ParseError struct {
	Raw string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("response is not valid JSON: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Unmarshal parses raw into v, repairing common LLM formatting damage.
// Three stages, cheapest first:
//  1. strict parse of the trimmed text
//  2. strip markdown code fences and parse the body
//  3. take the substring from the first '{' to the last '}' and parse that
//
// Returns *ParseError when all three fail.
func Unmarshal(raw string, v interface{}) error {
	trimmed := strings.TrimSpace(raw)

	if err := json.Unmarshal([]byte(trimmed), v); err == nil {
		return nil
	}

	if body, ok := stripFences(trimmed); ok {
		if err := json.Unmarshal([]byte(body), v); err == nil {
			L_debug("jsonrepair: recovered from fenced block", "chars", len(body))
			return nil
		}
	}

	if body, ok := braceSubstring(trimmed); ok {
		if err := json.Unmarshal([]byte(body), v); err == nil {
			L_debug("jsonrepair: recovered from brace substring", "chars", len(body))
			return nil
		}
	}

	err := json.Unmarshal([]byte(trimmed), v)
	L_warn("jsonrepair: all repair stages failed", "rawChars", len(raw), "error", err)
	return &ParseError{Raw: raw, Err: err}
}

// stripFences extracts the body of the first markdown code fence, tolerating
// a language tag ("```json") and prose around the fence.
func stripFences(s string) (string, bool) {
	start := strings.Index(s, "```")
	if start < 0 {
		return "", false
	}
	body := s[start+3:]

	// Drop the language tag line if present.
	if nl := strings.IndexByte(body, '\n'); nl >= 0 {
		firstLine := strings.TrimSpace(body[:nl])
		if firstLine == "" || isLanguageTag(firstLine) {
			body = body[nl+1:]
		}
	}

	end := strings.Index(body, "```")
	if end < 0 {
		return strings.TrimSpace(body), true
	}
	return strings.TrimSpace(body[:end]), true
}

func isLanguageTag(s string) bool {
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') {
			return false
		}
	}
	return len(s) <= 10
}

// braceSubstring returns the slice between the first '{' and the last '}'.
// Catches leading prose and trailing commentary around an otherwise intact
// JSON object.
func braceSubstring(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	end := strings.LastIndexByte(s, '}')
	if start < 0 || end < start {
		return "", false
	}
	return s[start : end+1], true
}
