// Package memory bounds the conversational context forwarded to providers.
// Recent turns travel verbatim; older turns are compressed into a one-line-
// per-message summary that the coach re-injects into the system prompt.
package memory

import (
	"strings"

	"github.com/puentesglobales/careermastery/internal/llm"
)

// DefaultKeep is how many recent messages survive uncompressed.
const DefaultKeep = 6

// summaryCharLimit caps each summarized message's content.
const summaryCharLimit = 100

// Window splits full into the recent tail and a summary of everything older.
// When len(full) <= keep the whole history is recent and summary is empty.
// recent preserves original order and exact content.
func Window(full []llm.Message, keep int, lang string) (recent []llm.Message, summary string) {
	if keep <= 0 {
		keep = DefaultKeep
	}
	if len(full) <= keep {
		return full, ""
	}

	older := full[:len(full)-keep]
	recent = full[len(full)-keep:]

	lines := make([]string, len(older))
	for i, msg := range older {
		lines[i] = roleLabel(msg.Role, lang) + ": " + truncate(msg.Content, summaryCharLimit)
	}
	return recent, strings.Join(lines, "\n")
}

// roleLabel renders a role for the summary in the session's language.
// The assistant persona is named Alex in both languages.
func roleLabel(role, lang string) string {
	if role == llm.RoleUser {
		if lang == "en" {
			return "Candidate"
		}
		return "Candidato"
	}
	return "Alex"
}

// truncate cuts s at limit runes, appending an ellipsis marker when cut.
func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}
