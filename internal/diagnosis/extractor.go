package diagnosis

import (
	"context"
	"strings"

	"diagnostic-ai-agent/internal/session"
)

// symptomErrorSentinel marks a failed extraction. Downstream stages treat it
// as "no structured data available" and fall back to raw user text.
const symptomErrorSentinel = "Error processing symptoms"

// extractSymptoms derives a structured summary of reported symptoms from the
// user side of the conversation. The result is memoized against the message
// count by the caller, so redundant extractions are avoided.
func (e *Engine) extractSymptoms(ctx context.Context, messages []session.Message) session.SymptomDetails {
	var userParts []string
	for _, m := range messages {
		if m.Role == session.RoleUser {
			userParts = append(userParts, m.Content)
		}
	}
	allUserInput := strings.Join(userParts, " ")

	extracted, err := e.gen.Generate(ctx, extractionPrompt(allUserInput))
	if err != nil {
		e.log.Warn("symptom extraction failed", "error", err)
		extracted = symptomErrorSentinel
	}
	return session.SymptomDetails{
		ExtractedData: extracted,
		LastUpdated:   len(messages),
	}
}

// symptomSummary returns the structured extraction when usable, otherwise the
// concatenated raw user messages.
func symptomSummary(s *session.Session) string {
	extracted := s.SymptomDetails.ExtractedData
	if extracted == "" || strings.Contains(extracted, symptomErrorSentinel) {
		return strings.Join(s.UserMessages(), "\n")
	}
	return extracted
}
