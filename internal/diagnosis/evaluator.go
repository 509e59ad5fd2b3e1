package diagnosis

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"diagnostic-ai-agent/internal/session"
)

// sufficiencyDecision is the two-field structure the evaluator asks the model
// to reply with.
type sufficiencyDecision struct {
	Proceed bool
	Message string
}

// evaluate runs one questioning turn: it increments the question counter,
// refreshes the symptom cache if needed, and asks the model whether enough
// clinical detail has been gathered. It never fails; generation or parse
// errors degrade into a clarification request.
func (e *Engine) evaluate(ctx context.Context, s *session.Session) {
	s.QuestionCount++

	// Failsafe: guarantee termination regardless of evaluator reliability.
	if s.QuestionCount > e.failsafeLimit {
		e.log.Info("question failsafe reached, forcing research",
			"session_id", s.ID, "question_count", s.QuestionCount)
		s.AddMessage(session.RoleAssistant, failsafeTransitionMessage)
		s.Stage = session.StageResearch
		return
	}

	// Refresh the symptom cache when the newest message is a user message
	// that postdates it.
	if last, ok := s.LastMessage(); ok && last.Role == session.RoleUser {
		if len(s.Messages) > s.SymptomDetails.LastUpdated {
			s.SymptomDetails = e.extractSymptoms(ctx, s.Messages)
		}
	}

	proceed := false
	var reply string

	raw, err := e.gen.Generate(ctx, evaluatorPrompt(s))
	if err != nil {
		e.log.Warn("evaluator generation failed", "session_id", s.ID, "error", err)
		reply = generationFailureMessage
	} else {
		decision, perr := parseDecision(raw)
		if perr != nil {
			e.log.Warn("evaluator reply not parseable", "session_id", s.ID, "error", perr)
			reply = parseFailureMessage
		} else {
			proceed = decision.Proceed
			reply = decision.Message
		}
	}

	s.AddMessage(session.RoleAssistant, reply)
	if proceed {
		s.Stage = session.StageResearch
	} else {
		s.Stage = session.StageConversation
	}
}

// stripFences removes a surrounding Markdown code fence, with or without a
// language tag.
func stripFences(raw string) string {
	t := strings.TrimSpace(raw)
	if !strings.HasPrefix(t, "```") {
		return t
	}
	t = strings.TrimPrefix(t, "```json")
	t = strings.TrimPrefix(t, "```")
	t = strings.TrimSpace(t)
	t = strings.TrimSuffix(t, "```")
	return strings.TrimSpace(t)
}

// parseDecision parses the evaluator's reply as the required two-field JSON
// object. Both fields must be present.
func parseDecision(raw string) (sufficiencyDecision, error) {
	var parsed struct {
		ProceedToResearch *bool   `json:"proceed_to_research"`
		AssistantMessage  *string `json:"assistant_message"`
	}
	if err := json.Unmarshal([]byte(stripFences(raw)), &parsed); err != nil {
		return sufficiencyDecision{}, err
	}
	if parsed.ProceedToResearch == nil || parsed.AssistantMessage == nil {
		return sufficiencyDecision{}, errors.New("reply missing required keys")
	}
	return sufficiencyDecision{
		Proceed: *parsed.ProceedToResearch,
		Message: *parsed.AssistantMessage,
	}, nil
}
