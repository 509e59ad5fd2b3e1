package diagnosis

import (
	"strings"

	"diagnostic-ai-agent/internal/session"
)

// Target is the routing decision for the next step of a turn.
type Target int

const (
	// TargetSuspend yields control back to the caller to await user input.
	TargetSuspend Target = iota
	// TargetContinueConversation loops back into the sufficiency evaluator.
	TargetContinueConversation
	// TargetStartResearch enters the research stage.
	TargetStartResearch
	// TargetRestartConversation resets the state for a new topic.
	TargetRestartConversation
)

func (t Target) String() string {
	switch t {
	case TargetContinueConversation:
		return "continue_conversation"
	case TargetStartResearch:
		return "start_research"
	case TargetRestartConversation:
		return "restart_conversation"
	default:
		return "suspend"
	}
}

// newTopicPhrases mark a completed conversation as restarting on a new topic.
var newTopicPhrases = []string{"new symptom", "different issue", "another problem"}

func signalsNewTopic(content string) bool {
	lower := strings.ToLower(content)
	for _, phrase := range newTopicPhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}

// Route inspects the current stage and last message and decides the next
// transition. It is a pure function of the session snapshot.
func Route(s *session.Session) Target {
	last, ok := s.LastMessage()

	switch s.Stage {
	case session.StageComplete:
		if ok && last.Role == session.RoleUser && signalsNewTopic(last.Content) {
			return TargetRestartConversation
		}
		return TargetSuspend

	case session.StageResearch:
		return TargetStartResearch

	case session.StageConversation:
		if !ok || last.Role == session.RoleUser {
			return TargetContinueConversation
		}
		// Assistant-authored last message always yields to the user,
		// regardless of content.
		return TargetSuspend
	}

	return TargetSuspend
}
