package session

import (
	"time"

	"github.com/google/uuid"
)

// Stage is the coarse phase of a conversation.
type Stage string

const (
	StageConversation Stage = "conversation"
	StageResearch     Stage = "research"
	StageComplete     Stage = "complete"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Keys used inside the ResearchResults and Report maps.
const (
	ResearchKey = "medical_research"
	ReportKey   = "content"
)

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// SymptomDetails caches the structured extraction of reported symptoms.
// LastUpdated holds the message count at extraction time; the cache is stale
// once the conversation has grown past it.
type SymptomDetails struct {
	ExtractedData string `json:"extracted_data,omitempty"`
	LastUpdated   int    `json:"last_updated,omitempty"`
}

// IsZero reports whether no extraction has been cached yet.
func (d SymptomDetails) IsZero() bool {
	return d.ExtractedData == "" && d.LastUpdated == 0
}

// Session is the unit of persistent conversation state.
type Session struct {
	ID               string            `json:"session_id"`
	Messages         []Message         `json:"messages"`
	ResearchResults  map[string]string `json:"research_results"`
	AnalysisComplete bool              `json:"analysis_complete"`
	Report           map[string]string `json:"report"`
	Stage            Stage             `json:"conversation_stage"`
	SymptomDetails   SymptomDetails    `json:"symptom_details"`
	QuestionCount    int               `json:"question_count"`
	CreatedAt        time.Time         `json:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at"`
}

// New creates an empty session in the initial conversation stage.
func New() *Session {
	now := time.Now().UTC()
	return &Session{
		ID:              uuid.New().String(),
		Messages:        []Message{},
		ResearchResults: map[string]string{},
		Report:          map[string]string{},
		Stage:           StageConversation,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// AddMessage appends a message to the conversation history.
func (s *Session) AddMessage(role, content string) {
	s.Messages = append(s.Messages, Message{Role: role, Content: content})
}

// LastMessage returns the most recent message, if any.
func (s *Session) LastMessage() (Message, bool) {
	if len(s.Messages) == 0 {
		return Message{}, false
	}
	return s.Messages[len(s.Messages)-1], true
}

// LatestUserMessage returns the content of the most recent user message.
func (s *Session) LatestUserMessage() (string, bool) {
	for i := len(s.Messages) - 1; i >= 0; i-- {
		if s.Messages[i].Role == RoleUser {
			return s.Messages[i].Content, true
		}
	}
	return "", false
}

// UserMessages returns the contents of all user-authored messages in order.
func (s *Session) UserMessages() []string {
	var out []string
	for _, m := range s.Messages {
		if m.Role == RoleUser {
			out = append(out, m.Content)
		}
	}
	return out
}

// ReportContent returns the final report text, empty until analysis completes.
func (s *Session) ReportContent() string {
	return s.Report[ReportKey]
}

// Clone returns a deep copy. The orchestration engine works on a clone and the
// store commits the result, so a session is never mutated concurrently.
func (s *Session) Clone() *Session {
	c := *s
	c.Messages = make([]Message, len(s.Messages))
	copy(c.Messages, s.Messages)
	c.ResearchResults = make(map[string]string, len(s.ResearchResults))
	for k, v := range s.ResearchResults {
		c.ResearchResults[k] = v
	}
	c.Report = make(map[string]string, len(s.Report))
	for k, v := range s.Report {
		c.Report[k] = v
	}
	return &c
}

// ResetForNewTopic clears all conversational state except the most recent user
// message, returning the session to the initial stage. The caller appends the
// acknowledgment message afterwards.
func (s *Session) ResetForNewTopic() {
	var kept []Message
	if last, ok := s.LastMessage(); ok && last.Role == RoleUser {
		kept = []Message{last}
	}
	s.Messages = kept
	s.ResearchResults = map[string]string{}
	s.AnalysisComplete = false
	s.Report = map[string]string{}
	s.Stage = StageConversation
	s.SymptomDetails = SymptomDetails{}
	s.QuestionCount = 0
}
