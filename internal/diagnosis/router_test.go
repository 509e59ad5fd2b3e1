package diagnosis

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"diagnostic-ai-agent/internal/session"
)

func TestRoute(t *testing.T) {
	tests := []struct {
		name     string
		stage    session.Stage
		messages []session.Message
		want     Target
	}{
		{
			name:  "complete with new topic request restarts",
			stage: session.StageComplete,
			messages: []session.Message{
				{Role: session.RoleAssistant, Content: "report"},
				{Role: session.RoleUser, Content: "I have a new symptom to discuss"},
			},
			want: TargetRestartConversation,
		},
		{
			name:  "complete with different issue phrase restarts",
			stage: session.StageComplete,
			messages: []session.Message{
				{Role: session.RoleUser, Content: "Actually this is a Different Issue"},
			},
			want: TargetRestartConversation,
		},
		{
			name:  "complete with unrelated user message suspends",
			stage: session.StageComplete,
			messages: []session.Message{
				{Role: session.RoleUser, Content: "thanks for the help"},
			},
			want: TargetSuspend,
		},
		{
			name:  "complete with assistant last suspends",
			stage: session.StageComplete,
			messages: []session.Message{
				{Role: session.RoleAssistant, Content: "report"},
			},
			want: TargetSuspend,
		},
		{
			name:  "research stage starts research",
			stage: session.StageResearch,
			messages: []session.Message{
				{Role: session.RoleAssistant, Content: "I have enough information now."},
			},
			want: TargetStartResearch,
		},
		{
			name:  "conversation with assistant last suspends regardless of content",
			stage: session.StageConversation,
			messages: []session.Message{
				{Role: session.RoleAssistant, Content: "I have enough information to proceed."},
			},
			want: TargetSuspend,
		},
		{
			name:  "conversation with user last continues",
			stage: session.StageConversation,
			messages: []session.Message{
				{Role: session.RoleUser, Content: "I have a fever"},
			},
			want: TargetContinueConversation,
		},
		{
			name:     "conversation with no messages continues",
			stage:    session.StageConversation,
			messages: nil,
			want:     TargetContinueConversation,
		},
		{
			name:     "unknown stage suspends",
			stage:    session.Stage("bogus"),
			messages: []session.Message{{Role: session.RoleUser, Content: "hi"}},
			want:     TargetSuspend,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := session.New()
			s.Stage = tt.stage
			s.Messages = tt.messages
			assert.Equal(t, tt.want, Route(s))
		})
	}
}

func TestSignalsNewTopic(t *testing.T) {
	assert.True(t, signalsNewTopic("I think I have a NEW SYMPTOM"))
	assert.True(t, signalsNewTopic("there is another problem I forgot"))
	assert.False(t, signalsNewTopic("my symptoms are gone"))
	assert.False(t, signalsNewTopic(""))
}
