package diagnosis

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"diagnostic-ai-agent/internal/agent"
	"diagnostic-ai-agent/internal/session"
)

const neverProceed = `{"proceed_to_research": false, "assistant_message": "Can you tell me more?"}`

func TestStartSuspendsAfterOneQuestion(t *testing.T) {
	e := newTestEngine(
		func() (string, error) { return "summary", nil },
		func() (string, error) { return neverProceed, nil },
		nil, Config{})

	s, err := e.Start(context.Background(), "I have a fever")
	require.NoError(t, err)

	assert.Equal(t, session.StageConversation, s.Stage)
	assert.Equal(t, 1, s.QuestionCount)
	require.Len(t, s.Messages, 2)
	assert.Equal(t, session.RoleUser, s.Messages[0].Role)
	assert.Equal(t, session.RoleAssistant, s.Messages[1].Role)
	assert.False(t, s.AnalysisComplete)
}

// The failsafe bound guarantees the conversation reaches research even when
// the evaluator never signals sufficiency.
func TestFailsafeForcesResearchOnEleventhTurn(t *testing.T) {
	e := newTestEngine(
		func() (string, error) { return "summary", nil },
		func() (string, error) { return neverProceed, nil },
		nil, Config{FailsafeLimit: 10})

	ctx := context.Background()
	s, err := e.Start(ctx, "I have a fever")
	require.NoError(t, err)

	for i := 0; i < 9; i++ {
		s, err = e.Continue(ctx, s, "still not sure")
		require.NoError(t, err)
		assert.Equal(t, session.StageConversation, s.Stage)
	}
	assert.Equal(t, 10, s.QuestionCount)

	s, err = e.Continue(ctx, s, "one more thing")
	require.NoError(t, err)

	assert.Equal(t, 11, s.QuestionCount)
	assert.Equal(t, session.StageComplete, s.Stage)
	assert.True(t, s.AnalysisComplete)
	assert.NotEmpty(t, s.ReportContent())

	var sawFailsafe bool
	for _, m := range s.Messages {
		if m.Content == failsafeTransitionMessage {
			sawFailsafe = true
		}
	}
	assert.True(t, sawFailsafe, "failsafe transition message must be visible to the user")
}

// A failed extraction degrades to the sentinel, and the research query falls
// back to the raw user text.
func TestExtractionFailureFallsBackToRawMessages(t *testing.T) {
	var capturedQuery string
	res := agent.ResearcherFunc(func(_ context.Context, query string) string {
		capturedQuery = query
		return "findings"
	})
	e := newTestEngine(
		func() (string, error) { return "", errors.New("extraction down") },
		func() (string, error) {
			return `{"proceed_to_research": true, "assistant_message": "Thank you, analyzing now."}`, nil
		},
		res, Config{})

	s, err := e.Start(context.Background(), "I have a fever and chills")
	require.NoError(t, err)

	assert.Equal(t, "Error processing symptoms", s.SymptomDetails.ExtractedData)
	assert.Contains(t, capturedQuery, "I have a fever and chills",
		"research must use raw user text when extraction failed")
	assert.Equal(t, session.StageComplete, s.Stage)
}

func TestProceedSignalRunsFullPipeline(t *testing.T) {
	res := agent.ResearcherFunc(func(context.Context, string) string {
		return "ranked conditions with citations"
	})
	e := newTestEngine(
		func() (string, error) { return "fever, 2 days, mild", nil },
		func() (string, error) {
			return `{"proceed_to_research": true, "assistant_message": "Thank you."}`, nil
		},
		res, Config{})

	s, err := e.Start(context.Background(), "I have a fever")
	require.NoError(t, err)

	assert.Equal(t, session.StageComplete, s.Stage)
	assert.True(t, s.AnalysisComplete)
	assert.Equal(t, "ranked conditions with citations", s.ResearchResults[session.ResearchKey])
	assert.NotEmpty(t, s.ReportContent())

	last, _ := s.LastMessage()
	assert.Contains(t, last.Content, "--- Medical Analysis Report ---")
	assert.Contains(t, last.Content, s.ReportContent())
}

// Research failures arrive as error text and are carried into the report
// pipeline unchanged rather than failing the turn.
func TestResearchErrorTextIsEmbedded(t *testing.T) {
	res := agent.ResearcherFunc(func(context.Context, string) string {
		return "Error researching topic: connection refused"
	})
	var analysisPromptSeen string
	gen := agent.GeneratorFunc(func(_ context.Context, prompt string) (string, error) {
		switch {
		case strings.Contains(prompt, "extract key symptom information"):
			return "summary", nil
		case strings.Contains(prompt, "RESEARCH FINDINGS"):
			analysisPromptSeen = prompt
			return "report text", nil
		default:
			return `{"proceed_to_research": true, "assistant_message": "ok"}`, nil
		}
	})
	e := NewEngine(gen, res, Config{}, testLogger())

	s, err := e.Start(context.Background(), "fever")
	require.NoError(t, err)

	assert.Equal(t, "Error researching topic: connection refused", s.ResearchResults[session.ResearchKey])
	assert.Contains(t, analysisPromptSeen, "Error researching topic: connection refused")
	assert.Equal(t, session.StageComplete, s.Stage)
}

func TestAnalysisFailurePropagates(t *testing.T) {
	gen := agent.GeneratorFunc(func(_ context.Context, prompt string) (string, error) {
		switch {
		case strings.Contains(prompt, "extract key symptom information"):
			return "summary", nil
		case strings.Contains(prompt, "RESEARCH FINDINGS"):
			return "", errors.New("model overloaded")
		default:
			return `{"proceed_to_research": true, "assistant_message": "ok"}`, nil
		}
	})
	res := agent.ResearcherFunc(func(context.Context, string) string { return "findings" })
	e := NewEngine(gen, res, Config{}, testLogger())

	_, err := e.Start(context.Background(), "fever")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "analysis generation failed")
}

// Exhausting the routing step bound forces a degraded report instead of an
// error.
func TestRecursionGuardForcesReport(t *testing.T) {
	e := newTestEngine(
		func() (string, error) { return "summary", nil },
		func() (string, error) { return neverProceed, nil },
		nil, Config{MaxSteps: 1})

	snapshot := &session.Session{
		Messages: []session.Message{{Role: session.RoleUser, Content: "test"}},
		Stage:    session.StageConversation,
	}
	s, err := e.Continue(context.Background(), snapshot, "still going")
	require.NoError(t, err)

	assert.Equal(t, session.StageComplete, s.Stage)
	assert.NotEmpty(t, s.ReportContent())

	noticeIdx, reportIdx := -1, -1
	for i, m := range s.Messages {
		if m.Content == complexityNotice {
			noticeIdx = i
		}
		if strings.Contains(m.Content, "--- Medical Analysis Report ---") {
			reportIdx = i
		}
	}
	require.NotEqual(t, -1, noticeIdx, "system notice must be appended")
	require.NotEqual(t, -1, reportIdx, "report must be appended")
	assert.Less(t, noticeIdx, reportIdx, "notice comes before the report")
}

// A completed session that receives a new-topic message restarts: state is
// cleared except the triggering user message, and the user gets an
// acknowledgment plus a fresh follow-up question.
func TestCompletedSessionRestartsOnNewTopic(t *testing.T) {
	e := newTestEngine(
		func() (string, error) { return "summary", nil },
		func() (string, error) { return neverProceed, nil },
		nil, Config{})

	done := session.New()
	done.Stage = session.StageComplete
	done.AnalysisComplete = true
	done.QuestionCount = 7
	done.Report = map[string]string{session.ReportKey: "old report"}
	done.ResearchResults = map[string]string{session.ResearchKey: "old research"}
	done.AddMessage(session.RoleUser, "I had a fever")
	done.AddMessage(session.RoleAssistant, "--- Medical Analysis Report --- ...")

	s, err := e.Continue(context.Background(), done, "I have a new symptom, a rash on my arm")
	require.NoError(t, err)

	assert.Equal(t, session.StageConversation, s.Stage)
	assert.False(t, s.AnalysisComplete)
	assert.Empty(t, s.Report)
	assert.Empty(t, s.ResearchResults)
	assert.Equal(t, 1, s.QuestionCount, "evaluator ran once after the reset")

	require.Len(t, s.Messages, 3)
	assert.Equal(t, "I have a new symptom, a rash on my arm", s.Messages[0].Content)
	assert.Equal(t, resetAcknowledgment, s.Messages[1].Content)
	assert.Equal(t, session.RoleAssistant, s.Messages[2].Role)
}

func TestCompletedSessionWithoutNewTopicSuspends(t *testing.T) {
	genCalled := false
	gen := agent.GeneratorFunc(func(context.Context, string) (string, error) {
		genCalled = true
		return neverProceed, nil
	})
	res := agent.ResearcherFunc(func(context.Context, string) string { return "" })
	e := NewEngine(gen, res, Config{}, testLogger())

	done := session.New()
	done.Stage = session.StageComplete
	done.AnalysisComplete = true
	done.Report = map[string]string{session.ReportKey: "report"}
	done.AddMessage(session.RoleAssistant, "report")

	s, err := e.Continue(context.Background(), done, "thank you")
	require.NoError(t, err)

	assert.False(t, genCalled, "no capability call for a suspended complete session")
	assert.Equal(t, session.StageComplete, s.Stage)
	last, _ := s.LastMessage()
	assert.Equal(t, "thank you", last.Content)
}

func TestContinueDoesNotMutateInputSnapshot(t *testing.T) {
	e := newTestEngine(
		func() (string, error) { return "summary", nil },
		func() (string, error) { return neverProceed, nil },
		nil, Config{})

	snapshot := session.New()
	snapshot.AddMessage(session.RoleUser, "fever")
	snapshot.AddMessage(session.RoleAssistant, "how long?")
	snapshot.QuestionCount = 1

	before := len(snapshot.Messages)
	_, err := e.Continue(context.Background(), snapshot, "two days")
	require.NoError(t, err)

	assert.Len(t, snapshot.Messages, before)
	assert.Equal(t, 1, snapshot.QuestionCount)
}
