package diagnosis

import (
	"context"
	"fmt"

	"diagnostic-ai-agent/internal/session"
)

// analyze synthesizes the conversation and research findings into the final
// report. Unlike the earlier stages there is no fallback: without a report the
// turn cannot produce a well-formed result, so the error propagates.
func (e *Engine) analyze(ctx context.Context, s *session.Session) error {
	researchData := s.ResearchResults[session.ResearchKey]
	if researchData == "" {
		researchData = "No research data available."
	}

	content, err := e.gen.Generate(ctx, analysisPrompt(symptomSummary(s), researchData))
	if err != nil {
		return fmt.Errorf("analysis generation failed: %w", err)
	}

	s.AnalysisComplete = true
	s.Report[session.ReportKey] = content
	return nil
}

// finalize appends the framed report as the closing assistant message and
// marks the conversation complete.
func (e *Engine) finalize(s *session.Session) {
	content := s.ReportContent()
	if content == "" {
		content = missingReportFallback
		s.Report[session.ReportKey] = content
	}
	s.AddMessage(session.RoleAssistant, frameReport(content))
	s.Stage = session.StageComplete
	s.AnalysisComplete = true
}
