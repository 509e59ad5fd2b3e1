package diagnosis

import (
	"context"

	"diagnostic-ai-agent/internal/session"
)

// research issues a single research query built from the symptom summary and
// stores the raw findings. The research capability reports failures as error
// text in its return value; that text is kept unchanged and weighed by the
// analysis prompt, not rejected here.
func (e *Engine) research(ctx context.Context, s *session.Session) {
	query := researchQuery(symptomSummary(s))

	e.log.Info("starting medical research", "session_id", s.ID)
	findings := e.res.Research(ctx, query)
	e.log.Info("medical research complete", "session_id", s.ID)

	s.ResearchResults[session.ResearchKey] = findings
}
