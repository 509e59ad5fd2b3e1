package diagnosis

import (
	"context"
	"log/slog"

	"diagnostic-ai-agent/internal/agent"
	"diagnostic-ai-agent/internal/session"
)

const (
	// DefaultFailsafeLimit caps questioning turns per conversation.
	DefaultFailsafeLimit = 10
	// DefaultMaxSteps caps internal routing steps per invocation.
	DefaultMaxSteps = 10
)

// Config bounds the engine's two termination guards.
type Config struct {
	// FailsafeLimit is the hard cap on conversational question turns before
	// the research stage is forced.
	FailsafeLimit int
	// MaxSteps is the hard cap on internal routing steps within a single
	// Start or Continue invocation.
	MaxSteps int
}

// Engine drives the conversation state machine: it alternates between
// interactive questioning and the one-shot research-and-report pipeline.
// It operates on session snapshots and never mutates its input.
type Engine struct {
	gen           agent.Generator
	res           agent.Researcher
	failsafeLimit int
	maxSteps      int
	log           *slog.Logger
}

func NewEngine(gen agent.Generator, res agent.Researcher, cfg Config, logger *slog.Logger) *Engine {
	if cfg.FailsafeLimit <= 0 {
		cfg.FailsafeLimit = DefaultFailsafeLimit
	}
	if cfg.MaxSteps <= 0 {
		cfg.MaxSteps = DefaultMaxSteps
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		gen:           gen,
		res:           res,
		failsafeLimit: cfg.FailsafeLimit,
		maxSteps:      cfg.MaxSteps,
		log:           logger,
	}
}

// Start begins a new conversation from an initial user utterance and drives
// the state machine until it suspends.
func (e *Engine) Start(ctx context.Context, initialMessage string) (*session.Session, error) {
	s := session.New()
	s.AddMessage(session.RoleUser, initialMessage)
	return e.run(ctx, s)
}

// Continue appends a new user utterance to an existing session snapshot and
// drives the state machine identically. The input snapshot is not modified.
func (e *Engine) Continue(ctx context.Context, snapshot *session.Session, userMessage string) (*session.Session, error) {
	s := snapshot.Clone()
	s.AddMessage(session.RoleUser, userMessage)
	return e.run(ctx, s)
}

// run executes routing steps until the machine suspends or the step bound is
// exhausted, in which case a degraded report is forced so the invocation
// still terminates with a well-formed result.
func (e *Engine) run(ctx context.Context, s *session.Session) (*session.Session, error) {
	for step := 0; step < e.maxSteps; step++ {
		target := Route(s)
		e.log.Debug("routing step", "session_id", s.ID, "step", step,
			"stage", string(s.Stage), "target", target.String())

		switch target {
		case TargetContinueConversation:
			e.evaluate(ctx, s)

		case TargetStartResearch:
			e.research(ctx, s)
			if err := e.analyze(ctx, s); err != nil {
				return s, err
			}
			e.finalize(s)

		case TargetRestartConversation:
			e.reset(s)
			// The reset flows straight back into the evaluator so the user
			// gets a follow-up question alongside the acknowledgment.
			e.evaluate(ctx, s)

		case TargetSuspend:
			return s, nil
		}
	}

	e.log.Warn("routing step bound exhausted, forcing analysis", "session_id", s.ID)
	return e.forceFinalize(ctx, s)
}

// reset clears all state except the most recent user message and acknowledges
// the topic change.
func (e *Engine) reset(s *session.Session) {
	e.log.Info("restarting conversation on new topic", "session_id", s.ID)
	s.ResetForNewTopic()
	s.AddMessage(session.RoleAssistant, resetAcknowledgment)
}

// forceFinalize runs the analysis stage directly on the current state,
// skipping research, after noting that the report is being generated due to
// complexity. Only an analysis failure can surface from here.
func (e *Engine) forceFinalize(ctx context.Context, s *session.Session) (*session.Session, error) {
	s.AddMessage(session.RoleAssistant, complexityNotice)
	if err := e.analyze(ctx, s); err != nil {
		return s, err
	}
	e.finalize(s)
	return s, nil
}
