package diagnosis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"diagnostic-ai-agent/internal/session"
)

// ErrAgentUnavailable is returned when the service was constructed without a
// working engine, e.g. missing API credentials at startup.
var ErrAgentUnavailable = errors.New("medical agent not initialized")

// ChatResult is what a processed turn returns to the transport layer.
type ChatResult struct {
	SessionID string            `json:"session_id"`
	Messages  []session.Message `json:"messages"`
	Complete  bool              `json:"complete"`
	Report    map[string]string `json:"report,omitempty"`
}

// Service bridges the session store and the orchestration engine: it loads a
// snapshot, runs one turn, and commits the result.
type Service struct {
	store  session.Store
	engine *Engine
	log    *slog.Logger
}

func NewService(store session.Store, engine *Engine, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, engine: engine, log: logger}
}

// Chat processes one user message. An empty sessionID starts a new
// conversation; otherwise the identified session is continued.
func (s *Service) Chat(ctx context.Context, sessionID, message string) (*ChatResult, error) {
	if s.engine == nil {
		return nil, ErrAgentUnavailable
	}

	var (
		result *session.Session
		err    error
	)
	if sessionID == "" {
		result, err = s.engine.Start(ctx, message)
		if err != nil {
			return nil, err
		}
		if err := s.store.Create(ctx, result); err != nil {
			return nil, fmt.Errorf("failed to persist new session: %w", err)
		}
	} else {
		snapshot, err := s.store.Get(ctx, sessionID)
		if err != nil {
			return nil, err
		}
		result, err = s.engine.Continue(ctx, snapshot, message)
		if err != nil {
			return nil, err
		}
		if err := s.store.Update(ctx, result); err != nil {
			return nil, fmt.Errorf("failed to persist session: %w", err)
		}
	}

	complete := result.Stage == session.StageComplete
	res := &ChatResult{
		SessionID: result.ID,
		Messages:  result.Messages,
		Complete:  complete,
	}
	if complete {
		res.Report = result.Report
	}
	return res, nil
}

// Session returns a stored session snapshot.
func (s *Service) Session(ctx context.Context, id string) (*session.Session, error) {
	return s.store.Get(ctx, id)
}

// Sessions lists all stored session identifiers.
func (s *Service) Sessions(ctx context.Context) ([]string, error) {
	return s.store.List(ctx)
}

// Delete removes a session.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.store.Delete(ctx, id)
}
