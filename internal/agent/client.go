package agent

import "context"

// Generator is the language-generation capability. Failures are reported
// through the error return; callers recover at the narrowest scope with
// fallback text instead of aborting the turn.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Researcher is the knowledge-retrieval capability. Failures are embedded as
// an error string in the normal text return so a bad research call degrades
// the report's content, not the pipeline's control flow.
type Researcher interface {
	Research(ctx context.Context, query string) string
}

// GeneratorFunc adapts a function to the Generator interface.
type GeneratorFunc func(ctx context.Context, prompt string) (string, error)

func (f GeneratorFunc) Generate(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

// ResearcherFunc adapts a function to the Researcher interface.
type ResearcherFunc func(ctx context.Context, query string) string

func (f ResearcherFunc) Research(ctx context.Context, query string) string {
	return f(ctx, query)
}
