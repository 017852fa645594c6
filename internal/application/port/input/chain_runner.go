package input

import (
	"context"
	"time"

	"quiz-agent/internal/domain/entity"
)

// RunResult summarizes one finished chain run. It is only ever observed
// through logs; the inbound HTTP caller never sees it.
type RunResult struct {
	RunID      string
	Status     entity.ChainStatus
	Iterations int
	Elapsed    time.Duration
	LastURL    string
	Error      string
}

// ChainRunner drives one quiz chain to a terminal state. It never returns
// an error: every failure mode is a terminal status in the result.
type ChainRunner interface {
	Run(ctx context.Context, task entity.QuizTask, ident entity.Identity) *RunResult
}
