package chain

import (
	"context"
	"time"

	"github.com/google/uuid"

	"quiz-agent/internal/application/port/input"
	"quiz-agent/internal/application/port/output"
	"quiz-agent/internal/domain/entity"
)

const (
	DefaultTimeBudget    = 3 * time.Minute
	DefaultMaxIterations = 50
)

var _ input.ChainRunner = (*Controller)(nil)

// Controller drives a quiz chain through the success/continuation/timeout
// state machine. A single chain is strictly sequential; concurrency only
// exists across independent Run calls.
type Controller struct {
	pipeline      Pipeline
	logger        output.LoggerPort
	timeBudget    time.Duration
	maxIterations int
	now           func() time.Time
}

func NewController(pipeline Pipeline, logger output.LoggerPort, timeBudget time.Duration, maxIterations int) *Controller {
	if timeBudget <= 0 {
		timeBudget = DefaultTimeBudget
	}
	if maxIterations <= 0 {
		maxIterations = DefaultMaxIterations
	}
	return &Controller{
		pipeline:      pipeline,
		logger:        logger,
		timeBudget:    timeBudget,
		maxIterations: maxIterations,
		now:           time.Now,
	}
}

// Run executes the chain starting at task.URL until a terminal state. The
// wall-clock budget is checked at the top of every iteration; a slow
// collaborator call inside an iteration is only caught at the next check.
func (c *Controller) Run(ctx context.Context, task entity.QuizTask, ident entity.Identity) *input.RunResult {
	state := entity.ChainState{
		RunID:      uuid.NewString(),
		StartTime:  c.now(),
		CurrentURL: task.URL,
	}
	log := c.logger.WithField("run_id", state.RunID)
	log.Info("chain started", "url", task.URL)

	status := entity.ChainRunning
	lastError := ""

	for status == entity.ChainRunning {
		elapsed := state.Elapsed(c.now())
		if elapsed >= c.timeBudget {
			log.Warn("time budget exhausted", "elapsed", elapsed.String())
			status = entity.ChainTimedOut
			break
		}
		if state.Iteration >= c.maxIterations {
			log.Warn("iteration cap reached", "iterations", state.Iteration)
			status = entity.ChainFailed
			lastError = "iteration cap reached"
			break
		}

		state.Iteration++
		log.Info("solving quiz", "iteration", state.Iteration, "url", state.CurrentURL)

		success, nextURL, errText := c.pipeline.Solve(ctx, state.CurrentURL, ident)
		lastError = errText

		switch {
		case success && nextURL != "":
			log.Info("quiz solved, continuing", "next_url", nextURL)
			state.CurrentURL = nextURL
		case success:
			log.Info("chain completed")
			status = entity.ChainSucceeded
		case nextURL != "" && state.Elapsed(c.now()) < c.timeBudget:
			// A wrong answer does not halt the chain while the judge
			// still supplies a follow-up URL.
			log.Warn("quiz failed, advancing anyway", "next_url", nextURL, "error", errText)
			state.CurrentURL = nextURL
		default:
			log.Error("chain failed", "error", errText)
			status = entity.ChainFailed
		}
	}

	result := &input.RunResult{
		RunID:      state.RunID,
		Status:     status,
		Iterations: state.Iteration,
		Elapsed:    state.Elapsed(c.now()),
		LastURL:    state.CurrentURL,
		Error:      lastError,
	}
	log.Info("chain finished",
		"status", result.Status,
		"iterations", result.Iterations,
		"elapsed", result.Elapsed.String())
	return result
}
