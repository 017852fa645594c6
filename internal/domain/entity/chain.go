package entity

import "time"

type ChainStatus string

const (
	ChainRunning   ChainStatus = "running"
	ChainSucceeded ChainStatus = "succeeded"
	ChainFailed    ChainStatus = "failed"
	ChainTimedOut  ChainStatus = "timed_out"
)

// ChainState exists only for the duration of one chain run and is owned
// exclusively by the chain controller.
type ChainState struct {
	RunID      string
	StartTime  time.Time
	CurrentURL string
	Iteration  int
}

func (s *ChainState) Elapsed(now time.Time) time.Duration {
	return now.Sub(s.StartTime)
}
