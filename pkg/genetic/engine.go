package genetic

import (
	"fmt"

	"github.com/rs/zerolog"
)

// Engine bundles the operators of the search over a single problem. It holds no mutable state,
// so one engine may serve several goroutines as long as each owns the timetables and the rng it passes in
type Engine struct {
	problem *Problem
	config  Config
	logger  zerolog.Logger
}

func NewEngine(problem *Problem, config Config, logger zerolog.Logger) (*Engine, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if problem.Periods() != config.MaxLessonsPerDay {
		return nil, fmt.Errorf("%w: the problem has %v periods per day but %v were configured", ErrInvalidConfig, problem.Periods(), config.MaxLessonsPerDay)
	}

	return &Engine{
		problem: problem,
		config:  config,
		logger:  logger.With().Str("component", "genetic").Logger(),
	}, nil
}

func (engine *Engine) Problem() *Problem {
	return engine.problem
}

func (engine *Engine) Config() Config {
	return engine.config
}
