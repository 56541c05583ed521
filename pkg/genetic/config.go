package genetic

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/Silence-o0/Schedule/pkg/model"
	"github.com/go-playground/validator/v10"
)

var ErrInvalidConfig = errors.New("invalid engine configuration")

// Config holds every knob of the search. A zero Seed draws one at the start of each run
type Config struct {
	PopulationSize      int     `validate:"gte=4"`
	Generations         int     `validate:"gte=0"`
	SimilarityThreshold float64 `validate:"gt=0,lte=1"`
	RetainCount         int     `validate:"gte=1"`
	StagnationPatience  int     `validate:"gte=1"`
	StagnationDelta     float64 `validate:"gte=0"`
	MutationAttempts    int     `validate:"gte=1"`
	MinMutations        int     `validate:"gte=1,ltefield=MutationAttempts"`
	PlacementAttempts   int     `validate:"gte=1"`
	MaxLessonsPerDay    int     `validate:"gte=3,lte=12"`
	Workers             int     `validate:"gte=1"`
	Seed                uint64
}

func DefaultConfig() Config {
	return Config{
		PopulationSize:      20,
		Generations:         10,
		SimilarityThreshold: 0.8,
		RetainCount:         3,
		StagnationPatience:  5,
		StagnationDelta:     0.01,
		MutationAttempts:    30,
		MinMutations:        3,
		PlacementAttempts:   100,
		MaxLessonsPerDay:    model.MaxLessonsPerDay,
		Workers:             runtime.NumCPU(),
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func (config Config) Validate() error {
	if err := validate.Struct(config); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}
