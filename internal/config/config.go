package config

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/Silence-o0/Schedule/pkg/genetic"
	"github.com/Silence-o0/Schedule/pkg/logger"
	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
)

// Prefix of every environment variable read by Load
const Prefix = "SCHEDULE_"

type Config struct {
	WeeksPerTerm uint64 `env:"WEEKS_PER_TERM"` // Zero keeps the value of the input document
	Engine       struct {
		PopulationSize      int     `env:"POPULATION_SIZE" envDefault:"20"`
		Generations         int     `env:"GENERATIONS" envDefault:"10"`
		SimilarityThreshold float64 `env:"SIMILARITY_THRESHOLD" envDefault:"0.8"`
		RetainCount         int     `env:"RETAIN_COUNT" envDefault:"3"`
		StagnationPatience  int     `env:"STAGNATION_PATIENCE" envDefault:"5"`
		StagnationDelta     float64 `env:"STAGNATION_DELTA" envDefault:"0.01"`
		MutationAttempts    int     `env:"MUTATION_ATTEMPTS" envDefault:"30"`
		MinMutations        int     `env:"MIN_MUTATIONS" envDefault:"3"`
		PlacementAttempts   int     `env:"PLACEMENT_ATTEMPTS" envDefault:"100"`
		MaxLessonsPerDay    int     `env:"MAX_LESSONS_PER_DAY" envDefault:"4"`
		Workers             int     `env:"WORKERS"` // Zero uses every CPU
		Seed                uint64  `env:"SEED"`    // Zero draws a random seed
	} `envPrefix:"ENGINE_"`
	Log logger.Config `envPrefix:"LOG_"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Load reads the configuration from SCHEDULE_* environment variables
func Load() (Config, error) {
	return parse(env.Options{Prefix: Prefix})
}

func parse(options env.Options) (Config, error) {
	config := Config{}
	if err := env.ParseWithOptions(&config, options); err != nil {
		aggregate := env.AggregateError{}
		if errors.As(err, &aggregate) && len(aggregate.Errors) > 0 {
			// The first error keeps the message readable
			return Config{}, fmt.Errorf("cannot parse environment: %w", aggregate.Errors[0])
		}
		return Config{}, fmt.Errorf("cannot parse environment: %w", err)
	}

	if err := validate.Struct(config.Log); err != nil {
		return Config{}, fmt.Errorf("invalid logger configuration: %w", err)
	}
	if err := config.Genetic().Validate(); err != nil {
		return Config{}, err
	}
	return config, nil
}

// Genetic converts the engine settings into the search configuration
func (config Config) Genetic() genetic.Config {
	workers := config.Engine.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	return genetic.Config{
		PopulationSize:      config.Engine.PopulationSize,
		Generations:         config.Engine.Generations,
		SimilarityThreshold: config.Engine.SimilarityThreshold,
		RetainCount:         config.Engine.RetainCount,
		StagnationPatience:  config.Engine.StagnationPatience,
		StagnationDelta:     config.Engine.StagnationDelta,
		MutationAttempts:    config.Engine.MutationAttempts,
		MinMutations:        config.Engine.MinMutations,
		PlacementAttempts:   config.Engine.PlacementAttempts,
		MaxLessonsPerDay:    config.Engine.MaxLessonsPerDay,
		Workers:             workers,
		Seed:                config.Engine.Seed,
	}
}
