package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Silence-o0/Schedule/internal/config"
	"github.com/Silence-o0/Schedule/pkg/genetic"
	"github.com/Silence-o0/Schedule/pkg/logger"
	"github.com/Silence-o0/Schedule/pkg/model"
	"github.com/Silence-o0/Schedule/pkg/report"
	"github.com/spf13/cobra"
)

type solveOptions struct {
	file        string
	weeks       uint64
	xlsx        string
	json        string
	group       string
	population  int
	generations int
	similarity  float64
	workers     int
	seed        uint64
}

func newSolveCommand(settings config.Config) *cobra.Command {
	engineConfig := settings.Genetic()
	options := solveOptions{
		weeks:       settings.WeeksPerTerm,
		population:  engineConfig.PopulationSize,
		generations: engineConfig.Generations,
		similarity:  engineConfig.SimilarityThreshold,
		workers:     engineConfig.Workers,
		seed:        engineConfig.Seed,
	}

	command := &cobra.Command{
		Use:   "solve",
		Short: "build a timetable from an input document (.json or .xlsx)",
		Args:  cobra.NoArgs,
		Run: func(command *cobra.Command, _ []string) {
			flags := command.Flags()
			if flags.Changed("population") {
				engineConfig.PopulationSize = options.population
			}
			if flags.Changed("generations") {
				engineConfig.Generations = options.generations
			}
			if flags.Changed("similarity") {
				engineConfig.SimilarityThreshold = options.similarity
			}
			if flags.Changed("workers") {
				engineConfig.Workers = options.workers
			}
			if flags.Changed("seed") {
				engineConfig.Seed = options.seed
			}
			solve(options, engineConfig)
		},
	}

	flags := command.Flags()
	flags.StringVarP(&options.file, "file", "f", "", "path to the input document")
	flags.Uint64VarP(&options.weeks, "weeks", "w", options.weeks, "weeks per term; overrides the input document, required for spreadsheets")
	flags.StringVar(&options.xlsx, "xlsx", "", "path of the spreadsheet report")
	flags.StringVar(&options.json, "json", "", "path of the JSON report; if no report path is given, the JSON report is written into the Standard Output")
	flags.StringVarP(&options.group, "group", "g", "", "only report the lessons of this group")
	flags.IntVarP(&options.population, "population", "p", options.population, "population size")
	flags.IntVarP(&options.generations, "generations", "n", options.generations, "number of generations")
	flags.Float64Var(&options.similarity, "similarity", options.similarity, "similarity threshold (between 0 and 1) above which two timetables share a cluster")
	flags.IntVar(&options.workers, "workers", options.workers, "number of concurrent workers")
	flags.Uint64Var(&options.seed, "seed", options.seed, "random seed, where 0 draws a random one")
	_ = command.MarkFlagRequired("file")

	return command
}

func solve(options solveOptions, engineConfig genetic.Config) {
	log := logger.Component("cli")

	// Extract input
	input, err := loadInput(options.file, options.weeks)
	if err != nil {
		log.Fatal().Err(err).Str("file", options.file).Msg("cannot load input")
	}
	if options.group != "" {
		if _, err := input.GroupByName(options.group); err != nil {
			log.Fatal().Err(err).Msg("invalid group filter")
		}
	}

	// Initialize engine
	problem, err := genetic.NewProblem(input, engineConfig.MaxLessonsPerDay)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot build problem")
	}
	engine, err := genetic.NewEngine(problem, engineConfig, logger.Component("genetic"))
	if err != nil {
		log.Fatal().Err(err).Msg("cannot build engine")
	}

	// Build timetable
	result := engine.Run()
	built := report.New(problem, result)
	if options.group != "" {
		built = built.ForGroup(options.group)
	}

	// Write reports
	if options.xlsx != "" {
		if err := built.WriteExcel(options.xlsx); err != nil {
			log.Fatal().Err(err).Msg("cannot write spreadsheet report")
		}
	}
	if options.json != "" {
		if err := built.WriteJson(options.json); err != nil {
			log.Fatal().Err(err).Msg("cannot write JSON report")
		}
	} else if options.xlsx == "" {
		if err := built.EncodeJson(os.Stdout); err != nil {
			log.Fatal().Err(err).Msg("cannot write JSON report")
		}
	}

	fmt.Printf("valid: %v\n", result.Valid)
	fmt.Printf("score: %v\n", result.Fitness.Score())
	if !result.Valid {
		os.Exit(exitInvalid)
	}
	os.Exit(exitValid)
}

// loadInput reads a JSON or spreadsheet document. A non-zero weeks overrides the document's weeks per term
func loadInput(file string, weeks uint64) (model.ModelInput, error) {
	switch strings.ToLower(filepath.Ext(file)) {
	case ".xlsx":
		if weeks == 0 {
			return model.ModelInput{}, fmt.Errorf("weeks per term must be given for spreadsheets")
		}
		return model.InputFromExcel(file, weeks)
	case ".json":
		input, err := model.InputFromJson(file)
		if err != nil {
			return model.ModelInput{}, err
		}
		if weeks > 0 {
			input.WeeksPerTerm = weeks
		}
		return input, nil
	default:
		return model.ModelInput{}, fmt.Errorf("unsupported input format \"%v\"", filepath.Ext(file))
	}
}
