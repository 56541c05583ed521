package main

import (
	"os"

	"github.com/Silence-o0/Schedule/internal/config"
	"github.com/Silence-o0/Schedule/pkg/logger"
	"github.com/spf13/cobra"
)

// Exit codes read by the benchmark
const (
	exitValid   = 10
	exitInvalid = 15
)

func main() {
	settings, err := config.Load()
	if err != nil {
		log := logger.Get()
		log.Fatal().Err(err).Msg("cannot load configuration")
	}
	if err := logger.Init(settings.Log); err != nil {
		log := logger.Get()
		log.Fatal().Err(err).Msg("cannot initialize logger")
	}

	root := &cobra.Command{
		Use:   "schedule",
		Short: "University timetable generator",
		Long: "Builds weekly university timetables for groups, teachers and auditoriums with a genetic search.\n" +
			"Every engine setting can also be given through SCHEDULE_* environment variables; flags take precedence",
		SilenceUsage: true,
	}
	root.AddCommand(newSolveCommand(settings), newGenerateCommand())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
