package main

import (
	"encoding/json"
	"math/rand/v2"
	"os"

	"github.com/Silence-o0/Schedule/pkg/logger"
	"github.com/Silence-o0/Schedule/pkg/model"
	"github.com/spf13/cobra"
)

func newGenerateCommand() *cobra.Command {
	var (
		groups   = 10
		teachers = 15
		rooms    = 10
		subjects = 12
		weeks    = uint64(14)
		seed     uint64
		out      string
	)

	command := &cobra.Command{
		Use:   "generate",
		Short: "write a random input document",
		Args:  cobra.NoArgs,
		Run: func(_ *cobra.Command, _ []string) {
			log := logger.Component("cli")
			if groups < 1 || teachers < 1 || rooms < 1 || subjects < 1 {
				log.Fatal().Msg("groups, teachers, rooms and subjects must be >= 1")
			}
			if seed == 0 {
				seed = rand.Uint64()
			}

			rng := rand.New(rand.NewPCG(seed, seed))
			rawInput := model.Synthetic(rng, groups, teachers, rooms, subjects, weeks)
			if _, err := model.ProcessRawInput(rawInput); err != nil {
				log.Fatal().Err(err).Msg("generated an invalid document")
			}

			document, err := json.MarshalIndent(rawInput, "", "  ")
			if err != nil {
				log.Fatal().Err(err).Msg("cannot build output json")
			}

			// Verify outfile is empty, if so then write the document to the Standard Output
			if out == "" {
				os.Stdout.Write(append(document, '\n'))
				return
			}
			if err := os.WriteFile(out, document, 0666); err != nil {
				log.Fatal().Err(err).Msg("cannot write the output file")
			}
			log.Info().Str("file", out).Uint64("seed", seed).Msg("document generated")
		},
	}

	flags := command.Flags()
	flags.IntVar(&groups, "groups", groups, "number of groups")
	flags.IntVar(&teachers, "teachers", teachers, "number of teachers")
	flags.IntVar(&rooms, "rooms", rooms, "number of auditoriums")
	flags.IntVar(&subjects, "subjects", subjects, "number of subjects")
	flags.Uint64VarP(&weeks, "weeks", "w", weeks, "weeks per term")
	flags.Uint64Var(&seed, "seed", 0, "random seed, where 0 draws a random one")
	flags.StringVarP(&out, "out", "o", "", "path to the output file; if empty, it'll be written into the Standard Output")

	return command
}
