package main

import (
	"testing"

	"github.com/Silence-o0/Schedule/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const smallInput = "../../pkg/model/testdata/small.json"

func TestLoadInput(t *testing.T) {
	t.Run("Keeps the document weeks", func(t *testing.T) {
		input, err := loadInput(smallInput, 0)
		require.NoError(t, err)
		assert.Equal(t, uint64(14), input.WeeksPerTerm)
	})

	t.Run("Overrides the document weeks", func(t *testing.T) {
		input, err := loadInput(smallInput, 16)
		require.NoError(t, err)
		assert.Equal(t, uint64(16), input.WeeksPerTerm)
	})

	t.Run("Spreadsheets need weeks", func(t *testing.T) {
		_, err := loadInput("input.xlsx", 0)
		assert.Error(t, err)
	})

	t.Run("Unknown format", func(t *testing.T) {
		_, err := loadInput("input.csv", 14)
		assert.Error(t, err)
	})
}

func TestSolveFlags(t *testing.T) {
	command := newSolveCommand(testSettings(t))

	for _, name := range []string{"file", "weeks", "xlsx", "json", "group", "population", "generations", "similarity", "workers", "seed"} {
		assert.NotNil(t, command.Flags().Lookup(name), name)
	}
	assert.Equal(t, "20", command.Flags().Lookup("population").DefValue)
}

func TestGenerateFlags(t *testing.T) {
	command := newGenerateCommand()

	for _, name := range []string{"groups", "teachers", "rooms", "subjects", "weeks", "seed", "out"} {
		assert.NotNil(t, command.Flags().Lookup(name), name)
	}
}

func testSettings(t *testing.T) config.Config {
	t.Helper()
	settings, err := config.Load()
	require.NoError(t, err)
	return settings
}
