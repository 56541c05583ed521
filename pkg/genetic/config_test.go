package genetic

import (
	"testing"

	"github.com/Silence-o0/Schedule/pkg/model"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigValidate(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())

	scenarios := map[string]func(config *Config){
		"tiny population":      func(config *Config) { config.PopulationSize = 3 },
		"negative generations": func(config *Config) { config.Generations = -1 },
		"zero threshold":       func(config *Config) { config.SimilarityThreshold = 0 },
		"threshold above one":  func(config *Config) { config.SimilarityThreshold = 1.1 },
		"nothing retained":     func(config *Config) { config.RetainCount = 0 },
		"minimum above budget": func(config *Config) { config.MinMutations = config.MutationAttempts + 1 },
		"two periods":          func(config *Config) { config.MaxLessonsPerDay = 2 },
		"no workers":           func(config *Config) { config.Workers = 0 },
	}

	for name, mutate := range scenarios {
		t.Run(name, func(t *testing.T) {
			config := DefaultConfig()
			mutate(&config)
			assert.ErrorIs(t, config.Validate(), ErrInvalidConfig)
		})
	}
}

func TestNewEngine(t *testing.T) {
	input, err := model.ProcessRawInput(fixture())
	require.NoError(t, err)

	problem, err := NewProblem(input, 5)
	require.NoError(t, err)

	_, err = NewEngine(problem, DefaultConfig(), zerolog.Nop())
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestNewProblem(t *testing.T) {
	input, err := model.ProcessRawInput(fixture())
	require.NoError(t, err)

	t.Run("Indexes qualifications and rooms", func(t *testing.T) {
		problem, err := NewProblem(input, model.MaxLessonsPerDay)

		require.NoError(t, err)
		assert.Equal(t, []uint64{t1, t2}, problem.Qualified(model.SubjectTypeKey{Subject: mathSubject, Type: model.Lecture}))
		assert.Empty(t, problem.Qualified(model.SubjectTypeKey{Subject: mathSubject, Type: model.Lab}))
		assert.Equal(t, []uint64{r0, r1}, problem.fitting[g1])
		assert.Len(t, problem.Slots(), len(model.Weekdays)*model.MaxLessonsPerDay)
	})

	t.Run("Falls back to every room when none fits", func(t *testing.T) {
		crowded := input
		crowded.Groups = append([]model.Group(nil), input.Groups...)
		crowded.Groups[g2].Size = 100

		problem, err := NewProblem(crowded, model.MaxLessonsPerDay)

		require.NoError(t, err)
		assert.Equal(t, []uint64{r0, r1}, problem.fitting[g2])
	})

	t.Run("Rejects unknown subjects", func(t *testing.T) {
		broken := input
		broken.Subjects = input.Subjects[:1]

		_, err := NewProblem(broken, model.MaxLessonsPerDay)

		assert.ErrorIs(t, err, model.ErrUnknownSubject)
	})

	t.Run("Rejects missing rooms", func(t *testing.T) {
		broken := input
		broken.Rooms = nil

		_, err := NewProblem(broken, model.MaxLessonsPerDay)

		assert.Error(t, err)
	})
}

func TestTracks(t *testing.T) {
	assert.Equal(t, []model.Subgroup{{}}, tracks(model.Detail{Type: model.Lecture, Subgroups: 3}))
	assert.Equal(t, []model.Subgroup{{}}, tracks(model.Detail{Type: model.Lab, Subgroups: 1}))
	assert.Equal(t, []model.Subgroup{{Index: 1, Count: 2}, {Index: 2, Count: 2}}, tracks(model.Detail{Type: model.Lab, Subgroups: 2}))
}
