package genetic

import (
	"math/rand/v2"
	"testing"

	"github.com/Silence-o0/Schedule/pkg/model"
	"github.com/Silence-o0/Schedule/pkg/timetable"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Subject ids of the fixture
const (
	mathSubject    uint64 = 0
	physicsSubject uint64 = 1
)

// Group, teacher and room ids of the fixture
const (
	g1, g2 uint64 = 0, 1
	t1, t2 uint64 = 0, 1
	r0, r1 uint64 = 0, 1
)

// fixture has two groups of 20 and 25 students, two teachers of 3 and 6 hours and two rooms of 30 and 50 seats
func fixture() model.RawModelInput {
	return model.RawModelInput{
		WeeksPerTerm: 1,
		Groups: []model.RawGroup{
			{Name: "G1", Students: 20, Subjects: []model.RawRequirement{
				{Subject: "Math", Details: []model.RawDetail{{Type: "Lec", Hours: 3}}},
				{Subject: "Physics", Details: []model.RawDetail{{Type: "Lab", Hours: 3, Subgroups: 2}}},
			}},
			{Name: "G2", Students: 25, Subjects: []model.RawRequirement{
				{Subject: "Math", Details: []model.RawDetail{{Type: "Lec", Hours: 3}}},
			}},
		},
		Teachers: []model.RawTeacher{
			{Name: "T1", Hours: 3, Subjects: []model.RawQualification{{Subject: "Math", Types: []string{"Lec"}}, {Subject: "Physics", Types: []string{"Lab"}}}},
			{Name: "T2", Hours: 6, Subjects: []model.RawQualification{{Subject: "Math", Types: []string{"Lec"}}, {Subject: "Physics", Types: []string{"Lab"}}}},
		},
		Rooms: []model.RawRoom{{Name: "R0", Capacity: 30}, {Name: "R1", Capacity: 50}},
	}
}

func testConfig() Config {
	config := DefaultConfig()
	config.PopulationSize = 6
	config.Generations = 4
	config.Workers = 2
	config.Seed = 7
	return config
}

func newTestEngine(t *testing.T, rawInput model.RawModelInput, configure ...func(config *Config)) *Engine {
	t.Helper()

	input, err := model.ProcessRawInput(rawInput)
	require.NoError(t, err)

	config := testConfig()
	for _, apply := range configure {
		apply(&config)
	}

	problem, err := NewProblem(input, config.MaxLessonsPerDay)
	require.NoError(t, err)
	engine, err := NewEngine(problem, config, zerolog.Nop())
	require.NoError(t, err)
	return engine
}

func syntheticEngine(t *testing.T, seed uint64) *Engine {
	t.Helper()
	rng := rand.New(rand.NewPCG(seed, seed))
	return newTestEngine(t, model.Synthetic(rng, 6, 10, 8, 10, 14))
}

func newRng(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed))
}

func at(day model.Weekday, period uint8) model.Slot {
	return model.Slot{Day: day, Period: period}
}

func lesson(slot model.Slot, teacher, subject uint64, kind model.DetailType, group, room uint64) model.Lesson {
	return model.Lesson{Slot: slot, Teacher: teacher, Subject: subject, Type: kind, Group: group, Room: room}
}

// assertConverged checks that no requirement track exceeds its weekly target by a whole lesson
func assertConverged(t *testing.T, problem *Problem, target *timetable.Timetable) {
	t.Helper()
	for _, group := range problem.Input.Groups {
		for _, requirement := range group.Requirements {
			targetHours := requirement.Detail.TargetHours(problem.Input.WeeksPerTerm)
			for _, subgroup := range tracks(requirement.Detail) {
				count := len(target.Select(func(lesson model.Lesson) bool {
					return lesson.Group == group.Id &&
						lesson.Key() == requirement.Key() &&
						(!subgroup.IsSet() || lesson.Subgroup == subgroup)
				}))
				assert.LessOrEqual(t, float64(count)*model.LessonHours, targetHours+model.LessonHours,
					"group %v, subject %v, type %v, subgroup %v", group.Name, requirement.Subject, requirement.Detail.Type, subgroup)
			}
		}
	}
}
