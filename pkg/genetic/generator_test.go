package genetic

import (
	"testing"

	"github.com/Silence-o0/Schedule/pkg/model"
	"github.com/Silence-o0/Schedule/pkg/timetable"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructSharedLecture(t *testing.T) {
	//** Arrange
	// Two groups, one teacher, one room and a single lecture of 3 hours
	rawInput := model.RawModelInput{
		WeeksPerTerm: 1,
		Groups: []model.RawGroup{
			{Name: "G1", Students: 12, Subjects: []model.RawRequirement{{Subject: "Math", Details: []model.RawDetail{{Type: "Lec", Hours: 3}}}}},
			{Name: "G2", Students: 14, Subjects: []model.RawRequirement{{Subject: "Math", Details: []model.RawDetail{{Type: "Lec", Hours: 3}}}}},
		},
		Teachers: []model.RawTeacher{{Name: "T1", Hours: 10, Subjects: []model.RawQualification{{Subject: "Math", Types: []string{"Lec"}}}}},
		Rooms:    []model.RawRoom{{Name: "R0", Capacity: 30}},
	}
	engine := newTestEngine(t, rawInput)

	for seed := range uint64(20) {
		//** Act
		built := engine.Construct(newRng(seed))

		//** Assert
		require.True(t, built.Valid())
		lessons := built.Lessons()
		groups := lo.CountValuesBy(lessons, func(lesson model.Lesson) uint64 { return lesson.Group })
		assert.Equal(t, map[uint64]int{0: 2, 1: 2}, groups)

		// Both groups attend the same two physical lectures
		events := lo.Uniq(lo.Map(lessons, func(lesson model.Lesson, _ int) model.Slot { return lesson.Slot }))
		assert.Len(t, events, 2)
	}
}

func TestConstructSkipsUnqualifiedRequirements(t *testing.T) {
	rawInput := fixture()
	rawInput.Groups[g1].Subjects = append(rawInput.Groups[g1].Subjects, model.RawRequirement{
		Subject: "History", Details: []model.RawDetail{{Type: "Lec", Hours: 3}},
	})
	engine := newTestEngine(t, rawInput)

	built := engine.Construct(newRng(1))

	history, err := engine.Problem().Input.SubjectByName("History")
	require.NoError(t, err)
	assert.Empty(t, built.Select(func(lesson model.Lesson) bool { return lesson.Subject == history }))
	assert.NotEmpty(t, built.Select(func(lesson model.Lesson) bool { return lesson.Subject == mathSubject }))
}

func TestConstructSplitsLabs(t *testing.T) {
	engine := newTestEngine(t, fixture())

	built := engine.Construct(newRng(3))

	labs := built.Select(func(lesson model.Lesson) bool { return lesson.Type == model.Lab })
	subgroups := lo.Uniq(lo.Map(labs, func(handle timetable.Handle, _ int) model.Subgroup {
		lesson, _ := built.Lesson(handle)
		return lesson.Subgroup
	}))
	assert.ElementsMatch(t, []model.Subgroup{{Index: 1, Count: 2}, {Index: 2, Count: 2}}, subgroups)
	assert.Len(t, labs, 4)
}

func TestConstructIsValid(t *testing.T) {
	engine := syntheticEngine(t, 11)

	for seed := range uint64(5) {
		built := engine.Construct(newRng(seed))

		assert.True(t, built.Valid())
		assert.Empty(t, built.Violations())
		assertConverged(t, engine.Problem(), built)
	}
}
