package genetic

import (
	"math/rand/v2"

	"github.com/Silence-o0/Schedule/pkg/model"
	"github.com/Silence-o0/Schedule/pkg/timetable"
)

// Crossover builds a child slot by slot, per group, inheriting the lessons of a randomly chosen parent.
// The first teacher inherited for a subject-type binds every later lesson of that subject-type within the group.
// Parents are only read, so they may be shared by concurrent crossovers
func (engine *Engine) Crossover(rng *rand.Rand, parent1, parent2 *timetable.Timetable) *timetable.Timetable {
	child := timetable.New()

	for _, group := range engine.problem.Input.Groups {
		locks := make(map[model.SubjectTypeKey]uint64)

		for _, day := range model.Weekdays {
			for period := 1; period <= engine.problem.Periods(); period++ {
				slot := model.Slot{Day: day, Period: uint8(period)}

				first, second := parent1, parent2
				if rng.IntN(2) == 1 {
					first, second = parent2, parent1
				}
				if !inherit(child, first, group.Id, slot, locks) {
					inherit(child, second, group.Id, slot, locks)
				}
			}
		}
	}

	//** Fix the raw child
	engine.Repair(rng, child)
	engine.Smooth(rng, child)
	engine.Repair(rng, child)
	return engine.Rebalance(rng, child)
}

// inherit copies into the child the parent's lessons of the group at the slot that respect the teacher locks
// and the hard constraints, reporting whether any was kept
func inherit(child, parent *timetable.Timetable, group uint64, slot model.Slot, locks map[model.SubjectTypeKey]uint64) bool {
	kept := false
	for _, handle := range parent.SelectAt(slot, func(lesson model.Lesson) bool { return lesson.Group == group }) {
		lesson, _ := parent.Lesson(handle)

		teacher, ok := locks[lesson.Key()]
		if !ok {
			locks[lesson.Key()] = lesson.Teacher
			teacher = lesson.Teacher
		}
		if lesson.Teacher == teacher && child.Compatible(lesson, timetable.NoHandle) {
			child.Add(lesson)
			kept = true
		}
	}
	return kept
}
