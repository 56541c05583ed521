package genetic

import (
	mathrand "math/rand"
	"math/rand/v2"

	"github.com/Silence-o0/Schedule/pkg/model"
	"github.com/Silence-o0/Schedule/pkg/timetable"
	"github.com/mroth/weightedrand/v2"
	"github.com/samber/lo"
)

// Mutation changes a timetable in place and tells whether it succeeded
type Mutation func(engine *Engine, rng *rand.Rand, target *timetable.Timetable) bool

// ChangeTeacher hands a random lesson over to another qualified teacher
func (engine *Engine) ChangeTeacher(rng *rand.Rand, target *timetable.Timetable) bool {
	handle, lesson, ok := randomLesson(rng, target)
	if !ok {
		return false
	}

	candidates := lo.Without(engine.problem.Qualified(lesson.Key()), lesson.Teacher)
	if len(candidates) == 0 {
		return false
	}

	changed := lesson
	changed.Teacher = candidates[rng.IntN(len(candidates))]
	return replaceIfCompatible(target, handle, changed)
}

// ChangeRoom moves a random lesson to another room able to hold its group
func (engine *Engine) ChangeRoom(rng *rand.Rand, target *timetable.Timetable) bool {
	handle, lesson, ok := randomLesson(rng, target)
	if !ok {
		return false
	}

	attendance := engine.problem.Attendance(lesson)
	candidates := lo.FilterMap(engine.problem.Input.Rooms, func(room model.Room, _ int) (uint64, bool) {
		return room.Id, room.Id != lesson.Room && room.Capacity >= attendance
	})
	if len(candidates) == 0 {
		return false
	}

	changed := lesson
	changed.Room = candidates[rng.IntN(len(candidates))]
	return replaceIfCompatible(target, handle, changed)
}

// Mutate applies random mutations to the timetable, favoring the single-lesson ones, until either minimum successes
// are reached or attempts run out. It returns the amount of successful mutations
func (engine *Engine) Mutate(rng *rand.Rand, target *timetable.Timetable, attempts, minimum int) int {
	chooser, err := weightedrand.NewChooser(
		weightedrand.NewChoice(Mutation((*Engine).ChangeTeacher), 2),
		weightedrand.NewChoice(Mutation((*Engine).ChangeRoom), 2),
		weightedrand.NewChoice(Mutation((*Engine).RematchRooms), 1),
	)
	if err != nil {
		return 0
	}
	source := mathrand.New(mathrand.NewSource(int64(rng.Uint64())))

	successes := 0
	for range attempts {
		if successes >= minimum {
			break
		}
		if chooser.PickSource(source)(engine, rng, target) {
			successes++
		}
	}
	return successes
}

func randomLesson(rng *rand.Rand, target *timetable.Timetable) (timetable.Handle, model.Lesson, bool) {
	handles := target.Handles()
	if len(handles) == 0 {
		return timetable.NoHandle, model.Lesson{}, false
	}
	handle := handles[rng.IntN(len(handles))]
	lesson, _ := target.Lesson(handle)
	return handle, lesson, true
}

func replaceIfCompatible(target *timetable.Timetable, handle timetable.Handle, lesson model.Lesson) bool {
	if !target.Compatible(lesson, handle) {
		return false
	}
	return target.Replace(handle, lesson)
}
