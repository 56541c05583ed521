package genetic

import (
	"math/rand/v2"

	"github.com/Silence-o0/Schedule/pkg/model"
	"github.com/Silence-o0/Schedule/pkg/timetable"
	"github.com/samber/lo"
)

// Construct builds a timetable from scratch by placing every required lesson at random.
// Lessons that cannot be placed are dropped and requirements without a qualified teacher are skipped
func (engine *Engine) Construct(rng *rand.Rand) *timetable.Timetable {
	result := timetable.New()
	weeks := engine.problem.Input.WeeksPerTerm

	for _, group := range engine.problem.Input.Groups {
		for _, requirement := range group.Requirements {
			key := requirement.Key()
			teachers := engine.problem.Qualified(key)
			if len(teachers) == 0 {
				engine.logger.Debug().
					Str("group", group.Name).
					Uint64("subject", key.Subject).
					Str("type", string(key.Type)).
					Msg("no qualified teacher, requirement skipped")
				continue
			}

			// A non-split detail keeps the same teacher for every lesson
			split := requirement.Detail.SubgroupCount() > 1
			candidates := teachers
			if !split {
				candidates = []uint64{teachers[rng.IntN(len(teachers))]}
			}

			for range requirement.Detail.TargetLessons(weeks) {
				for _, subgroup := range tracks(requirement.Detail) {
					template := model.Lesson{
						Subject:  requirement.Subject,
						Type:     requirement.Detail.Type,
						Group:    group.Id,
						Subgroup: subgroup,
					}

					if _, ok := engine.placeShared(rng, result, template, candidates); ok {
						continue
					}
					if _, ok := engine.placeRandom(rng, result, template, candidates, engine.config.PlacementAttempts); ok {
						continue
					}
					engine.logger.Debug().
						Str("group", group.Name).
						Uint64("subject", key.Subject).
						Str("type", string(key.Type)).
						Str("subgroup", subgroup.String()).
						Msg("placement attempts exhausted, lesson dropped")
				}
			}
		}
	}

	return result
}

// placeRandom tries random slots and rooms for the template, drawing a teacher among the candidates on each attempt
func (engine *Engine) placeRandom(rng *rand.Rand, target *timetable.Timetable, template model.Lesson, teachers []uint64, attempts int) (model.Lesson, bool) {
	if len(teachers) == 0 {
		return model.Lesson{}, false
	}

	for range attempts {
		lesson := template
		lesson.Teacher = teachers[rng.IntN(len(teachers))]
		lesson.Slot = engine.problem.randomSlot(rng)
		lesson.Room = engine.problem.randomRoom(rng, lesson.Group)

		if added, ok := engine.tryAdd(target, lesson); ok {
			return added, true
		}
	}
	return model.Lesson{}, false
}

// placeShared tries to join a lecture that one of the teachers already gives on the same subject to another group
func (engine *Engine) placeShared(rng *rand.Rand, target *timetable.Timetable, template model.Lesson, teachers []uint64) (model.Lesson, bool) {
	if template.Type != model.Lecture {
		return model.Lesson{}, false
	}

	shared := target.Select(func(lesson model.Lesson) bool {
		return lesson.Type == model.Lecture &&
			lesson.Subject == template.Subject &&
			lesson.Group != template.Group &&
			lo.Contains(teachers, lesson.Teacher)
	})

	for _, index := range rng.Perm(len(shared)) {
		existing, _ := target.Lesson(shared[index])

		lesson := template
		lesson.Teacher = existing.Teacher
		lesson.Slot = existing.Slot
		lesson.Room = existing.Room
		if target.Compatible(lesson, timetable.NoHandle) {
			target.Add(lesson)
			return lesson, true
		}
	}
	return model.Lesson{}, false
}

// tryAdd inserts the lesson, merged into a shared lecture when possible, if it breaks no hard constraint
func (engine *Engine) tryAdd(target *timetable.Timetable, lesson model.Lesson) (model.Lesson, bool) {
	lesson = target.MergeSharedLecture(lesson)
	if !target.Compatible(lesson, timetable.NoHandle) {
		return model.Lesson{}, false
	}
	target.Add(lesson)
	return lesson, true
}
