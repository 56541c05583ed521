package genetic

import (
	"math/rand/v2"

	"github.com/Silence-o0/Schedule/pkg/model"
	"github.com/Silence-o0/Schedule/pkg/timetable"
	"github.com/samber/lo"
)

type teachingKey struct {
	subject uint64
	kind    model.DetailType
	group   uint64
}

// Smooth removes whole (subject, type, group) lesson sets from overloaded teachers until their occupied hours
// fit their capacity. A set is only removed when the slots it frees don't overshoot the excess by more than one lesson.
// Part of a shared lecture frees no slot while another group still attends it
func (engine *Engine) Smooth(rng *rand.Rand, target *timetable.Timetable) {
	for _, teacher := range engine.problem.Input.Teachers {
		handles := target.Select(func(lesson model.Lesson) bool { return lesson.Teacher == teacher.Id })
		excess := float64(len(occupied(target, handles)))*model.LessonHours - teacher.Hours
		if excess <= 0 {
			continue
		}

		//** Group lessons by subject, type and group keeping the first-seen order
		keys := make([]teachingKey, 0)
		sets := make(map[teachingKey][]timetable.Handle)
		for _, handle := range handles {
			lesson, _ := target.Lesson(handle)
			key := teachingKey{subject: lesson.Subject, kind: lesson.Type, group: lesson.Group}
			if _, ok := sets[key]; !ok {
				keys = append(keys, key)
			}
			sets[key] = append(sets[key], handle)
		}

		//** Drop random sets
		for excess > 0 && len(keys) > 0 {
			index := rng.IntN(len(keys))
			set := sets[keys[index]]
			keys = append(keys[:index], keys[index+1:]...)

			remaining := lo.Without(handles, set...)
			freed := len(occupied(target, handles)) - len(occupied(target, remaining))
			if excess < model.LessonHours*float64(freed-1) {
				continue
			}

			for _, handle := range set {
				target.Remove(handle)
			}
			handles = remaining
			excess = float64(len(occupied(target, handles)))*model.LessonHours - teacher.Hours
		}

		engine.logger.Debug().
			Str("teacher", teacher.Name).
			Float64("remaining_excess", max(excess, 0)).
			Msg("teacher smoothed")
	}
}

// occupied returns the distinct slots of the lessons
func occupied(target *timetable.Timetable, handles []timetable.Handle) []model.Slot {
	return lo.Uniq(lo.Map(handles, func(handle timetable.Handle, _ int) model.Slot {
		lesson, _ := target.Lesson(handle)
		return lesson.Slot
	}))
}
