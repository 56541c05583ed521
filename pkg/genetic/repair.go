package genetic

import (
	"math/rand/v2"

	"github.com/Silence-o0/Schedule/pkg/model"
	"github.com/Silence-o0/Schedule/pkg/timetable"
	"github.com/samber/lo"
)

// Repair brings the scheduled hours of every requirement (and subgroup track) back towards its weekly target,
// removing surplus lessons and filling deficits below half the target. The timetable is modified in place
func (engine *Engine) Repair(rng *rand.Rand, target *timetable.Timetable) {
	weeks := engine.problem.Input.WeeksPerTerm

	for _, group := range engine.problem.Input.Groups {
		for _, requirement := range group.Requirements {
			key := requirement.Key()
			targetHours := requirement.Detail.TargetHours(weeks)

			for _, subgroup := range tracks(requirement.Detail) {
				matching := target.Select(func(lesson model.Lesson) bool {
					return lesson.Group == group.Id &&
						lesson.Key() == key &&
						(!subgroup.IsSet() || lesson.Subgroup == subgroup)
				})
				hours := float64(len(matching)) * model.LessonHours

				//** Remove surplus
				if hours > targetHours {
					excess := int((hours - targetHours) / model.LessonHours)
					for range excess {
						candidates := lo.Filter(matching, func(handle timetable.Handle, _ int) bool {
							lesson, _ := target.Lesson(handle)
							return lesson.Slot.Period == 1 || int(lesson.Slot.Period) == engine.problem.Periods()
						})
						if len(candidates) == 0 {
							candidates = matching
						}

						removed := candidates[rng.IntN(len(candidates))]
						target.Remove(removed)
						matching = lo.Without(matching, removed)
					}
				}

				//** Fill deficit
				if hours < targetHours/2 {
					missing := requirement.Detail.TargetLessons(weeks) - len(matching)

					var teachers []uint64
					if len(matching) > 0 {
						existing, _ := target.Lesson(matching[0])
						teachers = []uint64{existing.Teacher}
					} else {
						teachers = lo.Filter(engine.problem.Qualified(key), func(teacher uint64, _ int) bool {
							return targetHours <= engine.problem.Input.Teachers[teacher].Hours
						})
					}
					if len(teachers) == 0 {
						engine.logger.Debug().
							Str("group", group.Name).
							Uint64("subject", key.Subject).
							Str("type", string(key.Type)).
							Msg("no teacher can cover the deficit")
						continue
					}

					template := model.Lesson{
						Subject:  requirement.Subject,
						Type:     requirement.Detail.Type,
						Group:    group.Id,
						Subgroup: subgroup,
					}
					for range missing {
						added, ok := engine.fillGap(rng, target, template, teachers)
						if !ok {
							added, ok = engine.placeRandom(rng, target, template, teachers, engine.config.PlacementAttempts)
						}
						// Later lessons of the track stay with the same teacher
						if ok {
							teachers = []uint64{added.Teacher}
						}
					}
				}
			}
		}
	}
}

// fillGap looks for an interior period whose neighbours, before and after, are already taken by the group's
// (or the track's) lessons, so the new lesson closes a window instead of opening one
func (engine *Engine) fillGap(rng *rand.Rand, target *timetable.Timetable, template model.Lesson, teachers []uint64) (model.Lesson, bool) {
	days := lo.Map(rng.Perm(len(model.Weekdays)), func(index int, _ int) model.Weekday { return model.Weekdays[index] })

	attends := func(lesson model.Lesson) bool {
		return lesson.Group == template.Group &&
			(!template.Subgroup.IsSet() || !lesson.Subgroup.IsSet() || lesson.Subgroup == template.Subgroup)
	}

	for _, day := range days {
		for period := 2; period < engine.problem.Periods(); period++ {
			slot := model.Slot{Day: day, Period: uint8(period)}
			if len(target.SelectAt(slot, attends)) > 0 {
				continue
			}

			before := target.SelectAt(model.Slot{Day: day, Period: uint8(period - 1)}, attends)
			after := target.SelectAt(model.Slot{Day: day, Period: uint8(period + 1)}, attends)
			if len(before) == 0 || len(after) == 0 {
				continue
			}

			for _, teacher := range teachers {
				lesson := template
				lesson.Teacher = teacher
				lesson.Slot = slot
				lesson.Room = engine.problem.randomRoom(rng, lesson.Group)
				if added, ok := engine.tryAdd(target, lesson); ok {
					return added, true
				}
			}
		}
	}
	return model.Lesson{}, false
}
