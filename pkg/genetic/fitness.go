package genetic

import (
	"math"
	"slices"

	"github.com/Silence-o0/Schedule/pkg/model"
	"github.com/Silence-o0/Schedule/pkg/timetable"
	"github.com/rs/zerolog"
	"github.com/samber/lo"
)

// Fitness is the breakdown of the soft-constraint penalties of a timetable
type Fitness struct {
	GroupGaps    int     // Windows between lessons of a group during a day
	TeacherGaps  int     // Windows between lessons of a teacher during a day
	Overcrowding float64 // Students exceeding room capacity, summed over every room and slot
	Overload     float64 // Hours exceeding teacher capacity, summed over every teacher
	HourMismatch float64 // Distance between scheduled and required hours, per week
}

// Score is the negative sum of the penalties; higher is better
func (fitness Fitness) Score() float64 {
	return -(float64(fitness.GroupGaps) +
		float64(fitness.TeacherGaps) +
		fitness.Overcrowding +
		fitness.Overload +
		fitness.HourMismatch)
}

func (fitness Fitness) MarshalZerologObject(event *zerolog.Event) {
	event.
		Int("group_gaps", fitness.GroupGaps).
		Int("teacher_gaps", fitness.TeacherGaps).
		Float64("overcrowding", fitness.Overcrowding).
		Float64("overload", fitness.Overload).
		Float64("hour_mismatch", fitness.HourMismatch).
		Float64("score", fitness.Score())
}

// Evaluate computes the fitness breakdown of the timetable
func (problem *Problem) Evaluate(timetable *timetable.Timetable) Fitness {
	lessons := timetable.Lessons()

	return Fitness{
		GroupGaps:    gaps(lessons, func(lesson model.Lesson) uint64 { return lesson.Group }),
		TeacherGaps:  gaps(lessons, func(lesson model.Lesson) uint64 { return lesson.Teacher }),
		Overcrowding: problem.overcrowding(lessons),
		Overload:     problem.overload(lessons),
		HourMismatch: problem.hourMismatch(lessons),
	}
}

// gaps counts, per owner and day, the adjacent lessons separated by at least one free period
func gaps(lessons []model.Lesson, owner func(lesson model.Lesson) uint64) int {
	type ownerDay struct {
		owner uint64
		day   model.Weekday
	}

	periods := make(map[ownerDay][]uint8)
	for _, lesson := range lessons {
		key := ownerDay{owner: owner(lesson), day: lesson.Slot.Day}
		periods[key] = append(periods[key], lesson.Slot.Period)
	}

	total := 0
	for _, dayPeriods := range periods {
		slices.Sort(dayPeriods)
		for i := range len(dayPeriods) - 1 {
			if dayPeriods[i+1]-dayPeriods[i] > 1 {
				total++
			}
		}
	}
	return total
}

func (problem *Problem) overcrowding(lessons []model.Lesson) float64 {
	type roomSlot struct {
		room uint64
		slot model.Slot
	}

	attendance := make(map[roomSlot]uint64)
	for _, lesson := range lessons {
		attendance[roomSlot{room: lesson.Room, slot: lesson.Slot}] += problem.Attendance(lesson)
	}

	total := 0.0
	for key, students := range attendance {
		if capacity := problem.capacity(key.room); students > capacity {
			total += float64(students - capacity)
		}
	}
	return total
}

func (problem *Problem) overload(lessons []model.Lesson) float64 {
	slots := make(map[uint64]map[model.Slot]struct{})
	for _, lesson := range lessons {
		if slots[lesson.Teacher] == nil {
			slots[lesson.Teacher] = make(map[model.Slot]struct{})
		}
		slots[lesson.Teacher][lesson.Slot] = struct{}{}
	}

	total := 0.0
	for teacher, occupied := range slots {
		hours := float64(len(occupied)) * model.LessonHours
		if capacity := problem.Input.Teachers[teacher].Hours; hours > capacity {
			total += hours - capacity
		}
	}
	return total
}

func (problem *Problem) hourMismatch(lessons []model.Lesson) float64 {
	type groupKey struct {
		group uint64
		key   model.SubjectTypeKey
	}

	counts := lo.CountValuesBy(lessons, func(lesson model.Lesson) groupKey {
		return groupKey{group: lesson.Group, key: lesson.Key()}
	})

	weeks := float64(max(problem.Input.WeeksPerTerm, 1))
	total := 0.0
	for scheduled, count := range counts {
		requirement, ok := problem.Input.Groups[scheduled.group].Requirement(scheduled.key)
		if !ok {
			continue
		}
		hours := float64(count) * model.LessonHours * weeks / float64(requirement.Detail.SubgroupCount())
		total += math.Abs(hours - requirement.Detail.Hours)
	}
	return total / weeks
}
