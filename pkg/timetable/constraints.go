package timetable

import "github.com/Silence-o0/Schedule/pkg/model"

// Conflicts checks whether two distinct lessons violate a hard constraint when scheduled together:
//   - A teacher teaches once per slot, unless both lessons are the same lecture in the same room
//   - A group attends once per slot, unless both lessons are parallel subgroups of the same split
//   - A room hosts one lesson per slot, unless both lessons are the same lecture given by the same teacher
func Conflicts(lesson1, lesson2 model.Lesson) bool {
	if lesson1.Slot != lesson2.Slot {
		return false
	}

	if lesson1.Teacher == lesson2.Teacher &&
		!(lesson1.SharesLecture(lesson2) && lesson1.Room == lesson2.Room) {
		return true
	}

	if lesson1.Group == lesson2.Group &&
		!lesson1.Subgroup.Parallel(lesson2.Subgroup) {
		return true
	}

	if lesson1.Room == lesson2.Room &&
		!(lesson1.SharesLecture(lesson2) && lesson1.Teacher == lesson2.Teacher) {
		return true
	}

	return false
}

// Compatible checks the lesson against every other lesson of the timetable, skipping the one stored under self.
// Only the lessons sharing its slot can conflict, so the slot index is scanned instead of the whole timetable
func (timetable *Timetable) Compatible(lesson model.Lesson, self Handle) bool {
	for _, handle := range timetable.slots[lesson.Slot] {
		if handle == self {
			continue
		}
		if Conflicts(timetable.lessons[handle], lesson) {
			return false
		}
	}
	return true
}

// compatibleScan is the pairwise reference of Compatible
func (timetable *Timetable) compatibleScan(lesson model.Lesson, self Handle) bool {
	for _, handle := range timetable.order {
		if handle == self {
			continue
		}
		if Conflicts(timetable.lessons[handle], lesson) {
			return false
		}
	}
	return true
}

// Valid checks that every lesson is compatible with the rest of the timetable
func (timetable *Timetable) Valid() bool {
	for _, handle := range timetable.order {
		if !timetable.Compatible(timetable.lessons[handle], handle) {
			return false
		}
	}
	return true
}

// Violations returns every pair of handles whose lessons conflict
func (timetable *Timetable) Violations() [][2]Handle {
	violations := make([][2]Handle, 0)
	for _, handles := range timetable.slots {
		for i := range len(handles) - 1 {
			for j := i + 1; j < len(handles); j++ {
				if Conflicts(timetable.lessons[handles[i]], timetable.lessons[handles[j]]) {
					violations = append(violations, [2]Handle{handles[i], handles[j]})
				}
			}
		}
	}
	return violations
}

// MergeSharedLecture looks for a lecture of the same subject given by the same teacher at the same slot to a different group.
// When found, the lesson is moved into that lecture's room so both groups attend a single event; if the merged lesson
// isn't compatible, the original lesson is returned unchanged
func (timetable *Timetable) MergeSharedLecture(lesson model.Lesson) model.Lesson {
	if lesson.Type != model.Lecture {
		return lesson
	}

	for _, handle := range timetable.slots[lesson.Slot] {
		existing := timetable.lessons[handle]
		if existing.Teacher != lesson.Teacher ||
			existing.Subject != lesson.Subject ||
			existing.Type != model.Lecture ||
			existing.Group == lesson.Group {
			continue
		}

		merged := lesson
		merged.Room = existing.Room
		if timetable.Compatible(merged, NoHandle) {
			return merged
		}
		return lesson
	}
	return lesson
}
