package timetable

import (
	"slices"

	"github.com/Silence-o0/Schedule/pkg/model"
	"github.com/samber/lo"
)

// Handle addresses a lesson inside a timetable. Handles are stable across clones and never reused
type Handle uint64

// NoHandle refers to no lesson; it's used when checking a candidate that's not part of the timetable yet
const NoHandle Handle = 0

// Timetable is an unordered multiset of lessons stored as an arena addressed by handles, with a slot index
type Timetable struct {
	next    Handle
	order   []Handle                // Insertion order, to keep iteration deterministic
	lessons map[Handle]model.Lesson // Arena
	slots   map[model.Slot][]Handle // Lessons per slot
}

func New() *Timetable {
	return &Timetable{
		next:    NoHandle + 1,
		order:   make([]Handle, 0),
		lessons: make(map[Handle]model.Lesson),
		slots:   make(map[model.Slot][]Handle),
	}
}

// FromLessons builds a timetable holding the given lessons without checking any constraint
func FromLessons(lessons []model.Lesson) *Timetable {
	timetable := New()
	for _, lesson := range lessons {
		timetable.Add(lesson)
	}
	return timetable
}

func (timetable *Timetable) Len() int {
	return len(timetable.order)
}

// Add inserts the lesson without checking any constraint and returns its handle
func (timetable *Timetable) Add(lesson model.Lesson) Handle {
	handle := timetable.next
	timetable.next++

	timetable.lessons[handle] = lesson
	timetable.order = append(timetable.order, handle)
	timetable.slots[lesson.Slot] = append(timetable.slots[lesson.Slot], handle)
	return handle
}

func (timetable *Timetable) Remove(handle Handle) bool {
	lesson, ok := timetable.lessons[handle]
	if !ok {
		return false
	}

	delete(timetable.lessons, handle)
	timetable.order = slices.DeleteFunc(timetable.order, func(h Handle) bool { return h == handle })
	timetable.slots[lesson.Slot] = slices.DeleteFunc(timetable.slots[lesson.Slot], func(h Handle) bool { return h == handle })
	if len(timetable.slots[lesson.Slot]) == 0 {
		delete(timetable.slots, lesson.Slot)
	}
	return true
}

// Replace swaps the lesson stored under handle for a new value, keeping the handle
func (timetable *Timetable) Replace(handle Handle, lesson model.Lesson) bool {
	previous, ok := timetable.lessons[handle]
	if !ok {
		return false
	}

	timetable.lessons[handle] = lesson
	if previous.Slot != lesson.Slot {
		timetable.slots[previous.Slot] = slices.DeleteFunc(timetable.slots[previous.Slot], func(h Handle) bool { return h == handle })
		if len(timetable.slots[previous.Slot]) == 0 {
			delete(timetable.slots, previous.Slot)
		}
		timetable.slots[lesson.Slot] = append(timetable.slots[lesson.Slot], handle)
	}
	return true
}

func (timetable *Timetable) Lesson(handle Handle) (model.Lesson, bool) {
	lesson, ok := timetable.lessons[handle]
	return lesson, ok
}

// Handles returns every handle in insertion order
func (timetable *Timetable) Handles() []Handle {
	return slices.Clone(timetable.order)
}

// Lessons returns every lesson in insertion order
func (timetable *Timetable) Lessons() []model.Lesson {
	return lo.Map(timetable.order, func(handle Handle, _ int) model.Lesson {
		return timetable.lessons[handle]
	})
}

// AtSlot returns the handles of the lessons scheduled at the slot
func (timetable *Timetable) AtSlot(slot model.Slot) []Handle {
	return slices.Clone(timetable.slots[slot])
}

// Select returns the handles of the lessons satisfying the predicate, in insertion order
func (timetable *Timetable) Select(predicate func(lesson model.Lesson) bool) []Handle {
	return lo.Filter(timetable.order, func(handle Handle, _ int) bool {
		return predicate(timetable.lessons[handle])
	})
}

// SelectAt is like Select but restricted to a single slot
func (timetable *Timetable) SelectAt(slot model.Slot, predicate func(lesson model.Lesson) bool) []Handle {
	return lo.Filter(timetable.slots[slot], func(handle Handle, _ int) bool {
		return predicate(timetable.lessons[handle])
	})
}

// Clone returns a deep copy that keeps every handle
func (timetable *Timetable) Clone() *Timetable {
	clone := &Timetable{
		next:    timetable.next,
		order:   slices.Clone(timetable.order),
		lessons: make(map[Handle]model.Lesson, len(timetable.lessons)),
		slots:   make(map[model.Slot][]Handle, len(timetable.slots)),
	}
	for handle, lesson := range timetable.lessons {
		clone.lessons[handle] = lesson
	}
	for slot, handles := range timetable.slots {
		clone.slots[slot] = slices.Clone(handles)
	}
	return clone
}

// Equal checks whether both timetables hold the same lessons as a multiset
func Equal(timetable1, timetable2 *Timetable) bool {
	if timetable1.Len() != timetable2.Len() {
		return false
	}
	counts := lo.CountValues(timetable1.Lessons())
	for _, lesson := range timetable2.Lessons() {
		if counts[lesson] == 0 {
			return false
		}
		counts[lesson]--
	}
	return true
}
