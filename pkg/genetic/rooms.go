package genetic

import (
	"math/rand/v2"

	"github.com/Silence-o0/Schedule/pkg/model"
	"github.com/Silence-o0/Schedule/pkg/timetable"
	"github.com/onsi/gomega/matchers/support/goraph/bipartitegraph"
	"github.com/samber/lo"
)

const (
	rebalanceRounds  = 5
	rebalanceSamples = 20
)

// Rebalance returns a copy of the timetable where concurrent lessons had their rooms swapped whenever
// the larger audience sat in the smaller room. The input is left untouched
func (engine *Engine) Rebalance(rng *rand.Rand, source *timetable.Timetable) *timetable.Timetable {
	result := source.Clone()
	handles := result.Handles()
	if len(handles) < 2 {
		return result
	}

	for range rebalanceRounds {
		//** Sample two concurrent lessons in different rooms
		var handle1, handle2 timetable.Handle
		var lesson1, lesson2 model.Lesson
		found := false
		for range rebalanceSamples {
			i := rng.IntN(len(handles))
			j := rng.IntN(len(handles) - 1)
			if j >= i {
				j++
			}
			handle1, handle2 = handles[i], handles[j]
			lesson1, _ = result.Lesson(handle1)
			lesson2, _ = result.Lesson(handle2)
			if lesson1.Slot == lesson2.Slot && lesson1.Room != lesson2.Room {
				found = true
				break
			}
		}
		if !found {
			return result
		}

		//** Swap when the ordering is inverted
		attendance1, attendance2 := engine.problem.Attendance(lesson1), engine.problem.Attendance(lesson2)
		capacity1, capacity2 := engine.problem.capacity(lesson1.Room), engine.problem.capacity(lesson2.Room)
		if (attendance1 > attendance2 && capacity1 < capacity2) || (attendance1 < attendance2 && capacity1 > capacity2) {
			swapped1, swapped2 := lesson1, lesson2
			swapped1.Room, swapped2.Room = lesson2.Room, lesson1.Room
			result.Replace(handle1, swapped1)
			result.Replace(handle2, swapped2)

			// Keep the swap only if both lessons remain compatible
			if !result.Compatible(swapped1, handle1) || !result.Compatible(swapped2, handle2) {
				result.Replace(handle1, lesson1)
				result.Replace(handle2, lesson2)
			}
		}
	}
	return result
}

type roomEvent struct {
	room       uint64
	handles    []timetable.Handle
	attendance uint64
	fits       bool // Some room holds the whole event
}

// RematchRooms picks a random occupied slot and reassigns the rooms of its events (lessons sharing a room)
// through a maximum bipartite matching between events and the rooms able to hold them; an event no room can hold
// may only keep its current room. The timetable is modified in place and the result tells whether any room changed
func (engine *Engine) RematchRooms(rng *rand.Rand, target *timetable.Timetable) bool {
	slots := lo.Uniq(lo.Map(target.Lessons(), func(lesson model.Lesson, _ int) model.Slot { return lesson.Slot }))
	if len(slots) == 0 {
		return false
	}
	slot := slots[rng.IntN(len(slots))]

	//** Group the slot's lessons into events
	events := make([]*roomEvent, 0)
	byRoom := make(map[uint64]*roomEvent)
	for _, handle := range target.AtSlot(slot) {
		lesson, _ := target.Lesson(handle)
		event, ok := byRoom[lesson.Room]
		if !ok {
			event = &roomEvent{room: lesson.Room}
			byRoom[lesson.Room] = event
			events = append(events, event)
		}
		event.handles = append(event.handles, handle)
		event.attendance += engine.problem.Attendance(lesson)
	}

	for _, event := range events {
		event.fits = lo.SomeBy(engine.problem.Input.Rooms, func(room model.Room) bool { return room.Capacity >= event.attendance })
	}

	//** Match events against rooms
	neighbors := func(eventAny any, roomAny any) (bool, error) {
		event := eventAny.(*roomEvent)
		room := roomAny.(model.Room)
		if !event.fits {
			return room.Id == event.room, nil
		}
		return room.Capacity >= event.attendance, nil
	}
	rooms := lo.Map(rng.Perm(len(engine.problem.Input.Rooms)), func(index int, _ int) model.Room {
		return engine.problem.Input.Rooms[index]
	})
	eventsAny := lo.Map(events, func(event *roomEvent, _ int) any { return event })
	roomsAny := lo.Map(rooms, func(room model.Room, _ int) any { return room })

	graph, err := bipartitegraph.NewBipartiteGraph(eventsAny, roomsAny, neighbors)
	if err != nil {
		return false
	}
	matching := graph.LargestMatching()
	if len(matching) < len(events) {
		return false
	}

	//** Apply the assignment
	previous := make(map[timetable.Handle]model.Lesson)
	for _, edge := range matching {
		event, room := events[edge.Node1], rooms[edge.Node2-len(events)]
		if event.room == room.Id {
			continue
		}
		for _, handle := range event.handles {
			lesson, _ := target.Lesson(handle)
			previous[handle] = lesson
			lesson.Room = room.Id
			target.Replace(handle, lesson)
		}
	}
	if len(previous) == 0 {
		return false
	}

	for handle := range previous {
		lesson, _ := target.Lesson(handle)
		if !target.Compatible(lesson, handle) {
			for handle, lesson := range previous {
				target.Replace(handle, lesson)
			}
			return false
		}
	}
	return true
}
