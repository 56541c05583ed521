package genetic

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/Silence-o0/Schedule/pkg/model"
	"github.com/samber/lo"
)

// Problem is the read-only view of the input shared by every operator and worker
type Problem struct {
	Input model.ModelInput

	slots     []model.Slot
	periods   int
	qualified map[model.SubjectTypeKey][]uint64 // Teachers per subject-type
	fitting   [][]uint64                        // Rooms per group whose capacity holds the whole group
}

func NewProblem(input model.ModelInput, maxLessonsPerDay int) (*Problem, error) {
	//** Check references
	if len(input.Rooms) == 0 {
		return nil, errors.New("at least one room is required")
	} else if input.WeeksPerTerm == 0 {
		return nil, errors.New("weeks per term must be positive")
	} else if maxLessonsPerDay <= 0 {
		return nil, errors.New("lessons per day must be positive")
	}
	for i, subject := range input.Subjects {
		if subject.Id != uint64(i) {
			return nil, fmt.Errorf("subject \"%v\" has id %v at position %v", subject.Name, subject.Id, i)
		}
	}
	for i, group := range input.Groups {
		if group.Id != uint64(i) {
			return nil, fmt.Errorf("%w: group \"%v\" has id %v at position %v", model.ErrUnknownGroup, group.Name, group.Id, i)
		}
		for _, requirement := range group.Requirements {
			if requirement.Subject >= uint64(len(input.Subjects)) {
				return nil, fmt.Errorf("%w: group \"%v\" requires subject %v", model.ErrUnknownSubject, group.Name, requirement.Subject)
			}
		}
	}
	for i, teacher := range input.Teachers {
		if teacher.Id != uint64(i) {
			return nil, fmt.Errorf("teacher \"%v\" has id %v at position %v", teacher.Name, teacher.Id, i)
		}
		for _, key := range teacher.Qualifications {
			if key.Subject >= uint64(len(input.Subjects)) {
				return nil, fmt.Errorf("%w: teacher \"%v\" is qualified for subject %v", model.ErrUnknownSubject, teacher.Name, key.Subject)
			}
		}
	}
	for i, room := range input.Rooms {
		if room.Id != uint64(i) {
			return nil, fmt.Errorf("room \"%v\" has id %v at position %v", room.Name, room.Id, i)
		}
	}

	problem := &Problem{
		Input:     input,
		slots:     model.Slots(maxLessonsPerDay),
		periods:   maxLessonsPerDay,
		qualified: make(map[model.SubjectTypeKey][]uint64),
		fitting:   make([][]uint64, len(input.Groups)),
	}

	//** Index qualifications
	for _, teacher := range input.Teachers {
		for _, key := range teacher.Qualifications {
			problem.qualified[key] = append(problem.qualified[key], teacher.Id)
		}
	}

	//** Index rooms
	allRooms := lo.Map(input.Rooms, func(room model.Room, _ int) uint64 { return room.Id })
	for _, group := range input.Groups {
		fitting := lo.FilterMap(input.Rooms, func(room model.Room, _ int) (uint64, bool) {
			return room.Id, room.Capacity >= group.Size
		})
		if len(fitting) == 0 {
			fitting = allRooms
		}
		problem.fitting[group.Id] = fitting
	}

	return problem, nil
}

// Slots returns every slot of the week
func (problem *Problem) Slots() []model.Slot {
	return problem.slots
}

func (problem *Problem) Periods() int {
	return problem.periods
}

// Qualified returns the teachers able to teach the subject-type
func (problem *Problem) Qualified(key model.SubjectTypeKey) []uint64 {
	return problem.qualified[key]
}

// Attendance returns the students attending the lesson
func (problem *Problem) Attendance(lesson model.Lesson) uint64 {
	return problem.Input.Groups[lesson.Group].Size
}

func (problem *Problem) capacity(room uint64) uint64 {
	return problem.Input.Rooms[room].Capacity
}

func (problem *Problem) randomSlot(rng *rand.Rand) model.Slot {
	return problem.slots[rng.IntN(len(problem.slots))]
}

// randomRoom picks a room that holds the group, or any room if none does
func (problem *Problem) randomRoom(rng *rand.Rand, group uint64) uint64 {
	rooms := problem.fitting[group]
	return rooms[rng.IntN(len(rooms))]
}

// tracks returns the subgroup labels scheduled independently for the detail
func tracks(detail model.Detail) []model.Subgroup {
	count := detail.SubgroupCount()
	if count == 1 {
		return []model.Subgroup{{}}
	}
	return lo.Times(int(count), func(i int) model.Subgroup {
		return model.Subgroup{Index: uint64(i + 1), Count: count}
	})
}
