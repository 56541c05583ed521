package report

import (
	"cmp"
	"slices"
	"strings"

	"github.com/Silence-o0/Schedule/pkg/genetic"
	"github.com/Silence-o0/Schedule/pkg/model"
	"github.com/samber/lo"
)

// Row is one lesson with every id resolved to its name
type Row struct {
	Group    string `json:"group"`
	Subgroup string `json:"subgroup,omitempty"`
	Day      string `json:"day"`
	Period   uint8  `json:"period"`
	Subject  string `json:"subject"`
	Type     string `json:"type"`
	Teacher  string `json:"teacher"`
	Room     string `json:"room"`

	slot model.Slot
}

// Occupancy is one physical event held in a room at a slot, shared lectures included
type Occupancy struct {
	Room       string
	Capacity   uint64
	Day        string
	Period     uint8
	Subject    string
	Type       string
	Teacher    string
	Groups     []string
	Attendance uint64

	slot model.Slot
}

func (occupancy Occupancy) Overcrowded() bool {
	return occupancy.Attendance > occupancy.Capacity
}

// Report is the exportable view of a run's best timetable
type Report struct {
	RunID   string
	Seed    uint64
	Valid   bool
	Fitness genetic.Fitness
	Lessons []Row
	Rooms   []Occupancy
}

// New resolves the result's timetable against the problem input
func New(problem *genetic.Problem, result genetic.Result) Report {
	input := problem.Input
	lessons := result.Timetable.Lessons()

	rows := lo.Map(lessons, func(lesson model.Lesson, _ int) Row {
		return Row{
			Group:    input.Groups[lesson.Group].Name,
			Subgroup: lesson.Subgroup.String(),
			Day:      lesson.Slot.Day.String(),
			Period:   lesson.Slot.Period,
			Subject:  input.Subjects[lesson.Subject].Name,
			Type:     string(lesson.Type),
			Teacher:  input.Teachers[lesson.Teacher].Name,
			Room:     input.Rooms[lesson.Room].Name,
			slot:     lesson.Slot,
		}
	})

	type roomSlot struct {
		room uint64
		slot model.Slot
	}
	events := lo.GroupBy(lessons, func(lesson model.Lesson) roomSlot {
		return roomSlot{room: lesson.Room, slot: lesson.Slot}
	})

	rooms := make([]Occupancy, 0, len(events))
	for key, attending := range events {
		first := attending[0]
		room := input.Rooms[key.room]
		rooms = append(rooms, Occupancy{
			Room:     room.Name,
			Capacity: room.Capacity,
			Day:      key.slot.Day.String(),
			Period:   key.slot.Period,
			Subject:  input.Subjects[first.Subject].Name,
			Type:     string(first.Type),
			Teacher:  input.Teachers[first.Teacher].Name,
			Groups: lo.Uniq(lo.Map(attending, func(lesson model.Lesson, _ int) string {
				return input.Groups[lesson.Group].Name
			})),
			Attendance: lo.SumBy(attending, func(lesson model.Lesson) uint64 { return problem.Attendance(lesson) }),
			slot:       key.slot,
		})
	}
	slices.SortFunc(rooms, func(a, b Occupancy) int {
		return cmp.Or(strings.Compare(a.Room, b.Room), compareSlots(a.slot, b.slot))
	})

	return Report{
		RunID:   result.RunID,
		Seed:    result.Seed,
		Valid:   result.Valid,
		Fitness: result.Fitness,
		Lessons: rows,
		Rooms:   rooms,
	}
}

// ByGroup orders the lessons by group, slot and subgroup
func (report Report) ByGroup() []Row {
	rows := slices.Clone(report.Lessons)
	slices.SortFunc(rows, func(a, b Row) int {
		return cmp.Or(
			strings.Compare(a.Group, b.Group),
			compareSlots(a.slot, b.slot),
			strings.Compare(a.Subgroup, b.Subgroup),
		)
	})
	return rows
}

// ByTeacher orders the lessons by teacher, slot and group
func (report Report) ByTeacher() []Row {
	rows := slices.Clone(report.Lessons)
	slices.SortFunc(rows, func(a, b Row) int {
		return cmp.Or(
			strings.Compare(a.Teacher, b.Teacher),
			compareSlots(a.slot, b.slot),
			strings.Compare(a.Group, b.Group),
		)
	})
	return rows
}

// Groups keys the lessons of every group by its name, in slot order
func (report Report) Groups() map[string][]Row {
	return lo.GroupBy(report.ByGroup(), func(row Row) string { return row.Group })
}

func compareSlots(a, b model.Slot) int {
	return cmp.Or(cmp.Compare(a.Day, b.Day), cmp.Compare(a.Period, b.Period))
}

// ForGroup keeps the lessons of the group and the room events it attends
func (report Report) ForGroup(name string) Report {
	filtered := report
	filtered.Lessons = lo.Filter(report.Lessons, func(row Row, _ int) bool { return row.Group == name })
	filtered.Rooms = lo.Filter(report.Rooms, func(occupancy Occupancy, _ int) bool {
		return lo.Contains(occupancy.Groups, name)
	})
	return filtered
}
