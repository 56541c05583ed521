package model

import (
	"fmt"
	"math"
	"slices"
)

const (
	MaxLessonsPerDay = 4   // Periods available in a day
	LessonHours      = 1.5 // Duration of one lesson in hours
)

type Weekday uint8

const (
	Monday Weekday = iota + 1
	Tuesday
	Wednesday
	Thursday
	Friday
)

var Weekdays = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday}

var weekdayNames = map[Weekday]string{
	Monday:    "MONDAY",
	Tuesday:   "TUESDAY",
	Wednesday: "WEDNESDAY",
	Thursday:  "THURSDAY",
	Friday:    "FRIDAY",
}

func (day Weekday) String() string {
	if name, ok := weekdayNames[day]; ok {
		return name
	}
	return fmt.Sprintf("Weekday(%d)", uint8(day))
}

// Slot is the discrete time unit a lesson occupies
type Slot struct {
	Day    Weekday
	Period uint8
}

// Slots returns every slot of the week in (day, period) order
func Slots(periods int) []Slot {
	slots := make([]Slot, 0, len(Weekdays)*periods)
	for _, day := range Weekdays {
		for period := 1; period <= periods; period++ {
			slots = append(slots, Slot{Day: day, Period: uint8(period)})
		}
	}
	return slots
}

type DetailType string

const (
	Lecture DetailType = "Lec"
	Lab     DetailType = "Lab"
)

type Subject struct {
	Id   uint64
	Name string
}

// SubjectTypeKey identifies a subject taught in a given format (e.g. Math lectures)
type SubjectTypeKey struct {
	Subject uint64
	Type    DetailType
}

type Detail struct {
	Type      DetailType
	Hours     float64 // Hours required over the whole term
	Subgroups uint64  // Parallel sections of a split detail, zero when not split
}

// SubgroupCount returns the number of independently scheduled tracks of the detail. Lectures never split
func (detail Detail) SubgroupCount() uint64 {
	if detail.Type == Lecture || detail.Subgroups < 2 {
		return 1
	}
	return detail.Subgroups
}

// TargetHours returns the hours the detail should receive during one generation block
func (detail Detail) TargetHours(weeksPerTerm uint64) float64 {
	return detail.Hours / float64(max(weeksPerTerm, 1))
}

// TargetLessons returns the number of lessons that cover the detail during one generation block
func (detail Detail) TargetLessons(weeksPerTerm uint64) int {
	return int(math.Ceil(detail.TargetHours(weeksPerTerm) / LessonHours))
}

type Requirement struct {
	Subject uint64
	Detail  Detail
}

func (requirement Requirement) Key() SubjectTypeKey {
	return SubjectTypeKey{Subject: requirement.Subject, Type: requirement.Detail.Type}
}

type Group struct {
	Id           uint64
	Name         string
	Size         uint64
	Requirements []Requirement
}

// Requirement returns the group's requirement matching the key
func (group Group) Requirement(key SubjectTypeKey) (Requirement, bool) {
	index := slices.IndexFunc(group.Requirements, func(requirement Requirement) bool {
		return requirement.Key() == key
	})
	if index < 0 {
		return Requirement{}, false
	}
	return group.Requirements[index], true
}

type Teacher struct {
	Id             uint64
	Name           string
	Hours          float64 // Weekly teaching-hour capacity
	Qualifications []SubjectTypeKey
}

func (teacher Teacher) Qualified(key SubjectTypeKey) bool {
	return slices.Contains(teacher.Qualifications, key)
}

type Room struct {
	Id       uint64
	Name     string
	Capacity uint64
}

// Subgroup labels one parallel section "Index/Count" of a split detail. The zero value means unset
type Subgroup struct {
	Index uint64
	Count uint64
}

func (subgroup Subgroup) IsSet() bool {
	return subgroup.Count > 0
}

// Parallel checks whether both subgroups are distinct sections of the same split, so they may run concurrently
func (subgroup Subgroup) Parallel(other Subgroup) bool {
	return subgroup.IsSet() && other.IsSet() &&
		subgroup.Count == other.Count &&
		subgroup.Index != other.Index
}

func (subgroup Subgroup) String() string {
	if !subgroup.IsSet() {
		return ""
	}
	return fmt.Sprintf("%d/%d", subgroup.Index, subgroup.Count)
}

// Lesson is one scheduled occurrence of a subject for a group (or subgroup)
type Lesson struct {
	Slot     Slot
	Teacher  uint64
	Subject  uint64
	Type     DetailType
	Group    uint64
	Room     uint64
	Subgroup Subgroup
}

func (lesson Lesson) Key() SubjectTypeKey {
	return SubjectTypeKey{Subject: lesson.Subject, Type: lesson.Type}
}

// SharesLecture checks whether both lessons may be the same physical lecture attended by several groups
func (lesson Lesson) SharesLecture(other Lesson) bool {
	return lesson.Type == Lecture && other.Type == Lecture && lesson.Subject == other.Subject
}

type ModelInput struct {
	Subjects     []Subject
	Groups       []Group
	Teachers     []Teacher
	Rooms        []Room
	WeeksPerTerm uint64
}
