package timetable

import (
	"github.com/Silence-o0/Schedule/pkg/model"
	"github.com/samber/lo"
)

// Signature is the part of a lesson that tells two timetables apart
type Signature struct {
	Slot    model.Slot
	Teacher uint64
	Group   uint64
	Type    model.DetailType
	Subject uint64
	Room    uint64
}

// Signatures returns the set of lesson signatures of the timetable
func (timetable *Timetable) Signatures() []Signature {
	return lo.Uniq(lo.Map(timetable.Lessons(), func(lesson model.Lesson, _ int) Signature {
		return Signature{
			Slot:    lesson.Slot,
			Teacher: lesson.Teacher,
			Group:   lesson.Group,
			Type:    lesson.Type,
			Subject: lesson.Subject,
			Room:    lesson.Room,
		}
	}))
}

// Similarity returns the Jaccard index of both timetables' signature sets. Two empty timetables are identical
func Similarity(timetable1, timetable2 *Timetable) float64 {
	signatures1, signatures2 := timetable1.Signatures(), timetable2.Signatures()

	intersection := len(lo.Intersect(signatures1, signatures2))
	union := len(signatures1) + len(signatures2) - intersection
	if union == 0 {
		return 1
	}
	return float64(intersection) / float64(union)
}
