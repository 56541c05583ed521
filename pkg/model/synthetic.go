package model

import (
	"fmt"
	"math/rand/v2"

	"github.com/samber/lo"
)

var syntheticHours = []float64{21, 42, 63}

// Synthetic builds a random dataset with the given amount of groups, teachers, rooms and subjects
func Synthetic(rng *rand.Rand, groups, teachers, rooms, subjects int, weeksPerTerm uint64) RawModelInput {
	rawInput := RawModelInput{
		WeeksPerTerm: weeksPerTerm,
		Groups:       make([]RawGroup, 0, groups),
		Teachers:     make([]RawTeacher, 0, teachers),
		Rooms:        make([]RawRoom, 0, rooms),
	}

	//** Subjects: a lecture and, most of the time, a lab split into 1..3 subgroups
	catalog := make([]RawRequirement, 0, subjects)
	for i := range subjects {
		details := []RawDetail{{Type: string(Lecture), Hours: syntheticHours[rng.IntN(len(syntheticHours))]}}
		if rng.Float64() < 0.75 {
			details = append(details, RawDetail{
				Type:      string(Lab),
				Hours:     syntheticHours[rng.IntN(len(syntheticHours))],
				Subgroups: uint64(rng.IntN(3) + 1),
			})
		}
		catalog = append(catalog, RawRequirement{Subject: fmt.Sprintf("Subject%d", i+1), Details: details})
	}

	//** Teachers
	for i := range teachers {
		qualifications := make([]RawQualification, 0)
		for _, subject := range sample(rng, catalog, rng.IntN(max(min(12, len(catalog))-1, 1))+min(2, len(catalog))) {
			types := make([]string, 0, 2)
			hasLab := lo.SomeBy(subject.Details, func(detail RawDetail) bool { return detail.Type == string(Lab) })
			if hasLab {
				types = append(types, string(Lab))
			}
			if rng.Float64() < 0.7 {
				types = append(types, string(Lecture))
			}
			if len(types) > 0 {
				qualifications = append(qualifications, RawQualification{Subject: subject.Subject, Types: types})
			}
		}
		rawInput.Teachers = append(rawInput.Teachers, RawTeacher{
			Name:     fmt.Sprintf("Teacher%d", i+1),
			Hours:    float64(rng.IntN(16) + 20),
			Subjects: qualifications,
		})
	}

	//** Groups
	for i := range groups {
		requirements := make([]RawRequirement, 0)
		for _, subject := range sample(rng, catalog, rng.IntN(3)+6) {
			details := lo.Filter(subject.Details, func(detail RawDetail, _ int) bool { return detail.Type == string(Lecture) })
			if rng.Float64() < 0.75 {
				details = append(details, lo.Filter(subject.Details, func(detail RawDetail, _ int) bool { return detail.Type == string(Lab) })...)
			}
			requirements = append(requirements, RawRequirement{Subject: subject.Subject, Details: details})
		}
		rawInput.Groups = append(rawInput.Groups, RawGroup{
			Name:     fmt.Sprintf("Group%d", i+1),
			Students: uint64(rng.IntN(21) + 20),
			Subjects: requirements,
		})
	}

	//** Rooms
	for i := range rooms {
		rawInput.Rooms = append(rawInput.Rooms, RawRoom{
			Name:     fmt.Sprintf("A%d", i+1),
			Capacity: uint64(rng.IntN(101) + 20),
		})
	}

	return rawInput
}

// sample picks n distinct elements of collection (or all of them when n exceeds its length)
func sample[T any](rng *rand.Rand, collection []T, n int) []T {
	n = min(n, len(collection))
	return lo.Map(rng.Perm(len(collection))[:n], func(index int, _ int) T {
		return collection[index]
	})
}
