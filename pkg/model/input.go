package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
	"github.com/samber/lo"
)

var (
	ErrUnknownSubject = errors.New("unknown subject")
	ErrUnknownGroup   = errors.New("unknown group")
	ErrDuplicateName  = errors.New("duplicate name")
)

type RawDetail struct {
	Type      string  `validate:"required,oneof=Lec Lab"`
	Hours     float64 `validate:"gte=0"`
	Subgroups uint64
}

type RawRequirement struct {
	Subject string      `validate:"required"`
	Details []RawDetail `validate:"required,dive"`
}

type RawGroup struct {
	Name     string           `validate:"required"`
	Students uint64           `validate:"gt=0"`
	Subjects []RawRequirement `validate:"dive"`
}

type RawQualification struct {
	Subject string   `validate:"required"`
	Types   []string `validate:"required,dive,oneof=Lec Lab"`
}

type RawTeacher struct {
	Name     string             `validate:"required"`
	Hours    float64            `validate:"gt=0"`
	Subjects []RawQualification `validate:"dive"`
}

type RawRoom struct {
	Name     string `validate:"required"`
	Capacity uint64 `validate:"gt=0"`
}

type RawModelInput struct {
	WeeksPerTerm uint64       `mapstructure:"weeksPerTerm" validate:"gte=1"`
	Groups       []RawGroup   `validate:"required,dive"`
	Teachers     []RawTeacher `validate:"required,dive"`
	Rooms        []RawRoom    `validate:"required,dive"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func InputFromJson(file string) (ModelInput, error) {
	bytes, err := os.ReadFile(file)
	if err != nil {
		return ModelInput{}, fmt.Errorf("cannot read input file: %w", err)
	}

	var inputJson map[string]any
	if err := json.Unmarshal(bytes, &inputJson); err != nil {
		return ModelInput{}, err
	}

	var rawInput RawModelInput
	if err := mapstructure.Decode(inputJson, &rawInput); err != nil {
		return ModelInput{}, fmt.Errorf("cannot decode input: %w", err)
	}
	return ProcessRawInput(rawInput)
}

func ProcessRawInput(rawInput RawModelInput) (ModelInput, error) {
	if err := validate.Struct(rawInput); err != nil {
		return ModelInput{}, fmt.Errorf("invalid input: %w", err)
	}

	//** Manage names
	if err := uniqueNames("group", lo.Map(rawInput.Groups, func(group RawGroup, _ int) string { return group.Name })); err != nil {
		return ModelInput{}, err
	}
	if err := uniqueNames("teacher", lo.Map(rawInput.Teachers, func(teacher RawTeacher, _ int) string { return teacher.Name })); err != nil {
		return ModelInput{}, err
	}
	if err := uniqueNames("room", lo.Map(rawInput.Rooms, func(room RawRoom, _ int) string { return room.Name })); err != nil {
		return ModelInput{}, err
	}

	input := ModelInput{WeeksPerTerm: rawInput.WeeksPerTerm}

	//** Manage subjects
	// Subjects are identified by name; the ones required by groups come first
	subjectIds := make(map[string]uint64)
	addSubject := func(name string) uint64 {
		name = strings.TrimSpace(name)
		if id, ok := subjectIds[name]; ok {
			return id
		}
		id := uint64(len(input.Subjects))
		subjectIds[name] = id
		input.Subjects = append(input.Subjects, Subject{Id: id, Name: name})
		return id
	}

	//** Manage groups
	for i, rawGroup := range rawInput.Groups {
		group := Group{
			Id:           uint64(i),
			Name:         rawGroup.Name,
			Size:         rawGroup.Students,
			Requirements: make([]Requirement, 0),
		}

		for _, rawRequirement := range rawGroup.Subjects {
			subject := addSubject(rawRequirement.Subject)
			for _, rawDetail := range rawRequirement.Details {
				requirement := Requirement{
					Subject: subject,
					Detail: Detail{
						Type:      DetailType(strings.TrimSpace(rawDetail.Type)),
						Hours:     rawDetail.Hours,
						Subgroups: rawDetail.Subgroups,
					},
				}
				// Make sure that a group requires each subject-type only once
				if _, ok := group.Requirement(requirement.Key()); ok {
					return ModelInput{}, fmt.Errorf("group \"%v\" requires \"%v\" (%v) more than once", group.Name, rawRequirement.Subject, rawDetail.Type)
				}
				group.Requirements = append(group.Requirements, requirement)
			}
		}
		input.Groups = append(input.Groups, group)
	}

	//** Manage teachers
	for i, rawTeacher := range rawInput.Teachers {
		teacher := Teacher{
			Id:             uint64(i),
			Name:           rawTeacher.Name,
			Hours:          rawTeacher.Hours,
			Qualifications: make([]SubjectTypeKey, 0),
		}
		for _, rawQualification := range rawTeacher.Subjects {
			subject := addSubject(rawQualification.Subject)
			for _, rawType := range rawQualification.Types {
				key := SubjectTypeKey{Subject: subject, Type: DetailType(strings.TrimSpace(rawType))}
				if !teacher.Qualified(key) {
					teacher.Qualifications = append(teacher.Qualifications, key)
				}
			}
		}
		input.Teachers = append(input.Teachers, teacher)
	}

	//** Manage rooms
	input.Rooms = lo.Map(rawInput.Rooms, func(rawRoom RawRoom, i int) Room {
		return Room{Id: uint64(i), Name: rawRoom.Name, Capacity: rawRoom.Capacity}
	})

	return input, nil
}

// SubjectByName returns the id of the subject with the given name
func (input ModelInput) SubjectByName(name string) (uint64, error) {
	subject, ok := lo.Find(input.Subjects, func(subject Subject) bool {
		return subject.Name == name
	})
	if !ok {
		return 0, fmt.Errorf("%w: %v", ErrUnknownSubject, name)
	}
	return subject.Id, nil
}

// GroupByName returns the group with the given name
func (input ModelInput) GroupByName(name string) (Group, error) {
	group, ok := lo.Find(input.Groups, func(group Group) bool {
		return group.Name == name
	})
	if !ok {
		return Group{}, fmt.Errorf("%w: %v", ErrUnknownGroup, name)
	}
	return group, nil
}

func uniqueNames(kind string, names []string) error {
	duplicates := lo.FindDuplicates(names)
	if len(duplicates) > 0 {
		return fmt.Errorf("%w: %v \"%v\"", ErrDuplicateName, kind, duplicates[0])
	}
	return nil
}
