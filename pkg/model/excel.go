package model

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

const (
	GroupsSheet   = "Groups"
	TeachersSheet = "Teachers"
	RoomsSheet    = "Auditoriums"
)

// InputFromExcel reads a workbook with the sheets "Groups" (name, students, requirements),
// "Teachers" (name, qualifications, hours) and "Auditoriums" (name, capacity). The first row of each sheet is a header
// and reading stops at the first row with an empty first cell
func InputFromExcel(file string, weeksPerTerm uint64) (ModelInput, error) {
	workbook, err := excelize.OpenFile(file)
	if err != nil {
		return ModelInput{}, fmt.Errorf("cannot open workbook: %w", err)
	}
	defer workbook.Close()

	rawInput := RawModelInput{WeeksPerTerm: weeksPerTerm}

	//** Read groups
	rows, err := sheetRows(workbook, GroupsSheet, 3)
	if err != nil {
		return ModelInput{}, err
	}
	for i, row := range rows {
		students, err := strconv.ParseUint(strings.TrimSpace(row[1]), 10, 64)
		if err != nil {
			return ModelInput{}, fmt.Errorf("sheet %v, row %d: invalid students count: %w", GroupsSheet, i+2, err)
		}
		requirements, err := ParseRequirements(row[2])
		if err != nil {
			return ModelInput{}, fmt.Errorf("sheet %v, row %d: %w", GroupsSheet, i+2, err)
		}
		rawInput.Groups = append(rawInput.Groups, RawGroup{Name: strings.TrimSpace(row[0]), Students: students, Subjects: requirements})
	}

	//** Read teachers
	rows, err = sheetRows(workbook, TeachersSheet, 3)
	if err != nil {
		return ModelInput{}, err
	}
	for i, row := range rows {
		qualifications, err := ParseQualifications(row[1])
		if err != nil {
			return ModelInput{}, fmt.Errorf("sheet %v, row %d: %w", TeachersSheet, i+2, err)
		}
		hours, err := strconv.ParseFloat(strings.TrimSpace(row[2]), 64)
		if err != nil {
			return ModelInput{}, fmt.Errorf("sheet %v, row %d: invalid hours: %w", TeachersSheet, i+2, err)
		}
		rawInput.Teachers = append(rawInput.Teachers, RawTeacher{Name: strings.TrimSpace(row[0]), Hours: hours, Subjects: qualifications})
	}

	//** Read rooms
	rows, err = sheetRows(workbook, RoomsSheet, 2)
	if err != nil {
		return ModelInput{}, err
	}
	for i, row := range rows {
		capacity, err := strconv.ParseUint(strings.TrimSpace(row[1]), 10, 64)
		if err != nil {
			return ModelInput{}, fmt.Errorf("sheet %v, row %d: invalid capacity: %w", RoomsSheet, i+2, err)
		}
		rawInput.Rooms = append(rawInput.Rooms, RawRoom{Name: strings.TrimSpace(row[0]), Capacity: capacity})
	}

	return ProcessRawInput(rawInput)
}

// ParseRequirements decodes "Math(Lec|42,Lab|21|2)-Physics(Lec|21)" into raw requirements
func ParseRequirements(text string) ([]RawRequirement, error) {
	requirements := make([]RawRequirement, 0)
	for _, part := range strings.Split(text, "-") {
		name, body, ok := splitParenthesis(part)
		if !ok {
			continue
		}

		requirement := RawRequirement{Subject: name, Details: make([]RawDetail, 0)}
		for _, detailText := range strings.Split(body, ",") {
			fields := strings.Split(detailText, "|")
			if len(fields) < 2 {
				return nil, fmt.Errorf("subject \"%v\": detail \"%v\" must be Type|hours[|subgroups]", name, detailText)
			}
			hours, err := strconv.ParseFloat(strings.TrimSpace(fields[1]), 64)
			if err != nil {
				return nil, fmt.Errorf("subject \"%v\": invalid hours: %w", name, err)
			}
			detail := RawDetail{Type: strings.TrimSpace(fields[0]), Hours: hours}
			if len(fields) > 2 {
				subgroups, err := strconv.ParseUint(strings.TrimSpace(fields[2]), 10, 64)
				if err != nil {
					return nil, fmt.Errorf("subject \"%v\": invalid subgroups: %w", name, err)
				}
				detail.Subgroups = subgroups
			}
			requirement.Details = append(requirement.Details, detail)
		}
		requirements = append(requirements, requirement)
	}
	return requirements, nil
}

// ParseQualifications decodes "Math(Lec|Lab), Physics(Lec)" into raw qualifications
func ParseQualifications(text string) ([]RawQualification, error) {
	qualifications := make([]RawQualification, 0)
	for _, part := range strings.Split(text, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		name, body, ok := splitParenthesis(part)
		if !ok {
			return nil, fmt.Errorf("qualification \"%v\" must be Subject(Type|Type)", strings.TrimSpace(part))
		}
		types := make([]string, 0)
		for _, detailType := range strings.Split(body, "|") {
			types = append(types, strings.TrimSpace(detailType))
		}
		qualifications = append(qualifications, RawQualification{Subject: name, Types: types})
	}
	return qualifications, nil
}

func splitParenthesis(text string) (name string, body string, ok bool) {
	open := strings.Index(text, "(")
	closing := strings.LastIndex(text, ")")
	if open < 0 || closing < open {
		return "", "", false
	}
	return strings.TrimSpace(text[:open]), text[open+1 : closing], true
}

func sheetRows(workbook *excelize.File, sheet string, columns int) ([][]string, error) {
	rows, err := workbook.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("cannot read sheet %v: %w", sheet, err)
	}

	result := make([][]string, 0, len(rows))
	for i, row := range rows {
		if i == 0 {
			continue // Header
		}
		if len(row) == 0 || strings.TrimSpace(row[0]) == "" {
			break
		}
		if len(row) < columns {
			return nil, fmt.Errorf("sheet %v, row %d: expected %d columns, found %d", sheet, i+1, columns, len(row))
		}
		result = append(result, row)
	}
	return result, nil
}
