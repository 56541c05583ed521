package report

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

const (
	GroupsSheet   = "Sorted_By_Groups"
	TeachersSheet = "Sorted_By_Teachers"
	RoomsSheet    = "Sorted_By_Auditorium"
	FitnessSheet  = "Fitness"
)

// WriteExcel saves the report as a workbook with one sheet per ordering plus the fitness breakdown
func (report Report) WriteExcel(file string) error {
	workbook := excelize.NewFile()
	defer workbook.Close()

	header, err := workbook.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("cannot create header style: %w", err)
	}

	//** Groups
	groupRows := make([][]any, 0, len(report.Lessons))
	for _, row := range report.ByGroup() {
		groupRows = append(groupRows, []any{row.Group, row.Subgroup, row.Day, row.Period, row.Subject, row.Type, row.Teacher, row.Room})
	}
	if err := writeSheet(workbook, GroupsSheet, header,
		[]any{"Group", "Subgroup", "Day", "Period", "Subject", "Type", "Teacher", "Auditorium"}, groupRows); err != nil {
		return err
	}

	//** Teachers
	teacherRows := make([][]any, 0, len(report.Lessons))
	for _, row := range report.ByTeacher() {
		teacherRows = append(teacherRows, []any{row.Teacher, row.Day, row.Period, row.Subject, row.Type, row.Group, row.Subgroup, row.Room})
	}
	if err := writeSheet(workbook, TeachersSheet, header,
		[]any{"Teacher", "Day", "Period", "Subject", "Type", "Group", "Subgroup", "Auditorium"}, teacherRows); err != nil {
		return err
	}

	//** Rooms
	roomRows := make([][]any, 0, len(report.Rooms))
	for _, occupancy := range report.Rooms {
		roomRows = append(roomRows, []any{
			occupancy.Room, occupancy.Capacity, occupancy.Day, occupancy.Period, occupancy.Subject, occupancy.Type,
			occupancy.Teacher, strings.Join(occupancy.Groups, ", "), occupancy.Attendance, occupancy.Overcrowded(),
		})
	}
	if err := writeSheet(workbook, RoomsSheet, header,
		[]any{"Auditorium", "Capacity", "Day", "Period", "Subject", "Type", "Teacher", "Groups", "Attendance", "Overcrowded"}, roomRows); err != nil {
		return err
	}

	//** Fitness
	fitness := report.Fitness
	if err := writeSheet(workbook, FitnessSheet, header, []any{"Metric", "Value"}, [][]any{
		{"Group gaps", fitness.GroupGaps},
		{"Teacher gaps", fitness.TeacherGaps},
		{"Overcrowding", fitness.Overcrowding},
		{"Teacher overload", fitness.Overload},
		{"Hour mismatch", fitness.HourMismatch},
		{"Score", fitness.Score()},
		{"Valid", report.Valid},
		{"Run", report.RunID},
		{"Seed", fmt.Sprint(report.Seed)},
	}); err != nil {
		return err
	}

	// The default sheet is replaced by the report sheets
	if err := workbook.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("cannot remove default sheet: %w", err)
	}
	if index, err := workbook.GetSheetIndex(GroupsSheet); err == nil {
		workbook.SetActiveSheet(index)
	}

	if err := workbook.SaveAs(file); err != nil {
		return fmt.Errorf("cannot save workbook: %w", err)
	}
	return nil
}

func writeSheet(workbook *excelize.File, sheet string, headerStyle int, header []any, rows [][]any) error {
	if _, err := workbook.NewSheet(sheet); err != nil {
		return fmt.Errorf("cannot create sheet %v: %w", sheet, err)
	}

	if err := workbook.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("sheet %v: cannot write header: %w", sheet, err)
	}
	last, err := excelize.CoordinatesToCellName(len(header), 1)
	if err != nil {
		return err
	}
	if err := workbook.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
		return fmt.Errorf("sheet %v: cannot style header: %w", sheet, err)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := workbook.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("sheet %v, row %d: %w", sheet, i+2, err)
		}
	}
	return nil
}
