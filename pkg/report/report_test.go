package report

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/Silence-o0/Schedule/pkg/genetic"
	"github.com/Silence-o0/Schedule/pkg/model"
	"github.com/Silence-o0/Schedule/pkg/timetable"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// Ids in the order of the raw input below
const (
	mathSubject, physicsSubject uint64 = 0, 1
	alpha, beta                 uint64 = 0, 1
	ivanova, petrenko           uint64 = 0, 1
	small, large                uint64 = 0, 1
)

func newTestReport(t *testing.T) Report {
	t.Helper()

	input, err := model.ProcessRawInput(model.RawModelInput{
		WeeksPerTerm: 1,
		Groups: []model.RawGroup{
			{Name: "Alpha", Students: 20, Subjects: []model.RawRequirement{
				{Subject: "Math", Details: []model.RawDetail{{Type: "Lec", Hours: 3}}},
				{Subject: "Physics", Details: []model.RawDetail{{Type: "Lab", Hours: 3, Subgroups: 2}}},
			}},
			{Name: "Beta", Students: 25, Subjects: []model.RawRequirement{
				{Subject: "Math", Details: []model.RawDetail{{Type: "Lec", Hours: 3}}},
			}},
		},
		Teachers: []model.RawTeacher{
			{Name: "Ivanova", Hours: 6, Subjects: []model.RawQualification{{Subject: "Math", Types: []string{"Lec"}}}},
			{Name: "Petrenko", Hours: 6, Subjects: []model.RawQualification{{Subject: "Physics", Types: []string{"Lab"}}}},
		},
		Rooms: []model.RawRoom{{Name: "Small", Capacity: 30}, {Name: "Large", Capacity: 50}},
	})
	require.NoError(t, err)
	problem, err := genetic.NewProblem(input, model.MaxLessonsPerDay)
	require.NoError(t, err)

	// A shared math lecture too big for its room and two parallel physics labs
	built := timetable.FromLessons([]model.Lesson{
		{Slot: model.Slot{Day: model.Tuesday, Period: 1}, Teacher: ivanova, Subject: mathSubject, Type: model.Lecture, Group: beta, Room: small},
		{Slot: model.Slot{Day: model.Tuesday, Period: 1}, Teacher: ivanova, Subject: mathSubject, Type: model.Lecture, Group: alpha, Room: small},
		{Slot: model.Slot{Day: model.Monday, Period: 2}, Teacher: petrenko, Subject: physicsSubject, Type: model.Lab, Group: alpha, Room: large, Subgroup: model.Subgroup{Index: 2, Count: 2}},
		{Slot: model.Slot{Day: model.Monday, Period: 2}, Teacher: ivanova, Subject: physicsSubject, Type: model.Lab, Group: alpha, Room: small, Subgroup: model.Subgroup{Index: 1, Count: 2}},
	})
	result := genetic.Result{
		RunID:     "run",
		Seed:      42,
		Timetable: built,
		Fitness:   problem.Evaluate(built),
		Valid:     built.Valid(),
	}
	return New(problem, result)
}

func TestNew(t *testing.T) {
	//** Act
	report := newTestReport(t)

	//** Assert
	assert.True(t, report.Valid)
	assert.Len(t, report.Lessons, 4)

	byGroup := report.ByGroup()
	assert.Equal(t, []string{"Alpha", "Alpha", "Alpha", "Beta"}, groupNames(byGroup))
	assert.Equal(t, "MONDAY", byGroup[0].Day)
	assert.Equal(t, "1/2", byGroup[0].Subgroup)
	assert.Equal(t, "2/2", byGroup[1].Subgroup)
	assert.Equal(t, "Math", byGroup[2].Subject)

	byTeacher := report.ByTeacher()
	assert.Equal(t, "Ivanova", byTeacher[0].Teacher)
	assert.Equal(t, "Physics", byTeacher[0].Subject)
	assert.Equal(t, "Petrenko", byTeacher[3].Teacher)

	require.Len(t, report.Rooms, 3)
	shared := report.Rooms[2]
	assert.Equal(t, "Small", shared.Room)
	assert.Equal(t, "TUESDAY", shared.Day)
	assert.ElementsMatch(t, []string{"Alpha", "Beta"}, shared.Groups)
	assert.Equal(t, uint64(45), shared.Attendance)
	assert.True(t, shared.Overcrowded())
	assert.False(t, report.Rooms[0].Overcrowded())
	assert.Equal(t, 15.0, report.Fitness.Overcrowding)
}

func TestWriteExcel(t *testing.T) {
	//** Arrange
	report := newTestReport(t)
	file := filepath.Join(t.TempDir(), "report.xlsx")

	//** Act
	err := report.WriteExcel(file)

	//** Assert
	require.NoError(t, err)
	workbook, err := excelize.OpenFile(file)
	require.NoError(t, err)
	defer workbook.Close()

	assert.Equal(t, []string{GroupsSheet, TeachersSheet, RoomsSheet, FitnessSheet}, workbook.GetSheetList())

	groups, err := workbook.GetRows(GroupsSheet)
	require.NoError(t, err)
	require.Len(t, groups, 5)
	assert.Equal(t, "Group", groups[0][0])
	assert.Equal(t, []string{"Alpha", "1/2", "MONDAY", "2", "Physics", "Lab", "Ivanova", "Small"}, groups[1])

	rooms, err := workbook.GetRows(RoomsSheet)
	require.NoError(t, err)
	require.Len(t, rooms, 4)
	assert.Equal(t, "45", rooms[3][8])
	assert.Equal(t, "TRUE", rooms[3][9])

	fitness, err := workbook.GetRows(FitnessSheet)
	require.NoError(t, err)
	assert.Equal(t, []string{"Overcrowding", "15"}, fitness[3])
	assert.Equal(t, []string{"Seed", "42"}, fitness[9])
}

func TestEncodeJson(t *testing.T) {
	//** Arrange
	report := newTestReport(t)
	var buffer bytes.Buffer

	//** Act
	err := report.EncodeJson(&buffer)

	//** Assert
	require.NoError(t, err)
	var decoded struct {
		Valid  bool             `json:"valid"`
		Score  float64          `json:"score"`
		Groups map[string][]Row `json:"groups"`
	}
	require.NoError(t, json.Unmarshal(buffer.Bytes(), &decoded))
	assert.True(t, decoded.Valid)
	assert.Equal(t, report.Fitness.Score(), decoded.Score)
	assert.Len(t, decoded.Groups["Alpha"], 3)
	assert.Len(t, decoded.Groups["Beta"], 1)
	assert.Equal(t, "Small", decoded.Groups["Beta"][0].Room)
}

func TestWriteJson(t *testing.T) {
	file := filepath.Join(t.TempDir(), "report.json")
	assert.NoError(t, newTestReport(t).WriteJson(file))
	assert.Error(t, newTestReport(t).WriteJson(filepath.Join(t.TempDir(), "missing", "report.json")))
}

func groupNames(rows []Row) []string {
	names := make([]string, len(rows))
	for i, row := range rows {
		names[i] = row.Group
	}
	return names
}

func TestForGroup(t *testing.T) {
	report := newTestReport(t)

	beta := report.ForGroup("Beta")

	assert.Len(t, beta.Lessons, 1)
	require.Len(t, beta.Rooms, 1)
	assert.Equal(t, uint64(45), beta.Rooms[0].Attendance)
	assert.Len(t, report.Lessons, 4)
	assert.Empty(t, report.ForGroup("Gamma").Lessons)
}
