package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

type document struct {
	RunID   string           `json:"runId"`
	Seed    uint64           `json:"seed"`
	Valid   bool             `json:"valid"`
	Score   float64          `json:"score"`
	Fitness fitnessDocument  `json:"fitness"`
	Groups  map[string][]Row `json:"groups"`
}

type fitnessDocument struct {
	GroupGaps    int     `json:"groupGaps"`
	TeacherGaps  int     `json:"teacherGaps"`
	Overcrowding float64 `json:"overcrowding"`
	Overload     float64 `json:"overload"`
	HourMismatch float64 `json:"hourMismatch"`
}

// EncodeJson writes the lessons keyed by group along with the run's fitness
func (report Report) EncodeJson(writer io.Writer) error {
	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", "  ")
	err := encoder.Encode(document{
		RunID: report.RunID,
		Seed:  report.Seed,
		Valid: report.Valid,
		Score: report.Fitness.Score(),
		Fitness: fitnessDocument{
			GroupGaps:    report.Fitness.GroupGaps,
			TeacherGaps:  report.Fitness.TeacherGaps,
			Overcrowding: report.Fitness.Overcrowding,
			Overload:     report.Fitness.Overload,
			HourMismatch: report.Fitness.HourMismatch,
		},
		Groups: report.Groups(),
	})
	if err != nil {
		return fmt.Errorf("cannot encode report: %w", err)
	}
	return nil
}

func (report Report) WriteJson(file string) error {
	output, err := os.Create(file)
	if err != nil {
		return fmt.Errorf("cannot create report file: %w", err)
	}
	defer output.Close()

	return report.EncodeJson(output)
}
