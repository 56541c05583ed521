package main

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"log"
	"math/rand/v2"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Silence-o0/Schedule/pkg/model"

	"github.com/samber/lo"
)

const (
	executablePath         = "../../bin/schedule"
	datasetDirectory       = "../../test/out/"
	KB                     = 1024
	MB             float32 = 1024 * 1024
)

type ResultType int

const (
	valid ResultType = iota
	invalid
)

const (
	exitValid   = 10
	exitInvalid = 15
)

var resultTypes = map[ResultType]string{
	valid:   "valid",
	invalid: "invalid",
}

type TestMetadata struct {
	Name     string
	Groups   int
	Teachers int
	Rooms    int
	Subjects int
	Lessons  int
}

type EngineMetadata struct {
	Population  int
	Generations int
	Similarity  float64
}

type BenchmarkResult struct {
	Engine        EngineMetadata
	Test          TestMetadata
	Duration      int64
	Memory        float32
	CpuPercentage int64
	Score         float64
	Result        ResultType
}

func main() {
	tests := getTests()
	engines := getEngines()
	results := make([]BenchmarkResult, 0, len(tests)*len(engines))

	for _, test := range tests {
		for _, engine := range engines {
			fmt.Printf("Benchmarking test \"%v\" with population \"%v\", generations \"%v\" and similarity \"%v\"\n", test.Name, engine.Population, engine.Generations, engine.Similarity)

			duration, maxMemory, cpuPercentage, score, result := measure(engine, test.Name)

			results = append(results, BenchmarkResult{
				Engine:        engine,
				Test:          test,
				Duration:      duration,
				Memory:        maxMemory,
				CpuPercentage: cpuPercentage,
				Score:         score,
				Result:        result,
			})
		}
	}

	toCsv(results)
}

// getTests generates the synthetic datasets once and describes every document of the dataset directory
func getTests() []TestMetadata {
	if err := os.MkdirAll(datasetDirectory, 0755); err != nil {
		log.Fatalf("cannot create dataset directory: %v", err)
	}

	sizes := [][4]int{{5, 8, 5, 6}, {10, 15, 10, 12}, {20, 30, 15, 20}}
	for i, size := range sizes {
		filename := filepath.Join(datasetDirectory, fmt.Sprintf("synthetic_%d.json", i+1))
		if _, err := os.Stat(filename); err == nil {
			continue
		}

		rng := rand.New(rand.NewPCG(uint64(i+1), uint64(i+1)))
		document := lo.Must(json.MarshalIndent(model.Synthetic(rng, size[0], size[1], size[2], size[3], 14), "", "  "))
		if err := os.WriteFile(filename, document, 0644); err != nil {
			log.Fatalf("cannot write dataset: %v", err)
		}
	}

	testFiles, err := os.ReadDir(datasetDirectory)
	if err != nil {
		log.Fatalf("cannot read directory: %v", err)
	}

	tests := make([]TestMetadata, 0)
	for _, file := range testFiles {
		if filepath.Ext(file.Name()) != ".json" {
			continue
		}
		filename := filepath.Join(datasetDirectory, file.Name())
		input, err := model.InputFromJson(filename)
		if err != nil {
			log.Fatalf("cannot parse input file: %v", err)
		}

		tests = append(tests, TestMetadata{
			Name:     filename,
			Groups:   len(input.Groups),
			Teachers: len(input.Teachers),
			Rooms:    len(input.Rooms),
			Subjects: len(input.Subjects),
			Lessons: lo.SumBy(input.Groups, func(group model.Group) int {
				return lo.SumBy(group.Requirements, func(requirement model.Requirement) int {
					return requirement.Detail.TargetLessons(input.WeeksPerTerm) * int(requirement.Detail.SubgroupCount())
				})
			}),
		})
	}

	return tests
}

func getEngines() []EngineMetadata {
	return []EngineMetadata{
		{Population: 10, Generations: 5, Similarity: 0.8},
		{Population: 20, Generations: 10, Similarity: 0.8},
		{Population: 20, Generations: 10, Similarity: 0.6},
		{Population: 40, Generations: 20, Similarity: 0.8},
	}
}

func measure(engine EngineMetadata, testFile string) (duration int64, maxMemory float32, cpuPercentage int64, score float64, result ResultType) {
	cmd := exec.Command("/usr/bin/time", "-v", executablePath, "solve",
		"--file", testFile,
		"--json", os.DevNull,
		"--population", fmt.Sprint(engine.Population),
		"--generations", fmt.Sprint(engine.Generations),
		"--similarity", fmt.Sprint(engine.Similarity),
		"--seed", "1",
	)

	var stdOut bytes.Buffer
	cmd.Stdout = &stdOut
	var stdErr bytes.Buffer
	cmd.Stderr = &stdErr

	cmd.Run()
	if cmd.ProcessState.ExitCode() != exitValid && cmd.ProcessState.ExitCode() != exitInvalid {
		log.Fatalf("an error occurred during the execution \"schedule\" at test \"%v\" using population \"%v\", generations \"%v\": %v\n", testFile, engine.Population, engine.Generations, stdErr.String())
	} else if cmd.ProcessState.ExitCode() == exitInvalid {
		result = invalid
	} else {
		result = valid
	}
	splits := strings.Split(stdErr.String(), "\n")
	getLine := func(substr string) string {
		line, ok := lo.Find(splits, func(line string) bool {
			return strings.Contains(strings.ToLower(line), substr)
		})
		if !ok {
			log.Fatalf("Substring \"%v\" could not be found", substr)
		}
		return line
	}

	duration = parseDurationLine(getLine("wall clock"))
	maxMemory = parseMemoryLine(getLine("maximum resident set size"))
	cpuPercentage = parseCpuPercentageLine(getLine("percent of cpu"))
	score = parseScore(stdOut.String())

	return duration, maxMemory, cpuPercentage, score, result
}

func toCsv(results []BenchmarkResult) {
	file, err := os.Create("benchmark_results.csv")
	if err != nil {
		log.Panicf("cannot create CSV file: %v", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := []string{"Population", "Generations", "Similarity", "Test", "Groups", "Teachers", "Rooms", "Subjects", "Lessons", "Duration(ms)", "Memory(MB)", "CPU(%)", "Score", "Result"}
	if err := writer.Write(header); err != nil {
		log.Panicf("cannot write CSV header: %v", err)
	}

	for _, result := range results {
		record := []string{
			fmt.Sprintf("%d", result.Engine.Population),
			fmt.Sprintf("%d", result.Engine.Generations),
			fmt.Sprintf("%f", result.Engine.Similarity),
			result.Test.Name,
			fmt.Sprintf("%d", result.Test.Groups),
			fmt.Sprintf("%d", result.Test.Teachers),
			fmt.Sprintf("%d", result.Test.Rooms),
			fmt.Sprintf("%d", result.Test.Subjects),
			fmt.Sprintf("%d", result.Test.Lessons),
			fmt.Sprintf("%d", result.Duration),
			fmt.Sprintf("%.1f", result.Memory),
			fmt.Sprintf("%d", result.CpuPercentage),
			fmt.Sprintf("%.2f", result.Score),
			resultTypes[result.Result],
		}
		if err := writer.Write(record); err != nil {
			log.Panicf("cannot write CSV record: %v", err)
		}
	}
}

// parseScore reads the "score: <value>" line printed by the solver
func parseScore(output string) float64 {
	line, ok := lo.Find(strings.Split(output, "\n"), func(line string) bool {
		return strings.HasPrefix(line, "score:")
	})
	if !ok {
		log.Fatalf("score could not be found")
	}
	return lo.Must(strconv.ParseFloat(strings.TrimSpace(strings.TrimPrefix(line, "score:")), 64))
}

func parseDurationLine(line string) int64 {
	durationStr := strings.Split(line, "(h:mm:ss or m:ss):")[1][1:]
	return parseDuration(durationStr)
}

func parseDuration(durationStr string) int64 {
	parts := strings.Split(durationStr, ":")
	secondsStr := parts[len(parts)-1]
	secondsParts := strings.Split(secondsStr, ".")

	var duration int64
	if len(parts) == 3 { // h:mm:ss
		hours := lo.Must(strconv.Atoi(parts[0]))
		minutes := lo.Must(strconv.Atoi(parts[1]))
		seconds := lo.Must(strconv.Atoi(secondsParts[0]))
		hundredthOfSeconds := lo.Must(strconv.Atoi(secondsParts[1]))
		duration = int64(hours*3600+minutes*60+seconds)*1000 + int64(hundredthOfSeconds*10)
	} else if len(parts) == 2 { // m:ss
		minutes := lo.Must(strconv.Atoi(parts[0]))
		seconds := lo.Must(strconv.Atoi(secondsParts[0]))
		hundredthOfSeconds := lo.Must(strconv.Atoi(secondsParts[1]))
		duration = int64(minutes*60+seconds)*1000 + int64(hundredthOfSeconds*10)
	} else {
		log.Fatalf("unexpected duration format: %v", durationStr)
	}
	return duration
}

func parseMemoryLine(line string) float32 {
	memoryStr := strings.Split(line, ":")[1][1:]
	return float32(lo.Must(strconv.ParseFloat(memoryStr, 32))) / 1024
}

func parseCpuPercentageLine(line string) int64 {
	percentageStr := strings.Split(line, ":")[1][1:]
	percentageStr = percentageStr[:len(percentageStr)-1]
	return int64(lo.Must(strconv.Atoi(percentageStr)))
}
