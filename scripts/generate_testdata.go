//go:build ignore

// generate_testdata.go writes generated catalogs for benchmarking cm on
// programs far larger than the bundled one.
// Usage: go run scripts/generate_testdata.go
//
// Creates:
//
//	testdata/benchmark/small.jsonl   (100 courses)
//	testdata/benchmark/medium.jsonl  (1000 courses)
//	testdata/benchmark/large.jsonl   (5000 courses)
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/vanderheijden86/coursemap/pkg/model"
	"github.com/vanderheijden86/coursemap/pkg/testutil"
)

type datasetSpec struct {
	name string
	size int
}

var datasets = []datasetSpec{
	{"small", 100},
	{"medium", 1000},
	{"large", 5000},
}

func main() {
	outputDir := filepath.Join("testdata", "benchmark")
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create output directory: %v\n", err)
		os.Exit(1)
	}

	for _, ds := range datasets {
		fmt.Printf("Generating %s dataset (%d courses)...\n", ds.name, ds.size)

		gen := testutil.New(testutil.GeneratorConfig{
			Seed:       int64(ds.size),
			CodePrefix: "BEN",
			MaxCredits: 8,
		})
		gf := gen.RandomDAG(ds.size, calculateDensity(ds.size))
		courses := gen.ToCourses(gf)
		nameCourses(courses)

		jsonl := testutil.ToJSONL(courses)
		outputPath := filepath.Join(outputDir, ds.name+".jsonl")
		if err := os.WriteFile(outputPath, []byte(jsonl), 0644); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to write %s: %v\n", outputPath, err)
			os.Exit(1)
		}

		fmt.Printf("  Written %s (%d bytes, %d prerequisite edges)\n", outputPath, len(jsonl), len(gf.Edges))
	}

	fmt.Println("\nDone! Benchmark catalogs created in", outputDir)
}

// calculateDensity keeps the average prerequisite count near a real program's.
func calculateDensity(size int) float64 {
	switch {
	case size <= 100:
		return 0.05
	case size <= 1000:
		return 0.005
	default:
		return 0.001
	}
}

func nameCourses(courses []model.Course) {
	subjects := []string{
		"Anatomy", "Physiology", "Biomechanics", "Kinesiology",
		"Neurology", "Pathology", "Exercise Therapy", "Clinical Reasoning",
		"Manual Therapy", "Research Methods",
	}
	for i := range courses {
		courses[i].Name = fmt.Sprintf("%s %d", subjects[i%len(subjects)], courses[i].Semester)
	}
}
