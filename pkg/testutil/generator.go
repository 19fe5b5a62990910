// Package testutil provides course catalog fixtures for tests. Every
// generator is deterministic for a given seed.
package testutil

import (
	"fmt"
	"math/rand"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/vanderheijden86/coursemap/pkg/model"
)

// GraphFixture is an abstract prerequisite graph. Edge [from, to] means
// node from lists node to as a prerequisite.
type GraphFixture struct {
	Description string     `json:"description"`
	Nodes       []string   `json:"nodes"`
	Edges       [][2]int   `json:"edges"`
	Properties  Properties `json:"properties,omitempty"`
}

// Properties holds what a fixture is known to satisfy.
type Properties struct {
	HasCycles     bool `json:"has_cycles,omitempty"`
	ExpectedDepth int  `json:"expected_depth,omitempty"`
}

// GeneratorConfig controls course generation.
type GeneratorConfig struct {
	Seed       int64  // 0 uses 42
	CodePrefix string // default "TST"
	MaxCredits int    // credits are drawn from 1..MaxCredits, default 6
}

// DefaultConfig returns a config suitable for most tests.
func DefaultConfig() GeneratorConfig {
	return GeneratorConfig{Seed: 42, CodePrefix: "TST", MaxCredits: 6}
}

// Generator creates fixtures.
type Generator struct {
	cfg GeneratorConfig
	rng *rand.Rand
}

// New creates a Generator with the given config.
func New(cfg GeneratorConfig) *Generator {
	if cfg.Seed == 0 {
		cfg.Seed = 42
	}
	if cfg.CodePrefix == "" {
		cfg.CodePrefix = "TST"
	}
	if cfg.MaxCredits <= 0 {
		cfg.MaxCredits = 6
	}
	return &Generator{cfg: cfg, rng: rand.New(rand.NewSource(cfg.Seed))}
}

// NewDefault creates a Generator with default config.
func NewDefault() *Generator {
	return New(DefaultConfig())
}

// Chain: n1 needs n0, n2 needs n1, and so on.
func (g *Generator) Chain(size int) GraphFixture {
	nodes := make([]string, size)
	var edges [][2]int
	for i := range size {
		nodes[i] = fmt.Sprintf("n%d", i)
		if i > 0 {
			edges = append(edges, [2]int{i, i - 1})
		}
	}
	return GraphFixture{
		Description: fmt.Sprintf("chain of %d courses", size),
		Nodes:       nodes,
		Edges:       edges,
		Properties:  Properties{ExpectedDepth: max(size-1, 0)},
	}
}

// Star: every spoke needs the hub.
func (g *Generator) Star(spokes int) GraphFixture {
	nodes := []string{"hub"}
	var edges [][2]int
	for i := 1; i <= spokes; i++ {
		nodes = append(nodes, fmt.Sprintf("spoke%d", i))
		edges = append(edges, [2]int{i, 0})
	}
	depth := 0
	if spokes > 0 {
		depth = 1
	}
	return GraphFixture{
		Description: fmt.Sprintf("hub required by %d spokes", spokes),
		Nodes:       nodes,
		Edges:       edges,
		Properties:  Properties{ExpectedDepth: depth},
	}
}

// Diamond: width middle courses need top, bottom needs every middle course.
func (g *Generator) Diamond(width int) GraphFixture {
	width = max(width, 1)
	size := width + 2
	nodes := make([]string, size)
	nodes[0], nodes[size-1] = "top", "bottom"
	var edges [][2]int
	for i := 1; i <= width; i++ {
		nodes[i] = fmt.Sprintf("mid%d", i)
		edges = append(edges, [2]int{i, 0}, [2]int{size - 1, i})
	}
	return GraphFixture{
		Description: fmt.Sprintf("diamond with %d middle courses", width),
		Nodes:       nodes,
		Edges:       edges,
		Properties:  Properties{ExpectedDepth: 2},
	}
}

// Cycle: n0 needs n1, n1 needs n2, ..., the last needs n0.
func (g *Generator) Cycle(size int) GraphFixture {
	nodes := make([]string, size)
	edges := make([][2]int, size)
	for i := range size {
		nodes[i] = fmt.Sprintf("n%d", i)
		edges[i] = [2]int{i, (i + 1) % size}
	}
	return GraphFixture{
		Description: fmt.Sprintf("cycle of %d courses", size),
		Nodes:       nodes,
		Edges:       edges,
		Properties:  Properties{HasCycles: true},
	}
}

// SelfLoop is a single course that lists itself.
func (g *Generator) SelfLoop() GraphFixture {
	return GraphFixture{
		Description: "course that requires itself",
		Nodes:       []string{"n0"},
		Edges:       [][2]int{{0, 0}},
		Properties:  Properties{HasCycles: true},
	}
}

// Tree: every course below the root needs its parent.
func (g *Generator) Tree(depth, breadth int) GraphFixture {
	depth, breadth = max(depth, 1), max(breadth, 1)
	nodes := []string{"n0"}
	var edges [][2]int
	level := []int{0}
	for range depth {
		var next []int
		for _, parent := range level {
			for range breadth {
				child := len(nodes)
				nodes = append(nodes, fmt.Sprintf("n%d", child))
				edges = append(edges, [2]int{child, parent})
				next = append(next, child)
			}
		}
		level = next
	}
	return GraphFixture{
		Description: fmt.Sprintf("tree depth=%d breadth=%d (%d courses)", depth, breadth, len(nodes)),
		Nodes:       nodes,
		Edges:       edges,
		Properties:  Properties{ExpectedDepth: depth},
	}
}

// Ladder: two chains A and B where each A course also needs the B course at
// the same rung.
func (g *Generator) Ladder(length int) GraphFixture {
	length = max(length, 1)
	nodes := make([]string, length*2)
	var edges [][2]int
	for i := range length {
		nodes[i] = fmt.Sprintf("A%d", i)
		nodes[length+i] = fmt.Sprintf("B%d", i)
		if i > 0 {
			edges = append(edges, [2]int{i, i - 1}, [2]int{length + i, length + i - 1})
		}
		edges = append(edges, [2]int{i, length + i})
	}
	return GraphFixture{
		Description: fmt.Sprintf("ladder with %d rungs", length),
		Nodes:       nodes,
		Edges:       edges,
		Properties:  Properties{ExpectedDepth: length},
	}
}

// RandomDAG links later courses to earlier ones with the given probability.
func (g *Generator) RandomDAG(size int, density float64) GraphFixture {
	density = min(max(density, 0), 1)
	nodes := make([]string, size)
	var edges [][2]int
	for i := range size {
		nodes[i] = fmt.Sprintf("n%d", i)
		for j := range i {
			if g.rng.Float64() < density {
				edges = append(edges, [2]int{i, j})
			}
		}
	}
	return GraphFixture{
		Description: fmt.Sprintf("random DAG of %d courses, density=%.2f (%d edges)", size, density, len(edges)),
		Nodes:       nodes,
		Edges:       edges,
	}
}

// Code returns the course code generated for node index i.
func (g *Generator) Code(i int) string {
	return fmt.Sprintf("%s%d", g.cfg.CodePrefix, 101+i)
}

// ToCourses turns a fixture into courses in node order. A course's semester
// is one more than the latest semester among its prerequisites; edges that
// close a cycle are ignored for that purpose.
func (g *Generator) ToCourses(gf GraphFixture) []model.Course {
	deps := make(map[int][]int)
	for _, e := range gf.Edges {
		deps[e[0]] = append(deps[e[0]], e[1])
	}

	semester := make(map[int]int, len(gf.Nodes))
	visiting := make(map[int]bool)
	var level func(i int) int
	level = func(i int) int {
		if s, ok := semester[i]; ok {
			return s
		}
		if visiting[i] {
			return 0
		}
		visiting[i] = true
		s := 1
		for _, d := range deps[i] {
			s = max(s, level(d)+1)
		}
		visiting[i] = false
		semester[i] = s
		return s
	}

	courses := make([]model.Course, len(gf.Nodes))
	for i, name := range gf.Nodes {
		prereqs := []string{}
		for _, d := range deps[i] {
			prereqs = append(prereqs, g.Code(d))
		}
		courses[i] = model.Course{
			Code:          g.Code(i),
			Name:          "Course " + name,
			Semester:      level(i),
			Credits:       g.rng.Intn(g.cfg.MaxCredits) + 1,
			Prerequisites: prereqs,
		}
	}
	return courses
}

// ToJSON renders courses as a catalog document.
func ToJSON(courses []model.Course) string {
	data, err := json.MarshalIndent(model.CatalogFile{
		Program:       "Generated",
		SchemaVersion: model.DefaultSchemaVersion,
		Courses:       courses,
	}, "", "  ")
	if err != nil {
		return ""
	}
	return string(data)
}

// ToJSONL renders one course record per line.
func ToJSONL(courses []model.Course) string {
	var sb strings.Builder
	for _, c := range courses {
		data, err := json.Marshal(c)
		if err != nil {
			continue
		}
		sb.Write(data)
		sb.WriteByte('\n')
	}
	return sb.String()
}

// QuickChain creates a chain of courses with default settings.
func QuickChain(size int) []model.Course {
	gen := NewDefault()
	return gen.ToCourses(gen.Chain(size))
}

// QuickStar creates a star of courses with default settings.
func QuickStar(spokes int) []model.Course {
	gen := NewDefault()
	return gen.ToCourses(gen.Star(spokes))
}

// QuickDiamond creates a diamond of courses with default settings.
func QuickDiamond(width int) []model.Course {
	gen := NewDefault()
	return gen.ToCourses(gen.Diamond(width))
}

// QuickCycle creates a prerequisite cycle with default settings.
func QuickCycle(size int) []model.Course {
	gen := NewDefault()
	return gen.ToCourses(gen.Cycle(size))
}

// QuickTree creates a tree of courses with default settings.
func QuickTree(depth, breadth int) []model.Course {
	gen := NewDefault()
	return gen.ToCourses(gen.Tree(depth, breadth))
}

// QuickRandom creates a random DAG of courses with default settings.
func QuickRandom(size int, density float64) []model.Course {
	gen := NewDefault()
	return gen.ToCourses(gen.RandomDAG(size, density))
}
