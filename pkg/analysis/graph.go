// Package analysis runs whole-graph checks and rankings over a built catalog
// using gonum: topological order, cycle detection, prerequisite depth and a
// PageRank-based keystone ranking.
package analysis

import (
	"fmt"
	"slices"
	"strings"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/network"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"

	"github.com/vanderheijden86/coursemap/pkg/catalog"
	"github.com/vanderheijden86/coursemap/pkg/metrics"
)

// Analyzer holds the catalog as a gonum directed graph. An edge u→v means
// course u lists v as a prerequisite. Node IDs are declaration positions.
type Analyzer struct {
	cat       *catalog.Catalog
	codes     []string
	g         *simple.DirectedGraph
	selfLoops []string
}

// NewAnalyzer builds the gonum graph for cat. Dangling prerequisites are
// skipped. Self-prerequisites cannot live in a simple graph, so they are kept
// aside and reported as one-course cycles.
func NewAnalyzer(cat *catalog.Catalog) *Analyzer {
	g := simple.NewDirectedGraph()
	codes := cat.Codes()
	for i := range codes {
		g.AddNode(simple.Node(int64(i)))
	}

	a := &Analyzer{cat: cat, codes: codes, g: g}
	for i, code := range codes {
		for _, p := range cat.ResolvedPrerequisites(code) {
			j := int64(cat.Position(p))
			if j == int64(i) {
				a.selfLoops = append(a.selfLoops, code)
				continue
			}
			g.SetEdge(g.NewEdge(g.Node(int64(i)), g.Node(j)))
		}
	}
	return a
}

func (a *Analyzer) code(n graph.Node) string {
	return a.codes[n.ID()]
}

// Keystone is a course ranked by how much of the program rests on it.
type Keystone struct {
	Code       string  `json:"code"`
	Name       string  `json:"name"`
	PageRank   float64 `json:"pagerank"`
	Dependents int     `json:"dependents"`
}

// Insights is the result of Analyze.
type Insights struct {
	Nodes   int     `json:"nodes"`
	Edges   int     `json:"edges"`
	Density float64 `json:"density"`

	// TopologicalOrder lists prerequisites before the courses that need them.
	// It is empty when the graph has a cycle.
	TopologicalOrder []string `json:"topological_order,omitempty"`
	// Cycles holds each strongly connected component of more than one course,
	// plus self-prerequisites, each closed back on its first code.
	Cycles [][]string `json:"cycles,omitempty"`

	// Depth is the length of the longest resolved prerequisite chain below a
	// course. Courses without prerequisites have depth 0. Edges that close a
	// cycle are not followed.
	Depth map[string]int `json:"depth"`
	// CriticalPath is one longest chain, from foundation to most advanced course.
	CriticalPath []string `json:"critical_path"`

	Roots     []string   `json:"roots"`
	Leaves    []string   `json:"leaves"`
	Keystones []Keystone `json:"keystones"`
}

// HasCycles reports whether any cycle was found.
func (in Insights) HasCycles() bool {
	return len(in.Cycles) > 0
}

// DefaultKeystones is how many keystones Analyze keeps.
const DefaultKeystones = 10

// Analyze computes every insight.
func (a *Analyzer) Analyze() Insights {
	defer metrics.Timer(metrics.GraphAnalysis)()

	n := a.g.Nodes().Len()
	e := a.g.Edges().Len()
	in := Insights{Nodes: n, Edges: e, Depth: make(map[string]int, n)}
	if n > 1 {
		in.Density = float64(e) / float64(n*(n-1))
	}

	sorted, err := topo.SortStabilized(a.g, byIDDescending)
	if err == nil {
		for i := len(sorted) - 1; i >= 0; i-- {
			in.TopologicalOrder = append(in.TopologicalOrder, a.code(sorted[i]))
		}
	}

	in.Cycles = a.cycles()
	in.Depth, in.CriticalPath = a.depths()

	for _, code := range a.cat.Codes() {
		if len(a.cat.ResolvedPrerequisites(code)) == 0 {
			in.Roots = append(in.Roots, code)
		}
		if len(a.cat.RequiredFor(code)) == 0 {
			in.Leaves = append(in.Leaves, code)
		}
	}

	in.Keystones = a.keystones(DefaultKeystones)
	return in
}

func byIDDescending(nodes []graph.Node) {
	slices.SortFunc(nodes, func(x, y graph.Node) int {
		switch {
		case x.ID() > y.ID():
			return -1
		case x.ID() < y.ID():
			return 1
		}
		return 0
	})
}

func (a *Analyzer) cycles() [][]string {
	var out [][]string
	for _, scc := range topo.TarjanSCC(a.g) {
		if len(scc) < 2 {
			continue
		}
		slices.SortFunc(scc, func(x, y graph.Node) int { return int(x.ID() - y.ID()) })
		cycle := make([]string, 0, len(scc)+1)
		for _, node := range scc {
			cycle = append(cycle, a.code(node))
		}
		out = append(out, append(cycle, cycle[0]))
	}
	for _, code := range a.selfLoops {
		out = append(out, []string{code, code})
	}
	slices.SortFunc(out, func(x, y []string) int {
		return a.cat.Position(x[0]) - a.cat.Position(y[0])
	})
	return out
}

// depths walks prerequisites depth-first with memoization. A node still on
// the stack is treated as depth 0 so cycles terminate.
func (a *Analyzer) depths() (map[string]int, []string) {
	depth := make(map[string]int, len(a.codes))
	next := make(map[string]string, len(a.codes))
	onStack := make(map[string]bool)

	var visit func(code string) int
	visit = func(code string) int {
		if d, ok := depth[code]; ok {
			return d
		}
		if onStack[code] {
			return -1
		}
		onStack[code] = true
		best := 0
		for _, p := range a.cat.ResolvedPrerequisites(code) {
			d := visit(p)
			if d >= 0 && d+1 > best {
				best = d + 1
				next[code] = p
			}
		}
		onStack[code] = false
		depth[code] = best
		return best
	}

	deepest, bestDepth := "", -1
	for _, code := range a.codes {
		if d := visit(code); d > bestDepth {
			deepest, bestDepth = code, d
		}
	}

	var path []string
	seen := make(map[string]bool)
	for cur := deepest; cur != "" && !seen[cur]; cur = next[cur] {
		seen[cur] = true
		path = append(path, cur)
		if depth[cur] == 0 {
			break
		}
	}
	slices.Reverse(path)
	return depth, path
}

// keystones ranks courses by PageRank over prerequisite edges, so rank flows
// from dependent courses down to the courses they rest on.
func (a *Analyzer) keystones(limit int) []Keystone {
	if a.g.Nodes().Len() == 0 {
		return nil
	}
	ranks := network.PageRank(a.g, 0.85, 1e-6)

	out := make([]Keystone, 0, len(ranks))
	for id, score := range ranks {
		code := a.codes[id]
		course, _ := a.cat.FindByCode(code)
		out = append(out, Keystone{
			Code:       code,
			Name:       course.Name,
			PageRank:   score,
			Dependents: a.cat.Descendants(code).Len() - 1,
		})
	}
	slices.SortFunc(out, func(x, y Keystone) int {
		if x.Dependents != y.Dependents {
			return y.Dependents - x.Dependents
		}
		if x.PageRank != y.PageRank {
			if x.PageRank > y.PageRank {
				return -1
			}
			return 1
		}
		return a.cat.Position(x.Code) - a.cat.Position(y.Code)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// FormatCycle renders a cycle as "A → B → A".
func FormatCycle(cycle []string) string {
	return strings.Join(cycle, " → ")
}

// Analyze is a convenience wrapper around NewAnalyzer(cat).Analyze().
func Analyze(cat *catalog.Catalog) Insights {
	return NewAnalyzer(cat).Analyze()
}

// Summary is a one-line description for status bars and logs.
func (in Insights) Summary() string {
	if in.HasCycles() {
		return fmt.Sprintf("%d courses, %d prerequisite links, %d cycles", in.Nodes, in.Edges, len(in.Cycles))
	}
	return fmt.Sprintf("%d courses, %d prerequisite links, longest chain %d", in.Nodes, in.Edges, len(in.CriticalPath))
}
