package export

import (
	"fmt"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strings"

	"git.sr.ht/~sbinet/gg"
	"github.com/ajstarks/svgo"
	"golang.org/x/image/font/basicfont"

	"github.com/vanderheijden86/coursemap/pkg/analysis"
	"github.com/vanderheijden86/coursemap/pkg/catalog"
	"github.com/vanderheijden86/coursemap/pkg/model"
	"github.com/vanderheijden86/coursemap/pkg/progress"
)

// SnapshotOptions controls semester grid snapshot export.
type SnapshotOptions struct {
	Path     string // format inferred from extension when Format is empty
	Format   string // "svg" or "png"
	Title    string
	Catalog  *catalog.Catalog
	Statuses progress.Statuses
	Focus    string // highlight the focus set of this course
}

// SaveSnapshot renders the catalog as a grid with one column per semester and
// arrows for recent-prerequisite edges.
func SaveSnapshot(opts SnapshotOptions) error {
	if opts.Catalog == nil || opts.Catalog.Len() == 0 {
		return fmt.Errorf("no courses to export")
	}
	if opts.Path == "" {
		return fmt.Errorf("output path is required")
	}

	format := strings.ToLower(strings.TrimPrefix(opts.Format, "."))
	if format == "" {
		switch strings.ToLower(filepath.Ext(opts.Path)) {
		case ".png":
			format = "png"
		default:
			format = "svg"
		}
	}
	if format != "svg" && format != "png" {
		return fmt.Errorf("unsupported format %q (want svg or png)", format)
	}

	if err := os.MkdirAll(filepath.Dir(opts.Path), 0o755); err != nil {
		return fmt.Errorf("create parent dir: %w", err)
	}

	layout := buildGrid(opts)
	if format == "png" {
		return renderPNG(opts.Path, layout)
	}

	file, err := os.Create(opts.Path)
	if err != nil {
		return err
	}
	if err := renderSVG(file, layout); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// --- layout ----------------------------------------------------------------

// Focus marks, matching the TUI highlight.
const (
	markNone       = ""
	markSelf       = "self"
	markAncestor   = "ancestor"
	markDescendant = "descendant"
	markDimmed     = "dimmed"
)

type gridNode struct {
	Code    string
	Name    string
	Credits int
	Status  model.Status
	Locked  bool
	Mark    string
	X, Y    float64
}

type gridEdge struct {
	From, To string
}

type gridColumn struct {
	Semester int
	Credits  int
	X        float64
}

type gridLayout struct {
	Nodes   []gridNode
	Edges   []gridEdge
	Columns []gridColumn
	Width   int
	Height  int
	Summary []string
	Title   string
}

const (
	nodeW     = 170.0
	nodeH     = 54.0
	colGap    = 60.0
	rowGap    = 16.0
	padding   = 32.0
	headerH   = 110.0
	columnTop = 28.0
)

func buildGrid(opts SnapshotOptions) gridLayout {
	cat := opts.Catalog

	var focus, ancestors, descendants catalog.CodeSet
	if opts.Focus != "" && cat.Has(opts.Focus) {
		ancestors = cat.Ancestors(opts.Focus)
		descendants = cat.Descendants(opts.Focus)
		focus = cat.FocusSet(opts.Focus)
	}

	layout := gridLayout{Title: opts.Title}
	if strings.TrimSpace(layout.Title) == "" {
		layout.Title = "Semester Grid"
	}

	maxRows := 0
	for col, n := range cat.Semesters() {
		x := padding + float64(col)*(nodeW+colGap)
		layout.Columns = append(layout.Columns, gridColumn{Semester: n, Credits: cat.SemesterCredits(n), X: x})
		courses := cat.BySemester(n)
		if len(courses) > maxRows {
			maxRows = len(courses)
		}
		for row, c := range courses {
			node := gridNode{
				Code:    c.Code,
				Name:    truncate(c.Name, 26),
				Credits: c.Credits,
				Status:  opts.Statuses.Of(c.Code),
				X:       x,
				Y:       padding + headerH + columnTop + float64(row)*(nodeH+rowGap),
			}
			if opts.Statuses != nil && node.Status != model.StatusCompleted {
				node.Locked = progress.Locked(cat, opts.Statuses, c.Code)
			}
			if focus != nil {
				switch {
				case c.Code == opts.Focus:
					node.Mark = markSelf
				case ancestors.Has(c.Code):
					node.Mark = markAncestor
				case descendants.Has(c.Code):
					node.Mark = markDescendant
				default:
					node.Mark = markDimmed
				}
			}
			layout.Nodes = append(layout.Nodes, node)
		}
	}

	for _, c := range cat.Courses() {
		for _, p := range cat.RecentPrerequisites(c.Code) {
			layout.Edges = append(layout.Edges, gridEdge{From: p, To: c.Code})
		}
	}

	cols := len(layout.Columns)
	layout.Width = int(padding*2 + float64(cols)*(nodeW+colGap) - colGap)
	if layout.Width < 640 {
		layout.Width = 640
	}
	layout.Height = int(padding*2 + headerH + columnTop + float64(maxRows)*(nodeH+rowGap))
	if layout.Height < 480 {
		layout.Height = 480
	}

	total := 0
	for _, col := range layout.Columns {
		total += col.Credits
	}
	layout.Summary = []string{
		fmt.Sprintf("courses: %d  credits: %d  semesters: %d", cat.Len(), total, cols),
		fmt.Sprintf("recent-prerequisite edges: %d", len(layout.Edges)),
	}
	if opts.Focus != "" && focus != nil {
		layout.Summary = append(layout.Summary, fmt.Sprintf("focus: %s (%d related)", opts.Focus, focus.Len()-1))
	} else if ks := analysis.Analyze(cat).Keystones; len(ks) > 0 {
		layout.Summary = append(layout.Summary, fmt.Sprintf("keystone: %s (%d dependents)", ks[0].Code, ks[0].Dependents))
	}
	return layout
}

// --- rendering -------------------------------------------------------------

var (
	colorNone       = color.RGBA{0xff, 0xff, 0xff, 0xff}
	colorPlanned    = color.RGBA{0xff, 0xf9, 0xc4, 0xff}
	colorInProgress = color.RGBA{0xbb, 0xde, 0xfb, 0xff}
	colorCompleted  = color.RGBA{0xc8, 0xe6, 0xc9, 0xff}
	colorLocked     = color.RGBA{0xe0, 0xe0, 0xe0, 0xff}
	colorDimmed     = color.RGBA{0xf2, 0xf2, 0xf2, 0xff}
	colorSelf       = color.RGBA{0xff, 0xcc, 0x80, 0xff}
	colorAncestor   = color.RGBA{0xb3, 0xe5, 0xfc, 0xff}
	colorDescendant = color.RGBA{0xf8, 0xbb, 0xd0, 0xff}
	colorStroke     = color.RGBA{0x22, 0x22, 0x22, 0xff}
	colorEdge       = color.RGBA{0x6b, 0x80, 0xbf, 0xff}
	colorText       = color.RGBA{0x11, 0x11, 0x11, 0xff}
	colorSubtle     = color.RGBA{0x66, 0x66, 0x66, 0xff}
	colorBackdrop   = color.RGBA{0xf9, 0xfa, 0xfb, 0xff}
	colorHeaderBG   = color.RGBA{0xf3, 0xf4, 0xf6, 0xff}
)

func nodeFill(n gridNode) color.RGBA {
	switch n.Mark {
	case markSelf:
		return colorSelf
	case markAncestor:
		return colorAncestor
	case markDescendant:
		return colorDescendant
	case markDimmed:
		return colorDimmed
	}
	switch {
	case n.Status == model.StatusCompleted:
		return colorCompleted
	case n.Status == model.StatusInProgress:
		return colorInProgress
	case n.Status == model.StatusPlanned:
		return colorPlanned
	case n.Locked:
		return colorLocked
	}
	return colorNone
}

func nodeText(n gridNode) color.RGBA {
	if n.Mark == markDimmed {
		return colorSubtle
	}
	return colorText
}

func edgePoints(layout gridLayout, e gridEdge) (x1, y1, x2, y2 float64, ok bool) {
	var from, to *gridNode
	for i := range layout.Nodes {
		switch layout.Nodes[i].Code {
		case e.From:
			from = &layout.Nodes[i]
		case e.To:
			to = &layout.Nodes[i]
		}
	}
	if from == nil || to == nil {
		return 0, 0, 0, 0, false
	}
	return from.X + nodeW, from.Y + nodeH/2, to.X, to.Y + nodeH/2, true
}

func renderPNG(path string, layout gridLayout) error {
	dc := gg.NewContext(layout.Width, layout.Height)
	dc.SetColor(colorBackdrop)
	dc.Clear()

	dc.SetColor(colorHeaderBG)
	dc.DrawRoundedRectangle(16, 16, float64(layout.Width)-32, headerH-16, 10)
	dc.Fill()
	dc.SetFontFace(basicfont.Face7x13)

	dc.SetColor(colorText)
	dc.DrawStringAnchored(layout.Title, padding, 40, 0, 0.5)
	dc.SetColor(colorSubtle)
	for i, line := range layout.Summary {
		dc.DrawStringAnchored(line, padding, 60+float64(i)*18, 0, 0.5)
	}

	for _, col := range layout.Columns {
		dc.SetColor(colorText)
		dc.DrawStringAnchored(fmt.Sprintf("Semester %d (%d cr)", col.Semester, col.Credits), col.X, padding+headerH+8, 0, 0.5)
	}

	dc.SetColor(colorEdge)
	dc.SetLineWidth(1.5)
	for _, e := range layout.Edges {
		x1, y1, x2, y2, ok := edgePoints(layout, e)
		if !ok {
			continue
		}
		dc.DrawLine(x1, y1, x2, y2)
		dc.Stroke()
		dc.NewSubPath()
		dc.MoveTo(x2, y2)
		dc.LineTo(x2-7, y2+4)
		dc.LineTo(x2-7, y2-4)
		dc.ClosePath()
		dc.Fill()
	}

	for _, n := range layout.Nodes {
		dc.SetColor(nodeFill(n))
		dc.DrawRoundedRectangle(n.X, n.Y, nodeW, nodeH, 6)
		dc.Fill()
		dc.SetColor(colorStroke)
		dc.SetLineWidth(1)
		if n.Mark == markSelf {
			dc.SetLineWidth(2.5)
		}
		dc.DrawRoundedRectangle(n.X, n.Y, nodeW, nodeH, 6)
		dc.Stroke()

		dc.SetColor(nodeText(n))
		dc.DrawStringAnchored(fmt.Sprintf("%s  %dcr", n.Code, n.Credits), n.X+8, n.Y+16, 0, 0.5)
		dc.SetColor(colorSubtle)
		dc.DrawStringAnchored(n.Name, n.X+8, n.Y+36, 0, 0.5)
	}

	return dc.SavePNG(path)
}

func renderSVG(w io.Writer, layout gridLayout) error {
	canvas := svg.New(w)
	canvas.Start(layout.Width, layout.Height)
	canvas.Rect(0, 0, layout.Width, layout.Height, fmt.Sprintf("fill:%s", css(colorBackdrop)))
	canvas.Roundrect(16, 16, layout.Width-32, int(headerH-16), 10, 10, fmt.Sprintf("fill:%s", css(colorHeaderBG)))

	canvas.Text(int(padding), 44, layout.Title,
		fmt.Sprintf("fill:%s;font-size:16px;font-family:monospace;font-weight:bold", css(colorText)))
	for i, line := range layout.Summary {
		canvas.Text(int(padding), 64+i*18, line,
			fmt.Sprintf("fill:%s;font-size:13px;font-family:monospace", css(colorSubtle)))
	}

	for _, col := range layout.Columns {
		canvas.Text(int(col.X), int(padding+headerH+12), fmt.Sprintf("Semester %d (%d cr)", col.Semester, col.Credits),
			fmt.Sprintf("fill:%s;font-size:13px;font-family:monospace;font-weight:bold", css(colorText)))
	}

	for _, e := range layout.Edges {
		x1, y1, x2, y2, ok := edgePoints(layout, e)
		if !ok {
			continue
		}
		canvas.Line(int(x1), int(y1), int(x2), int(y2), fmt.Sprintf("stroke:%s;stroke-width:1.5", css(colorEdge)))
		canvas.Polygon(
			[]int{int(x2), int(x2) - 7, int(x2) - 7},
			[]int{int(y2), int(y2) + 4, int(y2) - 4},
			fmt.Sprintf("fill:%s", css(colorEdge)),
		)
	}

	for _, n := range layout.Nodes {
		x, y := int(n.X), int(n.Y)
		strokeWidth := "1"
		if n.Mark == markSelf {
			strokeWidth = "2.5"
		}
		canvas.Roundrect(x, y, int(nodeW), int(nodeH), 6, 6,
			fmt.Sprintf("fill:%s;stroke:%s;stroke-width:%s", css(nodeFill(n)), css(colorStroke), strokeWidth))
		canvas.Text(x+8, y+20, fmt.Sprintf("%s  %dcr", n.Code, n.Credits),
			fmt.Sprintf("fill:%s;font-size:13px;font-family:monospace;font-weight:bold", css(nodeText(n))))
		canvas.Text(x+8, y+40, n.Name,
			fmt.Sprintf("fill:%s;font-size:11px;font-family:monospace", css(colorSubtle)))
	}

	canvas.End()
	return nil
}

// --- helpers ---------------------------------------------------------------

func truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}

func css(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
