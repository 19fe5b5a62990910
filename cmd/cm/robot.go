package main

import (
	"fmt"
	"io"
	"time"

	json "github.com/goccy/go-json"

	"github.com/vanderheijden86/coursemap/pkg/analysis"
	"github.com/vanderheijden86/coursemap/pkg/catalog"
	"github.com/vanderheijden86/coursemap/pkg/model"
	"github.com/vanderheijden86/coursemap/pkg/progress"
	"github.com/vanderheijden86/coursemap/pkg/version"
)

// robotMeta heads every robot document.
type robotMeta struct {
	GeneratedAt string `json:"generated_at"`
	Version     string `json:"version"`
	Catalog     string `json:"catalog"`
}

type robotCourse struct {
	Code                string       `json:"code"`
	Name                string       `json:"name"`
	Semester            int          `json:"semester"`
	Credits             int          `json:"credits"`
	Prerequisites       []string     `json:"prerequisites"`
	RecentPrerequisites []string     `json:"recent_prerequisites"`
	RequiredFor         []string     `json:"required_for"`
	Tags                []string     `json:"tags"`
	Status              model.Status `json:"status,omitempty"`
}

type robotCourseList struct {
	robotMeta
	Query   string          `json:"query,omitempty"`
	Filter  *catalog.Filter `json:"filter,omitempty"`
	Count   int             `json:"count"`
	Courses []robotCourse   `json:"courses"`
}

type robotSemester struct {
	robotMeta
	Semester int           `json:"semester"`
	Credits  int           `json:"credits"`
	Count    int           `json:"count"`
	Courses  []robotCourse `json:"courses"`
}

type robotClosure struct {
	robotMeta
	Code     string   `json:"code"`
	Relation string   `json:"relation"`
	Found    bool     `json:"found"`
	Count    int      `json:"count"`
	Codes    []string `json:"codes"`
}

type robotInsights struct {
	robotMeta
	analysis.Insights
	OrderWarnings []catalog.OrderWarning `json:"order_warnings"`
	Problems      []catalog.Problem      `json:"problems"`
	Dangling      []catalog.DanglingRef  `json:"dangling"`
}

type robotAvailable struct {
	robotMeta
	Summary   progress.Summary `json:"summary"`
	Count     int              `json:"count"`
	Available []robotCourse    `json:"available"`
}

func writeRobotJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (a *app) meta() robotMeta {
	return robotMeta{
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		Version:     version.Version,
		Catalog:     a.source(),
	}
}

func (a *app) courseView(c model.Course, statuses progress.Statuses) robotCourse {
	view := robotCourse{
		Code:                c.Code,
		Name:                c.Name,
		Semester:            c.Semester,
		Credits:             c.Credits,
		Prerequisites:       nonNilSlice(c.Prerequisites),
		RecentPrerequisites: a.cat.RecentPrerequisites(c.Code),
		RequiredFor:         a.cat.RequiredFor(c.Code),
		Tags:                a.cat.Tags(c),
	}
	if statuses != nil {
		view.Status = statuses.Of(c.Code)
	}
	return view
}

func (a *app) courseViews(courses []model.Course, statuses progress.Statuses) []robotCourse {
	out := make([]robotCourse, len(courses))
	for i, c := range courses {
		out[i] = a.courseView(c, statuses)
	}
	return out
}

// runRobot writes the first requested robot document. Statuses are only
// read for --robot-available; other documents leave status empty.
func (a *app) runRobot(o *options, w io.Writer) error {
	switch {
	case o.robotSearch != "":
		courses := a.cat.Search(o.robotSearch)
		return writeRobotJSON(w, robotCourseList{
			robotMeta: a.meta(),
			Query:     o.robotSearch,
			Count:     len(courses),
			Courses:   a.courseViews(courses, nil),
		})

	case o.robotCourse != "":
		c, ok := a.cat.FindByCode(o.robotCourse)
		if !ok {
			return fmt.Errorf("course %s is not in the catalog", o.robotCourse)
		}
		return writeRobotJSON(w, struct {
			robotMeta
			Course robotCourse `json:"course"`
		}{a.meta(), a.courseView(c, nil)})

	case o.robotAncestors != "":
		return a.writeClosure(w, o.robotAncestors, "ancestors", a.cat.Ancestors(o.robotAncestors))
	case o.robotDescendants != "":
		return a.writeClosure(w, o.robotDescendants, "descendants", a.cat.Descendants(o.robotDescendants))
	case o.robotFocus != "":
		return a.writeClosure(w, o.robotFocus, "focus", a.cat.FocusSet(o.robotFocus))

	case o.robotSemester != 0:
		courses := a.cat.BySemester(o.robotSemester)
		return writeRobotJSON(w, robotSemester{
			robotMeta: a.meta(),
			Semester:  o.robotSemester,
			Credits:   a.cat.SemesterCredits(o.robotSemester),
			Count:     len(courses),
			Courses:   a.courseViews(courses, nil),
		})

	case o.robotFilter:
		f := catalog.Filter{
			Semester:   o.semester,
			CreditsMin: o.creditsMin,
			CreditsMax: o.creditsMax,
			Tags:       splitList(o.tags),
		}
		courses := a.cat.FilterCourses(a.cat.Courses(), f, o.query)
		return writeRobotJSON(w, robotCourseList{
			robotMeta: a.meta(),
			Query:     o.query,
			Filter:    &f,
			Count:     len(courses),
			Courses:   a.courseViews(courses, nil),
		})

	case o.robotInsights:
		return writeRobotJSON(w, robotInsights{
			robotMeta:     a.meta(),
			Insights:      analysis.Analyze(a.cat),
			OrderWarnings: nonNilSlice(a.cat.OrderWarnings()),
			Problems:      nonNilSlice(a.cat.Validate()),
			Dangling:      nonNilSlice(a.cat.Dangling()),
		})

	case o.robotAvailable:
		statuses, err := a.statuses()
		if err != nil {
			return err
		}
		available := progress.Available(a.cat, statuses)
		return writeRobotJSON(w, robotAvailable{
			robotMeta: a.meta(),
			Summary:   progress.Summarize(a.cat, statuses),
			Count:     len(available),
			Available: a.courseViews(available, statuses),
		})
	}
	return nil
}

// writeClosure lists the closure in declaration order. An unknown code
// yields just itself with found=false.
func (a *app) writeClosure(w io.Writer, code, relation string, set catalog.CodeSet) error {
	found := a.cat.Has(code)
	codes := []string{code}
	if found {
		codes = codes[:0]
		for _, c := range a.cat.CoursesIn(set) {
			codes = append(codes, c.Code)
		}
	}
	return writeRobotJSON(w, robotClosure{
		robotMeta: a.meta(),
		Code:      code,
		Relation:  relation,
		Found:     found,
		Count:     len(codes),
		Codes:     codes,
	})
}

func nonNilSlice[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
