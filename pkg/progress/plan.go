package progress

import (
	"github.com/vanderheijden86/coursemap/pkg/catalog"
	"github.com/vanderheijden86/coursemap/pkg/model"
)

// Statuses is a snapshot of the status map.
type Statuses map[string]model.Status

// Of returns the status of code, none when absent.
func (s Statuses) Of(code string) model.Status {
	if st, ok := s[code]; ok {
		return st
	}
	return model.StatusNone
}

// Blockers returns the resolved prerequisites of code that are not completed.
// Dangling prerequisites never block.
func Blockers(cat *catalog.Catalog, statuses Statuses, code string) []string {
	out := []string{}
	for _, p := range cat.ResolvedPrerequisites(code) {
		if statuses.Of(p) != model.StatusCompleted {
			out = append(out, p)
		}
	}
	return out
}

// Locked reports whether code has any blocking prerequisite.
func Locked(cat *catalog.Catalog, statuses Statuses, code string) bool {
	return len(Blockers(cat, statuses, code)) > 0
}

// Available lists, in declaration order, courses that are not completed and
// whose prerequisites are all completed.
func Available(cat *catalog.Catalog, statuses Statuses) []model.Course {
	out := []model.Course{}
	for _, course := range cat.Courses() {
		if statuses.Of(course.Code) == model.StatusCompleted {
			continue
		}
		if !Locked(cat, statuses, course.Code) {
			out = append(out, course)
		}
	}
	return out
}

// SemesterProgress is the completion state of one semester.
type SemesterProgress struct {
	Semester         int `json:"semester"`
	Courses          int `json:"courses"`
	Completed        int `json:"completed"`
	Credits          int `json:"credits"`
	CompletedCredits int `json:"completed_credits"`
}

// Summary totals credits by status.
type Summary struct {
	TotalCredits      int                `json:"total_credits"`
	CompletedCredits  int                `json:"completed_credits"`
	InProgressCredits int                `json:"in_progress_credits"`
	PlannedCredits    int                `json:"planned_credits"`
	Completed         int                `json:"completed"`
	InProgress        int                `json:"in_progress"`
	Planned           int                `json:"planned"`
	PercentComplete   float64            `json:"percent_complete"`
	Semesters         []SemesterProgress `json:"semesters"`
}

// Summarize totals the catalog against statuses. Statuses for codes that are
// not in the catalog are ignored.
func Summarize(cat *catalog.Catalog, statuses Statuses) Summary {
	var sum Summary
	bySemester := make(map[int]*SemesterProgress)
	for _, n := range cat.Semesters() {
		bySemester[n] = &SemesterProgress{Semester: n}
	}

	for _, course := range cat.Courses() {
		sp := bySemester[course.Semester]
		sp.Courses++
		sp.Credits += course.Credits
		sum.TotalCredits += course.Credits

		switch statuses.Of(course.Code) {
		case model.StatusCompleted:
			sum.Completed++
			sum.CompletedCredits += course.Credits
			sp.Completed++
			sp.CompletedCredits += course.Credits
		case model.StatusInProgress:
			sum.InProgress++
			sum.InProgressCredits += course.Credits
		case model.StatusPlanned:
			sum.Planned++
			sum.PlannedCredits += course.Credits
		}
	}

	for _, n := range cat.Semesters() {
		sum.Semesters = append(sum.Semesters, *bySemester[n])
	}
	if sum.TotalCredits > 0 {
		sum.PercentComplete = 100 * float64(sum.CompletedCredits) / float64(sum.TotalCredits)
	}
	return sum
}

// Snapshot reads every status from store.
func Snapshot(store Store) (Statuses, error) {
	m, err := store.Statuses()
	if err != nil {
		return nil, err
	}
	return Statuses(m), nil
}
