package progress_test

import (
	"errors"
	"reflect"
	"testing"

	"github.com/vanderheijden86/coursemap/pkg/catalog"
	"github.com/vanderheijden86/coursemap/pkg/loader"
	"github.com/vanderheijden86/coursemap/pkg/model"
	"github.com/vanderheijden86/coursemap/pkg/progress"
)

func bundled(t *testing.T) *catalog.Catalog {
	t.Helper()
	return catalog.Build(loader.MustBundled().Courses)
}

func codes(courses []model.Course) []string {
	out := []string{}
	for _, c := range courses {
		out = append(out, c.Code)
	}
	return out
}

func TestBlockers(t *testing.T) {
	c := bundled(t)
	statuses := progress.Statuses{
		"BMS115": model.StatusCompleted,
		"BMS116": model.StatusInProgress,
	}
	got := progress.Blockers(c, statuses, "BPT216")
	want := []string{"BMS116", "BPT112", "BPT214"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
	if !progress.Locked(c, statuses, "BPT216") {
		t.Errorf("expected BPT216 to be locked")
	}
	if progress.Locked(c, statuses, "BMS116") {
		t.Errorf("expected BMS116 to be unlocked once BMS115 is completed")
	}
}

func TestLocked_DanglingNeverBlocks(t *testing.T) {
	c := bundled(t)
	if progress.Locked(c, progress.Statuses{}, "BPT514") {
		t.Errorf("expected BPT514 (only a dangling prerequisite) to be unlocked")
	}
}

func TestAvailable(t *testing.T) {
	c := catalog.Build([]model.Course{
		{Code: "A", Semester: 1, Credits: 3},
		{Code: "B", Semester: 2, Credits: 3, Prerequisites: []string{"A"}},
		{Code: "C", Semester: 2, Credits: 3, Prerequisites: []string{"A", "B"}},
		{Code: "D", Semester: 1, Credits: 2},
	})

	got := codes(progress.Available(c, progress.Statuses{}))
	if !reflect.DeepEqual(got, []string{"A", "D"}) {
		t.Errorf("expected [A D], got %v", got)
	}

	got = codes(progress.Available(c, progress.Statuses{"A": model.StatusCompleted, "D": model.StatusPlanned}))
	if !reflect.DeepEqual(got, []string{"B", "D"}) {
		t.Errorf("expected [B D], got %v", got)
	}
}

func TestSummarize(t *testing.T) {
	c := bundled(t)
	sum := progress.Summarize(c, progress.Statuses{
		"BMS115": model.StatusCompleted,
		"PHY112": model.StatusCompleted,
		"BMS116": model.StatusInProgress,
		"UC1":    model.StatusPlanned,
		"GHOST":  model.StatusCompleted,
	})
	if sum.Completed != 2 || sum.CompletedCredits != 6 {
		t.Errorf("expected 2 completed / 6 credits, got %d / %d", sum.Completed, sum.CompletedCredits)
	}
	if sum.InProgressCredits != 3 || sum.PlannedCredits != 2 {
		t.Errorf("unexpected in-progress/planned credits: %d/%d", sum.InProgressCredits, sum.PlannedCredits)
	}
	if len(sum.Semesters) != 10 {
		t.Fatalf("expected 10 semesters, got %d", len(sum.Semesters))
	}
	first := sum.Semesters[0]
	if first.Semester != 1 || first.Courses != 7 || first.Credits != 18 || first.CompletedCredits != 6 {
		t.Errorf("unexpected semester 1 progress: %+v", first)
	}
	if sum.PercentComplete <= 0 || sum.PercentComplete >= 100 {
		t.Errorf("unexpected percent: %v", sum.PercentComplete)
	}
}

func TestMemoryStore(t *testing.T) {
	s := progress.NewMemoryStore(map[string]model.Status{"A": model.StatusPlanned, "B": model.StatusNone})

	all, _ := s.Statuses()
	if len(all) != 1 {
		t.Errorf("expected none entries to be dropped, got %v", all)
	}

	next, err := progress.Cycle(s, "A")
	if err != nil || next != model.StatusInProgress {
		t.Errorf("expected in-progress, got %q (%v)", next, err)
	}

	if err := s.SetStatus("A", "bogus"); !errors.Is(err, model.ErrInvalidStatus) {
		t.Errorf("expected ErrInvalidStatus, got %v", err)
	}

	_ = s.SetStatus("A", model.StatusNone)
	if st, _ := s.Status("A"); st != model.StatusNone {
		t.Errorf("expected none, got %q", st)
	}

	snap, _ := progress.Snapshot(s)
	snap["Z"] = model.StatusCompleted
	if st, _ := s.Status("Z"); st != model.StatusNone {
		t.Errorf("snapshot must not alias the store")
	}
}
