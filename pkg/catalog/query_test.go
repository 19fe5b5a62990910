package catalog_test

import (
	"reflect"
	"testing"

	"github.com/vanderheijden86/coursemap/pkg/catalog"
	"github.com/vanderheijden86/coursemap/pkg/model"
)

func codesOf(courses []model.Course) []string {
	out := []string{}
	for _, c := range courses {
		out = append(out, c.Code)
	}
	return out
}

func TestSemesters(t *testing.T) {
	c := bundled(t)
	want := []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	if got := c.Semesters(); !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

func TestBySemester_DeclarationOrder(t *testing.T) {
	c := bundled(t)
	want := []string{"PHY112", "BPT111", "BMS115", "BMS124", "BMS136", "BMS149", "UC1"}
	if got := codesOf(c.BySemester(1)); !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
	if got := c.BySemester(42); len(got) != 0 {
		t.Errorf("Expected no courses for semester 42, got %v", codesOf(got))
	}
	if got := c.SemesterCredits(1); got != 18 {
		t.Errorf("Expected 18 credits in semester 1, got %d", got)
	}
}

func TestSearch(t *testing.T) {
	c := bundled(t)
	tests := []struct {
		query string
		want  []string
	}{
		{"", []string{}},
		{"   ", []string{}},
		{"zzz-no-match", []string{}},
		{"anatomy", []string{"BMS115", "BMS116", "BMS211", "BMS212"}},
		{"  ANATOMY ", []string{"BMS115", "BMS116", "BMS211", "BMS212"}},
		{"bpt21", []string{"BPT214", "BPT215", "BPT216", "BPT217", "BPT218"}},
	}
	for _, tt := range tests {
		if got := codesOf(c.Search(tt.query)); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Search(%q) = %v, want %v", tt.query, got, tt.want)
		}
	}
}

func TestTags(t *testing.T) {
	c := bundled(t)
	tests := map[string][]string{
		"BPT216": {"semester-4", "credits-medium", "has-prerequisites", "is-required", "prefix-bpt"},
		"BPT217": {"semester-4", "credits-high", "has-prerequisites", "is-required", "prefix-bpt"},
		"BPT514": {"semester-10", "credits-low", "has-prerequisites", "not-required", "prefix-bpt"},
		"E5":     {"semester-10", "credits-low", "no-prerequisites", "not-required", "prefix-e"},
	}
	for code, want := range tests {
		course, _ := c.FindByCode(code)
		if got := c.Tags(course); !reflect.DeepEqual(got, want) {
			t.Errorf("Tags(%s) = %v, want %v", code, got, want)
		}
	}
}

func TestTags_NoPrefixForNumericCode(t *testing.T) {
	c := catalog.Build([]model.Course{course("101", 1, 3)})
	course, _ := c.FindByCode("101")
	for _, tag := range c.Tags(course) {
		if len(tag) >= 7 && tag[:7] == "prefix-" {
			t.Errorf("Expected no prefix tag, got %s", tag)
		}
	}
}

func TestAvailableTags(t *testing.T) {
	c := bundled(t)
	want := []string{
		"prefix-phy", "prefix-bpt", "prefix-bms", "prefix-uc", "prefix-pth", "prefix-cms",
		"prefix-e", "prefix-ptm", "prefix-ue", "prefix-pto", "prefix-ptn",
		"credits-low", "credits-medium", "credits-high", "no-prerequisites",
	}
	if got := c.AvailableTags(); !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

func TestMatchesFilter(t *testing.T) {
	c := bundled(t)
	bpt216, _ := c.FindByCode("BPT216")

	tests := []struct {
		name   string
		filter catalog.Filter
		want   bool
	}{
		{"zero filter", catalog.Filter{}, true},
		{"default filter", catalog.DefaultFilter(), true},
		{"matching semester", catalog.Filter{Semester: "4"}, true},
		{"other semester", catalog.Filter{Semester: "3"}, false},
		{"wildcard any case", catalog.Filter{Semester: "ALL"}, true},
		{"unparsable semester", catalog.Filter{Semester: "fourth"}, false},
		{"credits inclusive low", catalog.Filter{CreditsMin: 3, CreditsMax: 3}, true},
		{"credits below min", catalog.Filter{CreditsMin: 4}, false},
		{"credits above max", catalog.Filter{CreditsMin: 1, CreditsMax: 2}, false},
		{"tag hit", catalog.Filter{Tags: []string{"prefix-bpt"}}, true},
		{"tag OR hit", catalog.Filter{Tags: []string{"prefix-uc", "is-required"}}, true},
		{"tag miss", catalog.Filter{Tags: []string{"no-prerequisites"}}, false},
		{"tag hit semester miss", catalog.Filter{Semester: "5", Tags: []string{"prefix-bpt"}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.MatchesFilter(bpt216, tt.filter); got != tt.want {
				t.Errorf("MatchesFilter = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFilterCourses(t *testing.T) {
	c := bundled(t)
	all := c.Courses()

	if got := c.FilterCourses(all, catalog.DefaultFilter(), ""); len(got) != 67 {
		t.Errorf("Expected default filter to keep all 67 courses, got %d", len(got))
	}

	heavy := codesOf(c.FilterCourses(all, catalog.Filter{Semester: catalog.AllSemesters, CreditsMin: 7, CreditsMax: 8}, ""))
	want := []string{"CMS313", "PTM322", "PTO431", "PTO432", "PTH543", "PTN552"}
	if !reflect.DeepEqual(heavy, want) {
		t.Errorf("Expected %v, got %v", want, heavy)
	}

	required := codesOf(c.FilterCourses(all, catalog.Filter{Semester: catalog.SemesterFilter(4), Tags: []string{"is-required"}}, ""))
	want = []string{"BPT216", "BPT217", "BPT218", "BMS212", "BMS235"}
	if !reflect.DeepEqual(required, want) {
		t.Errorf("Expected %v, got %v", want, required)
	}

	queried := codesOf(c.FilterCourses(all, catalog.Filter{Semester: "4"}, "bpt"))
	want = []string{"BPT216", "BPT217", "BPT218"}
	if !reflect.DeepEqual(queried, want) {
		t.Errorf("Expected %v, got %v", want, queried)
	}
}

func TestFilter_IsZero(t *testing.T) {
	if !(catalog.Filter{}).IsZero() {
		t.Errorf("Expected zero filter to be zero")
	}
	if !(catalog.Filter{Semester: "all"}).IsZero() {
		t.Errorf("Expected wildcard-only filter to be zero")
	}
	if catalog.DefaultFilter().IsZero() {
		t.Errorf("Expected default filter with credit bounds to be non-zero")
	}
}
