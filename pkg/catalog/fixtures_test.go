package catalog_test

import (
	"testing"

	"github.com/vanderheijden86/coursemap/pkg/catalog"
	"github.com/vanderheijden86/coursemap/pkg/testutil"
)

func TestGenerated_Chain(t *testing.T) {
	c := catalog.Build(testutil.QuickChain(4))

	testutil.AssertCodes(t, c.RecentPrerequisites("TST104"), "TST103")
	testutil.AssertCodes(t, c.RequiredFor("TST101"), "TST102")
	testutil.AssertSet(t, c.Descendants("TST101"), "TST101", "TST102", "TST103", "TST104")
	testutil.AssertSet(t, c.Ancestors("TST104"), "TST101", "TST102", "TST103", "TST104")
	if len(c.Validate()) != 0 {
		t.Errorf("Expected no problems, got %v", c.Validate())
	}
}

func TestGenerated_DiamondFrontier(t *testing.T) {
	c := catalog.Build(testutil.QuickDiamond(2))

	testutil.AssertCodes(t, c.RecentPrerequisites("TST104"), "TST102", "TST103")
	testutil.AssertCodes(t, c.RequiredFor("TST101"), "TST102", "TST103")
	testutil.AssertSet(t, c.FocusSet("TST102"), "TST101", "TST102", "TST104")
}

func TestGenerated_StarRequiredFor(t *testing.T) {
	c := catalog.Build(testutil.QuickStar(3))
	testutil.AssertCodes(t, c.RequiredFor("TST101"), "TST102", "TST103", "TST104")
	testutil.AssertCourseCodes(t, c.BySemester(2), "TST102", "TST103", "TST104")
}

func TestGenerated_TreeFocusSet(t *testing.T) {
	c := catalog.Build(testutil.QuickTree(2, 2))
	testutil.AssertSet(t, c.FocusSet("TST102"), "TST101", "TST102", "TST104", "TST105")
}

func TestGenerated_RandomCatalogsValidate(t *testing.T) {
	for _, seed := range []int64{1, 2, 3, 42} {
		gen := testutil.New(testutil.GeneratorConfig{Seed: seed})
		c := catalog.Build(gen.ToCourses(gen.RandomDAG(40, 0.15)))
		if problems := c.Validate(); len(problems) != 0 {
			t.Errorf("seed %d: expected no problems, got %v", seed, problems)
		}
		if len(c.OrderWarnings()) != 0 {
			t.Errorf("seed %d: generated semesters should follow prerequisites", seed)
		}
	}
}
