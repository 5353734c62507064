package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func viewFixture(t *testing.T) *Schedule {
	t.Helper()
	s := NewSchedule("sched-1", 2025, DefaultConfig())
	require.NoError(t, s.AddInstructor(Instructor{ID: "inst-z", FullName: "zoe Quinn", ContractType: ContractCasual, BaselineHours: 50}))
	require.NoError(t, s.AddInstructor(Instructor{ID: "inst-a", FullName: "Avery Boone", ContractType: ContractCasual, BaselineHours: 750}))
	require.NoError(t, s.AddInstructor(Instructor{ID: "inst-m", FullName: "Morgan Cole", ContractType: ContractCasual, BaselineHours: 200}))
	require.NoError(t, s.AddCourse(SemesterWinter, Course{
		CourseID:          "CPRG213",
		Code:              "CPRG213",
		ClassHoursPerWeek: 2,
		Sections:          []string{"A"},
	}))
	require.NoError(t, s.AddCourse(SemesterWinter, Course{
		CourseID:          "CPRG250",
		Code:              "CPRG250",
		ClassHoursPerWeek: 3,
		Sections:          []string{"A"},
	}))
	return s
}

func TestVisibleCoursesHideComplete(t *testing.T) {
	s := viewFixture(t)
	_, err := s.ToggleAssignment("inst-m", "CPRG213", "A", SemesterWinter, ComponentBoth)
	require.NoError(t, err)

	all := s.VisibleCourses(SemesterWinter, false)
	require.Len(t, all, 2)
	assert.Equal(t, "CPRG213", all[0].CourseID)

	remaining := s.VisibleCourses(SemesterWinter, true)
	require.Len(t, remaining, 1)
	assert.Equal(t, "CPRG250", remaining[0].CourseID)
}

func TestVisibleInstructorsHideNearCap(t *testing.T) {
	s := viewFixture(t)
	// inst-a sits at 750/800, past the 0.9 near-cap line
	visible := s.VisibleInstructors(true, SortAlphabetical)
	ids := make([]string, 0, len(visible))
	for _, inst := range visible {
		ids = append(ids, inst.ID)
	}
	assert.NotContains(t, ids, "inst-a")
	assert.Len(t, visible, 2)
}

func TestVisibleInstructorsAlphabeticalIgnoresCase(t *testing.T) {
	s := viewFixture(t)
	visible := s.VisibleInstructors(false, SortAlphabetical)
	require.Len(t, visible, 3)
	assert.Equal(t, "Avery Boone", visible[0].FullName)
	assert.Equal(t, "Morgan Cole", visible[1].FullName)
	assert.Equal(t, "zoe Quinn", visible[2].FullName)
}

func TestVisibleInstructorsByCurrentSemesterHours(t *testing.T) {
	s := viewFixture(t)
	s.SetSemesterActive(SemesterSpringSummer, false)
	s.SetSemesterActive(SemesterFall, false)

	_, err := s.ToggleAssignment("inst-z", "CPRG250", "A", SemesterWinter, ComponentClass)
	require.NoError(t, err)
	_, err = s.ToggleAssignment("inst-a", "CPRG213", "A", SemesterWinter, ComponentClass)
	require.NoError(t, err)

	visible := s.VisibleInstructors(false, SortCurrentSemesterHours)
	require.Len(t, visible, 3)
	// inst-m has no winter hours, inst-a has 2/week, inst-z has 3/week
	assert.Equal(t, "inst-m", visible[0].ID)
	assert.Equal(t, "inst-a", visible[1].ID)
	assert.Equal(t, "inst-z", visible[2].ID)
}

func TestVisibleInstructorsSemesterSortFallsBackToAnnual(t *testing.T) {
	s := viewFixture(t)
	// all three semesters active: fall back to ascending annual hours
	visible := s.VisibleInstructors(false, SortCurrentSemesterHours)
	require.Len(t, visible, 3)
	assert.Equal(t, "inst-z", visible[0].ID)
	assert.Equal(t, "inst-m", visible[1].ID)
	assert.Equal(t, "inst-a", visible[2].ID)
}

func TestVisibleInstructorsByTotalHours(t *testing.T) {
	s := viewFixture(t)
	visible := s.VisibleInstructors(false, SortTotalHours)
	require.Len(t, visible, 3)
	assert.Equal(t, "inst-z", visible[0].ID)
	assert.Equal(t, "inst-m", visible[1].ID)
	assert.Equal(t, "inst-a", visible[2].ID)
}

func TestViewsDoNotMutateState(t *testing.T) {
	s := viewFixture(t)
	_ = s.VisibleInstructors(true, SortTotalHours)
	courses := s.VisibleCourses(SemesterWinter, false)
	courses[0].Sections[0] = "Z"

	course, _ := s.CourseInSemester("CPRG213", SemesterWinter)
	assert.Equal(t, []string{"A"}, course.Sections)
}
