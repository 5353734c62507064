package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeeklyAndSemesterHours(t *testing.T) {
	s := newDraft(t)

	_, err := s.ToggleAssignment("inst-1", "CPRG213", "A", SemesterWinter, ComponentBoth)
	require.NoError(t, err)
	assert.InDelta(t, 5.0, s.WeeklyHours("inst-1", SemesterWinter), 1e-9)
	assert.InDelta(t, 75.0, s.SemesterHours("inst-1", SemesterWinter), 1e-9)

	// dropping the online component leaves only the class share
	_, err = s.ToggleAssignment("inst-1", "CPRG213", "A", SemesterWinter, ComponentOnline)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, s.WeeklyHours("inst-1", SemesterWinter), 1e-9)
	assert.Len(t, s.AssignmentsForInstructor("inst-1"), 1)
}

func TestAnnualHoursIncludesBaselineAndAllSemesters(t *testing.T) {
	s := NewSchedule("sched-1", 2025, DefaultConfig())
	require.NoError(t, s.AddInstructor(Instructor{ID: "inst-1", FullName: "Avery Boone", ContractType: ContractCasual, BaselineHours: 100}))
	for _, sem := range []Semester{SemesterWinter, SemesterFall} {
		require.NoError(t, s.AddCourse(sem, Course{
			CourseID:          "CPRG213",
			Code:              "CPRG213",
			ClassHoursPerWeek: 2,
			Sections:          []string{"A"},
		}))
		_, err := s.ToggleAssignment("inst-1", "CPRG213", "A", sem, ComponentClass)
		require.NoError(t, err)
	}
	// hidden semesters still count
	s.SetSemesterActive(SemesterFall, false)

	assert.InDelta(t, 100+2*15+2*15, s.AnnualHours("inst-1"), 1e-9)
}

func TestAnnualHoursMatchesFromScratchRecomputation(t *testing.T) {
	s := newDraft(t)
	_, err := s.ToggleAssignment("inst-1", "CPRG213", "A", SemesterWinter, ComponentBoth)
	require.NoError(t, err)
	_, err = s.ToggleAssignment("inst-1", "CPRG213", "B", SemesterWinter, ComponentClass)
	require.NoError(t, err)

	inst, _ := s.InstructorByID("inst-1")
	expected := inst.BaselineHours
	for _, sem := range Semesters() {
		expected += s.WeeklyHours("inst-1", sem) * 15
	}
	assert.InDelta(t, expected, s.AnnualHours("inst-1"), 1e-9)
}

func TestUtilizationBands(t *testing.T) {
	s := NewSchedule("sched-1", 2025, DefaultConfig())
	require.NoError(t, s.AddInstructor(Instructor{ID: "under", ContractType: ContractCasual, BaselineHours: 100}))
	require.NoError(t, s.AddInstructor(Instructor{ID: "boundary", ContractType: ContractCasual, BaselineHours: 480}))
	require.NoError(t, s.AddInstructor(Instructor{ID: "maxed", ContractType: ContractCasual, BaselineHours: 800}))
	require.NoError(t, s.AddInstructor(Instructor{ID: "salaried", ContractType: ContractSalaried, BaselineHours: 369}))

	assert.Equal(t, BandUnder, s.UtilizationBandFor("under"))
	// the 0.6 breakpoint is inclusive on the Over side
	assert.InDelta(t, 0.6, s.UtilizationRatio("boundary"), 1e-9)
	assert.Equal(t, BandOver, s.UtilizationBandFor("boundary"))
	assert.Equal(t, BandOverMax, s.UtilizationBandFor("maxed"))
	// 369/615 is exactly 0.6 as well
	assert.Equal(t, BandOver, s.UtilizationBandFor("salaried"))
}

func TestIsNearCap(t *testing.T) {
	s := NewSchedule("sched-1", 2025, DefaultConfig())
	require.NoError(t, s.AddInstructor(Instructor{ID: "close", ContractType: ContractCasual, BaselineHours: 720}))
	require.NoError(t, s.AddInstructor(Instructor{ID: "clear", ContractType: ContractCasual, BaselineHours: 700}))

	assert.True(t, s.IsNearCap("close"))
	assert.False(t, s.IsNearCap("clear"))
	assert.False(t, s.IsNearCap("ghost"))
}

func TestCourseCompletion(t *testing.T) {
	s := newDraft(t)

	assert.Equal(t, CompletionUnassigned, s.CourseCompletion("CPRG213", SemesterWinter))

	_, err := s.ToggleAssignment("inst-1", "CPRG213", "A", SemesterWinter, ComponentClass)
	require.NoError(t, err)
	assert.Equal(t, CompletionPartial, s.CourseCompletion("CPRG213", SemesterWinter))

	// both components covered, by different instructors, on every section
	_, err = s.ToggleAssignment("inst-2", "CPRG213", "A", SemesterWinter, ComponentOnline)
	require.NoError(t, err)
	_, err = s.ToggleAssignment("inst-1", "CPRG213", "B", SemesterWinter, ComponentBoth)
	require.NoError(t, err)
	assert.Equal(t, CompletionComplete, s.CourseCompletion("CPRG213", SemesterWinter))
}

func TestCourseCompletionMonotonePerSectionAssignment(t *testing.T) {
	s := newDraft(t)
	_, err := s.SetSectionCount("CPRG213", SemesterWinter, 3)
	require.NoError(t, err)

	rank := map[CompletionState]int{CompletionUnassigned: 0, CompletionPartial: 1, CompletionComplete: 2}
	prev := s.CourseCompletion("CPRG213", SemesterWinter)
	for _, section := range []string{"A", "B", "C"} {
		_, err := s.ToggleAssignment("inst-1", "CPRG213", section, SemesterWinter, ComponentBoth)
		require.NoError(t, err)
		next := s.CourseCompletion("CPRG213", SemesterWinter)
		assert.GreaterOrEqual(t, rank[next], rank[prev])
		prev = next
	}
	assert.Equal(t, CompletionComplete, prev)
}

func TestCourseCompletionRequiresBothFlagsEvenWithZeroOnlineHours(t *testing.T) {
	s := NewSchedule("sched-1", 2025, DefaultConfig())
	require.NoError(t, s.AddInstructor(Instructor{ID: "inst-1", ContractType: ContractCasual}))
	require.NoError(t, s.AddCourse(SemesterWinter, Course{
		CourseID:          "MATH188",
		Code:              "MATH188",
		ClassHoursPerWeek: 4,
		Sections:          []string{"A"},
	}))

	_, err := s.ToggleAssignment("inst-1", "MATH188", "A", SemesterWinter, ComponentClass)
	require.NoError(t, err)
	assert.Equal(t, CompletionPartial, s.CourseCompletion("MATH188", SemesterWinter))

	_, err = s.ToggleAssignment("inst-1", "MATH188", "A", SemesterWinter, ComponentOnline)
	require.NoError(t, err)
	assert.Equal(t, CompletionComplete, s.CourseCompletion("MATH188", SemesterWinter))
}

func TestWorkloadDefensiveOnMissingLookups(t *testing.T) {
	s := newDraft(t)
	assert.Zero(t, s.WeeklyHours("ghost", SemesterWinter))
	assert.Zero(t, s.AnnualHours("ghost"))
	assert.Zero(t, s.UtilizationRatio("ghost"))
	assert.Equal(t, CompletionUnassigned, s.CourseCompletion("ghost", SemesterWinter))
}
