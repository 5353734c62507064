package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotRoundTrip(t *testing.T) {
	s := newDraft(t)
	s.SetSemesterActive(SemesterFall, false)
	_, err := s.ToggleAssignment("inst-1", "CPRG213", "A", SemesterWinter, ComponentBoth)
	require.NoError(t, err)
	_, err = s.ToggleAssignment("inst-2", "CPRG213", "B", SemesterWinter, ComponentClass)
	require.NoError(t, err)
	require.NoError(t, s.Submit())

	snap := s.Snapshot()
	restored := FromSnapshot(DefaultConfig(), snap)

	assert.Equal(t, s.ID(), restored.ID())
	assert.Equal(t, s.Year(), restored.Year())
	assert.Equal(t, StatusSubmitted, restored.Status())
	assert.Equal(t, s.ActiveSemesters(), restored.ActiveSemesters())
	assert.Equal(t, s.Instructors(), restored.Instructors())
	assert.Equal(t, s.Courses(SemesterWinter), restored.Courses(SemesterWinter))
	assert.Equal(t, s.allAssignments(), restored.allAssignments())
}

func TestSnapshotAssignmentsAreOrdered(t *testing.T) {
	s := newDraft(t)
	_, err := s.ToggleAssignment("inst-2", "CPRG213", "B", SemesterWinter, ComponentClass)
	require.NoError(t, err)
	_, err = s.ToggleAssignment("inst-1", "CPRG213", "A", SemesterWinter, ComponentClass)
	require.NoError(t, err)

	snap := s.Snapshot()
	require.Len(t, snap.Assignments, 2)
	assert.Equal(t, "A", snap.Assignments[0].Section)
	assert.Equal(t, "B", snap.Assignments[1].Section)
}

func TestReconcileDropsEmptyEntries(t *testing.T) {
	s := newDraft(t)
	snap := s.Snapshot()
	snap.Assignments = []Assignment{
		{
			AssignmentKey:   AssignmentKey{InstructorID: "inst-1", CourseID: "CPRG213", Section: "A", Semester: SemesterWinter},
			AssignmentEntry: AssignmentEntry{Class: true},
		},
		{
			AssignmentKey: AssignmentKey{InstructorID: "inst-2", CourseID: "CPRG213", Section: "B", Semester: SemesterWinter},
		},
	}

	s.Reconcile(snap)
	assert.Equal(t, 1, s.AssignmentCount())
	assert.True(t, s.IsAssigned("inst-1", "CPRG213", "A", SemesterWinter, ComponentClass))
	assert.False(t, s.IsAssigned("inst-2", "CPRG213", "B", SemesterWinter, ComponentClass))
}

func TestReconcileIgnoresLock(t *testing.T) {
	s := newDraft(t)
	_, err := s.ToggleAssignment("inst-1", "CPRG213", "A", SemesterWinter, ComponentBoth)
	require.NoError(t, err)
	require.NoError(t, s.Submit())

	remote := newDraft(t)
	remoteSnap := remote.Snapshot()
	remoteSnap.Status = StatusSubmitted

	s.Reconcile(remoteSnap)
	assert.Equal(t, 0, s.AssignmentCount())
	assert.Equal(t, StatusSubmitted, s.Status())
}

func TestReconcileDerivesMissingCaps(t *testing.T) {
	s := NewSchedule("sched-1", 2025, DefaultConfig())
	s.Reconcile(Snapshot{
		ID:              "sched-1",
		Year:            2025,
		Status:          StatusNotSubmitted,
		ActiveSemesters: Semesters(),
		Instructors: []Instructor{
			{ID: "inst-1", FullName: "Avery Boone", ContractType: ContractCasual},
			{ID: "inst-2", FullName: "Morgan Cole", ContractType: ContractSalaried},
		},
	})

	inst, ok := s.InstructorByID("inst-1")
	require.True(t, ok)
	assert.InDelta(t, 800, inst.AnnualHourCap, 0.001)

	inst, ok = s.InstructorByID("inst-2")
	require.True(t, ok)
	assert.InDelta(t, 615, inst.AnnualHourCap, 0.001)
}
