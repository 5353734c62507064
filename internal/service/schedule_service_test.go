package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/acs-schedule-api/internal/dto"
	"github.com/noah-isme/acs-schedule-api/internal/engine"
	appErrors "github.com/noah-isme/acs-schedule-api/pkg/errors"
)

type wiperStub struct {
	cleared []string
	err     error
}

func (s *wiperStub) ClearSchedule(ctx context.Context, scheduleID string) error {
	if s.err != nil {
		return s.err
	}
	s.cleared = append(s.cleared, scheduleID)
	return nil
}

func newScheduleFixture(t *testing.T) (*ScheduleService, *ScheduleRegistry, *draftStoreStub, *wiperStub, *cachePatternStub) {
	t.Helper()
	drafts, roster, rows := seededStores()
	drafts.nextID = "sched-new"
	registry := newTestRegistry(drafts, roster, rows)
	wiper := &wiperStub{}
	cache := &cachePatternStub{}
	svc := NewScheduleService(registry, drafts, wiper, cache, engine.DefaultConfig(), nil, nil)
	return svc, registry, drafts, wiper, cache
}

func TestCreateScheduleStartsEmptyDraft(t *testing.T) {
	svc, registry, drafts, _, _ := newScheduleFixture(t)

	resp, err := svc.Create(context.Background(), dto.CreateScheduleRequest{Year: 2026}, "user-1")
	require.NoError(t, err)

	assert.Equal(t, "sched-new", resp.ID)
	assert.Equal(t, 2026, resp.Year)
	assert.Equal(t, string(engine.StatusNotSubmitted), resp.Status)
	assert.ElementsMatch(t, []string{"WINTER", "SPRING_SUMMER", "FALL"}, resp.ActiveSemesters)
	assert.Zero(t, resp.InstructorCount)

	require.NotNil(t, drafts.drafts["sched-new"].CreatedBy)
	assert.Equal(t, "user-1", *drafts.drafts["sched-new"].CreatedBy)

	h, err := registry.Handle(context.Background(), "sched-new")
	require.NoError(t, err)
	assert.Equal(t, 2026, h.sched.Year())
}

func TestCreateScheduleValidatesYear(t *testing.T) {
	svc, _, _, _, _ := newScheduleFixture(t)

	_, err := svc.Create(context.Background(), dto.CreateScheduleRequest{Year: 1850}, "")
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrValidation))
}

func TestCreateScheduleRejectsDuplicateYear(t *testing.T) {
	svc, _, drafts, _, _ := newScheduleFixture(t)

	_, err := svc.Create(context.Background(), dto.CreateScheduleRequest{Year: 2025}, "user-1")
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrConflict))
	assert.NotContains(t, drafts.drafts, "sched-new")
}

func TestGetScheduleReportsCounts(t *testing.T) {
	svc, registry, _, _, _ := newScheduleFixture(t)

	h, err := registry.Handle(context.Background(), "sched-1")
	require.NoError(t, err)
	_, err = h.sched.ToggleAssignment("inst-1", "crs-213", "A", engine.SemesterWinter, engine.ComponentClass)
	require.NoError(t, err)

	resp, err := svc.Get(context.Background(), "sched-1")
	require.NoError(t, err)
	assert.Equal(t, 2, resp.InstructorCount)
	assert.Equal(t, 1, resp.AssignmentCount)
}

func TestSubmitPersistsStatus(t *testing.T) {
	svc, _, drafts, _, _ := newScheduleFixture(t)

	resp, err := svc.Submit(context.Background(), "sched-1")
	require.NoError(t, err)

	assert.Equal(t, string(engine.StatusSubmitted), resp.Status)
	assert.Equal(t, []string{string(engine.StatusSubmitted)}, drafts.statusUpdates)
}

func TestSubmitRollsBackOnPersistenceFailure(t *testing.T) {
	svc, registry, drafts, _, _ := newScheduleFixture(t)
	drafts.statusErr = errors.New("connection refused")

	_, err := svc.Submit(context.Background(), "sched-1")
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrPersistenceFailure))

	h, err := registry.Handle(context.Background(), "sched-1")
	require.NoError(t, err)
	assert.Equal(t, engine.StatusNotSubmitted, h.sched.Status())
}

func TestApproveRequiresSubmission(t *testing.T) {
	svc, _, _, _, _ := newScheduleFixture(t)

	_, err := svc.Approve(context.Background(), "sched-1")
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrConflict))
}

func TestSubmissionLifecycle(t *testing.T) {
	svc, _, _, _, _ := newScheduleFixture(t)
	ctx := context.Background()

	_, err := svc.Submit(ctx, "sched-1")
	require.NoError(t, err)
	resp, err := svc.Reject(ctx, "sched-1")
	require.NoError(t, err)
	assert.Equal(t, string(engine.StatusRejected), resp.Status)

	resp, err = svc.Reopen(ctx, "sched-1")
	require.NoError(t, err)
	assert.Equal(t, string(engine.StatusNotSubmitted), resp.Status)

	_, err = svc.Submit(ctx, "sched-1")
	require.NoError(t, err)
	resp, err = svc.Approve(ctx, "sched-1")
	require.NoError(t, err)
	assert.Equal(t, string(engine.StatusApproved), resp.Status)

	resp, err = svc.Recall(ctx, "sched-1")
	require.NoError(t, err)
	assert.Equal(t, string(engine.StatusRecalled), resp.Status)
}

func TestSetSemesterActivePersists(t *testing.T) {
	svc, _, drafts, _, _ := newScheduleFixture(t)

	off := false
	resp, err := svc.SetSemesterActive(context.Background(), "sched-1", dto.SemesterToggleRequest{
		Semester: string(engine.SemesterFall),
		Active:   &off,
	})
	require.NoError(t, err)

	assert.NotContains(t, resp.ActiveSemesters, "FALL")
	assert.Contains(t, resp.ActiveSemesters, "WINTER")
	assert.Len(t, drafts.drafts["sched-1"].ActiveSemesters, 2)
}

func TestSetSemesterActiveRollsBackOnPersistenceFailure(t *testing.T) {
	svc, registry, drafts, _, _ := newScheduleFixture(t)
	drafts.semestersErr = errors.New("connection refused")

	off := false
	_, err := svc.SetSemesterActive(context.Background(), "sched-1", dto.SemesterToggleRequest{
		Semester: string(engine.SemesterFall),
		Active:   &off,
	})
	require.Error(t, err)

	h, err := registry.Handle(context.Background(), "sched-1")
	require.NoError(t, err)
	assert.True(t, h.sched.ActiveSemesters()[engine.SemesterFall])
}

func TestClearSchedulePreservesIdentity(t *testing.T) {
	svc, registry, _, wiper, _ := newScheduleFixture(t)

	h, err := registry.Handle(context.Background(), "sched-1")
	require.NoError(t, err)
	_, err = h.sched.ToggleAssignment("inst-1", "crs-213", "A", engine.SemesterWinter, engine.ComponentBoth)
	require.NoError(t, err)

	require.NoError(t, svc.Clear(context.Background(), "sched-1"))
	assert.Equal(t, []string{"sched-1"}, wiper.cleared)
	assert.Empty(t, h.sched.Instructors())
	assert.Zero(t, h.sched.AssignmentCount())
	assert.Equal(t, 2025, h.sched.Year())
}

func TestClearScheduleRollsBackOnPersistenceFailure(t *testing.T) {
	svc, registry, _, wiper, _ := newScheduleFixture(t)
	wiper.err = errors.New("connection refused")

	err := svc.Clear(context.Background(), "sched-1")
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrPersistenceFailure))

	h, err := registry.Handle(context.Background(), "sched-1")
	require.NoError(t, err)
	assert.Len(t, h.sched.Instructors(), 2)
}

func TestDeleteScheduleForgetsDraft(t *testing.T) {
	svc, _, drafts, _, _ := newScheduleFixture(t)

	require.NoError(t, svc.Delete(context.Background(), "sched-1"))
	assert.NotContains(t, drafts.drafts, "sched-1")

	err := svc.Delete(context.Background(), "sched-1")
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrNotFound))
}

func TestReloadReturnsPersistedView(t *testing.T) {
	svc, registry, _, _, _ := newScheduleFixture(t)

	h, err := registry.Handle(context.Background(), "sched-1")
	require.NoError(t, err)
	_, err = h.sched.ToggleAssignment("inst-1", "crs-213", "A", engine.SemesterWinter, engine.ComponentClass)
	require.NoError(t, err)

	resp, err := svc.Reload(context.Background(), "sched-1")
	require.NoError(t, err)
	assert.Zero(t, resp.AssignmentCount)
}

type evictingCacheStub struct {
	workloadCacheStub
	patterns []string
}

func (s *evictingCacheStub) DeleteByPattern(ctx context.Context, pattern string) error {
	s.patterns = append(s.patterns, pattern)
	prefix := strings.TrimSuffix(pattern, "*")
	for k := range s.data {
		if strings.HasPrefix(k, prefix) {
			delete(s.data, k)
		}
	}
	return nil
}

func TestClearScheduleEvictsWorkloadBoard(t *testing.T) {
	drafts, roster, rows := seededStores()
	registry := newTestRegistry(drafts, roster, rows)
	cache := &evictingCacheStub{}
	workloadSvc := NewWorkloadService(registry, cache, WorkloadCacheConfig{Enabled: true}, nil, nil)
	scheduleSvc := NewScheduleService(registry, drafts, &wiperStub{}, cache, engine.DefaultConfig(), nil, nil)

	h, err := registry.Handle(context.Background(), "sched-1")
	require.NoError(t, err)
	_, err = h.sched.ToggleAssignment("inst-1", "crs-213", "A", engine.SemesterWinter, engine.ComponentBoth)
	require.NoError(t, err)

	before, err := workloadSvc.Instructors(context.Background(), "sched-1", dto.InstructorBoardQuery{})
	require.NoError(t, err)
	require.Len(t, before, 2)
	assert.Equal(t, 75.0, before[0].SemesterHours[string(engine.SemesterWinter)])

	require.NoError(t, scheduleSvc.Clear(context.Background(), "sched-1"))

	after, err := workloadSvc.Instructors(context.Background(), "sched-1", dto.InstructorBoardQuery{})
	require.NoError(t, err)
	assert.Empty(t, after)
}

func TestScheduleMutationsInvalidateWorkloadCache(t *testing.T) {
	svc, _, _, _, cache := newScheduleFixture(t)

	active := true
	_, err := svc.SetSemesterActive(context.Background(), "sched-1", dto.SemesterToggleRequest{Semester: "FALL", Active: &active})
	require.NoError(t, err)

	_, err = svc.Reload(context.Background(), "sched-1")
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), "sched-1"))

	assert.Equal(t, []string{
		"workload:sched-1:*",
		"workload:sched-1:*",
		"workload:sched-1:*",
	}, cache.patterns)
}
