package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/noah-isme/acs-schedule-api/pkg/errors"
)

func TestSubmissionLifecycle(t *testing.T) {
	s := NewSchedule("sched-1", 2025, DefaultConfig())
	assert.Equal(t, StatusNotSubmitted, s.Status())
	assert.True(t, s.Editable())

	require.NoError(t, s.Submit())
	assert.Equal(t, StatusSubmitted, s.Status())
	assert.False(t, s.Editable())

	require.NoError(t, s.Approve())
	assert.Equal(t, StatusApproved, s.Status())
	assert.False(t, s.Editable())

	require.NoError(t, s.Recall())
	assert.Equal(t, StatusRecalled, s.Status())
	assert.True(t, s.Editable())

	require.NoError(t, s.Reopen())
	assert.Equal(t, StatusNotSubmitted, s.Status())
}

func TestRejectUnlocksAndAllowsResubmit(t *testing.T) {
	s := NewSchedule("sched-1", 2025, DefaultConfig())
	require.NoError(t, s.Submit())
	require.NoError(t, s.Reject())
	assert.Equal(t, StatusRejected, s.Status())
	assert.True(t, s.Editable())

	require.NoError(t, s.Submit())
	assert.Equal(t, StatusSubmitted, s.Status())
}

func TestRecallFromSubmitted(t *testing.T) {
	s := NewSchedule("sched-1", 2025, DefaultConfig())
	require.NoError(t, s.Submit())
	require.NoError(t, s.Recall())
	assert.Equal(t, StatusRecalled, s.Status())

	require.NoError(t, s.Submit())
	assert.Equal(t, StatusSubmitted, s.Status())
}

func TestInvalidTransitionsConflict(t *testing.T) {
	cases := []struct {
		name string
		prep func(*Schedule)
		op   func(*Schedule) error
	}{
		{"approve before submit", func(*Schedule) {}, (*Schedule).Approve},
		{"reject before submit", func(*Schedule) {}, (*Schedule).Reject},
		{"recall before submit", func(*Schedule) {}, (*Schedule).Recall},
		{"reopen fresh draft", func(*Schedule) {}, (*Schedule).Reopen},
		{"double submit", func(s *Schedule) { _ = s.Submit() }, (*Schedule).Submit},
		{"approve approved", func(s *Schedule) { _ = s.Submit(); _ = s.Approve() }, (*Schedule).Approve},
		{"reject approved", func(s *Schedule) { _ = s.Submit(); _ = s.Approve() }, (*Schedule).Reject},
		{"reopen submitted", func(s *Schedule) { _ = s.Submit() }, (*Schedule).Reopen},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := NewSchedule("sched-1", 2025, DefaultConfig())
			tc.prep(s)
			err := tc.op(s)
			require.Error(t, err)
			assert.True(t, appErrors.HasCode(err, appErrors.ErrConflict))
		})
	}
}

func TestSetStatusBypassesTransitions(t *testing.T) {
	s := NewSchedule("sched-1", 2025, DefaultConfig())
	s.SetStatus(StatusApproved)
	assert.Equal(t, StatusApproved, s.Status())
	assert.False(t, s.Editable())
}
