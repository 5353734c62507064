package engine

import (
	"fmt"

	appErrors "github.com/noah-isme/acs-schedule-api/pkg/errors"
)

// Submit moves the draft into review. Valid from NotSubmitted, Rejected
// (resubmission) and Recalled.
func (s *Schedule) Submit() error {
	switch s.status {
	case StatusNotSubmitted, StatusRejected, StatusRecalled:
		s.status = StatusSubmitted
		return nil
	}
	return transitionError(s.status, StatusSubmitted)
}

// Approve accepts a submitted draft.
func (s *Schedule) Approve() error {
	if s.status != StatusSubmitted {
		return transitionError(s.status, StatusApproved)
	}
	s.status = StatusApproved
	return nil
}

// Reject returns a submitted draft to its author.
func (s *Schedule) Reject() error {
	if s.status != StatusSubmitted {
		return transitionError(s.status, StatusRejected)
	}
	s.status = StatusRejected
	return nil
}

// Recall withdraws a draft that has been submitted or already approved,
// unlocking it for further edits.
func (s *Schedule) Recall() error {
	switch s.status {
	case StatusSubmitted, StatusApproved:
		s.status = StatusRecalled
		return nil
	}
	return transitionError(s.status, StatusRecalled)
}

// Reopen resets a rejected or recalled draft to NotSubmitted.
func (s *Schedule) Reopen() error {
	switch s.status {
	case StatusRejected, StatusRecalled:
		s.status = StatusNotSubmitted
		return nil
	}
	return transitionError(s.status, StatusNotSubmitted)
}

// SetStatus force-sets the status, used when reloading persisted state.
func (s *Schedule) SetStatus(status SubmissionStatus) {
	s.status = status
}

func transitionError(from, to SubmissionStatus) error {
	return appErrors.Clone(appErrors.ErrConflict, fmt.Sprintf("cannot move schedule from %s to %s", from, to))
}

func lockedError(status SubmissionStatus) error {
	return appErrors.Clone(appErrors.ErrScheduleLocked, fmt.Sprintf("schedule is %s and rejects edits", status))
}
