package engine

import (
	"fmt"

	appErrors "github.com/noah-isme/acs-schedule-api/pkg/errors"
)

// ToggleResult reports the outcome of a toggle so a caller can update both
// affected rows in one round trip.
type ToggleResult struct {
	Key AssignmentKey `json:"key"`
	// Entry is the resulting entry, nil when the toggle ended unassigned.
	Entry *AssignmentEntry `json:"entry,omitempty"`
	// Displaced lists instructors who lost a component to this toggle.
	Displaced []string `json:"displaced,omitempty"`
}

// ToggleAssignment flips the given component of the instructor's claim on a
// section offering. At most one instructor holds the class flag and at most
// one the online flag for any (course, section, semester); toggling a
// component on displaces the current holder (last writer wins). Entries with
// both flags cleared are removed.
func (s *Schedule) ToggleAssignment(instructorID, courseID, section string, sem Semester, comp Component) (*ToggleResult, error) {
	if !s.Editable() {
		return nil, lockedError(s.status)
	}
	if !comp.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown component %q", comp))
	}
	if !sem.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown semester %q", sem))
	}
	if s.findInstructor(instructorID) == nil {
		return nil, appErrors.Clone(appErrors.ErrUnknownReference, fmt.Sprintf("instructor %s is not on the roster", instructorID))
	}
	course := s.findCourse(courseID, sem)
	if course == nil {
		return nil, appErrors.Clone(appErrors.ErrUnknownReference, fmt.Sprintf("course %s is not scheduled in %s", courseID, sem))
	}
	if !course.HasSection(section) {
		return nil, appErrors.Clone(appErrors.ErrUnknownReference, fmt.Sprintf("section %s is not open for course %s", section, courseID))
	}

	key := AssignmentKey{InstructorID: instructorID, CourseID: courseID, Section: section, Semester: sem}
	result := &ToggleResult{Key: key}

	entry := s.assignments[key]
	switch comp {
	case ComponentBoth:
		if entry.Class && entry.Online {
			delete(s.assignments, key)
			return result, nil
		}
		result.Displaced = append(result.Displaced, s.displace(key, ComponentClass)...)
		result.Displaced = append(result.Displaced, s.displace(key, ComponentOnline)...)
		entry = AssignmentEntry{Class: true, Online: true}
	case ComponentClass:
		entry.Class = !entry.Class
		if entry.Class {
			result.Displaced = s.displace(key, ComponentClass)
		}
	case ComponentOnline:
		entry.Online = !entry.Online
		if entry.Online {
			result.Displaced = s.displace(key, ComponentOnline)
		}
	}

	if entry.Empty() {
		delete(s.assignments, key)
		return result, nil
	}
	s.assignments[key] = entry
	result.Entry = &entry
	return result, nil
}

// displace clears the given component from any other instructor holding it on
// the same offering, removing entries that end up empty. Returns the ids of
// instructors whose claim was cleared.
func (s *Schedule) displace(key AssignmentKey, comp Component) []string {
	var displaced []string
	for other, entry := range s.assignments {
		if other.InstructorID == key.InstructorID {
			continue
		}
		if other.CourseID != key.CourseID || other.Section != key.Section || other.Semester != key.Semester {
			continue
		}
		changed := false
		if comp == ComponentClass && entry.Class {
			entry.Class = false
			changed = true
		}
		if comp == ComponentOnline && entry.Online {
			entry.Online = false
			changed = true
		}
		if !changed {
			continue
		}
		displaced = append(displaced, other.InstructorID)
		if entry.Empty() {
			delete(s.assignments, other)
		} else {
			s.assignments[other] = entry
		}
	}
	return displaced
}

// IsAssigned reports whether the instructor covers the component on the given
// offering. ComponentBoth requires both flags.
func (s *Schedule) IsAssigned(instructorID, courseID, section string, sem Semester, comp Component) bool {
	entry, ok := s.assignments[AssignmentKey{InstructorID: instructorID, CourseID: courseID, Section: section, Semester: sem}]
	if !ok {
		return false
	}
	switch comp {
	case ComponentClass:
		return entry.Class
	case ComponentOnline:
		return entry.Online
	case ComponentBoth:
		return entry.Class && entry.Online
	}
	return false
}

// AssignmentsForInstructor returns the instructor's entries, optionally
// restricted to the given semesters. Results are in deterministic key order.
func (s *Schedule) AssignmentsForInstructor(instructorID string, semesters ...Semester) []Assignment {
	filter := semesterFilter(semesters)
	var out []Assignment
	for key, entry := range s.assignments {
		if key.InstructorID != instructorID {
			continue
		}
		if filter != nil && !filter[key.Semester] {
			continue
		}
		out = append(out, Assignment{AssignmentKey: key, AssignmentEntry: entry})
	}
	sortAssignments(out)
	return out
}

// AssignmentsForCourse returns every instructor's entries on the course,
// optionally restricted to the given semesters.
func (s *Schedule) AssignmentsForCourse(courseID string, semesters ...Semester) []Assignment {
	filter := semesterFilter(semesters)
	var out []Assignment
	for key, entry := range s.assignments {
		if key.CourseID != courseID {
			continue
		}
		if filter != nil && !filter[key.Semester] {
			continue
		}
		out = append(out, Assignment{AssignmentKey: key, AssignmentEntry: entry})
	}
	sortAssignments(out)
	return out
}

// AssignmentsForOffering returns every entry on one (course, section,
// semester) offering. Used by the optimistic-rollback machinery.
func (s *Schedule) AssignmentsForOffering(courseID, section string, sem Semester) []Assignment {
	var out []Assignment
	for key, entry := range s.assignments {
		if key.CourseID != courseID || key.Section != section || key.Semester != sem {
			continue
		}
		out = append(out, Assignment{AssignmentKey: key, AssignmentEntry: entry})
	}
	sortAssignments(out)
	return out
}

// ReplaceOffering swaps every entry on one offering for the supplied set,
// restoring a pre-command snapshot after a failed persistence call. Empty
// entries are ignored.
func (s *Schedule) ReplaceOffering(courseID, section string, sem Semester, entries []Assignment) {
	for key := range s.assignments {
		if key.CourseID == courseID && key.Section == section && key.Semester == sem {
			delete(s.assignments, key)
		}
	}
	for _, a := range entries {
		if a.Empty() {
			continue
		}
		if a.CourseID != courseID || a.Section != section || a.Semester != sem {
			continue
		}
		s.assignments[a.AssignmentKey] = a.AssignmentEntry
	}
}

// ClearAssignments empties the assignment store. Idempotent.
func (s *Schedule) ClearAssignments() error {
	if !s.Editable() {
		return lockedError(s.status)
	}
	s.assignments = make(map[AssignmentKey]AssignmentEntry)
	return nil
}

// AssignmentCount returns the number of live entries.
func (s *Schedule) AssignmentCount() int {
	return len(s.assignments)
}

func (s *Schedule) purgeAssignments(match func(AssignmentKey) bool) []Assignment {
	var removed []Assignment
	for key, entry := range s.assignments {
		if match(key) {
			removed = append(removed, Assignment{AssignmentKey: key, AssignmentEntry: entry})
			delete(s.assignments, key)
		}
	}
	sortAssignments(removed)
	return removed
}

func semesterFilter(semesters []Semester) map[Semester]bool {
	if len(semesters) == 0 {
		return nil
	}
	filter := make(map[Semester]bool, len(semesters))
	for _, sem := range semesters {
		filter[sem] = true
	}
	return filter
}
