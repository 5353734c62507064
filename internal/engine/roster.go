package engine

import (
	"fmt"
	"sort"

	appErrors "github.com/noah-isme/acs-schedule-api/pkg/errors"
)

// AddInstructor appends an instructor snapshot to the roster. The annual cap
// is derived from the contract type when the snapshot does not carry one.
func (s *Schedule) AddInstructor(inst Instructor) error {
	if !s.Editable() {
		return lockedError(s.status)
	}
	if inst.ID == "" {
		return appErrors.Clone(appErrors.ErrValidation, "instructor id is required")
	}
	if s.findInstructor(inst.ID) != nil {
		return appErrors.Clone(appErrors.ErrConflict, fmt.Sprintf("instructor %s is already on the roster", inst.ID))
	}
	if inst.AnnualHourCap <= 0 {
		inst.AnnualHourCap = s.cfg.AnnualCapFor(inst.ContractType)
	}
	if inst.BaselineHours < 0 {
		inst.BaselineHours = 0
	}
	s.instructors = append(s.instructors, inst)
	return nil
}

// RemoveInstructor drops the instructor from the roster and cascades: every
// assignment keyed by the instructor is deleted across all courses and
// semesters. Returns the removed entries so a failed persistence call can be
// rolled back.
func (s *Schedule) RemoveInstructor(instructorID string) ([]Assignment, error) {
	if !s.Editable() {
		return nil, lockedError(s.status)
	}
	idx := -1
	for i := range s.instructors {
		if s.instructors[i].ID == instructorID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, appErrors.Clone(appErrors.ErrUnknownReference, fmt.Sprintf("instructor %s is not on the roster", instructorID))
	}
	s.instructors = append(s.instructors[:idx], s.instructors[idx+1:]...)
	removed := s.purgeAssignments(func(key AssignmentKey) bool {
		return key.InstructorID == instructorID
	})
	return removed, nil
}

// AddCourse schedules a course into a semester. Section letters outside the
// configured alphabet are rejected.
func (s *Schedule) AddCourse(sem Semester, course Course) error {
	if !s.Editable() {
		return lockedError(s.status)
	}
	if !sem.Valid() {
		return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown semester %q", sem))
	}
	if course.CourseID == "" {
		return appErrors.Clone(appErrors.ErrValidation, "course id is required")
	}
	if course.ClassHoursPerWeek < 0 || course.OnlineHoursPerWeek < 0 {
		return appErrors.Clone(appErrors.ErrValidation, "weekly hours must not be negative")
	}
	if s.findCourse(course.CourseID, sem) != nil {
		return appErrors.Clone(appErrors.ErrConflict, fmt.Sprintf("course %s is already scheduled in %s", course.CourseID, sem))
	}
	for _, letter := range course.Sections {
		if !s.cfg.InAlphabet(letter) {
			return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("section letter %q is outside the alphabet %q", letter, s.cfg.SectionAlphabet))
		}
	}
	c := copyCourse(course)
	sort.Strings(c.Sections)
	s.courses[sem] = append(s.courses[sem], &c)
	return nil
}

// RemoveCourse drops the course from the semester and cascades over that
// semester's assignments only. Returns the removed entries.
func (s *Schedule) RemoveCourse(sem Semester, courseID string) ([]Assignment, error) {
	if !s.Editable() {
		return nil, lockedError(s.status)
	}
	list := s.courses[sem]
	idx := -1
	for i, c := range list {
		if c.CourseID == courseID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, appErrors.Clone(appErrors.ErrUnknownReference, fmt.Sprintf("course %s is not scheduled in %s", courseID, sem))
	}
	s.courses[sem] = append(list[:idx], list[idx+1:]...)
	removed := s.purgeAssignments(func(key AssignmentKey) bool {
		return key.CourseID == courseID && key.Semester == sem
	})
	return removed, nil
}

// SetSectionCount resizes the course's sections to a contiguous prefix of the
// alphabet. Shrinking cascades over assignments keyed to dropped letters.
// Growing past the alphabet fails with SectionAlphabetExhausted.
func (s *Schedule) SetSectionCount(courseID string, sem Semester, count int) ([]Assignment, error) {
	if !s.Editable() {
		return nil, lockedError(s.status)
	}
	course := s.findCourse(courseID, sem)
	if course == nil {
		return nil, appErrors.Clone(appErrors.ErrUnknownReference, fmt.Sprintf("course %s is not scheduled in %s", courseID, sem))
	}
	if count < 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "section count must not be negative")
	}
	if count > len(s.cfg.SectionAlphabet) {
		return nil, appErrors.Clone(appErrors.ErrSectionAlphabetExhausted, fmt.Sprintf("section count %d exceeds the %d-letter alphabet", count, len(s.cfg.SectionAlphabet)))
	}

	keep := make(map[string]bool, count)
	sections := make([]string, 0, count)
	for i := 0; i < count; i++ {
		letter := s.cfg.SectionLetter(i)
		keep[letter] = true
		sections = append(sections, letter)
	}
	course.Sections = sections

	removed := s.purgeAssignments(func(key AssignmentKey) bool {
		return key.CourseID == courseID && key.Semester == sem && !keep[key.Section]
	})
	return removed, nil
}

// ToggleSectionLetter opens or closes a single section letter. Unlike
// SetSectionCount there is no contiguity constraint. Closing a section
// cascades over its assignments; the removed entries are returned.
func (s *Schedule) ToggleSectionLetter(courseID string, sem Semester, letter string) (open bool, removed []Assignment, err error) {
	if !s.Editable() {
		return false, nil, lockedError(s.status)
	}
	course := s.findCourse(courseID, sem)
	if course == nil {
		return false, nil, appErrors.Clone(appErrors.ErrUnknownReference, fmt.Sprintf("course %s is not scheduled in %s", courseID, sem))
	}
	if !s.cfg.InAlphabet(letter) {
		return false, nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("section letter %q is outside the alphabet %q", letter, s.cfg.SectionAlphabet))
	}

	if course.HasSection(letter) {
		kept := course.Sections[:0]
		for _, sec := range course.Sections {
			if sec != letter {
				kept = append(kept, sec)
			}
		}
		course.Sections = kept
		removed = s.purgeAssignments(func(key AssignmentKey) bool {
			return key.CourseID == courseID && key.Semester == sem && key.Section == letter
		})
		return false, removed, nil
	}

	course.Sections = append(course.Sections, letter)
	sort.Strings(course.Sections)
	return true, nil, nil
}

// RestoreAssignments reinserts previously purged entries, rolling back a
// cascade after a failed persistence call. RestoreRoster-style helpers are
// not needed; the caller re-adds the roster member first.
func (s *Schedule) RestoreAssignments(entries []Assignment) {
	for _, a := range entries {
		if a.Empty() {
			continue
		}
		s.assignments[a.AssignmentKey] = a.AssignmentEntry
	}
}
