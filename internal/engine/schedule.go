package engine

import (
	"sort"
)

// Schedule is the root aggregate for one academic year's draft: the roster,
// the assignment store, and the submission status. It is plain single-threaded
// data; callers that share an instance must serialise access themselves.
type Schedule struct {
	id              string
	year            int
	status          SubmissionStatus
	activeSemesters map[Semester]bool
	cfg             Config

	instructors []Instructor
	courses     map[Semester][]*Course
	assignments map[AssignmentKey]AssignmentEntry
}

// NewSchedule creates an empty draft for the given year. All semesters start
// active and the status starts at NotSubmitted.
func NewSchedule(id string, year int, cfg Config) *Schedule {
	s := &Schedule{
		id:     id,
		year:   year,
		status: StatusNotSubmitted,
		cfg:    cfg.normalized(),
		activeSemesters: map[Semester]bool{
			SemesterWinter:       true,
			SemesterSpringSummer: true,
			SemesterFall:         true,
		},
		courses:     make(map[Semester][]*Course),
		assignments: make(map[AssignmentKey]AssignmentEntry),
	}
	return s
}

// ID returns the schedule identifier.
func (s *Schedule) ID() string { return s.id }

// Year returns the calendar year the draft covers.
func (s *Schedule) Year() int { return s.year }

// Status returns the current submission status.
func (s *Schedule) Status() SubmissionStatus { return s.status }

// Config returns the domain constants the schedule computes with.
func (s *Schedule) Config() Config { return s.cfg }

// Editable reports whether roster and assignment mutations are allowed.
// Submitted and Approved drafts are locked.
func (s *Schedule) Editable() bool {
	return s.status != StatusSubmitted && s.status != StatusApproved
}

// ActiveSemesters returns a copy of the semester visibility flags. Hidden
// semesters keep their assignments; the flags only filter views.
func (s *Schedule) ActiveSemesters() map[Semester]bool {
	out := make(map[Semester]bool, len(s.activeSemesters))
	for sem, on := range s.activeSemesters {
		out[sem] = on
	}
	return out
}

// SetSemesterActive toggles a semester's visibility flag.
func (s *Schedule) SetSemesterActive(sem Semester, active bool) {
	if sem.Valid() {
		s.activeSemesters[sem] = active
	}
}

// ActiveSemesterList returns the active semesters in canonical order.
func (s *Schedule) ActiveSemesterList() []Semester {
	var out []Semester
	for _, sem := range Semesters() {
		if s.activeSemesters[sem] {
			out = append(out, sem)
		}
	}
	return out
}

// Instructors returns the roster in add order.
func (s *Schedule) Instructors() []Instructor {
	out := make([]Instructor, len(s.instructors))
	copy(out, s.instructors)
	return out
}

// Courses returns the semester's scheduled courses in add order.
func (s *Schedule) Courses(sem Semester) []Course {
	list := s.courses[sem]
	out := make([]Course, 0, len(list))
	for _, c := range list {
		out = append(out, copyCourse(*c))
	}
	return out
}

// InstructorByID returns the cached roster snapshot for the id.
func (s *Schedule) InstructorByID(id string) (Instructor, bool) {
	for _, inst := range s.instructors {
		if inst.ID == id {
			return inst, true
		}
	}
	return Instructor{}, false
}

// CourseInSemester returns the scheduled course entry for the id.
func (s *Schedule) CourseInSemester(courseID string, sem Semester) (Course, bool) {
	if c := s.findCourse(courseID, sem); c != nil {
		return copyCourse(*c), true
	}
	return Course{}, false
}

// Clear empties the roster and the assignment store while preserving the
// year, the active-semester flags and the submission status. Idempotent.
func (s *Schedule) Clear() error {
	if !s.Editable() {
		return lockedError(s.status)
	}
	s.instructors = nil
	s.courses = make(map[Semester][]*Course)
	s.assignments = make(map[AssignmentKey]AssignmentEntry)
	return nil
}

// Snapshot is a full serialisable copy of schedule state, exchanged with the
// persistence layer on load and reconcile.
type Snapshot struct {
	ID              string                `json:"id"`
	Year            int                   `json:"year"`
	Status          SubmissionStatus      `json:"status"`
	ActiveSemesters []Semester            `json:"active_semesters"`
	Instructors     []Instructor          `json:"instructors"`
	Courses         map[Semester][]Course `json:"courses_by_semester"`
	Assignments     []Assignment          `json:"assignments"`
}

// Snapshot captures the current state.
func (s *Schedule) Snapshot() Snapshot {
	snap := Snapshot{
		ID:              s.id,
		Year:            s.year,
		Status:          s.status,
		ActiveSemesters: s.ActiveSemesterList(),
		Instructors:     s.Instructors(),
		Courses:         make(map[Semester][]Course, len(s.courses)),
	}
	for _, sem := range Semesters() {
		if list := s.Courses(sem); len(list) > 0 {
			snap.Courses[sem] = list
		}
	}
	snap.Assignments = s.allAssignments()
	return snap
}

// Reconcile replaces local state wholesale with a server snapshot. It is the
// refresh-after-conflict path and is deliberately not gated on Editable.
// Entries with no component flags are dropped.
func (s *Schedule) Reconcile(snap Snapshot) {
	if snap.ID != "" {
		s.id = snap.ID
	}
	if snap.Year != 0 {
		s.year = snap.Year
	}
	if snap.Status != "" {
		s.status = snap.Status
	}

	s.activeSemesters = map[Semester]bool{}
	for _, sem := range Semesters() {
		s.activeSemesters[sem] = false
	}
	for _, sem := range snap.ActiveSemesters {
		if sem.Valid() {
			s.activeSemesters[sem] = true
		}
	}

	s.instructors = make([]Instructor, 0, len(snap.Instructors))
	for _, inst := range snap.Instructors {
		if inst.AnnualHourCap <= 0 {
			inst.AnnualHourCap = s.cfg.AnnualCapFor(inst.ContractType)
		}
		s.instructors = append(s.instructors, inst)
	}

	s.courses = make(map[Semester][]*Course)
	for sem, list := range snap.Courses {
		if !sem.Valid() {
			continue
		}
		for _, c := range list {
			course := copyCourse(c)
			s.courses[sem] = append(s.courses[sem], &course)
		}
	}

	s.assignments = make(map[AssignmentKey]AssignmentEntry, len(snap.Assignments))
	for _, a := range snap.Assignments {
		if a.Empty() {
			continue
		}
		s.assignments[a.AssignmentKey] = a.AssignmentEntry
	}
}

// FromSnapshot builds a schedule directly from persisted state.
func FromSnapshot(cfg Config, snap Snapshot) *Schedule {
	s := NewSchedule(snap.ID, snap.Year, cfg)
	s.Reconcile(snap)
	return s
}

func (s *Schedule) findInstructor(id string) *Instructor {
	for i := range s.instructors {
		if s.instructors[i].ID == id {
			return &s.instructors[i]
		}
	}
	return nil
}

func (s *Schedule) findCourse(courseID string, sem Semester) *Course {
	for _, c := range s.courses[sem] {
		if c.CourseID == courseID {
			return c
		}
	}
	return nil
}

func (s *Schedule) allAssignments() []Assignment {
	out := make([]Assignment, 0, len(s.assignments))
	for key, entry := range s.assignments {
		out = append(out, Assignment{AssignmentKey: key, AssignmentEntry: entry})
	}
	sortAssignments(out)
	return out
}

func sortAssignments(list []Assignment) {
	sort.Slice(list, func(i, j int) bool {
		a, b := list[i], list[j]
		if a.Semester != b.Semester {
			return semesterIndex(a.Semester) < semesterIndex(b.Semester)
		}
		if a.CourseID != b.CourseID {
			return a.CourseID < b.CourseID
		}
		if a.Section != b.Section {
			return a.Section < b.Section
		}
		return a.InstructorID < b.InstructorID
	})
}

func semesterIndex(sem Semester) int {
	for i, s := range Semesters() {
		if s == sem {
			return i
		}
	}
	return len(Semesters())
}

func copyCourse(c Course) Course {
	sections := make([]string, len(c.Sections))
	copy(sections, c.Sections)
	c.Sections = sections
	return c
}
