package engine

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// View projections. These read the aggregator and roster only; they never
// mutate state.

// VisibleCourses returns the semester's courses in roster order, dropping
// fully staffed ones when hideComplete is set.
func (s *Schedule) VisibleCourses(sem Semester, hideComplete bool) []Course {
	var out []Course
	for _, c := range s.courses[sem] {
		if hideComplete && s.CourseCompletion(c.CourseID, sem) == CompletionComplete {
			continue
		}
		out = append(out, copyCourse(*c))
	}
	return out
}

// VisibleInstructors returns the roster filtered and ordered for display.
// hideNearCap drops instructors at or past the near-cap share of their cap.
// CurrentSemesterHours sorts by the single active semester's hours and falls
// back to annual hours when zero or several semesters are active.
func (s *Schedule) VisibleInstructors(hideNearCap bool, mode SortMode) []Instructor {
	var out []Instructor
	for _, inst := range s.instructors {
		if hideNearCap && s.IsNearCap(inst.ID) {
			continue
		}
		out = append(out, inst)
	}

	switch mode {
	case SortAlphabetical:
		coll := collate.New(language.English, collate.IgnoreCase)
		sort.SliceStable(out, func(i, j int) bool {
			return coll.CompareString(out[i].FullName, out[j].FullName) < 0
		})
	case SortCurrentSemesterHours:
		active := s.ActiveSemesterList()
		if len(active) == 1 {
			sem := active[0]
			sort.SliceStable(out, func(i, j int) bool {
				return s.SemesterHours(out[i].ID, sem) < s.SemesterHours(out[j].ID, sem)
			})
			break
		}
		sort.SliceStable(out, func(i, j int) bool {
			return s.AnnualHours(out[i].ID) < s.AnnualHours(out[j].ID)
		})
	case SortTotalHours:
		sort.SliceStable(out, func(i, j int) bool {
			return s.AnnualHours(out[i].ID) < s.AnnualHours(out[j].ID)
		})
	}
	return out
}
