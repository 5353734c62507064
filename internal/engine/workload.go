package engine

// Workload derivations. All of these recompute from the current roster and
// assignment store on every call; there is no incremental cache to drift.

// WeeklyHours sums the instructor's per-week contact hours for the semester:
// the class-hours share for each held class flag plus the online-hours share
// for each held online flag. Courses that can no longer be resolved
// contribute zero.
func (s *Schedule) WeeklyHours(instructorID string, sem Semester) float64 {
	total := 0.0
	for key, entry := range s.assignments {
		if key.InstructorID != instructorID || key.Semester != sem {
			continue
		}
		course := s.findCourse(key.CourseID, sem)
		if course == nil {
			continue
		}
		if entry.Class {
			total += course.ClassHoursPerWeek
		}
		if entry.Online {
			total += course.OnlineHoursPerWeek
		}
	}
	return total
}

// SemesterHours projects the weekly load over the semester length.
func (s *Schedule) SemesterHours(instructorID string, sem Semester) float64 {
	return s.WeeklyHours(instructorID, sem) * float64(s.cfg.WeeksPerSemester)
}

// AnnualHours is the instructor's baseline plus every semester's projected
// hours, including semesters whose view toggle is off.
func (s *Schedule) AnnualHours(instructorID string) float64 {
	inst := s.findInstructor(instructorID)
	if inst == nil {
		return 0
	}
	total := inst.BaselineHours
	for _, sem := range Semesters() {
		total += s.SemesterHours(instructorID, sem)
	}
	return total
}

// UtilizationRatio relates annual hours to the instructor's annual cap.
func (s *Schedule) UtilizationRatio(instructorID string) float64 {
	inst := s.findInstructor(instructorID)
	if inst == nil || inst.AnnualHourCap <= 0 {
		return 0
	}
	return s.AnnualHours(instructorID) / inst.AnnualHourCap
}

// UtilizationBandFor buckets the ratio: Under below the low threshold, Over
// from there to the cap, OverMax at or past the cap. The low boundary is
// inclusive on the Over side.
func (s *Schedule) UtilizationBandFor(instructorID string) UtilizationBand {
	ratio := s.UtilizationRatio(instructorID)
	switch {
	case ratio >= 1.0:
		return BandOverMax
	case ratio >= s.cfg.UnderUtilizedBelow:
		return BandOver
	}
	return BandUnder
}

// IsNearCap reports whether annual hours have reached the near-cap share of
// the instructor's annual cap, the trigger for default list hiding.
func (s *Schedule) IsNearCap(instructorID string) bool {
	inst := s.findInstructor(instructorID)
	if inst == nil || inst.AnnualHourCap <= 0 {
		return false
	}
	return s.AnnualHours(instructorID) >= s.cfg.NearCapFactor*inst.AnnualHourCap
}

// CourseCompletion classifies the course's staffing for the semester.
// A section counts as fully assigned only when both the class and the online
// flag are held, even when the course carries zero online hours; the source
// screens check both flags unconditionally.
func (s *Schedule) CourseCompletion(courseID string, sem Semester) CompletionState {
	course := s.findCourse(courseID, sem)
	if course == nil || len(course.Sections) == 0 {
		return CompletionUnassigned
	}

	anyFlag := false
	allFull := true
	for _, section := range course.Sections {
		classHeld, onlineHeld := false, false
		for key, entry := range s.assignments {
			if key.CourseID != courseID || key.Semester != sem || key.Section != section {
				continue
			}
			if entry.Class {
				classHeld = true
			}
			if entry.Online {
				onlineHeld = true
			}
		}
		if classHeld || onlineHeld {
			anyFlag = true
		}
		if !classHeld || !onlineHeld {
			allFull = false
		}
	}

	switch {
	case allFull:
		return CompletionComplete
	case anyFlag:
		return CompletionPartial
	}
	return CompletionUnassigned
}
