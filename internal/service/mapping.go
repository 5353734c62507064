package service

import (
	"github.com/lib/pq"

	"github.com/noah-isme/acs-schedule-api/internal/dto"
	"github.com/noah-isme/acs-schedule-api/internal/engine"
	"github.com/noah-isme/acs-schedule-api/internal/models"
)

// Conversions between persisted rows, engine state and API views.

func snapshotFromRows(draft *models.ScheduleDraft, instructors []models.ScheduleInstructor, courses []models.ScheduleCourse, rows []models.SectionAssignment) engine.Snapshot {
	snap := engine.Snapshot{
		ID:     draft.ID,
		Year:   draft.Year,
		Status: engine.SubmissionStatus(draft.Status),
	}
	for _, sem := range draft.ActiveSemesters {
		snap.ActiveSemesters = append(snap.ActiveSemesters, sem)
	}
	for _, inst := range instructors {
		snap.Instructors = append(snap.Instructors, engine.Instructor{
			ID:            inst.InstructorID,
			FullName:      inst.FullName,
			ContractType:  engine.ContractType(inst.ContractType),
			AnnualHourCap: inst.AnnualHourCap,
			BaselineHours: inst.BaselineHours,
		})
	}
	if len(courses) > 0 {
		snap.Courses = make(map[engine.Semester][]engine.Course)
	}
	for _, c := range courses {
		sem := engine.Semester(c.Semester)
		snap.Courses[sem] = append(snap.Courses[sem], engine.Course{
			CourseID:           c.CourseID,
			Code:               c.Code,
			Title:              c.Title,
			ClassHoursPerWeek:  c.ClassHoursPerWeek,
			OnlineHoursPerWeek: c.OnlineHoursPerWeek,
			Sections:           append([]string(nil), c.Sections...),
		})
	}
	for _, row := range rows {
		snap.Assignments = append(snap.Assignments, engine.Assignment{
			AssignmentKey: engine.AssignmentKey{
				InstructorID: row.InstructorID,
				CourseID:     row.CourseID,
				Section:      row.Section,
				Semester:     engine.Semester(row.Semester),
			},
			AssignmentEntry: engine.AssignmentEntry{
				Class:  row.ClassTaken,
				Online: row.OnlineTaken,
			},
		})
	}
	return snap
}

func instructorRow(scheduleID string, inst engine.Instructor) models.ScheduleInstructor {
	return models.ScheduleInstructor{
		ScheduleID:    scheduleID,
		InstructorID:  inst.ID,
		FullName:      inst.FullName,
		ContractType:  string(inst.ContractType),
		AnnualHourCap: inst.AnnualHourCap,
		BaselineHours: inst.BaselineHours,
	}
}

func courseRow(scheduleID string, sem engine.Semester, course engine.Course) models.ScheduleCourse {
	return models.ScheduleCourse{
		ScheduleID:         scheduleID,
		Semester:           string(sem),
		CourseID:           course.CourseID,
		Code:               course.Code,
		Title:              course.Title,
		ClassHoursPerWeek:  course.ClassHoursPerWeek,
		OnlineHoursPerWeek: course.OnlineHoursPerWeek,
		Sections:           pq.StringArray(append([]string(nil), course.Sections...)),
	}
}

func assignmentRows(scheduleID string, list []engine.Assignment) []models.SectionAssignment {
	rows := make([]models.SectionAssignment, 0, len(list))
	for _, a := range list {
		rows = append(rows, models.SectionAssignment{
			ScheduleID:   scheduleID,
			InstructorID: a.InstructorID,
			CourseID:     a.CourseID,
			Section:      a.Section,
			Semester:     string(a.Semester),
			ClassTaken:   a.Class,
			OnlineTaken:  a.Online,
		})
	}
	return rows
}

func assignmentView(a engine.Assignment) dto.AssignmentView {
	return dto.AssignmentView{
		InstructorID: a.InstructorID,
		CourseID:     a.CourseID,
		Section:      a.Section,
		Semester:     string(a.Semester),
		ClassTaken:   a.Class,
		OnlineTaken:  a.Online,
	}
}

func assignmentViews(list []engine.Assignment) []dto.AssignmentView {
	views := make([]dto.AssignmentView, 0, len(list))
	for _, a := range list {
		views = append(views, assignmentView(a))
	}
	return views
}

func instructorView(inst engine.Instructor) dto.InstructorView {
	return dto.InstructorView{
		ID:            inst.ID,
		FullName:      inst.FullName,
		ContractType:  string(inst.ContractType),
		AnnualHourCap: inst.AnnualHourCap,
		BaselineHours: inst.BaselineHours,
	}
}

func courseView(sem engine.Semester, course engine.Course) dto.CourseView {
	return dto.CourseView{
		CourseID:           course.CourseID,
		Code:               course.Code,
		Title:              course.Title,
		Semester:           string(sem),
		ClassHoursPerWeek:  course.ClassHoursPerWeek,
		OnlineHoursPerWeek: course.OnlineHoursPerWeek,
		Sections:           course.Sections,
	}
}

func semesterStrings(list []engine.Semester) []string {
	out := make([]string, 0, len(list))
	for _, sem := range list {
		out = append(out, string(sem))
	}
	return out
}

func offeringKey(courseID, section string, sem engine.Semester) string {
	return courseID + "|" + section + "|" + string(sem)
}
