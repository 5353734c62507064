package dto

// InstructorWorkloadView reports the derived hour figures for one instructor.
type InstructorWorkloadView struct {
	InstructorID     string             `json:"instructor_id"`
	FullName         string             `json:"full_name"`
	ContractType     string             `json:"contract_type"`
	AnnualHourCap    float64            `json:"annual_hour_cap"`
	BaselineHours    float64            `json:"baseline_hours"`
	SemesterHours    map[string]float64 `json:"semester_hours"`
	AnnualHours      float64            `json:"annual_hours"`
	UtilizationRatio float64            `json:"utilization_ratio"`
	UtilizationBand  string             `json:"utilization_band"`
	NearCap          bool               `json:"near_cap"`
}

// CourseCompletionView reports staffing progress for one offering list.
type CourseCompletionView struct {
	CourseID   string `json:"course_id"`
	Code       string `json:"code"`
	Semester   string `json:"semester"`
	Completion string `json:"completion"`
}

// InstructorBoardQuery shapes the instructor side of the assignment board.
type InstructorBoardQuery struct {
	HideNearCap bool   `form:"hide_near_cap"`
	Sort        string `form:"sort" validate:"omitempty,oneof=ALPHABETICAL CURRENT_SEMESTER_HOURS TOTAL_HOURS"`
}

// CourseBoardQuery shapes the course side of the assignment board.
type CourseBoardQuery struct {
	Semester     string `form:"semester" validate:"required,oneof=WINTER SPRING_SUMMER FALL"`
	HideComplete bool   `form:"hide_complete"`
}

// WorkloadBoardResponse bundles both board sides for one draft.
type WorkloadBoardResponse struct {
	Instructors []InstructorWorkloadView `json:"instructors"`
	Courses     []CourseView             `json:"courses"`
	Completion  []CourseCompletionView   `json:"completion"`
}
