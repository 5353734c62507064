package dto

// AddInstructorRequest places a catalog instructor onto the roster. Cap and
// baseline default from the catalog record and the contract type when omitted.
type AddInstructorRequest struct {
	InstructorID  string   `json:"instructorId" validate:"required"`
	AnnualHourCap *float64 `json:"annualHourCap" validate:"omitempty,gt=0"`
	BaselineHours *float64 `json:"baselineHours" validate:"omitempty,gte=0"`
}

// AddCourseRequest schedules a catalog course into a semester.
type AddCourseRequest struct {
	CourseID     string `json:"courseId" validate:"required"`
	Semester     string `json:"semester" validate:"required,oneof=WINTER SPRING_SUMMER FALL"`
	SectionCount int    `json:"sectionCount" validate:"omitempty,min=0"`
}

// SetSectionCountRequest resizes an offering to the first n section letters.
type SetSectionCountRequest struct {
	Semester string `json:"semester" validate:"required,oneof=WINTER SPRING_SUMMER FALL"`
	Count    int    `json:"count" validate:"min=0"`
}

// ToggleSectionRequest opens or closes one section letter.
type ToggleSectionRequest struct {
	Semester string `json:"semester" validate:"required,oneof=WINTER SPRING_SUMMER FALL"`
	Letter   string `json:"letter" validate:"required,len=1"`
}

// RosterMutationResponse reports a mutation plus any cascaded removals.
type RosterMutationResponse struct {
	RemovedAssignments []AssignmentView `json:"removed_assignments"`
}

// ToggleSectionResponse reports the section's new state plus cascades.
type ToggleSectionResponse struct {
	Open               bool             `json:"open"`
	Sections           []string         `json:"sections"`
	RemovedAssignments []AssignmentView `json:"removed_assignments"`
}

// InstructorView is one roster member in API responses.
type InstructorView struct {
	ID            string  `json:"id"`
	FullName      string  `json:"full_name"`
	ContractType  string  `json:"contract_type"`
	AnnualHourCap float64 `json:"annual_hour_cap"`
	BaselineHours float64 `json:"baseline_hours"`
}

// CourseView is one scheduled course in API responses.
type CourseView struct {
	CourseID           string   `json:"course_id"`
	Code               string   `json:"code"`
	Title              string   `json:"title"`
	Semester           string   `json:"semester"`
	ClassHoursPerWeek  float64  `json:"class_hours_per_week"`
	OnlineHoursPerWeek float64  `json:"online_hours_per_week"`
	Sections           []string `json:"sections"`
}
