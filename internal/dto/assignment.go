package dto

// ToggleAssignmentRequest flips one component of one offering for an
// instructor. BOTH toggles the fully-assigned state in a single call.
type ToggleAssignmentRequest struct {
	InstructorID string `json:"instructorId" validate:"required"`
	CourseID     string `json:"courseId" validate:"required"`
	Section      string `json:"section" validate:"required,len=1"`
	Semester     string `json:"semester" validate:"required,oneof=WINTER SPRING_SUMMER FALL"`
	Component    string `json:"component" validate:"required,oneof=CLASS ONLINE BOTH"`
}

// AssignmentView is one stored assignment entry in API responses.
type AssignmentView struct {
	InstructorID string `json:"instructor_id"`
	CourseID     string `json:"course_id"`
	Section      string `json:"section"`
	Semester     string `json:"semester"`
	ClassTaken   bool   `json:"class_taken"`
	OnlineTaken  bool   `json:"online_taken"`
}

// ToggleAssignmentResponse reports the toggle outcome. Entry is nil when the
// toggle removed the caller's assignment; Displaced lists instructors whose
// holdings the toggle took over.
type ToggleAssignmentResponse struct {
	Entry     *AssignmentView `json:"entry,omitempty"`
	Displaced []string        `json:"displaced"`
}

// AssignmentListQuery filters stored assignments.
type AssignmentListQuery struct {
	InstructorID string `form:"instructor_id"`
	CourseID     string `form:"course_id"`
	Semester     string `form:"semester" validate:"omitempty,oneof=WINTER SPRING_SUMMER FALL"`
}
