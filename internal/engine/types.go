package engine

// Semester identifies one of the three teaching terms in an academic year.
type Semester string

const (
	SemesterWinter       Semester = "WINTER"
	SemesterSpringSummer Semester = "SPRING_SUMMER"
	SemesterFall         Semester = "FALL"
)

// Semesters returns the canonical semester ordering used for iteration.
func Semesters() []Semester {
	return []Semester{SemesterWinter, SemesterSpringSummer, SemesterFall}
}

// Valid reports whether s is a known semester identifier.
func (s Semester) Valid() bool {
	switch s {
	case SemesterWinter, SemesterSpringSummer, SemesterFall:
		return true
	}
	return false
}

// Component selects which delivery portion of a section a toggle targets.
type Component string

const (
	ComponentClass  Component = "CLASS"
	ComponentOnline Component = "ONLINE"
	ComponentBoth   Component = "BOTH"
)

// Valid reports whether c is a known component selector.
func (c Component) Valid() bool {
	switch c {
	case ComponentClass, ComponentOnline, ComponentBoth:
		return true
	}
	return false
}

// ContractType categorises an instructor's employment terms.
type ContractType string

const (
	ContractCasual   ContractType = "CASUAL"
	ContractSalaried ContractType = "SALARIED"
)

// UtilizationBand classifies an instructor's annual load against their cap.
type UtilizationBand string

const (
	BandUnder   UtilizationBand = "UNDER"
	BandOver    UtilizationBand = "OVER"
	BandOverMax UtilizationBand = "OVER_MAX"
)

// CompletionState classifies how fully a course's sections are staffed.
type CompletionState string

const (
	CompletionUnassigned CompletionState = "UNASSIGNED"
	CompletionPartial    CompletionState = "PARTIAL"
	CompletionComplete   CompletionState = "COMPLETE"
)

// SortMode selects the ordering of the instructor view.
type SortMode string

const (
	SortAlphabetical         SortMode = "ALPHABETICAL"
	SortCurrentSemesterHours SortMode = "CURRENT_SEMESTER_HOURS"
	SortTotalHours           SortMode = "TOTAL_HOURS"
)

// SubmissionStatus tracks the approval lifecycle of a schedule draft.
type SubmissionStatus string

const (
	StatusNotSubmitted SubmissionStatus = "NOT_SUBMITTED"
	StatusSubmitted    SubmissionStatus = "SUBMITTED"
	StatusApproved     SubmissionStatus = "APPROVED"
	StatusRejected     SubmissionStatus = "REJECTED"
	StatusRecalled     SubmissionStatus = "RECALLED"
)

// Instructor is the cached snapshot of the reference-data fields the
// workload math needs. The full profile is owned externally.
type Instructor struct {
	ID            string       `json:"id"`
	FullName      string       `json:"full_name"`
	ContractType  ContractType `json:"contract_type"`
	AnnualHourCap float64      `json:"annual_hour_cap"`
	BaselineHours float64      `json:"baseline_hours"`
}

// Course is a course scheduled into one semester of a draft, together with
// the section letters currently open for it.
type Course struct {
	CourseID           string   `json:"course_id"`
	Code               string   `json:"code"`
	Title              string   `json:"title"`
	ClassHoursPerWeek  float64  `json:"class_hours_per_week"`
	OnlineHoursPerWeek float64  `json:"online_hours_per_week"`
	Sections           []string `json:"sections"`
}

// HasSection reports whether the given letter is currently open.
func (c Course) HasSection(letter string) bool {
	for _, s := range c.Sections {
		if s == letter {
			return true
		}
	}
	return false
}

// AssignmentKey uniquely identifies one instructor's claim on a section
// offering.
type AssignmentKey struct {
	InstructorID string   `json:"instructor_id"`
	CourseID     string   `json:"course_id"`
	Section      string   `json:"section"`
	Semester     Semester `json:"semester"`
}

// AssignmentEntry records which delivery components the key's instructor
// covers. An entry only exists while at least one flag is set.
type AssignmentEntry struct {
	Class  bool `json:"class"`
	Online bool `json:"online"`
}

// Empty reports whether both component flags are cleared.
func (e AssignmentEntry) Empty() bool {
	return !e.Class && !e.Online
}

// Assignment pairs a key with its entry for query results and snapshots.
type Assignment struct {
	AssignmentKey
	AssignmentEntry
}

// Config carries the domain constants the engine computes with. Zero values
// are replaced with the source system's hard-coded defaults.
type Config struct {
	WeeksPerSemester   int
	SectionAlphabet    string
	CasualAnnualCap    float64
	SalariedAnnualCap  float64
	UnderUtilizedBelow float64
	NearCapFactor      float64
}

// DefaultConfig mirrors the constants baked into the source screens.
func DefaultConfig() Config {
	return Config{
		WeeksPerSemester:   15,
		SectionAlphabet:    "ABCDEF",
		CasualAnnualCap:    800,
		SalariedAnnualCap:  615,
		UnderUtilizedBelow: 0.6,
		NearCapFactor:      0.9,
	}
}

func (c Config) normalized() Config {
	def := DefaultConfig()
	if c.WeeksPerSemester <= 0 {
		c.WeeksPerSemester = def.WeeksPerSemester
	}
	if c.SectionAlphabet == "" {
		c.SectionAlphabet = def.SectionAlphabet
	}
	if c.CasualAnnualCap <= 0 {
		c.CasualAnnualCap = def.CasualAnnualCap
	}
	if c.SalariedAnnualCap <= 0 {
		c.SalariedAnnualCap = def.SalariedAnnualCap
	}
	if c.UnderUtilizedBelow <= 0 {
		c.UnderUtilizedBelow = def.UnderUtilizedBelow
	}
	if c.NearCapFactor <= 0 {
		c.NearCapFactor = def.NearCapFactor
	}
	return c
}

// AnnualCapFor derives the yearly hour cap from the contract type.
func (c Config) AnnualCapFor(contract ContractType) float64 {
	if contract == ContractCasual {
		return c.CasualAnnualCap
	}
	return c.SalariedAnnualCap
}

// SectionLetter returns the letter at the given zero-based index of the
// alphabet, or "" when the index is out of range.
func (c Config) SectionLetter(index int) string {
	if index < 0 || index >= len(c.SectionAlphabet) {
		return ""
	}
	return string(c.SectionAlphabet[index])
}

// InAlphabet reports whether the letter is part of the configured alphabet.
func (c Config) InAlphabet(letter string) bool {
	if len(letter) != 1 {
		return false
	}
	for i := 0; i < len(c.SectionAlphabet); i++ {
		if string(c.SectionAlphabet[i]) == letter {
			return true
		}
	}
	return false
}
