package model

// Assignment is a committed placement of one subject for one section.
type Assignment struct {
	SectionID   string     `csv:"section_id" db:"section_id" json:"sectionId"`
	Program     string     `csv:"program" db:"program" json:"program"`
	YearLevel   string     `csv:"year_level" db:"year_level" json:"yearLevel"`
	Trimester   string     `csv:"trimester" db:"trimester" json:"trimester"`
	Group       string     `csv:"group" db:"group_name" json:"group"`
	Section     string     `csv:"section" db:"section" json:"section"`
	CourseCode  string     `csv:"course_code" db:"course_code" json:"courseCode"`
	Description string     `csv:"description" db:"description" json:"description"`
	Kind        string     `csv:"type" db:"kind" json:"kind"`
	Units       int        `csv:"units" db:"units" json:"units"`
	DayPattern  DayPattern `csv:"days" db:"day_pattern" json:"days"`
	StartTime   string     `csv:"start_time" db:"start_time" json:"startTime"`
	EndTime     string     `csv:"end_time" db:"end_time" json:"endTime"`
	Slot        int        `csv:"slot" db:"slot" json:"slot"`
	RoomCode    string     `csv:"room" db:"room_code" json:"room"`
}

// NewAssignment clones the subject into a placement.
func NewAssignment(section Section, subject Subject, pattern DayPattern, slot TimeSlot, room string) Assignment {
	return Assignment{
		SectionID:   section.ID(),
		Program:     section.Program,
		YearLevel:   section.YearLevel,
		Trimester:   section.Trimester,
		Group:       section.Group,
		Section:     section.Name(),
		CourseCode:  subject.Code,
		Description: subject.Description,
		Kind:        subject.Kind.String(),
		Units:       subject.Units,
		DayPattern:  pattern,
		StartTime:   slot.Start.Format(ClockLayout),
		EndTime:     slot.End.Format(ClockLayout),
		Slot:        slot.Index,
		RoomCode:    room,
	}
}

// Subject rebuilds the scheduling input the assignment was cloned from.
func (a *Assignment) Subject() Subject {
	kind, _ := ParseKind(a.Kind, a.Description)
	return NewSubject(a.CourseCode, a.Description, kind, a.Units)
}

// Time renders the window as "07:30AM-08:50AM".
func (a *Assignment) Time() string {
	return a.StartTime + "-" + a.EndTime
}
