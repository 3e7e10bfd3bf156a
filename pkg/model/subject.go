package model

import (
	"fmt"
	"strings"
)

// SubjectKind tells the scheduler whether a subject joins a lecture/lab pair.
type SubjectKind int

const (
	PureLecture SubjectKind = iota
	Lecture
	Lab
)

func (k SubjectKind) String() string {
	switch k {
	case Lecture:
		return "Lecture"
	case Lab:
		return "Lab"
	default:
		return "Pure Lecture"
	}
}

// Paired reports whether subjects of this kind are grouped by pair key.
func (k SubjectKind) Paired() bool {
	return k == Lecture || k == Lab
}

// ParseKind maps the kind column of a subject record. An empty column falls
// back to the "(Lec)" / "(Lab)" marker in the description.
func ParseKind(kind string, description string) (SubjectKind, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "lecture", "lec":
		return Lecture, nil
	case "lab", "laboratory":
		return Lab, nil
	case "pure lecture", "pure lec", "purelecture":
		return PureLecture, nil
	case "":
		switch {
		case strings.Contains(description, "(Lab)"):
			return Lab, nil
		case strings.Contains(description, "(Lec)"):
			return Lecture, nil
		}
		return PureLecture, nil
	}
	return PureLecture, fmt.Errorf("unknown subject kind %q", kind)
}

// Subject is a read-only scheduling input. Placements never mutate it.
type Subject struct {
	Code        string
	Description string
	Kind        SubjectKind
	BaseCode    string
	PairKey     string
	Units       int
}

// NewSubject derives the base code and pair key from code and description.
func NewSubject(code string, description string, kind SubjectKind, units int) Subject {
	code = strings.TrimSpace(code)
	description = strings.TrimSpace(description)
	base := stripParenthetical(code)
	return Subject{
		Code:        code,
		Description: description,
		Kind:        kind,
		BaseCode:    base,
		PairKey:     base + "_" + stripParenthetical(description),
		Units:       units,
	}
}

// stripParenthetical cuts everything from the first "(" on.
func stripParenthetical(s string) string {
	if i := strings.Index(s, "("); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}

// SubjectRecord is one row of the subject offering table.
type SubjectRecord struct {
	Program     string `csv:"Program" validate:"required"`
	YearLevel   string `csv:"Year_Level" validate:"required"`
	Trimester   string `csv:"Trimester" validate:"required"`
	Code        string `csv:"Course_Code" validate:"required"`
	Description string `csv:"Description" validate:"required"`
	Kind        string `csv:"Type"`
	Units       int    `csv:"Units" validate:"gte=0"`
}

// Subject converts the record into a scheduling input.
func (r *SubjectRecord) Subject() (Subject, error) {
	kind, err := ParseKind(r.Kind, r.Description)
	if err != nil {
		return Subject{}, fmt.Errorf("subject %s: %w", r.Code, err)
	}
	return NewSubject(r.Code, r.Description, kind, r.Units), nil
}
