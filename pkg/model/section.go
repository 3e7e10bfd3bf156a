package model

import (
	"fmt"
	"strings"
)

// SectionLetters is the supply of section symbols per bucket.
const SectionLetters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// Bucket is the (program, year level, group) partition of one trimester.
type Bucket struct {
	Program   string
	YearLevel string
	Trimester string
	Group     string
}

func (b Bucket) String() string {
	return fmt.Sprintf("%s %s year, %s trimester, group %s", b.Program, b.YearLevel, b.Trimester, b.Group)
}

// Section is a generated grouping key for assignments.
type Section struct {
	Program   string
	YearLevel string
	Trimester string
	Group     string
	Letter    string
}

// NewSections generates count sections lettered from A.
func NewSections(b Bucket, count int) ([]Section, error) {
	if count < 1 || count > len(SectionLetters) {
		return nil, fmt.Errorf("section count %d outside 1..%d", count, len(SectionLetters))
	}
	sections := make([]Section, count)
	for i := range sections {
		sections[i] = Section{
			Program:   b.Program,
			YearLevel: b.YearLevel,
			Trimester: b.Trimester,
			Group:     b.Group,
			Letter:    SectionLetters[i : i+1],
		}
	}
	return sections, nil
}

// Name is the printed section name, e.g. "1A".
func (s Section) Name() string {
	return YearPrefix(s.YearLevel) + s.Letter
}

// ID identifies the section across the whole run.
func (s Section) ID() string {
	return fmt.Sprintf("%s %s (Group %s)", s.Program, s.Name(), s.Group)
}

// YearPrefix maps "First"/"First Year"/"1st Year" to "1".
func YearPrefix(year string) string {
	y := strings.ToLower(strings.TrimSpace(year))
	switch {
	case strings.HasPrefix(y, "first"):
		return "1"
	case strings.HasPrefix(y, "second"):
		return "2"
	case strings.HasPrefix(y, "third"):
		return "3"
	case strings.HasPrefix(y, "fourth"):
		return "4"
	case strings.HasPrefix(y, "fifth"):
		return "5"
	case y == "":
		return "?"
	}
	return string([]rune(y)[:1])
}

// SectionCountRecord overrides the number of sections of a program and year.
type SectionCountRecord struct {
	Program   string `csv:"Program" validate:"required"`
	YearLevel string `csv:"Year_Level" validate:"required"`
	Sections  int    `csv:"Sections" validate:"min=1,max=26"`
}
