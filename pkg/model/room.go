package model

import (
	"fmt"
	"strings"
)

// RoomCategory is a bit set of the eligibility classes a room belongs to.
type RoomCategory uint8

const (
	CategoryLecture RoomCategory = 1 << iota
	CategoryLab
	CategoryMajor
	CategoryAuditorium
	CategoryGym
	// CategoryNoSaturday marks rooms that cannot host Saturday meetings.
	CategoryNoSaturday
)

var categoryNames = []struct {
	flag RoomCategory
	name string
}{
	{CategoryLecture, "lecture"},
	{CategoryLab, "lab"},
	{CategoryMajor, "major"},
	{CategoryAuditorium, "auditorium"},
	{CategoryGym, "gym"},
	{CategoryNoSaturday, "no-saturday"},
}

// Has reports whether every flag of c2 is set.
func (c RoomCategory) Has(c2 RoomCategory) bool {
	return c&c2 == c2
}

func (c RoomCategory) String() string {
	var parts []string
	for _, n := range categoryNames {
		if c.Has(n.flag) {
			parts = append(parts, n.name)
		}
	}
	return strings.Join(parts, "|")
}

// ParseCategories reads a "|" or "," separated list such as "lab|major".
func ParseCategories(s string) (RoomCategory, error) {
	var c RoomCategory
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == '|' || r == ',' || r == ' ' })
	for _, f := range fields {
		f = strings.ToLower(strings.TrimSpace(f))
		switch f {
		case "lecture", "general", "general-lecture":
			c |= CategoryLecture
		case "lab", "laboratory":
			c |= CategoryLab
		case "major", "restricted":
			c |= CategoryMajor
		case "auditorium", "aud":
			c |= CategoryAuditorium
		case "gym":
			c |= CategoryGym
		case "no-saturday", "nosaturday":
			c |= CategoryNoSaturday
		default:
			return 0, fmt.Errorf("unknown room category %q", f)
		}
	}
	return c, nil
}

// Room is an institution-wide schedulable room.
type Room struct {
	Code       string
	Categories RoomCategory
}

// RoomRecord is one row of the room table.
type RoomRecord struct {
	Code       string `csv:"Room_Code" validate:"required"`
	Categories string `csv:"Categories"`
}

// Room converts the record.
func (r *RoomRecord) Room() (Room, error) {
	c, err := ParseCategories(r.Categories)
	if err != nil {
		return Room{}, fmt.Errorf("room %s: %w", r.Code, err)
	}
	return Room{Code: strings.TrimSpace(r.Code), Categories: c}, nil
}
