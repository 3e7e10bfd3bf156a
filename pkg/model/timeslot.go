package model

import (
	"fmt"
	"strings"
	"time"
)

// Track is one of the two disjoint weekly day families.
type Track int

const (
	TrackMWF Track = iota
	TrackTTH
)

func (t Track) String() string {
	if t == TrackTTH {
		return "TTH"
	}
	return "MWF"
}

// Other returns the opposite track.
func (t Track) Other() Track {
	if t == TrackTTH {
		return TrackMWF
	}
	return TrackTTH
}

// DayPattern is the day token printed on a timetable row.
type DayPattern string

const (
	PatternMW   DayPattern = "MW"
	PatternTTH  DayPattern = "TTH"
	PatternMWF  DayPattern = "MWF"
	PatternTTHS DayPattern = "TTHS"
)

// LecturePattern returns the two-day pattern of a track.
func LecturePattern(t Track) DayPattern {
	if t == TrackTTH {
		return PatternTTH
	}
	return PatternMW
}

// LabPattern returns the pattern paired with a lecture pattern (MW -> MWF, TTH -> TTHS).
func LabPattern(t Track) DayPattern {
	if t == TrackTTH {
		return PatternTTHS
	}
	return PatternMWF
}

// Track maps the pattern to its day family. Weekday names are accepted.
func (p DayPattern) Track() Track {
	switch strings.ToUpper(string(p)) {
	case "TTH", "TTHS", "TUESDAY", "THURSDAY", "SATURDAY":
		return TrackTTH
	}
	return TrackMWF
}

// IncludesSaturday reports whether the pattern meets on Saturday.
func (p DayPattern) IncludesSaturday() bool {
	switch strings.ToUpper(string(p)) {
	case "TTHS", "SATURDAY":
		return true
	}
	return false
}

// Days lists the calendar days of the pattern.
func (p DayPattern) Days() []time.Weekday {
	switch strings.ToUpper(string(p)) {
	case "MW":
		return []time.Weekday{time.Monday, time.Wednesday}
	case "MWF":
		return []time.Weekday{time.Monday, time.Wednesday, time.Friday}
	case "TTH":
		return []time.Weekday{time.Tuesday, time.Thursday}
	case "TTHS":
		return []time.Weekday{time.Tuesday, time.Thursday, time.Saturday}
	}
	for d := time.Sunday; d <= time.Saturday; d++ {
		if strings.EqualFold(d.String(), string(p)) {
			return []time.Weekday{d}
		}
	}
	return nil
}

// ClockLayout is the printed form of slot boundaries ("07:30AM").
const ClockLayout = "03:04PM"

// TimeSlot is a fixed window of the daily grid.
type TimeSlot struct {
	Index int
	Start time.Time
	End   time.Time
}

// NewTimeSlots builds the ordered daily grid from start times such as "7:30am".
func NewTimeSlots(starts []string, duration time.Duration) ([]TimeSlot, error) {
	slots := make([]TimeSlot, 0, len(starts))
	for i, s := range starts {
		start, err := ParseClock(s)
		if err != nil {
			return nil, err
		}
		if i > 0 && !start.After(slots[i-1].Start) {
			return nil, fmt.Errorf("base time %q is not after %q", s, starts[i-1])
		}
		slots = append(slots, TimeSlot{Index: i, Start: start, End: start.Add(duration)})
	}
	return slots, nil
}

// ParseClock reads "7:30am", "07:30AM" or "13:30".
func ParseClock(s string) (time.Time, error) {
	s = strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), " ", ""))
	for _, layout := range []string{"3:04PM", "15:04"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid clock time %q", s)
}

// Label renders "07:30AM-08:50AM".
func (s TimeSlot) Label() string {
	return s.Start.Format(ClockLayout) + "-" + s.End.Format(ClockLayout)
}
