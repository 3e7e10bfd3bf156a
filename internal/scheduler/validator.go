package scheduler

import (
	"fmt"
	"slices"
	"strings"

	"github.com/rhyrak/section-scheduler/pkg/model"
)

type check struct {
	name    string
	details []string
}

func (c *check) failf(format string, args ...any) {
	c.details = append(c.details, fmt.Sprintf("    "+format, args...))
}

// Validate checks a finished schedule for collisions, broken pairs, room
// eligibility and synchronization. Returns false and a report for invalid
// schedules. A nil catalog skips the checks that need room categories.
func Validate(assignments []model.Assignment, catalog *RoomCatalog) (bool, string) {
	sectionCheck := &check{name: "Section collision check."}
	roomCheck := &check{name: "Room collision check."}
	pairCheck := &check{name: "Lecture/lab pairing check."}
	eligibilityCheck := &check{name: "Room eligibility check."}
	syncCheck := &check{name: "Synchronized subject check."}

	type sectionCell struct {
		section string
		track   model.Track
		slot    int
	}
	type roomCell struct {
		room  string
		track model.Track
		slot  int
	}
	sectionCells := make(map[sectionCell]string)
	roomCells := make(map[roomCell]string)
	pairs := make(map[string][]model.Assignment)

	for _, a := range assignments {
		track := a.DayPattern.Track()

		sc := sectionCell{a.SectionID, track, a.Slot}
		if prev, used := sectionCells[sc]; used {
			sectionCheck.failf("%s has %s and %s at %s slot %d", a.SectionID, prev, a.CourseCode, track, a.Slot)
		} else {
			sectionCells[sc] = a.CourseCode
		}

		s := a.Subject()
		// Synchronized subjects share one room across a bucket.
		owner := a.SectionID + "/" + a.CourseCode
		if catalog != nil && catalog.cfg.IsSynchronized(s) {
			owner = bucketKey(a) + "/" + a.CourseCode
		}
		rc := roomCell{a.RoomCode, track, a.Slot}
		if prev, used := roomCells[rc]; used && prev != owner {
			roomCheck.failf("room %s assigned multiple times at %s slot %d (%s, %s)", a.RoomCode, track, a.Slot, prev, owner)
		} else {
			roomCells[rc] = owner
		}

		if s.Kind.Paired() {
			key := a.SectionID + "/" + s.PairKey
			pairs[key] = append(pairs[key], a)
		}
		if catalog != nil && !slices.Contains(catalog.EligibleRooms(s, a.DayPattern), a.RoomCode) {
			eligibilityCheck.failf("%s %s placed in %s on %s, not a %s room", a.SectionID, a.CourseCode, a.RoomCode, a.DayPattern, catalog.Eligibility(s))
		}
	}

	keys := make([]string, 0, len(pairs))
	for k := range pairs {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		checkPair(pairCheck, pairs[k])
	}

	if catalog != nil {
		checkSynchronized(syncCheck, assignments, catalog.cfg)
	}

	valid := true
	var message strings.Builder
	for _, c := range []*check{sectionCheck, roomCheck, pairCheck, eligibilityCheck, syncCheck} {
		if len(c.details) > 0 {
			valid = false
			message.WriteString("[FAIL]: " + c.name + "\n")
			message.WriteString(strings.Join(c.details, "\n") + "\n")
		} else {
			message.WriteString("[  OK]: " + c.name + "\n")
		}
	}
	return valid, message.String()
}

func bucketKey(a model.Assignment) string {
	return a.Program + "/" + a.YearLevel + "/" + a.Trimester + "/" + a.Group
}

func checkPair(c *check, members []model.Assignment) {
	if len(members) < 2 {
		return
	}
	var lec, lab *model.Assignment
	for i := range members {
		switch members[i].Kind {
		case model.Lecture.String():
			if lec == nil {
				lec = &members[i]
			}
		case model.Lab.String():
			if lab == nil {
				lab = &members[i]
			}
		}
	}
	if lec == nil || lab == nil {
		return
	}
	track := lec.DayPattern.Track()
	if lab.DayPattern.Track() != track {
		c.failf("%s %s: lecture on %s, lab on %s", lec.SectionID, lec.CourseCode, lec.DayPattern, lab.DayPattern)
		return
	}
	if lec.DayPattern != model.LecturePattern(track) || lab.DayPattern != model.LabPattern(track) {
		c.failf("%s %s: patterns %s/%s do not pair", lec.SectionID, lec.CourseCode, lec.DayPattern, lab.DayPattern)
	}
	if lab.Slot != lec.Slot+1 {
		c.failf("%s %s: lab slot %d does not follow lecture slot %d", lec.SectionID, lec.CourseCode, lab.Slot, lec.Slot)
	}
}

// checkSynchronized requires every section of a bucket to carry each
// synchronized subject at the same pattern, slot and room.
func checkSynchronized(c *check, assignments []model.Assignment, cfg *Configuration) {
	sections := make(map[string]map[string]bool)
	placements := make(map[string]map[string]model.Assignment)
	var order []string
	for _, a := range assignments {
		b := bucketKey(a)
		if sections[b] == nil {
			sections[b] = make(map[string]bool)
		}
		sections[b][a.SectionID] = true
		if !cfg.IsSynchronized(a.Subject()) {
			continue
		}
		key := b + "/" + a.CourseCode
		if placements[key] == nil {
			placements[key] = make(map[string]model.Assignment)
			order = append(order, key)
		}
		placements[key][a.SectionID] = a
	}
	for _, key := range order {
		ids := make([]string, 0, len(placements[key]))
		for id := range placements[key] {
			ids = append(ids, id)
		}
		slices.Sort(ids)
		first := placements[key][ids[0]]
		for _, id := range ids[1:] {
			a := placements[key][id]
			if a.DayPattern != first.DayPattern || a.Slot != first.Slot || a.RoomCode != first.RoomCode {
				c.failf("%s differs between %s and %s", a.CourseCode, first.SectionID, a.SectionID)
				break
			}
		}
		b := bucketKey(first)
		if len(placements[key]) != len(sections[b]) {
			c.failf("%s placed for %d of %d sections of %s", first.CourseCode, len(placements[key]), len(sections[b]), b)
		}
	}
}
