package scheduler

import (
	"slices"

	"github.com/rhyrak/section-scheduler/pkg/model"
)

// Eligibility is the room class a subject is confined to.
type Eligibility int

const (
	EligibleGeneral Eligibility = iota
	EligibleAuditorium
	EligibleGym
	EligibleLab
	EligibleMajor
)

func (e Eligibility) String() string {
	switch e {
	case EligibleAuditorium:
		return "auditorium"
	case EligibleGym:
		return "gym"
	case EligibleLab:
		return "lab"
	case EligibleMajor:
		return "major"
	}
	return "general"
}

// RoomCatalog classifies rooms and answers availability through the shared occupancy.
type RoomCatalog struct {
	cfg       *Configuration
	occupancy *RoomOccupancy
	rooms     []model.Room
	byClass   map[Eligibility][]string
	noSat     map[string]bool
	major     map[string]bool
}

// NewRoomCatalog merges the category flags of the room records with the
// configured membership lists. A record flagged lab, auditorium or gym is
// taken as is; the class lists only extend plain lecture and unflagged rooms.
// The Saturday-excluded list applies to every room. Only rooms present in the
// records exist.
func NewRoomCatalog(rooms []model.Room, cfg *Configuration, occupancy *RoomOccupancy) *RoomCatalog {
	c := &RoomCatalog{
		cfg:       cfg,
		occupancy: occupancy,
		byClass:   make(map[Eligibility][]string),
		noSat:     make(map[string]bool),
		major:     make(map[string]bool),
	}
	for _, code := range cfg.MajorCodes {
		c.major[code] = true
	}
	seen := make(map[string]bool, len(rooms))
	for _, r := range rooms {
		if r.Code == "" || seen[r.Code] {
			continue
		}
		seen[r.Code] = true
		if r.Categories&dedicated == 0 {
			r.Categories |= listed(r.Code, cfg.LabRooms, model.CategoryLab) |
				listed(r.Code, cfg.MajorRooms, model.CategoryMajor) |
				listed(r.Code, cfg.AuditoriumRooms, model.CategoryAuditorium) |
				listed(r.Code, cfg.GymRooms, model.CategoryGym)
		}
		r.Categories |= listed(r.Code, cfg.SaturdayExcludedRooms, model.CategoryNoSaturday)
		c.rooms = append(c.rooms, r)

		cat := r.Categories
		if cat.Has(model.CategoryAuditorium) {
			c.byClass[EligibleAuditorium] = append(c.byClass[EligibleAuditorium], r.Code)
		}
		if cat.Has(model.CategoryGym) {
			c.byClass[EligibleGym] = append(c.byClass[EligibleGym], r.Code)
		}
		if cat.Has(model.CategoryLab) {
			c.byClass[EligibleLab] = append(c.byClass[EligibleLab], r.Code)
		}
		if cat.Has(model.CategoryMajor) {
			c.byClass[EligibleMajor] = append(c.byClass[EligibleMajor], r.Code)
		}
		if cat&(model.CategoryAuditorium|model.CategoryGym|model.CategoryLab|model.CategoryMajor) == 0 {
			c.byClass[EligibleGeneral] = append(c.byClass[EligibleGeneral], r.Code)
		}
		if cat.Has(model.CategoryNoSaturday) {
			c.noSat[r.Code] = true
		}
	}
	return c
}

const dedicated = model.CategoryLab | model.CategoryAuditorium | model.CategoryGym

func listed(code string, list []string, flag model.RoomCategory) model.RoomCategory {
	if slices.Contains(list, code) {
		return flag
	}
	return 0
}

// Rooms returns the catalogued rooms with merged categories.
func (c *RoomCatalog) Rooms() []model.Room {
	return c.rooms
}

// Eligibility applies the fixed precedence: synchronized, physical
// education, lab kind, major code, general.
func (c *RoomCatalog) Eligibility(s model.Subject) Eligibility {
	switch {
	case c.cfg.IsSynchronized(s):
		return EligibleAuditorium
	case c.cfg.IsPhysicalEducation(s):
		return EligibleGym
	case s.Kind == model.Lab:
		return EligibleLab
	case c.major[s.BaseCode]:
		return EligibleMajor
	}
	return EligibleGeneral
}

// EligibleRooms lists the rooms the subject may use under the pattern,
// regardless of occupancy.
func (c *RoomCatalog) EligibleRooms(s model.Subject, pattern model.DayPattern) []string {
	rooms := c.byClass[c.Eligibility(s)]
	out := make([]string, 0, len(rooms))
	for _, r := range rooms {
		if pattern.IncludesSaturday() && c.noSat[r] {
			continue
		}
		out = append(out, r)
	}
	return out
}

// FreeRooms lists the eligible rooms still unused at the slot.
func (c *RoomCatalog) FreeRooms(s model.Subject, pattern model.DayPattern, slot int) []string {
	eligible := c.EligibleRooms(s, pattern)
	free := eligible[:0]
	for _, r := range eligible {
		if c.IsFree(r, pattern.Track(), slot) {
			free = append(free, r)
		}
	}
	return free
}

func (c *RoomCatalog) IsFree(room string, track model.Track, slot int) bool {
	return c.occupancy.IsFree(room, track, slot)
}

func (c *RoomCatalog) Reserve(room string, track model.Track, slot int) bool {
	return c.occupancy.Reserve(room, track, slot)
}
