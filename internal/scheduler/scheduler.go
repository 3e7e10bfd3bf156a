package scheduler

import (
	"cmp"
	"fmt"
	"math/rand"
	"slices"
	"strings"

	"go.uber.org/zap"

	"github.com/rhyrak/section-scheduler/pkg/model"
)

// BucketRequest is one (program, year, group) pass.
type BucketRequest struct {
	Bucket   model.Bucket
	Sections int
	Subjects []model.Subject
}

// State is the progress of a bucket through the scheduler.
type State int

const (
	StateInit State = iota
	StateSynchronizedPass
	StatePerSectionPass
	StateDone
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateSynchronizedPass:
		return "SYNCHRONIZED_PASS"
	case StatePerSectionPass:
		return "PER_SECTION_PASS"
	case StateDone:
		return "DONE"
	case StateFailed:
		return "FAILED"
	}
	return "INIT"
}

// SectionScheduler places the units of a single bucket. It owns the bucket's
// time grids and borrows the run-wide room occupancy through the catalog.
type SectionScheduler struct {
	State State

	cfg      *Configuration
	catalog  *RoomCatalog
	slots    []model.TimeSlot
	rng      *rand.Rand
	balance  *BalancingPolicy
	selector *RoomSelector
	logger   *zap.Logger
	reserved []Reservation
}

func NewSectionScheduler(cfg *Configuration, catalog *RoomCatalog, slots []model.TimeSlot, rng *rand.Rand, logger *zap.Logger) *SectionScheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SectionScheduler{
		cfg:      cfg,
		catalog:  catalog,
		slots:    slots,
		rng:      rng,
		balance:  NewBalancingPolicy(cfg, rng),
		selector: NewRoomSelector(cfg, rng),
		logger:   logger,
	}
}

// sectionState is the per-section bookkeeping of one bucket pass.
type sectionState struct {
	section     model.Section
	grid        *TimeGrid
	weights     [2]int
	assignments []model.Assignment
}

// ScheduleBucket runs INIT, SYNCHRONIZED_PASS and PER_SECTION_PASS. On
// failure every room reserved by this bucket is released and no assignment
// is returned.
func (s *SectionScheduler) ScheduleBucket(req BucketRequest) ([]model.Assignment, error) {
	s.State = StateInit
	if req.Sections > s.cfg.MaxSections {
		return s.fail(configurationError(fmt.Sprintf("%d sections requested for %s, at most %d allowed", req.Sections, req.Bucket, s.cfg.MaxSections), nil))
	}
	sections, err := model.NewSections(req.Bucket, req.Sections)
	if err != nil {
		return s.fail(configurationError("cannot create sections for "+req.Bucket.String(), err))
	}
	states := make([]*sectionState, len(sections))
	for i, sec := range sections {
		states[i] = &sectionState{section: sec, grid: NewTimeGrid(s.slots)}
	}

	pairs, standalone := GroupSubjects(req.Subjects).Units()
	s.shuffle(pairs)
	s.shuffle(standalone)
	allowSkew := s.balance.AllowSkew(req.Bucket)
	history := make(RoomHistory)

	var synchronized, remaining []Unit
	for _, u := range append(pairs, standalone...) {
		if slices.ContainsFunc(u.Members, s.cfg.IsSynchronized) {
			synchronized = append(synchronized, u)
		} else {
			remaining = append(remaining, u)
		}
	}

	s.State = StateSynchronizedPass
	for _, u := range synchronized {
		if !s.placeSynchronized(states, u, allowSkew, history) {
			return s.fail(synchronizedError(req.Bucket, unitName(u)))
		}
	}

	s.State = StatePerSectionPass
	for _, st := range states {
		for _, u := range remaining {
			track := s.balance.ChooseTrack(st.weights[model.TrackMWF], st.weights[model.TrackTTH], allowSkew)
			if !s.placeUnit(st, u, track, history) {
				s.logger.Debug("unit placement failed",
					zap.String("section", st.section.ID()),
					zap.String("subject", unitName(u)),
					zap.Stringer("track", track))
				return s.fail(unitError(req.Bucket, st.section, unitName(u)))
			}
			st.weights[track] += u.Weight()
		}
	}

	s.State = StateDone
	var out []model.Assignment
	for _, st := range states {
		slices.SortStableFunc(st.assignments, func(a, b model.Assignment) int {
			if c := cmp.Compare(a.DayPattern.Track(), b.DayPattern.Track()); c != 0 {
				return c
			}
			return cmp.Compare(a.Slot, b.Slot)
		})
		out = append(out, st.assignments...)
	}
	return out, nil
}

func (s *SectionScheduler) fail(err *Error) ([]model.Assignment, error) {
	s.State = StateFailed
	s.catalog.occupancy.Release(s.reserved)
	s.reserved = nil
	return nil, err
}

func (s *SectionScheduler) shuffle(units []Unit) {
	s.rng.Shuffle(len(units), func(i, j int) {
		units[i], units[j] = units[j], units[i]
	})
}

// patternFor gives lectures of a pair the two-day pattern and labs its
// three-day variant. Standalone gym subjects meet twice a week, every other
// standalone three times.
func (s *SectionScheduler) patternFor(u Unit, member model.Subject, track model.Track) model.DayPattern {
	if u.Paired {
		if member.Kind == model.Lab {
			return model.LabPattern(track)
		}
		return model.LecturePattern(track)
	}
	if s.cfg.IsPhysicalEducation(member) {
		return model.LecturePattern(track)
	}
	return model.LabPattern(track)
}

// pickRooms returns one room per member for the run, or nil when a member
// has no free eligible room at its slot.
func (s *SectionScheduler) pickRooms(u Unit, track model.Track, run []model.TimeSlot, history RoomHistory) []string {
	free := make([][]string, len(u.Members))
	for i, m := range u.Members {
		free[i] = s.catalog.FreeRooms(m, s.patternFor(u, m, track), run[i].Index)
		if len(free[i]) == 0 {
			return nil
		}
	}
	rooms := make([]string, len(u.Members))
	for i, m := range u.Members {
		rooms[i] = s.selector.Select(m, free[i], history)
	}
	return rooms
}

func (s *SectionScheduler) reserve(rooms []string, track model.Track, run []model.TimeSlot) bool {
	var taken []Reservation
	for i, room := range rooms {
		if !s.catalog.Reserve(room, track, run[i].Index) {
			s.catalog.occupancy.Release(taken)
			return false
		}
		taken = append(taken, Reservation{Room: room, Track: track, Slot: run[i].Index})
	}
	s.reserved = append(s.reserved, taken...)
	return true
}

// placeUnit tries every free run of the section's grid in shuffled order and
// commits the first one where every member gets a room.
func (s *SectionScheduler) placeUnit(st *sectionState, u Unit, track model.Track, history RoomHistory) bool {
	runs := st.grid.ConsecutiveRuns(track, u.Slots())
	s.rng.Shuffle(len(runs), func(i, j int) { runs[i], runs[j] = runs[j], runs[i] })
	for _, run := range runs {
		rooms := s.pickRooms(u, track, run, history)
		if rooms == nil || !s.reserve(rooms, track, run) {
			continue
		}
		s.commit(st, u, track, run, rooms)
		return true
	}
	return false
}

// placeSynchronized looks for one window free in every section's grid and in
// an auditorium room, trying the balanced track first and then the other.
func (s *SectionScheduler) placeSynchronized(states []*sectionState, u Unit, allowSkew bool, history RoomHistory) bool {
	first := s.balance.ChooseTrack(0, 0, allowSkew)
	for _, track := range []model.Track{first, first.Other()} {
		runs := sharedRuns(states, track, u.Slots())
		s.rng.Shuffle(len(runs), func(i, j int) { runs[i], runs[j] = runs[j], runs[i] })
		for _, run := range runs {
			rooms := s.pickRooms(u, track, run, history)
			if rooms == nil || !s.reserve(rooms, track, run) {
				continue
			}
			for _, st := range states {
				s.commit(st, u, track, run, rooms)
				st.weights[track] += u.Weight()
			}
			s.logger.Debug("synchronized unit placed",
				zap.String("subject", unitName(u)),
				zap.String("time", run[0].Label()),
				zap.Strings("rooms", rooms))
			return true
		}
	}
	return false
}

func (s *SectionScheduler) commit(st *sectionState, u Unit, track model.Track, run []model.TimeSlot, rooms []string) {
	for i, m := range u.Members {
		st.grid.MarkUsed(run[i].Index, track)
		st.assignments = append(st.assignments, model.NewAssignment(st.section, m, s.patternFor(u, m, track), run[i], rooms[i]))
	}
}

// sharedRuns returns the runs of the first grid that are free in every grid.
func sharedRuns(states []*sectionState, track model.Track, n int) [][]model.TimeSlot {
	if len(states) == 0 {
		return nil
	}
	var shared [][]model.TimeSlot
	for _, run := range states[0].grid.ConsecutiveRuns(track, n) {
		ok := true
		for _, st := range states[1:] {
			for _, slot := range run {
				if !st.grid.IsFree(slot.Index, track) {
					ok = false
				}
			}
		}
		if ok {
			shared = append(shared, run)
		}
	}
	return shared
}

func unitName(u Unit) string {
	codes := make([]string, len(u.Members))
	for i, m := range u.Members {
		codes[i] = m.Code
	}
	return strings.Join(codes, "/")
}
