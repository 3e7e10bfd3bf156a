package scheduler

import "github.com/rhyrak/section-scheduler/pkg/model"

// TimeGrid is one section's daily grid with a used flag per track.
type TimeGrid struct {
	Slots []model.TimeSlot
	used  [2][]bool
}

// NewTimeGrid creates a grid with every slot free on both tracks.
func NewTimeGrid(slots []model.TimeSlot) *TimeGrid {
	g := &TimeGrid{Slots: slots}
	for t := range g.used {
		g.used[t] = make([]bool, len(slots))
	}
	return g
}

// IsFree checks the slot under the given track only.
func (g *TimeGrid) IsFree(slot int, track model.Track) bool {
	if slot < 0 || slot >= len(g.Slots) {
		return false
	}
	return !g.used[track][slot]
}

// MarkUsed consumes the slot for the track. The other track is untouched.
func (g *TimeGrid) MarkUsed(slot int, track model.Track) {
	g.used[track][slot] = true
}

// AvailableSlots returns the free slots of the track in grid order.
func (g *TimeGrid) AvailableSlots(track model.Track) []model.TimeSlot {
	var free []model.TimeSlot
	for i, s := range g.Slots {
		if !g.used[track][i] {
			free = append(free, s)
		}
	}
	return free
}

// ConsecutiveRuns returns every window of n strictly adjacent slots that are
// all free under the track, ordered by starting slot.
func (g *TimeGrid) ConsecutiveRuns(track model.Track, n int) [][]model.TimeSlot {
	if n < 1 {
		return nil
	}
	var runs [][]model.TimeSlot
	for start := 0; start+n <= len(g.Slots); start++ {
		ok := true
		for i := start; i < start+n; i++ {
			if g.used[track][i] {
				ok = false
				break
			}
		}
		if ok {
			runs = append(runs, g.Slots[start:start+n:start+n])
		}
	}
	return runs
}
