package scheduler

import (
	"sync"

	"github.com/rhyrak/section-scheduler/pkg/model"
)

// Reservation is one consumed (room, track, slot) cell.
type Reservation struct {
	Room  string
	Track model.Track
	Slot  int
}

type cell struct {
	track model.Track
	slot  int
}

// RoomOccupancy tracks room usage across every bucket of a run.
type RoomOccupancy struct {
	mu    sync.Mutex
	rooms map[string]map[cell]bool
}

func NewRoomOccupancy() *RoomOccupancy {
	return &RoomOccupancy{rooms: make(map[string]map[cell]bool)}
}

// IsFree checks if the room is unused at the slot of the track.
func (o *RoomOccupancy) IsFree(room string, track model.Track, slot int) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return !o.rooms[room][cell{track, slot}]
}

// Reserve marks the cell as used. Returns false if it was already taken.
func (o *RoomOccupancy) Reserve(room string, track model.Track, slot int) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	cells, ok := o.rooms[room]
	if !ok {
		cells = make(map[cell]bool)
		o.rooms[room] = cells
	}
	c := cell{track, slot}
	if cells[c] {
		return false
	}
	cells[c] = true
	return true
}

// Release frees previously reserved cells.
func (o *RoomOccupancy) Release(reservations []Reservation) {
	o.mu.Lock()
	defer o.mu.Unlock()
	for _, r := range reservations {
		delete(o.rooms[r.Room], cell{r.Track, r.Slot})
	}
}

// Used counts reserved cells, mostly for reports.
func (o *RoomOccupancy) Used() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	n := 0
	for _, cells := range o.rooms {
		n += len(cells)
	}
	return n
}
