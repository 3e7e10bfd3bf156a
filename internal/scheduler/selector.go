package scheduler

import (
	"math/rand"
	"slices"

	"github.com/rhyrak/section-scheduler/pkg/model"
)

// RoomHistory remembers the rooms used per base code, in first-use order.
type RoomHistory map[string][]string

func (h RoomHistory) record(baseCode string, room string) {
	if !slices.Contains(h[baseCode], room) {
		h[baseCode] = append(h[baseCode], room)
	}
}

// RoomSelector chooses a concrete room from the free eligible rooms.
type RoomSelector struct {
	Affinity float64
	cfg      *Configuration
	rng      *rand.Rand
}

func NewRoomSelector(cfg *Configuration, rng *rand.Rand) *RoomSelector {
	return &RoomSelector{Affinity: cfg.RoomAffinity, cfg: cfg, rng: rng}
}

// Select returns "" when no room is free. Restricted subjects take the first
// free room of their category; others prefer a room already used for the
// same base code with probability Affinity.
func (rs *RoomSelector) Select(s model.Subject, free []string, history RoomHistory) string {
	if len(free) == 0 {
		return ""
	}
	var room string
	switch {
	case rs.cfg.IsRestricted(s):
		room = free[0]
	default:
		var reuse []string
		for _, r := range history[s.BaseCode] {
			if slices.Contains(free, r) {
				reuse = append(reuse, r)
			}
		}
		if len(reuse) > 0 && rs.rng.Float64() < rs.Affinity {
			room = reuse[rs.rng.Intn(len(reuse))]
		} else {
			room = free[rs.rng.Intn(len(free))]
		}
	}
	if history != nil {
		history.record(s.BaseCode, room)
	}
	return room
}
