package scheduler

import (
	"math/rand"

	"github.com/rhyrak/section-scheduler/pkg/model"
)

const (
	balanceLow  = 0.4
	balanceHigh = 0.6
)

// BalancingPolicy picks the day family of each unit.
type BalancingPolicy struct {
	Bias      float64
	SkewRules []SkewRule
	rng       *rand.Rand
}

func NewBalancingPolicy(cfg *Configuration, rng *rand.Rand) *BalancingPolicy {
	return &BalancingPolicy{Bias: cfg.BalanceBias, SkewRules: cfg.SkewRules, rng: rng}
}

// AllowSkew decides once per bucket whether an uneven split is permitted.
// A draw is consumed only when a rule matches.
func (p *BalancingPolicy) AllowSkew(b model.Bucket) bool {
	for _, r := range p.SkewRules {
		if r.Matches(b) {
			return p.rng.Float64() < r.Probability
		}
	}
	return false
}

// ChooseTrack returns the track for the next unit given the class counts
// already placed on each track.
func (p *BalancingPolicy) ChooseTrack(mwWeight int, tthWeight int, allowSkew bool) model.Track {
	if allowSkew {
		if p.rng.Float64() < 0.5 {
			return model.TrackMWF
		}
		return model.TrackTTH
	}
	var ratio float64
	if total := mwWeight + tthWeight; total > 0 {
		ratio = float64(mwWeight) / float64(total)
	}
	if ratio < balanceLow {
		return model.TrackMWF
	}
	if ratio > balanceHigh {
		return model.TrackTTH
	}
	threshold := 0.5 + (0.5-ratio)*p.Bias
	if p.rng.Float64() < threshold {
		return model.TrackMWF
	}
	return model.TrackTTH
}
