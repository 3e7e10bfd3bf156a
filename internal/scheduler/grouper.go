package scheduler

import (
	"github.com/rhyrak/section-scheduler/pkg/model"
)

// Unit is the piece of work placed at once: a lecture/lab pair, a pair with a
// missing member, or a standalone subject.
type Unit struct {
	Key     string
	Members []model.Subject
	Paired  bool
}

// Full reports whether the unit carries both a lecture and a lab.
func (u Unit) Full() bool {
	return len(u.Members) == 2
}

// Weight is the number of scheduled classes the unit adds to its track.
func (u Unit) Weight() int {
	if u.Full() {
		return 2
	}
	return 1
}

// Slots is the number of consecutive grid slots the unit needs.
func (u Unit) Slots() int {
	return len(u.Members)
}

// Grouping is the split of a bucket's subjects into pairs and standalones.
type Grouping struct {
	Pairs      map[string][]model.Subject
	PairKeys   []string // first-seen order
	Standalone []model.Subject
}

// GroupSubjects joins Lecture and Lab subjects on their pair key, lecture
// first. A second lecture or lab for the same key is kept as a standalone.
func GroupSubjects(subjects []model.Subject) Grouping {
	g := Grouping{Pairs: make(map[string][]model.Subject)}
	for _, s := range subjects {
		if !s.Kind.Paired() {
			g.Standalone = append(g.Standalone, s)
			continue
		}
		pair, seen := g.Pairs[s.PairKey]
		if !seen {
			g.PairKeys = append(g.PairKeys, s.PairKey)
		}
		if len(pair) > 0 && (len(pair) == 2 || pair[0].Kind == s.Kind) {
			g.Standalone = append(g.Standalone, s)
			continue
		}
		pair = append(pair, s)
		if len(pair) == 2 && pair[0].Kind == model.Lab {
			pair[0], pair[1] = pair[1], pair[0]
		}
		g.Pairs[s.PairKey] = pair
	}
	return g
}

// Units flattens the grouping: pairs in first-seen order, then standalones.
func (g Grouping) Units() (pairs []Unit, standalone []Unit) {
	for _, k := range g.PairKeys {
		pairs = append(pairs, Unit{Key: k, Members: g.Pairs[k], Paired: true})
	}
	for _, s := range g.Standalone {
		standalone = append(standalone, Unit{Key: s.Code, Members: []model.Subject{s}})
	}
	return pairs, standalone
}
