package scheduler

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/rhyrak/section-scheduler/pkg/model"
)

// SkewRule allows an unbalanced MWF/TTH split for a year level in the
// listed trimesters, with the given probability per bucket.
type SkewRule struct {
	YearLevel   string
	Trimesters  []string
	Probability float64
}

// Matches reports whether the rule covers the bucket.
func (r SkewRule) Matches(b model.Bucket) bool {
	if !strings.EqualFold(r.YearLevel, b.YearLevel) {
		return false
	}
	return slices.ContainsFunc(r.Trimesters, func(t string) bool { return strings.EqualFold(t, b.Trimester) })
}

type Configuration struct {
	BaseTimes             []string
	SlotDuration          time.Duration
	LabRooms              []string
	MajorRooms            []string
	AuditoriumRooms       []string
	GymRooms              []string
	SaturdayExcludedRooms []string
	MajorCodes            []string
	SynchronizedCodes     []string // civic-training markers, matched against the course code
	PhysicalEducation     []string // gym markers, matched against the course code
	RoomAffinity          float64
	BalanceBias           float64
	SkewRules             []SkewRule
	Seed                  int64
	MaxAttempts           int
	MaxSections           int
}

func NewDefaultConfiguration() *Configuration {
	return &Configuration{
		BaseTimes: []string{
			"7:30am", "8:50am", "10:10am", "11:30am",
			"12:50pm", "2:10pm", "3:30pm", "4:50pm", "6:10pm",
		},
		SlotDuration:          80 * time.Minute,
		LabRooms:              []string{"M303", "M304", "M305", "M306", "M307", "N3001", "N3002", "S312"},
		MajorRooms:            []string{"M301", "M303", "M304", "M305", "M306", "M307", "N3001", "N3002", "S312"},
		AuditoriumRooms:       []string{"Aud"},
		GymRooms:              []string{"Gym"},
		SaturdayExcludedRooms: []string{"M301", "M303", "M305", "M307"},
		MajorCodes:            defaultMajorCodes(),
		SynchronizedCodes:     []string{"NSTP"},
		PhysicalEducation:     []string{"PathFit"},
		RoomAffinity:          0.6, // 60%
		BalanceBias:           0.5,
		SkewRules: []SkewRule{
			{YearLevel: "Third", Trimesters: []string{"Second", "Third"}, Probability: 0.3},
		},
		Seed:        1,
		MaxAttempts: 1,
		MaxSections: len(model.SectionLetters),
	}
}

func defaultMajorCodes() []string {
	var codes []string
	add := func(prefix string, nums ...int) {
		for _, n := range nums {
			codes = append(codes, fmt.Sprintf("%s%d", prefix, n))
		}
	}
	add("CC", 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16, 17, 18, 19, 21, 22, 23, 24)
	add("CCS", 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16)
	add("CDA", 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12)
	add("CIT", 1, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16, 17, 18, 19, 22, 23, 24, 25, 26)
	add("MCC", 1, 2, 3, 4, 5, 6, 7, 8)
	add("MMC", 1, 2, 3, 4, 5, 6, 7, 8, 9, 11, 13, 14, 15, 16, 17, 18, 19)
	add("MM", 12)
	return codes
}

// Check rejects configurations the engine cannot start from.
func (cfg *Configuration) Check() error {
	if len(cfg.BaseTimes) == 0 {
		return configurationError("time grid has no base times", nil)
	}
	if cfg.SlotDuration <= 0 {
		return configurationError("slot duration must be positive", nil)
	}
	if cfg.RoomAffinity < 0 || cfg.RoomAffinity > 1 {
		return configurationError(fmt.Sprintf("room affinity %.2f outside [0,1]", cfg.RoomAffinity), nil)
	}
	if cfg.BalanceBias < 0 || cfg.BalanceBias > 1 {
		return configurationError(fmt.Sprintf("balance bias %.2f outside [0,1]", cfg.BalanceBias), nil)
	}
	for _, r := range cfg.SkewRules {
		if r.Probability < 0 || r.Probability > 1 {
			return configurationError(fmt.Sprintf("skew probability %.2f for %s outside [0,1]", r.Probability, r.YearLevel), nil)
		}
	}
	if cfg.MaxSections < 1 || cfg.MaxSections > len(model.SectionLetters) {
		return configurationError(fmt.Sprintf("max sections %d outside 1..%d", cfg.MaxSections, len(model.SectionLetters)), nil)
	}
	if len(cfg.AuditoriumRooms) == 0 && len(cfg.SynchronizedCodes) > 0 {
		return configurationError("synchronized subjects configured without auditorium rooms", nil)
	}
	if len(cfg.GymRooms) == 0 && len(cfg.PhysicalEducation) > 0 {
		return configurationError("physical education subjects configured without gym rooms", nil)
	}
	if _, err := model.NewTimeSlots(cfg.BaseTimes, cfg.SlotDuration); err != nil {
		return configurationError("invalid time grid", err)
	}
	return nil
}

// IsSynchronized reports whether the subject must share one window across a bucket.
func (cfg *Configuration) IsSynchronized(s model.Subject) bool {
	return containsMarker(s.Code, cfg.SynchronizedCodes)
}

// IsPhysicalEducation reports whether the subject is confined to the gym.
func (cfg *Configuration) IsPhysicalEducation(s model.Subject) bool {
	return !cfg.IsSynchronized(s) && containsMarker(s.Code, cfg.PhysicalEducation)
}

// IsRestricted reports whether the subject bypasses general eligibility.
func (cfg *Configuration) IsRestricted(s model.Subject) bool {
	return cfg.IsSynchronized(s) || cfg.IsPhysicalEducation(s)
}

func containsMarker(code string, markers []string) bool {
	code = strings.ToLower(code)
	for _, m := range markers {
		if m != "" && strings.Contains(code, strings.ToLower(m)) {
			return true
		}
	}
	return false
}

// bucketSeed derives an independent seed per bucket and attempt so a bucket's
// draws do not depend on how many draws earlier buckets consumed.
func bucketSeed(seed int64, bucket int, attempt int) int64 {
	return seed + int64(bucket)*1_000_003 + int64(attempt)*7_919
}
