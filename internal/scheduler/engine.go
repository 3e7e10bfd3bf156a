package scheduler

import (
	"errors"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/rhyrak/section-scheduler/pkg/model"
)

// BucketResult is the outcome of one bucket. Assignments is empty whenever
// Err is set.
type BucketResult struct {
	Bucket      model.Bucket
	Sections    int
	Assignments []model.Assignment
	Attempts    int
	Seed        int64
	Elapsed     time.Duration
	Err         error
}

// OK reports whether the bucket was fully scheduled.
func (r *BucketResult) OK() bool {
	return r.Err == nil
}

// RunResult collects every bucket of a run in request order.
type RunResult struct {
	Buckets   []BucketResult
	Catalog   *RoomCatalog
	Occupancy *RoomOccupancy
}

// Assignments flattens the assignments of the successful buckets.
func (r *RunResult) Assignments() []model.Assignment {
	var out []model.Assignment
	for _, b := range r.Buckets {
		out = append(out, b.Assignments...)
	}
	return out
}

// Failed returns the buckets that produced no schedule.
func (r *RunResult) Failed() []BucketResult {
	var out []BucketResult
	for _, b := range r.Buckets {
		if !b.OK() {
			out = append(out, b)
		}
	}
	return out
}

// Observer is notified after every bucket.
type Observer interface {
	ObserveBucket(result *BucketResult)
}

type Engine struct {
	cfg      *Configuration
	slots    []model.TimeSlot
	logger   *zap.Logger
	observer Observer
}

// NewEngine checks the configuration and builds the time grid once.
func NewEngine(cfg *Configuration, logger *zap.Logger, observer Observer) (*Engine, error) {
	if cfg == nil {
		cfg = NewDefaultConfiguration()
	}
	if err := cfg.Check(); err != nil {
		return nil, err
	}
	slots, err := model.NewTimeSlots(cfg.BaseTimes, cfg.SlotDuration)
	if err != nil {
		return nil, configurationError("invalid time grid", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.MaxAttempts < 1 {
		clamped := *cfg
		clamped.MaxAttempts = 1
		cfg = &clamped
	}
	return &Engine{cfg: cfg, slots: slots, logger: logger, observer: observer}, nil
}

// Slots returns the daily grid of the engine.
func (e *Engine) Slots() []model.TimeSlot {
	return e.slots
}

// Run schedules the buckets one after another against one shared room
// occupancy. A failed bucket does not stop the run.
func (e *Engine) Run(rooms []model.Room, requests []BucketRequest) *RunResult {
	occupancy := NewRoomOccupancy()
	catalog := NewRoomCatalog(rooms, e.cfg, occupancy)
	result := &RunResult{Catalog: catalog, Occupancy: occupancy}

	e.logger.Info("schedule run started",
		zap.Int("buckets", len(requests)),
		zap.Int("rooms", len(catalog.Rooms())),
		zap.Int64("seed", e.cfg.Seed))

	for i, req := range requests {
		res := e.runBucket(i, req, catalog)
		if e.observer != nil {
			e.observer.ObserveBucket(&res)
		}
		result.Buckets = append(result.Buckets, res)
	}

	e.logger.Info("schedule run finished",
		zap.Int("assignments", len(result.Assignments())),
		zap.Int("failed_buckets", len(result.Failed())),
		zap.Int("room_cells_used", occupancy.Used()))
	return result
}

func (e *Engine) runBucket(idx int, req BucketRequest, catalog *RoomCatalog) BucketResult {
	res := BucketResult{Bucket: req.Bucket, Sections: req.Sections}
	start := time.Now()
	log := e.logger.With(
		zap.String("program", req.Bucket.Program),
		zap.String("year", req.Bucket.YearLevel),
		zap.String("group", req.Bucket.Group))

	for attempt := 0; attempt < e.cfg.MaxAttempts; attempt++ {
		res.Attempts = attempt + 1
		res.Seed = bucketSeed(e.cfg.Seed, idx, attempt)
		s := NewSectionScheduler(e.cfg, catalog, e.slots, rand.New(rand.NewSource(res.Seed)), log)
		assignments, err := s.ScheduleBucket(req)
		if err == nil {
			res.Assignments = assignments
			res.Err = nil
			break
		}
		res.Err = err
		if errors.Is(err, ErrConfiguration) {
			break
		}
		if attempt+1 < e.cfg.MaxAttempts {
			log.Warn("bucket failed, retrying with a new seed",
				zap.Int("attempt", res.Attempts),
				zap.Int64("seed", res.Seed),
				zap.Error(err))
		}
	}
	res.Elapsed = time.Since(start)

	if res.Err != nil {
		log.Error("bucket not scheduled", zap.Int("attempts", res.Attempts), zap.Error(res.Err))
	} else {
		log.Info("bucket scheduled",
			zap.Int("sections", req.Sections),
			zap.Int("assignments", len(res.Assignments)),
			zap.Int("attempts", res.Attempts))
	}
	return res
}
