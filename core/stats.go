package core

import (
	"time"

	log "github.com/sirupsen/logrus"
)

// DefaultStatsInterval is how often frame statistics are reported
const DefaultStatsInterval = time.Second

// NewFrameStats creates frame statistics reported to logger once per interval
func NewFrameStats(logger log.FieldLogger, interval time.Duration) *FrameStats {
	if logger == nil {
		logger = log.StandardLogger()
	}
	if interval <= 0 {
		interval = DefaultStatsInterval
	}
	return &FrameStats{
		log:      logger,
		interval: interval,
		now:      time.Now,
	}
}

// FrameStats counts presented frames. It only observes the loop, pacing
// comes from the vsync in Present.
type FrameStats struct {
	log      log.FieldLogger
	interval time.Duration
	now      func() time.Time

	start  time.Time
	frames uint64
	total  uint64
	fps    float64
}

// SetClock replaces the time source, used in tests
func (s *FrameStats) SetClock(now func() time.Time) {
	s.now = now
}

// Frame records one presented frame
func (s *FrameStats) Frame() {
	now := s.now()
	if s.start.IsZero() {
		s.start = now
	}
	s.frames++
	s.total++

	elapsed := now.Sub(s.start)
	if elapsed < s.interval {
		return
	}
	s.fps = float64(s.frames) / elapsed.Seconds()
	s.log.WithFields(log.Fields{
		"fps":    s.fps,
		"frames": s.total,
	}).Debug("frame statistics")
	s.frames = 0
	s.start = now
}

// Fps returns frames per second measured over the last full interval
func (s *FrameStats) Fps() float64 {
	return s.fps
}

// Frames returns the number of frames recorded so far
func (s *FrameStats) Frames() uint64 {
	return s.total
}
