package profiler

import (
	"runtime"
	"time"

	"github.com/sirupsen/logrus"
)

// Stats is one reporting window of the profiler.
type Stats struct {
	FPS         float64
	LogicSteps  int
	HeapMB      float64
	AllocRateMB float64
	GCCount     uint32
	LastPauseUs uint64
	MaxPauseUs  uint64
	SysMB       float64
}

// Profiler tracks frame rate, logic step rate and memory statistics.
// Outputs stats to the logger at a configurable interval.
type Profiler struct {
	frameCount     int
	stepCount      int
	lastTime       time.Time
	updateInterval time.Duration
	memStats       runtime.MemStats
	lastGCCount    uint32
	lastTotalAlloc uint64
	last           Stats

	now    func() time.Time
	logger logrus.FieldLogger
}

// ProfilerOption configures a Profiler.
type ProfilerOption func(*Profiler)

// WithInterval sets the reporting interval.
func WithInterval(d time.Duration) ProfilerOption {
	return func(p *Profiler) {
		if d > 0 {
			p.updateInterval = d
		}
	}
}

// WithClock replaces time.Now, for deterministic tests.
func WithClock(now func() time.Time) ProfilerOption {
	return func(p *Profiler) {
		if now != nil {
			p.now = now
		}
	}
}

// WithLogger sets the logger reports are written to.
func WithLogger(logger logrus.FieldLogger) ProfilerOption {
	return func(p *Profiler) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// NewProfiler creates a new Profiler.
// Update interval defaults to 1 second.
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler(options ...ProfilerOption) *Profiler {
	p := &Profiler{
		updateInterval: time.Second,
		now:            time.Now,
		logger:         logrus.StandardLogger(),
	}
	for _, option := range options {
		option(p)
	}
	p.lastTime = p.now()
	return p
}

// Tick should be called once per rendered frame with the number of logic steps the frame ran.
// Logs performance statistics when the update interval has elapsed.
//
// Parameters:
//   - steps: logic steps advanced during the frame
//
// Returns:
//   - bool: true if stats were logged this tick, false otherwise
func (p *Profiler) Tick(steps int) bool {
	p.frameCount++
	p.stepCount += steps
	currentTime := p.now()
	elapsed := currentTime.Sub(p.lastTime)

	if elapsed < p.updateInterval {
		return false
	}

	runtime.ReadMemStats(&p.memStats)
	s := Stats{
		FPS:        float64(p.frameCount) / elapsed.Seconds(),
		LogicSteps: p.stepCount,
		HeapMB:     float64(p.memStats.Alloc) / 1024 / 1024,
		SysMB:      float64(p.memStats.Sys) / 1024 / 1024,
		GCCount:    p.memStats.NumGC,
	}
	allocDelta := p.memStats.TotalAlloc - p.lastTotalAlloc
	s.AllocRateMB = float64(allocDelta) / 1024 / 1024 / elapsed.Seconds()

	if s.GCCount > 0 {
		// PauseNs is a circular buffer of the last 256 pauses
		s.LastPauseUs = p.memStats.PauseNs[(s.GCCount-1)%256] / 1000
		startIdx := p.lastGCCount
		if s.GCCount-startIdx > 256 {
			startIdx = s.GCCount - 256
		}
		for i := startIdx; i < s.GCCount; i++ {
			s.MaxPauseUs = max(s.MaxPauseUs, p.memStats.PauseNs[i%256]/1000)
		}
	}

	p.logger.WithFields(logrus.Fields{
		"fps":       s.FPS,
		"steps":     s.LogicSteps,
		"heapMB":    s.HeapMB,
		"allocRate": s.AllocRateMB,
		"gc":        s.GCCount,
		"lastPause": s.LastPauseUs,
		"maxPause":  s.MaxPauseUs,
		"sysMB":     s.SysMB,
	}).Info("profiler")

	p.frameCount = 0
	p.stepCount = 0
	p.lastTime = currentTime
	p.lastGCCount = s.GCCount
	p.lastTotalAlloc = p.memStats.TotalAlloc
	p.last = s
	return true
}

// Last returns the most recent report.
func (p *Profiler) Last() Stats {
	return p.last
}
