package profiler

import (
	"log"
	"runtime"
	"time"
)

// FrameStats describes the animation work done in one frame.
type FrameStats struct {
	// Instances is the number of animated instances advanced.
	Instances int
	// Joints is the number of palette matrices resolved.
	Joints int
	// Prepare is the wall time spent advancing and resolving.
	Prepare time.Duration
}

// Profiler tracks frame rate, animation throughput and memory statistics for performance
// monitoring. Outputs stats to the log at a configurable interval.
type Profiler struct {
	frameCount     int
	lastTime       time.Time
	updateInterval time.Duration
	memStats       runtime.MemStats
	lastGCCount    uint32
	lastTotalAlloc uint64

	instances    int
	jointsTotal  int
	prepareTotal time.Duration
	last         Report
}

// Report is the summary computed at the end of an update interval.
type Report struct {
	FPS             float64
	Instances       int
	JointsPerSecond float64
	AvgPrepare      time.Duration
	HeapMB          float64
	AllocRateMB     float64
	GCCount         uint32
}

// NewProfiler creates a new Profiler with default settings.
// Update interval defaults to 1 second.
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler() *Profiler {
	return &Profiler{
		frameCount:     0,
		lastTime:       time.Now(),
		updateInterval: time.Second,
		memStats:       runtime.MemStats{},
	}
}

// SetInterval changes how often Tick logs a report.
//
// Parameters:
//   - d: the update interval
func (p *Profiler) SetInterval(d time.Duration) {
	p.updateInterval = d
}

// Record adds the animation statistics of the current frame. Call it before Tick.
//
// Parameters:
//   - stats: the frame's animation statistics
func (p *Profiler) Record(stats FrameStats) {
	p.instances = stats.Instances
	p.jointsTotal += stats.Joints
	p.prepareTotal += stats.Prepare
}

// Last returns the most recently logged report.
//
// Returns:
//   - Report: the last report, zero before the first interval elapses
func (p *Profiler) Last() Report {
	return p.last
}

// Tick should be called once per frame to track frame timing.
// Logs performance statistics when the update interval has elapsed.
// Statistics include: FPS, animated instances, joints resolved per second, average prepare
// time, heap usage, allocation rate, GC count/pause times, total memory.
//
// Returns:
//   - bool: true if stats were logged this tick, false otherwise
func (p *Profiler) Tick() bool {
	p.frameCount++
	currentTime := time.Now()
	elapsed := currentTime.Sub(p.lastTime)

	if elapsed < p.updateInterval {
		return false
	}
	seconds := max(elapsed.Seconds(), 1e-9)

	runtime.ReadMemStats(&p.memStats)
	allocMB := float64(p.memStats.Alloc) / 1024 / 1024
	sysMB := float64(p.memStats.Sys) / 1024 / 1024
	allocDelta := p.memStats.TotalAlloc - p.lastTotalAlloc
	allocRateMB := float64(allocDelta) / 1024 / 1024 / seconds

	// PauseNs is a circular buffer of the last 256 GC pauses.
	gcCount := p.memStats.NumGC
	var lastPauseUs, maxPauseUs uint64
	if gcCount > 0 {
		lastPauseUs = p.memStats.PauseNs[(gcCount-1)%256] / 1000
		startIdx := p.lastGCCount
		if gcCount-startIdx > 256 {
			startIdx = gcCount - 256
		}
		for i := startIdx; i < gcCount; i++ {
			maxPauseUs = max(maxPauseUs, p.memStats.PauseNs[i%256]/1000)
		}
	}

	p.last = Report{
		FPS:             float64(p.frameCount) / seconds,
		Instances:       p.instances,
		JointsPerSecond: float64(p.jointsTotal) / seconds,
		AvgPrepare:      p.prepareTotal / time.Duration(p.frameCount),
		HeapMB:          allocMB,
		AllocRateMB:     allocRateMB,
		GCCount:         gcCount,
	}

	log.Printf("[Profiler] FPS: %.2f | Instances: %d | Joints/s: %.0f | Prepare: %s | Heap: %.2f MB | Alloc Rate: %.2f MB/s | GC: %d (last: %d µs, max: %d µs) | Sys: %.2f MB",
		p.last.FPS, p.last.Instances, p.last.JointsPerSecond, p.last.AvgPrepare, allocMB, allocRateMB, gcCount, lastPauseUs, maxPauseUs, sysMB)

	p.frameCount = 0
	p.jointsTotal = 0
	p.prepareTotal = 0
	p.lastTime = currentTime
	p.lastGCCount = gcCount
	p.lastTotalAlloc = p.memStats.TotalAlloc
	return true
}
