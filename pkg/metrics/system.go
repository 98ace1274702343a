package metrics

import (
	"context"
	"runtime"
	"time"
)

const nanosecondsPerMillisecond = 1e6

// SystemSnapshot is a point-in-time reading of process gauges.
type SystemSnapshot struct {
	HeapAllocBytes uint64
	Goroutines     int
	AvgGCPauseMs   float64
}

// CollectSystem reads runtime statistics and updates the system gauges.
func CollectSystem() SystemSnapshot {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	snap := SystemSnapshot{
		HeapAllocBytes: m.HeapAlloc,
		Goroutines:     runtime.NumGoroutine(),
	}
	if m.NumGC > 0 {
		snap.AvgGCPauseMs = float64(m.PauseTotalNs) / float64(m.NumGC) / nanosecondsPerMillisecond
	}
	UpdateSystem(snap.HeapAllocBytes, snap.Goroutines, snap.AvgGCPauseMs)
	return snap
}

// RunSystemCollector calls CollectSystem every interval until ctx is done.
func RunSystemCollector(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = globalManager.refreshInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			CollectSystem()
		}
	}
}
