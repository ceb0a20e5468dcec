package telemetry

import (
	"sync"
	"sync/atomic"
	"time"
)

const (
	// Default interval between gauge refresh cycles
	DefaultCollectInterval = 10 * time.Second
)

// StatsProvider interface for components that expose replay state
type StatsProvider interface {
	ReplayStats() (trackedChannels int, serverSupported bool)
}

// MetricsCollector periodically collects stats and updates telemetry gauges
type MetricsCollector struct {
	provider StatsProvider
	interval time.Duration
	stopCh   chan struct{}
	stopped  atomic.Bool
	wg       sync.WaitGroup
}

// NewMetricsCollector creates a new metrics collector
func NewMetricsCollector(provider StatsProvider, interval time.Duration) *MetricsCollector {
	// Set defaults
	if interval <= 0 {
		interval = DefaultCollectInterval
	}

	return &MetricsCollector{
		provider: provider,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// Start begins the periodic collection
func (mc *MetricsCollector) Start() {
	mc.wg.Add(1)
	go mc.collectLoop()
}

// Stop stops the collector and waits for the loop to exit. Safe to call
// more than once.
func (mc *MetricsCollector) Stop() {
	if mc.stopped.CompareAndSwap(false, true) {
		close(mc.stopCh)
	}
	mc.wg.Wait()
}

func (mc *MetricsCollector) collectLoop() {
	defer mc.wg.Done()

	ticker := time.NewTicker(mc.interval)
	defer ticker.Stop()

	mc.collect()

	for {
		select {
		case <-ticker.C:
			mc.collect()
		case <-mc.stopCh:
			return
		}
	}
}

func (mc *MetricsCollector) collect() {
	if mc.provider == nil {
		return
	}

	tracked, supported := mc.provider.ReplayStats()

	TrackedChannels.Set(float64(tracked))
	if supported {
		ServerSupported.Set(1)
	} else {
		ServerSupported.Set(0)
	}
}
