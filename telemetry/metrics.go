package telemetry

// Histogram bucket definitions
var (
	// CallbackBuckets for application marker-change callbacks, which run
	// synchronously inside the message pipeline and are expected to be fast
	CallbackBuckets = []float64{0.000001, 0.00001, 0.0001, 0.001, 0.01, 0.1, 1}
)

// Marker Store Metrics
var (
	// MarkerUpdatesTotal counts marker writes by source (event, explicit)
	MarkerUpdatesTotal CounterVec = noopCounterVec{}

	// MarkersDroppedTotal counts inbound marker candidates discarded by reason
	// (unconfirmed, filtered, malformed)
	MarkersDroppedTotal CounterVec = noopCounterVec{}

	// CallbackDurationSeconds measures marker-change callback latency
	CallbackDurationSeconds Histogram = NoopStat{}

	// TrackedChannels tracks the number of channels with a stored marker;
	// updated by MetricsCollector
	TrackedChannels Gauge = NoopStat{}
)

// Negotiation Metrics
var (
	// HandshakesStampedTotal counts handshake requests stamped with the
	// replay capability advertisement
	HandshakesStampedTotal Counter = NoopStat{}

	// ServerSupported indicates whether the server has confirmed replay
	// support (1=yes, 0=not yet); updated by MetricsCollector
	ServerSupported Gauge = NoopStat{}
)

// Stamping Metrics
var (
	// SubscribeSnapshotsTotal counts subscribe requests stamped with a
	// marker snapshot
	SubscribeSnapshotsTotal Counter = NoopStat{}

	// WatchDropsTotal counts watcher notifications dropped on full buffers
	WatchDropsTotal Counter = NoopStat{}
)

// InitMetrics initializes all Prometheus metrics.
// Must be called after Initialize().
func InitMetrics() {
	// Marker Store Metrics
	MarkerUpdatesTotal = NewCounterVec(
		"marker_updates_total",
		"Marker writes by source",
		[]string{"source"},
	)
	MarkersDroppedTotal = NewCounterVec(
		"markers_dropped_total",
		"Inbound marker candidates discarded by reason",
		[]string{"reason"},
	)
	CallbackDurationSeconds = NewHistogramWithBuckets(
		"callback_duration_seconds",
		"Marker-change callback latency in seconds",
		CallbackBuckets,
	)
	TrackedChannels = NewGauge(
		"tracked_channels",
		"Number of channels with a stored marker",
	)

	// Negotiation Metrics
	HandshakesStampedTotal = NewCounter(
		"handshakes_stamped_total",
		"Handshake requests stamped with the replay capability advertisement",
	)
	ServerSupported = NewGauge(
		"server_supported",
		"Whether the server confirmed replay support (1=yes, 0=not yet)",
	)

	// Stamping Metrics
	SubscribeSnapshotsTotal = NewCounter(
		"subscribe_snapshots_total",
		"Subscribe requests stamped with a marker snapshot",
	)
	WatchDropsTotal = NewCounter(
		"watch_drops_total",
		"Watcher notifications dropped on full buffers",
	)
}
