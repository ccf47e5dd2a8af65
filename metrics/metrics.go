package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestCounter counts HTTP requests by status code, method, and path
	RequestCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aperture_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"status", "method", "path"},
	)

	// RequestDuration measures HTTP request duration
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "aperture_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"status", "method", "path"},
	)

	// RequestInProgress counts HTTP requests currently being processed
	RequestInProgress = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "aperture_http_requests_in_progress",
			Help: "Number of HTTP requests currently being processed",
		},
		[]string{"method", "path"},
	)

	// RateLimiterRejections counts rejected requests due to rate limiting
	RateLimiterRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aperture_rate_limiter_rejections_total",
			Help: "Total number of requests rejected by rate limiter",
		},
		[]string{"ip"},
	)

	// EntriesSubmitted counts accepted challenge entries
	EntriesSubmitted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "aperture_entries_submitted_total",
			Help: "Total number of accepted challenge entries",
		},
	)

	// VotesToggled counts vote toggles by direction ("on" or "off")
	VotesToggled = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aperture_votes_toggled_total",
			Help: "Total number of vote toggles by direction",
		},
		[]string{"direction"},
	)

	// PhaseTransitions counts phase transitions applied by the engine,
	// labeled with the phase entered
	PhaseTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aperture_phase_transitions_total",
			Help: "Total number of challenge phase transitions applied",
		},
		[]string{"to_phase"},
	)

	// WebsocketClients tracks connected leaderboard websocket clients
	WebsocketClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "aperture_websocket_clients",
			Help: "Number of connected leaderboard websocket clients",
		},
	)

	// CacheHits counts the number of leaderboard cache hits
	CacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "aperture_cache_hits_total",
			Help: "Total number of cache hits",
		},
	)

	// CacheMisses counts the number of leaderboard cache misses
	CacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "aperture_cache_misses_total",
			Help: "Total number of cache misses",
		},
	)

	// MemoryStats tracks memory usage stats
	MemoryStats = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "aperture_memory_stats_bytes",
			Help: "Memory statistics in bytes",
		},
		[]string{"type"},
	)

	// GoroutineCount tracks the number of goroutines
	GoroutineCount = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "aperture_goroutine_count",
			Help: "Number of goroutines",
		},
	)

	// SystemCPUUsage tracks CPU usage percentage
	SystemCPUUsage = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "aperture_system_cpu_usage_percent",
			Help: "CPU usage percentage by core",
		},
		[]string{"core"},
	)

	// SystemDiskUsage tracks disk usage
	SystemDiskUsage = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "aperture_system_disk_usage_bytes",
			Help: "Disk usage statistics in bytes",
		},
		[]string{"path", "type"}, // type is "used", "free", or "total"
	)

	// SystemLoadAverage tracks system load averages
	SystemLoadAverage = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "aperture_system_load_average",
			Help: "System load average",
		},
		[]string{"period"}, // "1min", "5min", "15min"
	)
)
