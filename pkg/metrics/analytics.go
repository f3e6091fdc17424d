package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// Latency of the recommendations HTTP handler
	RecommendLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "recommend_latency_seconds",
		Help:    "Latency of the product recommendations handler",
		Buckets: prometheus.DefBuckets,
	})

	// Which fallback tier ended up serving each recommendation request
	RecommendServedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommend_served_total",
			Help: "Count of recommendation responses by serving tier.",
		},
		[]string{"tier"},
	)

	EventsTrackedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "events_tracked_total",
			Help: "Count of recorded user events by event type.",
		},
		[]string{"event_type"},
	)

	ProfileRefreshTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "behavior_profile_refresh_total",
		Help: "Total number of behavior profile recomputations",
	})
)

func Init() {
	prometheus.MustRegister(
		RecommendLatency,
		RecommendServedTotal,
		EventsTrackedTotal,
		ProfileRefreshTotal,
	)
}
