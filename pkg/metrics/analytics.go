package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// Events accepted by the tracking ingestion endpoint, by type
	TrackedEventsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "shopradar_tracked_events_total",
		Help: "Total number of product events accepted by the tracker",
	}, []string{"event_type"})

	// Latency of a full recommendation evaluation pass
	RecommendationPassLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "shopradar_recommendation_pass_latency_seconds",
		Help:    "Latency of recommendation engine evaluation passes",
		Buckets: prometheus.DefBuckets,
	})

	// Rule matches produced by the recommendation engine, by reason code
	RecommendationMatchesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "shopradar_recommendation_matches_total",
		Help: "Total number of recommendation rule matches",
	}, []string{"reason"})

	// Latency of dashboard analytics computations, by analyzer
	AnalyzerLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "shopradar_analyzer_latency_seconds",
		Help:    "Latency of analytics computations",
		Buckets: prometheus.DefBuckets,
	}, []string{"analyzer"})
)

func Init() {
	prometheus.MustRegister(
		TrackedEventsTotal,
		RecommendationPassLatency,
		RecommendationMatchesTotal,
		AnalyzerLatency,
	)
}
