package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	AnalysesStarted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "critnet_analyses_started_total",
		Help: "Total number of analyses accepted onto the work queue.",
	})

	AnalysesCompleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "critnet_analyses_completed_total",
		Help: "Total number of analyses that produced a report.",
	})

	AnalysesFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "critnet_analyses_failed_total",
		Help: "Total number of analyses that ended in an error.",
	})

	AnalysesRejected = promauto.NewCounter(prometheus.CounterOpts{
		Name: "critnet_analyses_rejected_total",
		Help: "Total number of analyses rejected due to a full queue.",
	})

	AnalysesByRule = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "critnet_analyses_by_rule_total",
		Help: "Total number of completed analyses, labelled by roll-up rule.",
	}, []string{"rule"})

	AnalysisDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "critnet_analysis_duration_ms",
		Help:    "End-to-end analysis latency in milliseconds.",
		Buckets: []float64{10, 50, 250, 1000, 5000, 15000, 60000, 300000},
	})

	SamplesAccepted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "critnet_samples_accepted_total",
		Help: "Total number of distinct visibility states recorded across all analyses.",
	})

	SamplesDuplicate = promauto.NewCounter(prometheus.CounterOpts{
		Name: "critnet_samples_duplicate_total",
		Help: "Total number of samples discarded as repeats of an already-seen state.",
	})

	QueueUtilization = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "critnet_queue_utilization_ratio",
		Help: "Current analysis queue utilization (0–1).",
	})
)
