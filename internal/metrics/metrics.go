package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "poiapi_requests_total",
		Help: "Total number of /points-of-interest requests by status code class",
	}, []string{"code"})
	PipelineRunsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "poiapi_pipeline_runs_total",
		Help: "Pipeline runs by outcome",
	}, []string{"outcome"})
	PipelineRunsInFlight = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "poiapi_pipeline_runs_in_flight",
		Help: "Pipeline runs currently executing",
	})
	PipelineDurationMs = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "poiapi_pipeline_duration_ms",
		Help:    "Pipeline run duration in milliseconds",
		Buckets: []float64{1, 5, 10, 50, 100, 500, 1000, 5000, 30000},
	})
	EventsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "poiapi_events_total",
		Help: "Events read from the stream by match outcome",
	}, []string{"outcome"})
	MalformedRowsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "poiapi_malformed_rows_total",
		Help: "Event rows with non-numeric coordinates or unknown event_type",
	})
	ReferenceSetSize = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "poiapi_reference_set_size",
		Help: "Number of points of interest loaded by the last run",
	})
	RefCacheHitsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "poiapi_refcache_hits_total",
		Help: "Reference set redis cache hits",
	})
	RefCacheMissesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "poiapi_refcache_misses_total",
		Help: "Reference set redis cache misses",
	})
)

func init() {
	prometheus.MustRegister(RequestsTotal)
	prometheus.MustRegister(PipelineRunsTotal)
	prometheus.MustRegister(PipelineRunsInFlight)
	prometheus.MustRegister(PipelineDurationMs)
	prometheus.MustRegister(EventsTotal)
	prometheus.MustRegister(MalformedRowsTotal)
	prometheus.MustRegister(ReferenceSetSize)
	prometheus.MustRegister(RefCacheHitsTotal)
	prometheus.MustRegister(RefCacheMissesTotal)
}

// 文档注释：返回 Prometheus 指标处理器，在主入口挂载到 /metrics
func Handler() http.Handler { return promhttp.Handler() }
