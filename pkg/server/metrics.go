package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/peakguard/peakguard/pkg/session"
	"github.com/peakguard/peakguard/pkg/types"
	"github.com/prometheus/client_golang/prometheus"
)

type metrics struct {
	httpRequests       *prometheus.CounterVec
	httpDuration       *prometheus.HistogramVec
	evaluations        *prometheus.CounterVec
	evaluationErrors   *prometheus.CounterVec
	predictedLoad      prometheus.Histogram
	transformFallbacks prometheus.Counter
}

func newMetrics(reg prometheus.Registerer, sessions *session.Map) *metrics {
	m := &metrics{
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "peakguard_http_requests_total",
			Help: "Total count of HTTP requests processed by route and status.",
		}, []string{"route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "peakguard_http_request_duration_seconds",
			Help:    "Histogram of HTTP request durations by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		evaluations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "peakguard_evaluations_total",
			Help: "Completed evaluation cycles by applied policy and whether the limit was breached.",
		}, []string{"policy", "breached"}),
		evaluationErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "peakguard_evaluation_errors_total",
			Help: "Evaluation cycles that produced no result, by reason.",
		}, []string{"reason"}),
		predictedLoad: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "peakguard_predicted_load_kw",
			Help:    "Histogram of predicted building load in kW.",
			Buckets: prometheus.ExponentialBuckets(10, 2, 12),
		}),
		transformFallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "peakguard_transform_fallbacks_total",
			Help: "Predictions where the inverse transform was implausible and the raw output was used.",
		}),
	}

	reg.MustRegister(
		m.httpRequests,
		m.httpDuration,
		m.evaluations,
		m.evaluationErrors,
		m.predictedLoad,
		m.transformFallbacks,
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "peakguard_sessions",
			Help: "Number of operator sessions held in memory.",
		}, func() float64 { return float64(sessions.Len()) }),
	)
	return m
}

func (m *metrics) observeEvaluation(r types.DecisionResult) {
	m.evaluations.WithLabelValues(string(r.Mitigation.Policy), strconv.FormatBool(r.Breached)).Inc()
	m.predictedLoad.Observe(r.RawPredictedLoadKW)
	if r.TransformFallback {
		m.transformFallbacks.Inc()
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(status int) {
	s.status = status
	s.ResponseWriter.WriteHeader(status)
}

// handle registers h on mux under pattern and records request metrics using
// the pattern as the route.
func (s *Server) handle(mux *http.ServeMux, pattern string, h http.HandlerFunc) {
	mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		h(rec, r)
		s.metrics.httpRequests.WithLabelValues(pattern, strconv.Itoa(rec.status)).Inc()
		s.metrics.httpDuration.WithLabelValues(pattern).Observe(time.Since(start).Seconds())
	})
}
