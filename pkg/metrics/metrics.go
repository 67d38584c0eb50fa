package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	CompileAttempts = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "mathplanner", Name: "compile_attempts_total", Help: "Compilation strategy attempts by strategy and outcome."},
		[]string{"strategy", "outcome"},
	)
	CompileDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Namespace: "mathplanner", Name: "compile_duration_seconds", Help: "Duration of compilation strategy attempts.", Buckets: prometheus.DefBuckets},
		[]string{"strategy"},
	)
	DocumentsGenerated = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "mathplanner", Name: "documents_generated_total", Help: "Generated documents by final strategy."},
		[]string{"strategy"},
	)
	AIDrafts = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "mathplanner", Name: "ai_drafts_total", Help: "AI draft requests by outcome (accepted, rejected, failed)."},
		[]string{"outcome"},
	)
	RateLimitAllowed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "mathplanner", Name: "rate_limit_allowed_total", Help: "Number of allowed requests by limiter type."},
		[]string{"limiter"},
	)
	RateLimitRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "mathplanner", Name: "rate_limit_rejected_total", Help: "Number of rejected requests by limiter type."},
		[]string{"limiter"},
	)
)

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(CompileAttempts)
	reg.MustRegister(CompileDuration)
	reg.MustRegister(DocumentsGenerated)
	reg.MustRegister(AIDrafts)
	reg.MustRegister(RateLimitAllowed)
	reg.MustRegister(RateLimitRejected)
}
