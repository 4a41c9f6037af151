package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	moderationVerdicts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "moderation_verdicts_total",
		Help: "Moderation verdicts by outcome.",
	}, []string{"verdict"})

	hourlyUsage = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "usage_requests_last_hour",
		Help: "Authenticated requests per endpoint in the last aggregated hour.",
	}, []string{"endpoint"})
)

func ObserveModerationVerdict(safe bool) {
	verdict := "safe"
	if !safe {
		verdict = "flagged"
	}
	moderationVerdicts.WithLabelValues(verdict).Inc()
}

func SetHourlyUsage(endpoint string, count int64) {
	hourlyUsage.WithLabelValues(endpoint).Set(float64(count))
}
