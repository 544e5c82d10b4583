package obs

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	domainOnce sync.Once

	// QuotesPricedTotal counts order pricing outcomes by province.
	QuotesPricedTotal *prometheus.CounterVec
	// LinesPricedTotal counts single-line pricing outcomes.
	LinesPricedTotal *prometheus.CounterVec
	// TaxExtractTotal counts inverse tax extractions by province.
	TaxExtractTotal *prometheus.CounterVec
	// MarginSolveTotal counts target-margin price solutions by outcome.
	MarginSolveTotal *prometheus.CounterVec
	// QuotePricingLatency records order pricing latency in milliseconds.
	QuotePricingLatency prometheus.Histogram
)

// MustRegisterDomainMetrics initialises and registers domain-specific Prometheus collectors.
func MustRegisterDomainMetrics(namespace string, reg prometheus.Registerer) {
	domainOnce.Do(func() {
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		QuotesPricedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "quotes_priced_total",
			Help:      "Count of order pricing calculations by province and result.",
		}, []string{"province", "result"})
		LinesPricedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lines_priced_total",
			Help:      "Count of single-line pricing calculations by result.",
		}, []string{"result"})
		TaxExtractTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tax_extract_total",
			Help:      "Count of inverse tax extractions by province.",
		}, []string{"province"})
		MarginSolveTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "margin_solve_total",
			Help:      "Count of target-margin price solutions by result.",
		}, []string{"result"})
		QuotePricingLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "quote_pricing_duration_ms",
			Help:      "Latency of full order pricing in milliseconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 25},
		})
		reg.MustRegister(QuotesPricedTotal, LinesPricedTotal, TaxExtractTotal, MarginSolveTotal, QuotePricingLatency)
	})
}
