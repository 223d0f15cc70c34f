package rebalancer

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	plansTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "rebalancer",
		Name:      "plans_total",
		Help:      "Number of produced rebalance plans by outcome.",
	}, []string{"outcome"})

	quoteFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "rebalancer",
		Name:      "quote_failures_total",
		Help:      "Number of per-leg quote failures.",
	})

	gasSavingsPercent = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "rebalancer",
		Name:      "gas_savings_percent",
		Help:      "Estimated gas savings of batch over individual execution.",
		Buckets:   prometheus.LinearBuckets(0, 5, 12),
	})

	recommendationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "rebalancer",
		Name:      "recommendations_total",
		Help:      "Number of batch-vs-individual recommendations.",
	}, []string{"recommendation"})
)
