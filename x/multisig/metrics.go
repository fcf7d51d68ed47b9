package multisig

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	proposalsCounter = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "msig",
		Name:      "proposals_total",
		Help:      "The total number of proposed transactions",
	})
	confirmationsCounter = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "msig",
		Name:      "confirmations_total",
		Help:      "The total number of owner confirmations",
	})
	revocationsCounter = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "msig",
		Name:      "revocations_total",
		Help:      "The total number of revoked confirmations",
	})
	executionsCounter = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "msig",
		Name:      "executions_total",
		Help:      "The total number of execution attempts by outcome",
	}, []string{"outcome"})
	inFlightGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "msig",
		Name:      "executions_in_flight",
		Help:      "The number of transfers currently in progress",
	})
)
