package composer

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var requestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "composer_requests_total",
		Help: "Requests issued by the composer store, by intent and outcome",
	},
	[]string{"intent", "outcome"},
)
