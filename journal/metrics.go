package journal

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var rollbacksTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "lucidwell",
		Subsystem: "journal",
		Name:      "optimistic_rollbacks_total",
		Help:      "Optimistic mutations reverted after a failed round trip.",
	},
	[]string{"op"},
)
