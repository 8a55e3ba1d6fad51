package dedupe

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	hitsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "lucidwell",
			Subsystem: "dedupe",
			Name:      "hits_total",
			Help:      "Calls that joined an already in-flight request.",
		},
	)

	missesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "lucidwell",
			Subsystem: "dedupe",
			Name:      "misses_total",
			Help:      "Calls that invoked their producer.",
		},
	)

	inflight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "lucidwell",
			Subsystem: "dedupe",
			Name:      "inflight",
			Help:      "Producers currently running.",
		},
	)
)
