package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// Client side
	FetchesTotal        *prometheus.CounterVec
	StaleResultsTotal   prometheus.Counter
	SendsTotal          *prometheus.CounterVec
	PushEventsTotal     *prometheus.CounterVec
	PollIntervalSeconds prometheus.Gauge

	// Development messaging service
	RequestsTotal *prometheus.CounterVec
	PushClients   prometheus.Gauge
)

func init() {
	FetchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "xela",
			Subsystem: "sync",
			Name:      "fetches_total",
			Help:      "Conversation fetches by trigger and outcome",
		},
		[]string{"trigger", "status"},
	)

	StaleResultsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "xela",
			Subsystem: "sync",
			Name:      "stale_results_total",
			Help:      "Fetch results discarded because a newer result was already applied or the view was gone",
		},
	)

	SendsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "xela",
			Subsystem: "sync",
			Name:      "sends_total",
			Help:      "Outbound messages by outcome",
		},
		[]string{"status"},
	)

	PushEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "xela",
			Subsystem: "push",
			Name:      "events_total",
			Help:      "Push events received by type",
		},
		[]string{"event"},
	)

	PollIntervalSeconds = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "xela",
			Subsystem: "sync",
			Name:      "poll_interval_seconds",
			Help:      "Delay before the next scheduled poll",
		},
	)

	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "xela",
			Subsystem: "messaging",
			Name:      "requests_total",
			Help:      "Messaging service requests by route and status",
		},
		[]string{"route", "status"},
	)

	PushClients = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "xela",
			Subsystem: "messaging",
			Name:      "push_clients",
			Help:      "Connected push subscribers",
		},
	)

	prometheus.MustRegister(
		FetchesTotal,
		StaleResultsTotal,
		SendsTotal,
		PushEventsTotal,
		PollIntervalSeconds,
		RequestsTotal,
		PushClients,
	)
}
