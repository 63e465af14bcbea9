// Package metrics exposes Prometheus collectors for the voting service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics bundles the service collectors around one registry.
type Metrics struct {
	Registry      *prometheus.Registry
	VotesCast     prometheus.Counter
	VotesRejected *prometheus.CounterVec
	Requests      *prometheus.CounterVec
}

// New creates a registry with all service collectors registered.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		Registry: registry,
		VotesCast: factory.NewCounter(prometheus.CounterOpts{
			Name: "ballotbox_votes_cast_total",
			Help: "Number of successfully recorded votes.",
		}),
		VotesRejected: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "ballotbox_votes_rejected_total",
			Help: "Number of rejected vote attempts by reason.",
		}, []string{"reason"}),
		Requests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "ballotbox_http_requests_total",
			Help: "Number of HTTP requests by method and status.",
		}, []string{"method", "status"}),
	}
}
