package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collector holds the prometheus series the services report into. A nil *Collector is a no-op.
type Collector struct {
	onboardingResults *prometheus.CounterVec
	engagementEvents  *prometheus.CounterVec
	usernameChecks    *prometheus.CounterVec
}

// NewCollector registers the series on reg. Tests pass prometheus.NewRegistry().
func NewCollector(namespace string, reg prometheus.Registerer) *Collector {
	factory := promauto.With(reg)

	return &Collector{
		onboardingResults: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "onboarding_results_total",
				Help:      "Onboarding workflow results by step and outcome",
			},
			[]string{"step", "outcome"},
		),
		engagementEvents: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "engagement_events_total",
				Help:      "Engagement events by type and dedup result",
			},
			[]string{"event", "result"},
		),
		usernameChecks: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "username_checks_total",
				Help:      "Username availability checks by tone",
			},
			[]string{"tone"},
		),
	}
}

func (c *Collector) ObserveOnboarding(step, outcome string) {
	if c == nil {
		return
	}
	c.onboardingResults.WithLabelValues(step, outcome).Inc()
}

// ObserveEngagement records one event. result is one of counted, duplicate, owner, cache_error.
func (c *Collector) ObserveEngagement(event, result string) {
	if c == nil {
		return
	}
	c.engagementEvents.WithLabelValues(event, result).Inc()
}

func (c *Collector) ObserveUsernameCheck(tone string) {
	if c == nil {
		return
	}
	c.usernameChecks.WithLabelValues(tone).Inc()
}
