// Package metrics объявляет метрики Prometheus консоли.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "cloud_console"

var (
	// TrackingEvents опубликованные события аналитики по типу и классу статуса.
	TrackingEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "tracking",
		Name:      "events_total",
		Help:      "Total analytics events published by type and status class.",
	}, []string{"type", "status_class"})

	// TrackingPublishFailures события, которые не удалось опубликовать.
	TrackingPublishFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "tracking",
		Name:      "publish_failures_total",
		Help:      "Total analytics events dropped because publishing failed.",
	}, []string{"type"})

	BannerSeverity = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "billing",
		Name:      "banner_severity_total",
		Help:      "Billing banner decisions by severity.",
	}, []string{"severity"})

	NavigationDecisions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "routing",
		Name:      "decisions_total",
		Help:      "Console navigation decisions by kind.",
	}, []string{"kind"})

	WorkspaceSwitches = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "routing",
		Name:      "workspace_switches_total",
		Help:      "Sessions entering a workspace different from the previous one.",
	})

	HealthUp = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "health",
		Name:      "api_up",
		Help:      "1 when the last health probe of the config API succeeded.",
	})

	HealthChecks = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "health",
		Name:      "checks_total",
		Help:      "Health probes by result.",
	}, []string{"result"}) // "up", "down"

	ForwardedEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "forwarder",
		Name:      "events_total",
		Help:      "Analytics events consumed by the forwarder by result.",
	}, []string{"result"}) // "stored", "invalid", "failed"
)

// StatusClass сворачивает HTTP-статус в метку вида 2xx.
func StatusClass(code int) string {
	switch {
	case code >= 500:
		return "5xx"
	case code >= 400:
		return "4xx"
	case code >= 300:
		return "3xx"
	case code >= 200:
		return "2xx"
	default:
		return "other"
	}
}
