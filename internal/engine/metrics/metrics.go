package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Decision counters. Outcome labels stay low-cardinality: resolution is
// resolved/unresolved, decisions are allow/deny/no_match.
var (
	StatusResolutions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "leadcore",
		Name:      "status_resolutions_total",
		Help:      "Lead status bucket resolutions by outcome.",
	}, []string{"module", "outcome"})

	AccessDecisions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "leadcore",
		Name:      "access_decisions_total",
		Help:      "Module enablement decisions by result.",
	}, []string{"module", "result"})

	PermissionDecisions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "leadcore",
		Name:      "permission_decisions_total",
		Help:      "Permission rule evaluations by decision.",
	}, []string{"decision"})

	ConfigResolutions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "leadcore",
		Name:      "config_resolutions_total",
		Help:      "Module config resolutions by source scope.",
	}, []string{"module", "source"})
)
