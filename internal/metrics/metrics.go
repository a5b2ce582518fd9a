package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	authzDenied = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "facility_scheduler",
			Name:      "authz_denied_total",
			Help:      "Count of operations rejected by the role gate.",
		},
		[]string{"operation"},
	)

	permissionCheckFailure = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "facility_scheduler",
			Name:      "permission_check_failure_total",
			Help:      "Count of permission checks that failed and were treated as denied.",
		},
		[]string{"check"},
	)

	scopeNarrowed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "facility_scheduler",
			Name:      "scope_narrowed_total",
			Help:      "Outcomes of instrument scope narrowing: full, narrowed or empty.",
		},
		[]string{"outcome"},
	)
)

// Register registers metrics (idempotent).
func Register() {
	once.Do(func() {
		prometheus.MustRegister(authzDenied, permissionCheckFailure, scopeNarrowed)
	})
}

func IncAuthzDenied(operation string) {
	authzDenied.WithLabelValues(operation).Inc()
}

func IncPermissionCheckFailure(check string) {
	permissionCheckFailure.WithLabelValues(check).Inc()
}

func IncScopeNarrowed(outcome string) {
	scopeNarrowed.WithLabelValues(outcome).Inc()
}
