// Package metrics содержит счётчики Prometheus для наблюдения за решениями о доступе.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// AccessDecisions считает вычисленные решения о доступе по их виду.
var AccessDecisions = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "coach_access_decisions_total",
		Help: "Number of access decisions by kind.",
	},
	[]string{"kind"},
)

// EnrollmentsCreated считает созданные записи на программы.
var EnrollmentsCreated = promauto.NewCounter(
	prometheus.CounterOpts{
		Name: "coach_enrollments_created_total",
		Help: "Number of enrollments created.",
	},
)
