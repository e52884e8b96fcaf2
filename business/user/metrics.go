package user

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	resultSuccess  = "success"
	resultFailure  = "failure"
	resultConflict = "conflict"
	resultError    = "error"
)

var (
	registrationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "user_registrations_total",
			Help: "Count of registration attempts by result.",
		},
		[]string{"result"},
	)

	loginsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "user_logins_total",
			Help: "Count of login attempts by result.",
		},
		[]string{"result"},
	)
)

func init() {
	prometheus.MustRegister(registrationsTotal, loginsTotal)
}
