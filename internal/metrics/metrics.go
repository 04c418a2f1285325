package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	StatusOK      = "ok"
	StatusInvalid = "invalid"
)

var (
	logins = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clubshub_logins_total",
			Help: "Successful mock logins",
		},
		[]string{"user_type"},
	)

	loginFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "clubshub_login_failures_total",
			Help: "Login form submissions rejected by validation",
		},
	)

	logouts = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "clubshub_logouts_total",
			Help: "Logouts",
		},
	)

	registrations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clubshub_registrations_total",
			Help: "Registration form submissions",
		},
		[]string{"status"},
	)

	applications = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clubshub_applications_total",
			Help: "Join club form submissions",
		},
		[]string{"club", "status"},
	)
)

func Login(userType string) {
	logins.WithLabelValues(userType).Inc()
}

func LoginFailed() {
	loginFailures.Inc()
}

func Logout() {
	logouts.Inc()
}

func Registration(status string) {
	registrations.WithLabelValues(status).Inc()
}

func Application(club string, status string) {
	applications.WithLabelValues(club, status).Inc()
}
