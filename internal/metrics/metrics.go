package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	LinksIssuedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "paylink_links_issued_total",
			Help: "Payment links issued",
		},
	)

	SubmissionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "paylink_submissions_total",
			Help: "Submission outcomes",
		},
		[]string{"outcome"}, // accepted|rejected|dispatch_failed
	)

	NotificationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "paylink_notifications_total",
			Help: "Notification sends by recipient role and status",
		},
		[]string{"role", "status"}, // customer|reviewer , sent|failed
	)
)

func MustRegister(r prometheus.Registerer) {
	r.MustRegister(
		LinksIssuedTotal,
		SubmissionsTotal,
		NotificationsTotal,
	)
}
