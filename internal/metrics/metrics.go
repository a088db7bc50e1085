package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "site"

// Registry holds all application metrics. A dedicated registry keeps
// the /metrics endpoint free of stray default collectors.
var Registry = prometheus.NewRegistry()

// AppInfo exposes build information as labels, value always 1.
var AppInfo = promauto.With(Registry).NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "app_info",
		Help:      "Application version information (always set to 1, version info in labels)",
	},
	[]string{"version", "commit", "build_date", "app"},
)

// Pageview pipeline metrics.
var (
	PageviewsRecorded = promauto.With(Registry).NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pageviews_recorded_total",
			Help:      "Total number of pageviews persisted",
		},
	)

	PageviewsDropped = promauto.With(Registry).NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pageviews_dropped_total",
			Help:      "Total number of pageviews dropped because the queue was full",
		},
	)

	PageviewsFailed = promauto.With(Registry).NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pageviews_failed_total",
			Help:      "Total number of pageview inserts that failed",
		},
	)
)

// LoginAttempts counts login outcomes by result label.
var LoginAttempts = promauto.With(Registry).NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_attempts_total",
		Help:      "Total number of login attempts",
	},
	[]string{"result"},
)

// PartialRequestsBlocked counts HTMX partial requests rejected by the
// origin guard.
var PartialRequestsBlocked = promauto.With(Registry).NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "partial_requests_blocked_total",
		Help:      "Total number of partial requests blocked by the origin guard",
	},
)

// Init registers runtime collectors and stamps build info.
func Init(version, commit, buildDate, app string) {
	Registry.MustRegister(collectors.NewGoCollector())
	Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	AppInfo.WithLabelValues(version, commit, buildDate, app).Set(1)
}
