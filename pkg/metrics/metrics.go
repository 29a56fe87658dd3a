package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	MirrorUpserts = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "mirrorapi", Name: "mirror_upserts_total", Help: "Number of mirror upserts by outcome (created|updated)."},
		[]string{"outcome"},
	)
	MirrorDeletes = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "mirrorapi", Name: "mirror_deletes_total", Help: "Number of mirror records removed."},
	)
	AdminRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "mirrorapi", Name: "bot_admin_requests_total", Help: "Number of admin bot-registry requests by operation."},
		[]string{"op"},
	)
	EventsPublished = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "mirrorapi", Name: "events_published_total", Help: "Number of mirror events published downstream by type."},
		[]string{"type"},
	)
	RateLimitAllowed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "mirrorapi", Name: "rate_limit_allowed_total", Help: "Number of allowed requests by limiter type."},
		[]string{"limiter"},
	)
	RateLimitRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "mirrorapi", Name: "rate_limit_rejected_total", Help: "Number of rejected requests by limiter type."},
		[]string{"limiter"},
	)
)

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(MirrorUpserts)
	reg.MustRegister(MirrorDeletes)
	reg.MustRegister(AdminRequests)
	reg.MustRegister(EventsPublished)
	reg.MustRegister(RateLimitAllowed)
	reg.MustRegister(RateLimitRejected)
}
