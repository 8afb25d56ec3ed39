package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "http_requests_total", Help: "Total HTTP requests"},
		[]string{"route", "method", "status"},
	)
	ReqDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Request duration seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)
	InFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{Name: "http_in_flight_requests", Help: "In-flight HTTP requests"},
	)

	DomainsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "sendy_domains_created_total", Help: "Domains created or recreated"},
	)
	DomainsDeleted = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "sendy_domains_deleted_total", Help: "Domains deleted explicitly"},
	)
	UnlockAttempts = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "sendy_unlock_attempts_total", Help: "Unlock attempts by result"},
		[]string{"result"}, // ok | bad_password | limited
	)
	LiveDomains = prometheus.NewGauge(
		prometheus.GaugeOpts{Name: "sendy_live_domains", Help: "Unexpired domains, refreshed periodically"},
	)
	LiveTokens = prometheus.NewGauge(
		prometheus.GaugeOpts{Name: "sendy_live_tokens", Help: "Unexpired access tokens, refreshed periodically"},
	)
)

var registerOnce sync.Once

func MustRegister() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			RequestsTotal, ReqDuration, InFlight,
			DomainsCreated, DomainsDeleted, UnlockAttempts,
			LiveDomains, LiveTokens,
		)
	})
}
