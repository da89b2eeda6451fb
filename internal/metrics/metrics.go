// Package metrics defines the Prometheus collectors exposed on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "studio", Name: "http_requests_total", Help: "Number of HTTP requests by method, route and status."},
		[]string{"method", "route", "status"},
	)
	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Namespace: "studio", Name: "http_request_duration_seconds", Help: "HTTP request latency by method and route."},
		[]string{"method", "route"},
	)
	ContactSubmissions = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "studio", Name: "contact_submissions_total", Help: "Number of accepted contact-form submissions."},
	)
	Uploads = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "studio", Name: "uploads_total", Help: "Number of accepted image uploads."},
	)
)

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(HTTPRequests)
	reg.MustRegister(HTTPDuration)
	reg.MustRegister(ContactSubmissions)
	reg.MustRegister(Uploads)
}
