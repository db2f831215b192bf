// Package metrics defines the Prometheus instrumentation for the mailer
// service. Counters are package-level and registered on the default
// registry; the HTTP server exposes them on /metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	MailSendSuccess = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sympoazzi_mail_send_success_total",
		Help: "Total number of deliveries that ended in success",
	}, []string{"template_type", "mode"})
	MailSendFailure = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sympoazzi_mail_send_failure_total",
		Help: "Total number of deliveries that ended in failure, by error category",
	}, []string{"template_type", "category"})
	MailRetries = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "sympoazzi_mail_retries_total",
		Help: "Total number of retry attempts scheduled after transient failures",
	})
	AuditAppendFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "sympoazzi_mail_audit_append_failures_total",
		Help: "Total number of audit-store appends that failed (swallowed)",
	})
	OversightNotified = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "sympoazzi_mail_oversight_notified_total",
		Help: "Total number of oversight notifications attempted",
	})
	OversightFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "sympoazzi_mail_oversight_failures_total",
		Help: "Total number of oversight notifications that failed (swallowed)",
	})
)

func init() {
	prometheus.MustRegister(
		MailSendSuccess,
		MailSendFailure,
		MailRetries,
		AuditAppendFailures,
		OversightNotified,
		OversightFailures,
	)
}

// Handler returns the HTTP handler serving the Prometheus exposition format.
func Handler() http.Handler {
	return promhttp.Handler()
}
