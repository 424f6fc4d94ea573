package metrics

import "github.com/prometheus/client_golang/prometheus"

// LeadMetrics exposes counters for the lead capture flow.
type LeadMetrics struct {
	submissionsTotal   *prometheus.CounterVec
	notificationsTotal *prometheus.CounterVec
}

func NewLeadMetrics(reg prometheus.Registerer) *LeadMetrics {
	m := &LeadMetrics{
		submissionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "settlo",
			Subsystem: "leads",
			Name:      "submissions_total",
			Help:      "Total lead submissions by source and outcome",
		}, []string{"source", "status"}),
		notificationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "settlo",
			Subsystem: "leads",
			Name:      "notifications_total",
			Help:      "Total lead alert emails by outcome",
		}, []string{"status"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.submissionsTotal, m.notificationsTotal)
	return m
}

func (m *LeadMetrics) ObserveSubmission(source, status string) {
	if m == nil {
		return
	}
	if source == "" {
		source = "unknown"
	}
	m.submissionsTotal.WithLabelValues(source, status).Inc()
}

func (m *LeadMetrics) ObserveNotification(status string) {
	if m == nil {
		return
	}
	m.notificationsTotal.WithLabelValues(status).Inc()
}
