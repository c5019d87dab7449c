package event

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
)

// MetricsNotifier counts events in jobdesk_domain_events_total{event}.
type MetricsNotifier struct {
	events *prometheus.CounterVec
}

func NewMetricsNotifier(reg prometheus.Registerer) (*MetricsNotifier, error) {
	events := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "jobdesk",
		Name:      "domain_events_total",
		Help:      "Domain events emitted, by event name.",
	}, []string{"event"})
	if reg != nil {
		if err := reg.Register(events); err != nil {
			return nil, err
		}
	}
	return &MetricsNotifier{events: events}, nil
}

// Counter returns the counter for one event name.
func (m *MetricsNotifier) Counter(name string) prometheus.Counter {
	return m.events.WithLabelValues(name)
}

func (m *MetricsNotifier) JobStatusChanged(context.Context, JobStatusChanged) {
	m.events.WithLabelValues(NameJobStatusChanged).Inc()
}

func (m *MetricsNotifier) JobNoteCreated(context.Context, JobNoteCreated) {
	m.events.WithLabelValues(NameJobNoteCreated).Inc()
}

func (m *MetricsNotifier) JobNoteUpdated(context.Context, JobNoteUpdated) {
	m.events.WithLabelValues(NameJobNoteUpdated).Inc()
}
