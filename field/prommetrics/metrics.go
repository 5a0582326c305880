package prommetrics

import (
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/vortex-fintech/go-phonemask/field"
)

// PromObserver implements field.Observer using Prometheus.
type PromObserver struct {
	events        *prometheus.CounterVec
	notifications *prometheus.CounterVec
	queued        prometheus.Counter
	rejected      *prometheus.CounterVec
}

var _ field.Observer = (*PromObserver)(nil)

// registerCollector registers c and returns the collector to record into.
// When an identical collector is already registered, that one is returned.
func registerCollector[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
			return c, fmt.Errorf("register collector: existing collector has type %T", are.ExistingCollector)
		}
		return c, fmt.Errorf("register collector: %w", err)
	}
	return c, nil
}

// New creates a PromObserver and registers its collectors.
//
// Metrics registered:
//   - {namespace}_{subsystem}_events_total{event, mode}
//   - {namespace}_{subsystem}_notifications_total{kind}
//   - {namespace}_{subsystem}_queued_external_values_total
//   - {namespace}_{subsystem}_rejected_events_total{event, reason}
//
// Returns error if reg is nil or if registration fails. Collectors already
// registered on reg, e.g. by an earlier New, are reused.
func New(reg prometheus.Registerer, namespace, subsystem string) (*PromObserver, error) {
	if reg == nil {
		return nil, errors.New("prometheus registerer is nil")
	}

	po := &PromObserver{
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: subsystem,
			Name: "events_total", Help: "Field events applied, by event and mode before the event",
		}, []string{"event", "mode"}),

		notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: subsystem,
			Name: "notifications_total", Help: "Notifications emitted to listeners, by kind",
		}, []string{"kind"}),

		queued: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: subsystem,
			Name: "queued_external_values_total", Help: "External values deferred until blur",
		}),

		rejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: subsystem,
			Name: "rejected_events_total", Help: "Events ignored or refused, by event and reason",
		}, []string{"event", "reason"}),
	}

	var err error
	if po.events, err = registerCollector(reg, po.events); err != nil {
		return nil, err
	}
	if po.notifications, err = registerCollector(reg, po.notifications); err != nil {
		return nil, err
	}
	if po.queued, err = registerCollector(reg, po.queued); err != nil {
		return nil, err
	}
	if po.rejected, err = registerCollector(reg, po.rejected); err != nil {
		return nil, err
	}
	return po, nil
}

func (p *PromObserver) ObserveEvent(event string, mode field.Mode) {
	p.events.WithLabelValues(event, mode.String()).Inc()
}

func (p *PromObserver) ObserveNotification(kind field.Kind) {
	p.notifications.WithLabelValues(string(kind)).Inc()
}

func (p *PromObserver) ObserveQueued() { p.queued.Inc() }

func (p *PromObserver) ObserveRejected(event, reason string) {
	p.rejected.WithLabelValues(event, reason).Inc()
}
