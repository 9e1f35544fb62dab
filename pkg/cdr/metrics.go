package cdr

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "cdr"

type metrics struct {
	calls     *prometheus.CounterVec
	failures  *prometheus.CounterVec
	callbacks *prometheus.CounterVec
	panics    *prometheus.CounterVec
}

func newMetrics(reg prometheus.Registerer) (*metrics, error) {
	m := &metrics{
		calls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "native_calls_total",
			Help:      "Calls into the CDR library by operation.",
		}, []string{"op"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "native_failures_total",
			Help:      "CDR library calls that returned a failure code, by operation.",
		}, []string{"op"}),
		callbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "callbacks_total",
			Help:      "Callbacks invoked by the CDR library, by kind.",
		}, []string{"kind"}),
		panics: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "callback_panics_total",
			Help:      "Callbacks that panicked and were recovered, by kind.",
		}, []string{"kind"}),
	}
	if reg == nil {
		return m, nil
	}

	var err error
	for _, c := range []**prometheus.CounterVec{&m.calls, &m.failures, &m.callbacks, &m.panics} {
		if *c, err = register(reg, *c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// register adds c to reg, reusing an identical collector that another Library
// registered earlier.
func register(reg prometheus.Registerer, c *prometheus.CounterVec) (*prometheus.CounterVec, error) {
	err := reg.Register(c)
	if err == nil {
		return c, nil
	}
	var are prometheus.AlreadyRegisteredError
	if errors.As(err, &are) {
		if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
			return existing, nil
		}
	}
	return nil, err
}

func (m *metrics) call(op string, failed bool) {
	m.calls.WithLabelValues(op).Inc()
	if failed {
		m.failures.WithLabelValues(op).Inc()
	}
}

func (m *metrics) callback(kind string) {
	m.callbacks.WithLabelValues(kind).Inc()
}

func (m *metrics) panicked(kind string) {
	m.panics.WithLabelValues(kind).Inc()
}
