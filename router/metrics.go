package router

import (
	"github.com/custodia-chain/router/helper/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

const subsystem = "router"

// Metrics represents the engine metrics
type Metrics struct {
	// Verified actions
	actionsVerified prometheus.Counter
	// Rejected actions
	actionsRejected prometheus.Counter
	// Executed batches
	batchesExecuted prometheus.Counter
	// Succeeded batch instructions
	instructionsSucceeded prometheus.Counter
	// Failed batch instructions
	instructionsFailed prometheus.Counter
	// Accepted in-instructions
	inInstructions prometheus.Counter
	// Escape sweeps
	escapes prometheus.Counter
	// Next nonce
	nextNonce prometheus.Gauge
}

func (m *Metrics) ActionVerifiedInc() {
	metrics.CounterInc(m.actionsVerified)
}

func (m *Metrics) ActionRejectedInc() {
	metrics.CounterInc(m.actionsRejected)
}

func (m *Metrics) BatchExecutedInc() {
	metrics.CounterInc(m.batchesExecuted)
}

func (m *Metrics) InstructionsObserve(succeeded, failed int) {
	metrics.AddCounter(m.instructionsSucceeded, float64(succeeded))
	metrics.AddCounter(m.instructionsFailed, float64(failed))
}

func (m *Metrics) InInstructionInc() {
	metrics.CounterInc(m.inInstructions)
}

func (m *Metrics) EscapeInc() {
	metrics.CounterInc(m.escapes)
}

func (m *Metrics) SetNextNonce(v float64) {
	metrics.SetGauge(m.nextNonce, v)
}

// GetPrometheusMetrics return the engine metrics instance
func GetPrometheusMetrics(namespace string, labelsWithValues ...string) *Metrics {
	constLabels := metrics.ParseLables(labelsWithValues...)

	m := &Metrics{
		actionsVerified: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Subsystem:   subsystem,
			Name:        "actions_verified",
			Help:        "Successfully verified authorized actions",
			ConstLabels: constLabels,
		}),
		actionsRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Subsystem:   subsystem,
			Name:        "actions_rejected",
			Help:        "Rejected authorized actions",
			ConstLabels: constLabels,
		}),
		batchesExecuted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Subsystem:   subsystem,
			Name:        "batches_executed",
			Help:        "Executed batches",
			ConstLabels: constLabels,
		}),
		instructionsSucceeded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Subsystem:   subsystem,
			Name:        "instructions_succeeded",
			Help:        "Succeeded batch instructions",
			ConstLabels: constLabels,
		}),
		instructionsFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Subsystem:   subsystem,
			Name:        "instructions_failed",
			Help:        "Failed batch instructions",
			ConstLabels: constLabels,
		}),
		inInstructions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Subsystem:   subsystem,
			Name:        "in_instructions",
			Help:        "Accepted in-instructions",
			ConstLabels: constLabels,
		}),
		escapes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Subsystem:   subsystem,
			Name:        "escapes",
			Help:        "Escape sweeps",
			ConstLabels: constLabels,
		}),
		nextNonce: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   namespace,
			Subsystem:   subsystem,
			Name:        "next_nonce",
			Help:        "Next action nonce",
			ConstLabels: constLabels,
		}),
	}

	prometheus.MustRegister(
		m.actionsVerified,
		m.actionsRejected,
		m.batchesExecuted,
		m.instructionsSucceeded,
		m.instructionsFailed,
		m.inInstructions,
		m.escapes,
		m.nextNonce,
	)

	return m
}

// NilMetrics returns a no-op metrics instance
func NilMetrics() *Metrics {
	return &Metrics{}
}
