package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// ComboMetrics counts combo session activity.
type ComboMetrics struct {
	mutations     *prometheus.CounterVec
	persistFails  *prometheus.CounterVec
	verifications *prometheus.CounterVec
	finalize      *prometheus.CounterVec
}

// NewComboMetrics registers the combo metrics on the provided registerer.
// A nil registerer yields a no-op recorder.
func NewComboMetrics(reg prometheus.Registerer) *ComboMetrics {
	if reg == nil {
		return &ComboMetrics{}
	}
	mutations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "combo_mutations_total",
		Help: "Combo session mutations by operation.",
	}, []string{"op"})
	persistFails := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "combo_persistence_failures_total",
		Help: "Combo session slot reads/writes that failed.",
	}, []string{"op"})
	verifications := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pincode_verifications_total",
		Help: "Pincode verification outcomes.",
	}, []string{"result"})
	finalize := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "combo_finalize_total",
		Help: "Combo finalize attempts by outcome.",
	}, []string{"result"})
	reg.MustRegister(mutations, persistFails, verifications, finalize)
	return &ComboMetrics{
		mutations:     mutations,
		persistFails:  persistFails,
		verifications: verifications,
		finalize:      finalize,
	}
}

// IncMutation counts one applied mutation.
func (c *ComboMetrics) IncMutation(op string) {
	if c == nil || c.mutations == nil {
		return
	}
	c.mutations.WithLabelValues(normalizeLabel(op)).Inc()
}

// IncPersistenceFailure counts a failed load, save or clear.
func (c *ComboMetrics) IncPersistenceFailure(op string) {
	if c == nil || c.persistFails == nil {
		return
	}
	c.persistFails.WithLabelValues(normalizeLabel(op)).Inc()
}

// IncVerification counts a verification outcome (available, unavailable, invalid, stale, error).
func (c *ComboMetrics) IncVerification(result string) {
	if c == nil || c.verifications == nil {
		return
	}
	c.verifications.WithLabelValues(normalizeLabel(result)).Inc()
}

// IncFinalize counts a finalize outcome (submitted, preview, failed).
func (c *ComboMetrics) IncFinalize(result string) {
	if c == nil || c.finalize == nil {
		return
	}
	c.finalize.WithLabelValues(normalizeLabel(result)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
